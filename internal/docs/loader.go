package docs

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	tderrors "github.com/touchdocs/tdmcp/internal/errors"
)

// LoadResult summarizes a catalog load.
type LoadResult struct {
	Documents []*Document
	Skipped   int
	Files     int
}

// Loader reads JSON catalogs (one array of document records per file)
// from a docs directory. Malformed individual records are skipped with a
// warning, not fatal, so a handful of bad scrapes cannot poison a load.
type Loader struct {
	dir    string
	logger *slog.Logger
}

// NewLoader creates a loader for the given docs directory.
func NewLoader(dir string, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{dir: dir, logger: logger}
}

// Load reads every *.json catalog under the docs directory.
func (l *Loader) Load() (*LoadResult, error) {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return nil, tderrors.PersistenceError(tderrors.ErrCodeCatalogRead,
			fmt.Sprintf("read docs directory %s", l.dir), err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".json") {
			continue
		}
		files = append(files, filepath.Join(l.dir, e.Name()))
	}
	sort.Strings(files)

	result := &LoadResult{}
	for _, f := range files {
		docs, skipped, err := l.LoadFile(f)
		if err != nil {
			// A whole unreadable file is logged and skipped; the load
			// continues with the remaining catalogs.
			l.logger.Warn("catalog unreadable",
				slog.String("file", f),
				slog.String("error", err.Error()))
			continue
		}
		result.Documents = append(result.Documents, docs...)
		result.Skipped += skipped
		result.Files++
	}

	return result, nil
}

// LoadFile reads a single catalog file and returns its valid documents
// plus the count of skipped malformed records.
func (l *Loader) LoadFile(path string) ([]*Document, int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, 0, tderrors.Wrap(tderrors.ErrCodeCatalogRead, err)
	}

	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, 0, tderrors.PersistenceError(tderrors.ErrCodeCatalogRead,
			fmt.Sprintf("parse catalog %s", path), err)
	}

	docs := make([]*Document, 0, len(raws))
	skipped := 0
	for i, raw := range raws {
		var d Document
		if err := json.Unmarshal(raw, &d); err != nil {
			l.logger.Warn("skipping malformed record",
				slog.String("file", path),
				slog.Int("index", i),
				slog.String("error", err.Error()))
			skipped++
			continue
		}

		d.EnsureID()
		if err := d.Validate(); err != nil {
			l.logger.Warn("skipping invalid record",
				slog.String("file", path),
				slog.Int("index", i),
				slog.String("error", err.Error()))
			skipped++
			continue
		}
		docs = append(docs, &d)
	}

	return docs, skipped, nil
}

// Package docs defines the TouchDesigner documentation record model and
// loads scraped JSON catalogs from disk.
package docs

import (
	"encoding/json"
	"fmt"
	"strings"

	tderrors "github.com/touchdocs/tdmcp/internal/errors"
)

// Category is an operator family or non-operator documentation group.
type Category string

const (
	CategoryCHOP Category = "CHOP"
	CategoryTOP  Category = "TOP"
	CategorySOP  Category = "SOP"
	CategoryDAT  Category = "DAT"
	CategoryMAT  Category = "MAT"
	CategoryCOMP Category = "COMP"
	CategoryPOP  Category = "POP"

	// Non-operator documentation groups.
	CategoryTutorial Category = "Tutorial"
	CategoryPython   Category = "Python"
)

// Categories lists every valid category.
var Categories = []Category{
	CategoryCHOP, CategoryTOP, CategorySOP, CategoryDAT,
	CategoryMAT, CategoryCOMP, CategoryPOP,
	CategoryTutorial, CategoryPython,
}

// ValidCategory reports whether s names a known category.
func ValidCategory(s string) bool {
	for _, c := range Categories {
		if string(c) == s {
			return true
		}
	}
	return false
}

// Parameter is a single operator parameter. Parameters are individually
// searchable.
type Parameter struct {
	Name         string `json:"name"`
	Type         string `json:"type,omitempty"`
	DefaultValue string `json:"defaultValue,omitempty"`
	Description  string `json:"description,omitempty"`
	Group        string `json:"group,omitempty"`
}

// Document is one indexed entity: an operator, tutorial, or API page.
// The indexed fields are a closed set; unknown source JSON fields are
// preserved opaquely in Extra for round-trip fidelity.
type Document struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	DisplayName string      `json:"displayName,omitempty"`
	Category    Category    `json:"category"`
	Subcategory string      `json:"subcategory,omitempty"`
	Description string      `json:"description,omitempty"`
	Summary     string      `json:"summary,omitempty"`
	Details     string      `json:"details,omitempty"`
	Parameters  []Parameter `json:"parameters,omitempty"`
	Keywords    []string    `json:"keywords,omitempty"`
	Tags        []string    `json:"tags,omitempty"`

	// Extra holds unrecognized source fields, keyed by their JSON name.
	Extra map[string]json.RawMessage `json:"-"`
}

// knownFields are the JSON keys consumed by the typed Document fields.
var knownFields = map[string]struct{}{
	"id": {}, "name": {}, "displayName": {}, "category": {},
	"subcategory": {}, "description": {}, "summary": {}, "details": {},
	"parameters": {}, "keywords": {}, "tags": {},
}

// UnmarshalJSON decodes a document while capturing unknown fields.
func (d *Document) UnmarshalJSON(data []byte) error {
	type plain Document
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for k := range knownFields {
		delete(raw, k)
	}

	*d = Document(p)
	if len(raw) > 0 {
		d.Extra = raw
	}
	return nil
}

// MarshalJSON encodes a document, folding Extra fields back in.
func (d Document) MarshalJSON() ([]byte, error) {
	type plain Document
	data, err := json.Marshal(plain(d))
	if err != nil {
		return nil, err
	}
	if len(d.Extra) == 0 {
		return data, nil
	}

	var merged map[string]json.RawMessage
	if err := json.Unmarshal(data, &merged); err != nil {
		return nil, err
	}
	for k, v := range d.Extra {
		if _, known := knownFields[k]; !known {
			merged[k] = v
		}
	}
	return json.Marshal(merged)
}

// DeriveID builds the stable document id from name and category.
// The id must not change across re-indexing runs.
func DeriveID(name string, category Category) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = strings.ReplaceAll(slug, " ", "_")
	return fmt.Sprintf("%s_%s", slug, strings.ToLower(string(category)))
}

// EnsureID fills in the derived id when the source record omits one.
func (d *Document) EnsureID() {
	if d.ID == "" && d.Name != "" && d.Category != "" {
		d.ID = DeriveID(d.Name, d.Category)
	}
}

// Validate checks the required fields. The returned error carries the
// validation code identifying the missing field.
func (d *Document) Validate() error {
	if strings.TrimSpace(d.ID) == "" {
		return tderrors.ValidationError(tderrors.ErrCodeDocMissingID, "document has no id")
	}
	if strings.TrimSpace(d.Name) == "" {
		return tderrors.ValidationError(tderrors.ErrCodeDocMissingName,
			fmt.Sprintf("document %s has no name", d.ID))
	}
	if !ValidCategory(string(d.Category)) {
		return tderrors.ValidationError(tderrors.ErrCodeDocMissingCategory,
			fmt.Sprintf("document %s has unknown category %q", d.ID, d.Category))
	}
	return nil
}

// Label returns the display name, falling back to the name.
func (d *Document) Label() string {
	if d.DisplayName != "" {
		return d.DisplayName
	}
	return d.Name
}

package search

import (
	"strings"

	"github.com/touchdocs/tdmcp/internal/docs"
	"github.com/touchdocs/tdmcp/internal/index"
)

// fieldTextsFor maps a document's record fields onto the indexed field
// set. Parameter names and descriptions index together so either form
// of a parameter lookup finds the operator.
func fieldTextsFor(doc *docs.Document) index.FieldTexts {
	var params strings.Builder
	for _, p := range doc.Parameters {
		params.WriteString(p.Name)
		params.WriteByte(' ')
		params.WriteString(p.Description)
		params.WriteByte(' ')
	}

	keywords := strings.Join(doc.Keywords, " ")
	if len(doc.Tags) > 0 {
		keywords += " " + strings.Join(doc.Tags, " ")
	}

	return index.FieldTexts{
		index.FieldName:        strings.TrimSpace(doc.Name + " " + doc.DisplayName),
		index.FieldCategory:    strings.TrimSpace(string(doc.Category) + " " + doc.Subcategory),
		index.FieldDescription: strings.TrimSpace(doc.Description + " " + doc.Summary),
		index.FieldParameter:   strings.TrimSpace(params.String()),
		index.FieldKeyword:     strings.TrimSpace(keywords),
		index.FieldContent:     doc.Details,
	}
}

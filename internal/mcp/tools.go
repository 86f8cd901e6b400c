package mcp

// SearchOperatorsInput defines the input schema for search_operators.
type SearchOperatorsInput struct {
	Query    string   `json:"query" jsonschema:"the search query, e.g. 'noise chop' or 'audio filter'"`
	Category string   `json:"category,omitempty" jsonschema:"restrict to one operator family: CHOP, TOP, SOP, DAT, MAT, COMP, POP, Tutorial, Python"`
	Tags     []string `json:"tags,omitempty" jsonschema:"require every listed tag on a result"`
	Limit    int      `json:"limit,omitempty" jsonschema:"maximum number of results, default 50"`
	Fuzzy    bool     `json:"fuzzy,omitempty" jsonschema:"enable fuzzy term matching even when exact matches exist"`
}

// SearchResultOutput is one scored hit.
type SearchResultOutput struct {
	ID       string  `json:"id" jsonschema:"stable document id, e.g. noise_chop"`
	Name     string  `json:"name" jsonschema:"operator display name"`
	Category string  `json:"category" jsonschema:"operator family"`
	Score    float64 `json:"score" jsonschema:"relevance score, higher is better"`
	Snippet  string  `json:"snippet,omitempty" jsonschema:"short description excerpt"`
}

// SearchOperatorsOutput defines the output schema for search_operators.
type SearchOperatorsOutput struct {
	Results      []SearchResultOutput `json:"results"`
	TotalResults int                  `json:"total_results" jsonschema:"total matches before the limit was applied"`
	SearchTimeMS int64                `json:"search_time_ms"`
	QueryType    string               `json:"query_type" jsonschema:"how the query was classified"`
	Facets       map[string]int       `json:"facets,omitempty" jsonschema:"match counts per operator family"`
	Suggestions  []string             `json:"suggestions,omitempty" jsonschema:"alternative queries, present when nothing matched"`
}

// GetOperatorInfoInput defines the input schema for get_operator_info.
type GetOperatorInfoInput struct {
	ID string `json:"id" jsonschema:"document id, e.g. noise_chop; use search_operators to discover ids"`
}

// GetOperatorInfoOutput defines the output schema for get_operator_info.
type GetOperatorInfoOutput struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Category    string            `json:"category"`
	Description string            `json:"description,omitempty"`
	Markdown    string            `json:"markdown" jsonschema:"full document formatted as markdown"`
	Parameters  []ParameterOutput `json:"parameters,omitempty"`
	Keywords    []string          `json:"keywords,omitempty"`
}

// ParameterOutput is one operator parameter.
type ParameterOutput struct {
	Name         string `json:"name"`
	Type         string `json:"type,omitempty"`
	DefaultValue string `json:"default_value,omitempty"`
	Description  string `json:"description,omitempty"`
	Group        string `json:"group,omitempty"`
}

// ListCategoriesInput defines the input schema for list_categories.
type ListCategoriesInput struct{}

// CategoryCount is a category and its indexed document count.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// ListCategoriesOutput defines the output schema for list_categories.
type ListCategoriesOutput struct {
	Categories []CategoryCount `json:"categories"`
	Total      int             `json:"total" jsonschema:"total indexed documents"`
}

// GetSuggestionsInput defines the input schema for get_suggestions.
type GetSuggestionsInput struct {
	Partial string `json:"partial,omitempty" jsonschema:"partial query to complete; empty returns popular queries"`
}

// GetSuggestionsOutput defines the output schema for get_suggestions.
type GetSuggestionsOutput struct {
	Suggestions []string `json:"suggestions"`
}

// IndexStatusInput defines the input schema for index_status.
type IndexStatusInput struct{}

// IndexStatusOutput defines the output schema for index_status.
type IndexStatusOutput struct {
	State         string         `json:"state" jsonschema:"engine lifecycle state"`
	DocumentCount int            `json:"document_count"`
	TermCount     int            `json:"term_count"`
	Facets        map[string]int `json:"facets,omitempty"`
	LastIndexedAt string         `json:"last_indexed_at,omitempty"`
	LastSavedAt   string         `json:"last_saved_at,omitempty"`
	TotalQueries  int64          `json:"total_queries"`
}

// UpdateIndexInput defines the input schema for update_index.
type UpdateIndexInput struct{}

// UpdateIndexOutput defines the output schema for update_index.
type UpdateIndexOutput struct {
	Indexed int `json:"indexed"`
	Skipped int `json:"skipped"`
	Errored int `json:"errored"`
}

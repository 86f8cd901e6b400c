package mcp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/touchdocs/tdmcp/internal/docs"
	"github.com/touchdocs/tdmcp/internal/search"
	"github.com/touchdocs/tdmcp/internal/telemetry"
	"github.com/touchdocs/tdmcp/pkg/version"
)

// Server bridges AI clients with the operator search engine over MCP.
type Server struct {
	mcp     *mcp.Server
	engine  *search.Engine
	loader  *docs.Loader
	metrics *telemetry.Metrics
	logger  *slog.Logger
}

// NewServer creates the MCP server and registers its tools. The loader
// may be nil, in which case update_index reports invalid params.
func NewServer(engine *search.Engine, loader *docs.Loader, metrics *telemetry.Metrics, logger *slog.Logger) (*Server, error) {
	if engine == nil {
		return nil, errors.New("search engine is required")
	}
	if metrics == nil {
		metrics = telemetry.NewMetrics()
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		engine:  engine,
		loader:  loader,
		metrics: metrics,
		logger:  logger,
	}

	s.mcp = mcp.NewServer(
		&mcp.Implementation{
			Name:    "tdmcp",
			Version: version.Version,
		},
		nil,
	)

	s.registerTools()
	return s, nil
}

// MCPServer returns the underlying MCP server instance.
func (s *Server) MCPServer() *mcp.Server {
	return s.mcp
}

// Serve runs the server until the context is cancelled.
func (s *Server) Serve(ctx context.Context, transport string) error {
	s.logger.Info("starting MCP server", "transport", transport)

	switch transport {
	case "stdio":
		err := s.mcp.Run(ctx, &mcp.StdioTransport{})
		if err != nil && !errors.Is(err, context.Canceled) {
			s.logger.Error("MCP server stopped with error", "error", err)
			return err
		}
		s.logger.Info("MCP server stopped")
		return nil
	default:
		return fmt.Errorf("unknown transport: %s (supported: stdio)", transport)
	}
}

func (s *Server) registerTools() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "search_operators",
		Description: "Search TouchDesigner operators, tutorials and Python docs by name, parameter, keyword or description. Supports category filtering (CHOP, TOP, SOP, DAT, MAT, COMP, POP) and fuzzy matching for typos.",
	}, s.searchOperatorsHandler)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "get_operator_info",
		Description: "Get the full documentation for one operator by id, including all parameters, formatted as markdown. Use search_operators first to find ids.",
	}, s.getOperatorInfoHandler)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "list_categories",
		Description: "List every operator family with its indexed document count.",
	}, s.listCategoriesHandler)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "get_suggestions",
		Description: "Get query completions for a partial search, drawn from popular queries and indexed terms.",
	}, s.getSuggestionsHandler)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "index_status",
		Description: "Check index health: lifecycle state, document and term counts, per-category breakdown and query statistics.",
	}, s.indexStatusHandler)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "update_index",
		Description: "Reload the documentation catalogs from disk and rebuild the index. Use after scraping new docs.",
	}, s.updateIndexHandler)

	s.logger.Info("MCP tools registered", "count", 6)
}

func (s *Server) searchOperatorsHandler(ctx context.Context, _ *mcp.CallToolRequest, input SearchOperatorsInput) (
	*mcp.CallToolResult,
	SearchOperatorsOutput,
	error,
) {
	resp, err := s.engine.Search(ctx, input.Query, search.Options{
		Category: input.Category,
		Tags:     input.Tags,
		Limit:    input.Limit,
		Fuzzy:    input.Fuzzy,
	})
	if err != nil {
		return nil, SearchOperatorsOutput{}, MapError(err)
	}

	output := SearchOperatorsOutput{
		Results:      make([]SearchResultOutput, 0, len(resp.Results)),
		TotalResults: resp.TotalResults,
		SearchTimeMS: resp.SearchTime.Milliseconds(),
		QueryType:    string(resp.QueryType),
		Facets:       resp.Facets,
		Suggestions:  resp.Suggestions,
	}
	for _, r := range resp.Results {
		output.Results = append(output.Results, SearchResultOutput{
			ID:       r.ID,
			Name:     r.Name,
			Category: r.Category,
			Score:    r.Score,
			Snippet:  r.Snippet,
		})
	}
	return nil, output, nil
}

func (s *Server) getOperatorInfoHandler(_ context.Context, _ *mcp.CallToolRequest, input GetOperatorInfoInput) (
	*mcp.CallToolResult,
	GetOperatorInfoOutput,
	error,
) {
	if input.ID == "" {
		return nil, GetOperatorInfoOutput{}, NewInvalidParamsError("id parameter is required")
	}

	doc := s.engine.Document(input.ID)
	if doc == nil {
		return nil, GetOperatorInfoOutput{}, NewDocumentNotFoundError(input.ID)
	}

	output := GetOperatorInfoOutput{
		ID:          doc.ID,
		Name:        doc.Label(),
		Category:    string(doc.Category),
		Description: doc.Description,
		Markdown:    FormatDocument(doc),
		Keywords:    doc.Keywords,
	}
	for _, p := range doc.Parameters {
		output.Parameters = append(output.Parameters, ParameterOutput{
			Name:         p.Name,
			Type:         p.Type,
			DefaultValue: p.DefaultValue,
			Description:  p.Description,
			Group:        p.Group,
		})
	}
	return nil, output, nil
}

func (s *Server) listCategoriesHandler(_ context.Context, _ *mcp.CallToolRequest, _ ListCategoriesInput) (
	*mcp.CallToolResult,
	ListCategoriesOutput,
	error,
) {
	counts := s.engine.Categories()

	output := ListCategoriesOutput{Categories: make([]CategoryCount, 0, len(counts))}
	for _, cat := range docs.Categories {
		n, ok := counts[string(cat)]
		if !ok {
			continue
		}
		output.Categories = append(output.Categories, CategoryCount{Category: string(cat), Count: n})
		output.Total += n
	}
	return nil, output, nil
}

func (s *Server) getSuggestionsHandler(_ context.Context, _ *mcp.CallToolRequest, input GetSuggestionsInput) (
	*mcp.CallToolResult,
	GetSuggestionsOutput,
	error,
) {
	return nil, GetSuggestionsOutput{Suggestions: s.engine.Suggestions(input.Partial)}, nil
}

func (s *Server) indexStatusHandler(_ context.Context, _ *mcp.CallToolRequest, _ IndexStatusInput) (
	*mcp.CallToolResult,
	IndexStatusOutput,
	error,
) {
	status := s.engine.Status()

	output := IndexStatusOutput{
		State:         string(status.State),
		DocumentCount: status.DocumentCount,
		TermCount:     status.TermCount,
		Facets:        status.Facets,
		TotalQueries:  s.metrics.Snapshot().TotalQueries,
	}
	if !status.LastIndexedAt.IsZero() {
		output.LastIndexedAt = status.LastIndexedAt.Format(time.RFC3339)
	}
	if !status.LastSavedAt.IsZero() {
		output.LastSavedAt = status.LastSavedAt.Format(time.RFC3339)
	}
	return nil, output, nil
}

func (s *Server) updateIndexHandler(ctx context.Context, _ *mcp.CallToolRequest, _ UpdateIndexInput) (
	*mcp.CallToolResult,
	UpdateIndexOutput,
	error,
) {
	if s.loader == nil {
		return nil, UpdateIndexOutput{}, NewInvalidParamsError("no documentation directory configured")
	}

	loaded, err := s.loader.Load()
	if err != nil {
		return nil, UpdateIndexOutput{}, MapError(err)
	}

	result, err := s.engine.IndexDocuments(ctx, loaded.Documents, nil)
	if err != nil {
		return nil, UpdateIndexOutput{}, MapError(err)
	}

	s.logger.Info("index updated via MCP",
		"indexed", result.Indexed, "errored", result.Errored, "skipped", result.Skipped+loaded.Skipped)

	return nil, UpdateIndexOutput{
		Indexed: result.Indexed,
		Skipped: result.Skipped + loaded.Skipped,
		Errored: result.Errored,
	}, nil
}

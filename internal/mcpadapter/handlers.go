package mcpadapter

import (
	"context"
	"fmt"

	"github.com/go-gota/gota/dataframe"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/povarna/iris-pipeline/internal/database"
	"github.com/povarna/iris-pipeline/internal/models"
)

const (
	ValidateToolName    = "validate_iris_csv"
	ListReportsToolName = "list_validation_reports"
)

type RequestValidator interface {
	ValidateRequest(ctx context.Context, req models.ValidationRequest) (dataframe.DataFrame, models.ValidationReport, error)
}

type ReportLister interface {
	ListReports(ctx context.Context, limit int) ([]models.ValidationReport, error)
}

// ValidateInput is the MCP tool input schema (matches HTTP API field names).
type ValidateInput struct {
	EventID string `json:"event_id,omitempty" jsonschema:"unique request identifier, generated when empty"`
	Source  string `json:"source,omitempty" jsonschema:"where the data came from"`
	CSV     string `json:"csv" jsonschema:"Iris CSV document with a header row"`
}

type ListReportsInput struct {
	Limit int `json:"limit,omitempty" jsonschema:"maximum number of reports (default: 20)"`
}

type ListReportsOutput struct {
	Reports []models.ValidationReport `json:"reports"`
}

// NewValidateHandler returns a tool handler that uses the given validator.
// A failed check is not a tool error: the report carries the failure. The
// output is typed as any so no output schema is derived from the report's
// time fields. Pass the returned function to mcp.AddTool.
func NewValidateHandler(v RequestValidator) func(context.Context, *mcp.CallToolRequest, ValidateInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input ValidateInput) (*mcp.CallToolResult, any, error) {
		if input.CSV == "" {
			return nil, nil, fmt.Errorf("csv must not be empty")
		}

		_, report, _ := v.ValidateRequest(ctx, models.ValidationRequest{
			EventID: input.EventID,
			Source:  input.Source,
			CSV:     input.CSV,
		})
		return nil, report, nil
	}
}

func NewListReportsHandler(store ReportLister) func(context.Context, *mcp.CallToolRequest, ListReportsInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input ListReportsInput) (*mcp.CallToolResult, any, error) {
		limit := input.Limit
		if limit <= 0 {
			limit = database.DefaultListLimit
		}

		reports, err := store.ListReports(ctx, limit)
		if err != nil {
			return nil, nil, err
		}
		return nil, ListReportsOutput{Reports: reports}, nil
	}
}

// NewServer registers the validation tool, plus the report listing tool
// when store is not nil.
func NewServer(v RequestValidator, store ReportLister) *mcp.Server {
	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    "iris-validator",
			Version: "1.0.0",
		}, nil,
	)

	mcp.AddTool(server, &mcp.Tool{
		Name:        ValidateToolName,
		Description: "Validate an Iris CSV document: schema, duplicates, outliers, categories, class balance, degeneracy and correlation checks",
	}, NewValidateHandler(v))

	if store != nil {
		mcp.AddTool(server, &mcp.Tool{
			Name:        ListReportsToolName,
			Description: "List the most recent stored validation reports",
		}, NewListReportsHandler(store))
	}
	return server
}

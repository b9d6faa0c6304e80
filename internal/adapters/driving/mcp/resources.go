package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/reportrag/internal/core/domain"
)

const uriScheme = "reportrag://"

// registerResources registers the report listing and report content resources.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "reports",
		Name:        "reports",
		Description: "Indexed industry monitoring reports",
		MIMEType:    "application/json",
	}, s.handleReportsResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "reports/{reportId}",
		Name:        "report-content",
		Description: "Normalised text of an indexed report",
		MIMEType:    "text/markdown",
	}, s.handleReportContentResource)
}

type reportInfo struct {
	ID       string          `json:"id"`
	Title    string          `json:"title"`
	URI      string          `json:"uri"`
	Metadata domain.Metadata `json:"metadata,omitempty"`
}

func (s *Server) handleReportsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Index == nil {
		return jsonResult(req.Params.URI, "[]"), nil
	}

	reports, err := s.ports.Index.ListReports(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing reports: %w", err)
	}

	infos := make([]reportInfo, len(reports))
	for i := range reports {
		infos[i] = reportInfo{
			ID:       reports[i].ID,
			Title:    reports[i].Title,
			URI:      reports[i].URI,
			Metadata: reports[i].Metadata,
		}
	}

	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling reports: %w", err)
	}
	return jsonResult(req.Params.URI, string(data)), nil
}

func (s *Server) handleReportContentResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Index == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	reportID := extractReportID(req.Params.URI)
	if reportID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	reports, err := s.ports.Index.ListReports(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing reports: %w", err)
	}
	for i := range reports {
		if reports[i].ID == reportID {
			return &mcp.ReadResourceResult{
				Contents: []*mcp.ResourceContents{{
					URI:      req.Params.URI,
					MIMEType: "text/markdown",
					Text:     reports[i].Content,
				}},
			}, nil
		}
	}
	return nil, mcp.ResourceNotFoundError(req.Params.URI)
}

func jsonResult(uri, text string) *mcp.ReadResourceResult {
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     text,
		}},
	}
}

// extractReportID extracts the ID from a URI like reportrag://reports/{reportId}.
func extractReportID(uri string) string {
	const prefix = uriScheme + "reports/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}
	id := strings.TrimPrefix(uri, prefix)
	if strings.Contains(id, "/") {
		return ""
	}
	return id
}

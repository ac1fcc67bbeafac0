// Package mcpserver exposes the interaction checker as Model Context Protocol
// tools so assistant clients can run the same checks as the HTTP API.
package mcpserver

import (
	"encoding/json"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/giygas/medisync-api/interfaces"
)

const (
	serverName    = "medisync-mcp"
	serverVersion = "v1.0.0"
)

// Server wraps an MCP server whose tools call the interaction checker.
type Server struct {
	checker   interfaces.InteractionChecker
	validator interfaces.RequestValidator
	mcpServer *mcp.Server
}

// NewServer creates the MCP server and registers its tools
func NewServer(checker interfaces.InteractionChecker, validator interfaces.RequestValidator) *Server {
	s := &Server{
		checker:   checker,
		validator: validator,
	}

	s.mcpServer = mcp.NewServer(
		&mcp.Implementation{
			Name:    serverName,
			Version: serverVersion,
		},
		nil,
	)

	s.registerTools()

	return s
}

// Handler returns the SSE handler serving both the event stream (GET) and messages (POST).
func (s *Server) Handler() http.Handler {
	return mcp.NewSSEHandler(func(r *http.Request) *mcp.Server {
		return s.mcpServer
	}, nil)
}

// MCPServer returns the underlying SDK server.
func (s *Server) MCPServer() *mcp.Server {
	return s.mcpServer
}

func (s *Server) registerTools() {
	mcp.AddTool(s.mcpServer,
		&mcp.Tool{
			Name:        "check_drug_interactions",
			Description: "Check every pair of 2 to 10 drugs for known interactions. Returns the overall risk, each pair's severity, a graph view, a narrative summary, and dosage and contraindication warnings when doses or patient conditions are given.",
			InputSchema: json.RawMessage(`{
				"type": "object",
				"properties": {
					"drugs": {
						"type": "array",
						"items": {"type": "string"},
						"description": "Drug names, case-insensitive. Between 2 and 10 distinct drugs."
					},
					"drug_doses": {
						"type": "array",
						"description": "Optional daily doses to compare against maximum daily doses.",
						"items": {
							"type": "object",
							"properties": {
								"drug": {"type": "string"},
								"daily_dose": {"type": ["number", "string"]}
							}
						}
					},
					"patient_context": {
						"type": "object",
						"description": "Optional patient conditions, e.g. {\"pregnancy\": true, \"renal_impairment\": true}."
					}
				},
				"required": ["drugs"]
			}`),
		},
		s.handleCheckInteractions,
	)

	mcp.AddTool(s.mcpServer,
		&mcp.Tool{
			Name:        "check_drug_pair",
			Description: "Look up the interaction between exactly two drugs. Pairs without data are reported with severity Unknown.",
			InputSchema: json.RawMessage(`{
				"type": "object",
				"properties": {
					"drug1": {
						"type": "string",
						"description": "First drug name."
					},
					"drug2": {
						"type": "string",
						"description": "Second drug name."
					}
				},
				"required": ["drug1", "drug2"]
			}`),
		},
		s.handleCheckPair,
	)

	mcp.AddTool(s.mcpServer,
		&mcp.Tool{
			Name:        "lookup_drug",
			Description: "Return what the dataset knows about one drug: its interaction count, maximum daily dose and contraindicated conditions.",
			InputSchema: json.RawMessage(`{
				"type": "object",
				"properties": {
					"name": {
						"type": "string",
						"description": "Drug name, case-insensitive."
					}
				},
				"required": ["name"]
			}`),
		},
		s.handleLookupDrug,
	)
}

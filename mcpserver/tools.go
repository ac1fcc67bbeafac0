package mcpserver

import (
	"context"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/giygas/medisync-api/checker"
	"github.com/giygas/medisync-api/entities"
	"github.com/giygas/medisync-api/handlers"
	"github.com/giygas/medisync-api/logging"
	"github.com/giygas/medisync-api/metrics"
)

// CheckInteractionsInput is the input of the check_drug_interactions tool
type CheckInteractionsInput struct {
	Drugs          []string             `json:"drugs"`
	DrugDoses      []entities.DoseEntry `json:"drug_doses,omitempty"`
	PatientContext map[string]any       `json:"patient_context,omitempty"`
}

// CheckPairInput is the input of the check_drug_pair tool
type CheckPairInput struct {
	Drug1 string `json:"drug1"`
	Drug2 string `json:"drug2"`
}

// LookupDrugInput is the input of the lookup_drug tool
type LookupDrugInput struct {
	Name string `json:"name"`
}

func (s *Server) handleCheckInteractions(ctx context.Context, req *mcp.CallToolRequest, input CheckInteractionsInput) (*mcp.CallToolResult, entities.Report, error) {
	checkReq := entities.CheckRequest{
		Drugs:          input.Drugs,
		DrugDoses:      input.DrugDoses,
		PatientContext: entities.PatientContext(input.PatientContext),
	}

	if err := s.validator.ValidateCheckRequest(&checkReq); err != nil {
		logging.Warn("MCP check rejected", "error", err)
		metrics.RecordCheckError(handlers.KindInvalidRequest)
		return nil, entities.Report{}, fmt.Errorf("invalid request: %w", err)
	}

	report, err := s.checker.CheckInteractions(checkReq.Drugs, checkReq.DrugDoses, checkReq.PatientContext)
	if err != nil {
		logging.Info("MCP check failed", "error", err)
		metrics.RecordCheckError(errorKind(err))
		return nil, entities.Report{}, err
	}

	metrics.RecordCheck(report)
	logging.Debug("MCP check completed", "drugs", len(report.Drugs), "overall_risk", report.OverallRisk)
	return nil, *report, nil
}

func (s *Server) handleCheckPair(ctx context.Context, req *mcp.CallToolRequest, input CheckPairInput) (*mcp.CallToolResult, entities.PairResult, error) {
	for _, name := range []string{input.Drug1, input.Drug2} {
		if err := s.validator.ValidateDrugName(name); err != nil {
			return nil, entities.PairResult{}, fmt.Errorf("invalid drug name: %w", err)
		}
	}

	result, err := s.checker.CheckPair(input.Drug1, input.Drug2)
	if err != nil {
		return nil, entities.PairResult{}, err
	}
	return nil, *result, nil
}

func (s *Server) handleLookupDrug(ctx context.Context, req *mcp.CallToolRequest, input LookupDrugInput) (*mcp.CallToolResult, entities.DrugInfo, error) {
	if err := s.validator.ValidateDrugName(input.Name); err != nil {
		return nil, entities.DrugInfo{}, fmt.Errorf("invalid drug name: %w", err)
	}

	info, err := s.checker.DrugInfo(input.Name)
	if err != nil {
		return nil, entities.DrugInfo{}, err
	}
	return nil, *info, nil
}

func errorKind(err error) string {
	var checkErr *checker.CheckError
	if errors.As(err, &checkErr) {
		return string(checkErr.Kind)
	}
	return "Internal"
}

package mcpserver

import (
	"context"
	"errors"
	"sort"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/giygas/medisync-api/checker"
	"github.com/giygas/medisync-api/data"
	"github.com/giygas/medisync-api/datasets"
	"github.com/giygas/medisync-api/entities"
	"github.com/giygas/medisync-api/validation"
)

func newTestServer() *Server {
	raw := datasets.InteractionMap{
		"Ibuprofen": {
			"Warfarin": {Severity: entities.SeverityModerate, Description: "Raises bleeding risk"},
			"Digoxin":  {Severity: entities.SeverityModerate, Description: "May raise digoxin levels"},
		},
	}
	limits := map[string]entities.DosageLimit{"Ibuprofen": {MaxDailyDose: 3200, Unit: "mg"}}
	contra := map[string]entities.Contraindications{"Warfarin": {"pregnancy": "Avoid"}}

	c := checker.New(data.NewInteractionStore(raw), data.NewClinicalStore(limits, contra))
	return NewServer(c, validation.NewRequestValidator())
}

func TestHandleCheckInteractions(t *testing.T) {
	s := newTestServer()

	_, report, err := s.handleCheckInteractions(context.Background(), nil, CheckInteractionsInput{
		Drugs:          []string{"ibuprofen", "WARFARIN", "Digoxin"},
		DrugDoses:      []entities.DoseEntry{{Drug: "Ibuprofen", DailyDose: entities.NewDoseValue(4000)}},
		PatientContext: map[string]any{"pregnancy": true},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if report.TotalPairs != 3 {
		t.Errorf("TotalPairs = %d, want 3", report.TotalPairs)
	}
	if report.OverallRisk != entities.SeveritySevere {
		t.Errorf("OverallRisk = %s, want Severe (two Moderate pairs escalate)", report.OverallRisk)
	}
	if len(report.DosageWarnings) != 1 {
		t.Errorf("expected 1 dosage warning, got %d", len(report.DosageWarnings))
	}
	if len(report.ContraindicationWarnings) != 1 {
		t.Errorf("expected 1 contraindication warning, got %d", len(report.ContraindicationWarnings))
	}
}

func TestHandleCheckInteractionsErrors(t *testing.T) {
	s := newTestServer()

	tests := []struct {
		name    string
		drugs   []string
		wantErr error
	}{
		{"unknown drug", []string{"Ibuprofen", "Unobtainium"}, checker.ErrDrugNotFound},
		{"too few drugs", []string{"Ibuprofen", "ibuprofen"}, checker.ErrTooFewDrugs},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := s.handleCheckInteractions(context.Background(), nil, CheckInteractionsInput{Drugs: tt.drugs})
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	_, _, err := s.handleCheckInteractions(context.Background(), nil, CheckInteractionsInput{
		Drugs: []string{"Ibuprofen", "<script>alert(1)</script>"},
	})
	if err == nil {
		t.Error("expected validation error for unsafe drug name")
	}
}

func TestHandleCheckPair(t *testing.T) {
	s := newTestServer()

	_, result, err := s.handleCheckPair(context.Background(), nil, CheckPairInput{Drug1: "warfarin", Drug2: "ibuprofen"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.InteractionFound {
		t.Error("expected interaction to be found")
	}
	if result.Severity != entities.SeverityModerate {
		t.Errorf("Severity = %s, want Moderate", result.Severity)
	}

	_, result, err = s.handleCheckPair(context.Background(), nil, CheckPairInput{Drug1: "Warfarin", Drug2: "Digoxin"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.InteractionFound || result.Severity != entities.SeverityUnknown {
		t.Errorf("expected Unknown pair, got %+v", result)
	}

	if _, _, err := s.handleCheckPair(context.Background(), nil, CheckPairInput{Drug1: "", Drug2: "Warfarin"}); err == nil {
		t.Error("expected error for empty drug name")
	}
}

func TestHandleLookupDrug(t *testing.T) {
	s := newTestServer()

	_, info, err := s.handleLookupDrug(context.Background(), nil, LookupDrugInput{Name: "IBUPROFEN"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info.Name != "Ibuprofen" {
		t.Errorf("Name = %q, want Ibuprofen", info.Name)
	}
	if info.InteractionCount != 2 {
		t.Errorf("InteractionCount = %d, want 2", info.InteractionCount)
	}
	if !info.HasDosageLimit {
		t.Error("expected dosage limit")
	}

	_, _, err = s.handleLookupDrug(context.Background(), nil, LookupDrugInput{Name: "Unobtainium"})
	if !errors.Is(err, checker.ErrDrugNotFound) {
		t.Errorf("error = %v, want ErrDrugNotFound", err)
	}
}

func TestToolsOverInMemoryTransport(t *testing.T) {
	ctx := context.Background()
	s := newTestServer()

	serverTransport, clientTransport := mcp.NewInMemoryTransports()
	serverSession, err := s.MCPServer().Connect(ctx, serverTransport, nil)
	if err != nil {
		t.Fatalf("server connect: %v", err)
	}
	defer serverSession.Close()

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "v0.0.1"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	if err != nil {
		t.Fatalf("client connect: %v", err)
	}
	defer session.Close()

	tools, err := session.ListTools(ctx, &mcp.ListToolsParams{})
	if err != nil {
		t.Fatalf("ListTools: %v", err)
	}

	var names []string
	for _, tool := range tools.Tools {
		names = append(names, tool.Name)
	}
	sort.Strings(names)
	want := []string{"check_drug_interactions", "check_drug_pair", "lookup_drug"}
	if len(names) != len(want) {
		t.Fatalf("tools = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("tools[%d] = %q, want %q", i, names[i], want[i])
		}
	}

	res, err := session.CallTool(ctx, &mcp.CallToolParams{
		Name:      "check_drug_pair",
		Arguments: map[string]any{"drug1": "Ibuprofen", "drug2": "Warfarin"},
	})
	if err != nil {
		t.Fatalf("CallTool: %v", err)
	}
	if res.IsError {
		t.Errorf("expected successful tool call, got error result: %+v", res.Content)
	}
	if res.StructuredContent == nil {
		t.Error("expected structured content in tool result")
	}
}

// Package handlers provides the HTTP endpoints of the interaction checker.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"runtime"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/giygas/medisync-api/checker"
	"github.com/giygas/medisync-api/entities"
	"github.com/giygas/medisync-api/interfaces"
	"github.com/giygas/medisync-api/logging"
	"github.com/giygas/medisync-api/metrics"
)

// KindInvalidRequest labels malformed bodies and parameters in error responses.
const KindInvalidRequest = "InvalidRequest"

var _ interfaces.HTTPHandler = (*HTTPHandlerImpl)(nil)

// HTTPHandlerImpl implements the interfaces.HTTPHandler interface
type HTTPHandlerImpl struct {
	checker   interfaces.InteractionChecker
	validator interfaces.RequestValidator
	health    interfaces.HealthChecker
	maxBody   int64
}

// NewHTTPHandler creates a new HTTP handler with injected dependencies.
// maxBody bounds the decoded check-interactions body.
func NewHTTPHandler(checker interfaces.InteractionChecker, validator interfaces.RequestValidator,
	health interfaces.HealthChecker, maxBody int64) *HTTPHandlerImpl {
	return &HTTPHandlerImpl{
		checker:   checker,
		validator: validator,
		health:    health,
		maxBody:   maxBody,
	}
}

// ErrorResponse is the body of every error reply
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
	Kind    string `json:"kind,omitempty"`
	Drug    string `json:"drug,omitempty"`
}

// HealthResponse is the body of /health
type HealthResponse struct {
	Status string         `json:"status"`
	Data   map[string]any `json:"data"`
	System map[string]any `json:"system"`
}

// RespondWithJSON writes a JSON response
func RespondWithJSON(w http.ResponseWriter, code int, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		logging.Error("Failed to marshal JSON response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	w.Write(data)
}

// RespondWithError writes a JSON error response
func RespondWithError(w http.ResponseWriter, code int, kind, message string) {
	RespondWithJSON(w, code, ErrorResponse{
		Error:   http.StatusText(code),
		Message: message,
		Code:    code,
		Kind:    kind,
	})
}

// respondWithCheckError maps checker errors to code; anything else is a 500.
func respondWithCheckError(w http.ResponseWriter, code int, err error) {
	var checkErr *checker.CheckError
	if !errors.As(err, &checkErr) {
		logging.Error("Unexpected checker error", "error", err)
		RespondWithError(w, http.StatusInternalServerError, "", "Internal error")
		return
	}

	RespondWithJSON(w, code, ErrorResponse{
		Error:   http.StatusText(code),
		Message: checkErr.Message,
		Code:    code,
		Kind:    string(checkErr.Kind),
		Drug:    checkErr.Drug,
	})
}

// CheckInteractions handles POST /check-interactions
func (h *HTTPHandlerImpl) CheckInteractions(w http.ResponseWriter, r *http.Request) {
	if h.maxBody > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxBody)
	}

	var req entities.CheckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			RespondWithError(w, http.StatusRequestEntityTooLarge, KindInvalidRequest, "Request body too large")
			return
		}
		logging.Warn("Invalid check request body", "error", err)
		RespondWithError(w, http.StatusBadRequest, KindInvalidRequest, "Invalid JSON body: "+err.Error())
		return
	}

	if err := h.validator.ValidateCheckRequest(&req); err != nil {
		logging.Warn("Unusual user input", "error", err)
		metrics.RecordCheckError(KindInvalidRequest)
		RespondWithError(w, http.StatusBadRequest, KindInvalidRequest, err.Error())
		return
	}

	report, err := h.checker.CheckInteractions(req.Drugs, req.DrugDoses, req.PatientContext)
	if err != nil {
		metrics.RecordCheckError(errorKind(err))
		respondWithCheckError(w, http.StatusBadRequest, err)
		return
	}

	metrics.RecordCheck(report)
	RespondWithJSON(w, http.StatusOK, report)
}

// CheckPair handles GET /check-pair?drug1=&drug2=
func (h *HTTPHandlerImpl) CheckPair(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	drug1, drug2 := query.Get("drug1"), query.Get("drug2")

	if drug1 == "" || drug2 == "" {
		RespondWithError(w, http.StatusBadRequest, KindInvalidRequest, "Query parameters drug1 and drug2 are required")
		return
	}
	for _, name := range []string{drug1, drug2} {
		if err := h.validator.ValidateDrugName(name); err != nil {
			logging.Warn("Unusual user input", "drug", name, "error", err)
			RespondWithError(w, http.StatusBadRequest, KindInvalidRequest, err.Error())
			return
		}
	}

	result, err := h.checker.CheckPair(drug1, drug2)
	if err != nil {
		respondWithCheckError(w, http.StatusBadRequest, err)
		return
	}

	RespondWithJSON(w, http.StatusOK, result)
}

// DrugInfo handles GET /drug/{name}
func (h *HTTPHandlerImpl) DrugInfo(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if unescaped, err := url.PathUnescape(name); err == nil {
		name = unescaped
	}

	if err := h.validator.ValidateDrugName(name); err != nil {
		logging.Warn("Unusual user input", "drug", name, "error", err)
		RespondWithError(w, http.StatusBadRequest, KindInvalidRequest, err.Error())
		return
	}

	info, err := h.checker.DrugInfo(name)
	if err != nil {
		respondWithCheckError(w, http.StatusNotFound, err)
		return
	}

	RespondWithJSON(w, http.StatusOK, info)
}

// HealthCheck handles GET /health
func (h *HTTPHandlerImpl) HealthCheck(w http.ResponseWriter, r *http.Request) {
	status, details, httpStatus := h.health.HealthCheck()

	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	RespondWithJSON(w, httpStatus, HealthResponse{
		Status: status,
		Data:   details,
		System: map[string]any{
			"goroutines": runtime.NumGoroutine(),
			"alloc_mb":   int(m.Alloc / 1024 / 1024),
			"time":       time.Now().UTC().Format(time.RFC3339),
		},
	})
}

func errorKind(err error) string {
	var checkErr *checker.CheckError
	if errors.As(err, &checkErr) {
		return string(checkErr.Kind)
	}
	return "Internal"
}

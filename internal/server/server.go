// Package server exposes the drawdown solver over HTTP for the web UI.
package server

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/openfincalc/drawdown-forecast/internal/config"
	"github.com/openfincalc/drawdown-forecast/internal/policy"
	"github.com/openfincalc/drawdown-forecast/internal/simulation"
	"github.com/openfincalc/drawdown-forecast/internal/solver"
	"github.com/openfincalc/drawdown-forecast/pkg/constants"
	"github.com/openfincalc/drawdown-forecast/pkg/output"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

//go:embed static/*
var staticFiles embed.FS

type handler struct {
	logger        *zap.Logger
	maxUploadSize int64
	version       string
}

// NewHandler constructs the HTTP handler that serves the web UI and solve API.
func NewHandler(logger *zap.Logger, maxUploadSize int64, version string) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxUploadSize <= 0 {
		maxUploadSize = constants.DefaultMaxUploadSizeBytes
	}
	trimmedVersion := strings.TrimSpace(version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	h := &handler{logger: logger, maxUploadSize: maxUploadSize, version: trimmedVersion}

	mux := http.NewServeMux()

	// Solve API endpoint (YAML scenario, uploaded or inline)
	mux.HandleFunc("/api/solve", h.handleSolve)

	// Version endpoint for UI metadata
	mux.HandleFunc("/api/version", h.handleVersion)

	// Static assets (web UI)
	sub, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(fmt.Sprintf("failed to prepare embedded static files: %v", err))
	}
	mux.Handle("/", http.FileServer(http.FS(sub)))

	return mux
}

type solveResponse struct {
	Kind     string         `json:"kind"`
	Summary  policy.Summary `json:"summary"`
	Annual   []annualRow    `json:"annual"`
	CSV      string         `json:"csv"`
	Duration string         `json:"duration"`
}

type annualRow struct {
	Year           int     `json:"year"`
	StartBalance   float64 `json:"startBalance"`
	EndBalance     float64 `json:"endBalance"`
	Interest       float64 `json:"interest"`
	Withdrawn      float64 `json:"withdrawn"`
	TotalInterest  float64 `json:"totalInterest"`
	TotalWithdrawn float64 `json:"totalWithdrawn"`
}

type errorResponse struct {
	Error  string       `json:"error"`
	Fields []fieldError `json:"fields,omitempty"`
}

type fieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (h *handler) handleSolve(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	start := time.Now()
	requestID := uuid.NewString()
	w.Header().Set("X-Request-Id", requestID)
	logger := h.logger.With(
		zap.String("op", "server.handleSolve"),
		zap.String("requestId", requestID),
	)

	scenarioBytes, ok := h.readScenario(w, r)
	if !ok {
		return
	}

	var conf config.Configuration
	if err := yaml.Unmarshal(scenarioBytes, &conf); err != nil {
		h.respondError(w, http.StatusBadRequest, fmt.Sprintf("error reading scenario data, %v", err), nil)
		return
	}

	if fieldErrs := conf.ValidateConfiguration(); len(fieldErrs) > 0 {
		fields := make([]fieldError, len(fieldErrs))
		for i, fe := range fieldErrs {
			fields[i] = fieldError{Field: fe.Field, Message: fe.Message}
		}
		h.respondError(w, http.StatusBadRequest, "scenario validation failed", fields)
		return
	}

	kind, err := conf.SolveKind()
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	result, err := policy.Solve(logger, conf.Scenario.PolicyInput(), kind)
	if err != nil {
		status, message := statusForSolveError(err)
		logger.Warn("solve request failed",
			zap.String("kind", kind.String()),
			zap.Error(err),
		)
		h.respondError(w, status, message, nil)
		return
	}

	response := solveResponse{
		Kind:     result.Kind.String(),
		Summary:  result.Summary,
		Annual:   annualRows(result.Annual),
		CSV:      output.CsvString(result),
		Duration: time.Since(start).String(),
	}

	logger.Info("solve request completed",
		zap.String("kind", kind.String()),
		zap.Float64("solvedValue", result.Summary.SolvedValue),
		zap.Duration("duration", time.Since(start)),
	)

	h.respondJSON(w, http.StatusOK, response)
}

// readScenario accepts either a multipart upload with a "file" field or a raw
// request body, both size-limited, and returns the YAML bytes.
func (h *handler) readScenario(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	if h.maxUploadSize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	}

	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "multipart/form-data") {
		if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
			var maxBytesErr *http.MaxBytesError
			if errors.As(err, &maxBytesErr) {
				h.respondError(w, http.StatusRequestEntityTooLarge,
					fmt.Sprintf("upload exceeds limit of %d bytes", h.maxUploadSize), nil)
				return nil, false
			}
			h.respondError(w, http.StatusBadRequest, fmt.Sprintf("failed to parse upload: %v", err), nil)
			return nil, false
		}
		file, _, err := r.FormFile("file")
		if err != nil {
			h.respondError(w, http.StatusBadRequest, "missing scenario file", nil)
			return nil, false
		}
		defer func() {
			if closeErr := file.Close(); closeErr != nil {
				h.logger.Warn("failed to close uploaded file",
					zap.String("op", "server.readScenario"),
					zap.Error(closeErr),
				)
			}
		}()
		var buf bytes.Buffer
		if _, err := io.Copy(&buf, file); err != nil {
			h.respondError(w, http.StatusInternalServerError, fmt.Sprintf("failed to read scenario: %v", err), nil)
			return nil, false
		}
		return buf.Bytes(), true
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondError(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("request exceeds limit of %d bytes", h.maxUploadSize), nil)
			return nil, false
		}
		h.respondError(w, http.StatusBadRequest, fmt.Sprintf("failed to read request: %v", err), nil)
		return nil, false
	}
	return body, true
}

// statusForSolveError maps the solve error taxonomy onto HTTP statuses and
// user-facing messages. The remedy differs per kind, so the messages stay
// distinct.
func statusForSolveError(err error) (int, string) {
	var missing *policy.MissingInputError
	switch {
	case errors.As(err, &missing):
		return http.StatusBadRequest, missing.Error()
	case errors.Is(err, solver.ErrSearchFailed):
		return http.StatusUnprocessableEntity, "the provided inputs are not reasonable; please check them"
	case errors.Is(err, simulation.ErrCalculationTooLong):
		return http.StatusUnprocessableEntity,
			fmt.Sprintf("the balance does not deplete within %d years; increase the withdrawal", constants.MaxOpenEndedYears)
	default:
		return http.StatusInternalServerError, "solve failed unexpectedly"
	}
}

func annualRows(annual []simulation.AnnualRecord) []annualRow {
	rows := make([]annualRow, len(annual))
	for i, a := range annual {
		rows[i] = annualRow{
			Year:           a.Year,
			StartBalance:   a.StartBalance,
			EndBalance:     a.EndBalance,
			Interest:       a.InterestPayment,
			Withdrawn:      a.Withdrawal,
			TotalInterest:  a.TotalInterest,
			TotalWithdrawn: a.TotalWithdrawn,
		}
	}
	return rows
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]string{"version": h.version})
}

func (h *handler) respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Warn("failed to encode response",
			zap.String("op", "server.respondJSON"),
			zap.Error(err),
		)
	}
}

func (h *handler) respondError(w http.ResponseWriter, status int, message string, fields []fieldError) {
	h.respondJSON(w, status, errorResponse{Error: message, Fields: fields})
}

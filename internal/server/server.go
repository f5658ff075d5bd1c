package server

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"strings"

	"github.com/iwvelando/production-optimizer/internal/chart"
	"github.com/iwvelando/production-optimizer/internal/config"
	"github.com/iwvelando/production-optimizer/internal/metrics"
	"github.com/iwvelando/production-optimizer/internal/model"
	"github.com/iwvelando/production-optimizer/internal/optimizer"
	"github.com/iwvelando/production-optimizer/internal/solver"
	"github.com/iwvelando/production-optimizer/pkg/constants"
	"github.com/iwvelando/production-optimizer/pkg/optimization"
	"github.com/iwvelando/production-optimizer/pkg/validation"
	"go.uber.org/zap"
)

//go:embed static/*
var staticFiles embed.FS

// Options configures the HTTP handler.
type Options struct {
	MaxRequestSize int64
	Version        string
	Profile        string
	Defaults       *config.Configuration
	Metrics        *metrics.Metrics
}

type handler struct {
	logger         *zap.Logger
	runner         *optimizer.Runner
	maxRequestSize int64
	version        string
	profile        config.Profile
	defaults       *config.Configuration
}

// NewHandler constructs the HTTP handler that serves the web UI and solve API.
func NewHandler(logger *zap.Logger, runner *optimizer.Runner, opts Options) (http.Handler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if runner == nil {
		return nil, errors.New("runner cannot be nil")
	}

	maxRequestSize := opts.MaxRequestSize
	if maxRequestSize <= 0 {
		maxRequestSize = constants.DefaultMaxRequestSizeBytes
	}

	trimmedVersion := strings.TrimSpace(opts.Version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	profile, err := config.LookupProfile(opts.Profile)
	if err != nil {
		return nil, err
	}

	defaults := opts.Defaults
	if defaults == nil {
		defaults = config.Default()
	}

	h := &handler{
		logger:         logger,
		runner:         runner,
		maxRequestSize: maxRequestSize,
		version:        trimmedVersion,
		profile:        profile,
		defaults:       defaults,
	}

	mux := http.NewServeMux()

	// Solve API endpoint
	mux.HandleFunc("/api/solve", h.handleSolve)

	// Chart image endpoint
	mux.HandleFunc("/api/chart", h.handleChart)

	// Form defaults and capacity ranges for the UI
	mux.HandleFunc("/api/defaults", h.handleDefaults)

	// Version endpoint for UI metadata
	mux.HandleFunc("/api/version", h.handleVersion)

	// Prometheus scrape endpoint
	mux.Handle("/metrics", opts.Metrics.Handler())

	// Static assets (web UI)
	sub, err := fs.Sub(staticFiles, "static")
	if err != nil {
		return nil, fmt.Errorf("failed to prepare embedded static files: %w", err)
	}
	mux.Handle("/", http.FileServer(http.FS(sub)))

	return WithRequestID(WithLogging(logger, mux)), nil
}

type solveResponse struct {
	Success  bool                 `json:"success"`
	Message  string               `json:"message,omitempty"`
	Summary  optimization.Summary `json:"summary"`
	Solution solver.Solution      `json:"solution"`
	Warnings []string             `json:"warnings,omitempty"`
	Geometry *chart.Geometry      `json:"geometry,omitempty"`
	Duration string               `json:"duration"`
}

type defaultsResponse struct {
	Input    model.Input    `json:"input"`
	Profile  config.Profile `json:"profile"`
	Profiles []string       `json:"profiles"`
}

func (h *handler) handleSolve(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleSolve"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	res, ok := h.solve(w, r, op)
	if !ok {
		return
	}

	summary := res.Summary()
	h.writeJSON(w, http.StatusOK, solveResponse{
		Success:  summary.Success,
		Message:  summary.Message,
		Summary:  summary,
		Solution: res.Solution,
		Warnings: summary.Warnings,
		Geometry: res.Geometry,
		Duration: res.Duration.String(),
	})
}

func (h *handler) handleChart(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleChart"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	imageFormat := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("format")))
	if imageFormat == "" {
		imageFormat = h.defaults.Chart.Format
	}
	if err := validation.ValidateChartFormat(imageFormat); err != nil {
		h.respondErrorWithOp(w, r, http.StatusBadRequest, err.Error(), op)
		return
	}

	res, ok := h.solve(w, r, op)
	if !ok {
		return
	}
	if !res.Solution.Success {
		h.respondErrorWithOp(w, r, http.StatusUnprocessableEntity,
			fmt.Sprintf("%s: %s", chart.ErrNoSolution, res.Solution.Message), op)
		return
	}

	var buf bytes.Buffer
	if err := h.runner.RenderChart(res, imageFormat, &buf); err != nil {
		h.respondErrorWithOp(w, r, http.StatusInternalServerError, err.Error(), op)
		return
	}

	contentType, _ := chart.ContentType(imageFormat)
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		h.logger.Warn("failed to write chart response",
			zap.String("op", op),
			zap.Error(err),
		)
	}
}

func (h *handler) handleDefaults(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	h.writeJSON(w, http.StatusOK, defaultsResponse{
		Input:    h.defaults.Input(),
		Profile:  h.profile,
		Profiles: config.ProfileNames(),
	})
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

// solve decodes and validates the request input and runs it. On failure it
// writes the error response and returns false.
func (h *handler) solve(w http.ResponseWriter, r *http.Request, op string) (*optimizer.Result, bool) {
	in, err := h.decodeInput(w, r)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondErrorWithOp(w, r, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("request exceeds limit of %d bytes", h.maxRequestSize), op)
			return nil, false
		}
		h.respondErrorWithOp(w, r, http.StatusBadRequest, fmt.Sprintf("failed to decode input: %v", err), op)
		return nil, false
	}

	if err := config.ValidateInput(in, h.profile); err != nil {
		h.respondErrorWithOp(w, r, http.StatusBadRequest, err.Error(), op)
		return nil, false
	}

	res, err := h.runner.Run(in)
	if err != nil {
		h.respondErrorWithOp(w, r, http.StatusBadRequest, err.Error(), op)
		return nil, false
	}
	return res, true
}

// decodeInput reads a JSON model.Input. Fields the body omits keep the
// configured defaults.
func (h *handler) decodeInput(w http.ResponseWriter, r *http.Request) (model.Input, error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxRequestSize)

	in := h.defaults.Input()
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&in); err != nil {
		return model.Input{}, err
	}
	if dec.More() {
		return model.Input{}, errors.New("unexpected data after input object")
	}
	return in, nil
}

func (h *handler) respondErrorWithOp(w http.ResponseWriter, r *http.Request, status int, msg string, op string) {
	h.logger.Error("solve request failed",
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("error", msg),
		zap.String("requestId", RequestIDFromContext(r.Context())),
	)

	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}

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
	"strconv"
	"strings"
	"time"

	"github.com/iwvelando/capital-longevity/internal/config"
	"github.com/iwvelando/capital-longevity/internal/dashboard"
	"github.com/iwvelando/capital-longevity/internal/session"
	"github.com/iwvelando/capital-longevity/pkg/constants"
	"github.com/iwvelando/capital-longevity/pkg/longevity"
	"github.com/iwvelando/capital-longevity/pkg/output"
	"github.com/iwvelando/capital-longevity/pkg/sweep"
	"github.com/iwvelando/capital-longevity/pkg/validation"
	"go.uber.org/zap"
)

//go:embed static/*
var staticFiles embed.FS

// Options carries the collaborators of the HTTP handler. Zero values fall
// back to an in-memory store, fresh metrics and no rate limiting.
type Options struct {
	MaxRequestSize int64
	Version        string
	Store          session.Store
	SessionTTL     time.Duration
	Limiter        *RateLimiter
	Metrics        *Metrics
}

type handler struct {
	logger         *zap.Logger
	conf           *config.Configuration
	maxRequestSize int64
	version        string
	store          session.Store
	sessionTTL     time.Duration
	metrics        *Metrics
}

// NewHandler constructs the HTTP handler that serves the dashboard UI and API.
func NewHandler(logger *zap.Logger, conf *config.Configuration, opts Options) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if conf == nil {
		conf = config.DefaultConfiguration()
	}
	if opts.MaxRequestSize <= 0 {
		opts.MaxRequestSize = constants.DefaultMaxRequestSizeBytes
	}
	if opts.Store == nil {
		opts.Store = session.NewMemoryStore(opts.SessionTTL)
	}
	if opts.Metrics == nil {
		opts.Metrics = NewMetrics()
	}

	trimmedVersion := strings.TrimSpace(opts.Version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	h := &handler{
		logger:         logger,
		conf:           conf,
		maxRequestSize: opts.MaxRequestSize,
		version:        trimmedVersion,
		store:          opts.Store,
		sessionTTL:     opts.SessionTTL,
		metrics:        opts.Metrics,
	}

	mux := http.NewServeMux()

	api := func(route string, fn http.HandlerFunc) {
		mux.Handle(route, h.metrics.instrument(route, rateLimitMiddleware(opts.Limiter, logger, fn)))
	}

	// Input controls and their defaults
	api("/api/inputs", h.handleInputs)

	// Recompute on every input change
	api("/api/longevity", h.handleLongevity)

	// Downloads of the current sweeps
	api("/api/export/csv", h.handleExportCSV)
	api("/api/export/pdf", h.handleExportPDF)

	// Version endpoint for UI metadata
	api("/api/version", h.handleVersion)

	mux.Handle("/healthz", h.metrics.instrument("/healthz", http.HandlerFunc(h.handleHealth)))
	mux.Handle("/metrics", h.metrics.Handler())

	// Static assets (web UI)
	sub, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(fmt.Sprintf("failed to prepare embedded static files: %v", err))
	}
	mux.Handle("/", http.FileServer(http.FS(sub)))

	return mux
}

type longevityRequest struct {
	Capital     *float64      `json:"capital"`
	Withdrawal  *float64      `json:"withdrawal"`
	RatePercent *float64      `json:"ratePercent"`
	Previous    previousField `json:"previous"`
}

// previousField tells an absent "previous" apart from an explicit null. A
// client that tracks its own memo sends null before its first result, and
// the session store is consulted only when the field is absent.
type previousField struct {
	set    bool
	result *longevity.Result
}

func (p *previousField) UnmarshalJSON(data []byte) error {
	p.set = true
	p.result = nil
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}
	var result longevity.Result
	if err := json.Unmarshal(data, &result); err != nil {
		return err
	}
	p.result = &result
	return nil
}

type longevityResponse struct {
	dashboard.View
	Warnings []string `json:"warnings,omitempty"`
	Duration string   `json:"duration"`
}

func (h *handler) handleInputs(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	h.writeJSON(w, http.StatusOK, dashboard.Options(h.conf))
}

func (h *handler) handleLongevity(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleLongevity"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	start := time.Now()
	r.Body = http.MaxBytesReader(w, r.Body, h.maxRequestSize)

	var req longevityRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondErrorWithOp(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("request exceeds limit of %d bytes", h.maxRequestSize), op)
			return
		}
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to decode request: %v", err), op)
		return
	}

	in, err := req.inputs()
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	sessionID := h.sessionID(w, r)
	previous := req.Previous.result
	if !req.Previous.set {
		previous = h.loadMemo(r, sessionID)
	}

	view := dashboard.Update(h.conf, in, previous)
	h.metrics.observeComputation(view.Result)
	h.saveMemo(r, sessionID, view.Memo)

	h.logger.Debug("recomputed dashboard",
		zap.String("op", op),
		zap.Float64("capital", in.Capital),
		zap.Float64("withdrawal", in.Withdrawal),
		zap.Float64("ratePercent", in.RatePercent),
		zap.String("state", view.Result.State.String()),
		zap.String("years", view.Years),
	)

	h.writeJSON(w, http.StatusOK, longevityResponse{
		View:     view,
		Warnings: validation.InputWarnings(in.Capital, in.Withdrawal, in.RatePercent),
		Duration: time.Since(start).String(),
	})
}

func (req longevityRequest) inputs() (dashboard.Inputs, error) {
	fields := []struct {
		name  string
		value *float64
	}{
		{"capital", req.Capital},
		{"withdrawal", req.Withdrawal},
		{"ratePercent", req.RatePercent},
	}
	for _, field := range fields {
		if field.value == nil {
			return dashboard.Inputs{}, fmt.Errorf("missing field %q", field.name)
		}
		if err := validation.ValidateNumber(field.name, *field.value); err != nil {
			return dashboard.Inputs{}, err
		}
	}
	return dashboard.Inputs{
		Capital:     *req.Capital,
		Withdrawal:  *req.Withdrawal,
		RatePercent: *req.RatePercent,
	}, nil
}

// sessionID returns the caller's session identifier, issuing a new cookie
// when the request carries none. An empty result disables memo storage.
func (h *handler) sessionID(w http.ResponseWriter, r *http.Request) string {
	if cookie, err := r.Cookie(constants.SessionCookieName); err == nil && session.ValidID(cookie.Value) {
		return cookie.Value
	}

	id, err := session.NewID()
	if err != nil {
		h.logger.Warn("failed to issue session",
			zap.String("op", "server.sessionID"),
			zap.Error(err),
		)
		return ""
	}

	cookie := &http.Cookie{
		Name:     constants.SessionCookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	if h.sessionTTL > 0 {
		cookie.MaxAge = int(h.sessionTTL.Seconds())
	}
	http.SetCookie(w, cookie)
	return id
}

func (h *handler) loadMemo(r *http.Request, id string) *longevity.Result {
	if id == "" {
		return nil
	}
	memo, ok, err := h.store.Get(r.Context(), id)
	if err != nil {
		h.logger.Warn("failed to load previous result",
			zap.String("op", "server.loadMemo"),
			zap.Error(err),
		)
		return nil
	}
	if !ok {
		return nil
	}
	return &memo
}

func (h *handler) saveMemo(r *http.Request, id string, memo longevity.Result) {
	if id == "" {
		return
	}
	if err := h.store.Set(r.Context(), id, memo); err != nil {
		h.logger.Warn("failed to store result",
			zap.String("op", "server.saveMemo"),
			zap.Error(err),
		)
	}
}

func (h *handler) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleExportCSV"
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	in, err := h.queryInputs(r)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	capitalSeries, withdrawalSeries := dashboard.Sweeps(h.conf, in)

	var buf bytes.Buffer
	if err := output.CsvFormat(&buf, capitalSeries, withdrawalSeries); err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, fmt.Sprintf("failed to build CSV: %v", err), op)
		return
	}

	h.writeAttachment(w, "text/csv; charset=utf-8", "capital-longevity.csv", buf.Bytes(), op)
}

func (h *handler) handleExportPDF(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleExportPDF"
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	in, err := h.queryInputs(r)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	capitalSeries, withdrawalSeries := dashboard.Sweeps(h.conf, in)
	report := output.Report{
		Capital:     in.Capital,
		Withdrawal:  in.Withdrawal,
		RatePercent: in.RatePercent,
		Result:      longevity.ComputeYears(in.Capital, in.Withdrawal, in.Rate()),
		Series:      []sweep.Series{capitalSeries, withdrawalSeries},
	}

	var buf bytes.Buffer
	if err := output.WritePDFReport(&buf, report); err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, err.Error(), op)
		return
	}

	h.writeAttachment(w, "application/pdf", "capital-longevity.pdf", buf.Bytes(), op)
}

// queryInputs reads the three inputs from the query string. Absent
// parameters take the configured defaults.
func (h *handler) queryInputs(r *http.Request) (dashboard.Inputs, error) {
	in := dashboard.DefaultInputs(h.conf)
	query := r.URL.Query()

	fields := []struct {
		name   string
		target *float64
	}{
		{"capital", &in.Capital},
		{"withdrawal", &in.Withdrawal},
		{"ratePercent", &in.RatePercent},
	}
	for _, field := range fields {
		raw := strings.TrimSpace(query.Get(field.name))
		if raw == "" {
			continue
		}
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return dashboard.Inputs{}, fmt.Errorf("invalid %s %q", field.name, raw)
		}
		if err := validation.ValidateNumber(field.name, value); err != nil {
			return dashboard.Inputs{}, err
		}
		*field.target = value
	}
	return in, nil
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

func (h *handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, "ok")
}

func (h *handler) writeAttachment(w http.ResponseWriter, contentType, filename string, body []byte, op string) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		h.logger.Warn("failed to write attachment",
			zap.String("op", op),
			zap.Error(err),
		)
	}
}

func (h *handler) respondErrorWithOp(w http.ResponseWriter, status int, msg string, op string) {
	if h.logger != nil {
		h.logger.Warn("request failed",
			zap.String("op", op),
			zap.Int("status", status),
			zap.String("error", msg),
		)
	}
	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	writeJSON(h.logger, w, status, payload)
}

func writeJSON(logger *zap.Logger, w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil && logger != nil {
		logger.Error("failed to encode response", zap.String("op", "server.writeJSON"), zap.Error(err))
	}
}

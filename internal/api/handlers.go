// Package api exposes HTTP handlers for the run-tracking admin service.
package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/pieinspace/runTrackingAdmin/internal/domain"
	"github.com/pieinspace/runTrackingAdmin/internal/ingest"
	"github.com/pieinspace/runTrackingAdmin/internal/observability"
	"github.com/pieinspace/runTrackingAdmin/internal/report"
)

const recentAchievements = 8

// Handler coordinates HTTP requests with the domain service.
type Handler struct {
	service    *domain.Service
	exporter   *report.Exporter
	normalizer *ingest.Normalizer
	units      []string
}

// NewHandler builds a Handler.
func NewHandler(service *domain.Service, exporter *report.Exporter, units []string) *Handler {
	return &Handler{
		service:    service,
		exporter:   exporter,
		normalizer: ingest.NewNormalizer(nil),
		units:      units,
	}
}

// RegisterRoutes wires endpoints to the mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/runners", h.runners)
	mux.HandleFunc("/api/runners/import", h.importRunners)
	mux.HandleFunc("/api/targets/14km", h.listTargets)
	mux.HandleFunc("/api/targets/import", h.importTargets)
	mux.HandleFunc("/api/targets/14km/validate/", h.validateTarget)
	mux.HandleFunc("/api/dashboard/stats", h.dashboardStats)
	mux.HandleFunc("/api/units", h.listUnits)
	mux.HandleFunc("/api/reports/", h.exportReport)
	mux.HandleFunc("/healthz", healthz)
}

// healthz reports a simple OK status for container health checks.
func healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (h *Handler) runners(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}

	runners, err := h.service.ListRunners(r.Context())
	if err != nil {
		// A failed fetch degrades to an empty, clearly-labeled dataset
		// rather than a partial one.
		log.Printf("api: list runners: %v", err)
		writeJSON(w, http.StatusOK, DataResponse{Data: []RunnerView{}, Degraded: true})
		return
	}

	views := make([]RunnerView, 0, len(runners))
	for _, runner := range runners {
		views = append(views, toRunnerView(runner))
	}
	writeJSON(w, http.StatusOK, DataResponse{Data: views})
}

func (h *Handler) importRunners(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}

	runners, err := h.normalizer.DecodeRunners(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse runner export")
		return
	}
	for _, runner := range runners {
		if runner.Name == "" {
			writeError(w, http.StatusBadRequest, "validation_failed", "runner name is required")
			return
		}
	}

	count, err := h.service.ImportRunners(r.Context(), runners)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, ImportResponse{Imported: count})
}

func (h *Handler) importTargets(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}

	targets, err := h.normalizer.DecodeTargets(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse target export")
		return
	}
	for _, target := range targets {
		if target.RunnerID == "" {
			writeError(w, http.StatusBadRequest, "validation_failed", "target runner id is required")
			return
		}
	}

	count, err := h.service.ImportTargets(r.Context(), targets)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, ImportResponse{Imported: count})
}

func (h *Handler) listTargets(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}

	targets, err := h.service.ListTargets(r.Context())
	if err != nil {
		log.Printf("api: list targets: %v", err)
		writeJSON(w, http.StatusOK, DataResponse{Data: []TargetView{}, Degraded: true})
		return
	}

	views := make([]TargetView, 0, len(targets))
	for _, target := range targets {
		views = append(views, toTargetView(target))
	}
	writeJSON(w, http.StatusOK, DataResponse{Data: views})
}

func (h *Handler) validateTarget(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/api/targets/14km/validate/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusBadRequest, "invalid_request", "missing target id")
		return
	}

	target, err := h.service.ValidateTarget(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrTargetNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "target record not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, DataResponse{Data: toTargetView(*target)})
}

func (h *Handler) dashboardStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}

	stats, err := h.service.Stats(r.Context(), recentAchievements)
	if err != nil {
		log.Printf("api: dashboard stats: %v", err)
		writeJSON(w, http.StatusOK, StatsResponse{Degraded: true, Recent: []TargetView{}})
		return
	}

	resp := StatsResponse{
		TotalRunners:      stats.TotalRunners,
		TotalAchievements: stats.TotalAchievements,
		Validated:         stats.Validated,
		Pending:           stats.Pending,
		Recent:            make([]TargetView, 0, len(stats.Recent)),
	}
	for _, target := range stats.Recent {
		resp.Recent = append(resp.Recent, toTargetView(target))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) listUnits(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}
	writeJSON(w, http.StatusOK, DataResponse{Data: h.units})
}

// exportReport streams a report artifact for
// GET /api/reports/{type}/export?format=pdf|xlsx&period=...&q=...
func (h *Handler) exportReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/api/reports/")
	typeRaw, ok := strings.CutSuffix(rest, "/export")
	if !ok {
		writeError(w, http.StatusNotFound, "not_found", "unknown reports endpoint")
		return
	}
	reportType, err := report.ParseType(typeRaw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	period, err := domain.ParsePeriod(r.URL.Query().Get("period"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = "pdf"
	}
	if format != "pdf" && format != "xlsx" {
		writeError(w, http.StatusBadRequest, "invalid_request", "format must be pdf or xlsx")
		return
	}

	opts := report.Options{
		Search: r.URL.Query().Get("q"),
		Period: period,
	}

	var rows []report.Row
	if reportType == report.TypeFourteen {
		targets, err := h.service.ListTargets(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "data_fetch_failed", err.Error())
			return
		}
		rows = report.FromTargets(targets, opts)
	} else {
		runners, err := h.service.ListRunners(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "data_fetch_failed", err.Error())
			return
		}
		rows = report.FromRunners(runners, opts)
	}

	start := time.Now()
	generatedAt := time.Now()
	filename := report.Filename(reportType, period, format)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)

	switch format {
	case "pdf":
		w.Header().Set("Content-Type", "application/pdf")
		err = h.exporter.PDF(w, reportType.Title(), generatedAt, rows)
	case "xlsx":
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		err = h.exporter.Excel(w, reportType.Title(), generatedAt, string(period), rows)
	}
	if err != nil {
		// Headers are already on the wire; all we can do is log.
		log.Printf("api: render %s report: %v", format, err)
		return
	}
	observability.RecordExport(format, time.Since(start))
}

// DataResponse is the standard data envelope.
type DataResponse struct {
	Data     interface{} `json:"data"`
	Degraded bool        `json:"degraded,omitempty"`
}

// ImportResponse reports how many legacy records were absorbed.
type ImportResponse struct {
	Imported int `json:"imported"`
}

// RunnerView exposes a runner with the canonical field spellings.
type RunnerView struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Rank          string    `json:"rank"`
	Unit          string    `json:"unit,omitempty"`
	TotalDistance float64   `json:"totalDistance"`
	TotalSessions int       `json:"totalSessions"`
	CreatedAt     time.Time `json:"createdAt"`
	Status        string    `json:"status"`
}

// TargetView exposes one qualifying achievement with derived metrics.
type TargetView struct {
	ID               string  `json:"id"`
	RunnerID         string  `json:"runner_id"`
	Name             string  `json:"name"`
	Rank             string  `json:"rank"`
	DistanceKM       float64 `json:"distance_km"`
	DurationSec      int     `json:"duration_sec"`
	TimeTaken        string  `json:"time_taken"`
	Pace             string  `json:"pace"`
	AchievedDate     string  `json:"achieved_date"`
	ValidationStatus string  `json:"validation_status"`
	Status           string  `json:"status"`
}

// StatsResponse backs the dashboard cards and the recent-achievements table.
type StatsResponse struct {
	TotalRunners      int          `json:"totalRunners"`
	TotalAchievements int          `json:"totalAchievements"`
	Validated         int          `json:"validated"`
	Pending           int          `json:"pending"`
	Recent            []TargetView `json:"recent"`
	Degraded          bool         `json:"degraded,omitempty"`
}

func toRunnerView(runner domain.Runner) RunnerView {
	return RunnerView{
		ID:            runner.ID,
		Name:          runner.Name,
		Rank:          runner.Rank,
		Unit:          runner.Unit,
		TotalDistance: runner.TotalDistanceKM,
		TotalSessions: runner.TotalSessions,
		CreatedAt:     runner.CreatedAt,
		Status:        string(domain.Classify(runner.TotalDistanceKM)),
	}
}

func toTargetView(target domain.TargetAchievement) TargetView {
	view := TargetView{
		ID:               target.ID,
		RunnerID:         target.RunnerID,
		Name:             target.RunnerName,
		Rank:             target.RunnerRank,
		DistanceKM:       target.DistanceKM,
		DurationSec:      target.DurationSec,
		TimeTaken:        domain.FormatTime(target.DurationSec),
		Pace:             domain.FormatPace(target.DurationSec, target.DistanceKM),
		ValidationStatus: string(target.Validation),
		// Achievement status and validation status are distinct concepts;
		// both ride along so consumers never re-derive either.
		Status: string(domain.Classify(target.DistanceKM)),
	}
	if !target.AchievedDate.IsZero() {
		view.AchievedDate = target.AchievedDate.Format("2006-01-02")
	}
	return view
}

func writeError(w http.ResponseWriter, status int, code, detail string) {
	payload := map[string]string{
		"type":   code,
		"detail": detail,
	}
	writeJSON(w, status, payload)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

package viewserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/jakechorley/guard-roster/pkg/core/filter"
	"github.com/jakechorley/guard-roster/pkg/core/model"
	"github.com/jakechorley/guard-roster/pkg/core/restrictions"
	"github.com/jakechorley/guard-roster/pkg/core/services"
	"github.com/jakechorley/guard-roster/pkg/db"
)

const monthLayout = "2006-01"

// Handler serves projections of a catalog as seen by its current user
type Handler struct {
	catalog services.Catalog
	opts    services.ViewOptions
	logger  *zap.Logger
	now     func() time.Time
}

// NewHandler creates a handler over catalog
func NewHandler(catalog services.Catalog, opts services.ViewOptions, logger *zap.Logger) *Handler {
	return &Handler{catalog: catalog, opts: opts, logger: logger, now: time.Now}
}

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// GetWeek handles GET /api/calendar/week?date=YYYY-MM-DD
func (h *Handler) GetWeek(w http.ResponseWriter, r *http.Request) {
	anchor := model.NewDate(h.now())
	if s := r.URL.Query().Get("date"); s != "" {
		d, err := model.ParseDate(s)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid date", err)
			return
		}
		anchor = d
	}

	view, err := services.WeekView(h.catalog, h.opts, h.logger, anchor, h.filters(r))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// GetMonth handles GET /api/calendar/month?month=YYYY-MM
func (h *Handler) GetMonth(w http.ResponseWriter, r *http.Request) {
	month := h.now()
	if s := r.URL.Query().Get("month"); s != "" {
		parsed, err := time.Parse(monthLayout, s)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid month", err)
			return
		}
		month = parsed
	}

	view, err := services.MonthView(h.catalog, h.opts, h.logger, month.Year(), month.Month(), h.filters(r))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// GetGuards handles GET /api/guards
func (h *Handler) GetGuards(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, services.BuildGuardTable(h.catalog, h.logger, h.filters(r), h.now()))
}

// GetGuardRestrictions handles GET /api/guards/{id}/restrictions?population_type=
func (h *Handler) GetGuardRestrictions(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	populationType := model.PopulationType(r.URL.Query().Get("population_type"))

	list, err := services.GuardRestrictions(h.catalog, id, populationType)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// GetMyShifts handles GET /api/me/shifts
func (h *Handler) GetMyShifts(w http.ResponseWriter, r *http.Request) {
	shifts, err := services.UpcomingShifts(h.catalog, h.now())
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, shifts)
}

// GetConflicts handles GET /api/conflicts
func (h *Handler) GetConflicts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, services.Conflicts(h.catalog, h.logger, h.filters(r)))
}

// GetReasons handles GET /api/restrictions/reasons
func (h *Handler) GetReasons(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, restrictions.Reasons)
}

// GetAudit handles GET /api/audit?from=YYYY-MM-DD&to=YYYY-MM-DD&weekend=bool. The range
// defaults to the current month.
func (h *Handler) GetAudit(w http.ResponseWriter, r *http.Request) {
	f := h.filters(r)
	if f.Branch == "" || f.PopulationType == "" {
		writeError(w, http.StatusBadRequest, "branch and population_type are required", nil)
		return
	}

	now := h.now()
	first := model.DateOf(now.Year(), now.Month(), 1)
	params := services.AuditParams{Branch: f.Branch, PopulationType: f.PopulationType}

	q := r.URL.Query()
	var err error
	if params.From, err = dateParam(q.Get("from"), first); err != nil {
		writeError(w, http.StatusBadRequest, "invalid from", err)
		return
	}
	if params.To, err = dateParam(q.Get("to"), model.NewDate(first.AddDate(0, 1, -1))); err != nil {
		writeError(w, http.StatusBadRequest, "invalid to", err)
		return
	}
	if s := q.Get("weekend"); s != "" {
		weekend, err := strconv.ParseBool(s)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid weekend", err)
			return
		}
		params.Weekend = weekend
	}
	if params.To.Before(params.From.Time) {
		writeError(w, http.StatusBadRequest, "invalid range", nil)
		return
	}

	result, err := services.AuditRoster(h.catalog, h.logger, params)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func dateParam(value string, fallback model.Date) (model.Date, error) {
	if value == "" {
		return fallback, nil
	}
	return model.ParseDate(value)
}

// filters reads the branch, population_type and shift_type query parameters and applies the
// default selection of managers
func (h *Handler) filters(r *http.Request) filter.Filters {
	q := r.URL.Query()
	return services.ResolveFilters(h.catalog, filter.Filters{
		Branch:         q.Get("branch"),
		PopulationType: model.PopulationType(q.Get("population_type")),
		ShiftType:      q.Get("shift_type"),
	})
}

func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, db.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found", err)
	case errors.Is(err, services.ErrNotLoggedIn):
		writeError(w, http.StatusUnauthorized, "not logged in", err)
	case errors.Is(err, services.ErrForbidden):
		writeError(w, http.StatusForbidden, "forbidden", err)
	default:
		h.logger.Error("Request failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"ns-advisor/applog"
	"ns-advisor/config"
	"ns-advisor/dao/redis"
	services "ns-advisor/service"
	"ns-advisor/util"
)

// DaySummarizer produces today's segment summaries.
type DaySummarizer interface {
	SummarizeToday(ctx context.Context, ref time.Time, loc *time.Location) (*services.DaySummary, error)
}

// SummaryCache serves and refreshes cached summaries.
type SummaryCache interface {
	CachedSummary(startDate string) (json.RawMessage, error)
	RefreshTodaySummary(ctx context.Context) (*services.DaySummary, error)
	DropCachedSummary(startDate string) error
}

type SummaryHandler struct {
	summarizer DaySummarizer
	cache      SummaryCache
	defaultLoc *time.Location
	now        func() time.Time
}

func NewSummaryHandler(summarizer DaySummarizer, cache SummaryCache, defaultLoc *time.Location) *SummaryHandler {
	if defaultLoc == nil {
		defaultLoc = time.Local
	}
	return &SummaryHandler{
		summarizer: summarizer,
		cache:      cache,
		defaultLoc: defaultLoc,
		now:        time.Now,
	}
}

// GetTodaySummary handles GET /v1/summary/today[?tz=Area/City]
func (h *SummaryHandler) GetTodaySummary(w http.ResponseWriter, r *http.Request) {
	summary, ok := h.summarize(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// GetTodaySummaryChart handles GET /v1/summary/today/chart[?tz=Area/City]
func (h *SummaryHandler) GetTodaySummaryChart(w http.ResponseWriter, r *http.Request) {
	summary, ok := h.summarize(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := util.PlotDaySegmentSummaries(&buf, "Today "+summary.StartDate, summary.Segments); err != nil {
		applog.Errorf("Error rendering chart: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// GetCachedSummary handles GET /v1/summary/cached[?date=yyyy-MM-dd]
func (h *SummaryHandler) GetCachedSummary(w http.ResponseWriter, r *http.Request) {
	date, ok := h.cachedDate(w, r)
	if !ok {
		return
	}

	doc, err := h.cache.CachedSummary(date)
	if errors.Is(err, redis.ErrSummaryNotCached) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		applog.Errorf("Error loading cached summary: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// DeleteCachedSummary handles DELETE /v1/summary/cached[?date=yyyy-MM-dd]
func (h *SummaryHandler) DeleteCachedSummary(w http.ResponseWriter, r *http.Request) {
	date, ok := h.cachedDate(w, r)
	if !ok {
		return
	}
	if err := h.cache.DropCachedSummary(date); err != nil {
		applog.Errorf("Error deleting cached summary: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *SummaryHandler) cachedDate(w http.ResponseWriter, r *http.Request) (string, bool) {
	date, ok := parseDateArg(r, DATE_QUERY_ARG)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid argument "+DATE_QUERY_ARG)
		return "", false
	}
	if date == "" {
		date = services.StartOfDay(h.now(), h.defaultLoc).Format(config.NIGHTSCOUT_DATE_FILTER_FORMAT)
	}
	return date, true
}

// RefreshSummary handles POST /v1/summary/refresh
func (h *SummaryHandler) RefreshSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.cache.RefreshTodaySummary(r.Context())
	if err != nil {
		writeUpstreamError(w, "refresh", err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *SummaryHandler) summarize(w http.ResponseWriter, r *http.Request) (*services.DaySummary, bool) {
	loc := h.defaultLoc
	if tz := r.URL.Query().Get(TIMEZONE_QUERY_ARG); tz != "" {
		parsed, err := time.LoadLocation(tz)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid argument "+TIMEZONE_QUERY_ARG)
			return nil, false
		}
		loc = parsed
	}

	summary, err := h.summarizer.SummarizeToday(r.Context(), h.now(), loc)
	if err != nil {
		writeUpstreamError(w, "summary", err)
		return nil, false
	}
	return summary, true
}

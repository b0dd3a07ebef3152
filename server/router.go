package server

import (
	"net/http"

	"github.com/gorilla/mux"
)

// NightscoutRoutes serves raw Nightscout records and the health check.
type NightscoutRoutes interface {
	GetEntries(w http.ResponseWriter, r *http.Request)
	GetInsulin(w http.ResponseWriter, r *http.Request)
	GetCarbs(w http.ResponseWriter, r *http.Request)
	Ping(w http.ResponseWriter, r *http.Request)
}

// SummaryRoutes serves day segment summaries.
type SummaryRoutes interface {
	GetTodaySummary(w http.ResponseWriter, r *http.Request)
	GetTodaySummaryChart(w http.ResponseWriter, r *http.Request)
	GetCachedSummary(w http.ResponseWriter, r *http.Request)
	DeleteCachedSummary(w http.ResponseWriter, r *http.Request)
	RefreshSummary(w http.ResponseWriter, r *http.Request)
}

// SettingsRoutes serves preferences and the Loop settings snapshot.
type SettingsRoutes interface {
	GetPreferences(w http.ResponseWriter, r *http.Request)
	PutPreferences(w http.ResponseWriter, r *http.Request)
	DeletePreferences(w http.ResponseWriter, r *http.Request)
	GetLoopSettings(w http.ResponseWriter, r *http.Request)
	TouchLoopSettings(w http.ResponseWriter, r *http.Request)
}

type Router struct {
	nightscoutHandler NightscoutRoutes
	summaryHandler    SummaryRoutes
	settingsHandler   SettingsRoutes
	router            *mux.Router
}

// NewRouter creates a router with the app’s routes.
func NewRouter(
	nightscoutHandler NightscoutRoutes,
	summaryHandler SummaryRoutes,
	settingsHandler SettingsRoutes,
	router *mux.Router) *Router {
	return &Router{
		nightscoutHandler: nightscoutHandler,
		summaryHandler:    summaryHandler,
		settingsHandler:   settingsHandler,
		router:            router,
	}
}

func (r *Router) RegisterRoutes() {
	r.router.HandleFunc("/ping", r.nightscoutHandler.Ping).Methods("GET")

	// expects ?start_date={yyyy-MM-dd}
	r.router.HandleFunc("/v1/entries", r.nightscoutHandler.GetEntries).Methods("GET")
	r.router.HandleFunc("/v1/treatments/insulin", r.nightscoutHandler.GetInsulin).Methods("GET")
	r.router.HandleFunc("/v1/treatments/carbs", r.nightscoutHandler.GetCarbs).Methods("GET")

	// optional ?tz={Area/City}
	r.router.HandleFunc("/v1/summary/today", r.summaryHandler.GetTodaySummary).Methods("GET")
	r.router.HandleFunc("/v1/summary/today/chart", r.summaryHandler.GetTodaySummaryChart).Methods("GET")
	r.router.HandleFunc("/v1/summary/cached", r.summaryHandler.GetCachedSummary).Methods("GET")
	r.router.HandleFunc("/v1/summary/cached", r.summaryHandler.DeleteCachedSummary).Methods("DELETE")
	r.router.HandleFunc("/v1/summary/refresh", r.summaryHandler.RefreshSummary).Methods("POST")

	r.router.HandleFunc("/v1/preferences", r.settingsHandler.GetPreferences).Methods("GET")
	r.router.HandleFunc("/v1/preferences", r.settingsHandler.PutPreferences).Methods("PUT")
	r.router.HandleFunc("/v1/preferences", r.settingsHandler.DeletePreferences).Methods("DELETE")
	r.router.HandleFunc("/v1/loop/settings", r.settingsHandler.GetLoopSettings).Methods("GET")
	r.router.HandleFunc("/v1/loop/settings/touch", r.settingsHandler.TouchLoopSettings).Methods("POST")
}

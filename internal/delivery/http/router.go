package http

import (
	"net/http"

	"shelter-registry/internal/delivery/http/handler"
	"shelter-registry/internal/delivery/http/middleware"
	"shelter-registry/internal/domain/entity"

	"github.com/gorilla/mux"
)

type Router struct {
	router                  *mux.Router
	personHandler           *handler.PersonHandler
	surveyHandler           *handler.SurveyHandler
	reportHandler           *handler.ReportHandler
	corsMiddleware          *middleware.CORSMiddleware
	requestLoggerMiddleware *middleware.RequestLoggerMiddleware
}

func NewRouter(
	personHandler *handler.PersonHandler,
	surveyHandler *handler.SurveyHandler,
	reportHandler *handler.ReportHandler,
	corsMiddleware *middleware.CORSMiddleware,
	requestLoggerMiddleware *middleware.RequestLoggerMiddleware,
) *Router {
	return &Router{
		router:                  mux.NewRouter(),
		personHandler:           personHandler,
		surveyHandler:           surveyHandler,
		reportHandler:           reportHandler,
		corsMiddleware:          corsMiddleware,
		requestLoggerMiddleware: requestLoggerMiddleware,
	}
}

func (r *Router) Setup() *mux.Router {
	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Health check
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	reception := middleware.RequireRole(entity.StaffRoleReception, entity.StaffRoleAdmin)
	editors := middleware.RequireRole(entity.StaffRoleSocialWork, entity.StaffRoleNursing, entity.StaffRoleAdmin)
	socialWork := middleware.RequireRole(entity.StaffRoleSocialWork, entity.StaffRoleAdmin)
	anyRole := middleware.RequireRole()

	// Person register
	persons := api.PathPrefix("/persons").Subrouter()
	persons.Handle("", reception(http.HandlerFunc(r.personHandler.Admit))).Methods(http.MethodPost)
	persons.Handle("", anyRole(http.HandlerFunc(r.personHandler.List))).Methods(http.MethodGet)
	persons.Handle("/{folio}", anyRole(http.HandlerFunc(r.personHandler.Get))).Methods(http.MethodGet)
	persons.Handle("/{folio}", editors(http.HandlerFunc(r.personHandler.Update))).Methods(http.MethodPatch)
	persons.Handle("/{folio}/discharge", reception(http.HandlerFunc(r.personHandler.Discharge))).Methods(http.MethodPost)
	persons.Handle("/{folio}/rules.pdf", socialWork(http.HandlerFunc(r.personHandler.RulesAgreement))).Methods(http.MethodGet)

	// Social-work surveys
	persons.Handle("/{folio}/survey", socialWork(http.HandlerFunc(r.surveyHandler.Upsert))).Methods(http.MethodPut)
	persons.Handle("/{folio}/survey", socialWork(http.HandlerFunc(r.surveyHandler.Get))).Methods(http.MethodGet)

	// Reports (admin only)
	reports := api.PathPrefix("/reports").Subrouter()
	reports.Use(middleware.RequireAdmin)
	reports.HandleFunc("/movements", r.reportHandler.Movements).Methods(http.MethodGet)
	reports.HandleFunc("/movements.pdf", r.reportHandler.MovementsPDF).Methods(http.MethodGet)
	reports.HandleFunc("/movements/email", r.reportHandler.EmailMovements).Methods(http.MethodPost)
	reports.HandleFunc("/statistics", r.reportHandler.Statistics).Methods(http.MethodGet)
	reports.HandleFunc("/register.xlsx", r.reportHandler.RegisterXLSX).Methods(http.MethodGet)

	// Preflight requests must match a route for the CORS middleware to answer them
	r.router.Methods(http.MethodOptions).HandlerFunc(func(w http.ResponseWriter, req *http.Request) {})

	r.router.Use(r.requestLoggerMiddleware.Handle)
	r.router.Use(r.corsMiddleware.Handle)

	return r.router
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}

package http

import (
	"net/http"
	"time"

	"clinical-registry/internal/delivery/dto"
	"clinical-registry/internal/delivery/http/handler"
	"clinical-registry/internal/delivery/http/middleware"
	"clinical-registry/pkg/response"

	"github.com/gorilla/mux"
)

type Router struct {
	router               *mux.Router
	patientRecordHandler *handler.PatientRecordHandler
	exportHandler        *handler.ExportHandler
	auditLogHandler      *handler.AuditLogHandler
	authMiddleware       *middleware.AuthMiddleware
	corsMiddleware       *middleware.CORSMiddleware
	loggingMiddleware    *middleware.LoggingMiddleware
	recoveryMiddleware   *middleware.RecoveryMiddleware
}

func NewRouter(
	patientRecordHandler *handler.PatientRecordHandler,
	exportHandler *handler.ExportHandler,
	auditLogHandler *handler.AuditLogHandler,
	authMiddleware *middleware.AuthMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
	loggingMiddleware *middleware.LoggingMiddleware,
	recoveryMiddleware *middleware.RecoveryMiddleware,
) *Router {
	return &Router{
		router:               mux.NewRouter(),
		patientRecordHandler: patientRecordHandler,
		exportHandler:        exportHandler,
		auditLogHandler:      auditLogHandler,
		authMiddleware:       authMiddleware,
		corsMiddleware:       corsMiddleware,
		loggingMiddleware:    loggingMiddleware,
		recoveryMiddleware:   recoveryMiddleware,
	}
}

func (r *Router) Setup() *mux.Router {
	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Health check
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	// Read routes (public)
	api.HandleFunc("/patients", r.patientRecordHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/patients/{id:[0-9]+}", r.patientRecordHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/patients/{id:[0-9]+}/audit-logs", r.auditLogHandler.GetRecordHistory).Methods(http.MethodGet)
	api.HandleFunc("/stats", r.patientRecordHandler.Stats).Methods(http.MethodGet)
	api.HandleFunc("/export/{format}", r.exportHandler.Download).Methods(http.MethodGet)
	api.HandleFunc("/audit-logs", r.auditLogHandler.GetAllAuditLogs).Methods(http.MethodGet)

	// Mutating routes (bearer token when JWT is configured)
	protected := api.PathPrefix("/patients").Subrouter()
	protected.Use(r.authMiddleware.Authenticate)
	protected.HandleFunc("", r.patientRecordHandler.Create).Methods(http.MethodPost)
	protected.HandleFunc("/{id:[0-9]+}", r.patientRecordHandler.Update).Methods(http.MethodPut)
	protected.HandleFunc("/{id:[0-9]+}", r.patientRecordHandler.Delete).Methods(http.MethodDelete)

	// Preflight requests only need the CORS headers
	api.PathPrefix("/").Methods(http.MethodOptions).HandlerFunc(func(http.ResponseWriter, *http.Request) {})

	r.router.Use(r.loggingMiddleware.Handle)
	r.router.Use(r.recoveryMiddleware.Handle)
	r.router.Use(r.corsMiddleware.Handle)

	return r.router
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	response.JSON(w, http.StatusOK, dto.HealthResponse{
		Status: "ok",
		Time:   time.Now().UTC().Format(time.RFC3339),
	})
}

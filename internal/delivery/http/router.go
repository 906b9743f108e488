package http

import (
	"net/http"

	"alartmed/internal/delivery/http/handler"
	"alartmed/internal/delivery/http/middleware"
	"alartmed/pkg/response"

	"github.com/gorilla/mux"
)

type Router struct {
	router              *mux.Router
	authHandler         *handler.AuthHandler
	appointmentHandler  *handler.AppointmentHandler
	medicationHandler   *handler.MedicationHandler
	examHandler         *handler.ExamHandler
	notificationHandler *handler.NotificationHandler
	dashboardHandler    *handler.DashboardHandler
	specialtyHandler    *handler.SpecialtyHandler
	auditLogHandler     *handler.AuditLogHandler
	authMiddleware      *middleware.AuthMiddleware
	corsMiddleware      *middleware.CORSMiddleware
	loggerMiddleware    *middleware.LoggerMiddleware
	recoverMiddleware   *middleware.RecoverMiddleware
}

type Handlers struct {
	Auth         *handler.AuthHandler
	Appointment  *handler.AppointmentHandler
	Medication   *handler.MedicationHandler
	Exam         *handler.ExamHandler
	Notification *handler.NotificationHandler
	Dashboard    *handler.DashboardHandler
	Specialty    *handler.SpecialtyHandler
	AuditLog     *handler.AuditLogHandler
}

type Middlewares struct {
	Auth    *middleware.AuthMiddleware
	CORS    *middleware.CORSMiddleware
	Logger  *middleware.LoggerMiddleware
	Recover *middleware.RecoverMiddleware
}

func NewRouter(handlers Handlers, middlewares Middlewares) *Router {
	return &Router{
		router:              mux.NewRouter(),
		authHandler:         handlers.Auth,
		appointmentHandler:  handlers.Appointment,
		medicationHandler:   handlers.Medication,
		examHandler:         handlers.Exam,
		notificationHandler: handlers.Notification,
		dashboardHandler:    handlers.Dashboard,
		specialtyHandler:    handlers.Specialty,
		auditLogHandler:     handlers.AuditLog,
		authMiddleware:      middlewares.Auth,
		corsMiddleware:      middlewares.CORS,
		loggerMiddleware:    middlewares.Logger,
		recoverMiddleware:   middlewares.Recover,
	}
}

func (r *Router) Setup() *mux.Router {
	r.router.Use(r.recoverMiddleware.Handle)
	r.router.Use(r.loggerMiddleware.Handle)
	r.router.Use(r.corsMiddleware.Handle)

	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Preflight requests only need the CORS headers
	api.PathPrefix("/").Methods(http.MethodOptions).HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	// Health check
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	// Auth routes (public, but bound to the client session)
	auth := api.PathPrefix("/auth").Subrouter()
	auth.Use(r.authMiddleware.ClientSession)
	auth.HandleFunc("/signup", r.authHandler.Signup).Methods(http.MethodPost)
	auth.HandleFunc("/login", r.authHandler.Login).Methods(http.MethodPost)
	auth.HandleFunc("/logout", r.authHandler.Logout).Methods(http.MethodPost)
	auth.HandleFunc("/reset-password", r.authHandler.ResetPassword).Methods(http.MethodPost)
	auth.HandleFunc("/reset-password/confirm", r.authHandler.ConfirmResetPassword).Methods(http.MethodPost)
	auth.HandleFunc("/session", r.authHandler.GetSession).Methods(http.MethodGet)

	// Portal routes (guarded)
	portal := api.NewRoute().Subrouter()
	portal.Use(r.authMiddleware.ClientSession)
	portal.Use(r.authMiddleware.RequireIdentity)

	portal.HandleFunc("/dashboard", r.dashboardHandler.GetDashboard).Methods(http.MethodGet)
	portal.HandleFunc("/specialties", r.specialtyHandler.GetAllSpecialties).Methods(http.MethodGet)
	portal.HandleFunc("/activity", r.auditLogHandler.GetMyActivity).Methods(http.MethodGet)

	portal.HandleFunc("/appointments", r.appointmentHandler.GetMyAppointments).Methods(http.MethodGet)
	portal.HandleFunc("/appointments", r.appointmentHandler.CreateAppointment).Methods(http.MethodPost)

	portal.HandleFunc("/medications", r.medicationHandler.GetMyMedications).Methods(http.MethodGet)
	portal.HandleFunc("/medications", r.medicationHandler.CreateMedication).Methods(http.MethodPost)
	portal.HandleFunc("/medications/{id}", r.medicationHandler.DeleteMedication).Methods(http.MethodDelete)

	portal.HandleFunc("/exams", r.examHandler.GetMyExams).Methods(http.MethodGet)
	portal.HandleFunc("/exams/{id}/seen", r.examHandler.MarkExamSeen).Methods(http.MethodPost)

	portal.HandleFunc("/notifications", r.notificationHandler.GetMyNotifications).Methods(http.MethodGet)
	portal.HandleFunc("/notifications/read-all", r.notificationHandler.MarkAllAsRead).Methods(http.MethodPost)
	portal.HandleFunc("/notifications/{id}/read", r.notificationHandler.MarkAsRead).Methods(http.MethodPatch)

	r.router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		response.NotFound(w, "Route not found")
	})

	return r.router
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	response.Success(w, http.StatusOK, "ok", map[string]string{"status": "ok"})
}

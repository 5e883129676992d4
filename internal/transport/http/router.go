package http

import (
	"net/http"

	"github.com/Manemax937/HostelApp/internal/application/dispatch"
	"github.com/Manemax937/HostelApp/internal/application/registration"
	"github.com/Manemax937/HostelApp/internal/application/retention"
	"github.com/Manemax937/HostelApp/internal/application/verification"
	"github.com/Manemax937/HostelApp/internal/config"
	"github.com/Manemax937/HostelApp/internal/infrastructure/dynamo"
	"github.com/Manemax937/HostelApp/internal/infrastructure/fcm"
	"github.com/Manemax937/HostelApp/internal/infrastructure/smtp"
	"github.com/Manemax937/HostelApp/internal/transport/http/handler"
	appmiddleware "github.com/Manemax937/HostelApp/internal/transport/http/middleware"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Deps holds all infrastructure dependencies for the router. Retention is
// injected because main shares the same service with the daily scheduler.
type Deps struct {
	UserRepo         *dynamo.UserRepo
	NotificationRepo *dynamo.NotificationRepo
	PushSender       fcm.Sender
	Mailer           smtp.Mailer
	Retention        retention.Service
}

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	issuerSvc := verification.NewService(deps.UserRepo, deps.Mailer)
	dispatchSvc := dispatch.NewService(deps.UserRepo, deps.NotificationRepo, deps.PushSender)
	registrationSvc := registration.NewService(deps.UserRepo, issuerSvc)

	healthH := handler.NewHealthHandler()
	notifH := handler.NewNotificationHandler(dispatchSvc)
	userH := handler.NewUserHandler(registrationSvc, issuerSvc)
	cleanupH := handler.NewCleanupHandler(deps.Retention)

	triggerAuth := appmiddleware.TriggerAuth(cfg.TriggerAuthToken)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/health-check", healthH.Ping)

		// Trigger endpoints, invoked by the store's event pipeline rather
		// than by end users.
		r.Group(func(r chi.Router) {
			r.Use(triggerAuth)

			r.Post("/notifications", notifH.Create)
			r.Post("/users", userH.Register)
			r.Post("/users/{id}/verify", userH.ConfirmCode)
			r.Post("/admin/cleanup", cleanupH.Run)
		})
	})

	return r
}

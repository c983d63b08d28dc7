package rest

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	chimiddleware "github.com/go-chi/chi/middleware"

	"github.com/corpotravel/trip-management/internal"
	"github.com/corpotravel/trip-management/internal/auth"
	"github.com/corpotravel/trip-management/internal/chatbot"
	"github.com/corpotravel/trip-management/internal/communication"
	"github.com/corpotravel/trip-management/internal/estimate"
	"github.com/corpotravel/trip-management/internal/expense"
	"github.com/corpotravel/trip-management/internal/extraction"
	"github.com/corpotravel/trip-management/internal/invitation"
	"github.com/corpotravel/trip-management/internal/transport/middleware"
	"github.com/corpotravel/trip-management/internal/transport/swagger"
	"github.com/corpotravel/trip-management/internal/trip"
	"github.com/corpotravel/trip-management/internal/upload"
	"github.com/corpotravel/trip-management/internal/user"
	"github.com/corpotravel/trip-management/internal/visitor"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	Auth          *auth.Handler
	Trip          *trip.Handler
	Expense       *expense.Handler
	Invitation    *invitation.Handler
	Communication *communication.Handler
	Visitor       *visitor.Handler
	Estimate      *estimate.Handler
	Extraction    *extraction.Handler
	Chatbot       *chatbot.Handler
	Upload        *upload.Handler
	User          *user.Handler
	Health        *HealthHandler
}

// NewRouter wires all routes with their middlewares. Public surface is
// login, registration (employee and visitor), health and docs; everything
// else sits behind the token middleware, with role gates per group.
func NewRouter(cfg *internal.Config, logger *slog.Logger, h Handlers) chi.Router {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(middleware.RequestID)
	r.Use(middleware.RecoveryMiddleware(logger))
	r.Use(middleware.CORS(cfg.Server.AllowedOrigins))
	r.Use(middleware.LoggingMiddleware(logger))

	rbac := auth.NewRBACAuthorization(logger)

	r.Get("/health", h.Health.Health)
	r.Get("/ping", h.Health.Ping)
	r.Get("/swagger/openapi.yml", swagger.SpecHandler("api/openapi.yml"))
	r.Mount("/swagger", swagger.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		// public
		r.Post("/auth/login", h.Auth.Login)
		r.Post("/auth/register", h.Auth.Register)
		r.Post("/auth/refresh", h.Auth.RefreshToken)
		r.Post("/auth/visitante/register", h.Invitation.RedeemInvitation)

		// authenticated
		r.Group(func(r chi.Router) {
			r.Use(h.Auth.AuthMiddleware)

			r.Post("/auth/logout", h.Auth.Logout)
			r.Get("/users/me", h.User.Me)
			r.Post("/chatbot/ask", h.Chatbot.Ask)

			// employee surface
			r.Group(func(r chi.Router) {
				r.Use(rbac.RequireEmployee())

				r.Post("/upload", h.Upload.UploadReceipt)
				r.Post("/viagens/estimativa", h.Estimate.Estimate)

				r.Route("/viagens", func(r chi.Router) {
					r.Post("/", h.Trip.CreateTrip)
					r.Get("/", h.Trip.ListTrips)
					r.Get("/upcoming", h.Trip.UpcomingTrips)

					r.Route("/{tripID}", func(r chi.Router) {
						r.Get("/", h.Trip.GetTrip)
						r.Patch("/", h.Trip.UpdateTrip)
						r.Delete("/", h.Trip.DeleteTrip)

						r.With(rbac.RequireApprover()).Patch("/status", h.Trip.UpdateStatus)

						r.Post("/eventos", h.Trip.AddEvent)
						r.Delete("/eventos/{eventID}", h.Trip.RemoveEvent)

						r.Get("/despesas", h.Expense.ListByTrip)

						r.With(rbac.RequireApprover()).Post("/convidar", h.Invitation.CreateInvitation)
						r.With(rbac.RequireApprover()).Get("/convites", h.Invitation.ListByTrip)

						r.Get("/comunicados", h.Communication.ListByTrip)
						r.With(rbac.RequireApprover()).Post("/comunicados", h.Communication.CreateCommunication)
					})
				})

				r.Route("/despesas", func(r chi.Router) {
					r.Post("/", h.Expense.CreateExpense)
					r.Post("/extrair", h.Extraction.ExtractReceipt)

					r.Route("/{expenseID}", func(r chi.Router) {
						r.Get("/", h.Expense.GetExpense)
						r.Patch("/", h.Expense.UpdateExpense)
						r.Delete("/", h.Expense.DeleteExpense)

						r.With(rbac.RequireApprover()).Post("/aprovar", h.Expense.ApproveExpense)
						r.With(rbac.RequireApprover()).Post("/reprovar", h.Expense.RejectExpense)
					})
				})
			})

			// visitor surface
			r.Group(func(r chi.Router) {
				r.Use(rbac.RequireVisitor())

				r.Get("/visitante/minha-viagem", h.Visitor.GetMyTrip)
				r.Post("/visitante/aceitar-termos", h.Visitor.AcceptTerms)
			})

			// admin surface
			r.Group(func(r chi.Router) {
				r.Use(rbac.RequireDeveloper())

				r.Get("/admin/users", h.User.ListUsers)
				r.Patch("/admin/users/{userID}", h.User.UpdateRole)
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error": "route not found"}`))
	})

	return r
}

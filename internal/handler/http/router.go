package http

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/cmlabs-hris/shift-attendance-go/internal/domain/user"
	"github.com/cmlabs-hris/shift-attendance-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/shift-attendance-go/internal/handler/http/response"
	"github.com/cmlabs-hris/shift-attendance-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

type RouterOptions struct {
	AppName        string
	Version        string
	Env            string
	AllowedOrigins []string
}

func NewRouter(
	JWTService jwt.Service,
	opts RouterOptions,
	clockHandler ClockHandler,
	shiftHandler ShiftHandler,
	coverageHandler CoverageHandler,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(opts.Env != "production")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", opts.AppName),
		slog.String("version", opts.Version),
		slog.String("env", opts.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Retry-After"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelInfo,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService.JWTAuth()))
			r.Use(middleware.RequireEmployee)

			r.Route("/clock", func(r chi.Router) {
				r.Use(middleware.RequirePermission(user.PermissionClockOwn))
				r.Post("/in", clockHandler.ClockIn)
				r.Get("/active", clockHandler.Active)
				r.Route("/{id}", func(r chi.Router) {
					r.Post("/out", clockHandler.ClockOut)
					r.Post("/break/start", clockHandler.StartBreak)
					r.Post("/break/end", clockHandler.EndBreak)
				})
			})

			r.Route("/shifts", func(r chi.Router) {
				r.Get("/my", shiftHandler.MyShifts)
				r.Post("/check-missed", shiftHandler.CheckMissed)
			})

			r.Route("/coverage", func(r chi.Router) {
				r.Get("/available", coverageHandler.Available)
				r.Get("/approved", coverageHandler.Approved)

				r.Route("/requests", func(r chi.Router) {
					r.Post("/", coverageHandler.Create)

					// Manager only
					r.Group(func(r chi.Router) {
						r.Use(middleware.RequireManager)
						r.Get("/", coverageHandler.ListPending)
						r.With(middleware.RequirePermission(user.PermissionCoverageApprove)).Post("/{id}/approve", coverageHandler.Approve)
						r.With(middleware.RequirePermission(user.PermissionCoverageApprove)).Post("/{id}/deny", coverageHandler.Deny)
					})
				})
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.NotFound(w, "Route not found")
	})

	return r
}

package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"github.com/kintai-check/kintai-backend-go/internal/domain/user"
	"github.com/kintai-check/kintai-backend-go/internal/handler/http/middleware"
	"github.com/kintai-check/kintai-backend-go/internal/pkg/jwt"
	"github.com/kintai-check/kintai-backend-go/internal/pkg/metrics"
)

type Handlers struct {
	Auth       AuthHandler
	Attendance AttendanceHandler
	Issue      IssueHandler
	Setting    SettingHandler
	Report     ReportHandler
	Store      StoreHandler
	// Events serves GET /api/v1/events when set
	Events EventHandler
}

type RouterOptions struct {
	AllowedOrigins []string
	Logger         *slog.Logger
	// Metrics enables request instrumentation and GET /metrics when set
	Metrics *metrics.Metrics
	// RateLimiter guards login and CSV upload when set
	RateLimiter *middleware.RateLimiter
}

func NewRouter(JWTService jwt.Service, h Handlers, opts RouterOptions) *chi.Mux {
	r := chi.NewRouter()

	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(chiMiddleware.RealIP)
	if opts.Logger != nil {
		r.Use(httplog.RequestLogger(opts.Logger, &httplog.Options{
			Level:  slog.LevelInfo,
			Schema: httplog.SchemaECS,
		}))
	}
	if opts.Metrics != nil {
		r.Use(opts.Metrics.Instrument)
	}

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	if opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", opts.Metrics.Handler())
	}

	limited := func(r chi.Router) chi.Router {
		if opts.RateLimiter == nil {
			return r
		}
		return r.With(opts.RateLimiter.Handler)
	}

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			limited(r).Post("/login", h.Auth.Login)
			r.Post("/refresh", h.Auth.RefreshToken)
			r.Post("/logout", h.Auth.Logout)
		})

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired)

			r.Route("/settings", func(r chi.Router) {
				r.With(middleware.RequirePermission(user.PermissionSettingsView)).Get("/rules", h.Setting.GetRules)
				r.Get("/templates", h.Setting.GetTemplates)
				r.Get("/dictionary", h.Setting.GetDictionary)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireAdmin)
					r.Put("/rules", h.Setting.UpdateRules)
					r.Put("/templates", h.Setting.UpdateTemplates)
					r.Put("/dictionary", h.Setting.UpdateDictionary)
				})
			})

			r.Route("/attendance", func(r chi.Router) {
				r.With(middleware.RequirePermission(user.PermissionAttendanceView)).Get("/", h.Attendance.List)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionAttendanceImport))
					r.Post("/preview", h.Attendance.Preview)
					limited(r).Post("/upload", h.Attendance.Upload)
				})
			})

			r.Route("/issues", func(r chi.Router) {
				r.Use(middleware.RequirePermission(user.PermissionIssuesView))
				r.Get("/", h.Issue.List)

				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", h.Issue.Get)

					r.Group(func(r chi.Router) {
						r.Use(middleware.RequirePermission(user.PermissionIssuesHandle))
						r.Put("/", h.Issue.UpdateStatus)
						r.Post("/logs", h.Issue.AddLog)
						r.Post("/reason", h.Issue.GenerateReason)
					})
				})
			})

			r.With(middleware.RequirePermission(user.PermissionReportsGenerate)).Post("/reports", h.Report.Generate)

			if h.Events != nil {
				r.Get("/events", h.Events.Stream)
			}

			r.Route("/stores", func(r chi.Router) {
				r.Get("/", h.Store.List)
				r.Get("/{id}", h.Store.Get)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireAdmin)
					r.Post("/", h.Store.Create)
					r.Put("/{id}", h.Store.Update)
					r.Delete("/{id}", h.Store.Delete)
				})
			})
		})
	})
	return r
}

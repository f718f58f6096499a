package http

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"github.com/vidyadesk/school-backend-go/internal/config"
	"github.com/vidyadesk/school-backend-go/internal/handler/http/middleware"
	"github.com/vidyadesk/school-backend-go/internal/pkg/jwt"
)

func NewRouter(
	cfg *config.Config,
	jwtService jwt.Service,
	periodHandler PeriodHandler,
	reportHandler ReportHandler,
	profileHandler ProfileHandler,
	settingsHandler SettingsHandler,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "school-backend"),
		slog.String("version", "v1.0.0"),
		slog.String("env", cfg.App.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
			r.Use(middleware.AuthRequired(jwtService.JWTAuth()))

			r.Route("/payroll", func(r chi.Router) {
				r.Route("/periods", func(r chi.Router) {
					r.Get("/", periodHandler.List)
					r.With(middleware.AdminOnly).Post("/", periodHandler.Create)

					r.Route("/{id}", func(r chi.Router) {
						r.Get("/", periodHandler.Get)
						r.With(middleware.AdminOnly).Patch("/", periodHandler.Update)
						r.With(middleware.AdminOnly).Delete("/", periodHandler.Delete)

						r.With(middleware.AdminOnly).Post("/compute", periodHandler.Compute)
						r.With(middleware.AdminOnly).Post("/lock", periodHandler.Lock)
						r.With(middleware.AdminOnly).Post("/unlock", periodHandler.Unlock)

						r.With(middleware.AdminOnly).Get("/items", periodHandler.ListItems)
						r.With(middleware.AdminOnly).Post("/items/process", periodHandler.MarkItemsProcessed)
					})
				})

				// Statutory returns are addressed by month, not period id.
				r.Route("/reports", func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Get("/pf", reportHandler.PFReport)
					r.Get("/esi", reportHandler.ESIReport)
				})

				// Payslip access is checked in the service: employees can
				// only fetch their own item.
				r.Get("/items/{id}/payslip", reportHandler.Payslip)

				r.Route("/settings", func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Get("/", settingsHandler.Get)
					r.Patch("/", settingsHandler.Update)
				})
			})

			r.Route("/profiles", func(r chi.Router) {
				r.Get("/me", profileHandler.GetMine)
				r.Post("/me/changes", profileHandler.SubmitChange)

				r.With(middleware.AdminOnly).Get("/", profileHandler.List)
				r.With(middleware.AdminOnly).Get("/{id}", profileHandler.Get)
				r.With(middleware.AdminOnly).Post("/{id}/changes/review", profileHandler.ReviewChange)
			})
		})
	})

	return r
}

// Package dashboard предоставляет сборку и маршруты основного приложения.
package dashboard

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/magabrotheeeer/subscription-dashboard/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/subscription-dashboard/internal/http/handlers/auth/register"
	"github.com/magabrotheeeer/subscription-dashboard/internal/http/handlers/health"
	subslist "github.com/magabrotheeeer/subscription-dashboard/internal/http/handlers/subscriptions/list"
	"github.com/magabrotheeeer/subscription-dashboard/internal/http/handlers/user/profile"
	"github.com/magabrotheeeer/subscription-dashboard/internal/http/middlewarectx"
	authservice "github.com/magabrotheeeer/subscription-dashboard/internal/services/auth"
	dashboardservice "github.com/magabrotheeeer/subscription-dashboard/internal/services/dashboard"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, authService *authservice.Service, dashboardService *dashboardservice.Service) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
		middlewarectx.MetricsMiddleware,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/register", register.New(logger, authService).ServeHTTP)
		r.Post("/login", login.New(logger, authService).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.SessionMiddleware(authService, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))
			r.Get("/user", profile.New(logger, dashboardService).ServeHTTP)
			r.Get("/subscriptions", subslist.New(logger, dashboardService).ServeHTTP)
		})
	})

	r.Get("/health", health.New(logger).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
}

// Package list реализует HTTP-обработчик для получения списка подписок
// текущего пользователя, от самой новой к самой старой.
package list

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/subscription-dashboard/internal/http/middlewarectx"
	"github.com/magabrotheeeer/subscription-dashboard/internal/http/response"
	"github.com/magabrotheeeer/subscription-dashboard/internal/lib/sl"
	"github.com/magabrotheeeer/subscription-dashboard/internal/models"
	"github.com/magabrotheeeer/subscription-dashboard/internal/services/dashboard"
)

// Handler обрабатывает запросы на получение подписок владельца сессии.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики чтения подписок.
type Service interface {
	GetSubscriptions(ctx context.Context, session models.Session) ([]*models.Subscription, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP обрабатывает HTTP-запрос на получение списка подписок.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscriptions.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	session, ok := middlewarectx.SessionFromContext(r.Context())
	if !ok {
		log.Error("session not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("Unauthorized"))
		return
	}

	res, err := h.service.GetSubscriptions(r.Context(), session)
	if err != nil {
		if errors.Is(err, dashboard.ErrUnauthorized) {
			log.Error("unauthorized subscriptions request")
			w.WriteHeader(http.StatusUnauthorized)
			render.JSON(w, r, response.Error("Unauthorized"))
			return
		}
		log.Error("failed to list subscriptions", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("Internal Server Error"))
		return
	}

	// Пустой список — корректный результат, сериализуется как [].
	if res == nil {
		res = []*models.Subscription{}
	}

	log.Info("list subscriptions", "count", len(res))
	render.JSON(w, r, res)
}

// Package profile реализует HTTP-обработчик для получения профиля текущего пользователя.
//
// Handler извлекает сессию из контекста запроса, вызывает бизнес-логику для
// чтения проекции профиля владельца сессии и возвращает её в JSON-формате.
//
// В случае ошибок формирует соответствующие HTTP-ответы с описанием проблемы.
package profile

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

// Handler обрабатывает запросы на получение профиля владельца сессии.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис бизнес-логики личного кабинета
}

// Service описывает интерфейс бизнес-логики чтения профиля.
type Service interface {
	GetProfileSummary(ctx context.Context, session models.Session) (*models.ProfileSummary, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP обрабатывает HTTP-запрос на получение профиля.
//
// Выполняет:
// - Извлечение сессии из контекста.
// - Вызов бизнес-логики для чтения проекции профиля.
// - Формирование JSON-ответа с данными или ошибкой.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.profile"

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

	res, err := h.service.GetProfileSummary(r.Context(), session)
	if err != nil {
		switch {
		case errors.Is(err, dashboard.ErrUnauthorized):
			log.Error("unauthorized profile request")
			w.WriteHeader(http.StatusUnauthorized)
			render.JSON(w, r, response.Error("Unauthorized"))
		case errors.Is(err, dashboard.ErrUserNotFound):
			log.Error("session user no longer exists", slog.String("email", session.Email))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("User not found"))
		default:
			log.Error("failed to read profile", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("Internal Server Error"))
		}
		return
	}

	log.Info("success to read profile", slog.String("email", res.Email))
	render.JSON(w, r, res)
}

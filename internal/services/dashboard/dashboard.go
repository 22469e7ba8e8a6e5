// Package dashboard содержит бизнес-логику выдачи данных личного кабинета.
//
// Каждая операция принимает models.Session явным параметром и отдаёт только
// записи, принадлежащие владельцу сессии. Единственный якорь доверия —
// email из валидированной сессии; идентификаторы пользователей из запроса
// не принимаются.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/subscription-dashboard/internal/lib/sl"
	"github.com/magabrotheeeer/subscription-dashboard/internal/models"
	"github.com/magabrotheeeer/subscription-dashboard/internal/storage"
)

// ErrUnauthorized возвращается, если сессия отсутствует либо не содержит email.
// Также возвращается из GetSubscriptions, когда пользователь сессии уже удалён:
// устаревшая сессия не должна маскироваться под пустой список подписок.
var ErrUnauthorized = errors.New("unauthorized")

// ErrUserNotFound возвращается из GetProfileSummary, когда за email валидной
// сессии больше не стоит учётная запись.
var ErrUserNotFound = errors.New("user not found")

// profileCacheTTL — время жизни кешированной проекции профиля.
const profileCacheTTL = time.Minute

// Repository определяет методы чтения, необходимые личному кабинету.
type Repository interface {
	// FindUserByEmail возвращает проекцию профиля с количеством подписок.
	FindUserByEmail(ctx context.Context, email string) (*models.ProfileSummary, error)
	// GetUserByEmail возвращает пользователя по email.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	// ListSubscriptionsByUserUID возвращает подписки пользователя,
	// упорядоченные по убыванию даты создания.
	ListSubscriptionsByUserUID(ctx context.Context, userUID string) ([]*models.Subscription, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	// Get пытается получить значение из кеша по ключу.
	Get(key string, result any) (bool, error)
	// Set сохраняет значение в кеш с временем жизни.
	Set(key string, value any, expiration time.Duration) error
	// Invalidate удаляет значение из кеша по ключу.
	Invalidate(key string) error
}

// Service реализует слой авторизованного доступа к данным личного кабинета.
// Состояния между запросами не хранит.
type Service struct {
	repo  Repository
	cache Cache
	log   *slog.Logger
}

// New создает новый экземпляр Service.
func New(repo Repository, cache Cache, log *slog.Logger) *Service {
	return &Service{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

// GetProfileSummary возвращает проекцию профиля владельца сессии.
//
// Возвращает ErrUnauthorized до обращения к хранилищу, если сессия не несёт
// email, и ErrUserNotFound, если учётная запись уже удалена. Хэш пароля
// в проекцию не входит.
func (s *Service) GetProfileSummary(ctx context.Context, session models.Session) (*models.ProfileSummary, error) {
	const op = "dashboard.GetProfileSummary"

	if session.Email == "" {
		return nil, ErrUnauthorized
	}

	cacheKey := fmt.Sprintf("profile:%s", session.Email)
	var cached models.ProfileSummary
	found, err := s.cache.Get(cacheKey, &cached)
	if err != nil {
		s.log.Warn("failed to read profile from cache", slog.String("key", cacheKey), sl.Err(err))
	}
	if found {
		return &cached, nil
	}

	profile, err := s.repo.FindUserByEmail(ctx, session.Email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		s.log.Error("failed to find user by email", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.cache.Set(cacheKey, profile, profileCacheTTL); err != nil {
		s.log.Warn("failed to cache profile", slog.String("key", cacheKey), sl.Err(err))
	}
	return profile, nil
}

// GetSubscriptions возвращает подписки владельца сессии, от самой новой
// к самой старой. Пустой список — корректный результат, а не ошибка.
func (s *Service) GetSubscriptions(ctx context.Context, session models.Session) ([]*models.Subscription, error) {
	const op = "dashboard.GetSubscriptions"

	if session.Email == "" {
		return nil, ErrUnauthorized
	}

	user, err := s.repo.GetUserByEmail(ctx, session.Email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			// Сессия валидна, но пользователя больше нет — сессия устарела.
			return nil, ErrUnauthorized
		}
		s.log.Error("failed to resolve session user", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	subs, err := s.repo.ListSubscriptionsByUserUID(ctx, user.UID)
	if err != nil {
		s.log.Error("failed to list subscriptions", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return subs, nil
}

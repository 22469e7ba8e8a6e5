package dashboard

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/subscription-dashboard/internal/models"
	"github.com/magabrotheeeer/subscription-dashboard/internal/storage"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) FindUserByEmail(ctx context.Context, email string) (*models.ProfileSummary, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ProfileSummary), args.Error(1)
}
func (m *RepoMock) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}
func (m *RepoMock) ListSubscriptionsByUserUID(ctx context.Context, userUID string) ([]*models.Subscription, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Subscription), args.Error(1)
}

type CacheMock struct{ mock.Mock }

func (m *CacheMock) Get(key string, result any) (bool, error) {
	args := m.Called(key, result)
	return args.Bool(0), args.Error(1)
}
func (m *CacheMock) Set(key string, value any, expiration time.Duration) error {
	return m.Called(key, value, expiration).Error(0)
}
func (m *CacheMock) Invalidate(key string) error {
	return m.Called(key).Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func cacheMiss(c *CacheMock) {
	c.On("Get", mock.Anything, mock.Anything).Return(false, nil)
	c.On("Set", mock.Anything, mock.Anything, mock.Anything).Return(nil)
}

func TestService_GetProfileSummary(t *testing.T) {
	createdAt := time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)
	profile := &models.ProfileSummary{
		UID:               "11111111-1111-1111-1111-111111111111",
		Name:              "John Doe",
		Email:             "john@example.com",
		CreatedAt:         createdAt,
		SubscriptionCount: 2,
	}

	tests := []struct {
		name       string
		session    models.Session
		setupMocks func(r *RepoMock, c *CacheMock)
		want       *models.ProfileSummary
		wantErr    error
	}{
		{
			name:    "успешное чтение профиля",
			session: models.Session{Email: "john@example.com"},
			setupMocks: func(r *RepoMock, c *CacheMock) {
				cacheMiss(c)
				r.On("FindUserByEmail", mock.Anything, "john@example.com").
					Return(profile, nil).Once()
			},
			want: profile,
		},
		{
			name:       "сессия без email",
			session:    models.Session{},
			setupMocks: func(_ *RepoMock, _ *CacheMock) {},
			wantErr:    ErrUnauthorized,
		},
		{
			name:    "пользователь удалён после выдачи сессии",
			session: models.Session{Email: "gone@example.com"},
			setupMocks: func(r *RepoMock, c *CacheMock) {
				cacheMiss(c)
				r.On("FindUserByEmail", mock.Anything, "gone@example.com").
					Return(nil, fmt.Errorf("storage.FindUserByEmail: %w", storage.ErrNotFound)).Once()
			},
			wantErr: ErrUserNotFound,
		},
		{
			name:    "ошибка хранилища",
			session: models.Session{Email: "john@example.com"},
			setupMocks: func(r *RepoMock, c *CacheMock) {
				cacheMiss(c)
				r.On("FindUserByEmail", mock.Anything, "john@example.com").
					Return(nil, errors.New("connection refused")).Once()
			},
			wantErr: nil, // любая другая ошибка, не сентинел
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			cache := new(CacheMock)
			tt.setupMocks(repo, cache)

			service := New(repo, cache, newNoopLogger())
			got, err := service.GetProfileSummary(context.Background(), tt.session)

			switch {
			case tt.want != nil:
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			case tt.wantErr != nil:
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
			default:
				require.Error(t, err)
				assert.NotErrorIs(t, err, ErrUnauthorized)
				assert.NotErrorIs(t, err, ErrUserNotFound)
			}

			repo.AssertExpectations(t)
		})
	}
}

// Без email в сессии слой данных не должен делать ни одного обращения
// к хранилищу и кешу.
func TestService_Unauthorized_NoStoreCalls(t *testing.T) {
	repo := new(RepoMock)
	cache := new(CacheMock)
	service := New(repo, cache, newNoopLogger())

	_, err := service.GetProfileSummary(context.Background(), models.Session{})
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = service.GetSubscriptions(context.Background(), models.Session{})
	assert.ErrorIs(t, err, ErrUnauthorized)

	repo.AssertNotCalled(t, "FindUserByEmail", mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "GetUserByEmail", mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "ListSubscriptionsByUserUID", mock.Anything, mock.Anything)
	cache.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
}

func TestService_GetProfileSummary_CacheHit(t *testing.T) {
	repo := new(RepoMock)
	cache := new(CacheMock)

	cached := models.ProfileSummary{
		UID:               "11111111-1111-1111-1111-111111111111",
		Name:              "John Doe",
		Email:             "john@example.com",
		SubscriptionCount: 2,
	}
	cache.On("Get", "profile:john@example.com", mock.Anything).
		Run(func(args mock.Arguments) {
			*args.Get(1).(*models.ProfileSummary) = cached
		}).Return(true, nil).Once()

	service := New(repo, cache, newNoopLogger())
	got, err := service.GetProfileSummary(context.Background(), models.Session{Email: "john@example.com"})

	require.NoError(t, err)
	assert.Equal(t, &cached, got)
	repo.AssertNotCalled(t, "FindUserByEmail", mock.Anything, mock.Anything)
}

func TestService_GetSubscriptions(t *testing.T) {
	user := &models.User{
		UID:   "11111111-1111-1111-1111-111111111111",
		Name:  "John Doe",
		Email: "john@example.com",
	}
	now := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	subs := []*models.Subscription{
		{ID: 2, Name: "Pro Plan", Status: "active", Amount: 19.99, CreatedAt: now.Add(time.Minute)},
		{ID: 1, Name: "Basic Plan", Status: "active", Amount: 9.99, CreatedAt: now},
	}

	tests := []struct {
		name       string
		session    models.Session
		setupMocks func(r *RepoMock)
		want       []*models.Subscription
		wantErr    error
	}{
		{
			name:    "успешное чтение подписок",
			session: models.Session{Email: "john@example.com"},
			setupMocks: func(r *RepoMock) {
				r.On("GetUserByEmail", mock.Anything, "john@example.com").Return(user, nil).Once()
				r.On("ListSubscriptionsByUserUID", mock.Anything, user.UID).Return(subs, nil).Once()
			},
			want: subs,
		},
		{
			name:    "у пользователя нет подписок",
			session: models.Session{Email: "john@example.com"},
			setupMocks: func(r *RepoMock) {
				r.On("GetUserByEmail", mock.Anything, "john@example.com").Return(user, nil).Once()
				r.On("ListSubscriptionsByUserUID", mock.Anything, user.UID).
					Return([]*models.Subscription{}, nil).Once()
			},
			want: []*models.Subscription{},
		},
		{
			name:       "сессия без email",
			session:    models.Session{},
			setupMocks: func(_ *RepoMock) {},
			wantErr:    ErrUnauthorized,
		},
		{
			name:    "пользователь сессии удалён - устаревшая сессия",
			session: models.Session{Email: "gone@example.com"},
			setupMocks: func(r *RepoMock) {
				r.On("GetUserByEmail", mock.Anything, "gone@example.com").
					Return(nil, fmt.Errorf("storage.GetUserByEmail: %w", storage.ErrNotFound)).Once()
			},
			wantErr: ErrUnauthorized,
		},
		{
			name:    "ошибка хранилища при выборке подписок",
			session: models.Session{Email: "john@example.com"},
			setupMocks: func(r *RepoMock) {
				r.On("GetUserByEmail", mock.Anything, "john@example.com").Return(user, nil).Once()
				r.On("ListSubscriptionsByUserUID", mock.Anything, user.UID).
					Return(nil, errors.New("db error")).Once()
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			cache := new(CacheMock)
			tt.setupMocks(repo)

			service := New(repo, cache, newNoopLogger())
			got, err := service.GetSubscriptions(context.Background(), tt.session)

			switch {
			case tt.want != nil:
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			case tt.wantErr != nil:
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
			default:
				require.Error(t, err)
				assert.NotErrorIs(t, err, ErrUnauthorized)
			}

			repo.AssertExpectations(t)
		})
	}
}

// Подписки всегда запрашиваются по uid владельца сессии: даже если в базе
// есть чужие записи, в выборку уходит только свой uid.
func TestService_GetSubscriptions_ScopedToSessionUser(t *testing.T) {
	john := &models.User{UID: "uid-john", Email: "john@example.com"}
	jane := &models.User{UID: "uid-jane", Email: "jane@example.com"}

	johnSubs := []*models.Subscription{
		{ID: 2, Name: "Pro Plan", Status: "active", Amount: 19.99, UserUID: john.UID},
		{ID: 1, Name: "Basic Plan", Status: "active", Amount: 9.99, UserUID: john.UID},
	}
	janeSubs := []*models.Subscription{
		{ID: 4, Name: "Pro Plan", Status: "pending", Amount: 19.99, UserUID: jane.UID},
		{ID: 3, Name: "Basic Plan", Status: "active", Amount: 9.99, UserUID: jane.UID},
	}

	repo := new(RepoMock)
	repo.On("GetUserByEmail", mock.Anything, john.Email).Return(john, nil)
	repo.On("GetUserByEmail", mock.Anything, jane.Email).Return(jane, nil)
	repo.On("ListSubscriptionsByUserUID", mock.Anything, john.UID).Return(johnSubs, nil)
	repo.On("ListSubscriptionsByUserUID", mock.Anything, jane.UID).Return(janeSubs, nil)

	service := New(repo, new(CacheMock), newNoopLogger())

	got, err := service.GetSubscriptions(context.Background(), models.Session{Email: john.Email})
	require.NoError(t, err)
	require.Len(t, got, 2)
	for _, sub := range got {
		assert.Equal(t, john.UID, sub.UserUID)
	}

	got, err = service.GetSubscriptions(context.Background(), models.Session{Email: jane.Email})
	require.NoError(t, err)
	require.Len(t, got, 2)
	for _, sub := range got {
		assert.Equal(t, jane.UID, sub.UserUID)
	}
}

// Повторный вызов с той же сессией при неизменном хранилище дает тот же результат.
func TestService_GetSubscriptions_Idempotent(t *testing.T) {
	user := &models.User{UID: "uid-john", Email: "john@example.com"}
	subs := []*models.Subscription{
		{ID: 2, Name: "Pro Plan", Status: "active", Amount: 19.99},
		{ID: 1, Name: "Basic Plan", Status: "active", Amount: 9.99},
	}

	repo := new(RepoMock)
	repo.On("GetUserByEmail", mock.Anything, user.Email).Return(user, nil).Twice()
	repo.On("ListSubscriptionsByUserUID", mock.Anything, user.UID).Return(subs, nil).Twice()

	service := New(repo, new(CacheMock), newNoopLogger())
	session := models.Session{Email: user.Email}

	first, err := service.GetSubscriptions(context.Background(), session)
	require.NoError(t, err)
	second, err := service.GetSubscriptions(context.Background(), session)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	repo.AssertExpectations(t)
}

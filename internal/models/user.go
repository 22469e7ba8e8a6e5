// Package models содержит доменные структуры приложения: пользователя,
// подписку, проекцию профиля и сессию. Структуры используются в бизнес‑логике
// и при работе с хранилищем.
package models

import "time"

// User представляет зарегистрированного пользователя системы.
//
// PasswordHash никогда не сериализуется наружу и не попадает в проекции.
type User struct {
	UID          string    `json:"uid"`        // Уникальный идентификатор пользователя
	Name         string    `json:"name"`       // Отображаемое имя
	Email        string    `json:"email"`      // Электронная почта (уникальная)
	PasswordHash string    `json:"-"`          // Хэш пароля пользователя
	CreatedAt    time.Time `json:"created_at"` // Дата создания учётной записи
}

// ProfileSummary — проекция профиля пользователя, отдаваемая наружу.
// Содержит только безопасные поля и количество подписок.
type ProfileSummary struct {
	UID               string    `json:"uid"`
	Name              string    `json:"name"`
	Email             string    `json:"email"`
	CreatedAt         time.Time `json:"created_at"`
	SubscriptionCount int       `json:"subscription_count"`
}

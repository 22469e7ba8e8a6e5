package models

import "time"

// Subscription представляет запись о подписке пользователя.
//
// Status хранится как непрозрачная строка ("active", "pending" и другие
// значения, определяемые хранилищем). UserUID не сериализуется в ответах:
// подписки всегда отдаются только их владельцу.
type Subscription struct {
	ID              int       `json:"id"`
	Name            string    `json:"name"`              // Название тарифного плана
	Status          string    `json:"status"`            // Статус подписки
	Amount          float64   `json:"amount"`            // Стоимость за месяц
	NextBillingDate time.Time `json:"next_billing_date"` // Дата следующего списания
	UserUID         string    `json:"-"`                 // Владелец подписки
	CreatedAt       time.Time `json:"created_at"`        // Дата создания записи
}

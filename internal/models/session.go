package models

// Session — подтверждённая личность вызывающего, извлечённая из JWT.
//
// Передаётся в бизнес-логику явным параметром: слой доступа к данным
// никогда не достаёт личность из окружения сам и никогда не принимает
// идентификатор пользователя из тела запроса.
type Session struct {
	Email string // Электронная почта аутентифицированного пользователя
}

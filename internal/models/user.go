package models

import "time"

// User представляет пользователя (арендатора) на сервере
type User struct {
	CreatedAt    time.Time `json:"created_at"`    // время создания
	LastLoginAt  time.Time `json:"last_login_at"` // время последнего входа
	ID           string    `json:"id"`            // UUID пользователя
	Username     string    `json:"username"`      // уникальный username
	PasswordHash string    `json:"-"`             // bcrypt хеш пароля
}

// Record представляет хранимую на сервере запись коллекции.
// Data содержит JSON-объект записи; поля id/owner_id/created_at/updated_at
// сервер проставляет сам.
type Record struct {
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	ID         string    `json:"id"`
	OwnerID    string    `json:"owner_id"`
	Collection string    `json:"collection"`
	Data       []byte    `json:"data"`
}

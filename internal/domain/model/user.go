// Пакет model — доменные модели Catalog Gateway.
package model

import "time"

// User — учётная запись, хранится в таблице users.
// Username всегда в нижнем регистре; пароль хранится только как bcrypt-хеш.
type User struct {
	// ID — идентификатор (BIGSERIAL)
	ID int64
	// Username — уникальное имя пользователя (lower-case)
	Username string
	// PasswordHash — bcrypt-хеш пароля
	PasswordHash string
	// Role — роль (user, admin)
	Role string
	// CreatedAt — время регистрации
	CreatedAt time.Time
}

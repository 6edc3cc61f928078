// Пакет auth — хеширование паролей, выпуск и проверка JWT,
// автомат авторизации запроса (Gate).
package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DefaultBcryptCost — стоимость bcrypt по умолчанию.
const DefaultBcryptCost = 10

// PasswordHasher — одностороннее хеширование паролей через bcrypt.
// Соль генерируется на каждый вызов Hash и хранится внутри хеша.
type PasswordHasher struct {
	cost int
}

// NewPasswordHasher создаёт хешер с указанной стоимостью.
// Стоимость вне [bcrypt.MinCost, bcrypt.MaxCost] заменяется на DefaultBcryptCost.
func NewPasswordHasher(cost int) *PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultBcryptCost
	}
	return &PasswordHasher{cost: cost}
}

// Hash возвращает bcrypt-хеш пароля.
func (h *PasswordHasher) Hash(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", fmt.Errorf("ошибка хеширования пароля: %w", err)
	}
	return string(hash), nil
}

// Verify сравнивает пароль с хешем. Сравнение в постоянном времени
// выполняет bcrypt; любая ошибка (включая битый хеш) означает false.
func (h *PasswordHasher) Verify(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// errors.go — ошибки бизнес-логики сервисного слоя.
package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/habibulloh333/project-uas-prod/internal/repository"
)

var (
	// ErrNotFound — ресурс не найден.
	ErrNotFound = errors.New("ресурс не найден")
	// ErrConflict — конфликт (дублирующийся ресурс).
	ErrConflict = errors.New("конфликт — ресурс уже существует")
	// ErrValidation — ошибка валидации входных данных.
	ErrValidation = errors.New("ошибка валидации")
	// ErrInvalidCredentials — неверное имя пользователя или пароль.
	ErrInvalidCredentials = errors.New("неверное имя пользователя или пароль")
	// ErrForbidden — недостаточно прав.
	ErrForbidden = errors.New("недостаточно прав")
)

// validationf возвращает ErrValidation с пояснением.
func validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// mapRepoError переводит ошибки репозитория в ошибки сервисного слоя.
// Неизвестные ошибки возвращаются как есть (→ 500).
func mapRepoError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	case errors.Is(err, repository.ErrConflict):
		return fmt.Errorf("%w: %w", ErrConflict, err)
	case errors.Is(err, repository.ErrInvalidInput):
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}
	return err
}

// PublicMessage возвращает текст ошибки валидации, безопасный для клиента.
// Отказ PostgreSQL (CHECK, тип) не раскрывает текст СУБД.
func PublicMessage(err error) string {
	if errors.Is(err, repository.ErrInvalidInput) {
		return "недопустимое значение поля"
	}
	msg := err.Error()
	if rest, ok := strings.CutPrefix(msg, ErrValidation.Error()+": "); ok {
		return rest
	}
	return msg
}

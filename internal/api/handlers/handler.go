// Пакет handlers — HTTP-обработчики Catalog Gateway.
package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	apierrors "github.com/habibulloh333/project-uas-prod/internal/api/errors"
	"github.com/habibulloh333/project-uas-prod/internal/service"
)

// maxBodyBytes — предельный размер тела запроса.
const maxBodyBytes = 1 << 20

// writeJSON записывает JSON-ответ с указанным статус-кодом.
// Тело кодируется до отправки заголовков: ошибка кодирования даёт 500.
func writeJSON(w http.ResponseWriter, status int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		slog.Error("Ошибка кодирования JSON-ответа", slog.String("error", err.Error()))
		apierrors.InternalError(w, "Внутренняя ошибка сервера")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

// decodeJSON читает тело запроса в dst.
// Неизвестные поля, лишние данные и несовпадение типов — ошибка валидации.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		return describeDecodeError(err)
	}
	if dec.More() {
		return errors.New("тело запроса должно содержать один JSON-объект")
	}
	return nil
}

// describeDecodeError формирует понятное клиенту описание ошибки разбора JSON.
func describeDecodeError(err error) error {
	var (
		syntaxErr   *json.SyntaxError
		typeErr     *json.UnmarshalTypeError
		maxBytesErr *http.MaxBytesError
	)
	switch {
	case errors.Is(err, io.EOF):
		return errors.New("тело запроса пустое")
	case errors.As(err, &syntaxErr), errors.Is(err, io.ErrUnexpectedEOF):
		return errors.New("некорректный JSON")
	case errors.As(err, &typeErr):
		if typeErr.Field != "" {
			return fmt.Errorf("поле %s: неверный тип значения", typeErr.Field)
		}
		return errors.New("ожидается JSON-объект")
	case errors.As(err, &maxBytesErr):
		return fmt.Errorf("тело запроса больше %d байт", maxBytesErr.Limit)
	case strings.HasPrefix(err.Error(), "json: unknown field "):
		return fmt.Errorf("неизвестное поле %s", strings.TrimPrefix(err.Error(), "json: unknown field "))
	}
	return fmt.Errorf("некорректное тело запроса: %w", err)
}

// writeServiceError переводит ошибку сервисного слоя в HTTP-ответ.
// Необработанные ошибки логируются, клиент получает общий текст.
func writeServiceError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error, notFoundMsg, conflictMsg string) {
	switch {
	case errors.Is(err, service.ErrValidation):
		apierrors.ValidationError(w, service.PublicMessage(err))
	case errors.Is(err, service.ErrNotFound):
		apierrors.NotFound(w, notFoundMsg)
	case errors.Is(err, service.ErrConflict):
		apierrors.Conflict(w, conflictMsg)
	case errors.Is(err, service.ErrInvalidCredentials):
		apierrors.Unauthorized(w, "Неверное имя пользователя или пароль")
	case errors.Is(err, service.ErrForbidden):
		apierrors.Forbidden(w, "Недостаточно прав")
	default:
		logger.Error("Ошибка обработки запроса",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
		apierrors.InternalError(w, "Внутренняя ошибка сервера")
	}
}

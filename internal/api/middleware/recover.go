// recover.go — перехват паник обработчиков.
package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	apierrors "github.com/habibulloh333/project-uas-prod/internal/api/errors"
)

// Recoverer возвращает middleware, превращающий панику в 500 {"error": ...}.
// Стек пишется в лог и клиенту не отдаётся.
func Recoverer(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler { //nolint:errorlint // сравнение со значением паники
					panic(rec)
				}

				logger.Error("Паника при обработке запроса",
					slog.Any("panic", rec),
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
					slog.String("stack", string(debug.Stack())),
				)
				apierrors.InternalError(w, "Внутренняя ошибка сервера")
			}()

			next.ServeHTTP(w, r)
		})
	}
}

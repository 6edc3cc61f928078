// auth.go — JWT middleware Catalog Gateway.
// HTTP-адаптер над auth.Gate: извлекает Bearer token, проверяет HS256-подпись
// и срок действия, сверяет роль и помещает claims в контекст запроса.
package middleware

import (
	"context"
	"log/slog"
	"net/http"

	apierrors "github.com/habibulloh333/project-uas-prod/internal/api/errors"
	"github.com/habibulloh333/project-uas-prod/internal/auth"
)

// contextKey — тип для ключей контекста (избегаем коллизий).
type contextKey string

const (
	// ContextKeyClaims — проверенные claims в контексте запроса.
	ContextKeyClaims contextKey = "jwt_claims"
	// contextKeyRequestInfo — сведения о запросе для RequestLogger.
	contextKeyRequestInfo contextKey = "request_info"
)

// JWTAuth — middleware аутентификации и авторизации.
type JWTAuth struct {
	gate   *auth.Gate
	logger *slog.Logger
}

// NewJWTAuth создаёт JWT middleware поверх verifier.
func NewJWTAuth(verifier auth.TokenVerifier, logger *slog.Logger) *JWTAuth {
	return &JWTAuth{
		gate:   auth.NewGate(verifier),
		logger: logger.With(slog.String("component", "jwt_auth")),
	}
}

// Middleware возвращает HTTP middleware, пропускающий запрос только
// в состоянии authorized. Без ролей достаточно валидного токена;
// с ролями — роль токена должна покрывать одну из них (admin покрывает user).
// Отказ: 401 (нет или невалиден токен) или 403 (роль не подходит).
func (j *JWTAuth) Middleware(required ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			d := j.gate.Evaluate(r.Header.Get("Authorization"), required...)
			if !d.Allowed() {
				attrs := []any{
					slog.Int("status", d.Status),
					slog.String("reason", d.Reason),
					slog.String("path", r.URL.Path),
					slog.String("remote_addr", r.RemoteAddr),
				}
				if d.Claims != nil {
					attrs = append(attrs, slog.String("username", d.Claims.User.Username))
				}
				j.logger.Debug("Запрос отклонён", attrs...)

				if d.Status == http.StatusForbidden {
					apierrors.Forbidden(w, d.Reason)
				} else {
					apierrors.Unauthorized(w, d.Reason)
				}
				return
			}

			if info, ok := r.Context().Value(contextKeyRequestInfo).(*requestInfo); ok {
				info.username = d.Claims.User.Username
			}
			ctx := context.WithValue(r.Context(), ContextKeyClaims, d.Claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// --- Context helpers ---

// ClaimsFromContext извлекает claims из контекста запроса.
// Возвращает nil, если claims не найдены.
func ClaimsFromContext(ctx context.Context) *auth.Claims {
	claims, _ := ctx.Value(ContextKeyClaims).(*auth.Claims)
	return claims
}

// UsernameFromContext извлекает username из контекста запроса.
// Возвращает пустую строку, если claims не найдены.
func UsernameFromContext(ctx context.Context) string {
	claims := ClaimsFromContext(ctx)
	if claims == nil {
		return ""
	}
	return claims.User.Username
}

// WithClaims помещает claims в контекст (для тестов обработчиков).
func WithClaims(ctx context.Context, claims *auth.Claims) context.Context {
	return context.WithValue(ctx, ContextKeyClaims, claims)
}

package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenTTL — время жизни токена по умолчанию.
const DefaultTokenTTL = time.Hour

// ErrInvalidToken — токен некорректен, подпись не сходится или срок истёк.
// Причина вызывающему не раскрывается.
var ErrInvalidToken = errors.New("невалидный или просроченный токен")

// Identity — субъект токена: payload {"user": {id, username, role}}.
type Identity struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// Claims — claims JWT Catalog Gateway.
type Claims struct {
	User Identity `json:"user"`
	jwt.RegisteredClaims
}

// TokenIssuer выпускает и проверяет HS256-токены.
// Секрет передаётся из конфигурации; состояние на сервере не хранится.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenIssuer создаёт TokenIssuer. ttl <= 0 заменяется на DefaultTokenTTL.
func NewTokenIssuer(secret []byte, ttl time.Duration) *TokenIssuer {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenIssuer{secret: secret, ttl: ttl, now: time.Now}
}

// WithClock подменяет источник времени (для тестов).
func (t *TokenIssuer) WithClock(now func() time.Time) *TokenIssuer {
	t.now = now
	return t
}

// TTL возвращает время жизни выпускаемых токенов.
func (t *TokenIssuer) TTL() time.Duration { return t.ttl }

// Issue подписывает токен для субъекта. exp = iat + ttl.
func (t *TokenIssuer) Issue(id Identity) (string, error) {
	now := t.now()
	claims := Claims{
		User: id,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("ошибка подписи токена: %w", err)
	}
	return signed, nil
}

// Verify проверяет подпись, алгоритм и срок действия токена.
// Любая ошибка возвращается как ErrInvalidToken.
func (t *TokenIssuer) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(*jwt.Token) (any, error) { return t.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.User.Username == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

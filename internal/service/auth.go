// auth.go — регистрация и вход пользователей.
package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/habibulloh333/project-uas-prod/internal/auth"
	"github.com/habibulloh333/project-uas-prod/internal/domain/model"
	"github.com/habibulloh333/project-uas-prod/internal/domain/rbac"
	"github.com/habibulloh333/project-uas-prod/internal/repository"
)

const (
	// MinPasswordLength — минимальная длина пароля при регистрации, в символах.
	MinPasswordLength = 6
	// MaxPasswordBytes — предел bcrypt на длину пароля, в байтах.
	MaxPasswordBytes = 72
)

// UserStore — хранилище учётных записей.
type UserStore interface {
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	Create(ctx context.Context, u *model.User) error
}

// AuthService — регистрация, вход и выпуск токенов.
type AuthService struct {
	users  UserStore
	hasher *auth.PasswordHasher
	tokens *auth.TokenIssuer
	logger *slog.Logger

	dummyOnce sync.Once
	dummyHash string
}

// NewAuthService создаёт сервис аутентификации.
func NewAuthService(
	users UserStore,
	hasher *auth.PasswordHasher,
	tokens *auth.TokenIssuer,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:  users,
		hasher: hasher,
		tokens: tokens,
		logger: logger.With(slog.String("component", "auth_service")),
	}
}

// NormalizeUsername приводит имя пользователя к каноническому виду.
func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

// Register создаёт учётную запись с указанной ролью.
// Имя приводится к нижнему регистру, поэтому "Alice" и "alice" конфликтуют.
func (s *AuthService) Register(ctx context.Context, username, password, role string) (*model.User, error) {
	username = NormalizeUsername(username)
	if username == "" {
		return nil, validationf("username обязателен")
	}
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return nil, validationf("пароль должен содержать не менее %d символов", MinPasswordLength)
	}
	if len(password) > MaxPasswordBytes {
		return nil, validationf("пароль не может быть длиннее %d байт", MaxPasswordBytes)
	}
	if !rbac.IsValidRole(role) {
		return nil, validationf("недопустимая роль %q", role)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	u := &model.User{Username: username, PasswordHash: hash, Role: role}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrConflict
		}
		return nil, mapRepoError(err)
	}

	s.logger.Info("Пользователь зарегистрирован",
		slog.Int64("user_id", u.ID),
		slog.String("username", u.Username),
		slog.String("role", u.Role),
	)
	return u, nil
}

// Login проверяет пароль и выпускает токен.
// Неизвестное имя и неверный пароль неразличимы: ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, *model.User, error) {
	username = NormalizeUsername(username)

	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Сравнение с фиктивным хешем выравнивает время ответа.
			s.hasher.Verify(password, s.fallbackHash())
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, mapRepoError(err)
	}

	if !s.hasher.Verify(password, u.PasswordHash) {
		s.logger.Debug("Неверный пароль", slog.String("username", username))
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.issue(u)
	if err != nil {
		return "", nil, err
	}
	return token, u, nil
}

// IssueToken выпускает токен для существующего пользователя без пароля.
// Используется операторской утилитой catalogctl.
func (s *AuthService) IssueToken(ctx context.Context, username string) (string, *model.User, error) {
	u, err := s.users.GetByUsername(ctx, NormalizeUsername(username))
	if err != nil {
		return "", nil, mapRepoError(err)
	}
	token, err := s.issue(u)
	if err != nil {
		return "", nil, err
	}
	return token, u, nil
}

func (s *AuthService) issue(u *model.User) (string, error) {
	return s.tokens.Issue(auth.Identity{ID: u.ID, Username: u.Username, Role: u.Role})
}

func (s *AuthService) fallbackHash() string {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = s.hasher.Hash("catalog-gateway-dummy-password")
	})
	return s.dummyHash
}

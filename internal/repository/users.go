package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/habibulloh333/project-uas-prod/internal/domain/model"
)

// UserRepository — учётные записи (таблица users).
type UserRepository interface {
	// GetByUsername возвращает пользователя по имени (ожидается lower-case).
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	// Create сохраняет пользователя; заполняет ID и CreatedAt.
	// Занятое имя — ErrConflict.
	Create(ctx context.Context, u *model.User) error
}

// userRepo — реализация UserRepository.
type userRepo struct {
	db DBTX
}

// NewUserRepository создаёт репозиторий пользователей.
func NewUserRepository(db DBTX) UserRepository {
	return &userRepo{db: db}
}

func scanUser(row pgx.Row) (*model.User, error) {
	u := &model.User{}
	err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Role, &u.CreatedAt)
	return u, err
}

func (r *userRepo) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	query := `SELECT id, username, password, role, created_at FROM users WHERE username = $1`
	u, err := scanUser(r.db.QueryRow(ctx, query, username))
	if err != nil {
		return nil, translate(err, "получения пользователя")
	}
	return u, nil
}

func (r *userRepo) Create(ctx context.Context, u *model.User) error {
	query := `
		INSERT INTO users (username, password, role)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	err := r.db.QueryRow(ctx, query, u.Username, u.PasswordHash, u.Role).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: пользователь %s уже существует", ErrConflict, u.Username)
		}
		return translate(err, "создания пользователя")
	}
	return nil
}

package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/admin-otp-gateway/internal/models"
)

// ErrUserNotFound возвращается, когда запись пользователя не найдена.
var ErrUserNotFound = errors.New("user not found")

// UserRepository отвечает за чтение и запись состояния блокировки
// в общей с CMS таблице users.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository создаёт экземпляр репозитория.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// GetLockoutState возвращает пользователя вместе со скрытыми полями
// login_attempts и lock_until. Эти поля недоступны через публичный API CMS,
// шлюз читает их напрямую.
func (r *UserRepository) GetLockoutState(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	query := `
		SELECT id, email, password_hash, login_attempts, lock_until, created_at, updated_at
		FROM users
		WHERE email = $1
	`
	if err := r.db.GetContext(ctx, &user, query, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("user repository: get lockout state %w", err)
	}

	return &user, nil
}

// UpdateLockout записывает новые значения счётчика попыток и lock_until.
// lockUntil = nil явно сбрасывает устаревшую блокировку: оба поля пишутся всегда.
func (r *UserRepository) UpdateLockout(ctx context.Context, id uuid.UUID, attempts int, lockUntil *time.Time) error {
	query := `
		UPDATE users
		SET login_attempts = $2, lock_until = $3, updated_at = NOW()
		WHERE id = $1
	`
	if _, err := r.db.ExecContext(ctx, query, id, attempts, lockUntil); err != nil {
		return fmt.Errorf("user repository: update lockout %w", err)
	}

	return nil
}

// Create создаёт пользователя. Используется только сервисом наполнения
// в development: в production пользователей создаёт CMS.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (email, password_hash)
		VALUES ($1, $2)
		ON CONFLICT (email) DO UPDATE SET password_hash = EXCLUDED.password_hash
		RETURNING id, created_at, updated_at
	`
	if err := r.db.QueryRowxContext(
		ctx, query,
		user.Email, user.PasswordHash,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt); err != nil {
		return fmt.Errorf("user repository: create %w", err)
	}

	return nil
}

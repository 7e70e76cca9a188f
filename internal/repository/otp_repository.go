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

// OTPRepository отвечает за работу с таблицей otp_codes.
// Таблица не видна ни одному публичному read/list API: доступ к ней
// есть только у этого репозитория.
type OTPRepository struct {
	db *sqlx.DB
}

// NewOTPRepository создаёт экземпляр репозитория.
func NewOTPRepository(db *sqlx.DB) *OTPRepository {
	return &OTPRepository{db: db}
}

// Create сохраняет новую запись OTP.
func (r *OTPRepository) Create(ctx context.Context, code *models.OTPCode) error {
	query := `
		INSERT INTO otp_codes (user_email, otp_code, expires_at, is_used)
		VALUES ($1, $2, $3, FALSE)
		RETURNING id, created_at
	`
	if err := r.db.QueryRowxContext(
		ctx, query,
		code.UserEmail, code.OTPCode, code.ExpiresAt,
	).Scan(&code.ID, &code.CreatedAt); err != nil {
		return fmt.Errorf("otp repository: create %w", err)
	}

	return nil
}

// FindActive ищет неиспользованный и неистёкший код по email и хэшу.
// Уникальность активного кода схемой не гарантируется, поэтому берём
// самый свежий. Отсутствие совпадения — не ошибка: возвращается nil, nil.
func (r *OTPRepository) FindActive(ctx context.Context, email, hash string, now time.Time) (*models.OTPCode, error) {
	var code models.OTPCode
	query := `
		SELECT id, user_email, otp_code, expires_at, is_used, created_at
		FROM otp_codes
		WHERE user_email = $1 AND otp_code = $2 AND is_used = FALSE AND expires_at > $3
		ORDER BY created_at DESC
		LIMIT 1
	`
	if err := r.db.GetContext(ctx, &code, query, email, hash, now); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("otp repository: find active %w", err)
	}

	return &code, nil
}

// FindThrottling ищет неиспользованный код, который будет действителен
// ещё как минимум до cutoff (now + окно повторной отправки). Его наличие
// означает, что новый код выдавать рано.
func (r *OTPRepository) FindThrottling(ctx context.Context, email string, cutoff time.Time) (*models.OTPCode, error) {
	var code models.OTPCode
	query := `
		SELECT id, user_email, otp_code, expires_at, is_used, created_at
		FROM otp_codes
		WHERE user_email = $1 AND is_used = FALSE AND expires_at > $2
		ORDER BY created_at DESC
		LIMIT 1
	`
	if err := r.db.GetContext(ctx, &code, query, email, cutoff); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("otp repository: find throttling %w", err)
	}

	return &code, nil
}

// MarkUsed помечает код использованным. Условие is_used = FALSE делает
// операцию идемпотентной: повторное погашение уже использованного кода
// не меняет ничего и не считается ошибкой.
func (r *OTPRepository) MarkUsed(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE otp_codes SET is_used = TRUE WHERE id = $1 AND is_used = FALSE`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("otp repository: mark used %w", err)
	}

	return nil
}

// Delete удаляет запись. Применяется только как компенсация, когда письмо
// с кодом не удалось отправить.
func (r *OTPRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM otp_codes WHERE id = $1`, id); err != nil {
		return fmt.Errorf("otp repository: delete %w", err)
	}

	return nil
}

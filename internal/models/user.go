package models

import (
	"time"

	"github.com/google/uuid"
)

// User описывает запись пользователя в общей с CMS таблице.
// Шлюзу из неё нужны только учётная запись и состояние блокировки.
// Счётчики блокировки скрыты от JSON: наружу они не отдаются никогда.
type User struct {
	ID            uuid.UUID  `db:"id" json:"id"`
	Email         string     `db:"email" json:"email"`
	PasswordHash  string     `db:"password_hash" json:"-"`
	LoginAttempts int        `db:"login_attempts" json:"-"`
	LockUntil     *time.Time `db:"lock_until" json:"-"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at" json:"updated_at"`
}

// Locked сообщает, заблокирован ли пользователь на момент now.
func (u *User) Locked(now time.Time) bool {
	return u.LockUntil != nil && u.LockUntil.After(now)
}

package models

import (
	"time"

	"github.com/google/uuid"
)

// OTPCode описывает выданный одноразовый код.
// В otp_code хранится hex HMAC-SHA256 от шестизначного кода;
// plaintext существует только между генерацией и отправкой письма.
// Запись мутирует ровно один раз: is_used переключается в true при
// успешном логине. Удаление допустимо только как компенсация, когда
// письмо не удалось отправить сразу после создания.
type OTPCode struct {
	ID        uuid.UUID `db:"id" json:"-"`
	UserEmail string    `db:"user_email" json:"-"`
	OTPCode   string    `db:"otp_code" json:"-"`
	ExpiresAt time.Time `db:"expires_at" json:"-"`
	IsUsed    bool      `db:"is_used" json:"-"`
	CreatedAt time.Time `db:"created_at" json:"-"`
}

// Expired сообщает, истёк ли код на момент now.
func (c *OTPCode) Expired(now time.Time) bool {
	return !c.ExpiresAt.After(now)
}

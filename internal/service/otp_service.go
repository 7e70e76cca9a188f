package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/admin-otp-gateway/internal/config"
	"github.com/ignatzorin/admin-otp-gateway/internal/i18n"
	"github.com/ignatzorin/admin-otp-gateway/internal/logger"
	"github.com/ignatzorin/admin-otp-gateway/internal/mail"
	"github.com/ignatzorin/admin-otp-gateway/internal/models"
	"github.com/ignatzorin/admin-otp-gateway/internal/pkg/apperror"
	"github.com/ignatzorin/admin-otp-gateway/internal/repository"
)

// LockoutUserStore описывает зависимость сервисов от таблицы users.
type LockoutUserStore interface {
	GetLockoutState(ctx context.Context, email string) (*models.User, error)
	UpdateLockout(ctx context.Context, id uuid.UUID, attempts int, lockUntil *time.Time) error
}

// OTPStore описывает зависимость сервисов от таблицы otp_codes.
type OTPStore interface {
	Create(ctx context.Context, code *models.OTPCode) error
	FindActive(ctx context.Context, email, hash string, now time.Time) (*models.OTPCode, error)
	FindThrottling(ctx context.Context, email string, cutoff time.Time) (*models.OTPCode, error)
	MarkUsed(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// CodeHasher считает keyed hash OTP кода.
type CodeHasher interface {
	Sum(value string) string
}

// OTPService выдаёт одноразовые коды: решает, можно ли выдать новый,
// сохраняет хэш и отправляет plaintext по почте.
type OTPService struct {
	users    LockoutUserStore
	otps     OTPStore
	hasher   CodeHasher
	mailer   mail.Mailer
	messages i18n.Resolver
	cfg      *config.Config
}

// NewOTPService создаёт сервис выдачи OTP.
func NewOTPService(users LockoutUserStore, otps OTPStore, hasher CodeHasher, mailer mail.Mailer, messages i18n.Resolver, cfg *config.Config) *OTPService {
	return &OTPService{
		users:    users,
		otps:     otps,
		hasher:   hasher,
		mailer:   mailer,
		messages: messages,
		cfg:      cfg,
	}
}

// RequestOTP выдаёт новый код для email или объясняет, почему это невозможно.
// Ни код, ни его хэш наружу не возвращаются.
func (s *OTPService) RequestOTP(ctx context.Context, email string) error {
	if email == "" {
		return apperror.New(apperror.ErrCodeValidation, "Email missing")
	}

	user, err := s.users.GetLockoutState(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return apperror.New(apperror.ErrCodeNotFound, s.messages.Resolve(i18n.KeyNoUser, "en"))
		}
		return apperror.Wrap(err, apperror.ErrCodePersistence, "Failed to save OTP")
	}

	now := time.Now()

	if user.Locked(now) {
		return apperror.New(apperror.ErrCodeLockedOut, s.messages.Resolve(i18n.KeyUserLocked, "en"))
	}

	// Код живёт OTPTTL, повторная отправка разрешена не раньше, чем через
	// OTPResendWindow. Обе границы выводятся из одного поля expires_at:
	// если существует код, который будет действителен ещё дольше окна,
	// новый выдавать рано.
	cutoff := now.Add(s.cfg.OTPResendWindow)

	existing, err := s.otps.FindThrottling(ctx, email, cutoff)
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodePersistence, "Failed to save OTP")
	}
	if existing != nil {
		remaining := int(existing.ExpiresAt.Sub(cutoff) / time.Second)
		return apperror.NewThrottled(
			fmt.Sprintf("An OTP has already been sent to this email. Please try again after %d seconds.", remaining),
			remaining,
		)
	}

	code, err := generateCode()
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeInternal, "Failed to save OTP")
	}

	record := &models.OTPCode{
		UserEmail: email,
		OTPCode:   s.hasher.Sum(code),
		ExpiresAt: now.Add(s.cfg.OTPTTL),
	}

	if err := s.otps.Create(ctx, record); err != nil {
		if logger.Log != nil {
			logger.Log.WithFields(logrus.Fields{
				"email": email,
				"error": err.Error(),
			}).Error("otp service: не удалось сохранить OTP")
		}
		return apperror.Wrap(err, apperror.ErrCodePersistence, "Failed to save OTP")
	}

	if err := s.mailer.Send(email, mail.OTPSubject, mail.OTPEmail(code, s.cfg.OTPTTL)); err != nil {
		if logger.Log != nil {
			logger.Log.WithFields(logrus.Fields{
				"email": email,
				"error": err.Error(),
			}).Error("otp service: не удалось отправить письмо с OTP")
		}

		// Компенсация: без доставленного письма запись не должна остаться,
		// иначе появится рабочий код, которого никто не видел.
		if delErr := s.otps.Delete(ctx, record.ID); delErr != nil && logger.Log != nil {
			logger.Log.WithFields(logrus.Fields{
				"otp_id": record.ID,
				"error":  delErr.Error(),
			}).Error("otp service: не удалось удалить неотправленный OTP")
		}

		return apperror.Wrap(err, apperror.ErrCodeDispatch, "Failed to send OTP")
	}

	return nil
}

// generateCode возвращает равномерно случайный шестизначный код из
// криптографического источника. Короткоживущий шестизначный код всё равно
// угадываем перебором, поэтому слабый генератор здесь недопустим.
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", fmt.Errorf("otp service: генератор случайных чисел недоступен: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

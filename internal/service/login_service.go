package service

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/admin-otp-gateway/internal/config"
	"github.com/ignatzorin/admin-otp-gateway/internal/i18n"
	"github.com/ignatzorin/admin-otp-gateway/internal/logger"
	"github.com/ignatzorin/admin-otp-gateway/internal/pkg/apperror"
	"github.com/ignatzorin/admin-otp-gateway/internal/repository"
	"github.com/ignatzorin/admin-otp-gateway/internal/upstream"
)

// PasswordVerifier — внешний коллаборатор, проверяющий пароль.
// Его критерий успеха для шлюза непрозрачен.
type PasswordVerifier interface {
	Verify(ctx context.Context, fwd upstream.ForwardRequest) (*upstream.Response, error)
}

// LoginInput — поля формы логина после разбора конверта.
type LoginInput struct {
	Email    string
	Password string
	OTP      string
}

// LoginService — оркестратор логина: проверяет блокировку и OTP, и только
// после этого передаёт учётные данные коллаборатору проверки пароля.
type LoginService struct {
	users    LockoutUserStore
	otps     OTPStore
	hasher   CodeHasher
	verifier PasswordVerifier
	messages i18n.Resolver
	cfg      *config.Config
}

// NewLoginService создаёт оркестратор.
func NewLoginService(users LockoutUserStore, otps OTPStore, hasher CodeHasher, verifier PasswordVerifier, messages i18n.Resolver, cfg *config.Config) *LoginService {
	return &LoginService{
		users:    users,
		otps:     otps,
		hasher:   hasher,
		verifier: verifier,
		messages: messages,
		cfg:      cfg,
	}
}

// Login выполняет машину состояний одной попытки входа.
// Неверный OTP, неверный пароль и неизвестный email дают одно и то же
// сообщение: по ответу нельзя перечислять аккаунты. Различимы только
// блокировка и (на выдаче) троттлинг.
func (s *LoginService) Login(ctx context.Context, in LoginInput, fwd upstream.ForwardRequest) (*upstream.Response, error) {
	if in.Email == "" || in.Password == "" || in.OTP == "" {
		// Без уточнения, какое поле отсутствует
		return nil, apperror.New(apperror.ErrCodeUnauthorized, s.messages.Resolve(i18n.KeyInvalidSubmission, "en"))
	}

	user, err := s.users.GetLockoutState(ctx, in.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, apperror.New(apperror.ErrCodeUnauthorized, s.messages.Resolve(i18n.KeyEmailOrPasswordIncorrect, "en"))
		}
		return nil, apperror.Wrap(err, apperror.ErrCodePersistence, s.messages.Resolve(i18n.KeyEmailOrPasswordIncorrect, "en"))
	}

	// Истечение и блокировка оцениваются по времени проверки, не по времени
	// прихода запроса.
	now := time.Now()

	if user.Locked(now) {
		return nil, apperror.New(apperror.ErrCodeLockedOut, s.messages.Resolve(i18n.KeyUserLocked, "en"))
	}

	matched, err := s.otps.FindActive(ctx, in.Email, s.hasher.Sum(in.OTP), now)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodePersistence, s.messages.Resolve(i18n.KeyEmailOrPasswordIncorrect, "en"))
	}

	if matched == nil {
		// Неверный или истёкший код: эскалируем счётчики блокировки.
		result := OnFailedAttempt(user.LoginAttempts, s.cfg.MaxLoginAttempts, s.cfg.LockTime, now)
		if err := s.users.UpdateLockout(ctx, user.ID, result.Attempts, result.LockUntil); err != nil {
			// Клиент в любом случае получает общий отказ: деталь о сбое
			// записи счётчиков дала бы ему лишнюю информацию.
			if logger.Log != nil {
				logger.Log.WithFields(logrus.Fields{
					"user_id": user.ID,
					"error":   err.Error(),
				}).Error("login service: не удалось записать счётчики блокировки")
			}
		}

		return nil, apperror.New(apperror.ErrCodeUnauthorized, s.messages.Resolve(i18n.KeyEmailOrPasswordIncorrect, "en"))
	}

	// OTP валиден: пароль проверяет коллаборатор. Учёт его собственных
	// неудачных попыток — его зона ответственности, здесь счётчики не трогаем.
	resp, err := s.verifier.Verify(ctx, fwd)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, s.messages.Resolve(i18n.KeyEmailOrPasswordIncorrect, "en"))
	}

	if resp.OK() {
		// Логин уже состоялся: сбой учёта не должен его отменить.
		if err := s.otps.MarkUsed(ctx, matched.ID); err != nil && logger.Log != nil {
			logger.Log.WithFields(logrus.Fields{
				"otp_id": matched.ID,
				"error":  err.Error(),
			}).Error("login service: не удалось пометить OTP использованным")
		}
	}

	// Тело уже декодировано, повторная распаковка ниже по стеку недопустима.
	if resp.Header == nil {
		resp.Header = make(map[string][]string)
	}
	resp.Header.Set("Content-Encoding", "identity")

	return resp, nil
}

package handlers

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/admin-otp-gateway/internal/config"
	"github.com/ignatzorin/admin-otp-gateway/internal/models"
	"github.com/ignatzorin/admin-otp-gateway/internal/repository"
	"github.com/ignatzorin/admin-otp-gateway/internal/upstream"
)

// Инфраструктура для тестов хэндлеров: in-memory реализации зависимостей сервисов.

type stubUserStore struct {
	usersByEmail map[string]*models.User
}

func newStubUserStore() *stubUserStore {
	return &stubUserStore{usersByEmail: make(map[string]*models.User)}
}

func (s *stubUserStore) addUser(email string) *models.User {
	user := &models.User{ID: uuid.New(), Email: email}
	s.usersByEmail[email] = user
	return user
}

func (s *stubUserStore) GetLockoutState(ctx context.Context, email string) (*models.User, error) {
	if user, ok := s.usersByEmail[email]; ok {
		return user, nil
	}
	return nil, repository.ErrUserNotFound
}

func (s *stubUserStore) UpdateLockout(ctx context.Context, id uuid.UUID, attempts int, lockUntil *time.Time) error {
	for _, user := range s.usersByEmail {
		if user.ID == id {
			user.LoginAttempts = attempts
			user.LockUntil = lockUntil
		}
	}
	return nil
}

type stubOTPStore struct {
	records []*models.OTPCode
}

func (s *stubOTPStore) Create(ctx context.Context, code *models.OTPCode) error {
	code.ID = uuid.New()
	code.CreatedAt = time.Now()
	s.records = append(s.records, code)
	return nil
}

func (s *stubOTPStore) FindActive(ctx context.Context, email, hash string, now time.Time) (*models.OTPCode, error) {
	for _, rec := range s.records {
		if rec.UserEmail == email && rec.OTPCode == hash && !rec.IsUsed && rec.ExpiresAt.After(now) {
			return rec, nil
		}
	}
	return nil, nil
}

func (s *stubOTPStore) FindThrottling(ctx context.Context, email string, cutoff time.Time) (*models.OTPCode, error) {
	for _, rec := range s.records {
		if rec.UserEmail == email && !rec.IsUsed && rec.ExpiresAt.After(cutoff) {
			return rec, nil
		}
	}
	return nil, nil
}

func (s *stubOTPStore) MarkUsed(ctx context.Context, id uuid.UUID) error {
	for _, rec := range s.records {
		if rec.ID == id && !rec.IsUsed {
			rec.IsUsed = true
		}
	}
	return nil
}

func (s *stubOTPStore) Delete(ctx context.Context, id uuid.UUID) error {
	kept := s.records[:0]
	for _, rec := range s.records {
		if rec.ID != id {
			kept = append(kept, rec)
		}
	}
	s.records = kept
	return nil
}

type stubMailer struct {
	sent int
	err  error
}

func (m *stubMailer) Send(to, subject, htmlBody string) error {
	if m.err != nil {
		return m.err
	}
	m.sent++
	return nil
}

type stubVerifier struct {
	resp  *upstream.Response
	err   error
	calls int
}

func (v *stubVerifier) Verify(ctx context.Context, fwd upstream.ForwardRequest) (*upstream.Response, error) {
	v.calls++
	if v.err != nil {
		return nil, v.err
	}
	return v.resp, nil
}

func handlerTestConfig() *config.Config {
	return &config.Config{
		MaxLoginAttempts: 3,
		LockTime:         10 * time.Minute,
		OTPTTL:           2 * time.Minute,
		OTPResendWindow:  60 * time.Second,
	}
}

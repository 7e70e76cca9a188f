package service

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/ignatzorin/admin-otp-gateway/internal/models"
)

// SeedUserStore описывает зависимость сервиса наполнения от таблицы users.
type SeedUserStore interface {
	Create(ctx context.Context, user *models.User) error
}

// SeedService создаёт тестового администратора в development окружении.
// В production пользователей заводит CMS, и проверка пароля остаётся за ней;
// здесь хэш нужен лишь для того, чтобы шлюз можно было поднять автономно
// против эмулятора login endpoint'а.
type SeedService struct {
	users SeedUserStore
}

// NewSeedService создаёт сервис наполнения.
func NewSeedService(users SeedUserStore) *SeedService {
	return &SeedService{users: users}
}

// SeedAdmin создаёт (или обновляет) администратора с заданным паролем.
func (s *SeedService) SeedAdmin(ctx context.Context, email, password string) (*models.User, error) {
	passHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("seed service: не удалось захешировать пароль: %w", err)
	}

	user := &models.User{
		Email:        email,
		PasswordHash: string(passHash),
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("seed service: не удалось создать пользователя: %w", err)
	}

	return user, nil
}

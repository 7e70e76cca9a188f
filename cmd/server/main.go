package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/admin-otp-gateway/internal/config"
	"github.com/ignatzorin/admin-otp-gateway/internal/crypto/otphash"
	"github.com/ignatzorin/admin-otp-gateway/internal/db"
	"github.com/ignatzorin/admin-otp-gateway/internal/goroutine"
	httpHandlers "github.com/ignatzorin/admin-otp-gateway/internal/http/handlers"
	httpRouter "github.com/ignatzorin/admin-otp-gateway/internal/http/router"
	"github.com/ignatzorin/admin-otp-gateway/internal/i18n"
	"github.com/ignatzorin/admin-otp-gateway/internal/logger"
	"github.com/ignatzorin/admin-otp-gateway/internal/mail"
	"github.com/ignatzorin/admin-otp-gateway/internal/repository"
	"github.com/ignatzorin/admin-otp-gateway/internal/service"
	"github.com/ignatzorin/admin-otp-gateway/internal/upstream"
)

func main() {
	// Готовим контекст для graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("main: ошибка загрузки конфигурации: %v", err)
	}

	// Инициализация логгера
	logLevel := "info"
	if cfg.Env == "development" {
		logLevel = "debug"
		logger.Init(logLevel)
		logger.SetTextFormatter()
	} else {
		logger.Init(logLevel)
	}

	// Подключение к базе и миграции.
	dbConn, err := db.NewPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("main: ошибка подключения к базе: %v", err)
	}
	defer safeClose(dbConn)

	if err := db.RunMigrations(ctx, dbConn, cfg.MigrationsPath); err != nil {
		log.Fatalf("main: ошибка миграций: %v", err)
	}

	// Секрет хэширования кодов проверяется на старте, не в запросах.
	hasher, err := otphash.New(cfg.OTPSecret)
	if err != nil {
		log.Fatalf("main: %v", err)
	}

	mailer, err := mail.NewSMTPMailer(mail.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUser,
		Password: cfg.SMTPPassword,
		From:     cfg.SMTPFrom,
		MaxConns: cfg.SMTPMaxConns,
	})
	if err != nil {
		log.Fatalf("main: не удалось подготовить SMTP: %v", err)
	}

	messages := i18n.NewTableResolver()
	verifier := upstream.NewClient(cfg.UpstreamLoginURL, cfg.UpstreamTimeout)

	// Репозитории.
	userRepo := repository.NewUserRepository(dbConn)
	otpRepo := repository.NewOTPRepository(dbConn)

	// Сервисы.
	otpService := service.NewOTPService(userRepo, otpRepo, hasher, mailer, messages, cfg)
	loginService := service.NewLoginService(userRepo, otpRepo, hasher, verifier, messages, cfg)
	seedService := service.NewSeedService(userRepo)

	// HTTP хэндлеры.
	loginHandler := httpHandlers.NewLoginHandler(loginService)
	otpHandler := httpHandlers.NewOTPHandler(otpService)
	healthHandler := httpHandlers.NewHealthHandler(dbConn)
	seedHandler := httpHandlers.NewSeedHandler(seedService)

	// Роутер.
	engine := httpRouter.SetupRouter(cfg, loginHandler, otpHandler, healthHandler, seedHandler)

	server := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: engine,
	}

	// Завершаем сервер при получении сигнала.
	goroutine.SafeGoWithContext(ctx, func(ctx context.Context) {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("main: ошибка остановки http сервера: %v", err)
		}
	})

	log.Printf("main: HTTP сервер запущен на порту %s", cfg.HTTPPort)

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("main: сервер завершился с ошибкой: %v", err)
	}
}

// safeClose закрывает соединение с базой.
func safeClose(db *sqlx.DB) {
	if err := db.Close(); err != nil {
		log.Printf("main: ошибка закрытия базы: %v", err)
	}
}

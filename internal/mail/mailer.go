package mail

import (
	"crypto/tls"
	"fmt"
	"net/smtp"
	"time"

	"github.com/knadh/smtppool"
)

// Mailer отправляет HTML письма. Сервисам нужен только этот контракт.
type Mailer interface {
	Send(to, subject, htmlBody string) error
}

// SMTPConfig — параметры подключения к SMTP серверу.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	MaxConns int
}

// SMTPMailer отправляет почту через пул SMTP соединений.
type SMTPMailer struct {
	pool *smtppool.Pool
	from string
}

// NewSMTPMailer создаёт пул соединений к SMTP серверу.
func NewSMTPMailer(cfg SMTPConfig) (*SMTPMailer, error) {
	var auth smtp.Auth
	if cfg.Username != "" || cfg.Password != "" {
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}

	maxConns := cfg.MaxConns
	if maxConns <= 0 {
		maxConns = 2
	}

	pool, err := smtppool.New(smtppool.Opt{
		Host:            cfg.Host,
		Port:            cfg.Port,
		MaxConns:        maxConns,
		IdleTimeout:     15 * time.Second,
		PoolWaitTimeout: 10 * time.Second,
		Auth:            auth,
		TLSConfig: &tls.Config{
			ServerName: cfg.Host,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("mail: не удалось создать пул SMTP соединений: %w", err)
	}

	return &SMTPMailer{pool: pool, from: cfg.From}, nil
}

// Send отправляет HTML письмо одному получателю.
func (m *SMTPMailer) Send(to, subject, htmlBody string) error {
	err := m.pool.Send(smtppool.Email{
		From:    m.from,
		To:      []string{to},
		Subject: subject,
		HTML:    []byte(htmlBody),
	})
	if err != nil {
		return fmt.Errorf("mail: отправка на %s не удалась: %w", to, err)
	}

	return nil
}

package otphash

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Hasher считает keyed hash OTP кодов. Секрет задаётся один раз при старте;
// его отсутствие — ошибка конфигурации, а не per-request ошибка.
type Hasher struct {
	secret []byte
}

// New создаёт Hasher. Пустой секрет недопустим.
func New(secret string) (*Hasher, error) {
	if secret == "" {
		return nil, fmt.Errorf("otphash: секрет не задан")
	}
	return &Hasher{secret: []byte(secret)}, nil
}

// Sum возвращает hex HMAC-SHA256 от value.
func (h *Hasher) Sum(value string) string {
	mac := hmac.New(sha256.New, h.secret)
	mac.Write([]byte(value))
	return hex.EncodeToString(mac.Sum(nil))
}

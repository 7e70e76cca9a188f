package otphash

import (
	"testing"
)

func TestNew_EmptySecret(t *testing.T) {
	if _, err := New(""); err == nil {
		t.Fatalf("пустой секрет должен быть ошибкой конфигурации")
	}
}

func TestSum_Deterministic(t *testing.T) {
	hasher, err := New("secret")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	first := hasher.Sum("123456")
	second := hasher.Sum("123456")

	if first != second {
		t.Fatalf("хэш должен быть детерминированным: %s != %s", first, second)
	}
	if len(first) != 64 {
		t.Fatalf("ожидался hex SHA-256 длиной 64, получили %d", len(first))
	}
	if first == "123456" {
		t.Fatalf("хэш не должен совпадать с plaintext")
	}
}

func TestSum_KeyDependent(t *testing.T) {
	a, _ := New("secret-a")
	b, _ := New("secret-b")

	if a.Sum("123456") == b.Sum("123456") {
		t.Fatalf("разные секреты должны давать разные хэши")
	}
}

func TestSum_ValueDependent(t *testing.T) {
	hasher, _ := New("secret")

	if hasher.Sum("123456") == hasher.Sum("123457") {
		t.Fatalf("разные коды должны давать разные хэши")
	}
}

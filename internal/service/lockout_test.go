package service

import (
	"testing"
	"time"
)

func TestOnFailedAttempt_BelowThreshold(t *testing.T) {
	now := time.Now()

	result := OnFailedAttempt(0, 5, 10*time.Minute, now)

	if result.Attempts != 1 {
		t.Fatalf("счётчик должен увеличиться ровно на 1, получили %d", result.Attempts)
	}
	if result.LockUntil != nil {
		t.Fatalf("до порога LockUntil должен быть nil, получили %v", result.LockUntil)
	}
}

func TestOnFailedAttempt_ClearsStaleLock(t *testing.T) {
	// Ниже порога LockUntil всегда nil: устаревшая блокировка сбрасывается записью.
	now := time.Now()

	result := OnFailedAttempt(1, 5, 10*time.Minute, now)

	if result.Attempts != 2 {
		t.Fatalf("ожидали 2 попытки, получили %d", result.Attempts)
	}
	if result.LockUntil != nil {
		t.Fatalf("LockUntil должен сбрасываться, пока порог не достигнут")
	}
}

func TestOnFailedAttempt_ReachesThreshold(t *testing.T) {
	now := time.Now()
	lockTime := 10 * time.Minute

	result := OnFailedAttempt(4, 5, lockTime, now)

	if result.Attempts != 5 {
		t.Fatalf("ожидали 5 попыток, получили %d", result.Attempts)
	}
	if result.LockUntil == nil {
		t.Fatalf("на пороге должна включаться блокировка")
	}
	if !result.LockUntil.Equal(now.Add(lockTime)) {
		t.Fatalf("блокировка должна заканчиваться в now+lockTime, получили %v", result.LockUntil)
	}
}

func TestOnFailedAttempt_AboveThreshold(t *testing.T) {
	now := time.Now()

	result := OnFailedAttempt(7, 5, time.Minute, now)

	if result.Attempts != 8 {
		t.Fatalf("ожидали 8 попыток, получили %d", result.Attempts)
	}
	if result.LockUntil == nil {
		t.Fatalf("выше порога блокировка должна продлеваться")
	}
}

func TestOnFailedAttempt_Pure(t *testing.T) {
	now := time.Now()

	first := OnFailedAttempt(2, 5, time.Minute, now)
	second := OnFailedAttempt(2, 5, time.Minute, now)

	if first.Attempts != second.Attempts {
		t.Fatalf("функция должна быть детерминированной")
	}
}

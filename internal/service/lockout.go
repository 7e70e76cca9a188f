package service

import "time"

// LockoutResult — новое состояние счётчиков блокировки после неудачной попытки.
type LockoutResult struct {
	Attempts  int
	LockUntil *time.Time
}

// OnFailedAttempt считает новое состояние блокировки. Чистая функция без I/O:
// сохранение результата — ответственность вызывающего.
// Пока порог не достигнут, LockUntil возвращается nil — устаревшая блокировка
// явно сбрасывается при каждой записи.
func OnFailedAttempt(currentAttempts, maxAttempts int, lockDuration time.Duration, now time.Time) LockoutResult {
	result := LockoutResult{
		Attempts: currentAttempts + 1,
	}

	if result.Attempts >= maxAttempts {
		until := now.Add(lockDuration)
		result.LockUntil = &until
	}

	return result
}

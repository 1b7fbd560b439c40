package services

import (
	"context"
	"time"
)

// BackoffFunc возвращает паузу перед повтором с номером attempt (начиная с 1)
type BackoffFunc func(attempt int) time.Duration

// ExponentialBackoff удваивает базовую паузу на каждой попытке: base, 2*base, 4*base...
func ExponentialBackoff(base time.Duration) BackoffFunc {
	return func(attempt int) time.Duration {
		return base << (attempt - 1)
	}
}

// RetryPolicy — переиспользуемая политика повторов для ненадежных операций
type RetryPolicy struct {
	MaxAttempts int
	Backoff     BackoffFunc
}

// DefaultUploadRetryPolicy — политика для загрузок в хранилище:
// три попытки с экспоненциальной паузой от одной секунды
func DefaultUploadRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 3,
		Backoff:     ExponentialBackoff(time.Second),
	}
}

// Do выполняет fn до первого успеха, не больше MaxAttempts раз.
// Возвращает последнюю ошибку, если все попытки исчерпаны.
func (p RetryPolicy) Do(ctx context.Context, fn func() error) error {
	var lastErr error
	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}

		if attempt == p.MaxAttempts {
			break
		}

		var pause time.Duration
		if p.Backoff != nil {
			pause = p.Backoff(attempt)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(pause):
		}
	}
	return lastErr
}

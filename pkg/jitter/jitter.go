// Package jitter считает интервалы повторов со случайным разбросом,
// чтобы одновременные конфликтующие запросы не повторялись синхронно.
package jitter

import (
	"context"
	"math/rand"
	"sync"
	"time"
)

// DefaultJitter — стандартный коэффициент джиттера (50%)
const DefaultJitter = 0.5

var (
	globalRand = rand.New(rand.NewSource(time.Now().UnixNano()))
	randMutex  sync.Mutex
)

// Duration возвращает продолжительность с применённым джиттером.
// Результат находится в диапазоне [d, d*(1+jitterFactor)].
func Duration(d time.Duration, jitterFactor float64) time.Duration {
	randMutex.Lock()
	jitter := globalRand.Float64() * jitterFactor * float64(d)
	randMutex.Unlock()
	return d + time.Duration(jitter)
}

// ExponentialBackoff удваивает base на каждой попытке (нумерация с нуля), не превышая max,
// и добавляет джиттер.
func ExponentialBackoff(base, max time.Duration, attempt int, jitterFactor float64) time.Duration {
	backoff := base
	for i := 0; i < attempt; i++ {
		backoff *= 2
		if backoff > max {
			backoff = max
			break
		}
	}
	return Duration(backoff, jitterFactor)
}

// Sleep ждёт d или отмены контекста.
func Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Backoff описывает ограниченную серию повторов.
type Backoff struct {
	Base     time.Duration
	Max      time.Duration
	Attempts int // общее число вызовов, включая первый
}

// Retry вызывает fn, пока она возвращает ошибку, для которой retryable == true,
// и попытки не исчерпаны. Между вызовами ждёт ExponentialBackoff с DefaultJitter.
// Возвращает последнюю ошибку fn либо ошибку контекста.
func (b Backoff) Retry(ctx context.Context, retryable func(error) bool, fn func(attempt int) error) error {
	attempts := max(b.Attempts, 1)

	for attempt := 0; ; attempt++ {
		err := fn(attempt)
		if err == nil || !retryable(err) || attempt >= attempts-1 {
			return err
		}

		if err := Sleep(ctx, ExponentialBackoff(b.Base, b.Max, attempt, DefaultJitter)); err != nil {
			return err
		}
	}
}

package closer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

const (
	// successIdx - индекс, который возвращается в случае успешного закрытия всех ресурсов
	successIdx = -1

	defaultForcedTimeout = 2 * time.Second
)

// Func — сигнатура функции закрытия ресурса.
type Func func(ctx context.Context) error

type entry struct {
	name string
	fn   Func
}

// Closer закрывает ресурсы приложения в обратном порядке регистрации.
type Closer struct {
	entries       []entry
	mu            sync.Mutex
	once          sync.Once
	err           error
	forcedTimeout time.Duration
}

// NewCloser создает новый экземпляр Closer.
// forcedTimeout — время на принудительное закрытие оставшихся ресурсов, если контекст Close истёк.
func NewCloser(forcedTimeout time.Duration) *Closer {
	if forcedTimeout <= 0 {
		forcedTimeout = defaultForcedTimeout
	}

	return &Closer{
		forcedTimeout: forcedTimeout,
	}
}

// Add регистрирует ресурс под именем, которое попадёт в текст ошибки.
func (c *Closer) Add(name string, f Func) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = append(c.entries, entry{name: name, fn: f})
}

// AddFunc регистрирует закрытие без контекста и без ошибки, например pool.Close.
func (c *Closer) AddFunc(name string, f func()) {
	c.Add(name, func(context.Context) error {
		f()
		return nil
	})
}

// Close последовательно закрывает ресурсы (LIFO). Повторные вызовы возвращают результат первого.
// Если контекст отменяется до завершения, оставшиеся ресурсы закрываются параллельно с forcedTimeout.
func (c *Closer) Close(ctx context.Context) error {
	c.once.Do(func() {
		c.mu.Lock()
		entries := c.entries
		c.mu.Unlock()

		stopIdx, errs := c.gracefulClose(ctx, entries)
		if stopIdx == successIdx {
			c.err = errors.Join(errs...)
			return
		}

		errs = append(errs, c.forcedClose(entries[:stopIdx+1])...)
		c.err = fmt.Errorf("shutdown interrupted after %d/%d resources", len(entries)-1-stopIdx, len(entries))
		if joined := errors.Join(errs...); joined != nil {
			c.err = fmt.Errorf("%w: %w", c.err, joined)
		}
	})

	return c.err
}

// gracefulClose закрывает ресурсы по одному с конца списка.
// При отмене контекста возвращает индекс ресурса, закрытие которого не дождались.
func (c *Closer) gracefulClose(ctx context.Context, entries []entry) (int, []error) {
	var errs []error
	for i := len(entries) - 1; i >= 0; i-- {
		var (
			en   = entries[i]
			done = make(chan error, 1)
		)

		go func() {
			done <- en.fn(ctx)
		}()

		select {
		case err := <-done:
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", en.name, err))
			}
		case <-ctx.Done():
			return i, errs
		}
	}

	return successIdx, errs
}

// forcedClose параллельно закрывает оставшиеся ресурсы с собственным таймаутом.
func (c *Closer) forcedClose(entries []entry) []error {
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)

	ctx, cancel := context.WithTimeout(context.Background(), c.forcedTimeout)
	defer cancel()

	for _, en := range entries {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := en.fn(ctx); err != nil {
				mu.Lock()
				errs = append(errs, fmt.Errorf("%s (forced): %w", en.name, err))
				mu.Unlock()
			}
		}()
	}

	wg.Wait()
	return errs
}

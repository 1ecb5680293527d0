package geocode

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"github.com/thomhuang/happycamper/internal/model"
	"github.com/thomhuang/happycamper/internal/postalcode"
)

const (
	defaultMaxAttempts  = 3
	defaultBaseDelay    = 200 * time.Millisecond
	defaultJitterFactor = 0.3
)

var (
	ErrInvalidMaxAttempts  = errors.New("max attempts must be positive")
	ErrNegativeBaseDelay   = errors.New("base delay must not be negative")
	ErrInvalidJitterFactor = errors.New("jitter factor must be between 0.0 and 1.0")
)

// Retrying retries a geocoder on ErrTransient with exponential backoff.
// Every other error, including ErrNotFound, fails fast.
type Retrying struct {
	next         postalcode.Geocoder
	maxAttempts  int
	baseDelay    time.Duration
	jitterFactor float64
}

type RetryOption func(*Retrying) error

func WithMaxAttempts(attempts int) RetryOption {
	return func(r *Retrying) error {
		if attempts <= 0 {
			return ErrInvalidMaxAttempts
		}
		r.maxAttempts = attempts
		return nil
	}
}

// WithBaseDelay sets the first backoff; later ones double it.
func WithBaseDelay(delay time.Duration) RetryOption {
	return func(r *Retrying) error {
		if delay < 0 {
			return ErrNegativeBaseDelay
		}
		r.baseDelay = delay
		return nil
	}
}

func WithJitterFactor(factor float64) RetryOption {
	return func(r *Retrying) error {
		if factor < 0.0 || factor > 1.0 {
			return ErrInvalidJitterFactor
		}
		r.jitterFactor = factor
		return nil
	}
}

func NewRetrying(next postalcode.Geocoder, options ...RetryOption) (*Retrying, error) {
	r := &Retrying{
		next:         next,
		maxAttempts:  defaultMaxAttempts,
		baseDelay:    defaultBaseDelay,
		jitterFactor: defaultJitterFactor,
	}
	for _, option := range options {
		if err := option(r); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *Retrying) Geocode(ctx context.Context, code string) (model.PostalCodeLocation, error) {
	var lastErr error

	for attempt := 0; attempt < r.maxAttempts; attempt++ {
		if attempt > 0 {
			delay := r.baseDelay * time.Duration(1<<(attempt-1))
			jitter := rand.Float64() * float64(delay) * r.jitterFactor //nolint:gosec // jitter only

			select {
			case <-time.After(delay + time.Duration(jitter)):
			case <-ctx.Done():
				return model.PostalCodeLocation{}, ctx.Err()
			}
		}

		loc, err := r.next.Geocode(ctx, code)
		if err == nil {
			return loc, nil
		}
		if !errors.Is(err, ErrTransient) {
			return model.PostalCodeLocation{}, err
		}
		lastErr = err
	}

	return model.PostalCodeLocation{}, lastErr
}

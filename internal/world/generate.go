package world

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/go-logr/logr"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"

	"github.com/samdwyer/demongate/internal/telemetry"
)

// DefaultMaxAttempts bounds how many levels Generate builds before giving up.
const DefaultMaxAttempts = 5

// Generate builds a map, starting over with fresh randomness when a level
// comes out without anywhere to put a gate. Any other failure is returned
// immediately.
func Generate(ctx context.Context, width, height int, opts MapOptions, maxAttempts uint) (*Map, error) {
	if maxAttempts == 0 {
		maxAttempts = DefaultMaxAttempts
	}
	opts = opts.withDefaults()
	log := logr.FromContextOrDiscard(ctx)
	attempts := attemptCounter()

	attempt := 0
	operation := func() (*Map, error) {
		attempt++
		m, err := NewMap(ctx, width, height, opts)
		attempts.Add(ctx, 1, metric.WithAttributes(attribute.Bool("success", err == nil)))
		if err != nil {
			if errors.Is(err, ErrNoPassableTile) {
				return nil, err
			}
			return nil, backoff.Permanent(err)
		}
		return m, nil
	}

	m, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(&backoff.ZeroBackOff{}),
		backoff.WithMaxTries(maxAttempts),
		backoff.WithNotify(func(err error, _ time.Duration) {
			log.V(1).Info("level generation failed, retrying", "attempt", attempt, "error", err.Error())
		}),
	)
	if err != nil {
		log.Error(err, "level generation gave up", "attempts", attempt, "width", width, "height", height)
		return nil, err
	}

	log.V(1).Info("level generated", "id", m.ID, "attempts", attempt,
		"start", m.startGate, "end", m.endGate)
	return m, nil
}

func attemptCounter() metric.Int64Counter {
	counter, err := telemetry.Meter("world").Int64Counter(
		"world.generation.attempts",
		metric.WithDescription("Levels built, including failed attempts"),
	)
	if err != nil {
		return noop.Int64Counter{}
	}
	return counter
}

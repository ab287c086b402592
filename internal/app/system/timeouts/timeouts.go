// Package timeouts provides the shared deadlines for database and upstream
// calls made while serving a request.
package timeouts

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// Config holds the three deadline tiers.
type Config struct {
	Ping   time.Duration // health checks
	Short  time.Duration // single reads: the section tree, one edit log page
	Medium time.Duration // writes and calls to Google
}

// Defaults apply until Configure is called.
var Defaults = Config{
	Ping:   2 * time.Second,
	Short:  5 * time.Second,
	Medium: 10 * time.Second,
}

var current atomic.Pointer[Config]

func init() { Reset() }

// Configure replaces the tiers. Zero fields keep their current value.
func Configure(cfg Config) {
	next := Current()
	if cfg.Ping > 0 {
		next.Ping = cfg.Ping
	}
	if cfg.Short > 0 {
		next.Short = cfg.Short
	}
	if cfg.Medium > 0 {
		next.Medium = cfg.Medium
	}
	current.Store(&next)
}

// Reset restores Defaults.
func Reset() {
	d := Defaults
	current.Store(&d)
}

// Current returns a copy of the active tiers.
func Current() Config { return *current.Load() }

func Ping() time.Duration   { return current.Load().Ping }
func Short() time.Duration  { return current.Load().Short }
func Medium() time.Duration { return current.Load().Medium }

// WithTimeout derives a context bounded by d. Its cancel func logs a warning
// naming op when the deadline, rather than the caller, ended the work.
func WithTimeout(parent context.Context, d time.Duration, log *zap.Logger, op string) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(parent, d)
	return ctx, func() {
		if log != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
			log.Warn("operation timed out", zap.String("operation", op), zap.Duration("timeout", d))
		}
		cancel()
	}
}

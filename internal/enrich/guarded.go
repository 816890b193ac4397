package enrich

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"vibestation/internal/logging"
	"vibestation/internal/metrics"
)

type GuardOptions struct {
	// Timeout bounds a single call. Zero means 8s.
	Timeout time.Duration
	// RatePerMinute caps calls per minute. Zero or less disables the cap.
	RatePerMinute int
}

// Guarded wraps a Describer with a per-call deadline, a rate limit and metrics.
type Guarded struct {
	next    Describer
	timeout time.Duration
	limiter *rate.Limiter
	logger  *zap.Logger
}

var _ Describer = (*Guarded)(nil)

func NewGuarded(next Describer, opts GuardOptions, logger *zap.Logger) *Guarded {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 8 * time.Second
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if opts.RatePerMinute > 0 {
		burst := opts.RatePerMinute
		if burst > 5 {
			burst = 5
		}
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(opts.RatePerMinute)), burst)
	}

	return &Guarded{
		next:    next,
		timeout: timeout,
		limiter: limiter,
		logger:  logging.OrNop(logger),
	}
}

func (g *Guarded) Describe(ctx context.Context, name, url string) (string, error) {
	start := time.Now()
	if !g.limiter.Allow() {
		metrics.RecordEnrichment("rate_limited", time.Since(start))
		g.logger.Warn("description generation skipped: rate limited", zap.String("app", name))
		return "", ErrRateLimited
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	desc, err := g.next.Describe(ctx, name, url)
	elapsed := time.Since(start)

	switch {
	case err == nil && desc == "":
		err = ErrEmptyResponse
		metrics.RecordEnrichment("empty", elapsed)
	case errors.Is(err, context.DeadlineExceeded):
		metrics.RecordEnrichment("timeout", elapsed)
	case err != nil:
		metrics.RecordEnrichment("error", elapsed)
	default:
		metrics.RecordEnrichment("ok", elapsed)
	}

	if err != nil {
		g.logger.Warn("description generation failed",
			zap.String("app", name), zap.Duration("elapsed", elapsed), zap.Error(err))
		return "", err
	}
	g.logger.Debug("description generated", zap.String("app", name), zap.Duration("elapsed", elapsed))
	return desc, nil
}

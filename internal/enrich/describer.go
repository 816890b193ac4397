// Package enrich generates short app descriptions from an external language model.
package enrich

import (
	"context"
	"errors"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"vibestation/internal/config"
	"vibestation/internal/logging"
)

var (
	ErrEmptyResponse = errors.New("enrich: empty description")
	ErrRateLimited   = errors.New("enrich: rate limit exceeded")
)

// Describer produces a one-line description for an app. Callers treat any
// error as "no description".
type Describer interface {
	Describe(ctx context.Context, name, url string) (string, error)
}

// Noop never generates anything. It stands in when no API key is configured.
type Noop struct{}

func (Noop) Describe(context.Context, string, string) (string, error) {
	return "", nil
}

// New returns the describer configured by cfg: a guarded Gemini client, or
// Noop when cfg has no API key.
func New(cfg config.EnrichConfig, logger *zap.Logger) (Describer, error) {
	if cfg.APIKey == "" {
		logging.OrNop(logger).Info("description generation disabled: no api key configured")
		return Noop{}, nil
	}

	client, err := NewGemini(GeminiConfig{
		APIKey:     cfg.APIKey,
		Model:      cfg.Model,
		BaseURL:    cfg.BaseURL,
		RESTClient: resty.New(),
	})
	if err != nil {
		return nil, err
	}

	return NewGuarded(client, GuardOptions{
		Timeout:       cfg.Timeout,
		RatePerMinute: cfg.RatePerMinute,
	}, logger), nil
}

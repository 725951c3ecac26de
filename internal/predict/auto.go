package predict

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
)

// Auto tries a list of predictors in priority order and returns the first
// success. Per-provider failures are logged and swallowed; the combined
// error surfaces only when every provider fails.
type Auto struct {
	chain []Predictor
	log   zerolog.Logger
}

func NewAuto(log zerolog.Logger, chain ...Predictor) *Auto {
	return &Auto{chain: chain, log: log}
}

func (a *Auto) Predict(ctx context.Context, req Request) (Response, error) {
	if len(a.chain) == 0 {
		return Response{}, errors.New("no predictors configured")
	}
	var errs []error
	for _, p := range a.chain {
		resp, err := p.Predict(ctx, req)
		if err == nil {
			return resp, nil
		}
		if ctx.Err() != nil {
			return Response{}, ctx.Err()
		}
		a.log.Warn().Err(err).Msg("prediction failed, trying next provider")
		errs = append(errs, err)
	}
	return Response{}, fmt.Errorf("all providers failed: %w", errors.Join(errs...))
}

package httpclient

import (
	"context"
	"errors"
	"time"

	"github.com/valyala/fasthttp"

	"partners_lounge/internal/domain/entity"
	"partners_lounge/internal/pkg/metrics"
)

// do executes req honoring the context deadline when one is set, otherwise the client timeout.
// Transport failures come back as *entity.TransientProviderError.
func do(ctx context.Context, client *fasthttp.Client, req *fasthttp.Request, resp *fasthttp.Response, timeout time.Duration, provider string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	var err error
	if deadline, ok := ctx.Deadline(); ok {
		err = client.DoDeadline(req, resp, deadline)
	} else {
		err = client.DoTimeout(req, resp, timeout)
	}
	if err != nil {
		return &entity.TransientProviderError{Provider: provider, Cause: err}
	}
	return nil
}

// outcomeOf maps a call result to a metrics outcome label.
func outcomeOf(status int, err error) string {
	switch {
	case status == fasthttp.StatusTooManyRequests:
		return metrics.OutcomeRateLimited
	case err != nil && isTimeout(err):
		return metrics.OutcomeTimeout
	case err != nil || status != fasthttp.StatusOK:
		return metrics.OutcomeError
	default:
		return metrics.OutcomeSuccess
	}
}

func isTimeout(err error) bool {
	return errors.Is(err, fasthttp.ErrTimeout) ||
		errors.Is(err, fasthttp.ErrDialTimeout) ||
		errors.Is(err, context.DeadlineExceeded)
}

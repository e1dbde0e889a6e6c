package db

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

const connectMaxElapsed = 30 * time.Second

func newConnectBackoff() backoff.BackOff {
	// BackOff implementations are stateful; always return a fresh instance.
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 250 * time.Millisecond
	bo.MaxElapsedTime = connectMaxElapsed
	return bo
}

// retryConnect runs op until it succeeds, ctx ends, or the startup budget
// is spent. It is only used while bootstrapping database handles.
func retryConnect(ctx context.Context, op func(ctx context.Context) error) error {
	return backoff.Retry(func() error {
		if err := ctx.Err(); err != nil {
			return backoff.Permanent(err)
		}
		return op(ctx)
	}, backoff.WithContext(newConnectBackoff(), ctx))
}

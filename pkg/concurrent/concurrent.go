package concurrent

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// ForEach runs action for every index in [0, n) with at most limit
// goroutines. It waits for all of them and returns the first error; the
// context passed to action is cancelled once any action fails.
//
// Callers that need every result, not only the first failure, should record
// per-index outcomes themselves and return nil from action.
func ForEach(ctx context.Context, n, limit int, action func(ctx context.Context, i int) error) error {
	g, gctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i := 0; i < n; i++ {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			return action(gctx, i)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

// Map applies fn to every element of in with at most limit goroutines and
// returns results in input order together with per-element errors.
func Map[T, R any](ctx context.Context, in []T, limit int, fn func(ctx context.Context, v T) (R, error)) ([]R, []error) {
	out := make([]R, len(in))
	errs := make([]error, len(in))
	_ = ForEach(ctx, len(in), limit, func(ctx context.Context, i int) error {
		out[i], errs[i] = fn(ctx, in[i])
		return nil
	})
	return out, errs
}

package async

import (
	"context"
	"fmt"
	"runtime/debug"

	"github.com/m-mizutani/plfrecover/pkg/utils/logging"
	"golang.org/x/sync/errgroup"
)

// Result holds the outcome of one Map call
type Result[R any] struct {
	Value R
	Err   error
}

// Map applies fn to every item with at most limit concurrent calls and returns
// the results in input order.
//
// Behavior:
//   - limit <= 0 means no limit
//   - errors returned by fn are kept per item and never stop other calls
//   - a panic in fn is recovered, logged with its stack and returned as the
//     item's error
func Map[T, R any](ctx context.Context, items []T, limit int, fn func(ctx context.Context, item T) (R, error)) []Result[R] {
	results := make([]Result[R], len(items))

	var g errgroup.Group
	if limit > 0 {
		g.SetLimit(limit)
	}

	for i, item := range items {
		g.Go(func() error {
			defer func() {
				if r := recover(); r != nil {
					stack := debug.Stack()
					logging.From(ctx).Error("panic in async worker",
						"recover", r,
						"stack", string(stack))
					results[i].Err = fmt.Errorf("panic in async worker: %v", r)
				}
			}()

			results[i].Value, results[i].Err = fn(ctx, item)
			return nil
		})
	}

	// workers never return errors
	_ = g.Wait()

	return results
}

package enrichment

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"
)

// Enricher performs one best-effort lookup. ok=false means the caller keeps its input as it was;
// implementations log their own failures.
type Enricher[In, Out any] interface {
	Attempt(ctx context.Context, in In) (out Out, ok bool)
}

// Func adapts a plain function to Enricher.
type Func[In, Out any] func(ctx context.Context, in In) (Out, bool)

func (f Func[In, Out]) Attempt(ctx context.Context, in In) (Out, bool) {
	return f(ctx, in)
}

// Result is the outcome of one branch, stored at the index of its input.
type Result[Out any] struct {
	Value Out
	OK    bool
}

// Gather runs e.Attempt once per input concurrently and waits for every branch.
// Results keep input order regardless of completion order. A branch that panics
// counts as a failed attempt and never affects its siblings.
// maxConcurrency <= 0 starts every branch at once.
func Gather[In, Out any](ctx context.Context, logger *slog.Logger, e Enricher[In, Out], inputs []In, maxConcurrency int) []Result[Out] {
	results := make([]Result[Out], len(inputs))
	if len(inputs) == 0 {
		return results
	}

	// Plain errgroup.Group, not WithContext: a failed branch must not cancel the others.
	var g errgroup.Group
	if maxConcurrency > 0 {
		g.SetLimit(maxConcurrency)
	}
	for i, in := range inputs {
		g.Go(func() error {
			defer func() {
				if r := recover(); r != nil {
					logger.ErrorContext(ctx, "Enrichment branch panicked",
						slog.Int("index", i),
						slog.String("panic", fmt.Sprint(r)),
					)
					results[i] = Result[Out]{}
				}
			}()
			out, ok := e.Attempt(ctx, in)
			results[i] = Result[Out]{Value: out, OK: ok}
			return nil
		})
	}
	_ = g.Wait()
	return results
}

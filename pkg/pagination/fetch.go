package pagination

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// Result is the outcome of one unit of work, stored at its input position.
type Result[T any] struct {
	Index int
	Value T
	Err   error
}

// OK reports whether the unit succeeded.
func (r Result[T]) OK() bool {
	return r.Err == nil
}

// Report summarizes a batch.
type Report struct {
	Attempted int
	Succeeded int
	Failed    int
}

// Complete reports whether every unit succeeded.
func (r Report) Complete() bool {
	return r.Failed == 0
}

// Gather runs fn for each index in [0, n) through exec and returns one
// Result per index, in index order.
func Gather[T any](ctx context.Context, exec Executor, n int, fn func(ctx context.Context, i int) (T, error)) []Result[T] {
	if n <= 0 {
		return nil
	}
	results := make([]Result[T], n)
	exec.Run(ctx, n, func(ctx context.Context, i int) {
		v, err := fn(ctx, i)
		results[i] = Result[T]{Index: i, Value: v, Err: err}
	})
	return results
}

// Successes returns the values of successful results, preserving order.
func Successes[T any](results []Result[T]) []T {
	out := make([]T, 0, len(results))
	for _, r := range results {
		if r.OK() {
			out = append(out, r.Value)
		}
	}
	return out
}

// Failures returns the failed results, preserving order.
func Failures[T any](results []Result[T]) []Result[T] {
	var out []Result[T]
	for _, r := range results {
		if !r.OK() {
			out = append(out, r)
		}
	}
	return out
}

// Summarize counts successes and failures.
func Summarize[T any](results []Result[T]) Report {
	rep := Report{Attempted: len(results)}
	for _, r := range results {
		if r.OK() {
			rep.Succeeded++
		} else {
			rep.Failed++
		}
	}
	return rep
}

// FetchAll fetches every window of plan and concatenates the items of the
// successful windows in plan order. Failed windows are logged and skipped.
func FetchAll[T any](ctx context.Context, exec Executor, plan []Window, fetchOne func(ctx context.Context, w Window) ([]T, error)) ([]T, Report) {
	logger := log.With().Str("component", "pagination").Logger()
	start := time.Now()

	logger.Debug().
		Int("windows", len(plan)).
		Int("total", Total(plan)).
		Str("executor", exec.Name()).
		Msg("Starting paged fetch")

	results := Gather(ctx, exec, len(plan), func(ctx context.Context, i int) ([]T, error) {
		return fetchOne(ctx, plan[i])
	})

	for _, f := range Failures(results) {
		w := plan[f.Index]
		logger.Warn().
			Err(f.Err).
			Int("page", f.Index).
			Int("offset", w.Offset).
			Int("count", w.Count).
			Msg("Page fetch failed - skipping")
	}

	var items []T
	for _, page := range Successes(results) {
		items = append(items, page...)
	}

	rep := Summarize(results)
	logger.Info().
		Int("pages", rep.Succeeded).
		Int("failed", rep.Failed).
		Int("items", len(items)).
		Dur("duration", time.Since(start)).
		Msg("Paged fetch complete")

	return items, rep
}

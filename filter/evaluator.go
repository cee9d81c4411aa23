package filter

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/paulmbaike/movie-database-app/moviedb"
)

// EvaluatorOption configures an evaluator.
type EvaluatorOption func(*Evaluator)

// WithWorkers caps the number of concurrent evaluation goroutines.
func WithWorkers(workers int) EvaluatorOption {
	return func(e *Evaluator) {
		if workers > 0 {
			e.workers = workers
		}
	}
}

// WithChunkSize sets the number of movies handed to each worker.
func WithChunkSize(size int) EvaluatorOption {
	return func(e *Evaluator) {
		if size > 0 {
			e.chunkSize = size
		}
	}
}

// Evaluator applies a compiled filter to movie slices, splitting large
// inputs across workers. Results keep the input order.
type Evaluator struct {
	workers   int
	chunkSize int
}

// NewEvaluator creates an evaluator sized to the machine.
func NewEvaluator(opts ...EvaluatorOption) *Evaluator {
	e := &Evaluator{
		workers:   runtime.GOMAXPROCS(0),
		chunkSize: 100,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Evaluate returns the movies matching the filter. Inputs smaller than one
// chunk are evaluated inline.
func (e *Evaluator) Evaluate(ctx context.Context, f CompiledFilter, movies []moviedb.Movie) ([]moviedb.Movie, error) {
	if len(movies) == 0 {
		return []moviedb.Movie{}, nil
	}
	if len(movies) <= e.chunkSize {
		return Apply(f, movies), nil
	}

	chunks := (len(movies) + e.chunkSize - 1) / e.chunkSize
	results := make([][]moviedb.Movie, chunks)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)

	for i := 0; i < chunks; i++ {
		i := i
		start := i * e.chunkSize
		end := min(start+e.chunkSize, len(movies))
		chunk := movies[start:end]

		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			results[i] = Apply(f, chunk)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	matched := 0
	for _, r := range results {
		matched += len(r)
	}
	merged := make([]moviedb.Movie, 0, matched)
	for _, r := range results {
		merged = append(merged, r...)
	}
	return merged, nil
}

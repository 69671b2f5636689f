package workerpool

import (
	"context"
	"errors"
	"math/rand"

	"golang.org/x/sync/errgroup"
)

// ErrInvalidConfig indicates a non-positive worker or batch count.
var ErrInvalidConfig = errors.New("workerpool: workers and batches must be positive")

// Config controls the shape of a Run invocation.
type Config struct {
	Workers int   // contiguous sub-ranges per batch, run concurrently
	Batches int   // number of batches the shuffled item list is split into
	Seed    int64 // deterministic shuffle seed
}

func (c Config) validate() error {
	if c.Workers <= 0 || c.Batches <= 0 {
		return ErrInvalidConfig
	}
	return nil
}

// shuffledBatches seed-shuffles indices [0,n) with a Fisher-Yates permute,
// then cuts the permutation into fixed ⌈n/cfg.Batches⌉-sized contiguous
// batches, the last one holding the remainder. The batch count is
// ⌈n/size⌉, which can fall below cfg.Batches (n=9, Batches=4 gives three
// batches of 3).
func shuffledBatches(n int, cfg Config) [][]int {
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	rng := rand.New(rand.NewSource(cfg.Seed))
	rng.Shuffle(n, func(i, j int) { order[i], order[j] = order[j], order[i] })

	size := (n + cfg.Batches - 1) / cfg.Batches
	if size == 0 {
		size = 1
	}
	var out [][]int
	for pos := 0; pos < n; pos += size {
		end := pos + size
		if end > n {
			end = n
		}
		out = append(out, order[pos:end])
	}
	return out
}

// contiguousSubRanges splits one batch's indices into up to n contiguous
// sub-ranges of equal size, the last one holding the remainder — the
// per-batch worker partition. Never produces more ranges than len(idxs).
func contiguousSubRanges(idxs []int, n int) [][]int {
	if n > len(idxs) {
		n = len(idxs)
	}
	if n <= 0 {
		return nil
	}
	size := len(idxs) / n
	out := make([][]int, n)
	pos := 0
	for i := 0; i < n; i++ {
		end := pos + size
		if i == n-1 {
			end = len(idxs)
		}
		out[i] = idxs[pos:end]
		pos = end
	}
	return out
}

// runBatch partitions one batch's indices into up to workers contiguous
// sub-ranges and runs them concurrently, one goroutine per sub-range, each
// accumulating its own local result with no shared mutable state. It joins
// on every sub-range before folding their partials into a single batch
// result and returning — this join is the only suspension point Run has:
// nothing outside this function runs while a batch is in flight.
func runBatch[W, R any](ctx context.Context, items []W, idxs []int, workers int, fn func(context.Context, W) (R, error), reduce func(R, R) R) (R, bool, error) {
	var zero R
	ranges := contiguousSubRanges(idxs, workers)

	partials := make([]R, len(ranges))
	havePartial := make([]bool, len(ranges))

	g, gctx := errgroup.WithContext(ctx)
	for wi, rng := range ranges {
		wi, rng := wi, rng
		g.Go(func() error {
			var local R
			first := true
			for _, idx := range rng {
				r, err := fn(gctx, items[idx])
				if err != nil {
					return err
				}
				if first {
					local = r
					first = false
				} else {
					local = reduce(local, r)
				}
			}
			if !first {
				partials[wi] = local
				havePartial[wi] = true
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return zero, false, err
	}

	var result R
	have := false
	for wi := range partials {
		if !havePartial[wi] {
			continue
		}
		if !have {
			result = partials[wi]
			have = true
		} else {
			result = reduce(result, partials[wi])
		}
	}
	return result, have, nil
}

// Run maps fn over items via the two-level batch/worker partition: the
// shuffled item list is split into cfg.Batches batches, and each batch in
// turn is split into cfg.Workers contiguous sub-ranges run concurrently.
// Batches are processed strictly in sequence — the next batch does not
// start until the previous one has joined and folded into acc — so peak
// in-flight concurrency is bounded by cfg.Workers, not cfg.Workers *
// cfg.Batches, and at most one batch's partials are ever resident at once.
// reduce is assumed commutative and associative: within-batch worker order
// and across-batch fold order are both nondeterministic at the item level
// (shuffled), only the batch sequence itself is ordered. Returns the first
// error encountered, after the current batch's in-flight workers drain.
func Run[W, R any](ctx context.Context, items []W, cfg Config, fn func(context.Context, W) (R, error), acc R, reduce func(R, R) R) (R, error) {
	if err := cfg.validate(); err != nil {
		return acc, err
	}
	if len(items) == 0 {
		return acc, nil
	}

	batches := shuffledBatches(len(items), cfg)

	out := acc
	for _, idxs := range batches {
		batchResult, have, err := runBatch(ctx, items, idxs, cfg.Workers, fn, reduce)
		if err != nil {
			return acc, err
		}
		if have {
			out = reduce(out, batchResult)
		}
	}
	return out, nil
}

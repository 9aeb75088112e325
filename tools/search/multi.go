package search

import (
	"context"

	"github.com/sourcegraph/conc/pool"
)

// Multi fans a query out to several backends concurrently and merges their
// results, interleaved so each backend contributes near the top. A backend
// error is tolerated as long as at least one backend succeeds.
type Multi struct {
	backends []Backend
}

// NewMulti builds a multi-backend searcher. At least one backend is
// expected; with exactly one, Multi is pass-through with extra bookkeeping.
func NewMulti(backends ...Backend) *Multi {
	return &Multi{backends: backends}
}

func (m *Multi) Name() string { return "multi" }

func (m *Multi) Search(ctx context.Context, query string) ([]Result, error) {
	if len(m.backends) == 1 {
		return m.backends[0].Search(ctx, query)
	}

	p := pool.NewWithResults[[]Result]().WithContext(ctx).WithCollectErrored()
	for _, backend := range m.backends {
		backend := backend
		p.Go(func(ctx context.Context) ([]Result, error) {
			return backend.Search(ctx, query)
		})
	}
	perBackend, err := p.Wait()

	merged := interleave(perBackend)
	if len(merged) == 0 && err != nil {
		return nil, err
	}
	return merged, nil
}

// interleave takes the first result of each backend, then the second, and
// so on, deduplicating by URL.
func interleave(perBackend [][]Result) []Result {
	seen := make(map[string]bool)
	var merged []Result
	for i := 0; ; i++ {
		advanced := false
		for _, results := range perBackend {
			if i >= len(results) {
				continue
			}
			advanced = true
			r := results[i]
			if r.URL == "" || seen[r.URL] {
				continue
			}
			seen[r.URL] = true
			merged = append(merged, r)
		}
		if !advanced {
			return merged
		}
	}
}

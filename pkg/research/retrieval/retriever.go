// Package retrieval fans queries out to the external case-search service
// and merges the results into one deduplicated list.
package retrieval

import (
	"context"
	"fmt"
	"log"

	"github.com/SakshamA8/caseclosed/pkg/research"
)

// Searcher is the external case-search capability. One call per query,
// bounded page size per call.
type Searcher interface {
	Search(ctx context.Context, query string) ([]research.Case, error)
}

type Retriever struct {
	searcher Searcher
	logger   *log.Logger
}

func NewRetriever(searcher Searcher, logger *log.Logger) *Retriever {
	return &Retriever{
		searcher: searcher,
		logger:   logger,
	}
}

// Retrieve issues every query and merges results, deduplicating on the
// (title, citation) identity key with first-seen order preserved.
//
// A transport failure on ANY query aborts the whole turn: a partial case
// list would bias the ranking step, so retrieval fails fast instead of
// tolerating holes. No retry.
func (r *Retriever) Retrieve(ctx context.Context, queries []string) ([]research.Case, error) {
	merged := []research.Case{}
	seen := make(map[string]bool)

	for _, q := range queries {
		results, err := r.searcher.Search(ctx, q)
		if err != nil {
			r.logger.Printf("[RETRIEVAL] Search failed for %q, aborting turn: %v", q, err)
			return nil, fmt.Errorf("case search for %q: %w", q, err)
		}
		r.logger.Printf("[RETRIEVAL] Query %q returned %d cases", q, len(results))

		for _, c := range results {
			key := c.Key()
			if seen[key] {
				continue
			}
			seen[key] = true
			merged = append(merged, c)
		}
	}

	r.logger.Printf("[RETRIEVAL] Merged %d unique cases from %d queries", len(merged), len(queries))
	return merged, nil
}

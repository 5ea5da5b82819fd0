// Package index holds the per-session vector index: chunks go in once at
// build time, nearest-neighbor queries come out for the lifetime of the
// handle. The index is ephemeral; a new upload batch replaces it wholesale.
package index

import (
	"context"

	"github.com/studyhall-ai/server/internal/chunk"
)

// ScoredChunk pairs a retrieved chunk with its relevance score.
type ScoredChunk struct {
	Chunk chunk.Chunk
	Score float64
}

// Index answers similarity queries against one built chunk set. Queryable
// immediately after build, repeatedly, with no commit step.
type Index interface {
	// Query returns at most k chunks ordered by descending relevance.
	Query(ctx context.Context, text string, k int) ([]ScoredChunk, error)
	// Len reports the number of indexed chunks.
	Len() int
	// Collection identifies this index session.
	Collection() string
}

// Builder turns a chunk batch into a queryable Index. Build fails on an
// empty batch.
type Builder interface {
	Build(ctx context.Context, chunks []chunk.Chunk) (Index, error)
}

package index

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/cloudwego/eino/components/embedding"
	"github.com/google/uuid"

	"github.com/studyhall-ai/server/internal/chunk"
	errx "github.com/studyhall-ai/server/internal/core/error"
	logx "github.com/studyhall-ai/server/pkg/logger"
)

// MemoryBuilder builds brute-force cosine-similarity indexes held entirely in
// memory. Session-scoped corpora are small enough that exact search beats any
// ANN structure here.
type MemoryBuilder struct {
	embedder embedding.Embedder
}

func NewMemoryBuilder(embedder embedding.Embedder) *MemoryBuilder {
	return &MemoryBuilder{embedder: embedder}
}

var _ Builder = (*MemoryBuilder)(nil)

// Build embeds every chunk and returns a queryable index. An empty chunk set
// is a terminal index-build error; callers must not reach this point without
// usable content.
func (b *MemoryBuilder) Build(ctx context.Context, chunks []chunk.Chunk) (Index, error) {
	if len(chunks) == 0 {
		return nil, errx.WrapIndexBuild(errors.New("cannot build an index from zero chunks"))
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Content
	}

	vectors, err := b.embedder.EmbedStrings(ctx, texts)
	if err != nil {
		return nil, errx.WrapIndexBuild(fmt.Errorf("embed chunks: %w", err))
	}
	if len(vectors) != len(chunks) {
		return nil, errx.WrapIndexBuild(fmt.Errorf("embedder returned %d vectors for %d chunks", len(vectors), len(chunks)))
	}
	for i := range vectors {
		vectors[i] = normalize(vectors[i])
	}

	collection := "study_docs_" + uuid.NewString()[:8]
	logx.Debug().Str("collection", collection).Int("chunks", len(chunks)).Msg("Built in-memory index")

	return &memoryIndex{
		embedder:   b.embedder,
		collection: collection,
		chunks:     chunks,
		vectors:    vectors,
	}, nil
}

// memoryIndex is immutable after Build, so concurrent queries need no lock.
type memoryIndex struct {
	embedder   embedding.Embedder
	collection string
	chunks     []chunk.Chunk
	vectors    [][]float64
}

var _ Index = (*memoryIndex)(nil)

func (m *memoryIndex) Len() int           { return len(m.chunks) }
func (m *memoryIndex) Collection() string { return m.collection }

func (m *memoryIndex) Query(ctx context.Context, text string, k int) ([]ScoredChunk, error) {
	if k <= 0 {
		k = 3
	}

	qvecs, err := m.embedder.EmbedStrings(ctx, []string{text})
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	if len(qvecs) == 0 {
		return nil, errors.New("embedder returned no vector for query")
	}
	q := normalize(qvecs[0])

	order := make([]int, len(m.vectors))
	scores := make([]float64, len(m.vectors))
	for i, v := range m.vectors {
		order[i] = i
		scores[i] = dot(v, q)
	}
	// ties broken by chunk position to keep results deterministic
	sort.SliceStable(order, func(a, b int) bool { return scores[order[a]] > scores[order[b]] })

	if k > len(order) {
		k = len(order)
	}
	out := make([]ScoredChunk, 0, k)
	for i := 0; i < k; i++ {
		j := order[i]
		out = append(out, ScoredChunk{Chunk: m.chunks[j], Score: scores[j]})
	}
	return out, nil
}

func dot(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	sum := 0.0
	for i := 0; i < n; i++ {
		sum += a[i] * b[i]
	}
	return sum
}

// normalize scales the vector to unit length so dot products are cosine
// similarities. Zero vectors pass through unchanged.
func normalize(v []float64) []float64 {
	var sum float64
	for _, x := range v {
		sum += x * x
	}
	if sum == 0 {
		return v
	}
	norm := math.Sqrt(sum)
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = x / norm
	}
	return out
}

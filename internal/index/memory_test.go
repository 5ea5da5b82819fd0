package index

import (
	"context"
	"errors"
	"testing"

	"github.com/cloudwego/eino/components/embedding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studyhall-ai/server/internal/chunk"
	errx "github.com/studyhall-ai/server/internal/core/error"
	"github.com/studyhall-ai/server/internal/ingest"
)

// fakeEmbedder maps known texts to fixed vectors so similarity is controlled
// by the test, not by a real embedding model.
type fakeEmbedder struct {
	vectors map[string][]float64
	err     error
}

func (f *fakeEmbedder) EmbedStrings(_ context.Context, texts []string, _ ...embedding.Option) ([][]float64, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([][]float64, 0, len(texts))
	for _, t := range texts {
		v, ok := f.vectors[t]
		if !ok {
			v = []float64{0, 0, 1}
		}
		out = append(out, v)
	}
	return out, nil
}

func chunkOf(content, source string) chunk.Chunk {
	return chunk.Chunk{Content: content, Meta: ingest.Metadata{Source: source}}
}

func TestBuildEmptyFails(t *testing.T) {
	b := NewMemoryBuilder(&fakeEmbedder{})
	idx, err := b.Build(context.Background(), nil)
	require.Error(t, err)
	assert.Nil(t, idx)

	var appErr *errx.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, errx.IndexBuildErrorMessage, appErr.Message)
}

func TestBuildEmbedderFailureWrapped(t *testing.T) {
	b := NewMemoryBuilder(&fakeEmbedder{err: errors.New("rate limited")})
	idx, err := b.Build(context.Background(), []chunk.Chunk{chunkOf("text", "a.txt")})
	require.Error(t, err)
	assert.Nil(t, idx)

	var appErr *errx.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, errx.IndexBuildErrorMessage, appErr.Message)
}

func TestQuerySingleChunk(t *testing.T) {
	emb := &fakeEmbedder{vectors: map[string][]float64{
		"Paris is the capital of France.": {1, 0, 0},
		"capital of France":               {1, 0, 0},
	}}
	b := NewMemoryBuilder(emb)
	idx, err := b.Build(context.Background(), []chunk.Chunk{
		chunkOf("Paris is the capital of France.", "geo.txt"),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, idx.Len())
	assert.NotEmpty(t, idx.Collection())

	matches, err := idx.Query(context.Background(), "capital of France", 3)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "Paris is the capital of France.", matches[0].Chunk.Content)
	assert.Equal(t, "geo.txt", matches[0].Chunk.Meta.Source)
	assert.InDelta(t, 1.0, matches[0].Score, 1e-9)
}

func TestQueryOrderedByScore(t *testing.T) {
	emb := &fakeEmbedder{vectors: map[string][]float64{
		"close":   {1, 0, 0},
		"closer":  {0.9, 0.1, 0},
		"far":     {0, 1, 0},
		"a query": {1, 0, 0},
	}}
	b := NewMemoryBuilder(emb)
	idx, err := b.Build(context.Background(), []chunk.Chunk{
		chunkOf("far", "f"),
		chunkOf("close", "c"),
		chunkOf("closer", "c2"),
	})
	require.NoError(t, err)

	matches, err := idx.Query(context.Background(), "a query", 3)
	require.NoError(t, err)
	require.Len(t, matches, 3)
	assert.Equal(t, "close", matches[0].Chunk.Content)
	assert.Equal(t, "closer", matches[1].Chunk.Content)
	assert.Equal(t, "far", matches[2].Chunk.Content)
	assert.GreaterOrEqual(t, matches[0].Score, matches[1].Score)
	assert.GreaterOrEqual(t, matches[1].Score, matches[2].Score)
}

func TestQueryCapsK(t *testing.T) {
	emb := &fakeEmbedder{vectors: map[string][]float64{}}
	b := NewMemoryBuilder(emb)
	idx, err := b.Build(context.Background(), []chunk.Chunk{
		chunkOf("one", "a"),
		chunkOf("two", "a"),
	})
	require.NoError(t, err)

	matches, err := idx.Query(context.Background(), "anything", 10)
	require.NoError(t, err)
	assert.Len(t, matches, 2)

	// non-positive k falls back to the default of 3, capped at index size
	matches, err = idx.Query(context.Background(), "anything", 0)
	require.NoError(t, err)
	assert.Len(t, matches, 2)
}

func TestQueryRepeatable(t *testing.T) {
	emb := &fakeEmbedder{vectors: map[string][]float64{
		"alpha": {1, 0, 0},
		"beta":  {0, 1, 0},
		"q":     {1, 0, 0},
	}}
	b := NewMemoryBuilder(emb)
	idx, err := b.Build(context.Background(), []chunk.Chunk{
		chunkOf("alpha", "a"),
		chunkOf("beta", "b"),
	})
	require.NoError(t, err)

	first, err := idx.Query(context.Background(), "q", 2)
	require.NoError(t, err)
	second, err := idx.Query(context.Background(), "q", 2)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

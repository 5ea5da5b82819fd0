package tools

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studyhall-ai/server/internal/chunk"
	"github.com/studyhall-ai/server/internal/index"
	"github.com/studyhall-ai/server/internal/ingest"
)

// fakeIndex returns canned matches regardless of the query.
type fakeIndex struct {
	matches []index.ScoredChunk
	err     error
	lastK   int
}

func (f *fakeIndex) Query(_ context.Context, _ string, k int) ([]index.ScoredChunk, error) {
	f.lastK = k
	if f.err != nil {
		return nil, f.err
	}
	return f.matches, nil
}

func (f *fakeIndex) Len() int           { return len(f.matches) }
func (f *fakeIndex) Collection() string { return "study_docs_test" }

func scored(content, source string) index.ScoredChunk {
	return index.ScoredChunk{
		Chunk: chunk.Chunk{Content: content, Meta: ingest.Metadata{Source: source}},
		Score: 0.9,
	}
}

func TestRetrieveFormatsSingleBlock(t *testing.T) {
	idx := &fakeIndex{matches: []index.ScoredChunk{
		scored("Paris is the capital of France.", "geo.txt"),
	}}
	rt := NewRetrieveTool(idx)

	out, err := rt.InvokableRun(context.Background(), `{"query":"capital of France"}`)
	require.NoError(t, err)
	assert.Equal(t, "Source: geo.txt\nParis is the capital of France.", out)
	assert.Equal(t, 3, idx.lastK)
}

func TestRetrieveJoinsBlocksWithDelimiter(t *testing.T) {
	idx := &fakeIndex{matches: []index.ScoredChunk{
		scored("First fact.", "a.txt"),
		scored("Second fact.", "b.md"),
	}}
	rt := NewRetrieveTool(idx)

	out, err := rt.InvokableRun(context.Background(), `{"query":"facts"}`)
	require.NoError(t, err)
	assert.Equal(t, "Source: a.txt\nFirst fact.\n\n---\n\nSource: b.md\nSecond fact.", out)
}

func TestRetrieveNoMatchesReturnsSentinel(t *testing.T) {
	rt := NewRetrieveTool(&fakeIndex{})

	out, err := rt.InvokableRun(context.Background(), `{"query":"anything"}`)
	require.NoError(t, err)
	assert.Equal(t, NoRelevantInformation, out)
}

func TestRetrieveEmptyQueryReturnsSentinel(t *testing.T) {
	rt := NewRetrieveTool(&fakeIndex{matches: []index.ScoredChunk{scored("x", "y")}})

	out, err := rt.InvokableRun(context.Background(), `{"query":"  "}`)
	require.NoError(t, err)
	assert.Equal(t, NoRelevantInformation, out)
}

func TestRetrieveBareStringArgumentsAccepted(t *testing.T) {
	idx := &fakeIndex{matches: []index.ScoredChunk{
		scored("Content.", "notes.txt"),
	}}
	rt := NewRetrieveTool(idx)

	out, err := rt.InvokableRun(context.Background(), "plain text query")
	require.NoError(t, err)
	assert.Equal(t, "Source: notes.txt\nContent.", out)
}

func TestRetrieveIndexErrorDegradesToText(t *testing.T) {
	rt := NewRetrieveTool(&fakeIndex{err: errors.New("embedding service down")})

	out, err := rt.InvokableRun(context.Background(), `{"query":"anything"}`)
	require.NoError(t, err)
	assert.Contains(t, out, "Retrieval failed")
	assert.Contains(t, out, "embedding service down")
}

func TestToolInfo(t *testing.T) {
	rt := NewRetrieveTool(&fakeIndex{})
	info, err := rt.Info(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ToolRetrieveStudyMaterial, info.Name)
	assert.NotEmpty(t, info.Desc)
}

func TestGetStudyToolsAndInfos(t *testing.T) {
	ts := GetStudyTools(&fakeIndex{})
	require.Len(t, ts, 1)

	infos, err := GetToolInfos(context.Background(), ts)
	require.NoError(t, err)
	require.Len(t, infos, 1)
	assert.Equal(t, ToolRetrieveStudyMaterial, infos[0].Name)
}

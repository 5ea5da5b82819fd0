package embed

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type embeddingsRequest struct {
	Input []string `json:"input"`
	Model string   `json:"model"`
}

func embeddingsHandler(t *testing.T, fn func(req embeddingsRequest, w http.ResponseWriter)) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/embeddings", r.URL.Path)
		require.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req embeddingsRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		fn(req, w)
	}
}

func respondVectors(w http.ResponseWriter, n int) {
	type datum struct {
		Index     int       `json:"index"`
		Embedding []float64 `json:"embedding"`
	}
	data := make([]datum, n)
	for i := range data {
		data[i] = datum{Index: i, Embedding: []float64{float64(i), 1}}
	}
	_ = json.NewEncoder(w).Encode(map[string]any{"data": data})
}

func newTestClient(t *testing.T, baseURL string, batchSize int) *Client {
	t.Helper()
	c, err := NewClient(Config{
		BaseURL:   baseURL,
		APIKey:    "test-key",
		Model:     "text-embedding-3-small",
		BatchSize: batchSize,
	})
	require.NoError(t, err)
	return c
}

func TestEmbedStringsOrdered(t *testing.T) {
	srv := httptest.NewServer(embeddingsHandler(t, func(req embeddingsRequest, w http.ResponseWriter) {
		assert.Equal(t, "text-embedding-3-small", req.Model)
		respondVectors(w, len(req.Input))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, 32)
	vecs, err := c.EmbedStrings(context.Background(), []string{"one", "two", "three"})
	require.NoError(t, err)
	require.Len(t, vecs, 3)
	assert.Equal(t, []float64{0, 1}, vecs[0])
	assert.Equal(t, []float64{2, 1}, vecs[2])
}

func TestEmbedStringsBatches(t *testing.T) {
	var requests int32
	srv := httptest.NewServer(embeddingsHandler(t, func(req embeddingsRequest, w http.ResponseWriter) {
		atomic.AddInt32(&requests, 1)
		assert.LessOrEqual(t, len(req.Input), 2)
		respondVectors(w, len(req.Input))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, 2)
	vecs, err := c.EmbedStrings(context.Background(), []string{"a", "b", "c", "d", "e"})
	require.NoError(t, err)
	assert.Len(t, vecs, 5)
	assert.Equal(t, int32(3), atomic.LoadInt32(&requests))
}

func TestEmbedStringsRetriesOn429(t *testing.T) {
	var attempts int32
	srv := httptest.NewServer(embeddingsHandler(t, func(req embeddingsRequest, w http.ResponseWriter) {
		if atomic.AddInt32(&attempts, 1) == 1 {
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		respondVectors(w, len(req.Input))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, 32)
	vecs, err := c.EmbedStrings(context.Background(), []string{"a"})
	require.NoError(t, err)
	assert.Len(t, vecs, 1)
	assert.Equal(t, int32(2), atomic.LoadInt32(&attempts))
}

func TestEmbedStringsClientErrorNotRetried(t *testing.T) {
	var attempts int32
	srv := httptest.NewServer(embeddingsHandler(t, func(req embeddingsRequest, w http.ResponseWriter) {
		atomic.AddInt32(&attempts, 1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, 32)
	_, err := c.EmbedStrings(context.Background(), []string{"a"})
	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&attempts))
}

func TestNewClientRequiresAPIKey(t *testing.T) {
	_, err := NewClient(Config{})
	require.Error(t, err)
}

package embed

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/cloudwego/eino/components/embedding"
)

// Config configures the OpenAI-compatible embeddings client.
type Config struct {
	BaseURL     string `envconfig:"EMBEDDING_BASE_URL" default:"https://api.openai.com/v1"`
	APIKey      string `envconfig:"EMBEDDING_API_KEY" required:"true"`
	Model       string `envconfig:"EMBEDDING_MODEL" default:"text-embedding-3-small"`
	TimeoutSecs int    `envconfig:"EMBEDDING_TIMEOUT_SECS" default:"30"`
	BatchSize   int    `envconfig:"EMBEDDING_BATCH_SIZE" default:"32"`
}

// Client is an OpenAI-compatible embeddings client implementing the Eino
// embedding.Embedder interface.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	batchSize  int
	client     *http.Client
	maxRetries int
}

// NewClient creates a new embeddings client using the provided configuration.
func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("missing embeddings API key")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.Model == "" {
		cfg.Model = "text-embedding-3-small"
	}
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	batch := cfg.BatchSize
	if batch <= 0 {
		batch = 32
	}
	return &Client{
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		batchSize:  batch,
		client:     &http.Client{Timeout: timeout},
		maxRetries: 5,
	}, nil
}

var _ embedding.Embedder = (*Client)(nil)

// EmbedStrings returns one vector per input text, preserving input order.
// Requests are batched; rate limits and 5xx responses are retried with
// exponential backoff, honoring Retry-After when the server provides it.
func (c *Client) EmbedStrings(ctx context.Context, texts []string, _ ...embedding.Option) ([][]float64, error) {
	out := make([][]float64, 0, len(texts))
	for start := 0; start < len(texts); start += c.batchSize {
		end := start + c.batchSize
		if end > len(texts) {
			end = len(texts)
		}
		vecs, err := c.embedBatch(ctx, texts[start:end])
		if err != nil {
			return nil, err
		}
		out = append(out, vecs...)
	}
	return out, nil
}

func (c *Client) embedBatch(ctx context.Context, texts []string) ([][]float64, error) {
	type reqBody struct {
		Input []string `json:"input"`
		Model string   `json:"model"`
	}
	url := fmt.Sprintf("%s/embeddings", c.baseURL)

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		data, _ := json.Marshal(reqBody{Input: texts, Model: c.model})
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+c.apiKey)

		resp, err := c.client.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			if attempt < c.maxRetries {
				time.Sleep(retryDelay(attempt))
				continue
			}
			return nil, err
		}

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			delay := retryDelay(attempt)
			if ra := resp.Header.Get("Retry-After"); ra != "" {
				if secs, err := strconv.Atoi(ra); err == nil {
					delay = time.Duration(secs) * time.Second
				}
			}
			_ = resp.Body.Close()
			if attempt < c.maxRetries {
				time.Sleep(delay)
				continue
			}
			return nil, fmt.Errorf("embeddings request failed: %s", resp.Status)
		}

		if resp.StatusCode >= 300 {
			_ = resp.Body.Close()
			return nil, fmt.Errorf("embeddings request failed: %s", resp.Status)
		}

		payload, err := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if err != nil {
			if attempt < c.maxRetries {
				time.Sleep(retryDelay(attempt))
				continue
			}
			return nil, err
		}

		var decoded struct {
			Data []struct {
				Index     int       `json:"index"`
				Embedding []float64 `json:"embedding"`
			} `json:"data"`
		}
		if err := json.Unmarshal(payload, &decoded); err != nil || len(decoded.Data) != len(texts) {
			if attempt < c.maxRetries {
				time.Sleep(retryDelay(attempt))
				continue
			}
			return nil, errors.New("no embeddings returned")
		}

		vecs := make([][]float64, len(texts))
		for _, d := range decoded.Data {
			if d.Index < 0 || d.Index >= len(vecs) {
				return nil, fmt.Errorf("embedding index %d out of range", d.Index)
			}
			vecs[d.Index] = d.Embedding
		}
		return vecs, nil
	}
	return nil, errors.New("no embeddings returned")
}

func retryDelay(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	base := 200 * time.Millisecond
	// exponential backoff capped at 5s
	d := base << attempt
	if d > 5*time.Second {
		d = 5 * time.Second
	}
	return d
}

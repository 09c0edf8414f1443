package ollama

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/ollama/ollama/api"
)

// DefaultBatchSize is the maximum number of texts sent in one API call
const DefaultBatchSize = 32

// Client wraps the Ollama API client for embedding generation
type Client struct {
	client    *api.Client
	batchSize int
}

// NewClient creates a new Ollama embedding client
func NewClient(ollamaURL string) (*Client, error) {
	// Parse the provided URL
	parsedURL, err := url.Parse(ollamaURL)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %v", err)
	}

	// Create base URL from the provided URL (removing any path like /api/embed)
	baseURL := &url.URL{
		Scheme: parsedURL.Scheme,
		Host:   parsedURL.Host,
	}

	// Create client with the specified URL, ignoring environment
	client := api.NewClient(baseURL, http.DefaultClient)

	return &Client{client: client, batchSize: DefaultBatchSize}, nil
}

// Embed returns one embedding vector per input text, batching requests to
// respect the server's practical request size.
func (c *Client) Embed(ctx context.Context, model string, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	// Add timeout if context doesn't have one (CPU-only servers are slow)
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, 300*time.Second)
		defer cancel()
	}

	embeddings := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += c.batchSize {
		end := start + c.batchSize
		if end > len(texts) {
			end = len(texts)
		}

		chunk := texts[start:end]
		resp, err := c.client.Embed(ctx, &api.EmbedRequest{
			Model: model,
			Input: chunk,
		})
		if err != nil {
			return nil, fmt.Errorf("ollama embed error: %v", err)
		}

		if len(resp.Embeddings) != len(chunk) {
			return nil, fmt.Errorf("expected %d embeddings, got %d", len(chunk), len(resp.Embeddings))
		}

		embeddings = append(embeddings, resp.Embeddings...)
	}

	return embeddings, nil
}

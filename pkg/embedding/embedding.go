// Package embedding defines the client interface to external embedding model
// servers. The transformer itself always lives behind this interface.
package embedding

import (
	"context"
	"fmt"
)

// Client produces embedding vectors for batches of texts
type Client interface {
	Embed(ctx context.Context, model string, texts []string) ([][]float32, error)
}

// CheckDimensions verifies that every vector has the same non-zero length and
// returns that length.
func CheckDimensions(vectors [][]float32) (int, error) {
	if len(vectors) == 0 {
		return 0, fmt.Errorf("no embeddings returned")
	}

	dims := len(vectors[0])
	if dims == 0 {
		return 0, fmt.Errorf("embedding server returned an empty vector")
	}

	for i, v := range vectors {
		if len(v) != dims {
			return 0, fmt.Errorf("inconsistent embedding dimensions: vector %d has %d, expected %d", i, len(v), dims)
		}
	}

	return dims, nil
}

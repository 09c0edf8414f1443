package predict

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/menta2k/task-classifier/internal/logging"
	"github.com/menta2k/task-classifier/pkg/bundle"
	"github.com/menta2k/task-classifier/pkg/labels"
	"github.com/menta2k/task-classifier/pkg/model"
)

type fixedClient struct {
	vectors [][]float32
	err     error
}

func (c fixedClient) Embed(context.Context, string, []string) ([][]float32, error) {
	return c.vectors, c.err
}

type passthroughTruncator struct{}

func (passthroughTruncator) Truncate(text string) string { return text }

func testLogger(t *testing.T) *logging.Logger {
	t.Helper()
	logger, err := logging.New(&logging.Config{Level: "error", Output: "stderr"})
	require.NoError(t, err)
	return logger
}

func testBundle(t *testing.T) *bundle.Bundle {
	t.Helper()

	mapping, err := labels.New([]string{"translate", "other"})
	require.NoError(t, err)

	return &bundle.Bundle{
		Model: &model.Linear{
			BaseModel:         "nomic-embed-text",
			MaxSequenceLength: 128,
			Dims:              2,
			Classes:           2,
			W:                 [][]float64{{2, 0}, {0.1, 0}},
			B:                 []float64{0, 0},
		},
		Mapping:   mapping,
		Tokenizer: bundle.TokenizerInfo{Encoding: "cl100k_base", MaxSequenceLength: 128},
	}
}

func TestPredict(t *testing.T) {
	client := fixedClient{vectors: [][]float32{{1, 0}}}
	p := New(testLogger(t), client, passthroughTruncator{}, testBundle(t))

	pred, err := p.Predict(context.Background(), "translate this sentence")
	require.NoError(t, err)

	assert.Equal(t, "translate", pred.Task)
	assert.InDelta(t, 0.8699, pred.Confidence, 1e-4)
}

func TestPredictEmbeddingError(t *testing.T) {
	client := fixedClient{err: fmt.Errorf("connection refused")}
	p := New(testLogger(t), client, passthroughTruncator{}, testBundle(t))

	_, err := p.Predict(context.Background(), "anything")
	assert.ErrorContains(t, err, "embedding failed")
}

func TestPredictUnexpectedBatch(t *testing.T) {
	client := fixedClient{vectors: [][]float32{{1, 0}, {0, 1}}}
	p := New(testLogger(t), client, passthroughTruncator{}, testBundle(t))

	_, err := p.Predict(context.Background(), "anything")
	assert.ErrorContains(t, err, "expected 1 embedding")
}

func TestLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, bundle.Save(dir, testBundle(t)))

	p, err := Load(testLogger(t), fixedClient{vectors: [][]float32{{1, 0}}}, passthroughTruncator{}, dir)
	require.NoError(t, err)

	assert.Equal(t, "nomic-embed-text", p.BaseModel())
	assert.Equal(t, 128, p.MaxSequenceLength())

	pred, err := p.Predict(context.Background(), "translate this sentence")
	require.NoError(t, err)
	assert.Equal(t, "translate", pred.Task)
}

func TestLoadMissingArtifact(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, bundle.Save(dir, testBundle(t)))

	require.NoError(t, os.Remove(filepath.Join(dir, labels.FileName)))

	_, err := Load(testLogger(t), fixedClient{}, passthroughTruncator{}, dir)
	assert.ErrorContains(t, err, labels.FileName)
}

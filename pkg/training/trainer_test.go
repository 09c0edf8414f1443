package training

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/menta2k/task-classifier/internal/config"
	"github.com/menta2k/task-classifier/internal/logging"
	"github.com/menta2k/task-classifier/pkg/bundle"
	"github.com/menta2k/task-classifier/pkg/types"
)

// keywordClient embeds texts by keyword so classes are linearly separable
type keywordClient struct {
	calls int
}

func (c *keywordClient) Embed(_ context.Context, _ string, texts []string) ([][]float32, error) {
	c.calls++

	out := make([][]float32, len(texts))
	for i, text := range texts {
		switch {
		case strings.Contains(text, "alpha"):
			out[i] = []float32{1, 0, 0, 0}
		case strings.Contains(text, "beta"):
			out[i] = []float32{0, 1, 0, 0}
		default:
			out[i] = []float32{0, 0, 1, 0}
		}
	}
	return out, nil
}

type failingClient struct{}

func (failingClient) Embed(context.Context, string, []string) ([][]float32, error) {
	return nil, fmt.Errorf("connection refused")
}

type passthroughTruncator struct{}

func (passthroughTruncator) Truncate(text string) string { return text }
func (passthroughTruncator) Name() string                { return "cl100k_base" }

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Training.Seed = 42
	cfg.Training.Epochs = 5
	cfg.Training.BatchSize = 4
	cfg.Training.LearningRate = 0.1
	cfg.Training.WarmupSteps = 2
	return cfg
}

func testLogger(t *testing.T) *logging.Logger {
	t.Helper()
	logger, err := logging.New(&logging.Config{Level: "error", Output: "stderr"})
	require.NoError(t, err)
	return logger
}

func separableExamples(n int) []types.Example {
	examples := make([]types.Example, 0, n)
	for i := 0; i < n; i++ {
		if i%2 == 0 {
			examples = append(examples, types.Example{Text: fmt.Sprintf("alpha query %d", i), Label: 0})
		} else {
			examples = append(examples, types.Example{Text: fmt.Sprintf("beta query %d", i), Label: 1})
		}
	}
	return examples
}

func TestRunTrainsAndSavesBundles(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig()

	trainer := New(testLogger(t), cfg, &keywordClient{}, passthroughTruncator{}, []string{"alpha", "beta"})
	trainer.Quiet = true

	result, err := trainer.Run(context.Background(), separableExamples(20), dir)
	require.NoError(t, err)

	assert.Equal(t, 4, result.Dims)
	assert.Len(t, result.Epochs, cfg.Training.Epochs)
	assert.Greater(t, result.BestF1, 0.9)

	last := result.Epochs[len(result.Epochs)-1]
	assert.Less(t, last.TrainLoss, result.Epochs[0].TrainLoss)

	for _, sub := range []string{BestModelDir, FinalModelDir} {
		for _, name := range []string{"model.json", "tokenizer.json", "label_mapping.json"} {
			_, err := os.Stat(filepath.Join(dir, sub, name))
			assert.NoError(t, err, "%s/%s should exist", sub, name)
		}
	}
}

func TestRunWritesHistory(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig()

	trainer := New(testLogger(t), cfg, &keywordClient{}, passthroughTruncator{}, []string{"alpha", "beta"})
	trainer.Quiet = true

	_, err := trainer.Run(context.Background(), separableExamples(20), dir)
	require.NoError(t, err)

	file, err := os.Open(filepath.Join(dir, HistoryFile))
	require.NoError(t, err)
	defer file.Close()

	var lines []EpochMetrics
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		var m EpochMetrics
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &m))
		lines = append(lines, m)
	}
	require.NoError(t, scanner.Err())

	require.Len(t, lines, cfg.Training.Epochs)
	for i, m := range lines {
		assert.Equal(t, i+1, m.Epoch)
	}
}

func TestRunSavedBundleLoads(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig()

	trainer := New(testLogger(t), cfg, &keywordClient{}, passthroughTruncator{}, []string{"alpha", "beta"})
	trainer.Quiet = true

	_, err := trainer.Run(context.Background(), separableExamples(20), dir)
	require.NoError(t, err)

	b, err := bundle.Load(filepath.Join(dir, BestModelDir))
	require.NoError(t, err)

	assert.Equal(t, cfg.Model.BaseModel, b.Model.BaseModel)
	assert.Equal(t, cfg.Model.MaxSequenceLength, b.Tokenizer.MaxSequenceLength)
	assert.Equal(t, "cl100k_base", b.Tokenizer.Encoding)
	assert.Equal(t, 2, b.Mapping.NumLabels())
}

func TestRunLabelOutOfRange(t *testing.T) {
	trainer := New(testLogger(t), testConfig(), &keywordClient{}, passthroughTruncator{}, []string{"alpha", "beta"})
	trainer.Quiet = true

	examples := []types.Example{{Text: "alpha", Label: 7}}
	_, err := trainer.Run(context.Background(), examples, t.TempDir())
	assert.ErrorContains(t, err, "outside the configured label space")
}

func TestRunTooFewExamples(t *testing.T) {
	trainer := New(testLogger(t), testConfig(), &keywordClient{}, passthroughTruncator{}, []string{"alpha", "beta"})
	trainer.Quiet = true

	_, err := trainer.Run(context.Background(), separableExamples(1), t.TempDir())
	assert.ErrorContains(t, err, "not enough examples")
}

func TestRunEmbeddingFailure(t *testing.T) {
	trainer := New(testLogger(t), testConfig(), failingClient{}, passthroughTruncator{}, []string{"alpha", "beta"})
	trainer.Quiet = true

	_, err := trainer.Run(context.Background(), separableExamples(20), t.TempDir())
	assert.ErrorContains(t, err, "embedding batch")
}

func TestRunCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	trainer := New(testLogger(t), testConfig(), &keywordClient{}, passthroughTruncator{}, []string{"alpha", "beta"})
	trainer.Quiet = true

	_, err := trainer.Run(ctx, separableExamples(20), t.TempDir())
	assert.ErrorIs(t, err, context.Canceled)
}

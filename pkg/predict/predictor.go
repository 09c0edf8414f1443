// Package predict classifies a single query using a persisted model bundle
// and an external embedding backend.
package predict

import (
	"context"
	"fmt"

	"github.com/menta2k/task-classifier/internal/logging"
	"github.com/menta2k/task-classifier/pkg/bundle"
	"github.com/menta2k/task-classifier/pkg/embedding"
	"github.com/menta2k/task-classifier/pkg/model"
	"github.com/menta2k/task-classifier/pkg/types"
)

// Truncator cuts text down to the model's maximum sequence length
type Truncator interface {
	Truncate(text string) string
}

// Predictor runs inference against a loaded bundle
type Predictor struct {
	logger    *logging.Logger
	client    embedding.Client
	truncator Truncator
	bundle    *bundle.Bundle
}

// New wraps an already loaded bundle
func New(logger *logging.Logger, client embedding.Client, truncator Truncator, b *bundle.Bundle) *Predictor {
	return &Predictor{
		logger:    logger,
		client:    client,
		truncator: truncator,
		bundle:    b,
	}
}

// Load reads the model bundle from modelPath. It fails if the bundle is
// missing any of the model weights, tokenizer settings, or label mapping.
func Load(logger *logging.Logger, client embedding.Client, truncator Truncator, modelPath string) (*Predictor, error) {
	logger.Info("Loading model from %s", modelPath)

	b, err := bundle.Load(modelPath)
	if err != nil {
		return nil, err
	}

	logger.Info("Model loaded successfully")
	return New(logger, client, truncator, b), nil
}

// Predict embeds the query, runs one forward pass through the classification
// head, and returns the argmax label with its softmax probability.
func (p *Predictor) Predict(ctx context.Context, query string) (types.Prediction, error) {
	text := p.truncator.Truncate(query)

	vectors, err := p.client.Embed(ctx, p.bundle.Model.BaseModel, []string{text})
	if err != nil {
		return types.Prediction{}, fmt.Errorf("embedding failed: %w", err)
	}
	if len(vectors) != 1 {
		return types.Prediction{}, fmt.Errorf("expected 1 embedding, got %d", len(vectors))
	}

	x := make([]float64, len(vectors[0]))
	for i, v := range vectors[0] {
		x[i] = float64(v)
	}

	logits, err := p.bundle.Model.Forward(x)
	if err != nil {
		return types.Prediction{}, err
	}

	probs := model.Softmax(logits)
	class := model.Argmax(probs)

	label, ok := p.bundle.Mapping.Label(class)
	if !ok {
		return types.Prediction{}, fmt.Errorf("predicted class %d has no label mapping entry", class)
	}

	return types.Prediction{
		Task:       label,
		Confidence: probs[class],
	}, nil
}

// BaseModel returns the embedding model the bundle was trained against
func (p *Predictor) BaseModel() string {
	return p.bundle.Model.BaseModel
}

// MaxSequenceLength returns the token budget recorded at training time
func (p *Predictor) MaxSequenceLength() int {
	return p.bundle.Tokenizer.MaxSequenceLength
}

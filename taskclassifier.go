// Package taskclassifier provides task classification for natural-language
// queries and annotation of detection-model output.
//
// The repository is a set of four small tools sharing these packages:
//
//  1. Data preparation (pkg/dataset): cleans raw query records, maps task
//     labels to class ids, and produces a deterministic train/test split.
//  2. Training (pkg/training): optimizes a linear classification head over
//     embeddings from an external model server, tracking validation accuracy
//     and weighted F1 and checkpointing the best bundle.
//  3. Prediction (pkg/predict): loads a persisted bundle and classifies a
//     query, returning the top label with its softmax confidence.
//  4. Annotation (pkg/annotate): draws bounding boxes and score captions on
//     images from detection-model output.
//
// Basic usage:
//
//	logger, _ := logging.New(nil)
//	predictor, err := taskclassifier.LoadPredictor(logger, "ollama", "http://localhost:11434", "./output/best_model")
//	if err != nil {
//		log.Fatal(err)
//	}
//	prediction, err := predictor.Predict(context.Background(), "translate this page to French")
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Printf("%s (%.2f)\n", prediction.Task, prediction.Confidence)
//
// The transformer model, tokenization, and image-drawing primitives are all
// external: embeddings come from an Ollama or OpenAI-compatible server,
// token counting from tiktoken, and rasterization from golang.org/x/image.
package taskclassifier

import (
	"fmt"

	"github.com/menta2k/task-classifier/internal/logging"
	"github.com/menta2k/task-classifier/pkg/bundle"
	"github.com/menta2k/task-classifier/pkg/embedding"
	"github.com/menta2k/task-classifier/pkg/embedding/ollama"
	"github.com/menta2k/task-classifier/pkg/embedding/openai"
	"github.com/menta2k/task-classifier/pkg/predict"
	"github.com/menta2k/task-classifier/pkg/tokenizer"
)

// Version of the task classifier library
const Version = "1.0.0"

// Default server URLs per backend
const (
	DefaultOllamaURL = "http://localhost:11434"
	DefaultOpenAIURL = "http://localhost:8080"
)

// NewBackendClient creates an embedding client for the chosen backend
// ("ollama" or "openai"). An empty serverURL selects the backend's default.
func NewBackendClient(backend, serverURL string) (embedding.Client, error) {
	switch backend {
	case "ollama":
		if serverURL == "" {
			serverURL = DefaultOllamaURL
		}
		return ollama.NewClient(serverURL)
	case "openai":
		if serverURL == "" {
			serverURL = DefaultOpenAIURL
		}
		return openai.NewClient(serverURL), nil
	default:
		return nil, fmt.Errorf("unknown backend %q (supported: ollama, openai)", backend)
	}
}

// LoadPredictor wires a backend client, tokenizer, and persisted bundle into
// a ready-to-use predictor.
func LoadPredictor(logger *logging.Logger, backend, serverURL, modelPath string) (*predict.Predictor, error) {
	client, err := NewBackendClient(backend, serverURL)
	if err != nil {
		return nil, err
	}

	logger.Info("Loading model from %s", modelPath)
	b, err := bundle.Load(modelPath)
	if err != nil {
		return nil, err
	}

	tok, err := tokenizer.NewWithEncoding(b.Tokenizer.Encoding, b.Tokenizer.MaxSequenceLength)
	if err != nil {
		return nil, err
	}

	return predict.New(logger, client, tok, b), nil
}

// GetVersion returns the library version
func GetVersion() string {
	return Version
}

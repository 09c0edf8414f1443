package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	taskclassifier "github.com/menta2k/task-classifier"
	"github.com/menta2k/task-classifier/internal/logging"
)

var (
	modelPath = flag.String("model_path", "./output/best_model", "path to trained model bundle")
	query     = flag.String("query", "", "query text for prediction (required)")
	backend   = flag.String("backend", "ollama", "embedding backend: ollama or openai")
	serverURL = flag.String("url", "", "embedding server URL (defaults per backend)")
)

func main() {
	flag.Parse()

	if *query == "" {
		flag.Usage()
		os.Exit(2)
	}

	logger, err := logging.New(nil)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Close()

	predictor, err := taskclassifier.LoadPredictor(logger, *backend, *serverURL, *modelPath)
	if err != nil {
		logger.Error("%v", err)
		os.Exit(1)
	}

	prediction, err := predictor.Predict(context.Background(), *query)
	if err != nil {
		logger.Error("Prediction failed: %v", err)
		os.Exit(1)
	}

	logger.Info("Query: %s", *query)
	logger.Info("Predicted task: %s (confidence: %.4f)", prediction.Task, prediction.Confidence)

	out, err := json.MarshalIndent(prediction, "", "  ")
	if err != nil {
		logger.Error("Failed to encode prediction: %v", err)
		os.Exit(1)
	}
	fmt.Println(string(out))
}

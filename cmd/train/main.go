package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	taskclassifier "github.com/menta2k/task-classifier"
	"github.com/menta2k/task-classifier/internal/config"
	"github.com/menta2k/task-classifier/internal/logging"
	"github.com/menta2k/task-classifier/pkg/dataset"
	"github.com/menta2k/task-classifier/pkg/tokenizer"
	"github.com/menta2k/task-classifier/pkg/training"
)

var (
	configPath     = flag.String("config", "config/training_config.yaml", "path to config file")
	dataPath       = flag.String("data_path", "data/processed/train.json", "path to prepared training data")
	outputDir      = flag.String("output-dir", "", "directory to save the model (default: config training.output_dir)")
	taskLabelsPath = flag.String("task-labels", "config/task_labels.json", "path to task labels file")
	backend        = flag.String("backend", "ollama", "embedding backend: ollama or openai")
	serverURL      = flag.String("url", "", "embedding server URL (defaults per backend)")
	verbose        = flag.Bool("verbose", false, "enable debug logging")
)

func main() {
	flag.Parse()

	level := "info"
	if *verbose {
		level = "debug"
	}

	logger, err := logging.New(&logging.Config{Level: level, Output: "stderr"})
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Close()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("Failed to load config: %v", err)
		os.Exit(1)
	}

	taskLabels, err := config.LoadTaskLabels(*taskLabelsPath)
	if err != nil {
		logger.Error("Failed to load task labels: %v", err)
		os.Exit(1)
	}

	out := *outputDir
	if out == "" {
		out = cfg.Training.OutputDir
	}

	client, err := taskclassifier.NewBackendClient(*backend, *serverURL)
	if err != nil {
		logger.Error("%v", err)
		os.Exit(1)
	}

	tok, err := tokenizer.New(cfg.Model.MaxSequenceLength)
	if err != nil {
		logger.Error("Failed to initialize tokenizer: %v", err)
		os.Exit(1)
	}

	examples, err := dataset.LoadExamples(*dataPath)
	if err != nil {
		logger.Error("%v", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	trainer := training.New(logger, cfg, client, tok, taskLabels)
	result, err := trainer.Run(ctx, examples, out)
	if err != nil {
		logger.Error("Training failed: %v", err)
		os.Exit(1)
	}

	logger.Info("Trained %d-dimensional head over %d epochs, best validation F1 %.4f",
		result.Dims, len(result.Epochs), result.BestF1)
}

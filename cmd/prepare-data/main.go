package main

import (
	"flag"
	"log"
	"os"

	"github.com/menta2k/task-classifier/internal/config"
	"github.com/menta2k/task-classifier/internal/logging"
	"github.com/menta2k/task-classifier/pkg/dataset"
)

func main() {
	var inputFile, outputDir, configPath, taskLabelsPath string

	flag.StringVar(&inputFile, "input-file", "data/queries.json", "path to raw data file")
	flag.StringVar(&outputDir, "output-dir", "data/processed", "output directory for processed data")
	flag.StringVar(&configPath, "config", "config/training_config.yaml", "path to config file")
	flag.StringVar(&taskLabelsPath, "task-labels", "config/task_labels.json", "path to task labels file")
	flag.Parse()

	logger, err := logging.New(nil)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Close()

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Error("Failed to load config: %v", err)
		os.Exit(1)
	}

	taskLabels, err := config.LoadTaskLabels(taskLabelsPath)
	if err != nil {
		logger.Error("Failed to load task labels: %v", err)
		os.Exit(1)
	}

	logger.Info("Starting data preparation")

	records, err := dataset.LoadRecords(inputFile)
	if err != nil {
		logger.Error("%v", err)
		os.Exit(1)
	}

	splits, err := dataset.Prepare(records, taskLabels, cfg.Training.Seed, cfg.Data.TrainSplit)
	if err != nil {
		logger.Error("Data preparation failed: %v", err)
		os.Exit(1)
	}

	if err := dataset.WriteSplits(outputDir, splits); err != nil {
		logger.Error("Failed to write processed data: %v", err)
		os.Exit(1)
	}

	logger.Info("Data preparation completed: %d training, %d test samples",
		len(splits.Train), len(splits.Test))
}

package config

import (
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the application configuration
type Config struct {
	Training TrainingConfig `yaml:"training"`
	Data     DataConfig     `yaml:"data"`
	Model    ModelConfig    `yaml:"model"`
}

// TrainingConfig holds optimization hyperparameters
type TrainingConfig struct {
	Seed         int64   `yaml:"seed"`
	BatchSize    int     `yaml:"batch_size"`
	LearningRate float64 `yaml:"learning_rate"`
	WeightDecay  float64 `yaml:"weight_decay"`
	Epochs       int     `yaml:"epochs"`
	WarmupSteps  int     `yaml:"warmup_steps"`
	OutputDir    string  `yaml:"output_dir"`
	Beta1        float64 `yaml:"beta1"`
	Beta2        float64 `yaml:"beta2"`
	Epsilon      float64 `yaml:"epsilon"`
}

// DataConfig holds dataset preparation hyperparameters
type DataConfig struct {
	TrainSplit float64 `yaml:"train_split"`
}

// ModelConfig identifies the external embedding model and its input limit
type ModelConfig struct {
	BaseModel         string `yaml:"base_model"`
	MaxSequenceLength int    `yaml:"max_sequence_length"`
}

// Default returns a configuration with default values
func Default() *Config {
	return &Config{
		Training: TrainingConfig{
			Seed:         42,
			BatchSize:    16,
			LearningRate: 2e-4,
			WeightDecay:  0.01,
			Epochs:       5,
			WarmupSteps:  0,
			OutputDir:    "./output",
			Beta1:        0.9,
			Beta2:        0.999,
			Epsilon:      1e-8,
		},
		Data: DataConfig{
			TrainSplit: 0.8,
		},
		Model: ModelConfig{
			BaseModel:         "nomic-embed-text",
			MaxSequenceLength: 128,
		},
	}
}

// Load reads a YAML configuration file. Keys absent from the file keep their
// default values.
func Load(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Training.BatchSize < 1 {
		return fmt.Errorf("training.batch_size must be positive")
	}

	if c.Training.Epochs < 1 {
		return fmt.Errorf("training.epochs must be positive")
	}

	if c.Training.LearningRate <= 0 {
		return fmt.Errorf("training.learning_rate must be positive")
	}

	if c.Training.WeightDecay < 0 {
		return fmt.Errorf("training.weight_decay cannot be negative")
	}

	if c.Training.WarmupSteps < 0 {
		return fmt.Errorf("training.warmup_steps cannot be negative")
	}

	if c.Data.TrainSplit <= 0 || c.Data.TrainSplit > 1 {
		return fmt.Errorf("data.train_split must be in (0, 1]")
	}

	if c.Model.BaseModel == "" {
		return fmt.Errorf("model.base_model cannot be empty")
	}

	if c.Model.MaxSequenceLength < 1 {
		return fmt.Errorf("model.max_sequence_length must be positive")
	}

	return nil
}

// taskLabelsFile is the on-disk shape of the label list
type taskLabelsFile struct {
	TaskLabels []string `json:"task_labels"`
}

// LoadTaskLabels reads the ordered task label list from a JSON file. Index
// position in the returned slice is the numeric class id used throughout
// preparation, training, and prediction.
func LoadTaskLabels(filename string) ([]string, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read task labels file: %w", err)
	}

	var f taskLabelsFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse task labels file: %w", err)
	}

	if len(f.TaskLabels) == 0 {
		return nil, fmt.Errorf("task labels file %s contains no labels", filename)
	}

	return f.TaskLabels, nil
}

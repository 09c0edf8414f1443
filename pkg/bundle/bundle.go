// Package bundle persists and restores a trained model directory: the head
// weights, the tokenizer settings, and the label mapping. All three artifacts
// must be present for the bundle to load.
package bundle

import (
	"fmt"
	"path/filepath"

	"github.com/menta2k/task-classifier/internal/utils"
	"github.com/menta2k/task-classifier/pkg/labels"
	"github.com/menta2k/task-classifier/pkg/model"
)

// TokenizerFileName is the on-disk name of the tokenizer settings
const TokenizerFileName = "tokenizer.json"

// TokenizerInfo records how inputs were tokenized at training time
type TokenizerInfo struct {
	Encoding          string `json:"encoding"`
	MaxSequenceLength int    `json:"max_sequence_length"`
}

// Bundle is a loaded model directory
type Bundle struct {
	Model     *model.Linear
	Mapping   *labels.Mapping
	Tokenizer TokenizerInfo
}

// Save writes all bundle artifacts into dir, creating it if needed
func Save(dir string, b *Bundle) error {
	if err := utils.EnsureDir(dir); err != nil {
		return fmt.Errorf("failed to create model directory: %w", err)
	}

	if err := b.Model.Save(dir); err != nil {
		return err
	}

	if err := utils.WriteJSON(filepath.Join(dir, TokenizerFileName), b.Tokenizer); err != nil {
		return err
	}

	return b.Mapping.Save(dir)
}

// Load reads a bundle from dir. It fails if any of model.json,
// tokenizer.json, or label_mapping.json is missing, and if the model's class
// count does not match the label mapping.
func Load(dir string) (*Bundle, error) {
	for _, name := range []string{model.FileName, TokenizerFileName, labels.FileName} {
		if !utils.FileExists(filepath.Join(dir, name)) {
			return nil, fmt.Errorf("model bundle %s is missing %s", dir, name)
		}
	}

	m, err := model.Load(dir)
	if err != nil {
		return nil, err
	}

	mapping, err := labels.Load(dir)
	if err != nil {
		return nil, err
	}

	var tok TokenizerInfo
	if err := utils.ReadJSON(filepath.Join(dir, TokenizerFileName), &tok); err != nil {
		return nil, err
	}

	if m.Classes != mapping.NumLabels() {
		return nil, fmt.Errorf("model has %d output classes but label mapping has %d labels",
			m.Classes, mapping.NumLabels())
	}

	return &Bundle{Model: m, Mapping: mapping, Tokenizer: tok}, nil
}

package model

import (
	"fmt"
	"path/filepath"

	"github.com/menta2k/task-classifier/internal/utils"
)

// FileName is the on-disk name of the head weights inside a model bundle
const FileName = "model.json"

// Save writes the model as model.json inside dir
func (m *Linear) Save(dir string) error {
	return utils.WriteJSON(filepath.Join(dir, FileName), m)
}

// Load reads and validates a model from dir
func Load(dir string) (*Linear, error) {
	path := filepath.Join(dir, FileName)
	var m Linear
	if err := utils.ReadJSON(path, &m); err != nil {
		return nil, err
	}

	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("invalid model in %s: %w", path, err)
	}

	return &m, nil
}

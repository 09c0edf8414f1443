// Package labels maintains the bidirectional table between string task labels
// and their numeric class ids. The table is persisted next to the trained
// model and must stay consistent between training and inference.
package labels

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/menta2k/task-classifier/internal/utils"
)

// FileName is the on-disk name of the mapping inside a model bundle
const FileName = "label_mapping.json"

// Mapping is a bidirectional label table. Ids are string-keyed in IDToLabel
// to match the persisted JSON format.
type Mapping struct {
	LabelToID map[string]int    `json:"label_to_id"`
	IDToLabel map[string]string `json:"id_to_label"`
}

// New builds a mapping from an ordered label list. The index position of each
// label is its class id.
func New(taskLabels []string) (*Mapping, error) {
	m := &Mapping{
		LabelToID: make(map[string]int, len(taskLabels)),
		IDToLabel: make(map[string]string, len(taskLabels)),
	}

	for i, label := range taskLabels {
		if _, ok := m.LabelToID[label]; ok {
			return nil, fmt.Errorf("duplicate task label %q", label)
		}
		m.LabelToID[label] = i
		m.IDToLabel[strconv.Itoa(i)] = label
	}

	return m, nil
}

// NumLabels returns the size of the label space
func (m *Mapping) NumLabels() int {
	return len(m.LabelToID)
}

// Label resolves a numeric class id to its string label
func (m *Mapping) Label(id int) (string, bool) {
	label, ok := m.IDToLabel[strconv.Itoa(id)]
	return label, ok
}

// Validate checks that LabelToID and IDToLabel are mutual inverses and that
// the ids cover 0..n-1 with no gaps. Every id the model's output layer can
// produce must resolve to a label.
func (m *Mapping) Validate() error {
	if len(m.LabelToID) != len(m.IDToLabel) {
		return fmt.Errorf("label mapping size mismatch: %d labels, %d ids",
			len(m.LabelToID), len(m.IDToLabel))
	}

	for label, id := range m.LabelToID {
		got, ok := m.IDToLabel[strconv.Itoa(id)]
		if !ok {
			return fmt.Errorf("id %d (label %q) missing from id_to_label", id, label)
		}
		if got != label {
			return fmt.Errorf("id %d maps to %q, expected %q", id, got, label)
		}
	}

	for id := 0; id < len(m.LabelToID); id++ {
		if _, ok := m.IDToLabel[strconv.Itoa(id)]; !ok {
			return fmt.Errorf("label mapping has no entry for id %d", id)
		}
	}

	return nil
}

// Save writes the mapping as label_mapping.json inside dir
func (m *Mapping) Save(dir string) error {
	return utils.WriteJSON(filepath.Join(dir, FileName), m)
}

// Load reads and validates a mapping from dir
func Load(dir string) (*Mapping, error) {
	path := filepath.Join(dir, FileName)
	var m Mapping
	if err := utils.ReadJSON(path, &m); err != nil {
		return nil, err
	}

	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("invalid label mapping in %s: %w", path, err)
	}

	return &m, nil
}

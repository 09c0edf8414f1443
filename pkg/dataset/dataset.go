// Package dataset prepares raw query records for training: text cleaning,
// label indexing, deterministic shuffling, and the train/test split.
package dataset

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/menta2k/task-classifier/internal/utils"
	"github.com/menta2k/task-classifier/pkg/types"
)

// FallbackLabel is the class any unknown task label falls back to. It must be
// present in the configured label list whenever an unknown label appears.
const FallbackLabel = "other"

// Output file names inside the processed data directory
const (
	TrainFileName = "train.json"
	TestFileName  = "test.json"
)

var whitespaceRE = regexp.MustCompile(`\s+`)

// CleanText normalizes free text: trims, collapses internal whitespace runs
// to single spaces, and lowercases. Punctuation is kept.
func CleanText(text string) string {
	text = whitespaceRE.ReplaceAllString(strings.TrimSpace(text), " ")
	return strings.ToLower(text)
}

// Splits holds the prepared train/test partition
type Splits struct {
	Train []types.Example
	Test  []types.Example
}

// LoadRecords reads a JSON array of raw query records
func LoadRecords(path string) ([]types.QueryRecord, error) {
	if !utils.FileExists(path) {
		return nil, fmt.Errorf("raw data file not found at %s: %w", path, os.ErrNotExist)
	}

	var records []types.QueryRecord
	if err := utils.ReadJSON(path, &records); err != nil {
		return nil, err
	}

	return records, nil
}

// Prepare cleans and indexes the records, shuffles them with the given seed,
// and splits at floor(len * trainSplit). The same seed and input always
// produce the same partition.
func Prepare(records []types.QueryRecord, taskLabels []string, seed int64, trainSplit float64) (Splits, error) {
	labelIndex := make(map[string]int, len(taskLabels))
	for i, label := range taskLabels {
		labelIndex[label] = i
	}

	examples := make([]types.Example, 0, len(records))
	for _, record := range records {
		task := record.Task
		if task == "" {
			task = FallbackLabel
		}

		idx, ok := labelIndex[task]
		if !ok {
			fallback, haveFallback := labelIndex[FallbackLabel]
			if !haveFallback {
				return Splits{}, fmt.Errorf("%q label not found in task labels", FallbackLabel)
			}
			idx = fallback
		}

		examples = append(examples, types.Example{
			Text:  CleanText(record.Query),
			Label: idx,
		})
	}

	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(len(examples), func(i, j int) {
		examples[i], examples[j] = examples[j], examples[i]
	})

	trainSize := int(float64(len(examples)) * trainSplit)

	// Keep both halves non-nil so empty splits serialize as [] rather than null.
	splits := Splits{
		Train: append([]types.Example{}, examples[:trainSize]...),
		Test:  append([]types.Example{}, examples[trainSize:]...),
	}

	return splits, nil
}

// WriteSplits writes train.json and test.json into outputDir, creating the
// directory if needed.
func WriteSplits(outputDir string, splits Splits) error {
	if err := utils.EnsureDir(outputDir); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if err := utils.WriteJSON(filepath.Join(outputDir, TrainFileName), splits.Train); err != nil {
		return err
	}

	return utils.WriteJSON(filepath.Join(outputDir, TestFileName), splits.Test)
}

// LoadExamples reads a prepared example file (train.json / test.json format)
func LoadExamples(path string) ([]types.Example, error) {
	if !utils.FileExists(path) {
		return nil, fmt.Errorf("prepared data file not found at %s: %w", path, os.ErrNotExist)
	}

	var examples []types.Example
	if err := utils.ReadJSON(path, &examples); err != nil {
		return nil, err
	}

	return examples, nil
}

package dataset

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/menta2k/task-classifier/pkg/types"
)

func TestCleanText(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  Hello   World ", "hello world"},
		{"Translate\tthis\n\npage", "translate this page"},
		{"already clean", "already clean"},
		{"Keep, punctuation!", "keep, punctuation!"},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, CleanText(tt.in))
	}
}

func TestPrepareSingleRecord(t *testing.T) {
	records := []types.QueryRecord{{Task: "translate", Query: "  Hello   World "}}

	splits, err := Prepare(records, []string{"translate", "other"}, 42, 0.8)
	require.NoError(t, err)

	// floor(1 * 0.8) == 0, so the single record lands in the test split
	require.Len(t, splits.Train, 0)
	require.Len(t, splits.Test, 1)
	assert.Equal(t, types.Example{Text: "hello world", Label: 0}, splits.Test[0])
}

func TestPrepareUnknownTaskFallsBack(t *testing.T) {
	records := []types.QueryRecord{
		{Task: "made-up-task", Query: "do something"},
		{Task: "", Query: "no task at all"},
	}

	splits, err := Prepare(records, []string{"translate", "other"}, 1, 1.0)
	require.NoError(t, err)
	require.Len(t, splits.Train, 2)
	for _, ex := range splits.Train {
		assert.Equal(t, 1, ex.Label)
	}
}

func TestPrepareUnknownTaskWithoutFallbackFails(t *testing.T) {
	records := []types.QueryRecord{{Task: "made-up-task", Query: "do something"}}

	_, err := Prepare(records, []string{"translate", "summarize"}, 1, 0.8)
	assert.ErrorContains(t, err, `"other" label not found`)
}

func TestPrepareSplitSizes(t *testing.T) {
	var records []types.QueryRecord
	for i := 0; i < 10; i++ {
		records = append(records, types.QueryRecord{Task: "translate", Query: fmt.Sprintf("query %d", i)})
	}

	splits, err := Prepare(records, []string{"translate", "other"}, 42, 0.8)
	require.NoError(t, err)

	assert.Len(t, splits.Train, 8)
	assert.Len(t, splits.Test, 2)
	assert.Equal(t, len(records), len(splits.Train)+len(splits.Test))

	for _, ex := range append(splits.Train, splits.Test...) {
		assert.GreaterOrEqual(t, ex.Label, 0)
		assert.Less(t, ex.Label, 2)
	}
}

func TestPrepareDeterministic(t *testing.T) {
	var records []types.QueryRecord
	for i := 0; i < 25; i++ {
		records = append(records, types.QueryRecord{Task: "translate", Query: fmt.Sprintf("query number %d", i)})
	}
	taskLabels := []string{"translate", "other"}

	first, err := Prepare(records, taskLabels, 42, 0.8)
	require.NoError(t, err)
	second, err := Prepare(records, taskLabels, 42, 0.8)
	require.NoError(t, err)

	assert.Equal(t, first, second)

	// A different seed should give a different order for 25 records
	third, err := Prepare(records, taskLabels, 43, 0.8)
	require.NoError(t, err)
	assert.NotEqual(t, first.Train, third.Train)
}

func TestWriteSplitsByteIdentical(t *testing.T) {
	var records []types.QueryRecord
	for i := 0; i < 12; i++ {
		records = append(records, types.QueryRecord{Task: "translate", Query: fmt.Sprintf("query %d", i)})
	}
	taskLabels := []string{"translate", "other"}

	read := func(dir, name string) []byte {
		data, err := os.ReadFile(filepath.Join(dir, name))
		require.NoError(t, err)
		return data
	}

	dirA, dirB := t.TempDir(), t.TempDir()
	for _, dir := range []string{dirA, dirB} {
		splits, err := Prepare(records, taskLabels, 42, 0.8)
		require.NoError(t, err)
		require.NoError(t, WriteSplits(dir, splits))
	}

	assert.Equal(t, read(dirA, TrainFileName), read(dirB, TrainFileName))
	assert.Equal(t, read(dirA, TestFileName), read(dirB, TestFileName))
}

func TestWriteSplitsCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "processed", "nested")

	splits, err := Prepare(nil, []string{"translate", "other"}, 42, 0.8)
	require.NoError(t, err)
	require.NoError(t, WriteSplits(dir, splits))

	// Empty splits serialize as [] rather than null
	assert.Equal(t, "[]", string(mustRead(t, filepath.Join(dir, TrainFileName))))
}

func mustRead(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return data
}

func TestLoadRecordsMissingFile(t *testing.T) {
	_, err := LoadRecords(filepath.Join(t.TempDir(), "queries.json"))
	assert.ErrorContains(t, err, "not found")
}

func TestLoadRecordsRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "queries.json")
	content := `[{"task": "translate", "query": "Hello"}, {"task": "other", "query": "Hi"}]`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	records, err := LoadRecords(path)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "translate", records[0].Task)
	assert.Equal(t, "Hello", records[0].Query)
}

func TestLoadExamples(t *testing.T) {
	path := filepath.Join(t.TempDir(), "train.json")
	content := `[{"text": "hello world", "label": 0}]`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	examples, err := LoadExamples(path)
	require.NoError(t, err)
	require.Len(t, examples, 1)
	assert.Equal(t, types.Example{Text: "hello world", Label: 0}, examples[0])
}

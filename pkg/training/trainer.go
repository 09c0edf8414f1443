// Package training runs the classification-head optimization loop over
// embeddings produced by an external model server, tracks validation metrics,
// and persists best/final model bundles.
package training

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"

	"github.com/menta2k/task-classifier/internal/config"
	"github.com/menta2k/task-classifier/internal/logging"
	"github.com/menta2k/task-classifier/internal/utils"
	"github.com/menta2k/task-classifier/pkg/bundle"
	"github.com/menta2k/task-classifier/pkg/embedding"
	"github.com/menta2k/task-classifier/pkg/labels"
	"github.com/menta2k/task-classifier/pkg/model"
	"github.com/menta2k/task-classifier/pkg/types"
)

// Output layout inside the training output directory
const (
	BestModelDir  = "best_model"
	FinalModelDir = "final_model"
	HistoryFile   = "logs/history.jsonl"
)

// validationSplit is the fraction of examples held out for per-epoch metrics
const validationSplit = 0.2

// embedBatchSize is how many texts are sent to the embedding backend per call
const embedBatchSize = 32

// Truncator cuts text down to the model's maximum sequence length
type Truncator interface {
	Truncate(text string) string
	Name() string
}

// Trainer drives the optimization loop
type Trainer struct {
	logger     *logging.Logger
	cfg        *config.Config
	client     embedding.Client
	truncator  Truncator
	taskLabels []string

	// Quiet disables progress bars (useful under tests)
	Quiet bool
}

// New creates a trainer. The task label list is the single authoritative
// label space: class ids are index positions in it, and the persisted mapping
// is built from it.
func New(logger *logging.Logger, cfg *config.Config, client embedding.Client, truncator Truncator, taskLabels []string) *Trainer {
	return &Trainer{
		logger:     logger,
		cfg:        cfg,
		client:     client,
		truncator:  truncator,
		taskLabels: taskLabels,
	}
}

// EpochMetrics is one line of the training history
type EpochMetrics struct {
	Epoch        int     `json:"epoch"`
	TrainLoss    float64 `json:"train_loss"`
	ValAccuracy  float64 `json:"val_accuracy"`
	ValF1        float64 `json:"val_f1"`
	LearningRate float64 `json:"learning_rate"`
}

// Result summarizes a completed run
type Result struct {
	BestF1 float64
	Dims   int
	Epochs []EpochMetrics
}

// Run trains on the prepared examples and writes model bundles under
// outputDir: best_model whenever validation F1 strictly improves, final_model
// unconditionally after the last epoch.
func (t *Trainer) Run(ctx context.Context, examples []types.Example, outputDir string) (*Result, error) {
	mapping, err := labels.New(t.taskLabels)
	if err != nil {
		return nil, err
	}
	numLabels := mapping.NumLabels()

	for i, ex := range examples {
		if ex.Label < 0 || ex.Label >= numLabels {
			return nil, fmt.Errorf("example %d has label %d outside the configured label space [0, %d)",
				i, ex.Label, numLabels)
		}
	}

	texts := make([]string, len(examples))
	truth := make([]int, len(examples))
	for i, ex := range examples {
		texts[i] = t.truncator.Truncate(ex.Text)
		truth[i] = ex.Label
	}

	t.logger.Info("Embedding %d examples with model %s", len(texts), t.cfg.Model.BaseModel)
	vectors, dims, err := t.embedAll(ctx, texts)
	if err != nil {
		return nil, err
	}
	t.logger.Info("Loaded dataset with %d samples, %d classes, %d embedding dimensions",
		len(examples), numLabels, dims)

	// Seeded train/validation partition
	rng := rand.New(rand.NewSource(t.cfg.Training.Seed))
	perm := rng.Perm(len(examples))
	trainSize := int(float64(len(examples)) * (1 - validationSplit))
	if trainSize < 1 || trainSize >= len(examples) {
		return nil, fmt.Errorf("not enough examples for a train/validation split: %d", len(examples))
	}
	trainIdx := perm[:trainSize]
	valIdx := perm[trainSize:]

	head := model.NewLinear(dims, numLabels, t.cfg.Training.Seed)
	head.BaseModel = t.cfg.Model.BaseModel
	head.MaxSequenceLength = t.cfg.Model.MaxSequenceLength

	tr := t.cfg.Training
	opt := model.NewAdamW(head, tr.LearningRate, tr.Beta1, tr.Beta2, tr.Epsilon, tr.WeightDecay)

	batchSize := tr.BatchSize
	batchesPerEpoch := (len(trainIdx) + batchSize - 1) / batchSize
	sched := model.WarmupSchedule{
		WarmupSteps: tr.WarmupSteps,
		TotalSteps:  batchesPerEpoch * tr.Epochs,
	}

	history, err := t.openHistory(outputDir)
	if err != nil {
		return nil, err
	}
	defer history.Close()

	artifacts := &bundle.Bundle{
		Model:   head,
		Mapping: mapping,
		Tokenizer: bundle.TokenizerInfo{
			Encoding:          t.truncator.Name(),
			MaxSequenceLength: t.cfg.Model.MaxSequenceLength,
		},
	}

	result := &Result{Dims: dims}
	bestF1 := 0.0
	step := 0

	for epoch := 1; epoch <= tr.Epochs; epoch++ {
		t.logger.Info("Starting epoch %d/%d", epoch, tr.Epochs)

		rng.Shuffle(len(trainIdx), func(i, j int) {
			trainIdx[i], trainIdx[j] = trainIdx[j], trainIdx[i]
		})

		bar := t.newBar(fmt.Sprintf("Epoch %d: ", epoch), batchesPerEpoch)

		var totalLoss, lastLR float64
		for start := 0; start < len(trainIdx); start += batchSize {
			if err := ctx.Err(); err != nil {
				bar.abandon()
				return nil, err
			}

			end := start + batchSize
			if end > len(trainIdx) {
				end = len(trainIdx)
			}

			xs := make([][]float64, 0, end-start)
			ys := make([]int, 0, end-start)
			for _, idx := range trainIdx[start:end] {
				xs = append(xs, vectors[idx])
				ys = append(ys, truth[idx])
			}

			loss, grads, err := head.LossAndGrad(xs, ys)
			if err != nil {
				bar.abandon()
				return nil, err
			}

			factor := sched.Factor(step)
			opt.Step(head, grads, factor)
			lastLR = tr.LearningRate * factor
			step++
			totalLoss += loss
			bar.increment()
		}
		bar.wait()

		trainLoss := totalLoss / float64(batchesPerEpoch)
		t.logger.Info("Epoch %d - Training loss: %.4f", epoch, trainLoss)

		accuracy, f1, err := t.evaluate(head, vectors, truth, valIdx)
		if err != nil {
			return nil, err
		}
		t.logger.Info("Epoch %d - Validation accuracy: %.4f, F1: %.4f", epoch, accuracy, f1)

		metrics := EpochMetrics{
			Epoch:        epoch,
			TrainLoss:    trainLoss,
			ValAccuracy:  accuracy,
			ValF1:        f1,
			LearningRate: lastLR,
		}
		result.Epochs = append(result.Epochs, metrics)
		if err := writeHistory(history, metrics); err != nil {
			return nil, err
		}

		if f1 > bestF1 {
			bestF1 = f1
			bestDir := filepath.Join(outputDir, BestModelDir)
			if err := bundle.Save(bestDir, artifacts); err != nil {
				return nil, err
			}
			t.logger.Info("Model saved to %s", bestDir)
		}
	}

	finalDir := filepath.Join(outputDir, FinalModelDir)
	if err := bundle.Save(finalDir, artifacts); err != nil {
		return nil, err
	}
	t.logger.Info("Model saved to %s", finalDir)
	t.logger.Info("Training completed. Best validation F1: %.4f", bestF1)

	result.BestF1 = bestF1
	return result, nil
}

// embedAll fetches embeddings for all texts in batches and converts them to
// float64 vectors for the head.
func (t *Trainer) embedAll(ctx context.Context, texts []string) ([][]float64, int, error) {
	bar := t.newBar("Embedding: ", len(texts))

	all := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += embedBatchSize {
		if err := ctx.Err(); err != nil {
			bar.abandon()
			return nil, 0, err
		}

		end := start + embedBatchSize
		if end > len(texts) {
			end = len(texts)
		}

		chunk, err := t.client.Embed(ctx, t.cfg.Model.BaseModel, texts[start:end])
		if err != nil {
			bar.abandon()
			return nil, 0, fmt.Errorf("embedding batch %d-%d failed: %w", start, end, err)
		}
		if len(chunk) != end-start {
			bar.abandon()
			return nil, 0, fmt.Errorf("expected %d embeddings, got %d", end-start, len(chunk))
		}

		all = append(all, chunk...)
		bar.incrBy(end - start)
	}
	bar.wait()

	dims, err := embedding.CheckDimensions(all)
	if err != nil {
		return nil, 0, err
	}

	vectors := make([][]float64, len(all))
	for i, v := range all {
		row := make([]float64, dims)
		for d, x := range v {
			row[d] = float64(x)
		}
		vectors[i] = row
	}

	return vectors, dims, nil
}

func (t *Trainer) evaluate(head *model.Linear, vectors [][]float64, truth []int, valIdx []int) (float64, float64, error) {
	preds := make([]int, len(valIdx))
	labelsOut := make([]int, len(valIdx))

	for i, idx := range valIdx {
		logits, err := head.Forward(vectors[idx])
		if err != nil {
			return 0, 0, err
		}
		preds[i] = model.Argmax(logits)
		labelsOut[i] = truth[idx]
	}

	return Accuracy(preds, labelsOut), WeightedF1(preds, labelsOut, head.Classes), nil
}

func (t *Trainer) openHistory(outputDir string) (*os.File, error) {
	path := filepath.Join(outputDir, HistoryFile)
	if err := utils.EnsureDir(filepath.Dir(path)); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open history file: %w", err)
	}
	return file, nil
}

func writeHistory(file *os.File, metrics EpochMetrics) error {
	line, err := json.Marshal(metrics)
	if err != nil {
		return fmt.Errorf("failed to marshal epoch metrics: %w", err)
	}

	if _, err := file.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("failed to write epoch metrics: %w", err)
	}
	return nil
}

// progressBar wraps an optional mpb bar so Quiet mode can skip rendering
type progressBar struct {
	progress *mpb.Progress
	bar      *mpb.Bar
}

func (t *Trainer) newBar(name string, total int) progressBar {
	if t.Quiet {
		return progressBar{}
	}

	p := mpb.New(mpb.WithWidth(64))
	bar := p.AddBar(int64(total),
		mpb.PrependDecorators(
			decor.Name(name),
			decor.CountersNoUnit("%d / %d"),
		),
		mpb.AppendDecorators(
			decor.Percentage(),
		),
	)
	return progressBar{progress: p, bar: bar}
}

func (b progressBar) increment() {
	if b.bar != nil {
		b.bar.Increment()
	}
}

func (b progressBar) incrBy(n int) {
	if b.bar != nil {
		b.bar.IncrBy(n)
	}
}

func (b progressBar) wait() {
	if b.progress != nil {
		b.progress.Wait()
	}
}

func (b progressBar) abandon() {
	if b.bar != nil {
		b.bar.Abort(true)
		b.progress.Wait()
	}
}

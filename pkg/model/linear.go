// Package model implements the trainable classification head: a linear layer
// with softmax over externally produced embedding vectors, an AdamW optimizer,
// and a linear-warmup learning-rate schedule. The embedding model itself is
// never part of this package.
package model

import (
	"fmt"
	"math"
	"math/rand"
)

// Linear is a dense layer mapping embedding vectors to class logits. The
// base-model fields record which external embedding model the weights were
// trained against; inference must use the same one.
type Linear struct {
	BaseModel         string      `json:"base_model"`
	MaxSequenceLength int         `json:"max_sequence_length"`
	Dims              int         `json:"dims"`
	Classes           int         `json:"classes"`
	W                 [][]float64 `json:"weights"` // Classes x Dims
	B                 []float64   `json:"bias"`    // Classes
}

// NewLinear creates a head with Xavier-style initialization from the given seed
func NewLinear(dims, classes int, seed int64) *Linear {
	rng := rand.New(rand.NewSource(seed))
	scale := math.Sqrt(6.0 / float64(dims+classes))

	w := make([][]float64, classes)
	for c := range w {
		row := make([]float64, dims)
		for d := range row {
			row[d] = (rng.Float64()*2 - 1) * scale
		}
		w[c] = row
	}

	return &Linear{
		Dims:    dims,
		Classes: classes,
		W:       w,
		B:       make([]float64, classes),
	}
}

// Forward computes the class logits for one embedding vector
func (m *Linear) Forward(x []float64) ([]float64, error) {
	if len(x) != m.Dims {
		return nil, fmt.Errorf("input has %d dimensions, model expects %d", len(x), m.Dims)
	}

	logits := make([]float64, m.Classes)
	for c := 0; c < m.Classes; c++ {
		sum := m.B[c]
		row := m.W[c]
		for d, v := range x {
			sum += row[d] * v
		}
		logits[c] = sum
	}

	return logits, nil
}

// Validate checks the structural integrity of loaded weights
func (m *Linear) Validate() error {
	if m.Dims < 1 || m.Classes < 1 {
		return fmt.Errorf("invalid model shape: %d dims, %d classes", m.Dims, m.Classes)
	}
	if len(m.W) != m.Classes || len(m.B) != m.Classes {
		return fmt.Errorf("weight shape mismatch: %d weight rows, %d biases, %d classes",
			len(m.W), len(m.B), m.Classes)
	}
	for c, row := range m.W {
		if len(row) != m.Dims {
			return fmt.Errorf("weight row %d has %d columns, expected %d", c, len(row), m.Dims)
		}
	}
	return nil
}

// Softmax converts logits to a probability distribution. Stable under large
// logits via max subtraction.
func Softmax(logits []float64) []float64 {
	if len(logits) == 0 {
		return nil
	}

	max := logits[0]
	for _, v := range logits[1:] {
		if v > max {
			max = v
		}
	}

	probs := make([]float64, len(logits))
	var sum float64
	for i, v := range logits {
		probs[i] = math.Exp(v - max)
		sum += probs[i]
	}
	for i := range probs {
		probs[i] /= sum
	}

	return probs
}

// Argmax returns the index of the largest value
func Argmax(values []float64) int {
	best := 0
	for i, v := range values {
		if v > values[best] {
			best = i
		}
	}
	return best
}

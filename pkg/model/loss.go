package model

import (
	"fmt"
	"math"
)

// BatchGradients holds parameter gradients averaged over one mini-batch
type BatchGradients struct {
	W [][]float64
	B []float64
}

// LossAndGrad computes the mean cross-entropy loss over a mini-batch and the
// gradients with respect to the layer parameters. The softmax and
// cross-entropy gradients collapse to (p - onehot(y)) per sample.
func (m *Linear) LossAndGrad(xs [][]float64, ys []int) (float64, *BatchGradients, error) {
	if len(xs) == 0 {
		return 0, nil, fmt.Errorf("empty batch")
	}
	if len(xs) != len(ys) {
		return 0, nil, fmt.Errorf("batch size mismatch: %d inputs, %d labels", len(xs), len(ys))
	}

	grads := &BatchGradients{
		W: make([][]float64, m.Classes),
		B: make([]float64, m.Classes),
	}
	for c := range grads.W {
		grads.W[c] = make([]float64, m.Dims)
	}

	var totalLoss float64
	invN := 1.0 / float64(len(xs))

	for i, x := range xs {
		y := ys[i]
		if y < 0 || y >= m.Classes {
			return 0, nil, fmt.Errorf("label %d out of range [0, %d)", y, m.Classes)
		}

		logits, err := m.Forward(x)
		if err != nil {
			return 0, nil, err
		}
		probs := Softmax(logits)

		// Clamp away from zero so the log never produces Inf
		p := probs[y]
		if p < 1e-12 {
			p = 1e-12
		}
		totalLoss -= math.Log(p)

		for c := 0; c < m.Classes; c++ {
			delta := probs[c]
			if c == y {
				delta -= 1
			}
			delta *= invN

			grads.B[c] += delta
			row := grads.W[c]
			for d, v := range x {
				row[d] += delta * v
			}
		}
	}

	return totalLoss * invN, grads, nil
}

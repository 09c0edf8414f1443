package model

import "math"

// AdamW is the Adam optimizer with decoupled weight decay. Weight decay is
// applied to the weights directly, not through the gradient moments, and the
// bias is never decayed.
type AdamW struct {
	LearningRate float64
	Beta1        float64
	Beta2        float64
	Epsilon      float64
	WeightDecay  float64

	step int
	mW   [][]float64
	vW   [][]float64
	mB   []float64
	vB   []float64
}

// NewAdamW creates an optimizer with moment buffers sized for the model
func NewAdamW(m *Linear, learningRate, beta1, beta2, epsilon, weightDecay float64) *AdamW {
	mW := make([][]float64, m.Classes)
	vW := make([][]float64, m.Classes)
	for c := 0; c < m.Classes; c++ {
		mW[c] = make([]float64, m.Dims)
		vW[c] = make([]float64, m.Dims)
	}

	return &AdamW{
		LearningRate: learningRate,
		Beta1:        beta1,
		Beta2:        beta2,
		Epsilon:      epsilon,
		WeightDecay:  weightDecay,
		mW:           mW,
		vW:           vW,
		mB:           make([]float64, m.Classes),
		vB:           make([]float64, m.Classes),
	}
}

// Step applies one parameter update. lrScale multiplies the base learning
// rate and is supplied by the scheduler.
func (o *AdamW) Step(m *Linear, grads *BatchGradients, lrScale float64) {
	o.step++
	lr := o.LearningRate * lrScale
	bc1 := 1 - math.Pow(o.Beta1, float64(o.step))
	bc2 := 1 - math.Pow(o.Beta2, float64(o.step))

	for c := 0; c < m.Classes; c++ {
		wRow, gRow := m.W[c], grads.W[c]
		mRow, vRow := o.mW[c], o.vW[c]
		for d := 0; d < m.Dims; d++ {
			g := gRow[d]
			mRow[d] = o.Beta1*mRow[d] + (1-o.Beta1)*g
			vRow[d] = o.Beta2*vRow[d] + (1-o.Beta2)*g*g

			mHat := mRow[d] / bc1
			vHat := vRow[d] / bc2

			wRow[d] -= lr * (mHat/(math.Sqrt(vHat)+o.Epsilon) + o.WeightDecay*wRow[d])
		}

		g := grads.B[c]
		o.mB[c] = o.Beta1*o.mB[c] + (1-o.Beta1)*g
		o.vB[c] = o.Beta2*o.vB[c] + (1-o.Beta2)*g*g

		mHat := o.mB[c] / bc1
		vHat := o.vB[c] / bc2

		m.B[c] -= lr * mHat / (math.Sqrt(vHat) + o.Epsilon)
	}
}

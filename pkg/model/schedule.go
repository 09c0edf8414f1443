package model

// WarmupSchedule scales the learning rate linearly from 0 to 1 over
// WarmupSteps, then decays it linearly back to 0 at TotalSteps.
type WarmupSchedule struct {
	WarmupSteps int
	TotalSteps  int
}

// Factor returns the learning-rate multiplier for a zero-based step index
func (s WarmupSchedule) Factor(step int) float64 {
	if step < s.WarmupSteps {
		return float64(step) / float64(max(1, s.WarmupSteps))
	}

	remaining := float64(s.TotalSteps - step)
	denom := float64(max(1, s.TotalSteps-s.WarmupSteps))
	if remaining < 0 {
		return 0
	}
	return remaining / denom
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

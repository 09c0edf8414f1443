package training

// Accuracy is the fraction of predictions matching the true labels
func Accuracy(preds, truth []int) float64 {
	if len(truth) == 0 {
		return 0
	}

	var correct int
	for i, p := range preds {
		if p == truth[i] {
			correct++
		}
	}
	return float64(correct) / float64(len(truth))
}

// WeightedF1 computes the F1 score per class and averages the scores weighted
// by each class's support. Classes with zero support contribute nothing;
// classes where precision and recall are both zero score 0.
func WeightedF1(preds, truth []int, classes int) float64 {
	if len(truth) == 0 || classes < 1 {
		return 0
	}

	tp := make([]float64, classes)
	fp := make([]float64, classes)
	fn := make([]float64, classes)
	support := make([]float64, classes)

	for i, t := range truth {
		p := preds[i]
		support[t]++
		if p == t {
			tp[t]++
		} else {
			fp[p]++
			fn[t]++
		}
	}

	var weighted float64
	for c := 0; c < classes; c++ {
		if support[c] == 0 {
			continue
		}

		var precision, recall float64
		if tp[c]+fp[c] > 0 {
			precision = tp[c] / (tp[c] + fp[c])
		}
		if tp[c]+fn[c] > 0 {
			recall = tp[c] / (tp[c] + fn[c])
		}

		var f1 float64
		if precision+recall > 0 {
			f1 = 2 * precision * recall / (precision + recall)
		}

		weighted += f1 * support[c]
	}

	return weighted / float64(len(truth))
}

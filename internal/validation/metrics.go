package validation

import (
	"errors"
	"math"
	"sort"
)

// LabelMetrics is the per-label precision/recall/F1 block plus support
// (occurrences of the label in the ground truth).
type LabelMetrics struct {
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1"`
	Support   int     `json:"support"`
}

// classificationMetrics computes accuracy, support-weighted averages and the
// per-label breakdown over the union of true and predicted labels. Zero
// denominators yield 0, never NaN.
func classificationMetrics(yTrue, yPred []string) (accuracy float64, weighted LabelMetrics, perLabel map[string]LabelMetrics, err error) {
	if len(yTrue) == 0 || len(yTrue) != len(yPred) {
		return 0, LabelMetrics{}, nil, errors.New("empty or mismatched label set")
	}

	labelSet := make(map[string]struct{})
	for _, l := range yTrue {
		labelSet[l] = struct{}{}
	}
	for _, l := range yPred {
		labelSet[l] = struct{}{}
	}
	labels := make([]string, 0, len(labelSet))
	for l := range labelSet {
		labels = append(labels, l)
	}
	sort.Strings(labels)

	matches := 0
	for i := range yTrue {
		if yTrue[i] == yPred[i] {
			matches++
		}
	}
	accuracy = float64(matches) / float64(len(yTrue))

	perLabel = make(map[string]LabelMetrics, len(labels))
	for _, label := range labels {
		var tp, fp, fn int
		for i := range yTrue {
			switch {
			case yPred[i] == label && yTrue[i] == label:
				tp++
			case yPred[i] == label:
				fp++
			case yTrue[i] == label:
				fn++
			}
		}

		m := LabelMetrics{Support: tp + fn}
		if tp+fp > 0 {
			m.Precision = float64(tp) / float64(tp+fp)
		}
		if tp+fn > 0 {
			m.Recall = float64(tp) / float64(tp+fn)
		}
		if m.Precision+m.Recall > 0 {
			m.F1 = 2 * m.Precision * m.Recall / (m.Precision + m.Recall)
		}
		perLabel[label] = m

		weighted.Precision += m.Precision * float64(m.Support)
		weighted.Recall += m.Recall * float64(m.Support)
		weighted.F1 += m.F1 * float64(m.Support)
	}

	total := float64(len(yTrue))
	weighted.Precision /= total
	weighted.Recall /= total
	weighted.F1 /= total
	weighted.Support = len(yTrue)

	return accuracy, weighted, perLabel, nil
}

func roundTwo(v float64) float64 {
	return math.Round(v*100) / 100
}

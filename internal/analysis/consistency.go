package analysis

import (
	"fmt"
	"math"

	"github.com/review-insight/backend/internal/insight"
)

type rowKey struct {
	rowID        int
	insightIndex int
}

// CompareRuns checks dual-run repeatability. Rows are aligned by
// (row id, insight index), so a run that produced a different number of
// insights for one review cannot misalign every later comparison. Rows of
// the first run without a counterpart in the second are annotated but not
// scored. The returned slice is the first run annotated with a verification
// status per row; the report's score is verified / compared * 100, 0 when
// nothing could be compared.
func CompareRuns(run1, run2 []insight.AnalyzedRow) ([]insight.AnalyzedRow, insight.ConsistencyReport) {
	byKey := make(map[rowKey]insight.AnalyzedRow, len(run2))
	for _, row := range run2 {
		key := rowKey{row.RowID, row.InsightIndex}
		if _, seen := byKey[key]; !seen {
			byKey[key] = row
		}
	}

	annotated := make([]insight.AnalyzedRow, len(run1))
	copy(annotated, run1)

	compared := 0
	consistent := 0
	for i := range annotated {
		other, ok := byKey[rowKey{annotated[i].RowID, annotated[i].InsightIndex}]
		if !ok {
			annotated[i].VerificationStatus = "Unmatched (absent in run 2)"
			continue
		}
		compared++
		if annotated[i].Aspect == other.Aspect && annotated[i].Sentiment == other.Sentiment {
			consistent++
			annotated[i].VerificationStatus = insight.VerificationVerified
		} else {
			annotated[i].VerificationStatus = fmt.Sprintf("Mismatch (run 2: %s/%s)", other.Aspect, other.Sentiment)
		}
	}

	score := 0.0
	if compared > 0 {
		score = roundTwo(float64(consistent) / float64(compared) * 100)
	}

	return annotated, insight.ConsistencyReport{
		Total:      compared,
		Consistent: consistent,
		Score:      score,
	}
}

func roundTwo(v float64) float64 {
	return math.Round(v*100) / 100
}

package analysis

import (
	"fmt"
	"sort"
	"strings"

	"github.com/review-insight/backend/internal/insight"
)

// Stats is the aspect x sentiment crosstab over analyzed rows.
type Stats struct {
	Aspects    []string                  `json:"aspects"`
	Sentiments []string                  `json:"sentiments"`
	Counts     map[string]map[string]int `json:"counts"`
}

// ComputeStats tallies one count per analyzed row. Labels are sorted so the
// rendering is stable across runs.
func ComputeStats(rows []insight.AnalyzedRow) Stats {
	counts := make(map[string]map[string]int)
	sentimentSet := make(map[string]struct{})

	for _, row := range rows {
		aspect := string(row.Aspect)
		sentiment := string(row.Sentiment)
		if counts[aspect] == nil {
			counts[aspect] = make(map[string]int)
		}
		counts[aspect][sentiment]++
		sentimentSet[sentiment] = struct{}{}
	}

	aspects := make([]string, 0, len(counts))
	for aspect := range counts {
		aspects = append(aspects, aspect)
	}
	sort.Strings(aspects)

	sentiments := make([]string, 0, len(sentimentSet))
	for sentiment := range sentimentSet {
		sentiments = append(sentiments, sentiment)
	}
	sort.Strings(sentiments)

	return Stats{Aspects: aspects, Sentiments: sentiments, Counts: counts}
}

// Render produces the plain-text table fed into the summary prompt.
func (s Stats) Render() string {
	if len(s.Aspects) == 0 {
		return "no insights extracted"
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("%-20s", "aspect"))
	for _, sentiment := range s.Sentiments {
		b.WriteString(fmt.Sprintf("%10s", sentiment))
	}
	b.WriteString("\n")

	for _, aspect := range s.Aspects {
		b.WriteString(fmt.Sprintf("%-20s", aspect))
		for _, sentiment := range s.Sentiments {
			b.WriteString(fmt.Sprintf("%10d", s.Counts[aspect][sentiment]))
		}
		b.WriteString("\n")
	}
	return b.String()
}

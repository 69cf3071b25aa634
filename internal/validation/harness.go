package validation

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/jonreiter/govader"
	"go.uber.org/zap"

	"github.com/review-insight/backend/internal/insight"
	"github.com/review-insight/backend/internal/llm"
	"github.com/review-insight/backend/internal/metrics"
	"github.com/review-insight/backend/pkg/logger"
)

// Metrics is the full validation report. A metrics computation failure is
// surfaced in Error instead of being raised to the web layer.
type Metrics struct {
	SampleCount      int                     `json:"sample_count"`
	Accuracy         float64                 `json:"accuracy"`
	Precision        float64                 `json:"precision"`
	Recall           float64                 `json:"recall"`
	F1               float64                 `json:"f1"`
	AspectBreakdown  map[string]LabelMetrics `json:"aspect_breakdown,omitempty"`
	EdgeCaseStats    []TagAccuracy           `json:"edge_case_stats,omitempty"`
	Details          []SampleDetail          `json:"details,omitempty"`
	Consistency      *float64                `json:"consistency"`
	LexiconAgreement float64                 `json:"lexicon_agreement"`
	Error            string                  `json:"error,omitempty"`
}

// TagAccuracy is accuracy over all samples carrying one complexity tag.
type TagAccuracy struct {
	Type     string  `json:"type"`
	Total    int     `json:"total"`
	Accuracy float64 `json:"accuracy"`
}

// SampleDetail is the per-sample comparison line shown on the validation page.
type SampleDetail struct {
	Text   string `json:"text"`
	Tags   string `json:"tags"`
	True   string `json:"true"`
	Pred   string `json:"pred"`
	Status string `json:"status"`
}

// LoadGoldSet reads the externally curated gold standard file.
func LoadGoldSet(path string) ([]insight.GoldStandardSample, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read gold standard: %w", err)
	}
	var samples []insight.GoldStandardSample
	if err := json.Unmarshal(data, &samples); err != nil {
		return nil, fmt.Errorf("parse gold standard: %w", err)
	}
	return samples, nil
}

// Harness scores the batch analyzer against the gold standard.
type Harness struct {
	analyzer  llm.Analyzer
	batchSize int
	lexicon   *govader.SentimentIntensityAnalyzer
}

func NewHarness(analyzer llm.Analyzer, batchSize int) *Harness {
	if batchSize <= 0 {
		batchSize = 4
	}
	return &Harness{
		analyzer:  analyzer,
		batchSize: batchSize,
		lexicon:   govader.NewSentimentIntensityAnalyzer(),
	}
}

// Validate runs the gold set through the analyzer (twice in dual mode) and
// computes the full metrics report. Samples get synthetic ids by position, so
// dual-run tuples align by construction. The first insight per id is taken as
// the prediction; a missing result defaults to other/neutral.
func (h *Harness) Validate(ctx context.Context, gold []insight.GoldStandardSample, dualMode bool) Metrics {
	logger.Info("starting gold standard validation",
		zap.Int("samples", len(gold)),
		zap.Int("batch_size", h.batchSize),
		zap.Bool("dual_mode", dualMode),
	)

	batch := make([]insight.BatchRequestItem, len(gold))
	for i, sample := range gold {
		batch[i] = insight.BatchRequestItem{ID: i, Text: sample.Text}
	}

	pass1 := h.predictions(ctx, batch)

	var consistency *float64
	if dualMode {
		pass2 := h.predictions(ctx, batch)
		score := consistencyBetween(pass1, pass2, len(gold))
		consistency = &score
	}

	yTrue := make([]string, len(gold))
	yPred := make([]string, len(gold))
	details := make([]SampleDetail, 0, len(gold))
	tagOrder := []string{}
	tagStats := map[string]*TagAccuracy{}
	tagCorrect := map[string]int{}
	lexiconAgreed := 0

	for i, sample := range gold {
		trueAspect := orDefault(sample.LabelAspect, string(insight.AspectOther))
		trueSentiment := orDefault(sample.LabelSentiment, string(insight.SentimentNeutral))
		tags := DetectComplexityTags(sample.Text)

		predAspect := string(insight.AspectOther)
		predSentiment := string(insight.SentimentNeutral)
		if preds := pass1[i]; len(preds) > 0 {
			predAspect = string(preds[0].Aspect)
			predSentiment = string(preds[0].Sentiment)
		}

		yTrue[i] = trueAspect
		yPred[i] = predAspect

		correct := trueAspect == predAspect && trueSentiment == predSentiment
		for _, tag := range tags {
			if _, seen := tagStats[tag]; !seen {
				tagStats[tag] = &TagAccuracy{Type: tag}
				tagOrder = append(tagOrder, tag)
			}
			tagStats[tag].Total++
			if correct {
				tagCorrect[tag]++
			}
		}

		if predSentiment == h.lexiconLabel(sample.Text) {
			lexiconAgreed++
		}

		status := "Match"
		if !correct {
			status = "Mismatch"
		}
		details = append(details, SampleDetail{
			Text:   truncate(sample.Text, 50),
			Tags:   strings.Join(tags, ", "),
			True:   trueAspect + " | " + trueSentiment,
			Pred:   predAspect + " | " + predSentiment,
			Status: status,
		})
	}

	accuracy, weighted, perLabel, err := classificationMetrics(yTrue, yPred)
	if err != nil {
		logger.Error("metrics computation failed", zap.Error(err))
		return Metrics{SampleCount: len(gold), Consistency: consistency, Error: err.Error()}
	}

	edgeStats := make([]TagAccuracy, 0, len(tagOrder))
	for _, tag := range tagOrder {
		stat := *tagStats[tag]
		stat.Accuracy = roundTwo(float64(tagCorrect[tag]) / float64(stat.Total) * 100)
		edgeStats = append(edgeStats, stat)
	}

	lexiconAgreement := 0.0
	if len(gold) > 0 {
		lexiconAgreement = roundTwo(float64(lexiconAgreed) / float64(len(gold)) * 100)
	}

	result := Metrics{
		SampleCount:      len(gold),
		Accuracy:         roundTwo(accuracy * 100),
		Precision:        roundTwo(weighted.Precision * 100),
		Recall:           roundTwo(weighted.Recall * 100),
		F1:               roundTwo(weighted.F1 * 100),
		AspectBreakdown:  perLabel,
		EdgeCaseStats:    edgeStats,
		Details:          details,
		Consistency:      consistency,
		LexiconAgreement: lexiconAgreement,
	}

	metrics.ValidationAccuracy.Set(result.Accuracy)
	logger.Info("validation completed",
		zap.Float64("accuracy", result.Accuracy),
		zap.Float64("f1", result.F1),
	)

	return result
}

// predictions runs the gold batch through the analyzer in fixed-size chunks
// and maps returned ids to their insight lists. Missing ids stay absent.
func (h *Harness) predictions(ctx context.Context, batch []insight.BatchRequestItem) map[int][]insight.ReviewInsight {
	predictions := make(map[int][]insight.ReviewInsight, len(batch))
	for start := 0; start < len(batch); start += h.batchSize {
		end := start + h.batchSize
		if end > len(batch) {
			end = len(batch)
		}
		for _, res := range h.analyzer.AnalyzeBatch(ctx, batch[start:end]) {
			predictions[res.ID] = res.Insights
		}
	}
	return predictions
}

// consistencyBetween compares first-insight (aspect, sentiment) tuples of two
// passes, aligned by synthetic id. A pass that returned nothing for an id
// contributes a "none" tuple, so two empty passes count as consistent.
func consistencyBetween(pass1, pass2 map[int][]insight.ReviewInsight, total int) float64 {
	if total == 0 {
		return 0
	}
	consistent := 0
	for i := 0; i < total; i++ {
		if firstTuple(pass1[i]) == firstTuple(pass2[i]) {
			consistent++
		}
	}
	return roundTwo(float64(consistent) / float64(total) * 100)
}

func firstTuple(insights []insight.ReviewInsight) [2]string {
	if len(insights) == 0 {
		return [2]string{"none", "none"}
	}
	return [2]string{string(insights[0].Aspect), string(insights[0].Sentiment)}
}

// lexiconLabel maps govader's compound score onto the sentiment label space
// as a deterministic cross-check of the LLM's polarity.
func (h *Harness) lexiconLabel(text string) string {
	score := h.lexicon.PolarityScores(text).Compound
	switch {
	case score >= 0.20:
		return string(insight.SentimentPositive)
	case score <= -0.20:
		return string(insight.SentimentNegative)
	default:
		return string(insight.SentimentNeutral)
	}
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

func truncate(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit]) + "..."
}

package insight

import "strings"

// Aspect is the topical category a review comment is about.
type Aspect string

const (
	AspectProductQuality   Aspect = "product_quality"
	AspectUsability        Aspect = "usability"
	AspectDeliveryShipping Aspect = "delivery_shipping"
	AspectPriceValue       Aspect = "price_value"
	AspectService          Aspect = "service"
	AspectOther            Aspect = "other"
)

// Sentiment is the polarity expressed toward an aspect.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
	SentimentMixed    Sentiment = "mixed"
)

var validAspects = map[Aspect]struct{}{
	AspectProductQuality:   {},
	AspectUsability:        {},
	AspectDeliveryShipping: {},
	AspectPriceValue:       {},
	AspectService:          {},
	AspectOther:            {},
}

var validSentiments = map[Sentiment]struct{}{
	SentimentPositive: {},
	SentimentNegative: {},
	SentimentNeutral:  {},
	SentimentMixed:    {},
}

// AspectValues lists every aspect label in schema order.
func AspectValues() []string {
	return []string{
		string(AspectProductQuality),
		string(AspectUsability),
		string(AspectDeliveryShipping),
		string(AspectPriceValue),
		string(AspectService),
		string(AspectOther),
	}
}

// SentimentValues lists every sentiment label in schema order.
func SentimentValues() []string {
	return []string{
		string(SentimentPositive),
		string(SentimentNegative),
		string(SentimentNeutral),
		string(SentimentMixed),
	}
}

// ParseAspect normalizes a raw label. ok is false for anything outside the enum.
func ParseAspect(raw string) (Aspect, bool) {
	a := Aspect(strings.ToLower(strings.TrimSpace(raw)))
	_, ok := validAspects[a]
	return a, ok
}

// ParseSentiment normalizes a raw label. ok is false for anything outside the enum.
func ParseSentiment(raw string) (Sentiment, bool) {
	s := Sentiment(strings.ToLower(strings.TrimSpace(raw)))
	_, ok := validSentiments[s]
	return s, ok
}

// ReviewInsight is one classified finding extracted from a single review.
type ReviewInsight struct {
	Aspect    Aspect    `json:"aspect"`
	Sentiment Sentiment `json:"sentiment"`
	Evidence  string    `json:"evidence"`
	Rationale string    `json:"rationale"`
}

// Valid reports whether both labels are inside their enums.
func (ri ReviewInsight) Valid() bool {
	_, aOK := validAspects[ri.Aspect]
	_, sOK := validSentiments[ri.Sentiment]
	return aOK && sOK
}

// ReviewResult is the complete analysis result for a single review, keyed by
// the caller-assigned id so it can be mapped back to the source row.
type ReviewResult struct {
	ID       int             `json:"id"`
	Insights []ReviewInsight `json:"insights"`
}

// BatchRequestItem is one review sent to the LLM in a batch.
type BatchRequestItem struct {
	ID   int    `json:"id"`
	Text string `json:"text"`
}

// Verification statuses attached to AnalyzedRow by the dual-run comparison.
const (
	VerificationPending  = "Pending"
	VerificationVerified = "Verified"
)

// AnalyzedRow is one row of the final output table: one row per insight, or a
// single placeholder row when a review yielded no insights.
type AnalyzedRow struct {
	RowID              int       `json:"row_id"`
	InsightIndex       int       `json:"insight_index"`
	OriginalText       string    `json:"original_text"`
	Aspect             Aspect    `json:"aspect"`
	Sentiment          Sentiment `json:"sentiment"`
	Evidence           string    `json:"evidence"`
	Rationale          string    `json:"rationale"`
	VerificationStatus string    `json:"verification_status,omitempty"`
}

// PlaceholderRationale marks rows the LLM returned nothing for.
const PlaceholderRationale = "No insight detected (or skipped by LLM)"

// PlaceholderRow is the single output row for a review without insights.
func PlaceholderRow(rowID int, originalText string) AnalyzedRow {
	return AnalyzedRow{
		RowID:        rowID,
		InsightIndex: 0,
		OriginalText: originalText,
		Aspect:       AspectOther,
		Sentiment:    SentimentNeutral,
		Evidence:     "",
		Rationale:    PlaceholderRationale,
	}
}

// GoldStandardSample is one human-annotated ground truth record.
type GoldStandardSample struct {
	Text           string `json:"text"`
	LabelAspect    string `json:"label_aspect"`
	LabelSentiment string `json:"label_sentiment"`
}

// ConsistencyReport summarizes a dual-run comparison.
type ConsistencyReport struct {
	Total      int     `json:"total"`
	Consistent int     `json:"consistent"`
	Score      float64 `json:"score"`
}

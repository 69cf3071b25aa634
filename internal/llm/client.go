package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sashabaranov/go-openai/jsonschema"
	"go.uber.org/zap"

	"github.com/review-insight/backend/internal/insight"
	"github.com/review-insight/backend/internal/metrics"
	"github.com/review-insight/backend/pkg/logger"
)

// Analyzer is the batch-analysis boundary. Implementations must never
// propagate upstream failures: a failed or refused call yields an empty
// result slice and every id in the batch is treated as "no insight".
type Analyzer interface {
	AnalyzeBatch(ctx context.Context, batch []insight.BatchRequestItem) []insight.ReviewResult
}

// Summarizer produces the narrative marketing summary in markdown.
type Summarizer interface {
	GenerateSummary(ctx context.Context, statsText string) (string, error)
}

// Config carries the static LLM settings loaded at process start.
type Config struct {
	APIKey        string
	AnalysisModel string
	SummaryModel  string
	Seed          int
	MaxTokens     int
	TimeoutSec    int
	SystemPrompt  string
}

type Client struct {
	client        *openai.Client
	analysisModel string
	summaryModel  string
	seed          int
	maxTokens     int
	timeout       time.Duration
	systemPrompt  string
}

func NewClient(cfg Config) *Client {
	if cfg.TimeoutSec <= 0 {
		cfg.TimeoutSec = 90
	}

	logger.Info("LLM client initialized",
		zap.String("analysis_model", cfg.AnalysisModel),
		zap.String("summary_model", cfg.SummaryModel),
		zap.Int("seed", cfg.Seed),
	)

	return &Client{
		client:        openai.NewClient(cfg.APIKey),
		analysisModel: cfg.AnalysisModel,
		summaryModel:  cfg.SummaryModel,
		seed:          cfg.Seed,
		maxTokens:     cfg.MaxTokens,
		timeout:       time.Duration(cfg.TimeoutSec) * time.Second,
		systemPrompt:  cfg.SystemPrompt,
	}
}

const batchSchemaName = "review_batch_analysis"

var batchResponseSchema = jsonschema.Definition{
	Type:                 jsonschema.Object,
	AdditionalProperties: false,
	Required:             []string{"reviews"},
	Properties: map[string]jsonschema.Definition{
		"reviews": {
			Type:        jsonschema.Array,
			Description: "The list of analyzed reviews, matched by their IDs.",
			Items: &jsonschema.Definition{
				Type:                 jsonschema.Object,
				AdditionalProperties: false,
				Required:             []string{"id", "insights"},
				Properties: map[string]jsonschema.Definition{
					"id": {
						Type:        jsonschema.Integer,
						Description: "The unique ID provided in the prompt for this specific review.",
					},
					"insights": {
						Type:        jsonschema.Array,
						Description: "Insights found in this review. Can be empty if no relevant info.",
						Items: &jsonschema.Definition{
							Type:                 jsonschema.Object,
							AdditionalProperties: false,
							Required:             []string{"aspect", "sentiment", "evidence", "rationale"},
							Properties: map[string]jsonschema.Definition{
								"aspect":    {Type: jsonschema.String, Enum: insight.AspectValues()},
								"sentiment": {Type: jsonschema.String, Enum: insight.SentimentValues()},
								"evidence":  {Type: jsonschema.String},
								"rationale": {Type: jsonschema.String},
							},
						},
					},
				},
			},
		},
	},
}

// AnalyzeBatch sends one batch of reviews to the LLM and returns the per-id
// results. The response may omit ids that were sent; callers must reconcile.
// Failures of any kind are logged and swallowed into an empty slice.
func (c *Client) AnalyzeBatch(ctx context.Context, batch []insight.BatchRequestItem) []insight.ReviewResult {
	if len(batch) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	seed := c.seed
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.analysisModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: c.systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: buildBatchPrompt(batch)},
		},
		// go-openai omits a zero temperature from the payload, so send the
		// smallest non-zero value to force deterministic sampling.
		Temperature: math.SmallestNonzeroFloat32,
		Seed:        &seed,
		MaxTokens:   c.maxTokens,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   batchSchemaName,
				Schema: &batchResponseSchema,
				Strict: true,
			},
		},
	})
	if err != nil {
		logger.Error("LLM batch call failed", zap.Error(err), zap.Int("batch_size", len(batch)))
		metrics.LLMRequestsTotal.WithLabelValues("error").Inc()
		return []insight.ReviewResult{}
	}

	metrics.LLMTokensUsed.WithLabelValues(c.analysisModel, "prompt").Add(float64(resp.Usage.PromptTokens))
	metrics.LLMTokensUsed.WithLabelValues(c.analysisModel, "completion").Add(float64(resp.Usage.CompletionTokens))

	if len(resp.Choices) == 0 {
		logger.Error("LLM batch call returned no choices", zap.Int("batch_size", len(batch)))
		metrics.LLMRequestsTotal.WithLabelValues("error").Inc()
		return []insight.ReviewResult{}
	}

	message := resp.Choices[0].Message
	if strings.TrimSpace(message.Refusal) != "" {
		logger.Warn("LLM refused batch", zap.String("refusal", message.Refusal))
		metrics.LLMRequestsTotal.WithLabelValues("refusal").Inc()
		return []insight.ReviewResult{}
	}

	results, err := parseBatchContent(message.Content)
	if err != nil {
		logger.Error("LLM batch response unparseable", zap.Error(err))
		metrics.LLMRequestsTotal.WithLabelValues("error").Inc()
		return []insight.ReviewResult{}
	}

	metrics.LLMRequestsTotal.WithLabelValues("ok").Inc()
	logger.Debug("LLM batch analyzed",
		zap.Int("sent", len(batch)),
		zap.Int("returned", len(results)),
	)

	return results
}

// buildBatchPrompt wraps every review in explicit start/end delimiters
// embedding its id, which helps the model keep reviews isolated.
func buildBatchPrompt(batch []insight.BatchRequestItem) string {
	var b strings.Builder
	b.WriteString("Here is the batch of reviews to analyze. Remember to treat each one independently:\n")
	for _, item := range batch {
		fmt.Fprintf(&b, "\n<<< START REVIEW ID: %d >>>\n", item.ID)
		b.WriteString(item.Text)
		fmt.Fprintf(&b, "\n<<< END REVIEW ID: %d >>>\n", item.ID)
		b.WriteString(strings.Repeat("-", 20))
	}
	return b.String()
}

type batchResponse struct {
	Reviews []rawReviewResult `json:"reviews"`
}

type rawReviewResult struct {
	ID       int          `json:"id"`
	Insights []rawInsight `json:"insights"`
}

type rawInsight struct {
	Aspect    string `json:"aspect"`
	Sentiment string `json:"sentiment"`
	Evidence  string `json:"evidence"`
	Rationale string `json:"rationale"`
}

// parseBatchContent validates the structured response at the boundary. A
// single malformed insight is dropped on its own; the rest of the batch
// survives. An id whose insights all fail validation degrades to an empty
// insight list, which callers turn into the placeholder row.
func parseBatchContent(content string) ([]insight.ReviewResult, error) {
	var parsed batchResponse
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		return nil, fmt.Errorf("decode batch response: %w", err)
	}

	results := make([]insight.ReviewResult, 0, len(parsed.Reviews))
	for _, raw := range parsed.Reviews {
		result := insight.ReviewResult{ID: raw.ID, Insights: []insight.ReviewInsight{}}
		for _, ri := range raw.Insights {
			aspect, aOK := insight.ParseAspect(ri.Aspect)
			sentiment, sOK := insight.ParseSentiment(ri.Sentiment)
			if !aOK || !sOK {
				logger.Warn("dropping insight with invalid label",
					zap.Int("id", raw.ID),
					zap.String("aspect", ri.Aspect),
					zap.String("sentiment", ri.Sentiment),
				)
				continue
			}
			result.Insights = append(result.Insights, insight.ReviewInsight{
				Aspect:    aspect,
				Sentiment: sentiment,
				Evidence:  ri.Evidence,
				Rationale: ri.Rationale,
			})
		}
		results = append(results, result)
	}
	return results, nil
}

// GenerateSummary asks the summary model for an executive report over the
// aspect/sentiment statistics. The result is markdown; code fences the model
// sometimes wraps around the output are stripped.
func (c *Client) GenerateSummary(ctx context.Context, statsText string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	prompt := fmt.Sprintf(`You are a Strategic Marketing Consultant.
Based on the following analysis of customer reviews (Counts of Sentiment per Aspect):

%s

Please write a concise executive summary in markdown. Structure it as:
1. ### Executive Overview
2. ### Top Pain Points (Risk Areas)
3. ### Strongest Assets (What users love)
4. ### Strategic Recommendations

Keep it professional and actionable. Do NOT wrap the output in code blocks. Just return the raw markdown.`, statsText)

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.summaryModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: 0.7,
		MaxTokens:   c.maxTokens,
	})
	if err != nil {
		metrics.LLMRequestsTotal.WithLabelValues("error").Inc()
		return "", fmt.Errorf("generate summary: %w", err)
	}
	if len(resp.Choices) == 0 {
		metrics.LLMRequestsTotal.WithLabelValues("error").Inc()
		return "", fmt.Errorf("generate summary: no choices returned")
	}

	metrics.LLMRequestsTotal.WithLabelValues("ok").Inc()
	metrics.LLMTokensUsed.WithLabelValues(c.summaryModel, "prompt").Add(float64(resp.Usage.PromptTokens))
	metrics.LLMTokensUsed.WithLabelValues(c.summaryModel, "completion").Add(float64(resp.Usage.CompletionTokens))

	return StripCodeFences(resp.Choices[0].Message.Content), nil
}

// StripCodeFences removes markdown code fences the model occasionally wraps
// its whole answer in despite instructions.
func StripCodeFences(content string) string {
	content = strings.ReplaceAll(content, "```markdown", "")
	content = strings.ReplaceAll(content, "```html", "")
	content = strings.ReplaceAll(content, "```", "")
	return strings.TrimSpace(content)
}

package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	LLM       LLMConfig
	Analysis  AnalysisConfig
	Artifacts ArtifactsConfig
	Logging   LoggingConfig
}

type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  int
	WriteTimeout int
	BodyLimit    int
}

type LLMConfig struct {
	APIKey        string
	AnalysisModel string
	SummaryModel  string
	Seed          int
	MaxTokens     int
	TimeoutSec    int
	SystemPrompt  string
}

type AnalysisConfig struct {
	BatchSize     int
	MinTextLength int
}

type ArtifactsConfig struct {
	DataDir      string
	GoldStandard string
}

type LoggingConfig struct {
	Level      string
	Format     string
	OutputPath string
}

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AddConfigPath("/etc/review-insight")

	viper.SetEnvPrefix("REVIEW_INSIGHT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

func setDefaults() {
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.readTimeout", 120)
	viper.SetDefault("server.writeTimeout", 120)
	viper.SetDefault("server.bodyLimit", 10485760)

	viper.SetDefault("llm.apiKey", "")
	viper.SetDefault("llm.analysisModel", "gpt-4o-mini")
	viper.SetDefault("llm.summaryModel", "gpt-4o-mini")
	viper.SetDefault("llm.seed", 42)
	viper.SetDefault("llm.maxTokens", 4096)
	viper.SetDefault("llm.timeoutSec", 90)
	viper.SetDefault("llm.systemPrompt", defaultSystemPrompt)

	viper.SetDefault("analysis.batchSize", 4)
	viper.SetDefault("analysis.minTextLength", 5)

	viper.SetDefault("artifacts.dataDir", "./data")
	viper.SetDefault("artifacts.goldStandard", "./data/gold_standard.json")

	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "json")
	viper.SetDefault("logging.outputPath", "stdout")
}

const defaultSystemPrompt = `You are an expert Sentiment Analysis AI. You will be provided with a batch of customer reviews.

YOUR MISSION:
Analyze each review independently to identify the primary Aspect, Sentiment, Evidence, and Rationale.

CRITICAL INSTRUCTIONS FOR BATCH CONSISTENCY:
1. **ISOLATION**: Treat every review ID as a separate, unconnected task.
2. **RESET**: Mentally "reset" your emotional baseline to neutral before reading each new review ID.
3. **FORMAT**: Return a JSON list of objects matching the ID provided in the input exactly.

Output strictly in the defined JSON format.`

package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"sjsage522/newsworker/pkg/errors"
)

// Extraction modes
const (
	ModeStructural = "structural"
	ModeSemantic   = "semantic"
)

// Browser modes
const (
	BrowserRod    = "rod"
	BrowserStatic = "static"
)

// AI providers
const (
	ProviderGemini    = "gemini"
	ProviderAnthropic = "anthropic"
)

// Config represents the application configuration
type Config struct {
	// Google Cloud configuration
	ProjectID      string
	DatasetID      string
	TableID        string
	VertexAIRegion string

	// Scraping configuration
	NewsURL          string
	ExtractionMode   string
	BrowserMode      string
	BrowserURL       string
	ContainerTimeout time.Duration
	SelectorsFile    string
	Selectors        Selectors

	// Generative model configuration
	AIProvider      string
	AIModel         string
	AnthropicAPIKey string

	// Memcache configuration
	MemcacheAddr string
	Cooldown     time.Duration

	// Redis configuration
	RedisAddr            string
	RedisDB              int
	RedisStream          string
	RedisStreamCount     int
	RedisStreamMaxLength int

	// Worker configuration
	RunInterval time.Duration

	// Environment
	Environment string
}

// LoadConfig loads the configuration from environment variables with defaults
func LoadConfig() *Config {
	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	streamCount, _ := strconv.Atoi(getEnv("REDIS_STREAM_COUNT", "1"))
	streamMaxLength, _ := strconv.Atoi(getEnv("REDIS_STREAM_MAX_LENGTH", "1000"))
	containerTimeout, _ := strconv.Atoi(getEnv("CONTAINER_TIMEOUT_SECONDS", "15"))
	cooldown, _ := strconv.Atoi(getEnv("COOLDOWN_SECONDS", "600"))
	runInterval, _ := strconv.Atoi(getEnv("RUN_INTERVAL_SECONDS", "0"))

	return &Config{
		ProjectID:            getEnv("GCP_PROJECT_ID", ""),
		DatasetID:            getEnv("BQ_DATASET_ID", ""),
		TableID:              getEnv("BQ_TABLE_ID", ""),
		VertexAIRegion:       getEnv("VERTEX_AI_REGION", ""),
		NewsURL:              getEnv("NEWS_URL", "https://www.yogonet.com/international/"),
		ExtractionMode:       getEnv("EXTRACTION_MODE", ModeStructural),
		BrowserMode:          getEnv("BROWSER_MODE", BrowserRod),
		BrowserURL:           getEnv("BROWSER_URL", ""),
		ContainerTimeout:     time.Duration(containerTimeout) * time.Second,
		SelectorsFile:        getEnv("SELECTORS_FILE", ""),
		Selectors:            DefaultSelectors(),
		AIProvider:           getEnv("AI_PROVIDER", ProviderGemini),
		AIModel:              getEnv("AI_MODEL", ""),
		AnthropicAPIKey:      getEnv("ANTHROPIC_API_KEY", ""),
		MemcacheAddr:         getEnv("MEMCACHE_ADDR", ""),
		Cooldown:             time.Duration(cooldown) * time.Second,
		RedisAddr:            getEnv("REDIS_ADDR", ""),
		RedisDB:              redisDB,
		RedisStream:          getEnv("REDIS_STREAM", "news"),
		RedisStreamCount:     streamCount,
		RedisStreamMaxLength: streamMaxLength,
		RunInterval:          time.Duration(runInterval) * time.Second,
		Environment:          getEnv("NEWSWORKER_ENVIRONMENT", "development"),
	}
}

// Validate checks that the enumerated settings are known and the numeric ones
// are usable. Missing warehouse or model credentials are not checked here;
// those steps report them when they run.
func (c *Config) Validate() error {
	switch c.ExtractionMode {
	case ModeStructural, ModeSemantic:
	default:
		return errors.NewConfiguration(fmt.Sprintf("unknown EXTRACTION_MODE %q", c.ExtractionMode), nil)
	}

	switch c.BrowserMode {
	case BrowserRod, BrowserStatic:
	default:
		return errors.NewConfiguration(fmt.Sprintf("unknown BROWSER_MODE %q", c.BrowserMode), nil)
	}

	switch c.AIProvider {
	case ProviderGemini, ProviderAnthropic:
	default:
		return errors.NewConfiguration(fmt.Sprintf("unknown AI_PROVIDER %q", c.AIProvider), nil)
	}

	if c.ContainerTimeout <= 0 {
		return errors.NewConfiguration("CONTAINER_TIMEOUT_SECONDS must be positive", nil)
	}

	if c.RedisAddr != "" && c.RedisStreamCount <= 0 {
		return errors.NewConfiguration("REDIS_STREAM_COUNT must be positive", nil)
	}

	return nil
}

// MissingWarehouseSettings names the unset keys the load step needs
func (c *Config) MissingWarehouseSettings() []string {
	var missing []string
	if c.ProjectID == "" {
		missing = append(missing, "GCP_PROJECT_ID")
	}
	if c.DatasetID == "" {
		missing = append(missing, "BQ_DATASET_ID")
	}
	if c.TableID == "" {
		missing = append(missing, "BQ_TABLE_ID")
	}
	return missing
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the infohub-agent configuration.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Logging  LoggingConfig  `yaml:"logging"`
	Auth     AuthConfig     `yaml:"auth"`
	InfoHub  InfoHubConfig  `yaml:"infohub"`
	Groq     GroqConfig     `yaml:"groq"`
	Pipeline PipelineConfig `yaml:"pipeline"`
	Cache    CacheConfig    `yaml:"cache"`
	Query    QueryConfig    `yaml:"query"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// InfoHubConfig holds InfoHub search API settings.
type InfoHubConfig struct {
	BaseURL    string `yaml:"base_url"`
	Language   string `yaml:"language"`
	TimeoutSec int    `yaml:"timeout_sec"`
	SearchTopK int    `yaml:"search_top_k"`
}

// GroqConfig holds LLM provider settings. Groq exposes an OpenAI-compatible API.
type GroqConfig struct {
	APIKey     string `yaml:"api_key"`
	BaseURL    string `yaml:"base_url"`
	Model      string `yaml:"model"`
	TimeoutSec int    `yaml:"timeout_sec"`
	MaxRetries int    `yaml:"max_retries"` // per failure class (413 and 429 tracked independently)
}

// PipelineConfig holds ranking and context budget settings.
type PipelineConfig struct {
	RerankTopK       int `yaml:"rerank_top_k"`
	MaxContextChars  int `yaml:"max_context_chars"`
	DescriptionClamp int `yaml:"description_clamp"` // runes of description per context block
}

// CacheConfig holds optional search-response cache settings.
// An empty Addrs list disables the cache entirely.
type CacheConfig struct {
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	TTLSec           int      `yaml:"ttl_sec"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// QueryConfig holds query normalization data: stop-word lists and the
// abbreviation map. Both are data tables, not logic, so they live in config.
type QueryConfig struct {
	StopWords     []string          `yaml:"stop_words"`
	Abbreviations map[string]string `yaml:"abbreviations"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// defaultStopWords are Georgian and English filler words stripped from queries.
var defaultStopWords = []string{
	"რა", "არის", "როგორ", "რატომ", "რას", "გულისხმობს", "ვის", "სად",
	"რომელი", "რამდენი", "როდის", "the", "is", "what", "how", "why",
	"მინდა", "ვიცოდე", "მითხარი", "ახსენი", "განმარტე",
}

// defaultAbbreviations maps Georgian tax/customs abbreviations to full terms.
var defaultAbbreviations = map[string]string{
	"დღგ":  "დამატებული ღირებულების გადასახადი",
	"სსკ":  "საგადასახადო კოდექსი",
	"სშკ":  "საბაჟო კოდექსი",
	"მოგ":  "მოგების გადასახადი",
	"საშ":  "საშემოსავლო გადასახადი",
	"ექსპ": "ექსპორტი",
	"იმპ":  "იმპორტი",
	"დეკლ": "დეკლარაცია",
	"ეკ":   "ეკონომიკური კოდექსი",
	"ფიზპ": "ფიზიკური პირი",
	"იურპ": "იურიდიული პირი",
	"ქონ":  "ქონების გადასახადი",
	"აქც":  "აქციზი",
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 90
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.InfoHub.BaseURL == "" {
		c.InfoHub.BaseURL = "https://infohubapi.rs.ge/api"
	}
	if c.InfoHub.Language == "" {
		c.InfoHub.Language = "ka"
	}
	if c.InfoHub.TimeoutSec <= 0 {
		c.InfoHub.TimeoutSec = 15
	}
	if c.InfoHub.SearchTopK <= 0 {
		c.InfoHub.SearchTopK = 10
	}
	if c.Groq.BaseURL == "" {
		c.Groq.BaseURL = "https://api.groq.com/openai/v1"
	}
	if c.Groq.Model == "" {
		c.Groq.Model = "llama-3.3-70b-versatile"
	}
	if c.Groq.TimeoutSec <= 0 {
		c.Groq.TimeoutSec = 60
	}
	if c.Groq.MaxRetries <= 0 {
		c.Groq.MaxRetries = 2
	}
	if c.Pipeline.RerankTopK <= 0 {
		c.Pipeline.RerankTopK = 5
	}
	if c.Pipeline.MaxContextChars <= 0 {
		c.Pipeline.MaxContextChars = 3000
	}
	if c.Pipeline.DescriptionClamp <= 0 {
		c.Pipeline.DescriptionClamp = 800
	}
	if c.Cache.TTLSec <= 0 {
		c.Cache.TTLSec = 300
	}
	if c.Cache.ReadinessTimeout <= 0 {
		c.Cache.ReadinessTimeout = 10
	}
	if len(c.Query.StopWords) == 0 {
		c.Query.StopWords = defaultStopWords
	}
	if len(c.Query.Abbreviations) == 0 {
		c.Query.Abbreviations = defaultAbbreviations
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if c.Groq.APIKey == "" {
		return fmt.Errorf("groq.api_key is required")
	}
	if c.Pipeline.RerankTopK > c.InfoHub.SearchTopK {
		return fmt.Errorf(
			"pipeline.rerank_top_k (%d) must not exceed infohub.search_top_k (%d)",
			c.Pipeline.RerankTopK, c.InfoHub.SearchTopK,
		)
	}
	return nil
}

// CacheEnabled reports whether the search-response cache is configured.
func (c *Config) CacheEnabled() bool {
	return len(c.Cache.Addrs) > 0
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}

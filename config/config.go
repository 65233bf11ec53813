package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// SearchConfig controls the web_search tool.
type SearchConfig struct {
	Provider   string `json:"provider"`   // "tavily" or "duckduckgo"
	MaxResults int    `json:"maxResults"` // default number of results per search
}

// PlotConfig controls chart rendering output.
type PlotConfig struct {
	OutputDir    string  `json:"outputDir"`    // directory for rendered PNG files
	FigureWidth  float64 `json:"figureWidth"`  // figure width in inches
	FigureHeight float64 `json:"figureHeight"` // figure height in inches
	DPI          int     `json:"dpi"`          // output resolution
}

// Config structure
type Config struct {
	LLMProvider string `json:"llmProvider"` // "anthropic", "google" or "openai"
	ModelName   string `json:"modelName"`
	APIKey      string `json:"apiKey,omitempty"`  // explicit key, overrides the provider keys below
	BaseURL     string `json:"baseUrl,omitempty"` // explicit endpoint, overrides the provider default

	GoogleAPIKey    string `json:"googleApiKey,omitempty"`
	TavilyAPIKey    string `json:"tavilyApiKey,omitempty"`
	AnthropicAPIKey string `json:"anthropicApiKey,omitempty"`

	MaxSteps    int  `json:"maxSteps"` // pipeline step cap; 0 takes the default, negative disables the cap
	DetailedLog bool `json:"detailedLog"`

	Search SearchConfig `json:"search"`
	Plot   PlotConfig   `json:"plot"`
}

// Default returns the configuration defaults before file or environment
// values are applied.
func Default() Config {
	cfg := Config{}
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults fills zero-valued fields with their defaults.
func (c *Config) ApplyDefaults() {
	if c.LLMProvider == "" {
		c.LLMProvider = "anthropic"
	}
	if c.ModelName == "" {
		c.ModelName = "claude-3-5-sonnet-latest"
	}
	if c.MaxSteps == 0 {
		c.MaxSteps = 50
	}
	if c.Search.Provider == "" {
		c.Search.Provider = "tavily"
	}
	if c.Search.MaxResults == 0 {
		c.Search.MaxResults = 2
	}
	if c.Plot.OutputDir == "" {
		c.Plot.OutputDir = "outputs"
	}
	if c.Plot.FigureWidth == 0 {
		c.Plot.FigureWidth = 8
	}
	if c.Plot.FigureHeight == 0 {
		c.Plot.FigureHeight = 4.5
	}
	if c.Plot.DPI == 0 {
		c.Plot.DPI = 150
	}
}

// ApplyEnv overrides credential fields from the environment. Environment
// values win over file values so deployments can keep secrets out of the
// config file.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("GOOGLE_API_KEY"); v != "" {
		c.GoogleAPIKey = v
	}
	if v := os.Getenv("TAVILY_API_KEY"); v != "" {
		c.TavilyAPIKey = v
	}
	if v := os.Getenv("ANTHROPIC_API_KEY"); v != "" {
		c.AnthropicAPIKey = v
	}
}

// Load reads the optional JSON config file at path, then applies environment
// overrides and defaults. An empty path or a missing file yields the
// environment-plus-defaults configuration.
func Load(path string) (Config, error) {
	var cfg Config
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return cfg, fmt.Errorf("failed to read config file: %w", err)
		}
		if err == nil {
			if err := json.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("failed to parse config file: %w", err)
			}
		}
	}
	cfg.ApplyEnv()
	cfg.ApplyDefaults()
	return cfg, nil
}

// ValidationError reports required credentials that are not set.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return "missing environment variables: " + strings.Join(e.Missing, ", ")
}

// Validate checks that the required credentials are present. It returns a
// *ValidationError enumerating the missing variables, or nil.
func (c Config) Validate() error {
	var missing []string
	if c.GoogleAPIKey == "" {
		missing = append(missing, "GOOGLE_API_KEY")
	}
	if c.TavilyAPIKey == "" {
		missing = append(missing, "TAVILY_API_KEY")
	}
	if c.AnthropicAPIKey == "" {
		missing = append(missing, "ANTHROPIC_API_KEY")
	}
	if len(missing) > 0 {
		return &ValidationError{Missing: missing}
	}
	return nil
}

package store

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	ListenAddr string   `yaml:"listen_addr"`
	ModelDir   string   `yaml:"model_dir"`
	Tickers    []string `yaml:"tickers"` // inference allow-list, also the training universe
	Exchange   string   `yaml:"exchange"`

	Data struct {
		StartDate  string `yaml:"start_date"`
		MinHistory int    `yaml:"min_history"` // raw rows required before inference
	} `yaml:"data"`

	Features struct {
		PastWindow    int     `yaml:"past_window"`    // trailing vol window (days)
		FutureWindow  int     `yaml:"future_window"`  // label-only leading window (days)
		RegimeWindow  int     `yaml:"regime_window"`  // percentile/compression/trend window
		VolMultiplier float64 `yaml:"vol_multiplier"` // expansion label threshold
	} `yaml:"features"`

	Split struct {
		TrainRatio float64 `yaml:"train_ratio"`
		ValRatio   float64 `yaml:"val_ratio"`
	} `yaml:"split"`

	Risk struct {
		HighThreshold   float64 `yaml:"high_threshold"`
		MediumThreshold float64 `yaml:"medium_threshold"`
	} `yaml:"risk"`

	Model struct {
		Trees           int     `yaml:"trees"`
		LearningRate    float64 `yaml:"learning_rate"`
		MaxDepth        int     `yaml:"max_depth"`
		MinChildSamples int     `yaml:"min_child_samples"`
		Lambda          float64 `yaml:"lambda"`
	} `yaml:"model"`

	News struct {
		WindowDays     int `yaml:"window_days"`
		MaxItems       int `yaml:"max_items"`
		TimeoutSeconds int `yaml:"timeout_seconds"`
	} `yaml:"news"`

	LLM struct {
		Provider       string  `yaml:"provider"` // GEMINI, OPENAI or empty for noop
		Model          string  `yaml:"model"`
		MaxTokens      int     `yaml:"max_tokens"`
		Temperature    float32 `yaml:"temperature"`
		TimeoutSeconds int     `yaml:"timeout_seconds"`
	} `yaml:"llm"`
}

func (c *Config) Validate() error {
	if len(c.Tickers) == 0 {
		return errors.New("tickers cannot be empty")
	}
	if c.Features.PastWindow <= 1 {
		return fmt.Errorf("features.past_window must be > 1, got %d", c.Features.PastWindow)
	}
	if c.Features.FutureWindow <= 0 {
		return fmt.Errorf("features.future_window must be > 0, got %d", c.Features.FutureWindow)
	}
	if c.Features.VolMultiplier <= 0 {
		return fmt.Errorf("features.vol_multiplier must be > 0, got %.2f", c.Features.VolMultiplier)
	}
	if c.Split.TrainRatio <= 0 || c.Split.ValRatio <= 0 || c.Split.TrainRatio+c.Split.ValRatio >= 1 {
		return fmt.Errorf("split ratios must be positive and sum below 1, got train=%.2f val=%.2f",
			c.Split.TrainRatio, c.Split.ValRatio)
	}
	if c.Risk.MediumThreshold <= 0 || c.Risk.HighThreshold <= c.Risk.MediumThreshold || c.Risk.HighThreshold >= 1 {
		return fmt.Errorf("risk thresholds must satisfy 0 < medium < high < 1, got medium=%.2f high=%.2f",
			c.Risk.MediumThreshold, c.Risk.HighThreshold)
	}
	if c.LLM.Provider != "" && c.LLM.Provider != "GEMINI" && c.LLM.Provider != "OPENAI" {
		return fmt.Errorf("invalid llm.provider '%s': must be 'GEMINI', 'OPENAI' or empty", c.LLM.Provider)
	}
	return nil
}

func LoadConfig(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}
	c.applyDefaults()

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &c, nil
}

func (c *Config) applyDefaults() {
	if c.ListenAddr == "" {
		c.ListenAddr = ":8080"
	}
	if c.ModelDir == "" {
		c.ModelDir = "models"
	}
	if c.Exchange == "" {
		c.Exchange = "NSE"
	}
	if c.Data.StartDate == "" {
		c.Data.StartDate = "2015-01-01"
	}
	if c.Data.MinHistory == 0 {
		c.Data.MinHistory = 60
	}
	if c.Features.PastWindow == 0 {
		c.Features.PastWindow = 20
	}
	if c.Features.FutureWindow == 0 {
		c.Features.FutureWindow = 5
	}
	if c.Features.RegimeWindow == 0 {
		c.Features.RegimeWindow = 20
	}
	if c.Features.VolMultiplier == 0 {
		c.Features.VolMultiplier = 1.5
	}
	if c.Split.TrainRatio == 0 {
		c.Split.TrainRatio = 0.70
	}
	if c.Split.ValRatio == 0 {
		c.Split.ValRatio = 0.15
	}
	if c.Risk.HighThreshold == 0 {
		c.Risk.HighThreshold = 0.65
	}
	if c.Risk.MediumThreshold == 0 {
		c.Risk.MediumThreshold = 0.35
	}
	if c.Model.Trees == 0 {
		c.Model.Trees = 200
	}
	if c.Model.LearningRate == 0 {
		c.Model.LearningRate = 0.05
	}
	if c.Model.MaxDepth == 0 {
		c.Model.MaxDepth = 5
	}
	if c.Model.MinChildSamples == 0 {
		c.Model.MinChildSamples = 50
	}
	if c.Model.Lambda == 0 {
		c.Model.Lambda = 1.0
	}
	if c.News.WindowDays == 0 {
		c.News.WindowDays = 3
	}
	if c.News.MaxItems == 0 {
		c.News.MaxItems = 10
	}
	if c.News.TimeoutSeconds == 0 {
		c.News.TimeoutSeconds = 15
	}
	if c.LLM.Model == "" && c.LLM.Provider == "GEMINI" {
		c.LLM.Model = "gemini-2.5-flash"
	}
	if c.LLM.MaxTokens == 0 {
		c.LLM.MaxTokens = 512
	}
	if c.LLM.Temperature == 0 {
		c.LLM.Temperature = 0.2
	}
	if c.LLM.TimeoutSeconds == 0 {
		c.LLM.TimeoutSeconds = 30
	}
}

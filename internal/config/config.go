package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Events     EventsConfig     `yaml:"events"`
	Goodreads  GoodreadsConfig  `yaml:"goodreads"`
	Classifier ClassifierConfig `yaml:"classifier"`
	Scoring    ScoringConfig    `yaml:"scoring"`
	Logging    LoggingConfig    `yaml:"logging"`
}

type ServerConfig struct {
	Port        int    `yaml:"port"`
	MetricsPort int    `yaml:"metrics_port"`
	APIKey      string `yaml:"api_key"`
}

type DatabaseConfig struct {
	URL string `yaml:"url"`
}

type EventsConfig struct {
	URL string `yaml:"url"`
}

type GoodreadsConfig struct {
	BaseURL   string `yaml:"base_url"`
	UserAgent string `yaml:"user_agent"`
	PageSize  int    `yaml:"page_size"`
}

type ClassifierConfig struct {
	BaseURL string `yaml:"base_url"`
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`
}

type ScoringConfig struct {
	Weights          ScoringWeights    `yaml:"weights"`
	RatingScaleSpan  float64           `yaml:"rating_scale_span"`
	LengthNormalizer float64           `yaml:"length_normalizer"`
	YearNormalizer   float64           `yaml:"year_normalizer"`
	Calibration      CalibrationConfig `yaml:"calibration"`
}

type ScoringWeights struct {
	CommonBooks   float64 `yaml:"common_books"`
	CommonAuthors float64 `yaml:"common_authors"`
	Genre         float64 `yaml:"genre"`
	Era           float64 `yaml:"era"`
	Rating        float64 `yaml:"rating"`
	Length        float64 `yaml:"length"`
	Year          float64 `yaml:"year"`
}

type CalibrationConfig struct {
	Floor  float64 `yaml:"floor"`
	Offset float64 `yaml:"offset"`
	Slope  float64 `yaml:"slope"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func Load(path string) (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:        8700,
			MetricsPort: 8701,
		},
		Events: EventsConfig{
			URL: "nats://localhost:4222",
		},
		Goodreads: GoodreadsConfig{
			BaseURL:   "https://www.goodreads.com",
			UserAgent: "Mozilla/5.0 (compatible; bookblend/1.0)",
			PageSize:  100,
		},
		Classifier: ClassifierConfig{
			BaseURL: "https://api.openai.com",
			Model:   "gpt-4o-mini",
		},
		Scoring: ScoringConfig{
			Weights: ScoringWeights{
				CommonBooks:   0.25,
				CommonAuthors: 0.10,
				Genre:         0.25,
				Era:           0.15,
				Rating:        0.10,
				Length:        0.10,
				Year:          0.05,
			},
			RatingScaleSpan:  4,
			LengthNormalizer: 400,
			YearNormalizer:   50,
			Calibration: CalibrationConfig{
				Floor:  40,
				Offset: 16,
				Slope:  1.2,
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnv(cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("BOOKBLEND_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = n
		}
	}
	if v := os.Getenv("BOOKBLEND_METRICS_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.MetricsPort = n
		}
	}
	if v := os.Getenv("BOOKBLEND_API_KEY"); v != "" {
		cfg.Server.APIKey = v
	}
	if v := os.Getenv("BOOKBLEND_DATABASE_URL"); v != "" {
		cfg.Database.URL = v
	}
	if v := os.Getenv("BOOKBLEND_EVENTS_URL"); v != "" {
		cfg.Events.URL = v
	}
	if v := os.Getenv("BOOKBLEND_GOODREADS_URL"); v != "" {
		cfg.Goodreads.BaseURL = v
	}
	if v := os.Getenv("BOOKBLEND_CLASSIFIER_URL"); v != "" {
		cfg.Classifier.BaseURL = v
	}
	if v := os.Getenv("BOOKBLEND_CLASSIFIER_API_KEY"); v != "" {
		cfg.Classifier.APIKey = v
	}
	if v := os.Getenv("BOOKBLEND_CLASSIFIER_MODEL"); v != "" {
		cfg.Classifier.Model = v
	}
	if v := os.Getenv("BOOKBLEND_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}

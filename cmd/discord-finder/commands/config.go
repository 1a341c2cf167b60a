package commands

import (
	"discord-finder/internal/configutil"
	"discord-finder/internal/scrapers/google"
	"discord-finder/internal/scrapers/intermediary"
	"fmt"
	"os"
	"time"
)

type TokenConfig struct {
	// Length accepts tokens of exactly this length. It is ignored when
	// MinLength or MaxLength is set.
	Length    int `json:"length"`
	MinLength int `json:"min_length"`
	MaxLength int `json:"max_length"`
}

type UserAgentConfig struct {
	Search  string `json:"search"`
	Page    string `json:"page"`
	Discord string `json:"discord"`
}

type Config struct {
	TimeoutSeconds    int             `json:"timeout_seconds"`
	SearchStrategy    string          `json:"search_strategy"`
	Token             TokenConfig     `json:"token"`
	UserAgents        UserAgentConfig `json:"user_agents"`
	CloudflareBypass  bool            `json:"cloudflare_bypass"`
	Pages             int             `json:"pages"`
	Concurrency       int             `json:"concurrency"`
	RequestsPerSecond float64         `json:"requests_per_second"`
}

func defaultConfig() Config {
	return Config{
		TimeoutSeconds: 30,
		SearchStrategy: "delimiter",
		Token:          TokenConfig{Length: intermediary.DefaultTokenLength},
		Pages:          4,
		Concurrency:    4,
	}
}

// loadConfig reads the config at path on top of the defaults, a missing file only
// means the defaults are used.
func loadConfig(path string) (Config, error) {
	cfg, err := configutil.ReadConfig[Config](path)
	if os.IsNotExist(err) {
		return defaultConfig(), nil
	}
	if err != nil {
		return Config{}, err
	}

	defaults := defaultConfig()
	if cfg.TimeoutSeconds == 0 {
		cfg.TimeoutSeconds = defaults.TimeoutSeconds
	}
	if cfg.SearchStrategy == "" {
		cfg.SearchStrategy = defaults.SearchStrategy
	}
	if cfg.Token == (TokenConfig{}) {
		cfg.Token = defaults.Token
	}
	if cfg.Pages == 0 {
		cfg.Pages = defaults.Pages
	}
	if cfg.Concurrency == 0 {
		cfg.Concurrency = defaults.Concurrency
	}
	return cfg, nil
}

func (c Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

func (c Config) Policy() (intermediary.TokenPolicy, error) {
	t := c.Token
	if t.MinLength == 0 && t.MaxLength == 0 {
		if t.Length <= 0 {
			return nil, fmt.Errorf("token length must be positive, got %d", t.Length)
		}
		return intermediary.ExactLength(t.Length), nil
	}
	if t.MinLength < 1 || t.MaxLength < t.MinLength {
		return nil, fmt.Errorf("invalid token length range [%d, %d]", t.MinLength, t.MaxLength)
	}
	return intermediary.LengthRange(t.MinLength, t.MaxLength), nil
}

func (c Config) Strategy() (google.Strategy, error) {
	switch c.SearchStrategy {
	case "delimiter":
		return google.DefaultStrategy, nil
	case "anchors":
		return google.AnchorStrategy{}, nil
	}
	return nil, fmt.Errorf("unknown search strategy %q", c.SearchStrategy)
}

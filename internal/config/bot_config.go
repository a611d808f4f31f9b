package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ducminhle1904/futures-signal-bot/internal/decision"
	"github.com/ducminhle1904/futures-signal-bot/internal/risk"
	"github.com/ducminhle1904/futures-signal-bot/internal/scoring"
)

// BotConfig is the complete configuration for the signal bot.
type BotConfig struct {
	// Symbols to scan each cycle
	Symbols []string `json:"symbols"`

	// Signal scoring configuration
	Scoring ScoringConfig `json:"scoring"`

	// Decision engine configuration
	Decision decision.Config `json:"decision"`

	// Risk management configuration
	Risk RiskSection `json:"risk"`

	// Exchange configuration
	Exchange ExchangeConfig `json:"exchange"`

	// Notification configuration (optional)
	Notifications *NotificationConfig `json:"notifications,omitempty"`

	// Monitoring configuration (optional)
	Monitoring MonitoringConfig `json:"monitoring"`

	// Logging configuration
	Logging LoggingConfig `json:"logging"`

	// ScanInterval between decision cycles (Go duration, e.g. "5m")
	ScanInterval string `json:"scan_interval"`
}

// ScoringConfig holds factor weights and classification thresholds.
// Empty weights fall back to the stock factor model.
type ScoringConfig struct {
	Weights    map[string]float64  `json:"weights,omitempty"`
	Thresholds *scoring.Thresholds `json:"thresholds,omitempty"`
}

// RiskSection pairs the portfolio limits with the balance they are
// measured against.
type RiskSection struct {
	InitialBalance float64     `json:"initial_balance"`
	Limits         risk.Limits `json:"limits"`
}

// ExchangeConfig selects and configures the market data provider.
type ExchangeConfig struct {
	Name  string       `json:"name"`
	Bybit *BybitConfig `json:"bybit,omitempty"`
}

// BybitConfig holds Bybit connection settings. Credentials left empty
// are resolved from BYBIT_API_KEY / BYBIT_API_SECRET.
type BybitConfig struct {
	APIKey            string  `json:"api_key,omitempty"`
	APISecret         string  `json:"api_secret,omitempty"`
	Testnet           bool    `json:"testnet"`
	Demo              bool    `json:"demo"`
	Category          string  `json:"category,omitempty"`
	RequestsPerSecond float64 `json:"requests_per_second,omitempty"`
}

// NotificationConfig holds Telegram alert settings.
type NotificationConfig struct {
	Enabled       bool   `json:"enabled"`
	TelegramToken string `json:"telegram_token,omitempty"`
	TelegramChat  string `json:"telegram_chat,omitempty"`
}

// MonitoringConfig holds the metrics/health HTTP listener settings.
type MonitoringConfig struct {
	Enabled    bool   `json:"enabled"`
	ListenAddr string `json:"listen_addr,omitempty"`
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	Level  string `json:"level,omitempty"`
	Pretty bool   `json:"pretty"`
}

// LoadBotConfig loads configuration from file. Bare names resolve
// against the configs/ directory and get a .json extension.
func LoadBotConfig(configFile string) (*BotConfig, error) {
	if !strings.ContainsAny(configFile, "/\\") {
		configFile = filepath.Join("configs", configFile)
	}
	if !strings.HasSuffix(configFile, ".json") {
		configFile += ".json"
	}

	data, err := os.ReadFile(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
	}

	var config BotConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	config.setDefaults()

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

// setDefaults fills missing values and resolves credentials from the
// environment.
func (c *BotConfig) setDefaults() {
	c.Decision = c.Decision.ApplyDefaults()

	if c.Risk.InitialBalance == 0 {
		c.Risk.InitialBalance = 1000.0
	}
	if c.Risk.Limits == (risk.Limits{}) {
		c.Risk.Limits = risk.DefaultLimits()
	}

	if c.Exchange.Name == "" {
		c.Exchange.Name = "bybit"
	}
	if c.Exchange.Bybit == nil {
		// Demo by default so a bare config never touches real funds.
		c.Exchange.Bybit = &BybitConfig{Demo: true}
	}
	if c.Exchange.Bybit.APIKey == "" {
		c.Exchange.Bybit.APIKey = os.Getenv("BYBIT_API_KEY")
	}
	if c.Exchange.Bybit.APISecret == "" {
		c.Exchange.Bybit.APISecret = os.Getenv("BYBIT_API_SECRET")
	}
	if c.Exchange.Bybit.Category == "" {
		c.Exchange.Bybit.Category = "linear"
	}

	if c.Notifications != nil && c.Notifications.Enabled {
		if c.Notifications.TelegramToken == "" {
			c.Notifications.TelegramToken = os.Getenv("TELEGRAM_BOT_TOKEN")
		}
		if c.Notifications.TelegramChat == "" {
			c.Notifications.TelegramChat = os.Getenv("TELEGRAM_CHAT_ID")
		}
	}

	if c.Monitoring.Enabled && c.Monitoring.ListenAddr == "" {
		c.Monitoring.ListenAddr = ":9090"
	}

	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}

	if c.ScanInterval == "" {
		c.ScanInterval = "5m"
	}
}

// ScanIntervalDuration returns the parsed scan interval. Call only
// after LoadBotConfig has validated the config.
func (c *BotConfig) ScanIntervalDuration() time.Duration {
	d, err := time.ParseDuration(c.ScanInterval)
	if err != nil {
		return 5 * time.Minute
	}
	return d
}

// validate rejects configurations the bot cannot run with.
func (c *BotConfig) validate() error {
	if len(c.Symbols) == 0 {
		return fmt.Errorf("at least one symbol is required")
	}
	for _, symbol := range c.Symbols {
		if symbol == "" {
			return fmt.Errorf("empty symbol in symbols list")
		}
	}

	if c.Decision.Leverage <= 0 {
		return fmt.Errorf("leverage must be greater than 0")
	}
	if c.Decision.MaxMarginPerTrade <= 0 || c.Decision.MaxMarginPerTrade > 1 {
		return fmt.Errorf("max margin per trade must be in (0, 1]")
	}

	if c.Risk.InitialBalance <= 0 {
		return fmt.Errorf("initial balance must be greater than 0")
	}
	if c.Risk.Limits.MaxLeverage > 0 && c.Decision.Leverage > c.Risk.Limits.MaxLeverage {
		return fmt.Errorf("leverage %.0fx exceeds risk limit %.0fx", c.Decision.Leverage, c.Risk.Limits.MaxLeverage)
	}

	if strings.ToLower(c.Exchange.Name) != "bybit" {
		return fmt.Errorf("unsupported exchange: %s", c.Exchange.Name)
	}

	if w := c.Scoring.Weights; len(w) > 0 {
		for name, weight := range w {
			if weight < 0 {
				return fmt.Errorf("negative weight for factor %s", name)
			}
		}
	}

	if _, err := time.ParseDuration(c.ScanInterval); err != nil {
		return fmt.Errorf("invalid scan_interval: %w", err)
	}

	if c.Notifications != nil && c.Notifications.Enabled {
		if c.Notifications.TelegramToken == "" || c.Notifications.TelegramChat == "" {
			return fmt.Errorf("telegram notifications enabled but token or chat id missing")
		}
	}

	return nil
}

package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	// Gateway selection
	Variant      string // "cloud" or "local"
	CloudBaseURL string
	LocalBaseURL string

	// Cloud gateway credentials. Read from the environment per invocation
	// and handed to the session as an ephemeral Credentials value; never
	// written anywhere.
	Username string
	Password string
	Account  string

	// Local socket target (forwarded to the bridge on connect)
	TWSHost  string
	TWSPort  int // 7497 paper, 7496 live
	ClientID int

	// Timeouts. Remote gateway bootstrap plus two-factor approval can take
	// 60-90s, so the auth bound is much longer than the socket connect bound.
	ConnectTimeout time.Duration
	AuthTimeout    time.Duration
	HTTPTimeout    time.Duration

	// Performance / risk
	CacheTTL         time.Duration
	MaxSpreadPercent float64
}

// Load reads configuration from an optional config file plus BOOMTRADE_*
// environment variables. A .env file in the working directory is honored
// first (ignored if absent).
func Load(configFile string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("variant", "cloud")
	v.SetDefault("cloud_base_url", "https://boomtrade-backend.onrender.com")
	v.SetDefault("local_base_url", "http://127.0.0.1:5001")
	v.SetDefault("username", "")
	v.SetDefault("password", "")
	v.SetDefault("account", "")
	v.SetDefault("tws_host", "127.0.0.1")
	v.SetDefault("tws_port", 7497)
	v.SetDefault("client_id", 1)
	v.SetDefault("connect_timeout_ms", 10_000)
	v.SetDefault("auth_timeout_ms", 120_000)
	v.SetDefault("http_timeout_ms", 10_000)
	v.SetDefault("cache_ttl_ms", 30_000)
	v.SetDefault("max_spread_percent", 5.0)

	v.SetEnvPrefix("BOOMTRADE")
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	cfg := &Config{
		Variant:          v.GetString("variant"),
		CloudBaseURL:     v.GetString("cloud_base_url"),
		LocalBaseURL:     v.GetString("local_base_url"),
		Username:         v.GetString("username"),
		Password:         v.GetString("password"),
		Account:          v.GetString("account"),
		TWSHost:          v.GetString("tws_host"),
		TWSPort:          v.GetInt("tws_port"),
		ClientID:         v.GetInt("client_id"),
		ConnectTimeout:   time.Duration(v.GetInt64("connect_timeout_ms")) * time.Millisecond,
		AuthTimeout:      time.Duration(v.GetInt64("auth_timeout_ms")) * time.Millisecond,
		HTTPTimeout:      time.Duration(v.GetInt64("http_timeout_ms")) * time.Millisecond,
		CacheTTL:         time.Duration(v.GetInt64("cache_ttl_ms")) * time.Millisecond,
		MaxSpreadPercent: v.GetFloat64("max_spread_percent"),
	}

	if cfg.Variant != "cloud" && cfg.Variant != "local" {
		return nil, fmt.Errorf("BOOMTRADE_VARIANT must be cloud or local, got %q", cfg.Variant)
	}
	if cfg.AuthTimeout < 120*time.Second {
		return nil, fmt.Errorf("auth timeout %s is below the 120s gateway bootstrap minimum", cfg.AuthTimeout)
	}

	return cfg, nil
}

// BaseURL returns the gateway base URL for the selected variant.
func (c *Config) BaseURL() string {
	if c.Variant == "local" {
		return c.LocalBaseURL
	}
	return c.CloudBaseURL
}

// IsPaperTrading reports whether the local socket target is the paper
// trading port.
func (c *Config) IsPaperTrading() bool {
	return c.TWSPort != 7496
}

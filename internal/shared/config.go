package shared

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Credentials CredentialsConfig `toml:"credentials"`
	Database    DatabaseConfig    `toml:"database"`
	Pipeline    PipelineConfig    `toml:"pipeline"`
}

// CredentialsConfig contains service-specific credentials.
type CredentialsConfig struct {
	Spotify SpotifyConfig `toml:"spotify"`
}

// SpotifyConfig contains Spotify API credentials for the refresh-token grant.
type SpotifyConfig struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
	RefreshToken string `toml:"refresh_token"`
	TokenURL     string `toml:"token_url"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// PipelineConfig contains tuning knobs for the ingestion pipeline.
type PipelineConfig struct {
	WindowDays        int     `toml:"window_days"`         // trailing release window
	AnchorWeekday     string  `toml:"anchor_weekday"`      // weekly run day, e.g. "Sunday"
	PerArtistLimit    int     `toml:"per_artist_limit"`    // max tracks ingested per artist per run
	BatchSize         int     `toml:"batch_size"`          // max track ids per append request
	CapacityCeiling   int     `toml:"capacity_ceiling"`    // max total tracks per playlist
	MaxRetries        int     `toml:"max_retries"`         // 429 retry budget per request
	RateLimitRPS      float64 `toml:"rate_limit_rps"`      // client-side request budget
	RunTimeoutMinutes int     `toml:"run_timeout_minutes"` // overall run deadline
}

// Window returns the trailing release window as a [time.Duration].
func (p PipelineConfig) Window() time.Duration {
	return time.Duration(p.WindowDays) * 24 * time.Hour
}

// RunTimeout returns the overall run deadline as a [time.Duration].
func (p PipelineConfig) RunTimeout() time.Duration {
	return time.Duration(p.RunTimeoutMinutes) * time.Minute
}

// Anchor parses the configured weekly anchor day. Unrecognized values fall back to Sunday.
func (p PipelineConfig) Anchor() time.Weekday {
	days := map[string]time.Weekday{
		"sunday":    time.Sunday,
		"monday":    time.Monday,
		"tuesday":   time.Tuesday,
		"wednesday": time.Wednesday,
		"thursday":  time.Thursday,
		"friday":    time.Friday,
		"saturday":  time.Saturday,
	}
	if day, ok := days[strings.ToLower(strings.TrimSpace(p.AnchorWeekday))]; ok {
		return day
	}
	return time.Sunday
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
// Credentials present in the environment override the file, so secrets can live in .env.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	config.applyEnv()
	return &config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	config.applyEnv()
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s: %w", path, ErrInvalidConfig)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// applyEnv overlays credential values from the environment.
func (c *Config) applyEnv() {
	if v := os.Getenv("SPOTIFY_CLIENT_ID"); v != "" {
		c.Credentials.Spotify.ClientID = v
	}
	if v := os.Getenv("SPOTIFY_CLIENT_SECRET"); v != "" {
		c.Credentials.Spotify.ClientSecret = v
	}
	if v := os.Getenv("SPOTIFY_REFRESH_TOKEN"); v != "" {
		c.Credentials.Spotify.RefreshToken = v
	}
}

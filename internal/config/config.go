package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/cockroachdb/errors"

	"farmwork-hub-go/internal/validation"
)

// Config holds the application configuration
type Config struct {
	Server     ServerConfig     `json:"server"`
	Database   DatabaseConfig   `json:"database"`
	Auth       AuthConfig       `json:"auth"`
	Jobs       JobsConfig       `json:"jobs"`
	Monitoring MonitoringConfig `json:"monitoring"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port               int           `json:"port"`
	ReadTimeout        time.Duration `json:"read_timeout"`
	WriteTimeout       time.Duration `json:"write_timeout"`
	IdleTimeout        time.Duration `json:"idle_timeout"`
	RateLimitPerMinute int           `json:"rate_limit_per_minute"`
}

// DatabaseConfig holds database configuration. When the URL or key is
// empty the server runs against the in-memory store with seed data.
type DatabaseConfig struct {
	SupabaseURL string `json:"supabase_url"`
	SupabaseKey string `json:"supabase_key"`
}

// AuthConfig points at the external token-issuing auth service. An empty
// ServiceURL selects the local in-process service (demo mode).
type AuthConfig struct {
	ServiceURL     string        `json:"service_url"`
	RequestTimeout time.Duration `json:"request_timeout"`
	SessionFile    string        `json:"session_file"`
}

// JobsConfig holds job board behaviour knobs. The two salary ceilings are
// deliberately separate; see the validation package constants.
type JobsConfig struct {
	DefaultPageSize      int           `json:"default_page_size"`
	MaxPageSize          int           `json:"max_page_size"`
	ExpirySweepInterval  time.Duration `json:"expiry_sweep_interval"`
	ClientSalaryCeiling  float64       `json:"client_salary_ceiling"`
	PostingSalaryCeiling float64       `json:"posting_salary_ceiling"`
}

// MonitoringConfig holds logging configuration
type MonitoringConfig struct {
	LogLevel string `json:"log_level"`
	LogJSON  bool   `json:"log_json"`
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:               8080,
			ReadTimeout:        10 * time.Second,
			WriteTimeout:       10 * time.Second,
			IdleTimeout:        60 * time.Second,
			RateLimitPerMinute: 120,
		},
		Database: DatabaseConfig{
			SupabaseURL: os.Getenv("SUPABASE_URL"),
			SupabaseKey: os.Getenv("SUPABASE_KEY"),
		},
		Auth: AuthConfig{
			ServiceURL:     os.Getenv("AUTH_SERVICE_URL"),
			RequestTimeout: 15 * time.Second,
			SessionFile:    defaultSessionFile(),
		},
		Jobs: JobsConfig{
			DefaultPageSize:      10,
			MaxPageSize:          100,
			ExpirySweepInterval:  1 * time.Hour,
			ClientSalaryCeiling:  validation.ClientSalaryCeiling,
			PostingSalaryCeiling: validation.PostingSalaryCeiling,
		},
		Monitoring: MonitoringConfig{
			LogLevel: "info",
			LogJSON:  false,
		},
	}
}

func defaultSessionFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".farmwork-hub/session.json"
	}
	return home + "/.farmwork-hub/session.json"
}

// LoadConfig loads configuration from a JSON file, merged over defaults.
// A missing file yields the defaults.
func LoadConfig(filename string) (*Config, error) {
	config := DefaultConfig()

	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return config, nil
	}

	file, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open config file")
	}
	defer file.Close()

	decoder := json.NewDecoder(file)
	if err := decoder.Decode(config); err != nil {
		return nil, errors.Wrap(err, "failed to decode config file")
	}

	return config, nil
}

// SaveConfig saves configuration to a JSON file
func (c *Config) SaveConfig(filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return errors.Wrap(err, "failed to create config file")
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(c); err != nil {
		return errors.Wrap(err, "failed to encode config")
	}

	return nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return errors.Newf("invalid server port %d", c.Server.Port)
	}

	if c.Server.RateLimitPerMinute <= 0 {
		return errors.New("rate limit must be positive")
	}

	if c.Jobs.DefaultPageSize <= 0 {
		return errors.New("default page size must be positive")
	}

	if c.Jobs.MaxPageSize < c.Jobs.DefaultPageSize {
		return errors.New("max page size cannot be below the default page size")
	}

	if c.Jobs.ClientSalaryCeiling <= 0 || c.Jobs.PostingSalaryCeiling <= 0 {
		return errors.New("salary ceilings must be positive")
	}

	// One key without the other is a misconfiguration; both empty means
	// the in-memory store.
	if (c.Database.SupabaseURL == "") != (c.Database.SupabaseKey == "") {
		return errors.New("supabase URL and key must be set together")
	}

	return nil
}

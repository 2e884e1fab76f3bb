// Package config provides Viper-based configuration loading for the
// teamsmith server and CLI.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the bind address for the HTTP listener.
	Host string `mapstructure:"host"`
	// Port is the TCP port for the HTTP listener.
	Port int `mapstructure:"port"`
	// AllowedOrigins lists CORS origins permitted to call the API.
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	// ReadTimeout is the per-request read timeout.
	ReadTimeout time.Duration `mapstructure:"read_timeout"`
	// WriteTimeout is the per-request write timeout.
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	// ShutdownTimeout bounds graceful shutdown on SIGINT/SIGTERM.
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// Addr returns the "host:port" listen address.
//
// Postcondition: Returns a non-empty string in "host:port" format.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// DataConfig locates the content files loaded at startup.
type DataConfig struct {
	// CookiesDir holds the cookie catalog YAML files.
	CookiesDir string `mapstructure:"cookies_dir"`
	// ReferenceDir holds the treasure, synergy, counter, meta-team, and
	// treasure-strategy tables.
	ReferenceDir string `mapstructure:"reference_dir"`
	// BossesFile holds the guild battle boss profiles.
	BossesFile string `mapstructure:"bosses_file"`
}

// GeneticConfig tunes the genetic candidate generator.
type GeneticConfig struct {
	PopulationSize int     `mapstructure:"population_size"`
	Generations    int     `mapstructure:"generations"`
	EliteFraction  float64 `mapstructure:"elite_fraction"`
	MutationRate   float64 `mapstructure:"mutation_rate"`
}

// ExhaustiveConfig tunes the exhaustive generator's practicality guard.
type ExhaustiveConfig struct {
	// GuardPoolSize is the free-pool size at which the guard activates.
	GuardPoolSize int `mapstructure:"guard_pool_size"`
	// GuardMinRequired is the minimum pinned members once the guard is active.
	GuardMinRequired int `mapstructure:"guard_min_required"`
	// MaxCombinations caps the enumerable space; 0 disables the cap.
	MaxCombinations int64 `mapstructure:"max_combinations"`
	// Workers is the scoring fan-out width; 0 means GOMAXPROCS.
	Workers int `mapstructure:"workers"`
}

// SearchConfig holds request limits and generator tuning.
type SearchConfig struct {
	// DefaultCandidates is used when a request omits its candidate count.
	DefaultCandidates int `mapstructure:"default_candidates"`
	// MaxCandidates bounds the per-request candidate count.
	MaxCandidates int `mapstructure:"max_candidates"`
	// DefaultTopN is used when a request omits its result count.
	DefaultTopN int `mapstructure:"default_top_n"`
	// MaxTopN bounds the per-request result count.
	MaxTopN int `mapstructure:"max_top_n"`
	// Budget bounds genetic and exhaustive runs; 0 means unbounded.
	Budget time.Duration `mapstructure:"budget"`

	Genetic    GeneticConfig    `mapstructure:"genetic"`
	Exhaustive ExhaustiveConfig `mapstructure:"exhaustive"`
}

// Config is the top-level application configuration.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Logging LoggingConfig `mapstructure:"logging"`
	Data    DataConfig    `mapstructure:"data"`
	Search  SearchConfig  `mapstructure:"search"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateServer(c.Server); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateData(c.Data); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateSearch(c.Search); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateServer(s ServerConfig) error {
	var errs []string
	if s.Port < 1 || s.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port must be 1-65535, got %d", s.Port))
	}
	if s.ReadTimeout < 0 {
		errs = append(errs, "server.read_timeout must not be negative")
	}
	if s.WriteTimeout < 0 {
		errs = append(errs, "server.write_timeout must not be negative")
	}
	if s.ShutdownTimeout < 0 {
		errs = append(errs, "server.shutdown_timeout must not be negative")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	return nil
}

func validateData(d DataConfig) error {
	var errs []string
	if d.CookiesDir == "" {
		errs = append(errs, "data.cookies_dir must not be empty")
	}
	if d.ReferenceDir == "" {
		errs = append(errs, "data.reference_dir must not be empty")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateSearch(s SearchConfig) error {
	var errs []string
	if s.MaxCandidates < 1 {
		errs = append(errs, fmt.Sprintf("search.max_candidates must be >= 1, got %d", s.MaxCandidates))
	}
	if s.DefaultCandidates < 1 || s.DefaultCandidates > s.MaxCandidates {
		errs = append(errs, fmt.Sprintf("search.default_candidates must be 1-%d, got %d",
			s.MaxCandidates, s.DefaultCandidates))
	}
	if s.MaxTopN < 1 {
		errs = append(errs, fmt.Sprintf("search.max_top_n must be >= 1, got %d", s.MaxTopN))
	}
	if s.DefaultTopN < 1 || s.DefaultTopN > s.MaxTopN {
		errs = append(errs, fmt.Sprintf("search.default_top_n must be 1-%d, got %d",
			s.MaxTopN, s.DefaultTopN))
	}
	if s.Budget < 0 {
		errs = append(errs, "search.budget must not be negative")
	}
	if s.Genetic.PopulationSize < 0 {
		errs = append(errs, fmt.Sprintf("search.genetic.population_size must be >= 0, got %d", s.Genetic.PopulationSize))
	}
	if s.Genetic.Generations < 0 {
		errs = append(errs, fmt.Sprintf("search.genetic.generations must be >= 0, got %d", s.Genetic.Generations))
	}
	if s.Genetic.EliteFraction < 0 || s.Genetic.EliteFraction > 1 {
		errs = append(errs, fmt.Sprintf("search.genetic.elite_fraction must be 0-1, got %g", s.Genetic.EliteFraction))
	}
	if s.Genetic.MutationRate < 0 || s.Genetic.MutationRate > 1 {
		errs = append(errs, fmt.Sprintf("search.genetic.mutation_rate must be 0-1, got %g", s.Genetic.MutationRate))
	}
	if s.Exhaustive.GuardPoolSize < 0 {
		errs = append(errs, fmt.Sprintf("search.exhaustive.guard_pool_size must be >= 0, got %d", s.Exhaustive.GuardPoolSize))
	}
	if s.Exhaustive.GuardMinRequired < 0 {
		errs = append(errs, fmt.Sprintf("search.exhaustive.guard_min_required must be >= 0, got %d", s.Exhaustive.GuardMinRequired))
	}
	if s.Exhaustive.MaxCombinations < 0 {
		errs = append(errs, fmt.Sprintf("search.exhaustive.max_combinations must be >= 0, got %d", s.Exhaustive.MaxCombinations))
	}
	if s.Exhaustive.Workers < 0 {
		errs = append(errs, fmt.Sprintf("search.exhaustive.workers must be >= 0, got %d", s.Exhaustive.Workers))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result.
//
// Precondition: path must be a valid file path to a YAML configuration file.
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	// Environment variable overrides with TEAMSMITH_ prefix
	v.SetEnvPrefix("TEAMSMITH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Default builds the built-in configuration without reading a file. Used by
// the CLI when no config flag is given.
//
// Postcondition: Returns a Config that passes Validate.
func Default() Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		panic("config: default configuration failed to unmarshal: " + err.Error())
	}
	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.allowed_origins", []string{"http://localhost:5173"})
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "60s")
	v.SetDefault("server.shutdown_timeout", "10s")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("data.cookies_dir", "data/cookies")
	v.SetDefault("data.reference_dir", "data/reference")
	v.SetDefault("data.bosses_file", "data/bosses.yaml")

	v.SetDefault("search.default_candidates", 1000)
	v.SetDefault("search.max_candidates", 10000)
	v.SetDefault("search.default_top_n", 5)
	v.SetDefault("search.max_top_n", 50)
	v.SetDefault("search.budget", "30s")

	v.SetDefault("search.genetic.population_size", 50)
	v.SetDefault("search.genetic.generations", 100)
	v.SetDefault("search.genetic.elite_fraction", 0.2)
	v.SetDefault("search.genetic.mutation_rate", 0.1)

	v.SetDefault("search.exhaustive.guard_pool_size", 100)
	v.SetDefault("search.exhaustive.guard_min_required", 3)
	v.SetDefault("search.exhaustive.max_combinations", 20000000)
	v.SetDefault("search.exhaustive.workers", 0)
}

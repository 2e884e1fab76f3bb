package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func validConfig() Config {
	return Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			AllowedOrigins:  []string{"http://localhost:5173"},
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    time.Minute,
			ShutdownTimeout: 10 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Data: DataConfig{
			CookiesDir:   "data/cookies",
			ReferenceDir: "data/reference",
			BossesFile:   "data/bosses.yaml",
		},
		Search: SearchConfig{
			DefaultCandidates: 1000,
			MaxCandidates:     10000,
			DefaultTopN:       5,
			MaxTopN:           50,
			Budget:            30 * time.Second,
			Genetic: GeneticConfig{
				PopulationSize: 50,
				Generations:    100,
				EliteFraction:  0.2,
				MutationRate:   0.1,
			},
			Exhaustive: ExhaustiveConfig{
				GuardPoolSize:    100,
				GuardMinRequired: 3,
				MaxCombinations:  20000000,
			},
		},
	}
}

func TestValidConfig(t *testing.T) {
	cfg := validConfig()
	assert.NoError(t, cfg.Validate())
}

func TestServerAddr(t *testing.T) {
	cfg := validConfig()
	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Addr())
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 1000, cfg.Search.DefaultCandidates)
	assert.Equal(t, 50, cfg.Search.MaxTopN)
	assert.Equal(t, 100, cfg.Search.Exhaustive.GuardPoolSize)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.yaml")
	err := os.WriteFile(path, []byte(`
server:
  host: 127.0.0.1
  port: 9090
logging:
  level: debug
  format: console
data:
  cookies_dir: testdata/cookies
  reference_dir: testdata/reference
search:
  default_candidates: 500
  budget: 5s
  genetic:
    population_size: 80
`), 0644)
	require.NoError(t, err)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "testdata/cookies", cfg.Data.CookiesDir)
	assert.Equal(t, 500, cfg.Search.DefaultCandidates)
	assert.Equal(t, 5*time.Second, cfg.Search.Budget)
	assert.Equal(t, 80, cfg.Search.Genetic.PopulationSize)
	// Omitted sections fall back to defaults.
	assert.Equal(t, 10000, cfg.Search.MaxCandidates)
	assert.Equal(t, 3, cfg.Search.Exhaustive.GuardMinRequired)
}

func TestLoadInvalidPath(t *testing.T) {
	_, err := Load("/nonexistent/path.yaml")
	assert.Error(t, err)
}

func TestValidateServerPort(t *testing.T) {
	cfg := validConfig()
	cfg.Server.Port = 0
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.Server.Port = 65536
	assert.Error(t, cfg.Validate())
}

func TestValidateLoggingLevel(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error"} {
		cfg := validConfig()
		cfg.Logging.Level = level
		assert.NoError(t, cfg.Validate(), "level %q should be valid", level)
	}
	cfg := validConfig()
	cfg.Logging.Level = "trace"
	assert.Error(t, cfg.Validate())
}

func TestValidateLoggingFormat(t *testing.T) {
	for _, format := range []string{"json", "console"} {
		cfg := validConfig()
		cfg.Logging.Format = format
		assert.NoError(t, cfg.Validate(), "format %q should be valid", format)
	}
	cfg := validConfig()
	cfg.Logging.Format = "xml"
	assert.Error(t, cfg.Validate())
}

func TestValidateDataDirsRequired(t *testing.T) {
	cfg := validConfig()
	cfg.Data.CookiesDir = ""
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.Data.ReferenceDir = ""
	assert.Error(t, cfg.Validate())
}

func TestValidateSearchDefaultsWithinMax(t *testing.T) {
	cfg := validConfig()
	cfg.Search.DefaultCandidates = cfg.Search.MaxCandidates + 1
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.Search.DefaultTopN = cfg.Search.MaxTopN + 1
	assert.Error(t, cfg.Validate())
}

func TestValidateSearchGeneticRates(t *testing.T) {
	cfg := validConfig()
	cfg.Search.Genetic.EliteFraction = 1.5
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.Search.Genetic.MutationRate = -0.1
	assert.Error(t, cfg.Validate())
}

func TestValidateCollectsAllViolations(t *testing.T) {
	cfg := validConfig()
	cfg.Server.Port = 0
	cfg.Logging.Level = "trace"
	cfg.Data.CookiesDir = ""
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server.port")
	assert.Contains(t, err.Error(), "logging.level")
	assert.Contains(t, err.Error(), "data.cookies_dir")
}

// Property-based tests

func TestPropertyValidPortRange(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		port := rapid.IntRange(1, 65535).Draw(t, "port")
		cfg := validConfig()
		cfg.Server.Port = port
		if err := cfg.Validate(); err != nil {
			t.Fatalf("valid port %d rejected: %v", port, err)
		}
	})
}

func TestPropertyInvalidPortRange(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		// Generate ports outside valid range
		port := rapid.OneOf(
			rapid.IntRange(-1000, 0),
			rapid.IntRange(65536, 100000),
		).Draw(t, "port")
		cfg := validConfig()
		cfg.Server.Port = port
		if err := cfg.Validate(); err == nil {
			t.Fatalf("invalid port %d accepted", port)
		}
	})
}

func TestPropertyDefaultsNeverExceedMax(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		maxC := rapid.IntRange(1, 100000).Draw(t, "max_candidates")
		defC := rapid.IntRange(1, maxC).Draw(t, "default_candidates")
		cfg := validConfig()
		cfg.Search.MaxCandidates = maxC
		cfg.Search.DefaultCandidates = defC
		if err := cfg.Validate(); err != nil {
			t.Fatalf("valid candidates max=%d default=%d rejected: %v", maxC, defC, err)
		}
	})
}

func TestPropertyGeneticRatesBounded(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		elite := rapid.Float64Range(0, 1).Draw(t, "elite_fraction")
		mutation := rapid.Float64Range(0, 1).Draw(t, "mutation_rate")
		cfg := validConfig()
		cfg.Search.Genetic.EliteFraction = elite
		cfg.Search.Genetic.MutationRate = mutation
		if err := cfg.Validate(); err != nil {
			t.Fatalf("valid rates elite=%g mutation=%g rejected: %v", elite, mutation, err)
		}
	})
}

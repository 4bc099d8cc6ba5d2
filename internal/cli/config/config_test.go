package config

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	// Register sources via init()
	_ "github.com/leapstack-labs/launchdash/pkg/sources/csv"
	_ "github.com/leapstack-labs/launchdash/pkg/sources/postgres"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "launchdash.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func validConfig() *Config {
	return &Config{
		Dataset:      DatasetConfig{Source: "csv", Path: "launches.csv"},
		Server:       ServerConfig{Port: DefaultPort},
		LogLevel:     DefaultLogLevel,
		OutputFormat: DefaultOutput,
	}
}

// TestLoadConfig_Defaults tests loading with no config file, env vars or flags.
func TestLoadConfig_Defaults(t *testing.T) {
	ResetConfig()
	t.Chdir(t.TempDir())

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, DefaultSource, cfg.Dataset.Source)
	assert.Equal(t, DefaultDatasetPath, cfg.Dataset.Path)
	assert.Equal(t, DefaultDebounce, cfg.Dataset.Debounce)
	assert.False(t, cfg.Dataset.Watch)
	assert.Equal(t, DefaultHost, cfg.Server.Host)
	assert.Equal(t, DefaultPort, cfg.Server.Port)
	assert.Empty(t, cfg.Server.SessionSecret)
	assert.Equal(t, DefaultLogLevel, cfg.LogLevel)
	assert.Equal(t, DefaultOutput, cfg.OutputFormat)
	assert.Empty(t, GetConfigFileUsed())
	assert.Empty(t, cfg.ConfigDir)
	assert.Same(t, cfg, GetCurrentConfig())
	assert.NoError(t, cfg.Validate())
}

// TestLoadConfig_File tests that file values override defaults.
func TestLoadConfig_File(t *testing.T) {
	ResetConfig()
	dir := t.TempDir()
	cfgPath := writeConfig(t, dir, `dataset:
  source: csv
  path: data/launches.csv
  watch: true
  debounce: 1s
server:
  host: 0.0.0.0
  port: 9000
log_level: WARN
output: json
`)

	cfg, err := LoadConfig(cfgPath, nil)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "data", "launches.csv"), cfg.Dataset.Path, "file path should resolve against the config directory")
	assert.True(t, cfg.Dataset.Watch)
	assert.Equal(t, time.Second, cfg.Dataset.Debounce)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "warn", cfg.LogLevel, "log level should be normalized")
	assert.Equal(t, "json", cfg.OutputFormat)
	assert.Equal(t, cfgPath, GetConfigFileUsed())
	assert.Equal(t, dir, cfg.ConfigDir)
}

// TestLoadConfig_AbsolutePathKept tests that absolute dataset paths are not rewritten.
func TestLoadConfig_AbsolutePathKept(t *testing.T) {
	ResetConfig()
	dir := t.TempDir()
	abs := filepath.Join(t.TempDir(), "launches.csv")
	cfgPath := writeConfig(t, dir, "dataset:\n  path: "+abs+"\n")

	cfg, err := LoadConfig(cfgPath, nil)
	require.NoError(t, err)
	assert.Equal(t, abs, cfg.Dataset.Path)
}

// TestLoadConfig_Discovery tests finding launchdash.yml in a parent directory.
func TestLoadConfig_Discovery(t *testing.T) {
	ResetConfig()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "launchdash.yml"), []byte("server:\n  port: 9001\n"), 0600))
	nested := filepath.Join(dir, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0750))
	t.Chdir(nested)

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, 9001, cfg.Server.Port)
	assert.Equal(t, "launchdash.yml", filepath.Base(GetConfigFileUsed()))
}

// TestLoadConfig_InvalidFile tests that unreadable config files are reported.
func TestLoadConfig_InvalidFile(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		ResetConfig()
		_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"), nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "error reading config file")
	})

	t.Run("malformed yaml", func(t *testing.T) {
		ResetConfig()
		cfgPath := writeConfig(t, t.TempDir(), "server: [port\n")
		_, err := LoadConfig(cfgPath, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "error reading config file")
	})

	t.Run("bad duration", func(t *testing.T) {
		ResetConfig()
		cfgPath := writeConfig(t, t.TempDir(), "dataset:\n  debounce: soon\n")
		_, err := LoadConfig(cfgPath, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unable to decode config")
	})
}

// TestLoadConfig_EnvPrecedenceOverFile tests that env vars override the config file.
func TestLoadConfig_EnvPrecedenceOverFile(t *testing.T) {
	ResetConfig()
	cfgPath := writeConfig(t, t.TempDir(), `server:
  port: 9000
  session_secret: from_file
`)

	t.Setenv("LAUNCHDASH_SERVER__PORT", "9100")
	t.Setenv("LAUNCHDASH_SERVER__SESSION_SECRET", "from_env")
	t.Setenv("LAUNCHDASH_LOG_LEVEL", "error")

	cfg, err := LoadConfig(cfgPath, nil)
	require.NoError(t, err)

	assert.Equal(t, 9100, cfg.Server.Port, "env var should override config file")
	assert.Equal(t, "from_env", cfg.Server.SessionSecret)
	assert.Equal(t, "error", cfg.LogLevel)
}

// TestLoadConfig_FlagPrecedence tests that flags override env vars and the config file.
func TestLoadConfig_FlagPrecedence(t *testing.T) {
	ResetConfig()
	cfgPath := writeConfig(t, t.TempDir(), `server:
  port: 9000
dataset:
  path: from_file.csv
`)
	t.Setenv("LAUNCHDASH_SERVER__PORT", "9100")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Int("port", 0, "port")
	flags.String("dataset", "", "dataset path")
	flags.String("site", "", "not a config flag")
	require.NoError(t, flags.Set("port", "9200"))
	require.NoError(t, flags.Set("dataset", "from_flag.csv"))
	require.NoError(t, flags.Set("site", "KSC LC-39A"))

	cfg, err := LoadConfig(cfgPath, flags)
	require.NoError(t, err)

	assert.Equal(t, 9200, cfg.Server.Port, "flag value should override config file and env var")
	assert.Equal(t, "from_flag.csv", cfg.Dataset.Path, "flag paths stay relative to the working directory")
}

// TestLoadConfig_FlagNotSetUsesEnv tests that unset flags fall back to env vars.
func TestLoadConfig_FlagNotSetUsesEnv(t *testing.T) {
	ResetConfig()
	cfgPath := writeConfig(t, t.TempDir(), "server:\n  port: 9000\n")
	t.Setenv("LAUNCHDASH_SERVER__PORT", "9100")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Int("port", DefaultPort, "port")

	cfg, err := LoadConfig(cfgPath, flags)
	require.NoError(t, err)
	assert.Equal(t, 9100, cfg.Server.Port, "env var should be used when flag is not set")
}

// TestLoadConfig_Verbose tests that verbose forces debug logging.
func TestLoadConfig_Verbose(t *testing.T) {
	ResetConfig()
	t.Chdir(t.TempDir())

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.BoolP("verbose", "v", false, "verbose")
	require.NoError(t, flags.Set("verbose", "true"))

	cfg, err := LoadConfig("", flags)
	require.NoError(t, err)
	assert.True(t, cfg.Verbose)
	assert.Equal(t, "debug", cfg.LogLevel)
}

// TestConfig_Validate tests the Config.Validate method.
func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(c *Config)
		errSubstr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{
			name:   "valid postgres",
			mutate: func(c *Config) { c.Dataset = DatasetConfig{Source: "postgres", DSN: "postgres://localhost/spacex"} },
		},
		{
			name:      "empty source",
			mutate:    func(c *Config) { c.Dataset.Source = "" },
			errSubstr: "dataset.source is required",
		},
		{
			name:      "unknown source",
			mutate:    func(c *Config) { c.Dataset.Source = "parquet" },
			errSubstr: "parquet",
		},
		{
			name:      "missing path",
			mutate:    func(c *Config) { c.Dataset.Path = "" },
			errSubstr: "dataset.path is required",
		},
		{
			name:      "postgres without dsn",
			mutate:    func(c *Config) { c.Dataset = DatasetConfig{Source: "postgres"} },
			errSubstr: "dataset.dsn is required",
		},
		{
			name:      "postgres watch",
			mutate:    func(c *Config) { c.Dataset = DatasetConfig{Source: "postgres", DSN: "postgres://x", Watch: true} },
			errSubstr: "only supported for file sources",
		},
		{
			name:      "negative debounce",
			mutate:    func(c *Config) { c.Dataset.Debounce = -time.Second },
			errSubstr: "dataset.debounce",
		},
		{
			name:      "port zero",
			mutate:    func(c *Config) { c.Server.Port = 0 },
			errSubstr: "server.port",
		},
		{
			name:      "port too large",
			mutate:    func(c *Config) { c.Server.Port = 70000 },
			errSubstr: "server.port",
		},
		{
			name:      "unknown log level",
			mutate:    func(c *Config) { c.LogLevel = "trace" },
			errSubstr: "log_level",
		},
		{
			name:      "unknown output",
			mutate:    func(c *Config) { c.OutputFormat = "xml" },
			errSubstr: "output must be one of",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.errSubstr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errSubstr)
		})
	}
}

func TestDatasetConfig_SourceConfig(t *testing.T) {
	d := DatasetConfig{Source: "sqlite", Path: "launches.db", Table: "spacex", Options: map[string]string{"k": "v"}}
	sc := d.SourceConfig()

	assert.Equal(t, "sqlite", sc.Type)
	assert.Equal(t, "launches.db", sc.Path)
	assert.Equal(t, "spacex", sc.TableName())
	assert.Equal(t, "v", sc.Options["k"])
}

func TestNewLogger(t *testing.T) {
	tests := []struct {
		level string
		debug bool
		warn  bool
	}{
		{level: "debug", debug: true, warn: true},
		{level: "info", warn: true},
		{level: "warn", warn: true},
		{level: "error"},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			var buf bytes.Buffer
			logger := NewLogger(&Config{LogLevel: tt.level}, &buf)
			ctx := context.Background()

			assert.Equal(t, tt.debug, logger.Enabled(ctx, slog.LevelDebug))
			assert.Equal(t, tt.warn, logger.Enabled(ctx, slog.LevelWarn))
			assert.True(t, logger.Enabled(ctx, slog.LevelError))

			logger.Error("boom", "k", "v")
			assert.Contains(t, buf.String(), "msg=boom")
		})
	}
}

func TestGetLogger(t *testing.T) {
	assert.NotNil(t, GetLogger(context.Background()), "missing logger should fall back to a discard logger")

	logger := slog.New(slog.DiscardHandler)
	ctx := context.WithValue(context.Background(), LoggerKey(), logger)
	assert.Same(t, logger, GetLogger(ctx))
}

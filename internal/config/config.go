package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DefaultURLTemplate is the westmetall LME cash table, {symbol} is replaced per metal
const DefaultURLTemplate = "https://www.westmetall.com/en/markdaten.php?action=table&field=LME_{symbol}_cash"

// Config defines the application configuration structure
type Config struct {
	Source  SourceConfig  `mapstructure:"source"`
	Storage StorageConfig `mapstructure:"storage"`
	Run     RunConfig     `mapstructure:"run"`
}

// SourceConfig defines where and how price tables are fetched
type SourceConfig struct {
	URLTemplate string `mapstructure:"url_template"`
	UserAgent   string `mapstructure:"user_agent"`
	Timeout     int    `mapstructure:"timeout"`
}

// StorageConfig defines where price records are kept
type StorageConfig struct {
	DataDir        string `mapstructure:"data_dir"`
	ParquetEnabled bool   `mapstructure:"parquet_enabled"`
	ParquetDir     string `mapstructure:"parquet_dir"`
}

// RunConfig defines per-run behaviour
type RunConfig struct {
	Symbols      []string `mapstructure:"symbols"`
	RequestDelay int      `mapstructure:"request_delay"`
	Verbose      bool     `mapstructure:"verbose"`
}

// LoadConfig loads configuration from file and overrides with environment variables.
// A missing file is not an error, the defaults describe a complete setup.
func LoadConfig(path string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("failed to load .env file", "err", err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("METALDATA")

	v.BindEnv("source.url_template", "METALDATA_URL_TEMPLATE")
	v.BindEnv("source.user_agent", "METALDATA_USER_AGENT")
	v.BindEnv("source.timeout", "METALDATA_TIMEOUT")

	v.BindEnv("storage.data_dir", "METALDATA_DATA_DIR")
	v.BindEnv("storage.parquet_enabled", "METALDATA_PARQUET_ENABLED")
	v.BindEnv("storage.parquet_dir", "METALDATA_PARQUET_DIR")

	v.BindEnv("run.symbols", "METALDATA_SYMBOLS")
	v.BindEnv("run.request_delay", "METALDATA_REQUEST_DELAY")
	v.BindEnv("run.verbose", "METALDATA_VERBOSE")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist) {
			slog.Debug("config file not found, using environment and defaults", "path", path)
		} else {
			slog.Warn("failed to read config file, using environment and defaults", "path", path, "err", err)
		}
	} else {
		slog.Debug("loaded config file", "path", v.ConfigFileUsed())
	}

	// Env vars take precedence over the file.
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return Config{}, fmt.Errorf("error unmarshaling config: %w", err)
	}

	applyDefaults(&config)
	return config, nil
}

// Default returns the configuration used when nothing is set
func Default() Config {
	var config Config
	applyDefaults(&config)
	return config
}

// applyDefaults sets default values for any config values not set from file or environment
func applyDefaults(config *Config) {
	if config.Source.URLTemplate == "" {
		config.Source.URLTemplate = DefaultURLTemplate
	}
	if config.Source.UserAgent == "" {
		config.Source.UserAgent = "metaldata/1.0"
	}
	if config.Source.Timeout <= 0 {
		config.Source.Timeout = 30
	}

	if config.Storage.DataDir == "" {
		config.Storage.DataDir = "./data"
	}
	if config.Storage.ParquetDir == "" {
		config.Storage.ParquetDir = "./parquet_data"
	}

	if config.Run.RequestDelay < 0 {
		config.Run.RequestDelay = 0
	}
}

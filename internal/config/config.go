package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/lehmann314159/kabyedict/internal/repository"
)

// Config holds all configuration for the application
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Storage StorageConfig `mapstructure:"storage"`
	Log     LogConfig     `mapstructure:"log"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port" validate:"min=1,max=65535"`
}

// StorageConfig selects the persistence backend
type StorageConfig struct {
	Backend string       `mapstructure:"backend" validate:"oneof=memory kv file sqlite"`
	File    FileConfig   `mapstructure:"file"`
	KV      KVConfig     `mapstructure:"kv"`
	SQLite  SQLiteConfig `mapstructure:"sqlite"`
}

// FileConfig locates the JSON document of the file backend
type FileConfig struct {
	Path string `mapstructure:"path" validate:"required"`
}

// KVConfig points the kv backend at a Replit-DB style key-value store
type KVConfig struct {
	URL     string        `mapstructure:"url"`
	Key     string        `mapstructure:"key" validate:"required"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// SQLiteConfig locates the database file of the sqlite backend
type SQLiteConfig struct {
	Path string `mapstructure:"path" validate:"required"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=trace debug info warn warning error fatal panic"`
	Format string `mapstructure:"format" validate:"oneof=text json"`
}

// Load reads configuration from an optional file and the environment.
// configFile may be empty, in which case config.yaml is looked up in . and ./config.
func Load(configFile string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	setDefaults(v)

	v.SetEnvPrefix("KABYEDICT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Variables understood by the hosting platform
	if err := v.BindEnv("server.port", "KABYEDICT_SERVER_PORT", "PORT"); err != nil {
		return nil, fmt.Errorf("failed to bind PORT environment variable: %w", err)
	}
	if err := v.BindEnv("storage.kv.url", "KABYEDICT_STORAGE_KV_URL", "REPLIT_DB_URL"); err != nil {
		return nil, fmt.Errorf("failed to bind REPLIT_DB_URL environment variable: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		// An explicitly named file must exist
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 5000)

	v.SetDefault("storage.backend", repository.BackendMemory)
	v.SetDefault("storage.file.path", "dictionnaire_kabye.json")
	v.SetDefault("storage.kv.url", "")
	v.SetDefault("storage.kv.key", "dictionnaire_kabye")
	v.SetDefault("storage.kv.timeout", 5*time.Second)
	v.SetDefault("storage.sqlite.path", "dictionnaire_kabye.db")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// Validate checks field constraints and cross-field requirements
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if c.Storage.Backend == repository.BackendKV && c.Storage.KV.URL == "" {
		return errors.New("invalid configuration: storage.kv.url (or REPLIT_DB_URL) is required for the kv backend")
	}
	return nil
}

// Address returns the host:port the HTTP server listens on
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// StorageOptions converts the storage section for repository.Open
func (c *Config) StorageOptions() repository.Options {
	return repository.Options{
		Backend:    c.Storage.Backend,
		FilePath:   c.Storage.File.Path,
		KVURL:      c.Storage.KV.URL,
		KVKey:      c.Storage.KV.Key,
		KVTimeout:  c.Storage.KV.Timeout,
		SQLitePath: c.Storage.SQLite.Path,
	}
}

// Package config loads genrep.cfg.json, an optional .env file and GENREP_*
// environment overrides through viper.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/zhstats/genrep/internal/outcome"
)

// FileName is the configuration file looked up in the config directory.
const FileName = "genrep.cfg.json"

// EnvPrefix prefixes environment overrides, e.g. GENREP_STORAGE_TYPE.
const EnvPrefix = "GENREP"

// MemoryConfig holds in-memory/JSON storage backend settings
type MemoryConfig struct {
	OutputDir      string `json:"outputDir" mapstructure:"outputDir"`
	CompressOutput bool   `json:"compressOutput" mapstructure:"compressOutput"`
}

// SQLiteConfig holds settings of the sqlite record store.
type SQLiteConfig struct {
	Path         string        `json:"path" mapstructure:"path"`
	DumpInterval time.Duration `json:"dumpInterval" mapstructure:"dumpInterval"`
}

// WebsocketConfig holds settings of the streaming record sink.
type WebsocketConfig struct {
	URL        string        `json:"url" mapstructure:"url"`
	Secret     string        `json:"secret" mapstructure:"secret"`
	AckTimeout time.Duration `json:"ackTimeout" mapstructure:"ackTimeout"`
}

// StorageConfig selects where decoded records are written.
type StorageConfig struct {
	Type      string          `json:"type" mapstructure:"type"`
	Memory    MemoryConfig    `json:"memory" mapstructure:"memory"`
	SQLite    SQLiteConfig    `json:"sqlite" mapstructure:"sqlite"`
	Websocket WebsocketConfig `json:"websocket" mapstructure:"websocket"`
}

// OTelConfig holds OpenTelemetry settings
type OTelConfig struct {
	Enabled      bool          `json:"enabled" mapstructure:"enabled"`
	ServiceName  string        `json:"serviceName" mapstructure:"serviceName"`
	BatchTimeout time.Duration `json:"batchTimeout" mapstructure:"batchTimeout"`
	Endpoint     string        `json:"endpoint" mapstructure:"endpoint"`
	Insecure     bool          `json:"insecure" mapstructure:"insecure"`
}

// IndexConfig configures the duplicate-match index.
type IndexConfig struct {
	Driver           string `json:"driver" mapstructure:"driver"`
	Path             string `json:"path" mapstructure:"path"`
	DeleteDuplicates bool   `json:"deleteDuplicates" mapstructure:"deleteDuplicates"`
}

// InfluxConfig configures per-match metric points.
type InfluxConfig struct {
	Enabled   bool   `json:"enabled" mapstructure:"enabled"`
	Host      string `json:"host" mapstructure:"host"`
	Port      string `json:"port" mapstructure:"port"`
	Protocol  string `json:"protocol" mapstructure:"protocol"`
	Token     string `json:"token" mapstructure:"token"`
	Org       string `json:"org" mapstructure:"org"`
	Bucket    string `json:"bucket" mapstructure:"bucket"`
	BackupDir string `json:"backupDir" mapstructure:"backupDir"`
}

// APIConfig configures remote replay retrieval.
type APIConfig struct {
	Timeout   time.Duration `json:"timeout" mapstructure:"timeout"`
	UserAgent string        `json:"userAgent" mapstructure:"userAgent"`
	MaxBytes  int64         `json:"maxBytes" mapstructure:"maxBytes"`
}

func setDefaults() {
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logsDir", "./genreplogs")
	viper.SetDefault("workers", 0)

	viper.SetDefault("outcome.strategy", outcome.StrategyAuto)
	viper.SetDefault("outcome.tailFraction", outcome.DefaultTailFraction)
	viper.SetDefault("outcome.idleCheck", true)

	viper.SetDefault("index.driver", "sqlite")
	viper.SetDefault("index.path", "replay_index.db")
	viper.SetDefault("index.deleteDuplicates", false)

	viper.SetDefault("db.host", "localhost")
	viper.SetDefault("db.port", "5432")
	viper.SetDefault("db.username", "postgres")
	viper.SetDefault("db.password", "postgres")
	viper.SetDefault("db.database", "genrep")

	viper.SetDefault("storage.type", "memory")
	viper.SetDefault("storage.memory.outputDir", "./records")
	viper.SetDefault("storage.memory.compressOutput", true)
	viper.SetDefault("storage.sqlite.path", "records.db")
	viper.SetDefault("storage.sqlite.dumpInterval", "30s")
	viper.SetDefault("storage.websocket.url", "")
	viper.SetDefault("storage.websocket.secret", "")
	viper.SetDefault("storage.websocket.ackTimeout", "10s")

	viper.SetDefault("influx.enabled", false)
	viper.SetDefault("influx.host", "localhost")
	viper.SetDefault("influx.port", "8086")
	viper.SetDefault("influx.protocol", "http")
	viper.SetDefault("influx.token", "")
	viper.SetDefault("influx.org", "genrep")
	viper.SetDefault("influx.bucket", "matches")
	viper.SetDefault("influx.backupDir", "./influx_backup")

	viper.SetDefault("api.timeout", "30s")
	viper.SetDefault("api.userAgent", "genrep")
	viper.SetDefault("api.maxBytes", 16<<20)

	viper.SetDefault("report.path", "win_rates.txt")

	viper.SetDefault("otel.enabled", false)
	viper.SetDefault("otel.serviceName", "genrep")
	viper.SetDefault("otel.batchTimeout", "5s")
	viper.SetDefault("otel.endpoint", "")
	viper.SetDefault("otel.insecure", true)
}

// Load reads configuration from the JSON file in configDir and sets default
// values. A missing file or .env is not an error.
func Load(configDir string) error {
	if err := godotenv.Load(filepath.Join(configDir, ".env")); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("error reading env file: %w", err)
	}

	setDefaults()

	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetConfigName(FileName)
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	err := viper.ReadInConfig()
	var notFound viper.ConfigFileNotFoundError
	if err != nil && !errors.As(err, &notFound) {
		return fmt.Errorf("error reading config file: %w", err)
	}

	return nil
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value.
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool returns a bool config value.
func GetBool(key string) bool {
	return viper.GetBool(key)
}

// GetStorageConfig returns the record sink settings.
func GetStorageConfig() StorageConfig {
	return StorageConfig{
		Type: viper.GetString("storage.type"),
		Memory: MemoryConfig{
			OutputDir:      viper.GetString("storage.memory.outputDir"),
			CompressOutput: viper.GetBool("storage.memory.compressOutput"),
		},
		SQLite: SQLiteConfig{
			Path:         viper.GetString("storage.sqlite.path"),
			DumpInterval: viper.GetDuration("storage.sqlite.dumpInterval"),
		},
		Websocket: WebsocketConfig{
			URL:        viper.GetString("storage.websocket.url"),
			Secret:     viper.GetString("storage.websocket.secret"),
			AckTimeout: viper.GetDuration("storage.websocket.ackTimeout"),
		},
	}
}

// GetOTelConfig returns the OpenTelemetry settings.
func GetOTelConfig() OTelConfig {
	return OTelConfig{
		Enabled:      viper.GetBool("otel.enabled"),
		ServiceName:  viper.GetString("otel.serviceName"),
		BatchTimeout: viper.GetDuration("otel.batchTimeout"),
		Endpoint:     viper.GetString("otel.endpoint"),
		Insecure:     viper.GetBool("otel.insecure"),
	}
}

// GetOutcomeConfig returns the outcome engine settings.
func GetOutcomeConfig() outcome.Config {
	return outcome.Config{
		Strategy:     viper.GetString("outcome.strategy"),
		TailFraction: viper.GetFloat64("outcome.tailFraction"),
		IdleCheck:    viper.GetBool("outcome.idleCheck"),
	}
}

// GetIndexConfig returns the duplicate index settings.
func GetIndexConfig() IndexConfig {
	return IndexConfig{
		Driver:           viper.GetString("index.driver"),
		Path:             viper.GetString("index.path"),
		DeleteDuplicates: viper.GetBool("index.deleteDuplicates"),
	}
}

// GetInfluxConfig returns the InfluxDB settings.
func GetInfluxConfig() InfluxConfig {
	return InfluxConfig{
		Enabled:   viper.GetBool("influx.enabled"),
		Host:      viper.GetString("influx.host"),
		Port:      viper.GetString("influx.port"),
		Protocol:  viper.GetString("influx.protocol"),
		Token:     viper.GetString("influx.token"),
		Org:       viper.GetString("influx.org"),
		Bucket:    viper.GetString("influx.bucket"),
		BackupDir: viper.GetString("influx.backupDir"),
	}
}

// GetAPIConfig returns the remote retrieval settings.
func GetAPIConfig() APIConfig {
	return APIConfig{
		Timeout:   viper.GetDuration("api.timeout"),
		UserAgent: viper.GetString("api.userAgent"),
		MaxBytes:  viper.GetInt64("api.maxBytes"),
	}
}

package config

import (
	"github.com/ajitpratap0/soa/pkg/errors"
)

const (
	// BackendMemory selects the in-memory Arrow batch list
	BackendMemory = "memory"
	// BackendParquet selects the on-disk Parquet file
	BackendParquet = "parquet"
)

// Config is the top-level configuration structure.
type Config struct {
	// Logging configures the global zap logger
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging" json:"logging"`

	// Storage selects and tunes the persistence backend
	Storage StorageConfig `mapstructure:"storage" yaml:"storage" json:"storage"`

	// Tracing configures the OpenTelemetry exporter
	Tracing TracingConfig `mapstructure:"tracing" yaml:"tracing" json:"tracing"`

	// Generator holds defaults for the code generator
	Generator GeneratorConfig `mapstructure:"generator" yaml:"generator" json:"generator"`
}

// LoggingConfig mirrors logger.Config.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error
	Level string `mapstructure:"level" yaml:"level" json:"level"`
	// Encoding is json or console
	Encoding string `mapstructure:"encoding" yaml:"encoding" json:"encoding"`
	// Development enables colored levels and stack traces on errors
	Development bool `mapstructure:"development" yaml:"development" json:"development"`
}

// StorageConfig contains persistence backend settings.
type StorageConfig struct {
	// Backend is memory or parquet
	Backend string `mapstructure:"backend" yaml:"backend" json:"backend"`
	// Dir is the dataset directory holding data.parquet
	Dir string `mapstructure:"dir" yaml:"dir" json:"dir"`
	// Compression is the Parquet page codec (none, snappy, gzip, zstd, lz4, brotli)
	Compression string `mapstructure:"compression" yaml:"compression" json:"compression"`
	// PageSize is the Parquet data page size in bytes
	PageSize int `mapstructure:"page_size" yaml:"page_size" json:"page_size"`
	// SnapshotCompression is the stream codec for in-memory snapshots
	SnapshotCompression string `mapstructure:"snapshot_compression" yaml:"snapshot_compression" json:"snapshot_compression"`
}

// TracingConfig selects the span exporter.
type TracingConfig struct {
	// Exporter is none or stdout
	Exporter string `mapstructure:"exporter" yaml:"exporter" json:"exporter"`
	// SamplingRate is the fraction of traces kept, between 0 and 1
	SamplingRate float64 `mapstructure:"sampling_rate" yaml:"sampling_rate" json:"sampling_rate"`
}

// GeneratorConfig contains code generator defaults.
type GeneratorConfig struct {
	// DefaultShards applies when a shape omits shards
	DefaultShards int `mapstructure:"default_shards" yaml:"default_shards" json:"default_shards"`
	// DefaultKey applies when a shape omits key
	DefaultKey string `mapstructure:"default_key" yaml:"default_key" json:"default_key"`
}

// Default returns a configuration with every field set to its default.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:    "info",
			Encoding: "json",
		},
		Storage: StorageConfig{
			Backend:             BackendMemory,
			Dir:                 "./data",
			Compression:         "snappy",
			PageSize:            1024 * 1024,
			SnapshotCompression: "zstd",
		},
		Tracing: TracingConfig{
			Exporter:     "none",
			SamplingRate: 1.0,
		},
		Generator: GeneratorConfig{
			DefaultShards: 16,
			DefaultKey:    "id",
		},
	}
}

var validCompression = map[string]bool{
	"none": true, "snappy": true, "gzip": true, "zstd": true, "lz4": true, "brotli": true,
}

var validSnapshotCompression = map[string]bool{
	"none": true, "snappy": true, "gzip": true, "zstd": true, "lz4": true, "s2": true, "deflate": true,
}

// Validate checks value ranges and enumerations.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case BackendMemory:
	case BackendParquet:
		if c.Storage.Dir == "" {
			return errors.New(errors.ErrorTypeConfig, "storage.dir is required for the parquet backend")
		}
	default:
		return errors.Newf(errors.ErrorTypeConfig, "unknown storage.backend %q", c.Storage.Backend)
	}
	if !validCompression[c.Storage.Compression] {
		return errors.Newf(errors.ErrorTypeConfig, "unknown storage.compression %q", c.Storage.Compression)
	}
	if !validSnapshotCompression[c.Storage.SnapshotCompression] {
		return errors.Newf(errors.ErrorTypeConfig, "unknown storage.snapshot_compression %q", c.Storage.SnapshotCompression)
	}
	if c.Storage.PageSize <= 0 {
		return errors.New(errors.ErrorTypeConfig, "storage.page_size must be positive")
	}
	if c.Tracing.Exporter != "none" && c.Tracing.Exporter != "stdout" {
		return errors.Newf(errors.ErrorTypeConfig, "unknown tracing.exporter %q", c.Tracing.Exporter)
	}
	if c.Tracing.SamplingRate < 0 || c.Tracing.SamplingRate > 1 {
		return errors.New(errors.ErrorTypeConfig, "tracing.sampling_rate must be between 0 and 1")
	}
	if c.Generator.DefaultShards < 1 {
		return errors.New(errors.ErrorTypeConfig, "generator.default_shards must be at least 1")
	}
	if c.Generator.DefaultKey == "" {
		return errors.New(errors.ErrorTypeConfig, "generator.default_key is required")
	}
	return nil
}

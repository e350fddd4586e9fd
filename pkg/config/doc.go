// Package config provides configuration loading for the SoA engine and its
// tooling.
//
// A single Config structure covers what the engine needs to be told about
// from the outside:
//
//   - Logging: level, encoding and development mode for pkg/logger
//   - Storage: which persistence backend to use, where, and how to compress
//   - Tracing: the OpenTelemetry span exporter
//   - Generator: defaults applied to shapes that omit a key or shard count
//
// # Usage
//
//	cfg, err := config.Load("soa.yaml")
//	if err != nil {
//		log.Fatal(err)
//	}
//
// An empty path loads defaults plus environment overrides only.
//
// # Environment Overrides
//
// Every key can be overridden with an SOA_ prefixed variable, dots replaced
// by underscores:
//
//	SOA_STORAGE_BACKEND=parquet
//	SOA_STORAGE_DIR=/var/lib/orders
//	SOA_LOGGING_LEVEL=debug
//
// # File Format
//
//	logging:
//	  level: info
//	  encoding: json
//	storage:
//	  backend: parquet
//	  dir: ./data/orders
//	  compression: zstd
//	  page_size: 8192
//	tracing:
//	  exporter: stdout
//	  sampling_rate: 0.1
//	generator:
//	  default_shards: 16
//	  default_key: id
package config

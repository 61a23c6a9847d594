// Package config provides the configuration schema, loader, and provider
// registry for the call-ticket extraction service.
package config

import "time"

// LogLevel controls log verbosity.
type LogLevel string

const (
	LogDebug LogLevel = "debug"
	LogInfo  LogLevel = "info"
	LogWarn  LogLevel = "warn"
	LogError LogLevel = "error"
)

// IsValid reports whether l is a recognised log level.
func (l LogLevel) IsValid() bool {
	switch l {
	case LogDebug, LogInfo, LogWarn, LogError:
		return true
	}
	return false
}

// Config is the root configuration structure. It is typically loaded from
// a YAML file using [Load] or [LoadFromReader].
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Providers  ProvidersConfig  `yaml:"providers"`
	Vocabulary VocabularyConfig `yaml:"vocabulary"`
	Pipeline   PipelineConfig   `yaml:"pipeline"`
}

// ServerConfig holds logging and metrics settings.
type ServerConfig struct {
	// LogLevel controls verbosity.
	LogLevel LogLevel `yaml:"log_level"`

	// MetricsAddr is the TCP address the Prometheus /metrics endpoint
	// listens on. Empty disables the endpoint.
	MetricsAddr string `yaml:"metrics_addr"`
}

// ProvidersConfig declares which provider implementation to use for each
// external dependency. Each field selects a named provider registered in
// the [Registry].
type ProvidersConfig struct {
	LLM ProviderEntry `yaml:"llm"`
	STT ProviderEntry `yaml:"stt"`

	// LLMFallbacks lists backends tried in order when the primary LLM
	// provider fails or its breaker is tripped.
	LLMFallbacks []ProviderEntry `yaml:"llm_fallbacks"`
}

// ProviderEntry is the common configuration block shared by all provider
// types. The Name field is used to look up the constructor in the
// [Registry].
type ProviderEntry struct {
	// Name selects the registered provider implementation
	// (e.g., "openai", "whisper").
	Name string `yaml:"name"`

	// APIKey is the authentication key for the provider's API if any.
	APIKey string `yaml:"api_key"`

	// BaseURL overrides the provider's default API endpoint.
	BaseURL string `yaml:"base_url"`

	// Model selects a specific model within the provider — a model name
	// for LLM providers, a model file path for whisper.
	Model string `yaml:"model"`

	// Options holds provider-specific configuration values not covered by
	// the standard fields above.
	Options map[string]any `yaml:"options"`
}

// VocabularyConfig locates the tabular reference data.
type VocabularyConfig struct {
	// Dir is the directory holding equipment.csv, fault_types.csv, and
	// request_types.csv.
	Dir string `yaml:"dir"`
}

// PipelineConfig tunes the extraction pipeline.
type PipelineConfig struct {
	// SimilarityThreshold is the minimum ratio for a fuzzy vocabulary
	// match. Zero means the built-in default (0.8).
	SimilarityThreshold float64 `yaml:"similarity_threshold"`

	// MaxRetries is how many additional completion attempts follow a
	// failed first one. Nil means the built-in default (2); zero disables
	// retries entirely.
	MaxRetries *int `yaml:"max_retries"`

	// RequestTimeout bounds a single completion attempt. Zero means the
	// built-in default (30s).
	RequestTimeout time.Duration `yaml:"request_timeout"`

	// Workers caps how many recordings are processed concurrently in
	// batch mode. Zero means the built-in default (4).
	Workers int `yaml:"workers"`
}

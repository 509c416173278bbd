package types

import "time"

// HTTPConfig holds shared HTTP settings used by components that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "newsriver/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// RegistryConfig holds settings for the Event Registry client.
type RegistryConfig struct {
	HTTPConfig `yaml:",inline"`

	// BaseURL is the Event Registry API root. Empty means the public
	// endpoint; tests point it at an httptest server.
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty"`

	// APIKey authenticates every request. Required.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// MaxRetries bounds the client's retry-on-failure policy.
	// -1 retries indefinitely, 0 uses the built-in default.
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// LedgerConfig holds settings for the optional run ledger.
type LedgerConfig struct {
	// Path is the SQLite database file. Empty disables the ledger.
	Path string `json:"path,omitempty" yaml:"path,omitempty"`

	// MaxResults is the default maximum number of runs listed (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// Config groups all component configurations.
type Config struct {
	LogLevel string         `json:"log_level" yaml:"log_level"`
	Registry RegistryConfig `json:"registry" yaml:"registry"`
	Ledger   LedgerConfig   `json:"ledger" yaml:"ledger"`
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// ConversionBackend identifies the tool used to turn documents into Markdown.
type ConversionBackend string

const (
	// BackendNative converts in-process with the Go PDF and HTML libraries.
	BackendNative ConversionBackend = "native"
	// BackendMarkitdown pipes documents through the markitdown container image.
	BackendMarkitdown ConversionBackend = "markitdown"
)

// ConversionConfig holds settings for the conversion backends.
type ConversionConfig struct {
	// Backend selects the conversion tool: native or markitdown.
	Backend ConversionBackend `json:"backend" yaml:"backend"`

	// Timeout bounds a single conversion (default 2m).
	Timeout time.Duration `json:"convert_timeout" yaml:"convert_timeout"`

	// MarkitdownImage is the container image used by the markitdown backend
	// (default "markitdown:latest").
	MarkitdownImage string `json:"markitdown_image" yaml:"markitdown_image"`
}

// ServerConfig holds everything the serve command needs. It is built once at
// startup and never mutated afterwards.
type ServerConfig struct {
	ConversionConfig `yaml:",inline"`

	// APIKey is the shared secret compared against the x-api-key header.
	APIKey string `json:"-" yaml:"api_key"`

	// Listen is the TCP address the HTTP server binds (default ":8000").
	Listen string `json:"listen" yaml:"listen"`

	// TmpDir is the directory temporary artifacts are written to
	// (default os.TempDir()).
	TmpDir string `json:"tmp_dir" yaml:"tmp_dir"`

	// MaxPayloadBytes caps the size of a request body (default 50 MiB).
	MaxPayloadBytes int64 `json:"max_payload_bytes" yaml:"max_payload_bytes"`

	// ShutdownTimeout bounds graceful shutdown (default 30s).
	ShutdownTimeout time.Duration `json:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// ClientConfig holds settings for calling a remote marker server.
type ClientConfig struct {
	// Host is the base URL of the server (e.g. "http://localhost:8000").
	Host string `json:"host" yaml:"host"`

	// APIKey is sent in the x-api-key header.
	APIKey string `json:"-" yaml:"api_key"`

	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// MaxRetries is the number of retries on HTTP 429 (default 5).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

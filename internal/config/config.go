// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package config resolves marker settings from flags, the environment, an
// optional .env file, an optional YAML config file and the .secrets/
// directory, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/pdiddy/marker/pkg/types"
)

// Keys understood by viper. Each maps to MARKER_<KEY> in the environment.
const (
	KeyAPIKey          = "api_key"
	KeyListen          = "listen"
	KeyTmpDir          = "tmp_dir"
	KeyBackend         = "backend"
	KeyMarkitdownImage = "markitdown_image"
	KeyConvertTimeout  = "convert_timeout"
	KeyMaxPayloadBytes = "max_payload_bytes"
	KeyShutdownTimeout = "shutdown_timeout"
	KeyLogLevel        = "log_level"
	KeyHost            = "host"
	KeyClientTimeout   = "client_timeout"
	KeyMaxRetries      = "max_retries"
)

// SecretAPIKey is the file under .secrets/ that may hold the API key.
const SecretAPIKey = "api-key"

const envPrefix = "MARKER"

// ErrMissingAPIKey is returned at startup when no API key is configured.
var ErrMissingAPIKey = errors.New("api key not configured: set MARKER_API_KEY or API_KEY, add it to .env, or write .secrets/" + SecretAPIKey)

// Defaults for every optional setting.
const (
	DefaultListen          = ":8000"
	DefaultConvertTimeout  = 2 * time.Minute
	DefaultMaxPayloadBytes = 50 << 20
	DefaultShutdownTimeout = 30 * time.Second
	DefaultLogLevel        = "info"
	DefaultHost            = "http://localhost:8000"
	DefaultClientTimeout   = 5 * time.Minute
	DefaultMaxRetries      = 5
)

// Setup registers defaults and environment bindings on v. API_KEY is
// accepted alongside MARKER_API_KEY for compatibility with existing
// deployments.
func Setup(v *viper.Viper) error {
	v.SetDefault(KeyListen, DefaultListen)
	v.SetDefault(KeyBackend, string(types.BackendNative))
	v.SetDefault(KeyConvertTimeout, DefaultConvertTimeout)
	v.SetDefault(KeyMaxPayloadBytes, DefaultMaxPayloadBytes)
	v.SetDefault(KeyShutdownTimeout, DefaultShutdownTimeout)
	v.SetDefault(KeyLogLevel, DefaultLogLevel)
	v.SetDefault(KeyHost, DefaultHost)
	v.SetDefault(KeyClientTimeout, DefaultClientTimeout)
	v.SetDefault(KeyMaxRetries, DefaultMaxRetries)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	if err := v.BindEnv(KeyAPIKey, envPrefix+"_API_KEY", "API_KEY"); err != nil {
		return fmt.Errorf("binding %s: %w", KeyAPIKey, err)
	}
	return nil
}

// LoadEnvFile loads KEY=value pairs from path into the process environment
// without overriding variables that are already set. A missing file is not
// an error.
func LoadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("loading env file %s: %w", path, err)
	}
	return nil
}

// apiKey returns the configured key, falling back to the secrets directory.
func apiKey(v *viper.Viper, secrets map[string]string) string {
	if k := strings.TrimSpace(v.GetString(KeyAPIKey)); k != "" {
		return k
	}
	return secrets[SecretAPIKey]
}

// LoadConversion builds and validates the conversion backend settings. It
// needs no API key and serves local conversion as well as the server.
func LoadConversion(v *viper.Viper) (types.ConversionConfig, error) {
	cfg := types.ConversionConfig{
		Backend:         types.ConversionBackend(strings.ToLower(v.GetString(KeyBackend))),
		Timeout:         v.GetDuration(KeyConvertTimeout),
		MarkitdownImage: v.GetString(KeyMarkitdownImage),
	}
	err := validation.ValidateStruct(&cfg,
		validation.Field(&cfg.Backend, validation.In(types.BackendNative, types.BackendMarkitdown)),
		validation.Field(&cfg.Timeout, validation.Min(time.Duration(0))),
	)
	if err != nil {
		return types.ConversionConfig{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// LoadServer builds and validates the serve configuration. A missing API
// key yields ErrMissingAPIKey.
func LoadServer(v *viper.Viper, secrets map[string]string) (types.ServerConfig, error) {
	cfg := types.ServerConfig{
		APIKey:          apiKey(v, secrets),
		Listen:          v.GetString(KeyListen),
		TmpDir:          v.GetString(KeyTmpDir),
		MaxPayloadBytes: v.GetInt64(KeyMaxPayloadBytes),
		ShutdownTimeout: v.GetDuration(KeyShutdownTimeout),
	}

	if cfg.APIKey == "" {
		return types.ServerConfig{}, ErrMissingAPIKey
	}

	conv, err := LoadConversion(v)
	if err != nil {
		return types.ServerConfig{}, err
	}
	cfg.ConversionConfig = conv

	err = validation.ValidateStruct(&cfg,
		validation.Field(&cfg.Listen, validation.Required),
		validation.Field(&cfg.MaxPayloadBytes, validation.Required, validation.Min(int64(1))),
		validation.Field(&cfg.ShutdownTimeout, validation.Min(time.Duration(0))),
	)
	if err != nil {
		return types.ServerConfig{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// LoadClient builds the configuration for calling a remote server.
func LoadClient(v *viper.Viper, secrets map[string]string) (types.ClientConfig, error) {
	cfg := types.ClientConfig{
		Host:       strings.TrimRight(v.GetString(KeyHost), "/"),
		APIKey:     apiKey(v, secrets),
		Timeout:    v.GetDuration(KeyClientTimeout),
		MaxRetries: v.GetInt(KeyMaxRetries),
	}
	if cfg.APIKey == "" {
		return types.ClientConfig{}, ErrMissingAPIKey
	}
	err := validation.ValidateStruct(&cfg,
		validation.Field(&cfg.Host, validation.Required),
		validation.Field(&cfg.Timeout, validation.Min(time.Duration(0))),
		validation.Field(&cfg.MaxRetries, validation.Min(0)),
	)
	if err != nil {
		return types.ClientConfig{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"
)

// Config holds per-process settings resolved from the environment.
type Config struct {
	// Application
	LogLevel string

	// Endpoints
	ClobURL string
	WSURL   string
	RPCURL  string
}

// LoadFromEnv loads configuration from environment variables with defaults.
func LoadFromEnv() *Config {
	return &Config{
		LogLevel: getEnvOrDefault("LOG_LEVEL", "info"),
		ClobURL:  getEnvOrDefault("POLYMARKET_CLOB_URL", "https://clob.polymarket.com"),
		WSURL:    getEnvOrDefault("POLYMARKET_WS_URL", "wss://ws-subscriptions-clob.polymarket.com/ws/market"),
		RPCURL:   getEnvOrDefault("POLYMARKET_RPC_URL", "https://polygon-rpc.com"),
	}
}

// FileConfig mirrors the on-disk configuration file. It is consumed
// read-only during identity resolution; only the wallet commands write it.
type FileConfig struct {
	PrivateKey    string `json:"private_key,omitempty"`
	ChainID       int64  `json:"chain_id,omitempty"`
	SignatureType string `json:"signature_type,omitempty"`
	SafeAddress   string `json:"safe_address,omitempty"`

	// Cached API credentials, stored only on explicit --save.
	APIKey     string `json:"api_key,omitempty"`
	APISecret  string `json:"api_secret,omitempty"`
	Passphrase string `json:"api_passphrase,omitempty"`
}

// FilePath returns the location of the configuration file,
// ~/.config/polymarket/config.json on Linux.
func FilePath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate config dir: %w", err)
	}

	return filepath.Join(dir, "polymarket", "config.json"), nil
}

// LoadFile reads the configuration file. A missing file is not an error;
// it yields an empty config.
func LoadFile() (*FileConfig, error) {
	path, err := FilePath()
	if err != nil {
		return nil, err
	}

	return LoadFileFrom(path)
}

// LoadFileFrom reads a configuration file from an explicit path.
func LoadFileFrom(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &FileConfig{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &FileConfig{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", path, err)
	}

	return cfg, nil
}

// SaveFile writes the configuration file with owner-only permissions.
// The file holds key material, so 0600 is mandatory, not advisory.
func SaveFile(cfg *FileConfig) (string, error) {
	path, err := FilePath()
	if err != nil {
		return "", err
	}

	if err := SaveFileTo(path, cfg); err != nil {
		return "", err
	}

	return path, nil
}

// SaveFileTo writes a configuration file to an explicit path.
func SaveFileTo(path string, cfg *FileConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, append(data, '\n'), 0o600); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

func getEnvOrDefault(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

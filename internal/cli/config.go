package cli

import (
	"os"
	"path/filepath"
	"time"
)

type Config struct {
	BaseURL     string        // Required: base address of the Keyrunes deployment
	Namespace   string        // Optional: namespace sent on login/register
	SessionFile string        // Path of the remembered-session file (default: ~/.config/keyrunes/session)
	SessionKey  string        // Passphrase sealing the session file; sessions are not remembered when empty
	Timeout     time.Duration // Per-call timeout (default: 10s)
	Env         string        // Environment (dev, staging, prod) (default: dev)
	LogLevel    string        // Log level (debug, info, warn, error) (default: info)
	LogFormat   string        // Log format (json, text) (default: text)
}

func LoadConfig() Config {
	return Config{
		BaseURL:     os.Getenv("KEYRUNES_URL"),
		Namespace:   os.Getenv("KEYRUNES_NAMESPACE"),
		SessionFile: getEnvOrDefault("KEYRUNES_SESSION_FILE", defaultSessionFile()),
		SessionKey:  os.Getenv("KEYRUNES_SESSION_KEY"),
		Timeout:     getEnvDurationOrDefault("KEYRUNES_TIMEOUT", 10*time.Second),
		Env:         getEnvOrDefault("ENV", "dev"),
		LogLevel:    getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:   getEnvOrDefault("LOG_FORMAT", "text"),
	}
}

func defaultSessionFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "keyrunes-session"
	}
	return filepath.Join(home, ".config", "keyrunes", "session")
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	return defaultValue
}

package webhook

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds the fulfillment server settings.
// Use NewConfigFromEnv() to load from environment variables (.env file).
type Config struct {
	// Path is the URL path the fulfillment listens on.
	Path string
	// Host is the listen address (default "0.0.0.0").
	Host string
	// Port is the listen port (default 8080).
	Port int
	// SecretToken, when set, must match the X-Genie-Secret request header.
	SecretToken string
	// Debug enables verbose logging.
	Debug bool
}

// NewConfigFromEnv loads the webhook configuration from environment
// variables, reading a .env file first when present.
func NewConfigFromEnv() *Config {
	loadDotEnv()
	port, _ := strconv.Atoi(getEnv("GENIE_WEBHOOK_PORT", "8080"))
	return &Config{
		Path:        getEnv("GENIE_WEBHOOK_PATH", "/fulfillment"),
		Host:        getEnv("GENIE_WEBHOOK_HOST", "0.0.0.0"),
		Port:        port,
		SecretToken: getEnv("GENIE_WEBHOOK_SECRET", ""),
		Debug:       toBool(getEnv("DEBUG", "false")),
	}
}

// ListenAddr returns the host:port pair to bind.
func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// --- internal helpers ---

func getEnv(key, fallback string) string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	return strings.TrimSpace(val)
}

func toBool(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "true" || s == "1" || s == "yes" || s == "on"
}

// loadDotEnv attempts to load a .env file from the current directory.
// It silently ignores errors (file not found, parse errors).
func loadDotEnv() {
	data, err := os.ReadFile(".env")
	if err != nil {
		return
	}
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.TrimSpace(parts[0])
		val := strings.TrimSpace(parts[1])
		// Don't override existing env vars
		if os.Getenv(key) == "" {
			os.Setenv(key, val)
		}
	}
}

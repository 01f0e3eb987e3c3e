package cli

import "os"

// Config holds CLI configuration
type Config struct {
	ServerURL string
	Name      string
	JSON      bool
}

// DefaultConfig returns a Config with default values
func DefaultConfig() *Config {
	return &Config{
		ServerURL: getEnvOrDefault("PARTYWIRE_SERVER", "ws://localhost:8080/ws"),
		Name:      os.Getenv("PARTYWIRE_NAME"),
		JSON:      false,
	}
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

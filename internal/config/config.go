package config

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

const (
	defaultModel   = "gemini-2.0-flash"
	defaultBaseURL = "https://generativelanguage.googleapis.com"
)

// Config holds everything the app reads from the environment.
type Config struct {
	// APIKey authenticates against the generative-language API.
	APIKey string
	// Model is the generative model name.
	Model string
	// BaseURL is the API endpoint, overridable for tests.
	BaseURL string
	// DataDir is where the store blob and the log file live.
	DataDir string
}

// ErrMissingAPIKey is returned when GEMINI_API_KEY is not set anywhere.
var ErrMissingAPIKey = errors.New("GEMINI_API_KEY is not set; export it or add it to a .env file")

// Load reads a .env file when present, then the environment. Defaults cover
// everything except the API key.
func Load() (*Config, error) {
	// Missing .env is fine, plain env vars still apply.
	_ = godotenv.Load()

	cfg := &Config{
		APIKey:  os.Getenv("GEMINI_API_KEY"),
		Model:   os.Getenv("GEMINI_MODEL"),
		BaseURL: os.Getenv("GEMINI_BASE_URL"),
		DataDir: os.Getenv("CRISP_DATA_DIR"),
	}
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.DataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		cfg.DataDir = filepath.Join(home, ".crisp")
	}
	return cfg, nil
}

// RequireAPIKey fails fast with a clear diagnostic instead of erroring on
// the first oracle call.
func (c *Config) RequireAPIKey() error {
	if c.APIKey == "" {
		return ErrMissingAPIKey
	}
	return nil
}

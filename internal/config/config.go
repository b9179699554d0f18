package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/abdulachik/litminer/internal/pipeline"
)

// Config holds all application configuration.
type Config struct {
	// Storage
	DatabasePath string
	OutputDir    string

	// VecLite
	VecLitePath   string // quote index (default: data/quotes.veclite)
	VecLiteConfig string // veclite.yaml; empty lets VecLite search its default locations

	// Book
	ProfilePath string // empty uses the built-in profile
	BookID      int

	// Server
	ServerAddr      string
	ShutdownTimeout time.Duration

	// Logging
	LogLevel string

	// Extraction settings
	MinQuoteLength        int
	MaxQuoteLength        int
	MostSignificantCap    int
	MinMentions           int
	MaxCharacters         int
	RelationshipThreshold int
}

// Load reads configuration from environment variables.
// It automatically loads .env file if present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		DatabasePath:  getEnv("DATABASE_PATH", "data/litminer.db"),
		OutputDir:     getEnv("OUTPUT_DIR", "output"),
		VecLitePath:   getEnv("VECLITE_PATH", "data/quotes.veclite"),
		VecLiteConfig: getEnv("VECLITE_CONFIG", ""),
		ProfilePath:   getEnv("PROFILE_PATH", ""),
		ServerAddr:    getEnv("SERVER_ADDR", "localhost:8080"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
	}

	var err error
	cfg.ShutdownTimeout, err = time.ParseDuration(getEnv("SHUTDOWN_TIMEOUT", "10s"))
	if err != nil {
		return nil, fmt.Errorf("invalid SHUTDOWN_TIMEOUT: %w", err)
	}

	defaults := pipeline.DefaultSettings()
	ints := []struct {
		key  string
		def  int
		dest *int
	}{
		{"BOOK_ID", 1, &cfg.BookID},
		{"MIN_QUOTE_LENGTH", defaults.MinQuoteLength, &cfg.MinQuoteLength},
		{"MAX_QUOTE_LENGTH", defaults.MaxQuoteLength, &cfg.MaxQuoteLength},
		{"MOST_SIGNIFICANT_CAP", defaults.MostSignificantCap, &cfg.MostSignificantCap},
		{"MIN_MENTIONS", defaults.MinMentions, &cfg.MinMentions},
		{"MAX_CHARACTERS", defaults.MaxCharacters, &cfg.MaxCharacters},
		{"RELATIONSHIP_THRESHOLD", defaults.Threshold, &cfg.RelationshipThreshold},
	}
	for _, v := range ints {
		n, err := strconv.Atoi(getEnv(v.key, strconv.Itoa(v.def)))
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", v.key, err)
		}
		*v.dest = n
	}

	return cfg, nil
}

// Settings returns the pipeline tunables.
func (c *Config) Settings() pipeline.Settings {
	return pipeline.Settings{
		MinQuoteLength:     c.MinQuoteLength,
		MaxQuoteLength:     c.MaxQuoteLength,
		MostSignificantCap: c.MostSignificantCap,
		MinMentions:        c.MinMentions,
		MaxCharacters:      c.MaxCharacters,
		Threshold:          c.RelationshipThreshold,
	}
}

// Validate checks that required configuration is present.
func (c *Config) Validate() error {
	if c.DatabasePath == "" {
		return fmt.Errorf("DATABASE_PATH is required")
	}
	return nil
}

// ValidateForRun checks configuration needed for a pipeline run.
func (c *Config) ValidateForRun() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.OutputDir == "" {
		return fmt.Errorf("OUTPUT_DIR is required")
	}
	if c.MinQuoteLength < 1 {
		return fmt.Errorf("MIN_QUOTE_LENGTH must be positive, got %d", c.MinQuoteLength)
	}
	if c.MinQuoteLength > c.MaxQuoteLength {
		return fmt.Errorf("MIN_QUOTE_LENGTH (%d) exceeds MAX_QUOTE_LENGTH (%d)", c.MinQuoteLength, c.MaxQuoteLength)
	}
	if c.MostSignificantCap < 1 {
		return fmt.Errorf("MOST_SIGNIFICANT_CAP must be positive, got %d", c.MostSignificantCap)
	}
	if c.RelationshipThreshold < 1 {
		return fmt.Errorf("RELATIONSHIP_THRESHOLD must be positive, got %d", c.RelationshipThreshold)
	}
	return nil
}

// ValidateForIndex checks configuration needed for the VecLite index.
func (c *Config) ValidateForIndex() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.VecLitePath == "" {
		return fmt.Errorf("VECLITE_PATH is required")
	}
	return nil
}

// ValidateForServe checks configuration needed for serve mode.
func (c *Config) ValidateForServe() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.ServerAddr == "" {
		return fmt.Errorf("SERVER_ADDR is required")
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

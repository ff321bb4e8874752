package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/cwbudde/wavmeta"
)

const envPrefix = "WAVTAGGER_"

// Config holds the settings of the wavtagger command.
type Config struct {
	LogLevel  string
	LogFormat string

	// Jobs bounds the number of files tagged concurrently.
	Jobs int
	// Software is the tool name embedded in the written chunks.
	Software string
}

// Load reads envFile into the process environment, if it exists, and builds
// the configuration from it. Variables already set take precedence over the
// file.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		err := godotenv.Load(envFile)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	config := &Config{
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),
		Jobs:      getEnvAsInt("JOBS", 1),
		Software:  getEnv("SOFTWARE", wavmeta.DefaultSoftware),
	}

	if config.Jobs < 1 {
		config.Jobs = 1
	}

	return config, nil
}

// LoadRecord reads a metadata record from path. Files ending in .json hold a
// flat object of strings, anything else is read as Key=Value lines.
func LoadRecord(path string) (map[string]string, error) {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}

		rec := map[string]string{}
		if err := json.Unmarshal(data, &rec); err != nil {
			return nil, fmt.Errorf("failed to decode record %s: %w", path, err)
		}

		return rec, nil
	}

	rec, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read record %s: %w", path, err)
	}

	return rec, nil
}

// ParseAssignment splits a Key=Value flag value. The value may be empty.
func ParseAssignment(s string) (string, string, error) {
	key, value, ok := strings.Cut(s, "=")
	if !ok || strings.TrimSpace(key) == "" {
		return "", "", fmt.Errorf("invalid assignment %q, want Key=Value", s)
	}

	return strings.TrimSpace(key), value, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(envPrefix + key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(envPrefix + key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

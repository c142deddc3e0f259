// Package config reads the dashboard settings from the environment,
// optionally seeded by .env files.
package config

import (
	"fmt"
	"log"
	"os"
	"time"
	"unicode/utf8"

	"github.com/candidatos-info/districtcharts/dataset"
	"github.com/candidatos-info/districtcharts/render"
	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	DataPath  string        // sheet location
	Port      string        // HTTP port
	UserName  string        // basic auth user, empty disables auth
	Password  string        // basic auth password
	Encoding  string        // sheet encoding
	Separator rune          // sheet field separator
	Format    render.Format // default chart image format
	CacheTTL  time.Duration // rendered images lifetime
}

// Load reads the configuration. Every existing file of envFiles is loaded
// first; variables already set in the environment win.
func Load(envFiles ...string) (*Config, error) {
	var existing []string
	for _, f := range envFiles {
		if _, err := os.Stat(f); err == nil {
			existing = append(existing, f)
		}
	}
	if len(existing) > 0 {
		if err := godotenv.Load(existing...); err != nil {
			return nil, fmt.Errorf("failed to load env files %v, error %v", existing, err)
		}
		log.Printf("env files loaded %v\n", existing)
	}
	format, err := render.ParseFormat(getEnvWithDefault("CHART_FORMAT", string(render.PNG)))
	if err != nil {
		return nil, err
	}
	separator := getEnvWithDefault("CSV_SEPARATOR", ",")
	if utf8.RuneCountInString(separator) != 1 {
		return nil, fmt.Errorf("CSV_SEPARATOR must be a single character, got [%s]", separator)
	}
	sep, _ := utf8.DecodeRuneInString(separator)
	ttl, err := time.ParseDuration(getEnvWithDefault("CACHE_TTL", "10m"))
	if err != nil {
		return nil, fmt.Errorf("invalid CACHE_TTL, error %v", err)
	}
	c := &Config{
		DataPath:  getEnvWithDefault("DATA_PATH", "AZ Post-2024.csv"),
		Port:      getEnvWithDefault("SERVER_PORT", "8080"),
		UserName:  os.Getenv("USER_NAME"),
		Password:  os.Getenv("PASSWORD"),
		Encoding:  getEnvWithDefault("CSV_ENCODING", dataset.UTF8),
		Separator: sep,
		Format:    format,
		CacheTTL:  ttl,
	}
	if (c.UserName == "") != (c.Password == "") {
		return nil, fmt.Errorf("USER_NAME and PASSWORD must be set together")
	}
	return c, nil
}

// DatasetOptions returns the sheet decoding options.
func (c *Config) DatasetOptions() dataset.Options {
	return dataset.Options{Comma: c.Separator, Encoding: c.Encoding}
}

// BasicAuth tells if the server must ask for credentials.
func (c *Config) BasicAuth() bool {
	return c.UserName != ""
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

package config

import (
	"os"
	"path/filepath"
)

// Config holds runtime configuration for the CLI. Flags override these values.
type Config struct {
	DBPath      string
	DataDir     string
	OutDir      string
	Team        string
	Workers     int
	Format      string
	LogLevel    string
	MetricsFile string
	APIKey      string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	return Config{
		DBPath:      envOrDefault(envDB, defaultDBPath()),
		DataDir:     envOrDefault(envDataDir, defaultDataDir),
		OutDir:      envOrDefault(envOutDir, defaultOutDir),
		Team:        envOrDefault(envTeam, defaultTeam),
		Workers:     intEnvOrDefault(envWorkers, defaultWorkers),
		Format:      envOrDefault(envFormat, defaultFormat),
		LogLevel:    envOrDefault(envLogLevel, defaultLogLevel),
		MetricsFile: envOrDefault(envMetricsFile, ""),
		APIKey:      envOrDefault(envAnthropic, ""),
	}
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".vbstats", "stats.db")
}

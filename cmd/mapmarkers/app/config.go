package app

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/NerdNu/mapmarkers"
)

// Config holds the application configuration loaded from flags, environment
// variables, .env files and the optional config file, in that precedence.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool

	// Sync settings
	Dimension string        // override for "minecraft:<world>"
	MarkerY   int           // Y coordinate markers are created at
	Icon      string        // dynmap icon name
	SaveWait  time.Duration // delay after save-all
	Mark2Bin  string        // console forwarding binary

	// Logging configuration
	LogLevel  string
	LogFormat string
	LogOutput string
}

// LoadConfig loads configuration from all sources in order of precedence:
// 1. Command-line flags (handled by cobra)
// 2. Environment variables (MAPMARKERS_*)
// 3. .env files
// 4. Config file (~/.mapmarkers.yaml)
// 5. Defaults
func LoadConfig() (*Config, error) {
	// Load .env files first (before Viper env binding)
	loadEnvFiles()

	v := viper.New()
	v.SetEnvPrefix("MAPMARKERS")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	v.SetDefault("marker_y", mapmarkers.DefaultMarkerY)
	v.SetDefault("icon", mapmarkers.DefaultIcon)
	v.SetDefault("save_wait", mapmarkers.DefaultSaveWait)

	// Search for config in standard locations
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(home)
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName(".mapmarkers")
	}

	// Read config file (ignore error if not found)
	_ = v.ReadInConfig()

	config := &Config{
		Verbose: v.GetBool("verbose"),
		Quiet:   v.GetBool("quiet"),
		NoColor: v.GetBool("no_color"),

		Dimension: v.GetString("dimension"),
		MarkerY:   v.GetInt("marker_y"),
		Icon:      v.GetString("icon"),
		SaveWait:  v.GetDuration("save_wait"),
		Mark2Bin:  v.GetString("mark2"),

		LogLevel:  getEnvOrDefault("LOG_LEVEL", ""),
		LogFormat: getEnvOrDefault("LOG_FORMAT", "auto"),
		LogOutput: getEnvOrDefault("LOG_OUTPUT", "stderr"),
	}

	return config, nil
}

// loadEnvFiles loads environment variables from .env files.
// .env.local overrides .env.
func loadEnvFiles() {
	envFiles := []string{
		".env",
		".env.local",
	}

	for _, envFile := range envFiles {
		_ = godotenv.Load(envFile)
	}
}

// getEnvOrDefault returns the environment variable value or the default if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

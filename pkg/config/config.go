package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/spf13/viper"
)

var (
	once    sync.Once
	initErr error
)

// Init initializes the configuration system.
// This should be called once at application startup.
func Init() error {
	once.Do(func() {
		setDefaults()

		viper.SetEnvPrefix("IDEAS")
		viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		viper.AutomaticEnv()

		configPath := filepath.Clean("./config/settings.yaml")
		viper.SetConfigFile(configPath)

		if err := viper.ReadInConfig(); err != nil {
			// Missing config file is fine, defaults and env vars apply
			if !os.IsNotExist(err) {
				initErr = fmt.Errorf("error reading config file %s: %w", configPath, err)
				return
			}
		}

		if err := validate(); err != nil {
			initErr = fmt.Errorf("invalid configuration: %w", err)
		}
	})

	return initErr
}

// GetConfig returns the current configuration as a struct.
// Init() must be called before using this.
func GetConfig() (*Config, error) {
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	return &config, nil
}

// GetString returns a string config value
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool returns a bool config value
func GetBool(key string) bool {
	return viper.GetBool(key)
}

// GetDuration returns a time.Duration config value
func GetDuration(key string) time.Duration {
	return viper.GetDuration(key)
}

// validate validates the configuration using Viper values
func validate() error {
	port := viper.GetInt("server.port")
	if port <= 0 || port > 65535 {
		return fmt.Errorf("invalid server port: %d", port)
	}

	if viper.GetString("database.path") == "" {
		fmt.Println("Warning: No database path configured")
	}

	if err := validateCredentials(); err != nil {
		return err
	}

	// Auto-correct invalid sync interval
	if viper.GetDuration("sync.interval") <= 0 {
		viper.Set("sync.interval", 5*time.Minute)
	}

	return nil
}

// validateCredentials validates that keys are not using placeholder values
func validateCredentials() error {
	env := viper.GetString("environment")
	isProduction := env == "production" || env == "prod"

	placeholders := []string{
		"YOUR_KEY_HERE",
		"YOUR_API_KEY",
		"changeme",
		"CHANGEME",
		"",
	}

	supabaseKey := viper.GetString("supabase.anon_key")
	for _, placeholder := range placeholders {
		if supabaseKey == placeholder {
			if isProduction {
				return fmt.Errorf("invalid Supabase anon key: cannot use placeholder values in production")
			}
			fmt.Println("Warning: Supabase anon key is using a placeholder value - sync will be disabled")
			break
		}
	}

	transcriptionKey := viper.GetString("transcription.api_key")
	for _, placeholder := range placeholders {
		if transcriptionKey == placeholder {
			if isProduction {
				return fmt.Errorf("invalid transcription API key: cannot use placeholder values in production")
			}
			fmt.Println("Warning: transcription API key is using a placeholder value")
			break
		}
	}

	return nil
}

// Validate validates a Config struct (for testing)
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Sync.Interval <= 0 {
		c.Sync.Interval = 5 * time.Minute
	}

	return nil
}

// setDefaults sets default configuration values
func setDefaults() {
	viper.SetDefault("environment", "development")

	// Server defaults
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", 30*time.Second)
	viper.SetDefault("server.write_timeout", 30*time.Second)
	viper.SetDefault("server.shutdown_timeout", 10*time.Second)
	viper.SetDefault("server.max_header_bytes", 1048576)

	// Database defaults
	viper.SetDefault("database.path", "./data/ideas.db")
	viper.SetDefault("database.log_queries", false)

	// Storage defaults
	viper.SetDefault("storage.recordings_dir", "./data/recordings")
	viper.SetDefault("storage.max_upload_size", int64(50*1024*1024))

	// Recording defaults
	viper.SetDefault("recording.device", "default")
	viper.SetDefault("recording.ffmpeg_path", "ffmpeg")
	viper.SetDefault("recording.sample_rate", 44100)
	viper.SetDefault("recording.channels", 1)
	viper.SetDefault("recording.tick_interval", 100*time.Millisecond)
	viper.SetDefault("recording.max_duration", 10*time.Minute)

	// Transcription defaults
	viper.SetDefault("transcription.endpoint", "")
	viper.SetDefault("transcription.timeout", 60*time.Second)

	// Summarization defaults
	viper.SetDefault("summarization.endpoint", "")
	viper.SetDefault("summarization.timeout", 60*time.Second)

	// Supabase defaults
	viper.SetDefault("supabase.url", "")
	viper.SetDefault("supabase.bucket", "recordings")

	// Sync defaults
	viper.SetDefault("sync.enabled", true)
	viper.SetDefault("sync.interval", 5*time.Minute)
}

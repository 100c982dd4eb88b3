package config

import "time"

// Config represents the complete application configuration
type Config struct {
	Environment   string              `mapstructure:"environment"`
	Server        ServerConfig        `mapstructure:"server"`
	Database      DatabaseConfig      `mapstructure:"database"`
	Storage       StorageConfig       `mapstructure:"storage"`
	Recording     RecordingConfig     `mapstructure:"recording"`
	Transcription TranscriptionConfig `mapstructure:"transcription"`
	Summarization SummarizationConfig `mapstructure:"summarization"`
	Supabase      SupabaseConfig      `mapstructure:"supabase"`
	Sync          SyncConfig          `mapstructure:"sync"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	MaxHeaderBytes  int           `mapstructure:"max_header_bytes"`
}

// DatabaseConfig contains SQLite settings
type DatabaseConfig struct {
	Path       string `mapstructure:"path"`
	LogQueries bool   `mapstructure:"log_queries"`
}

// StorageConfig contains local audio artifact settings
type StorageConfig struct {
	RecordingsDir string `mapstructure:"recordings_dir"`
	MaxUploadSize int64  `mapstructure:"max_upload_size"`
}

// RecordingConfig contains audio capture settings
type RecordingConfig struct {
	Device        string        `mapstructure:"device"`
	FFmpegPath    string        `mapstructure:"ffmpeg_path"`
	SampleRate    int           `mapstructure:"sample_rate"`
	Channels      int           `mapstructure:"channels"`
	TickInterval  time.Duration `mapstructure:"tick_interval"`
	MaxDuration   time.Duration `mapstructure:"max_duration"`
}

// TranscriptionConfig contains speech-to-text service settings
type TranscriptionConfig struct {
	Endpoint string        `mapstructure:"endpoint"`
	APIKey   string        `mapstructure:"api_key"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// SummarizationConfig contains structured-extraction service settings
type SummarizationConfig struct {
	Endpoint string        `mapstructure:"endpoint"`
	APIKey   string        `mapstructure:"api_key"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// SupabaseConfig contains remote store settings
type SupabaseConfig struct {
	URL      string `mapstructure:"url"`
	AnonKey  string `mapstructure:"anon_key"`
	Email    string `mapstructure:"email"`
	Password string `mapstructure:"password"`
	Bucket   string `mapstructure:"bucket"`
}

// SyncConfig contains reconciler settings
type SyncConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Interval time.Duration `mapstructure:"interval"`
}

// Package config provides configuration loading and validation for the
// chatbot service. Values come from defaults, an optional config.yaml, and
// CHATBOT_* environment variables, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config defines the application configuration parameters for all components
// of the chatbot: HTTP server, FAQ matcher, AI generation, interaction log
// database, scheduled maintenance, and logging.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	AI        AIConfig        `mapstructure:"ai"`
	FAQ       FAQConfig       `mapstructure:"faq"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Messages  MessagesConfig  `mapstructure:"messages"`
	Log       LogConfig       `mapstructure:"log"`
}

// ServerConfig holds HTTP server settings. SessionSecret signs the browser
// session cookie and must be overridden in production.
type ServerConfig struct {
	Port           int           `mapstructure:"port"            validate:"required,min=1,max=65535"`
	SessionSecret  string        `mapstructure:"session_secret"  validate:"required"`
	AllowedOrigins []string      `mapstructure:"allowed_origins"`
	RequestTimeout time.Duration `mapstructure:"request_timeout" validate:"required,min=1s,max=10m"`
	MaxInputChars  int           `mapstructure:"max_input_chars" validate:"required,min=1"`
}

// AIConfig holds settings for the generation backend.
type AIConfig struct {
	APIKey           string        `mapstructure:"api_key"           validate:"required"`
	Model            string        `mapstructure:"model"             validate:"required"`
	Temperature      float32       `mapstructure:"temperature"       validate:"min=0,max=2"`
	TopP             float32       `mapstructure:"top_p"             validate:"min=0,max=1"`
	TopK             float32       `mapstructure:"top_k"             validate:"min=0"`
	FrequencyPenalty float32       `mapstructure:"frequency_penalty" validate:"min=0,max=2"`
	MaxOutputTokens  int32         `mapstructure:"max_output_tokens" validate:"required,min=1"`
	MaxPromptTurns   int           `mapstructure:"max_prompt_turns"  validate:"required,min=1"`
	Timeout          time.Duration `mapstructure:"timeout"           validate:"required,min=1s,max=10m"`
}

// FAQConfig holds the FAQ file location and match threshold (0-100 scale).
type FAQConfig struct {
	Path      string  `mapstructure:"path"      validate:"required"`
	Threshold float64 `mapstructure:"threshold" validate:"min=0,max=100"`
}

// DatabaseConfig holds the SQLite database location.
type DatabaseConfig struct {
	Path string `mapstructure:"path" validate:"required"`
}

// SchedulerConfig controls the periodic database maintenance job.
type SchedulerConfig struct {
	MaintenanceEnabled  bool   `mapstructure:"maintenance_enabled"`
	MaintenanceSchedule string `mapstructure:"maintenance_schedule"`
}

// MessagesConfig holds the fixed user-facing response strings.
type MessagesConfig struct {
	ResetAck        string `mapstructure:"reset_ack"        validate:"required"`
	InputTooLong    string `mapstructure:"input_too_long"   validate:"required"`
	GenerationError string `mapstructure:"generation_error" validate:"required"`
	EmptyReply      string `mapstructure:"empty_reply"      validate:"required"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `mapstructure:"level"  validate:"required,oneof=debug info warn error"`
	JSON  bool   `mapstructure:"json"`
}

// LoadConfig loads and validates configuration from:
// 1. Default values
// 2. The YAML file at configPath (optional)
// 3. CHATBOT_* environment variables
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	v.SetEnvPrefix("CHATBOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Allow missing config file; defaults plus environment are enough.
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 5000)
	v.SetDefault("server.session_secret", "default-secret-key-change-in-production")
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("server.request_timeout", 2*time.Minute)
	v.SetDefault("server.max_input_chars", 512)

	// Registered empty so CHATBOT_AI_API_KEY is visible to Unmarshal;
	// validation still requires a non-empty value.
	v.SetDefault("ai.api_key", "")
	v.SetDefault("ai.model", "gemini-2.0-flash")
	v.SetDefault("ai.temperature", 0.4)
	v.SetDefault("ai.top_p", 0.8)
	v.SetDefault("ai.top_k", 30)
	v.SetDefault("ai.frequency_penalty", 0.3)
	v.SetDefault("ai.max_output_tokens", 100)
	v.SetDefault("ai.max_prompt_turns", 10)
	v.SetDefault("ai.timeout", 2*time.Minute)

	v.SetDefault("faq.path", "faqs.json")
	v.SetDefault("faq.threshold", 75)

	v.SetDefault("database.path", "chatbot_logs.db")

	v.SetDefault("scheduler.maintenance_enabled", false)
	v.SetDefault("scheduler.maintenance_schedule", "0 4 * * *")

	v.SetDefault("messages.reset_ack", "Conversation reset.")
	v.SetDefault("messages.input_too_long", "Input too long (max 512 characters). Please shorten your message.")
	v.SetDefault("messages.generation_error", "Error generating response: %v. Please try again.")
	v.SetDefault("messages.empty_reply", "I'm sorry, I couldn't generate a response.")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.json", true)
}

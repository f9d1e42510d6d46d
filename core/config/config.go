package config

import (
	"fmt"
	"reflect"
	"strings"

	"borg-link/core/apperror"
	"borg-link/core/cache"
	"borg-link/core/chain"
	"borg-link/core/database"
	"borg-link/core/logger"
	"borg-link/core/queue"
	"borg-link/core/server"
	"borg-link/core/storage"
	"borg-link/core/webhook"
	"borg-link/feature/borg"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// It is divided into partial configurations for better modularity.
type Config struct {
	// Server holds configuration for the HTTP server.
	Server server.Config `mapstructure:"server"`
	// Storage holds configuration for the object storage holding rendered images.
	Storage storage.Config `mapstructure:"storage"`
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
	// Database holds configuration for the database connection.
	Database database.Config `mapstructure:"database"`
	// Redis holds configuration for the response cache and durable job queue.
	Redis cache.Config `mapstructure:"redis"`
	// Queue holds configuration for the import workers.
	Queue queue.Config `mapstructure:"queue"`
	// Chain holds configuration for the contract connection.
	Chain chain.Config `mapstructure:"chain"`
	// Webhook holds configuration for downstream notifications.
	Webhook webhook.Config `mapstructure:"webhook"`
	// Borg holds catalog settings: image sizes, paging, cache TTLs and schedules.
	Borg borg.Config `mapstructure:"borg"`
	// Errors holds client-facing message overrides.
	Errors apperror.Config `mapstructure:"errors"`
}

// LoadConfig loads configuration from environment variables and .env file.
func LoadConfig(path string) (*Config, error) {
	// 1. Load .env file if it exists
	envPath := path + "/.env"
	if path == "." {
		envPath = ".env"
	}

	// Ignore error if file doesn't exist (e.g. production)
	_ = godotenv.Overload(envPath)

	v := viper.New()

	// Recursively parse struct tags to set default values
	bindValues(v, Config{}, "")

	// Map environment variables to nested keys (e.g. SERVER_PORT -> server.port)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate checks settings that would otherwise fail late.
func (c *Config) Validate() error {
	if !c.Server.IsValidEnvironment() {
		return fmt.Errorf("invalid server environment %q", c.Server.Environment)
	}
	if _, err := c.Errors.Load(); err != nil {
		return fmt.Errorf("invalid errors.messages: %w", err)
	}
	if err := c.Borg.Validate(); err != nil {
		return fmt.Errorf("invalid borg settings: %w", err)
	}
	return nil
}

// bindValues uses reflection to iterate over the struct and set default values in Viper
// based on the 'default' and 'mapstructure' tags.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)

	// If it's a pointer, get the element
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")

		// Skip if no tag
		if tag == "" {
			continue
		}

		// Build the key
		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		// If it's a nested struct, recurse
		if field.Type.Kind() == reflect.Struct {
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		}

		defaultValue := field.Tag.Get("default")
		// Always set default (even if empty) to register the key for AutomaticEnv
		v.SetDefault(key, defaultValue)
	}
}

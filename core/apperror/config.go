package apperror

// Config holds overrides for client-facing failure messages.
type Config struct {
	// Messages overrides reason messages as "reason=message;reason=message".
	Messages string `mapstructure:"messages" default:""`
}

// Load returns the message table with the configured overrides applied.
func (c Config) Load() (Messages, error) {
	return ParseOverrides(c.Messages)
}

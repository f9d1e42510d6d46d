package webhook

// Config holds configuration for outbound notifications.
type Config struct {
	// Endpoint receives a POST after new items are imported. Empty disables it.
	Endpoint string `mapstructure:"endpoint" default:""`
	// TimeoutSeconds bounds every outbound request.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"10"`
}

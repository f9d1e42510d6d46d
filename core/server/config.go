package server

// Config holds configuration for the HTTP server.
type Config struct {
	// Port is the port where the server will listen.
	Port string `mapstructure:"port" default:"8080"`
	// ApiKey is the secret key required by the write and admin routes.
	ApiKey string `mapstructure:"api_key" default:""`
	// Environment selects the image container family (live, test).
	Environment string `mapstructure:"environment" default:"live"`
	// BodyLimit is the maximum request body size in bytes.
	BodyLimit int `mapstructure:"body_limit" default:"1048576"`
}

const (
	EnvironmentLive = "live"
	EnvironmentTest = "test"
)

// IsValidEnvironment checks if the configured environment is valid.
func (c Config) IsValidEnvironment() bool {
	switch c.Environment {
	case EnvironmentLive, EnvironmentTest:
		return true
	default:
		return false
	}
}

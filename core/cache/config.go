package cache

// Config holds configuration for the redis connection shared by the response
// cache and the job queue.
type Config struct {
	// Addr is the redis address. Empty disables redis entirely.
	Addr string `mapstructure:"addr" default:""`
	// Password is the optional redis password.
	Password string `mapstructure:"password" default:""`
	// DB is the redis database number.
	DB int `mapstructure:"db" default:"0"`
	// KeyPrefix namespaces every key written by the service.
	KeyPrefix string `mapstructure:"key_prefix" default:"borglink:"`
	// ConnectTimeoutSeconds bounds the total time spent retrying the initial ping.
	ConnectTimeoutSeconds int `mapstructure:"connect_timeout_seconds" default:"15"`
}

// Enabled reports whether a redis address is configured.
func (c Config) Enabled() bool {
	return c.Addr != ""
}

package storage

import "strings"

// Config holds configuration for the storage provider.
type Config struct {
	// Endpoint is the URL of the storage service.
	Endpoint string `mapstructure:"endpoint" default:"localhost:9000"`
	// AccessKey is the access key ID for authentication.
	AccessKey string `mapstructure:"access_key" default:"minioadmin"`
	// SecretKey is the secret access key for authentication.
	SecretKey string `mapstructure:"secret_key" default:"minioadmin"`
	// UseSSL indicates whether to use SSL/TLS for connections.
	UseSSL bool `mapstructure:"use_ssl" default:"false"`
	// Bucket is the name of the bucket holding rendered images.
	Bucket string `mapstructure:"bucket" default:"borgs"`
	// Region is the location of the bucket (e.g., us-east-1).
	Region string `mapstructure:"region" default:""`
	// PublicURL is the base URL images are served from. Empty means http(s)://endpoint.
	PublicURL string `mapstructure:"public_url" default:""`
	// TimeoutSeconds is the connection timeout in seconds.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
}

// BaseURL returns the public base URL for stored objects, including the bucket.
func (c Config) BaseURL() string {
	base := c.PublicURL
	if base == "" {
		scheme := "http://"
		if c.UseSSL {
			scheme = "https://"
		}
		base = scheme + c.Endpoint
	}
	return strings.TrimRight(base, "/") + "/" + c.Bucket
}

// Package config provides configuration management for borg-link.
//
// It utilizes Viper for loading configuration from environment variables and an
// optional .env file. Every leaf field carries a mapstructure key and a default.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - Server: HTTP port, API key and image environment (live, test)
//   - Database: driver (mysql, postgres, sqlite) and connection details
//   - Storage: MinIO credentials, bucket and public URL
//   - Log: Logging level and format
//   - Redis: response cache and durable queue connection
//   - Queue: import worker count and retry attempts
//   - Chain: RPC endpoints and contract address
//   - Webhook: downstream notification endpoint
//   - Borg: image sizes, paging limits, cache TTLs and task schedules
//   - Errors: client-facing message overrides
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Server.Port)
package config

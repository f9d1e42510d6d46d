// Package server holds the HTTP server configuration and constants.
//
// While the start command handles the server startup, this package defines the
// configuration structure and the valid values for server settings, such as the
// environment that selects the image container family (live or test).
//
// # Configuration
//
// The Config struct defines the HTTP port, the API key protecting write routes,
// the environment and the request body limit.
package server

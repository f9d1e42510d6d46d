// Package middleware contains HTTP middleware for the Fiber application.
//
// # Components
//
//   - auth: API key validation for the write and admin routes.
//   - rayid: assigns a unique request id (RayID) to every request, stores it in the
//     context locals and echoes it in the response headers for tracing.
package middleware

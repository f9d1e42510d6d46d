// Package apperror defines the failure reasons reported to API clients.
//
// Reasons form a closed enumeration with a compile-time message table. Operators
// may override messages through configuration; overrides naming a reason that does
// not exist are rejected when the configuration is loaded, never at request time.
//
// Handler is installed as the Fiber ErrorHandler. It renders every unhandled error
// as {"error", "reason", "trace_code"}, where trace_code is the request ray id.
package apperror

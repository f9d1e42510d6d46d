// Package webhook sends outbound HTTP notifications.
//
// Propagate tells a downstream service that new items were imported. It is fire and
// forget: failures are logged and reported as false, never returned as errors, so a
// notification problem can not fail an import. Ping is used by the keep-alive task.
package webhook

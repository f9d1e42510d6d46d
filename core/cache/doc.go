// Package cache provides the redis connection and the response cache used by the
// read endpoints.
//
// # Connection
//
// Connect pings redis with a doubling backoff until the connect timeout elapses. The
// same client backs the response cache and the durable job queue. When no address
// is configured the service runs without redis: reads go straight to the database
// and jobs use the in-memory queue.
//
// # Read-through
//
// Remember reads a key, and on a miss computes the value once per key (singleflight)
// and stores it with a TTL. Cache errors never fail a request.
//
//	item, err := cache.Remember(ctx, loader, "borg_42", 20*time.Second, func(ctx context.Context) (*View, error) {
//	    return svc.Get(ctx, 42)
//	})
package cache

// Package queue provides the import job queue and the worker pool draining it.
//
// Delivery is at least once: a job may be handled more than once, concurrently or
// in sequence, so handlers must be idempotent. Two implementations exist:
//
//   - MemoryQueue: a buffered channel, used when redis is not configured.
//   - RedisQueue: pending and processing lists with BRPOPLPUSH. Unacknowledged
//     jobs survive a crash and are moved back to pending by Recover.
//
// # Worker Pool
//
// Pool runs a fixed number of workers. A job whose handler fails is re-enqueued
// with an incremented attempt counter; after MaxAttempts it is dropped and logged.
//
//	pool := queue.NewPool(q, importer.HandleJob, cfg.Queue, logger)
//	go pool.Run(ctx)
package queue

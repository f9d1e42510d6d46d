// Package scheduler runs recurring background tasks on cron schedules.
//
// It replaces hand written sleep loops: each task is registered with a cron spec,
// receives a context that is cancelled on shutdown, and never overlaps with its own
// previous run. The periodic gap sync, the relation back-fill and the keep-alive
// ping are registered here by the start command.
//
//	sched := scheduler.New(logger)
//	_ = sched.Register("sync", "@every 1m", svc.Sync)
//	sched.Start()
//	defer sched.Stop()
package scheduler

package queue

// Config holds configuration for the import job queue and its workers.
type Config struct {
	// Workers is the number of concurrent job workers.
	Workers int `mapstructure:"workers" default:"4"`
	// MaxAttempts is how many times a failing job is delivered before it is dropped.
	MaxAttempts int `mapstructure:"max_attempts" default:"5"`
	// Buffer is the capacity of the in-memory queue.
	Buffer int `mapstructure:"buffer" default:"1024"`
	// PollSeconds is how long a redis dequeue blocks before re-checking for shutdown.
	PollSeconds int `mapstructure:"poll_seconds" default:"1"`
}

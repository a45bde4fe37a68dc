package worker

import (
	"context"
	"time"
)

// Worker is a long-running background job owned by the run command. Run
// blocks until shutdown or a fatal error; ShutdownWithTimeout requests a stop
// and waits for Run to drain.
type Worker interface {
	Run(ctx context.Context) error
	ShutdownWithTimeout(timeout time.Duration) error
}

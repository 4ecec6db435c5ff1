package host

import (
	"context"

	"github.com/mogud/snowdi/core/injection"
	"github.com/mogud/snowdi/core/sync"
)

// IHostedRoutine is started and stopped with the host. Long work must be moved
// off the calling goroutine; wg lets the host wait for it with a timeout.
type IHostedRoutine interface {
	Start(ctx context.Context, wg *sync.TimeoutWaitGroup)
	Stop(ctx context.Context, wg *sync.TimeoutWaitGroup)
}

// IHostedLifecycleRoutine is a hosted routine notified around each phase.
type IHostedLifecycleRoutine interface {
	IHostedRoutine

	BeforeStart(ctx context.Context, wg *sync.TimeoutWaitGroup)
	AfterStart(ctx context.Context, wg *sync.TimeoutWaitGroup)
	BeforeStop(ctx context.Context, wg *sync.TimeoutWaitGroup)
	AfterStop(ctx context.Context, wg *sync.TimeoutWaitGroup)
}

// AddHostedRoutine registers sel as a singleton and schedules it with the host.
// The resolved instance must implement IHostedRoutine.
func AddHostedRoutine(b IBuilder, sel injection.Selector, inject ...injection.Selector) {
	AddSingleton(b, sel, inject...)
	b.AddHostedRoutineSelector(sel)
}

package internal

import (
	"context"
	"fmt"
	"time"
	"unsafe"

	"github.com/mogud/snowdi/core/host"
	"github.com/mogud/snowdi/core/injection"
	"github.com/mogud/snowdi/core/logging"
	"github.com/mogud/snowdi/core/logging/slog"
	"github.com/mogud/snowdi/core/sync"
	"github.com/mogud/snowdi/core/task"
)

var _ host.IHost = (*Host)(nil)

// HostOption is bound from the "Host" configuration section.
type HostOption struct {
	StartWaitTimeoutSeconds int `snow:"StartWaitTimeoutSeconds"`
	StopWaitTimeoutSeconds  int `snow:"StopWaitTimeoutSeconds"`
}

type Host struct {
	option    *HostOption
	logger    logging.ILogger
	container *injection.Container
	app       *HostApplication
	selectors []injection.Selector

	routines          []host.IHostedRoutine
	lifecycleRoutines []host.IHostedLifecycleRoutine
}

func NewHost(container *injection.Container, option *HostOption, app *HostApplication, selectors []injection.Selector) *Host {
	if option == nil {
		option = &HostOption{}
	}
	if option.StartWaitTimeoutSeconds <= 0 {
		option.StartWaitTimeoutSeconds = 5
	}
	if option.StopWaitTimeoutSeconds <= 0 {
		option.StopWaitTimeoutSeconds = 8
	}

	ss := &Host{
		option:    option,
		container: container,
		app:       app,
		selectors: selectors,
	}
	ss.logger = logging.NewDefaultLogger("host", slog.Handler(), nil).
		With("Host", fmt.Sprintf("%X", unsafe.Pointer(ss)))
	return ss
}

func (ss *Host) GetContainer() *injection.Container {
	return ss.container
}

func (ss *Host) GetApplication() host.IHostApplication {
	return ss.app
}

// Start finalizes the container, resolves the hosted routines and runs the
// start phases. The application is told whether startup succeeded.
func (ss *Host) Start(ctx context.Context, wg *sync.TimeoutWaitGroup) {
	wg.Add(1)
	defer wg.Done()

	failed := false
	defer func() {
		if failed || ctx.Err() != nil {
			ss.app.EmitRoutineStartedFailed()
			return
		}
		ss.app.EmitRoutineStartedSuccess()
	}()

	if err := ss.container.Finalize(ctx); err != nil {
		ss.logger.Errorf("finalize container: %v", err)
		failed = true
		return
	}

	if err := ss.resolveRoutines(); err != nil {
		ss.logger.Errorf("resolve hosted routines: %v", err)
		failed = true
		return
	}

	timeout := time.Duration(ss.option.StartWaitTimeoutSeconds) * time.Second
	runPhase(ss.logger, "BeforeStart", timeout, ss.lifecycleRoutines, func(r host.IHostedLifecycleRoutine, wg *sync.TimeoutWaitGroup) {
		r.BeforeStart(ctx, wg)
	})
	if ctx.Err() != nil {
		return
	}

	runPhase(ss.logger, "Start", timeout, ss.routines, func(r host.IHostedRoutine, wg *sync.TimeoutWaitGroup) {
		r.Start(ctx, wg)
	})
	if ctx.Err() != nil {
		return
	}

	runPhase(ss.logger, "AfterStart", timeout, ss.lifecycleRoutines, func(r host.IHostedLifecycleRoutine, wg *sync.TimeoutWaitGroup) {
		r.AfterStart(ctx, wg)
	})
	ss.logger.Infof("started %d hosted routine(s)", len(ss.routines))
}

func (ss *Host) Stop(ctx context.Context, wg *sync.TimeoutWaitGroup) {
	wg.Add(1)
	defer wg.Done()

	timeout := time.Duration(ss.option.StopWaitTimeoutSeconds) * time.Second
	runPhase(ss.logger, "BeforeStop", timeout, ss.lifecycleRoutines, func(r host.IHostedLifecycleRoutine, wg *sync.TimeoutWaitGroup) {
		r.BeforeStop(ctx, wg)
	})
	runPhase(ss.logger, "Stop", timeout, ss.routines, func(r host.IHostedRoutine, wg *sync.TimeoutWaitGroup) {
		r.Stop(ctx, wg)
	})
	runPhase(ss.logger, "AfterStop", timeout, ss.lifecycleRoutines, func(r host.IHostedLifecycleRoutine, wg *sync.TimeoutWaitGroup) {
		r.AfterStop(ctx, wg)
	})

	ss.logger.Infof("stopped")
	ss.app.EmitRoutineStopped()
}

func (ss *Host) resolveRoutines() error {
	if ss.routines != nil {
		return nil
	}

	routines := make([]host.IHostedRoutine, 0, len(ss.selectors))
	var lifecycleRoutines []host.IHostedLifecycleRoutine
	for _, sel := range ss.selectors {
		routine, err := injection.Resolve[host.IHostedRoutine](ss.container, sel, nil)
		if err != nil {
			return err
		}
		if routine == nil {
			return fmt.Errorf("hosted routine %s resolved to nil", injection.DisplayName(sel))
		}
		routines = append(routines, routine)
		if lr, ok := routine.(host.IHostedLifecycleRoutine); ok {
			lifecycleRoutines = append(lifecycleRoutines, lr)
		}
	}

	ss.routines = routines
	ss.lifecycleRoutines = lifecycleRoutines
	return nil
}

// runPhase calls f for every routine on the task pool and waits for all of them,
// giving up after timeout.
func runPhase[T any](logger logging.ILogger, phase string, timeout time.Duration, routines []T, f func(routine T, wg *sync.TimeoutWaitGroup)) {
	if len(routines) == 0 {
		return
	}

	wg := sync.NewTimeoutWaitGroup()
	wg.Add(len(routines))
	for _, routine := range routines {
		routine := routine
		task.Execute(func() {
			defer wg.Done()
			f(routine, wg)
		})
	}

	if !wg.WaitTimeout(timeout) {
		logger.Warnf("'%s' wait timeout in hosted routines", phase)
	}
}

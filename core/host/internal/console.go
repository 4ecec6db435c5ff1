package internal

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	gosync "sync"
	"syscall"
	"unsafe"

	"github.com/mogud/snowdi/core/host"
	"github.com/mogud/snowdi/core/injection"
	"github.com/mogud/snowdi/core/logging"
	"github.com/mogud/snowdi/core/logging/slog"
	"github.com/mogud/snowdi/core/sync"
)

var _ host.IHostedRoutine = (*ConsoleLifetimeRoutine)(nil)

var ConsoleLifetime = injection.TypeOf(NewConsoleLifetimeRoutine)

// ConsoleLifetimeRoutine stops the application on SIGINT, SIGTERM or SIGQUIT.
type ConsoleLifetimeRoutine struct {
	logger      logging.ILogger
	cancel      func()
	wg          gosync.WaitGroup
	application host.IHostApplication
}

func NewConsoleLifetimeRoutine(application host.IHostApplication) *ConsoleLifetimeRoutine {
	ss := &ConsoleLifetimeRoutine{application: application}
	ss.logger = logging.NewDefaultLogger("host", slog.Handler(), nil).
		With("ConsoleLifetime", fmt.Sprintf("%X", unsafe.Pointer(ss)))
	return ss
}

func (ss *ConsoleLifetimeRoutine) Start(_ context.Context, wg *sync.TimeoutWaitGroup) {
	ctx, cancel := context.WithCancel(context.Background())
	ss.cancel = cancel

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	ss.wg.Add(1)
	wg.Add(1)
	go func() {
		defer ss.wg.Done()
		defer signal.Stop(sigs)
		wg.Done()

		select {
		case sig := <-sigs:
			ss.logger.Infof("SHUTDOWN APPLICATION BY SIGNAL %v...", sig)
		case <-ctx.Done():
			ss.logger.Infof("SHUTDOWN APPLICATION")
		}

		ss.application.StopApplication()
	}()
}

func (ss *ConsoleLifetimeRoutine) Stop(_ context.Context, wg *sync.TimeoutWaitGroup) {
	wg.Add(1)
	defer wg.Done()

	if ss.cancel != nil {
		ss.cancel()
	}
	ss.wg.Wait()
}

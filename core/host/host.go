package host

import (
	"context"

	"github.com/mogud/snowdi/core/configuration"
	"github.com/mogud/snowdi/core/injection"
	"github.com/mogud/snowdi/core/logging"
	"github.com/mogud/snowdi/core/sync"
)

// Selectors registered by every builder.
var (
	Configuration   = injection.NewSymbol("Configuration")
	Container       = injection.NewSymbol("Container")
	HostApplication = injection.NewSymbol("HostApplication")
	LogFormatters   = injection.TypeOf(logging.NewLogFormatterContainer)
	LogHandler      = injection.TypeOf(NewLogHandler)
)

type IHost interface {
	IHostedRoutine

	GetContainer() *injection.Container
	GetApplication() IHostApplication
}

type IBuilder interface {
	GetContainer() *injection.Container
	GetConfigurationManager() configuration.IConfigurationManager
	AddHostedRoutineSelector(sel injection.Selector)

	Build() IHost
}

// Run starts h and blocks until the application is asked to stop, then stops h.
// Stop is skipped when the start phase did not complete.
func Run(h IHost) {
	app := h.GetApplication()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	started := false
	app.OnStopping(func() {
		cancel()
	})
	app.OnStarted(func() {
		started = true
	})

	wg := sync.NewTimeoutWaitGroup()
	h.Start(ctx, wg)
	wg.Wait()

	<-ctx.Done()

	if started {
		wg = sync.NewTimeoutWaitGroup()
		h.Stop(context.Background(), wg)
		wg.Wait()
	}
}

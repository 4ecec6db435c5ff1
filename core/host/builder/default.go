package builder

import (
	"github.com/mogud/snowdi/core/configuration"
	"github.com/mogud/snowdi/core/host"
	"github.com/mogud/snowdi/core/host/internal"
	"github.com/mogud/snowdi/core/injection"
	"github.com/mogud/snowdi/core/logging/handler"
)

var _ host.IBuilder = (*DefaultBuilder)(nil)

var hostOption = injection.NewSymbol("HostOption")

type DefaultBuilder struct {
	container *injection.Container
	config    *configuration.Manager
	routines  []injection.Selector
	built     host.IHost
}

// NewDefaultBuilder returns a builder whose container already holds the
// configuration manager, the container itself and the log pipeline.
func NewDefaultBuilder() *DefaultBuilder {
	ss := &DefaultBuilder{
		container: injection.New(),
		config:    configuration.NewManager(),
	}

	host.AddValue(ss, host.Configuration, ss.config)
	host.AddValue(ss, host.Container, ss.container)
	host.AddSingleton(ss, host.LogFormatters)
	host.AddSingleton(ss, host.LogHandler, host.Configuration, host.LogFormatters)
	host.AddOption[*internal.HostOption](ss, hostOption, "Host")

	return ss
}

func (ss *DefaultBuilder) GetContainer() *injection.Container {
	return ss.container
}

func (ss *DefaultBuilder) GetConfigurationManager() configuration.IConfigurationManager {
	return ss.config
}

func (ss *DefaultBuilder) AddHostedRoutineSelector(sel injection.Selector) {
	ss.routines = append(ss.routines, sel)
}

// Build binds the log pipeline and creates the host. Calling it again returns
// the same host.
func (ss *DefaultBuilder) Build() host.IHost {
	if ss.built != nil {
		return ss.built
	}

	injection.MustResolve[*handler.CompoundHandler](ss.container, host.LogHandler, nil)

	app := internal.NewHostApplication()
	host.AddValue(ss, host.HostApplication, app)
	host.AddHostedRoutine(ss, internal.ConsoleLifetime, host.HostApplication)

	option := injection.MustResolve[*internal.HostOption](ss.container, hostOption, nil)
	routines := append([]injection.Selector(nil), ss.routines...)
	ss.built = internal.NewHost(ss.container, option, app, routines)
	return ss.built
}

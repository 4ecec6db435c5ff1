package internal

import (
	"sync"

	"github.com/mogud/snowdi/core/host"
)

var _ host.IHostApplication = (*HostApplication)(nil)

// HostApplication holds the lifetime listeners. A stop requested while the host
// is still starting is deferred until the start phase has reported.
type HostApplication struct {
	lock          sync.Mutex
	started       bool
	stopRequested bool
	stopping      bool

	startedListeners  []func()
	stoppedListeners  []func()
	stoppingListeners []func()
}

func NewHostApplication() *HostApplication {
	return &HostApplication{}
}

func (ss *HostApplication) OnStarted(listener func()) {
	ss.lock.Lock()
	defer ss.lock.Unlock()
	ss.startedListeners = append(ss.startedListeners, listener)
}

func (ss *HostApplication) OnStopped(listener func()) {
	ss.lock.Lock()
	defer ss.lock.Unlock()
	ss.stoppedListeners = append(ss.stoppedListeners, listener)
}

func (ss *HostApplication) OnStopping(listener func()) {
	ss.lock.Lock()
	defer ss.lock.Unlock()
	ss.stoppingListeners = append(ss.stoppingListeners, listener)
}

func (ss *HostApplication) EmitRoutineStartedSuccess() {
	ss.lock.Lock()
	ss.started = true
	pending := ss.stopRequested
	listeners := append([]func(){}, ss.startedListeners...)
	ss.lock.Unlock()

	for _, listener := range listeners {
		listener()
	}

	if pending {
		ss.StopApplication()
	}
}

func (ss *HostApplication) EmitRoutineStartedFailed() {
	ss.lock.Lock()
	ss.started = true
	ss.lock.Unlock()

	ss.StopApplication()
}

func (ss *HostApplication) EmitRoutineStopped() {
	ss.lock.Lock()
	listeners := append([]func(){}, ss.stoppedListeners...)
	ss.lock.Unlock()

	for _, listener := range listeners {
		listener()
	}
}

// StopApplication fires the stopping listeners once.
func (ss *HostApplication) StopApplication() {
	ss.lock.Lock()
	if ss.stopping {
		ss.lock.Unlock()
		return
	}
	if !ss.started {
		ss.stopRequested = true
		ss.lock.Unlock()
		return
	}
	ss.stopping = true
	listeners := append([]func(){}, ss.stoppingListeners...)
	ss.lock.Unlock()

	for _, listener := range listeners {
		listener()
	}
}

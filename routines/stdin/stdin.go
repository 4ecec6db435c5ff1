package stdin

import (
	"bufio"
	"context"
	"io"
	"os"
	"strings"
	"sync/atomic"

	"github.com/mogud/snowdi/core/host"
	"github.com/mogud/snowdi/core/injection"
	"github.com/mogud/snowdi/core/sync"
)

var _ host.IHostedRoutine = (*Routine)(nil)

var Type = injection.TypeOf(NewRoutine)

// AddRoutine lets the application be stopped by typing "quit" or "exit".
func AddRoutine(b host.IBuilder) {
	host.AddHostedRoutine(b, Type, host.HostApplication)
}

// Routine drains standard input and stops the application on a quit command.
// Other lines are ignored.
type Routine struct {
	app    host.IHostApplication
	in     io.Reader
	quit   []string
	closed atomic.Bool
}

func NewRoutine(app host.IHostApplication) *Routine {
	return &Routine{
		app:  app,
		in:   os.Stdin,
		quit: []string{"quit", "exit"},
	}
}

// SetInput replaces standard input. It must be called before Start.
func (ss *Routine) SetInput(in io.Reader) {
	ss.in = in
}

func (ss *Routine) Start(_ context.Context, _ *sync.TimeoutWaitGroup) {
	in := ss.in
	go func() {
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			if ss.closed.Load() {
				return
			}
			if ss.isQuit(scanner.Text()) {
				ss.app.StopApplication()
				return
			}
		}
	}()
}

func (ss *Routine) Stop(_ context.Context, _ *sync.TimeoutWaitGroup) {
	ss.closed.Store(true)
}

func (ss *Routine) isQuit(line string) bool {
	line = strings.TrimSpace(line)
	for _, cmd := range ss.quit {
		if strings.EqualFold(line, cmd) {
			return true
		}
	}
	return false
}

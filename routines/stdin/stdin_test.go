package stdin_test

import (
	"context"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mogud/snowdi/core/sync"
	"github.com/mogud/snowdi/routines/stdin"
	"github.com/stretchr/testify/assert"
)

type app struct {
	stops atomic.Int32
}

func (ss *app) OnStarted(func())  {}
func (ss *app) OnStopped(func())  {}
func (ss *app) OnStopping(func()) {}
func (ss *app) StopApplication()  { ss.stops.Add(1) }

func TestQuitStopsApplication(t *testing.T) {
	a := &app{}
	r := stdin.NewRoutine(a)
	r.SetInput(strings.NewReader("hello\n  QUIT \nexit\n"))
	r.Start(context.Background(), sync.NewTimeoutWaitGroup())

	assert.Eventually(t, func() bool { return a.stops.Load() == 1 }, time.Second, 10*time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, int32(1), a.stops.Load())
}

func TestOtherInputIgnored(t *testing.T) {
	a := &app{}
	r := stdin.NewRoutine(a)
	r.SetInput(strings.NewReader("status\nhelp\n"))
	r.Start(context.Background(), sync.NewTimeoutWaitGroup())
	r.Stop(context.Background(), sync.NewTimeoutWaitGroup())

	time.Sleep(20 * time.Millisecond)
	assert.Zero(t, a.stops.Load())
}

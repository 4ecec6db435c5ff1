package sync

import (
	"context"
	"sync/atomic"
	"time"
)

type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// TimeoutWaitGroup is a WaitGroup whose wait can give up. Once a wait has
// returned, either because the counter reached zero or because it timed out, the
// group is finished and Add reports false.
type TimeoutWaitGroup struct {
	noCopy noCopy

	c       chan struct{}
	counter atomic.Int32
}

func NewTimeoutWaitGroup() *TimeoutWaitGroup {
	return &TimeoutWaitGroup{
		c: make(chan struct{}),
	}
}

func (ss *TimeoutWaitGroup) Done() {
	for {
		v := ss.counter.Load()
		switch {
		case v <= 0:
			return
		case v == 1:
			if ss.counter.CompareAndSwap(v, -1) {
				close(ss.c)
				return
			}
		default:
			if ss.counter.CompareAndSwap(v, v-1) {
				return
			}
		}
	}
}

func (ss *TimeoutWaitGroup) Add(n int) bool {
	for {
		v := ss.counter.Load()
		if v < 0 { // finished
			return false
		}

		if ss.counter.CompareAndSwap(v, v+int32(n)) {
			return true
		}
	}
}

// finish closes the group if nobody else did; it reports whether all Done calls
// had arrived.
func (ss *TimeoutWaitGroup) finish(onlyIfZero bool) bool {
	for {
		v := ss.counter.Load()
		if v < 0 {
			return true
		}
		if onlyIfZero && v != 0 {
			return false
		}
		if ss.counter.CompareAndSwap(v, -1) {
			close(ss.c)
			return v == 0
		}
	}
}

func (ss *TimeoutWaitGroup) WaitTimeout(dur time.Duration) bool {
	if ss.finish(true) {
		return true
	}

	timer := time.NewTimer(dur)
	defer timer.Stop()

	select {
	case <-ss.c:
		return true
	case <-timer.C:
		return ss.finish(false)
	}
}

// WaitContext is WaitTimeout bounded by ctx instead of a duration.
func (ss *TimeoutWaitGroup) WaitContext(ctx context.Context) bool {
	if ss.finish(true) {
		return true
	}

	select {
	case <-ss.c:
		return true
	case <-ctx.Done():
		return ss.finish(false)
	}
}

func (ss *TimeoutWaitGroup) Wait() {
	<-ss.c
}

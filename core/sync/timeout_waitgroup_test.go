package sync_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mogud/snowdi/core/sync"
	"github.com/stretchr/testify/assert"
)

func TestWait(t *testing.T) {
	a := atomic.Int32{}
	wg := sync.NewTimeoutWaitGroup()
	wg.Add(1)
	go func() {
		a.Store(5)
		wg.Done()
	}()
	wg.Wait()
	assert.Equal(t, int32(5), a.Load())
}

func TestWaitTimeout(t *testing.T) {
	a := atomic.Int32{}
	wg1 := sync.NewTimeoutWaitGroup()
	wg1.Add(1)
	release := make(chan struct{})
	go func() {
		<-release
		a.Store(5)
		wg1.Done()
	}()
	assert.False(t, wg1.WaitTimeout(time.Millisecond))
	assert.NotEqual(t, int32(5), a.Load())
	assert.False(t, wg1.Add(1), "finished group rejects Add")
	close(release)

	wg2 := sync.NewTimeoutWaitGroup()
	wg2.Add(1)
	go func() {
		time.Sleep(5 * time.Millisecond)
		a.Store(10)
		wg2.Done()
	}()
	assert.True(t, wg2.WaitTimeout(time.Second))
	assert.Equal(t, int32(10), a.Load())
}

func TestWaitTimeoutEmpty(t *testing.T) {
	wg := sync.NewTimeoutWaitGroup()
	assert.True(t, wg.WaitTimeout(0))
	wg.Wait()
}

func TestWaitContext(t *testing.T) {
	wg := sync.NewTimeoutWaitGroup()
	wg.Add(1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.False(t, wg.WaitContext(ctx))
	wg.Done()
	wg.Wait()
}

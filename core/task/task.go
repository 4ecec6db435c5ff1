package task

import (
	"fmt"

	"github.com/panjf2000/ants/v2"
)

var p *ants.PoolWithFunc

func init() {
	var err error
	p, err = ants.NewPoolWithFunc(100000, func(f any) {
		(f.(func()))()
	}, ants.WithPreAlloc(true))

	if err != nil {
		panic(fmt.Sprintf("init goroutine pool: %v", err))
	}
}

// Execute runs f on the shared goroutine pool, or on a fresh goroutine when the
// pool cannot take it.
func Execute(f func()) {
	if err := p.Invoke(f); err != nil {
		go f()
	}
}

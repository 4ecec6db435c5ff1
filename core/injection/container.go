package injection

import (
	"context"
	"fmt"
	"reflect"
	"sync/atomic"

	"github.com/mogud/snowdi/core/logging"
	"github.com/mogud/snowdi/core/logging/slog"
)

// Container maps selectors to values, factories or constructors and resolves
// them with their declared dependencies.
type Container struct {
	storage   *storage
	logger    logging.ILogger
	finalized atomic.Bool
}

func New(opts ...ContainerOption) *Container {
	o := &containerOptions{}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = logging.NewDefaultLogger("injection", slog.Handler(), nil)
	}
	return &Container{
		storage: newStorage(),
		logger:  o.logger,
	}
}

// Add registers sel. Dependencies are not checked until sel is resolved.
func (ss *Container) Add(sel Selector, opts ...Option) error {
	if isAbsent(sel) {
		return newError(TargetNull, "target is null", nil, nil)
	}

	o := &addOptions{scope: Singleton}
	for _, opt := range opts {
		opt(o)
	}
	if len(o.scope) == 0 {
		o.scope = Singleton
	}

	inject := make([]Selector, len(o.inject))
	copy(inject, o.inject)

	if !ss.storage.insert(newEntry(sel, o.value, inject, o.scope)) {
		return newError(TargetDuplicate, fmt.Sprintf("target %s already registered", DisplayName(sel)), sel, nil)
	}

	ss.logger.Debugf("add %s scope(%s) inject(%d)", DisplayName(sel), o.scope, len(inject))
	return nil
}

// MustAdd is Add for wiring code; it panics with the *Error on failure.
func (ss *Container) MustAdd(sel Selector, opts ...Option) *Container {
	if err := ss.Add(sel, opts...); err != nil {
		panic(err)
	}
	return ss
}

// Get resolves sel. An unregistered selector yields (nil, nil); every other
// failure is returned.
func (ss *Container) Get(sel Selector, rc Context) (any, error) {
	e, ok := ss.storage.lookup(sel)
	if !ok {
		return nil, nil
	}
	return ss.resolve(e, rc, nil)
}

// GetOrFail is Get that fails with UnknownTarget for an unregistered selector.
func (ss *Container) GetOrFail(sel Selector, rc Context) (any, error) {
	e, ok := ss.storage.lookup(sel)
	if !ok {
		return nil, newError(UnknownTarget, fmt.Sprintf("unknown target %s", DisplayName(sel)), sel, nil)
	}
	return ss.resolve(e, rc, nil)
}

func (ss *Container) Has(sel Selector) bool {
	_, ok := ss.storage.lookup(sel)
	return ok
}

// Selectors returns the registered selectors in registration order.
func (ss *Container) Selectors() []Selector {
	entries := ss.storage.entries()
	result := make([]Selector, 0, len(entries))
	for _, e := range entries {
		result = append(result, e.selector)
	}
	return result
}

func (ss *Container) Len() int {
	return ss.storage.len()
}

// Finalizer is implemented by constructed types that need a post-construction hook.
// Finalize looks at the constructor's declared result type, so a constructor
// returning an interface that does not include Finalizer is not finalized even
// when its concrete value implements it.
type Finalizer interface {
	OnFinalized() error
}

var finalizerType = reflect.TypeOf((*Finalizer)(nil)).Elem()

// Finalize resolves every registered constructor whose result implements Finalizer
// and calls its hook, one at a time in registration order. The first failure aborts
// the sweep and is returned unchanged.
func (ss *Container) Finalize(ctx context.Context) error {
	if !ss.finalized.CompareAndSwap(false, true) {
		ss.logger.Warnf("finalize called more than once")
	}

	count := 0
	for _, e := range ss.storage.entries() {
		t, ok := e.selector.(*Type)
		if !ok || !IsConstructable(t) {
			continue
		}
		out := t.Out()
		if out == nil || !out.Implements(finalizerType) {
			continue
		}

		if err := ctx.Err(); err != nil {
			return err
		}

		instance, err := ss.GetOrFail(e.selector, nil)
		if err != nil {
			return err
		}
		finalizer, ok := instance.(Finalizer)
		if !ok {
			continue
		}
		if err := finalizer.OnFinalized(); err != nil {
			return err
		}
		count++
	}

	ss.logger.Infof("finalized %d target(s)", count)
	return nil
}

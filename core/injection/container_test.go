package injection_test

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/mogud/snowdi/core/injection"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type widget struct {
	id int
}

type pair struct {
	A, B string
}

type httpRequest struct {
	injection.RequestContext
	path string
}

type handler struct {
	req *httpRequest
	dep *widget
}

type recordLogger struct {
	lock  sync.Mutex
	warns []string
}

func (ss *recordLogger) Tracef(string, ...any) {}
func (ss *recordLogger) Debugf(string, ...any) {}
func (ss *recordLogger) Infof(string, ...any)  {}
func (ss *recordLogger) Errorf(string, ...any) {}
func (ss *recordLogger) Fatalf(string, ...any) {}
func (ss *recordLogger) Warnf(format string, args ...any) {
	ss.lock.Lock()
	defer ss.lock.Unlock()
	ss.warns = append(ss.warns, fmt.Sprintf(format, args...))
}

func asError(t *testing.T, err error) *injection.Error {
	var e *injection.Error
	require.True(t, errors.As(err, &e), "expected *injection.Error, got %v", err)
	return e
}

func TestAddDuplicate(t *testing.T) {
	c := injection.New()
	require.NoError(t, c.Add(injection.Key("k"), injection.WithValue(1)))

	err := c.Add(injection.Key("k"), injection.WithValue(2), injection.WithScope(injection.Request))
	assert.ErrorIs(t, err, injection.TargetDuplicate)
	assert.Equal(t, injection.Key("k"), asError(t, err).Target)

	v, err := c.Get(injection.Key("k"), nil)
	assert.NoError(t, err)
	assert.Equal(t, 1, v, "duplicate registration must not overwrite")
}

func TestAddNull(t *testing.T) {
	c := injection.New()
	assert.ErrorIs(t, c.Add(nil), injection.TargetNull)
	assert.ErrorIs(t, c.Add(injection.Key("")), injection.TargetNull)
	assert.ErrorIs(t, c.Add((*injection.Symbol)(nil)), injection.TargetNull)
	assert.ErrorIs(t, c.Add((*injection.Type)(nil)), injection.TargetNull)
	assert.Equal(t, 0, c.Len())
}

func TestMustAddChains(t *testing.T) {
	c := injection.New()
	c.MustAdd(injection.Key("a"), injection.WithValue("x")).
		MustAdd(injection.Key("b"), injection.WithValue("y"))
	assert.True(t, c.Has(injection.Key("a")))
	assert.True(t, c.Has(injection.Key("b")))

	assert.Panics(t, func() {
		c.MustAdd(injection.Key("a"))
	})
}

func TestGetUnregistered(t *testing.T) {
	c := injection.New()
	sel := injection.NewSymbol("missing")

	v, err := c.Get(sel, nil)
	assert.NoError(t, err)
	assert.Nil(t, v)

	_, err = c.GetOrFail(sel, nil)
	assert.ErrorIs(t, err, injection.UnknownTarget)
	assert.Equal(t, injection.Selector(sel), asError(t, err).Target)
}

func TestSingletonIdempotence(t *testing.T) {
	c := injection.New()
	built := 0
	newWidget := injection.TypeOf(func() *widget {
		built++
		return &widget{id: built}
	})
	c.MustAdd(newWidget)

	first, err := c.Get(newWidget, nil)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		v, err := c.GetOrFail(newWidget, nil)
		require.NoError(t, err)
		assert.Same(t, first, v)
	}
	assert.Equal(t, 1, built)
}

func TestSingletonIgnoresContext(t *testing.T) {
	c := injection.New()
	newWidget := injection.TypeOf(func() *widget { return &widget{} })
	c.MustAdd(newWidget)

	a, err := c.Get(newWidget, injection.NewRequestContext())
	require.NoError(t, err)
	b, err := c.Get(newWidget, injection.NewRequestContext())
	require.NoError(t, err)
	assert.Same(t, a, b)
}

func TestRequestIsolation(t *testing.T) {
	c := injection.New()
	built := 0
	newWidget := injection.TypeOf(func() *widget {
		built++
		return &widget{id: built}
	})
	c.MustAdd(newWidget, injection.WithScope(injection.Request))

	rc1 := injection.NewRequestContext()
	rc2 := injection.NewRequestContext()

	a1, err := c.Get(newWidget, rc1)
	require.NoError(t, err)
	a2, err := c.Get(newWidget, rc1)
	require.NoError(t, err)
	b, err := c.Get(newWidget, rc2)
	require.NoError(t, err)

	assert.Same(t, a1, a2)
	assert.NotSame(t, a1, b)
	assert.Equal(t, 2, built)
	assert.Equal(t, 1, rc1.Len())
	assert.Equal(t, 1, rc2.Len())
}

func TestRequestCacheDroppedWithContext(t *testing.T) {
	c := injection.New()
	newWidget := injection.TypeOf(func() *widget { return &widget{id: 1} })
	c.MustAdd(newWidget, injection.WithScope(injection.Request))

	collected := make(chan struct{})
	func() {
		req := &httpRequest{path: "/gc"}
		_, err := c.Get(newWidget, req)
		require.NoError(t, err)
		require.Equal(t, 1, req.Len())
		runtime.SetFinalizer(req, func(*httpRequest) { close(collected) })
	}()

	assert.Eventually(t, func() bool {
		runtime.GC()
		select {
		case <-collected:
			return true
		default:
			return false
		}
	}, 5*time.Second, 10*time.Millisecond)
}

func TestRequestContextPassedToConstructor(t *testing.T) {
	c := injection.New()
	newWidget := injection.TypeOf(func() *widget { return &widget{id: 7} })
	newHandler := injection.TypeOf(func(w *widget, req *httpRequest) *handler {
		return &handler{req: req, dep: w}
	})
	c.MustAdd(newWidget).
		MustAdd(newHandler, injection.WithInject(newWidget), injection.WithScope(injection.Request))

	req := &httpRequest{path: "/index"}
	h, err := injection.Resolve[*handler](c, newHandler, req)
	require.NoError(t, err)
	assert.Same(t, req, h.req)
	assert.Equal(t, 7, h.dep.id)
	assert.Equal(t, 1, req.Len())
}

func TestRequestWithoutContext(t *testing.T) {
	c := injection.New()
	sel := injection.Key("req")
	c.MustAdd(sel, injection.WithValue("v"), injection.WithScope(injection.Request))

	_, err := c.Get(sel, nil)
	assert.ErrorIs(t, err, injection.RequestScopeContextRequired)

	_, err = c.Get(sel, (*httpRequest)(nil))
	assert.ErrorIs(t, err, injection.RequestScopeContextRequired)

	v, err := c.Get(sel, injection.NewRequestContext())
	assert.NoError(t, err)
	assert.Equal(t, "v", v)
}

func TestRequestDependenciesShareContext(t *testing.T) {
	c := injection.New()
	newWidget := injection.TypeOf(func() *widget { return &widget{} })
	newHandler := injection.TypeOf(func(w *widget) *handler { return &handler{dep: w} })
	c.MustAdd(newWidget, injection.WithScope(injection.Request)).
		MustAdd(newHandler, injection.WithInject(newWidget), injection.WithScope(injection.Request))

	rc := injection.NewRequestContext()
	h := injection.MustResolve[*handler](c, newHandler, rc)
	w := injection.MustResolve[*widget](c, newWidget, rc)
	assert.Same(t, w, h.dep)
}

func TestSingletonScopeWrongContext(t *testing.T) {
	c := injection.New()
	a := injection.Key("A")
	b := injection.Key("B")
	c.MustAdd(b, injection.WithValue("b"), injection.WithScope(injection.Request)).
		MustAdd(a, injection.WithValue(func(b string) string { return b }), injection.WithInject(b))

	_, err := c.Get(a, injection.NewRequestContext())
	require.ErrorIs(t, err, injection.SingletonScopeWrongContext)
	e := asError(t, err)
	assert.Equal(t, injection.Selector(a), e.Target)
	assert.Equal(t, injection.Selector(b), e.Dependency)
}

func TestUnknownDependency(t *testing.T) {
	c := injection.New()
	a := injection.Key("A")
	s := injection.NewSymbol("s")
	c.MustAdd(a, injection.WithValue(func(any) int { return 0 }), injection.WithInject(s))

	_, err := c.Get(a, nil)
	require.ErrorIs(t, err, injection.UnknownTarget)
	e := asError(t, err)
	assert.Equal(t, injection.Selector(a), e.Target)
	assert.Equal(t, injection.Selector(s), e.Dependency)
	assert.Contains(t, err.Error(), "Symbol(s)")
	assert.Contains(t, err.Error(), "A")
}

func TestValuePassthrough(t *testing.T) {
	c := injection.New()
	c.MustAdd(injection.Key("k"), injection.WithValue("v"))

	v, err := c.Get(injection.Key("k"), nil)
	assert.NoError(t, err)
	assert.Equal(t, "v", v)
}

func TestFactoryInvocation(t *testing.T) {
	c := injection.New()
	c.MustAdd(injection.Key("A"), injection.WithValue("x")).
		MustAdd(injection.Key("B"), injection.WithValue("y")).
		MustAdd(injection.Key("k"),
			injection.WithValue(func(a, b string) pair { return pair{A: a, B: b} }),
			injection.WithInject(injection.Key("A"), injection.Key("B")))

	v, err := c.Get(injection.Key("k"), nil)
	assert.NoError(t, err)
	assert.Equal(t, pair{A: "x", B: "y"}, v)
}

func TestFactoryCalledOnEverySingletonGet(t *testing.T) {
	c := injection.New()
	calls := 0
	c.MustAdd(injection.Key("k"), injection.WithValue(func() int {
		calls++
		return calls
	}))

	_, _ = c.Get(injection.Key("k"), nil)
	v, err := c.Get(injection.Key("k"), nil)
	assert.NoError(t, err)
	assert.Equal(t, 2, v)
	assert.Equal(t, 2, calls)
}

func TestFactoryReceivesContext(t *testing.T) {
	c := injection.New()
	c.MustAdd(injection.Key("path"),
		injection.WithValue(func(req *httpRequest) string { return req.path }),
		injection.WithScope(injection.Request))

	v, err := c.Get(injection.Key("path"), &httpRequest{path: "/a"})
	assert.NoError(t, err)
	assert.Equal(t, "/a", v)
}

func TestFactoryDeferredValue(t *testing.T) {
	c := injection.New()
	c.MustAdd(injection.Key("later"), injection.WithValue(func() <-chan int {
		ch := make(chan int, 1)
		ch <- 42
		return ch
	}))

	ch, err := injection.Resolve[<-chan int](c, injection.Key("later"), nil)
	require.NoError(t, err)
	assert.Equal(t, 42, <-ch)
}

func TestDuplicateDependencies(t *testing.T) {
	c := injection.New()
	c.MustAdd(injection.Key("A"), injection.WithValue("x")).
		MustAdd(injection.Key("k"),
			injection.WithValue(func(a string) string { return a + a }),
			injection.WithInject(injection.Key("A"), injection.Key("A")))

	v, err := c.Get(injection.Key("k"), nil)
	assert.NoError(t, err)
	assert.Equal(t, "xx", v)
}

func TestTargetTypeBadResolver(t *testing.T) {
	c := injection.New()
	c.MustAdd(injection.Key("empty"))

	_, err := c.Get(injection.Key("empty"), nil)
	assert.ErrorIs(t, err, injection.TargetTypeBadResolver)

	notFunc := injection.TypeOf(42)
	c.MustAdd(notFunc)
	_, err = c.Get(notFunc, nil)
	assert.ErrorIs(t, err, injection.TargetTypeBadResolver)
}

func TestUnknownScope(t *testing.T) {
	c := injection.New()
	c.MustAdd(injection.Key("k"), injection.WithValue("v"), injection.WithScope("session"))

	_, err := c.Get(injection.Key("k"), injection.NewRequestContext())
	assert.ErrorIs(t, err, injection.UnknownScope)
}

func TestCircularDependency(t *testing.T) {
	c := injection.New()
	a := injection.Key("A")
	b := injection.Key("B")
	c.MustAdd(a, injection.WithValue(func(string) string { return "a" }), injection.WithInject(b)).
		MustAdd(b, injection.WithValue(func(string) string { return "b" }), injection.WithInject(a))

	_, err := c.Get(a, nil)
	require.ErrorIs(t, err, injection.CircularDependency)
	assert.Contains(t, err.Error(), "A -> B -> A")
}

func TestSignatureMismatch(t *testing.T) {
	c := injection.New()
	tooMany := injection.TypeOf(func(a, b, c string) *widget { return nil })
	badArg := injection.TypeOf(func(n int) *widget { return &widget{id: n} })
	badResult := injection.TypeOf(func() (*widget, string) { return nil, "" })
	c.MustAdd(injection.Key("s"), injection.WithValue("str")).
		MustAdd(tooMany, injection.WithInject(injection.Key("s"))).
		MustAdd(badArg, injection.WithInject(injection.Key("s"))).
		MustAdd(badResult)

	for _, sel := range []injection.Selector{tooMany, badArg, badResult} {
		_, err := c.Get(sel, nil)
		assert.ErrorIs(t, err, injection.TargetSignatureMismatch, injection.DisplayName(sel))
	}
}

func TestConstructFailed(t *testing.T) {
	c := injection.New()
	errBoom := errors.New("boom")
	calls := 0
	newWidget := injection.TypeOf(func() (*widget, error) {
		calls++
		return nil, errBoom
	})
	c.MustAdd(newWidget)

	_, err := c.Get(newWidget, nil)
	assert.ErrorIs(t, err, injection.TargetConstructFailed)
	assert.ErrorIs(t, err, errBoom)
	assert.Equal(t, injection.TargetConstructFailed, injection.CodeOf(err))

	_, err = c.Get(newWidget, nil)
	assert.ErrorIs(t, err, errBoom)
	assert.Equal(t, 2, calls, "failed construction is not cached")
}

func TestNilArgumentIsZero(t *testing.T) {
	c := injection.New()
	c.MustAdd(injection.Key("nothing"), injection.WithValue(func() *widget { return nil })).
		MustAdd(injection.Key("k"),
			injection.WithValue(func(w *widget) bool { return w == nil }),
			injection.WithInject(injection.Key("nothing")))

	v, err := c.Get(injection.Key("k"), nil)
	assert.NoError(t, err)
	assert.Equal(t, true, v)
}

func TestErrorsPropagateUnmodified(t *testing.T) {
	c := injection.New()
	c.MustAdd(injection.Key("leaf"), injection.WithScope("bogus"), injection.WithValue(1)).
		MustAdd(injection.Key("mid"), injection.WithValue(func(int) int { return 0 }), injection.WithInject(injection.Key("leaf"))).
		MustAdd(injection.Key("root"), injection.WithValue(func(int) int { return 0 }), injection.WithInject(injection.Key("mid")))

	_, err := c.Get(injection.Key("root"), nil)
	require.ErrorIs(t, err, injection.UnknownScope)
	assert.Equal(t, injection.Selector(injection.Key("leaf")), asError(t, err).Target)
}

func TestSelectorsInRegistrationOrder(t *testing.T) {
	c := injection.New()
	sym := injection.NewSymbol("x")
	ty := injection.TypeOf(func() *widget { return nil })
	c.MustAdd(injection.Key("z")).MustAdd(sym).MustAdd(ty).MustAdd(injection.Key("a"))

	assert.Equal(t, []injection.Selector{injection.Key("z"), sym, ty, injection.Key("a")}, c.Selectors())
}

func TestSymbolsAreDistinct(t *testing.T) {
	c := injection.New()
	s1 := injection.NewSymbol("same")
	s2 := injection.NewSymbol("same")
	require.NoError(t, c.Add(s1, injection.WithValue(1)))
	require.NoError(t, c.Add(s2, injection.WithValue(2)))

	v1, _ := c.Get(s1, nil)
	v2, _ := c.Get(s2, nil)
	assert.Equal(t, 1, v1)
	assert.Equal(t, 2, v2)
}

func TestResolveTypeMismatch(t *testing.T) {
	c := injection.New()
	c.MustAdd(injection.Key("k"), injection.WithValue("v"))

	_, err := injection.Resolve[int](c, injection.Key("k"), nil)
	assert.ErrorIs(t, err, injection.TargetSignatureMismatch)
	assert.Panics(t, func() {
		injection.MustResolve[int](c, injection.Key("k"), nil)
	})
}

func TestConcurrentSingletonResolution(t *testing.T) {
	c := injection.New()
	newWidget := injection.TypeOf(func() *widget { return &widget{} })
	c.MustAdd(newWidget)

	results := make([]any, 16)
	wg := sync.WaitGroup{}
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = c.Get(newWidget, nil)
		}(i)
	}
	wg.Wait()

	stored, _ := c.Get(newWidget, nil)
	for _, v := range results {
		assert.Same(t, stored, v)
	}
}

type finalizable struct {
	name  string
	order *[]string
	err   error
}

func (ss *finalizable) OnFinalized() error {
	*ss.order = append(*ss.order, ss.name)
	return ss.err
}

func TestFinalizeSequencing(t *testing.T) {
	logger := &recordLogger{}
	c := injection.New(injection.WithLogger(logger))

	var order []string
	built := 0
	first := injection.TypeOf(func() *finalizable {
		built++
		return &finalizable{name: "first", order: &order}
	})
	second := injection.TypeOf(func() *finalizable {
		built++
		return &finalizable{name: "second", order: &order}
	})
	plain := injection.TypeOf(func() *widget { return &widget{} })
	c.MustAdd(first).MustAdd(plain).MustAdd(second).
		MustAdd(injection.Key("value"), injection.WithValue(&finalizable{name: "value", order: &order}))

	early, err := c.Get(first, nil)
	require.NoError(t, err)

	require.NoError(t, c.Finalize(context.Background()))
	assert.Equal(t, []string{"first", "second"}, order)
	assert.Equal(t, 2, built, "already resolved singleton is reused")

	again, _ := c.Get(first, nil)
	assert.Same(t, early, again)
	assert.Empty(t, logger.warns)

	require.NoError(t, c.Finalize(context.Background()))
	assert.Len(t, logger.warns, 1)
}

func TestFinalizeAbortsOnError(t *testing.T) {
	c := injection.New()
	errHook := errors.New("hook failed")

	var order []string
	first := injection.TypeOf(func() *finalizable {
		return &finalizable{name: "first", order: &order, err: errHook}
	})
	second := injection.TypeOf(func() *finalizable {
		return &finalizable{name: "second", order: &order}
	})
	c.MustAdd(first).MustAdd(second)

	err := c.Finalize(context.Background())
	assert.Same(t, errHook, err)
	assert.Equal(t, []string{"first"}, order)
}

func TestFinalizeResolutionFailure(t *testing.T) {
	c := injection.New()
	var order []string
	needsMissing := injection.TypeOf(func(string) *finalizable {
		return &finalizable{name: "x", order: &order}
	})
	c.MustAdd(needsMissing, injection.WithInject(injection.Key("missing")))

	err := c.Finalize(context.Background())
	assert.ErrorIs(t, err, injection.UnknownTarget)
	assert.Empty(t, order)
}

func TestFinalizeCancelled(t *testing.T) {
	c := injection.New()
	var order []string
	c.MustAdd(injection.TypeOf(func() *finalizable {
		return &finalizable{name: "first", order: &order}
	}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, c.Finalize(ctx), context.Canceled)
	assert.Empty(t, order)
}

type nameGetter interface {
	Name() string
}

func (ss *finalizable) Name() string {
	return ss.name
}

func TestFinalizeUsesDeclaredResultType(t *testing.T) {
	c := injection.New()
	var order []string
	hidden := injection.TypeOf(func() nameGetter {
		return &finalizable{name: "hidden", order: &order}
	})
	c.MustAdd(hidden)

	require.NoError(t, c.Finalize(context.Background()))
	assert.Empty(t, order)

	v, err := c.Get(hidden, nil)
	require.NoError(t, err)
	assert.Implements(t, (*injection.Finalizer)(nil), v)
}

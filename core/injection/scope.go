package injection

import (
	"reflect"
	"sync"
)

// Scope selects the caching policy of a registration.
type Scope string

const (
	Singleton Scope = "singleton"
	Request   Scope = "request"
)

// Context is the request object request-scoped instances are cached on. Embed
// RequestContext in your own request type to satisfy it.
type Context interface {
	requestCache() *RequestContext
}

var _ Context = (*RequestContext)(nil)

// RequestContext holds the request-scoped instances of one request. The container
// keeps no reference to it, so instances go away with the context.
type RequestContext struct {
	lock      sync.Mutex
	instances map[*entry]any
}

func NewRequestContext() *RequestContext {
	return &RequestContext{}
}

func (ss *RequestContext) requestCache() *RequestContext {
	return ss
}

// Len returns the number of instances cached on the context.
func (ss *RequestContext) Len() int {
	ss.lock.Lock()
	defer ss.lock.Unlock()
	return len(ss.instances)
}

func (ss *RequestContext) load(e *entry) (any, bool) {
	ss.lock.Lock()
	defer ss.lock.Unlock()
	v, ok := ss.instances[e]
	return v, ok
}

func (ss *RequestContext) loadOrStore(e *entry, v any) any {
	ss.lock.Lock()
	defer ss.lock.Unlock()
	if old, ok := ss.instances[e]; ok {
		return old
	}
	if ss.instances == nil {
		ss.instances = make(map[*entry]any)
	}
	ss.instances[e] = v
	return v
}

// contextMap is the per-entry view over request caches.
type contextMap struct {
	owner *entry
}

func (ss *contextMap) get(rc Context) (any, bool) {
	return rc.requestCache().load(ss.owner)
}

func (ss *contextMap) set(rc Context, v any) any {
	return rc.requestCache().loadOrStore(ss.owner, v)
}

func isNilContext(rc Context) bool {
	if rc == nil {
		return true
	}
	if rv := reflect.ValueOf(rc); rv.Kind() == reflect.Pointer && rv.IsNil() {
		return true
	}
	return rc.requestCache() == nil
}

package http

import (
	"net/http"
	gosync "sync"

	"github.com/mogud/snowdi/core/injection"
)

type route struct {
	method  string
	pattern string
	sel     injection.Selector
}

// Routes maps method and pattern to the selector resolving the handler. The
// server reads it once when constructed.
type Routes struct {
	lock   gosync.Mutex
	routes []route
}

func NewRoutes() *Routes {
	return &Routes{}
}

// Handle serves sel on method and pattern. sel must resolve to an http.Handler
// or a func(http.ResponseWriter, *http.Request). A func stored directly with
// injection.WithValue is a factory, so register handler funcs with host.AddValue
// or return them from a factory or constructor.
func (ss *Routes) Handle(method, pattern string, sel injection.Selector) *Routes {
	ss.lock.Lock()
	defer ss.lock.Unlock()
	ss.routes = append(ss.routes, route{method: method, pattern: pattern, sel: sel})
	return ss
}

func (ss *Routes) Get(pattern string, sel injection.Selector) *Routes {
	return ss.Handle(http.MethodGet, pattern, sel)
}

func (ss *Routes) Post(pattern string, sel injection.Selector) *Routes {
	return ss.Handle(http.MethodPost, pattern, sel)
}

func (ss *Routes) list() []route {
	ss.lock.Lock()
	defer ss.lock.Unlock()
	return append([]route(nil), ss.routes...)
}

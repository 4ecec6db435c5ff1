package http

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"runtime/debug"
	"slices"
	"strconv"
	gosync "sync"
	"sync/atomic"
	"time"
	"unsafe"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/klauspost/compress/gzhttp"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"

	"github.com/mogud/snowdi/core/host"
	"github.com/mogud/snowdi/core/injection"
	"github.com/mogud/snowdi/core/logging"
	"github.com/mogud/snowdi/core/logging/slog"
	"github.com/mogud/snowdi/core/sync"
	"github.com/mogud/snowdi/core/task"
)

// Option is bound from the "Http" configuration section.
type Option struct {
	Host             string   `snow:"Host"`
	MinPort          int      `snow:"MinPort"`
	MaxPort          int      `snow:"MaxPort"`
	KeepAliveSeconds int      `snow:"KeepAliveSeconds"`
	TimeoutSeconds   int      `snow:"TimeoutSeconds"`
	Compress         bool     `snow:"Compress"`
	WhiteList        []string `snow:"WhiteList"`
	Debug            bool     `snow:"Debug"`
}

var (
	OptionKey  = injection.NewSymbol("HttpOption")
	RoutesKey  = injection.NewSymbol("HttpRoutes")
	ServerType = injection.TypeOf(NewServer)
)

// AddServer registers the HTTP server as a hosted routine and returns the route
// table it will serve.
func AddServer(b host.IBuilder) *Routes {
	routes := NewRoutes()
	host.AddValue(b, RoutesKey, routes)
	host.AddOption[*Option](b, OptionKey, "Http")
	host.AddHostedRoutine(b, ServerType, OptionKey, RoutesKey, host.Container)
	return routes
}

var _ host.IHostedRoutine = (*Server)(nil)

type Server struct {
	opt       *Option
	logger    logging.ILogger
	container *injection.Container
	handler   http.Handler
	srv       *fasthttp.Server
	port      atomic.Int32

	lock    gosync.Mutex
	started bool
	ready   []func()
}

func NewServer(opt *Option, routes *Routes, container *injection.Container) *Server {
	if opt == nil {
		opt = &Option{}
	}
	if len(opt.Host) == 0 {
		opt.Host = "0.0.0.0"
	}
	if opt.MinPort == 0 {
		opt.MinPort = 10000
	}
	if opt.MaxPort == 0 {
		opt.MaxPort = 10099
	}
	if opt.KeepAliveSeconds == 0 {
		opt.KeepAliveSeconds = 60
	}
	if opt.TimeoutSeconds == 0 {
		opt.TimeoutSeconds = 5
	}

	ss := &Server{
		opt:       opt,
		container: container,
	}
	ss.logger = logging.NewDefaultLogger("http", slog.Handler(), nil).
		With("HttpServer", fmt.Sprintf("%X", unsafe.Pointer(ss)))
	ss.handler = ss.buildHandler(routes)
	return ss
}

func (ss *Server) buildHandler(routes *Routes) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	if len(ss.opt.WhiteList) > 0 {
		r.Use(ss.whiteList)
	}
	r.Use(ss.accessLog)
	r.Use(middleware.Recoverer)

	if ss.opt.Debug {
		r.Mount("/debug", middleware.Profiler())
		r.Get("/gc", func(w http.ResponseWriter, _ *http.Request) {
			debug.FreeOSMemory()
			_, _ = w.Write([]byte("force gc and free os memory executed"))
		})
	}

	if routes != nil {
		for _, rt := range routes.list() {
			r.Method(rt.method, rt.pattern, ss.route(rt.sel))
		}
	}

	if ss.opt.Compress {
		return gzhttp.GzipHandler(r)
	}
	return r
}

// Handler returns the router served by the server.
func (ss *Server) Handler() http.Handler {
	return ss.handler
}

func (ss *Server) Start(_ context.Context, _ *sync.TimeoutWaitGroup) {
	var listener net.Listener
	var err error
	listenConfig := &net.ListenConfig{KeepAlive: time.Duration(ss.opt.KeepAliveSeconds) * time.Second}
	port := ss.opt.MinPort
	for ; port <= ss.opt.MaxPort; port++ {
		listener, err = listenConfig.Listen(context.Background(), "tcp", net.JoinHostPort(ss.opt.Host, strconv.Itoa(port)))
		if err == nil {
			break
		}
	}
	if port > ss.opt.MaxPort {
		ss.logger.Fatalf("http listen failed: %v", err)
		return
	}
	ss.port.Store(int32(port))

	ss.srv = &fasthttp.Server{
		IdleTimeout:  time.Duration(ss.opt.KeepAliveSeconds) * time.Second,
		ReadTimeout:  time.Duration(ss.opt.TimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(ss.opt.TimeoutSeconds) * time.Second,
		Handler:      fasthttpadaptor.NewFastHTTPHandler(ss.handler),
	}

	srv := ss.srv
	task.Execute(func() {
		ss.logger.Infof("http server listen at %s", listener.Addr())
		if err := srv.Serve(listener); err != nil {
			ss.logger.Errorf("serve: %+v", err)
		}
	})

	ss.lock.Lock()
	ss.started = true
	ready := ss.ready
	ss.ready = nil
	ss.lock.Unlock()

	for _, cb := range ready {
		cb()
	}
}

func (ss *Server) Stop(ctx context.Context, wg *sync.TimeoutWaitGroup) {
	if ss.srv == nil {
		return
	}

	wg.Add(1)
	defer wg.Done()
	if err := ss.srv.ShutdownWithContext(ctx); err != nil {
		ss.logger.Warnf("shutdown: %v", err)
	}
}

// GetPort returns the bound port, or 0 before Start.
func (ss *Server) GetPort() int {
	return int(ss.port.Load())
}

// OnReady calls cb once the server is listening.
func (ss *Server) OnReady(cb func()) {
	ss.lock.Lock()
	if !ss.started {
		ss.ready = append(ss.ready, cb)
		ss.lock.Unlock()
		return
	}
	ss.lock.Unlock()
	cb()
}

// route serves the handler resolved from sel inside a fresh request context.
func (ss *Server) route(sel injection.Selector) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, r := newRequest(w, r)

		instance, err := ss.container.GetOrFail(sel, req)
		if err != nil {
			ss.logger.Errorf("resolve %s for %s %s: %v", injection.DisplayName(sel), r.Method, r.URL.Path, err)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}

		var h http.Handler
		switch v := instance.(type) {
		case http.Handler:
			h = v
		case func(http.ResponseWriter, *http.Request):
			h = http.HandlerFunc(v)
		default:
			ss.logger.Errorf("target %s resolved to %T, not an http.Handler", injection.DisplayName(sel), instance)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		h.ServeHTTP(w, r)
	}
}

func (ss *Server) whiteList(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := r.RemoteAddr
		if h, _, err := net.SplitHostPort(ip); err == nil {
			ip = h
		}
		if !slices.Contains(ss.opt.WhiteList, ip) {
			if ss.opt.Debug {
				ss.logger.Warnf("http request remote(%v) not in white list", r.RemoteAddr)
			}
			http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (ss *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		ss.logger.Debugf("[%s] %s %s %d %dB %v", middleware.GetReqID(r.Context()), r.Method, r.URL.Path,
			ww.Status(), ww.BytesWritten(), time.Since(start))
	})
}

package handler

import (
	"sync/atomic"

	"github.com/mogud/snowdi/core/logging"
)

var _ logging.ILogHandler = (*RootHandler)(nil)

// RootHandler forwards to a handler that may be swapped at any time. Records
// logged while no handler is bound are dropped.
type RootHandler struct {
	proxy atomic.Pointer[logging.ILogHandler]
}

func NewRootHandler(proxy logging.ILogHandler) *RootHandler {
	h := &RootHandler{}
	h.SetProxy(proxy)
	return h
}

func (ss *RootHandler) SetProxy(proxy logging.ILogHandler) {
	if proxy == nil {
		ss.proxy.Store(nil)
		return
	}
	ss.proxy.Store(&proxy)
}

func (ss *RootHandler) Log(data *logging.LogData) {
	if p := ss.proxy.Load(); p != nil {
		(*p).Log(data)
	}
}

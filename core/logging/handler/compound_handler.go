package handler

import (
	"sync"

	"github.com/mogud/snowdi/core/logging"
)

var _ logging.ILogHandler = (*CompoundHandler)(nil)

// CompoundHandler fans each record out to its handlers in insertion order.
type CompoundHandler struct {
	lock  sync.RWMutex
	proxy []logging.ILogHandler
}

func NewCompoundHandler(handlers ...logging.ILogHandler) *CompoundHandler {
	return &CompoundHandler{
		proxy: append([]logging.ILogHandler(nil), handlers...),
	}
}

func (ss *CompoundHandler) Log(data *logging.LogData) {
	ss.lock.RLock()
	handlers := ss.proxy
	ss.lock.RUnlock()

	for _, h := range handlers {
		h.Log(data)
	}
}

func (ss *CompoundHandler) AddHandler(h logging.ILogHandler) {
	ss.lock.Lock()
	defer ss.lock.Unlock()
	ss.proxy = append(ss.proxy[:len(ss.proxy):len(ss.proxy)], h)
}

func (ss *CompoundHandler) Len() int {
	ss.lock.RLock()
	defer ss.lock.RUnlock()
	return len(ss.proxy)
}

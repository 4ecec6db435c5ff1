package logging

import (
	"fmt"
	"io"
	"sync"
	"time"
)

type LogData struct {
	Time    time.Time
	Path    string // logger path, used by handlers to filter
	Name    string
	ID      string
	File    string
	Line    int
	Level   Level
	Custom  []any
	Message func() string
}

type ILogHandler interface {
	Log(data *LogData)
}

// LogHandlerFunc adapts a function to ILogHandler.
type LogHandlerFunc func(data *LogData)

func (ss LogHandlerFunc) Log(data *LogData) {
	ss(data)
}

func NewSimpleLogHandler(w io.Writer) ILogHandler {
	return &simpleLogHandler{w: w}
}

type simpleLogHandler struct {
	lock sync.Mutex
	w    io.Writer
}

func (ss *simpleLogHandler) Log(data *LogData) {
	message := DefaultLogFormatter(data)

	ss.lock.Lock()
	defer ss.lock.Unlock()
	_, _ = fmt.Fprintln(ss.w, message)
}

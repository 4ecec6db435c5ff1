package logging

import (
	"fmt"
	"strings"
	"sync"
)

type LogFormatter func(logData *LogData) string

// LogFormatterContainer maps formatter names, as referenced from handler options,
// to formatters.
type LogFormatterContainer struct {
	lock       sync.RWMutex
	formatters map[string]LogFormatter
}

func NewLogFormatterContainer() *LogFormatterContainer {
	c := &LogFormatterContainer{
		formatters: make(map[string]LogFormatter),
	}
	c.AddFormatter("Default", DefaultLogFormatter)
	c.AddFormatter("Color", ColorLogFormatter)
	return c
}

func (ss *LogFormatterContainer) AddFormatter(name string, formatter LogFormatter) {
	ss.lock.Lock()
	defer ss.lock.Unlock()
	ss.formatters[name] = formatter
}

// GetFormatter returns nil for an unknown name.
func (ss *LogFormatterContainer) GetFormatter(name string) LogFormatter {
	ss.lock.RLock()
	defer ss.lock.RUnlock()
	return ss.formatters[name]
}

func DefaultLogFormatter(logData *LogData) string {
	return formatLog(logData, false)
}

func ColorLogFormatter(logData *LogData) string {
	return formatLog(logData, true)
}

func formatLog(logData *LogData, color bool) string {
	level := logData.Level
	if level < NONE || level > FATAL {
		level = NONE
	}

	sb := strings.Builder{}
	sb.WriteString(logData.Time.Format("2006/01/02 15:04:05.00"))
	if color {
		sb.WriteString(l2info[level].color)
	}
	sb.WriteString(" " + l2info[level].str)
	sb.WriteString(fmt.Sprintf(" %12s", clip(logData.ID, 12, "-")))
	sb.WriteString(fmt.Sprintf(" %16s", clip(logData.Name, 16, "System")))
	if len(logData.File) != 0 {
		sb.WriteString(fmt.Sprintf(" %s(%d)", logData.File, logData.Line))
	}
	if logData.Message != nil {
		sb.WriteString(" " + logData.Message())
	}
	if color {
		sb.WriteString("\x1b[0m")
	}
	return sb.String()
}

func clip(s string, width int, empty string) string {
	if len(s) == 0 {
		return empty
	}
	if len(s) > width {
		return s[:width-2] + ".."
	}
	return s
}

type levelInfo struct {
	str   string
	color string
}

var l2info = [...]levelInfo{
	NONE:  {" NONE", ""},
	TRACE: {"TRACE", "\x1b[1;34m"},
	DEBUG: {"DEBUG", "\x1b[1;36m"},
	INFO:  {" INFO", "\x1b[1;37m"},
	WARN:  {" WARN", "\x1b[1;33m"},
	ERROR: {"ERROR", "\x1b[1;31m"},
	FATAL: {"FATAL", "\x1b[1;41m"},
}

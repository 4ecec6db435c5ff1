package console

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/mogud/snowdi/core/configuration"
	"github.com/mogud/snowdi/core/logging"
)

var _ logging.ILogHandler = (*Handler)(nil)

// Option is bound from the "Log:Console" configuration section.
type Option struct {
	Formatter     string                   `snow:"Formatter"`
	FileLineLevel int                      `snow:"FileLineLevel"`
	FileLineSkip  int                      `snow:"FileLineSkip"`
	ErrorLevel    logging.Level            `snow:"ErrorLevel"`
	Filter        map[string]logging.Level `snow:"Filter"`
	DefaultLevel  logging.Level            `snow:"DefaultLevel"`
}

func defaultOption() *Option {
	return &Option{
		Formatter:     "Color",
		FileLineLevel: int(logging.ERROR),
		FileLineSkip:  4,
		ErrorLevel:    logging.ERROR,
		Filter:        make(map[string]logging.Level),
		DefaultLevel:  logging.INFO,
	}
}

type Handler struct {
	lock             sync.Mutex
	option           *Option
	sortedFilterKeys []string
	formatter        logging.LogFormatter
	stdout           io.Writer
	stderr           io.Writer
}

func NewHandler() *Handler {
	handler := &Handler{
		option:    defaultOption(),
		formatter: logging.ColorLogFormatter,
		stdout:    os.Stdout,
		stderr:    os.Stderr,
	}
	handler.checkOption()
	return handler
}

// Construct binds the handler to the configuration section at path and rebinds
// it whenever the configuration reloads.
func (ss *Handler) Construct(cfg configuration.IConfiguration, path string, formatters *logging.LogFormatterContainer) {
	bind := func() {
		opt := defaultOption()
		configuration.Fill(cfg, path, opt)

		formatter := formatters.GetFormatter(opt.Formatter)
		if formatter == nil {
			formatter = logging.ColorLogFormatter
		}

		ss.lock.Lock()
		defer ss.lock.Unlock()
		ss.option = opt
		ss.formatter = formatter
		ss.checkOption()
	}

	bind()
	cfg.GetReloadNotifier().RegisterNotifyCallback(bind)
}

// SetOutput redirects records below ErrorLevel to stdout and the rest to stderr.
func (ss *Handler) SetOutput(stdout, stderr io.Writer) {
	ss.lock.Lock()
	defer ss.lock.Unlock()
	ss.stdout = stdout
	ss.stderr = stderr
}

// checkOption must be called with the lock held.
func (ss *Handler) checkOption() {
	keys := make([]string, 0, len(ss.option.Filter))
	for key := range ss.option.Filter {
		keys = append(keys, key)
	}
	// longest prefix first
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})
	ss.sortedFilterKeys = keys

	if ss.option.DefaultLevel == logging.NONE {
		ss.option.DefaultLevel = logging.INFO
	}
	if ss.option.ErrorLevel == logging.NONE {
		ss.option.ErrorLevel = logging.ERROR
	}
}

func (ss *Handler) Log(logData *logging.LogData) {
	if logData.Level == logging.NONE {
		return
	}

	ss.lock.Lock()
	curOption := ss.option
	filterKeys := ss.sortedFilterKeys
	formatter := ss.formatter
	stdout, stderr := ss.stdout, ss.stderr
	ss.lock.Unlock()

	filterLevel := curOption.DefaultLevel
	for _, key := range filterKeys {
		if len(logData.Path) >= len(key) && strings.EqualFold(logData.Path[:len(key)], key) {
			filterLevel = curOption.Filter[key]
			break
		}
	}

	if logData.Level < filterLevel {
		return
	}

	if len(logData.File) == 0 && curOption.FileLineLevel > 0 && int(logData.Level) >= curOption.FileLineLevel {
		if _, fn, ln, ok := runtime.Caller(curOption.FileLineSkip); ok {
			d := *logData
			d.File = fn
			d.Line = ln
			logData = &d
		}
	}

	message := formatter(logData)

	if logData.Level < curOption.ErrorLevel {
		_, _ = fmt.Fprintln(stdout, message)
	} else {
		_, _ = fmt.Fprintln(stderr, message)
	}
}

package logging

import "reflect"

type ILogger interface {
	Tracef(format string, args ...any)
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
	Fatalf(format string, args ...any)
}

// NewLogger returns a logger whose path is the full path of T, e.g.
// "github.com/mogud/snowdi/routines/http/Server".
func NewLogger[T any](handler ILogHandler, logDataBuilder func(data *LogData)) ILogger {
	return NewDefaultLogger(TypePath[T](), handler, logDataBuilder)
}

func TypePath[T any]() string {
	ty := reflect.TypeOf((*T)(nil)).Elem()
	for ty.Kind() == reflect.Pointer {
		ty = ty.Elem()
	}
	if len(ty.PkgPath()) == 0 {
		return ty.String()
	}
	return ty.PkgPath() + "/" + ty.Name()
}

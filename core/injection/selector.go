package injection

import (
	"fmt"
	"reflect"
	"runtime"
	"strings"
)

// Selector identifies a registration. It is one of Key, *Symbol or *Type.
type Selector interface {
	selectorTag()
}

var (
	_ Selector = Key("")
	_ Selector = (*Symbol)(nil)
	_ Selector = (*Type)(nil)
)

// Key is the string variant of Selector.
type Key string

func (ss Key) selectorTag() {}

func (ss Key) String() string {
	return string(ss)
}

// Symbol is a selector unique by identity. Two symbols with the same description
// are different selectors.
type Symbol struct {
	desc string
}

func NewSymbol(description string) *Symbol {
	return &Symbol{desc: description}
}

func (ss *Symbol) selectorTag() {}

func (ss *Symbol) Description() string {
	return ss.desc
}

func (ss *Symbol) String() string {
	return "Symbol(" + ss.Description() + ")"
}

// Type is the constructable variant of Selector. It wraps a constructor of the
// form func(deps..., [ctx]) T or func(deps..., [ctx]) (T, error).
type Type struct {
	ctor reflect.Value
	name string
}

// TypeOf wraps constructor into a selector. Call it once per constructor and keep
// the result: identity is the returned pointer.
func TypeOf(constructor any) *Type {
	t := &Type{ctor: reflect.ValueOf(constructor)}
	t.name = funcName(t.ctor)
	if len(t.name) == 0 {
		t.name = fmt.Sprintf("%T", constructor)
	}
	return t
}

func (ss *Type) selectorTag() {}

func (ss *Type) String() string {
	return ss.name
}

// Out returns the constructed type, or nil when the constructor is not a function.
func (ss *Type) Out() reflect.Type {
	if !ss.ctor.IsValid() || ss.ctor.Kind() != reflect.Func {
		return nil
	}
	ft := ss.ctor.Type()
	if ft.NumOut() == 0 {
		return nil
	}
	return ft.Out(0)
}

// IsConstructable reports whether sel can be invoked as a constructor.
func IsConstructable(sel Selector) bool {
	t, ok := sel.(*Type)
	if !ok || t == nil {
		return false
	}
	return t.ctor.IsValid() && t.ctor.Kind() == reflect.Func && !t.ctor.IsNil()
}

func isAbsent(sel Selector) bool {
	switch s := sel.(type) {
	case nil:
		return true
	case Key:
		return len(s) == 0
	case *Symbol:
		return s == nil
	case *Type:
		return s == nil
	}
	return false
}

// DisplayName renders v for diagnostics. It never panics.
func DisplayName(v any) (name string) {
	defer func() {
		if recover() != nil {
			name = fmt.Sprintf("%T", v)
		}
	}()

	switch t := v.(type) {
	case nil:
		return "<nil>"
	case Key:
		return string(t)
	case string:
		return t
	case *Symbol:
		if t == nil {
			return "<nil>"
		}
		return t.String()
	case *Type:
		if t == nil {
			return "<nil>"
		}
		return t.String()
	case fmt.Stringer:
		return t.String()
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Func {
		if n := funcName(rv); len(n) > 0 {
			return n
		}
		return rv.Type().String()
	}
	return fmt.Sprintf("%v", v)
}

func funcName(fn reflect.Value) string {
	if !fn.IsValid() || fn.Kind() != reflect.Func || fn.IsNil() {
		return ""
	}
	f := runtime.FuncForPC(fn.Pointer())
	if f == nil {
		return ""
	}
	name := f.Name()
	if idx := strings.LastIndexByte(name, '/'); idx >= 0 {
		name = name[idx+1:]
	}
	return name
}

func pathString(path []Selector) string {
	names := make([]string, 0, len(path))
	for _, sel := range path {
		names = append(names, DisplayName(sel))
	}
	return strings.Join(names, " -> ")
}

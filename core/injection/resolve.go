package injection

import (
	"fmt"
	"reflect"
)

var errorType = reflect.TypeOf((*error)(nil)).Elem()

func isFunc(v any) bool {
	return reflect.ValueOf(v).Kind() == reflect.Func
}

// resolve applies the scope policy of e. path holds the selectors being
// constructed above this call.
func (ss *Container) resolve(e *entry, rc Context, path []Selector) (any, error) {
	switch e.scope {
	case Singleton:
		value, kind := ss.storage.slot(e)
		if kind == kindPlain {
			return value, nil
		}
		instance, err := ss.instantiate(e, value, kind, nil, path)
		if err != nil {
			return nil, err
		}
		if kind == kindEmpty {
			return ss.storage.fill(e, instance), nil
		}
		return instance, nil
	case Request:
		if isNilContext(rc) {
			return nil, newError(RequestScopeContextRequired,
				fmt.Sprintf("target %s is request scoped and needs a context", DisplayName(e.selector)), e.selector, nil)
		}
		if instance, ok := e.contexts.get(rc); ok {
			return instance, nil
		}
		value, kind := ss.storage.slot(e)
		instance, err := ss.instantiate(e, value, kind, rc, path)
		if err != nil {
			return nil, err
		}
		return e.contexts.set(rc, instance), nil
	default:
		return nil, newError(UnknownScope,
			fmt.Sprintf("target %s has unknown scope %q", DisplayName(e.selector), string(e.scope)), e.selector, nil)
	}
}

// instantiate produces one instance from the stored value: a plain value is
// returned as is, a factory is called and an empty slot is filled by the
// selector's constructor.
func (ss *Container) instantiate(e *entry, value any, kind valueKind, rc Context, path []Selector) (any, error) {
	var fn reflect.Value
	switch kind {
	case kindPlain:
		return value, nil
	case kindFactory:
		fn = reflect.ValueOf(value)
	default:
		if !IsConstructable(e.selector) {
			return nil, newError(TargetTypeBadResolver,
				fmt.Sprintf("target %s has no value and is not constructable", DisplayName(e.selector)), e.selector, nil)
		}
		fn = e.selector.(*Type).ctor
	}

	for _, sel := range path {
		if sel == e.selector {
			chain := append(path[:len(path):len(path)], e.selector)
			return nil, newError(CircularDependency,
				fmt.Sprintf("circular dependency: %s", pathString(chain)), e.selector, nil)
		}
	}
	path = append(path[:len(path):len(path)], e.selector)

	args, err := ss.resolveArgs(e, rc, path)
	if err != nil {
		return nil, err
	}

	ss.logger.Debugf("construct %s with %d argument(s)", DisplayName(e.selector), len(args))
	return call(e.selector, fn, args, rc)
}

// resolveArgs resolves the dependencies of e in declaration order, skipping
// repeated selectors.
func (ss *Container) resolveArgs(e *entry, rc Context, path []Selector) ([]any, error) {
	if len(e.inject) == 0 {
		return nil, nil
	}

	args := make([]any, 0, len(e.inject))
	seen := make(map[Selector]struct{}, len(e.inject))
	for _, dep := range e.inject {
		if _, ok := seen[dep]; ok {
			continue
		}
		seen[dep] = struct{}{}

		de, ok := ss.storage.lookup(dep)
		if !ok {
			return nil, newError(UnknownTarget,
				fmt.Sprintf("unknown dependency %s of target %s", DisplayName(dep), DisplayName(e.selector)), e.selector, dep)
		}
		if e.scope == Singleton && de.scope == Request {
			return nil, newError(SingletonScopeWrongContext,
				fmt.Sprintf("singleton target %s depends on request scoped %s", DisplayName(e.selector), DisplayName(dep)), e.selector, dep)
		}

		arg, err := ss.resolve(de, rc, path)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}
	return args, nil
}

// call invokes fn with args and, when fn takes one more parameter, the context.
func call(sel Selector, fn reflect.Value, args []any, rc Context) (any, error) {
	mismatch := func(format string, a ...any) error {
		return newError(TargetSignatureMismatch,
			fmt.Sprintf("target %s: ", DisplayName(sel))+fmt.Sprintf(format, a...), sel, nil)
	}

	ft := fn.Type()
	if ft.IsVariadic() {
		return nil, mismatch("variadic constructors are not supported")
	}

	numIn := ft.NumIn()
	withContext := false
	switch numIn {
	case len(args):
	case len(args) + 1:
		withContext = true
	default:
		return nil, mismatch("takes %d parameter(s), %d dependencies resolved", numIn, len(args))
	}

	switch ft.NumOut() {
	case 1:
	case 2:
		if ft.Out(1) != errorType {
			return nil, mismatch("second result must be error, got %v", ft.Out(1))
		}
	default:
		return nil, mismatch("must return a value and optionally an error")
	}

	in := make([]reflect.Value, numIn)
	for i, arg := range args {
		pt := ft.In(i)
		if arg == nil {
			in[i] = reflect.Zero(pt)
			continue
		}
		av := reflect.ValueOf(arg)
		if !av.Type().AssignableTo(pt) {
			return nil, mismatch("argument %d: %v is not assignable to %v", i, av.Type(), pt)
		}
		in[i] = av
	}
	if withContext {
		pt := ft.In(numIn - 1)
		if isNilContext(rc) {
			in[numIn-1] = reflect.Zero(pt)
		} else {
			cv := reflect.ValueOf(rc)
			if !cv.Type().AssignableTo(pt) {
				return nil, mismatch("context %v is not assignable to %v", cv.Type(), pt)
			}
			in[numIn-1] = cv
		}
	}

	out := fn.Call(in)
	if len(out) == 2 && !out[1].IsNil() {
		cause := out[1].Interface().(error)
		return nil, &Error{
			Code:    TargetConstructFailed,
			Message: fmt.Sprintf("construct %s failed", DisplayName(sel)),
			Target:  sel,
			Cause:   cause,
		}
	}
	return out[0].Interface(), nil
}

// Resolve resolves sel and asserts the instance to T.
func Resolve[T any](c *Container, sel Selector, rc Context) (T, error) {
	var zero T
	instance, err := c.GetOrFail(sel, rc)
	if err != nil {
		return zero, err
	}
	if instance == nil {
		return zero, nil
	}
	result, ok := instance.(T)
	if !ok {
		return zero, newError(TargetSignatureMismatch,
			fmt.Sprintf("target %s resolved to %T, not %v", DisplayName(sel), instance, reflect.TypeOf((*T)(nil)).Elem()), sel, nil)
	}
	return result, nil
}

func MustResolve[T any](c *Container, sel Selector, rc Context) T {
	result, err := Resolve[T](c, sel, rc)
	if err != nil {
		panic(err)
	}
	return result
}

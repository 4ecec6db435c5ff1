package host

import (
	"reflect"

	"github.com/mogud/snowdi/core/configuration"
	"github.com/mogud/snowdi/core/injection"
)

// AddSingleton registers a constructor selector in singleton scope.
func AddSingleton(b IBuilder, sel injection.Selector, inject ...injection.Selector) {
	b.GetContainer().MustAdd(sel, injection.WithInject(inject...))
}

// AddScoped registers a constructor selector in request scope.
func AddScoped(b IBuilder, sel injection.Selector, inject ...injection.Selector) {
	b.GetContainer().MustAdd(sel, injection.WithInject(inject...), injection.WithScope(injection.Request))
}

// AddValue registers value as the instance of sel. A func value is returned as
// is rather than called as a factory.
func AddValue(b IBuilder, sel injection.Selector, value any) {
	if value != nil && reflect.TypeOf(value).Kind() == reflect.Func {
		b.GetContainer().MustAdd(sel, injection.WithValue(func() any { return value }))
		return
	}
	b.GetContainer().MustAdd(sel, injection.WithValue(value))
}

// AddFactory registers factory under sel. The factory runs on every resolution.
func AddFactory(b IBuilder, sel injection.Selector, factory any, inject ...injection.Selector) {
	b.GetContainer().MustAdd(sel, injection.WithValue(factory), injection.WithInject(inject...))
}

// AddOption registers sel as a fresh T bound from the configuration section at
// path. The section is read again on every resolution so reloads are observed.
func AddOption[T any](b IBuilder, sel injection.Selector, path string) {
	AddFactory(b, sel, func(cfg configuration.IConfiguration) T {
		return configuration.Get[T](cfg, path)
	}, Configuration)
}

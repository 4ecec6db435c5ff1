package injection

import (
	"github.com/mogud/snowdi/core/logging"
)

type addOptions struct {
	value  any
	inject []Selector
	scope  Scope
}

// Option configures a single registration.
type Option func(opts *addOptions)

// WithValue stores v in the registration. A func value is a factory called on
// resolution with the resolved dependencies; anything else is returned as is.
func WithValue(v any) Option {
	return func(opts *addOptions) {
		opts.value = v
	}
}

// WithInject declares the dependencies passed to the constructor or factory.
func WithInject(sels ...Selector) Option {
	return func(opts *addOptions) {
		opts.inject = append(opts.inject, sels...)
	}
}

func WithScope(scope Scope) Option {
	return func(opts *addOptions) {
		opts.scope = scope
	}
}

type containerOptions struct {
	logger logging.ILogger
}

type ContainerOption func(opts *containerOptions)

func WithLogger(logger logging.ILogger) ContainerOption {
	return func(opts *containerOptions) {
		opts.logger = logger
	}
}

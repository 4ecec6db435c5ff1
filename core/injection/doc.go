// Package injection is a dependency-injection container.
//
// Registrations are keyed by a Selector: a Key, a *Symbol or a *Type wrapping a
// constructor function. A registration holds either nothing (the *Type
// constructor builds the instance), a plain value, or a factory function. The
// declared dependencies are resolved first and passed positionally; a
// constructor or factory taking one extra trailing parameter also receives the
// request Context.
//
//	c := injection.New()
//	newRepo := injection.TypeOf(NewRepo)
//	newService := injection.TypeOf(NewService)
//	c.MustAdd(injection.Key("dsn"), injection.WithValue("file::memory:")).
//		MustAdd(newRepo, injection.WithInject(injection.Key("dsn"))).
//		MustAdd(newService, injection.WithInject(newRepo), injection.WithScope(injection.Request))
//
//	rc := injection.NewRequestContext()
//	svc, err := injection.Resolve[*Service](c, newService, rc)
//
// Singleton instances are created once and kept by the container. Request
// instances are cached on the Context passed to Get, never on the container, so
// they are released together with the context. A singleton may not depend on a
// request scoped registration.
package injection

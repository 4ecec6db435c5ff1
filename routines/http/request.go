package http

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/mogud/snowdi/core/injection"
)

type requestKey struct{}

// Request is the request context handed to request-scoped constructors. It lives
// for one HTTP request; instances resolved with it are dropped with it.
type Request struct {
	injection.RequestContext

	ID     string
	HTTP   *http.Request
	Writer http.ResponseWriter
}

func newRequest(w http.ResponseWriter, r *http.Request) (*Request, *http.Request) {
	req := &Request{
		ID:     middleware.GetReqID(r.Context()),
		Writer: w,
	}
	r = r.WithContext(context.WithValue(r.Context(), requestKey{}, req))
	req.HTTP = r
	return req, r
}

// FromContext returns the Request of a routed handler, or nil outside one.
func FromContext(ctx context.Context) *Request {
	req, _ := ctx.Value(requestKey{}).(*Request)
	return req
}

func (ss *Request) URLParam(key string) string {
	return chi.URLParam(ss.HTTP, key)
}

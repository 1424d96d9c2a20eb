package server

import (
	"net/http"
	"slices"
	"strings"
)

// BasicRouter is a simple HTTP router implementing the [Router] interface.
//
// Uses [http.ServeMux] internally for routing. Paths registered through [BasicRouter.Handle]
// may be registered once per method; every method shares one mux entry and one middleware chain.
type BasicRouter struct {
	mux         *http.ServeMux
	middlewares []Middleware
	routes      map[string]*methodRoute
}

// methodRoute dispatches one path by request method.
type methodRoute struct {
	handlers map[string]http.Handler
	allow    []string
}

func (m *methodRoute) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	method := strings.ToUpper(req.Method)
	if h, ok := m.handlers[method]; ok {
		h.ServeHTTP(w, req)
		return
	}
	if h, ok := m.handlers[http.MethodGet]; ok && method == http.MethodHead {
		h.ServeHTTP(w, req)
		return
	}

	w.Header().Set("Allow", strings.Join(m.allow, ", "))
	writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
}

// NewBasicRouter creates a new [BasicRouter] instance.
func NewBasicRouter() *BasicRouter {
	return &BasicRouter{
		mux:         http.NewServeMux(),
		middlewares: []Middleware{},
		routes:      map[string]*methodRoute{},
	}
}

// Use adds [Middleware] to the [Router] instance's middleware stack, applied in the order it's added.
//
// Middleware must be added before routes are registered.
func (r *BasicRouter) Use(middleware ...Middleware) {
	r.middlewares = append(r.middlewares, middleware...)
}

// Handle registers a handler for method on path. GET routes also answer HEAD.
//
// The method check runs inside the middleware chain so CORS preflights reach it.
func (r *BasicRouter) Handle(method, path string, handler http.Handler) {
	method = strings.ToUpper(method)

	route, ok := r.routes[path]
	if !ok {
		route = &methodRoute{handlers: map[string]http.Handler{}}
		r.routes[path] = route
		r.mux.Handle(path, r.Apply(route))
	}

	route.handlers[method] = handler
	if !slices.Contains(route.allow, method) {
		route.allow = append(route.allow, method)
		if method == http.MethodGet {
			route.allow = append(route.allow, http.MethodHead)
		}
	}
}

// Handler registers a custom Handler implementation.
//
// All routes returned by [Handler.Routes] are registered with this handler, which does its own method dispatch.
func (r *BasicRouter) Handler(handler Handler) {
	wrapped := r.Apply(handler)

	for _, route := range handler.Routes() {
		r.mux.Handle(route, wrapped)
	}
}

// ServeHTTP implements [http.Handler] for the entire router.
func (r *BasicRouter) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// Apply wraps a handler with all registered middleware; the first added runs outermost.
func (r *BasicRouter) Apply(handler http.Handler) http.Handler {
	wrapped := handler
	for _, mw := range slices.Backward(r.middlewares) {
		wrapped = mw(wrapped)
	}
	return wrapped
}

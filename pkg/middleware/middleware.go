// Package middleware provides composable net/http middleware.
package middleware

import "net/http"

// System manages an ordered stack of HTTP middleware.
type System interface {
	Use(mw ...func(http.Handler) http.Handler)
	Apply(handler http.Handler) http.Handler
}

type mw struct {
	stack []func(http.Handler) http.Handler
}

// New creates an empty middleware System.
func New() System {
	return &mw{}
}

func (m *mw) Use(fns ...func(http.Handler) http.Handler) {
	m.stack = append(m.stack, fns...)
}

// Apply wraps handler so the first registered middleware runs outermost.
func (m *mw) Apply(handler http.Handler) http.Handler {
	for i := len(m.stack) - 1; i >= 0; i-- {
		handler = m.stack[i](handler)
	}
	return handler
}

package router

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

type HandlerFunc func(http.ResponseWriter, *http.Request)

// Middleware wraps the whole router
type Middleware func(http.Handler) http.Handler

type paramsKey struct{}

type Router struct {
	mux       *http.ServeMux
	routes    map[string]HandlerFunc // key = METHOD:PATH
	paths     map[string]bool        // track registered paths
	wildcards []string               // wildcard paths in registration order
	middle    []Middleware

	// NotFound and MethodNotAllowed answer unmatched requests
	NotFound         HandlerFunc
	MethodNotAllowed HandlerFunc
}

func New() *Router {
	r := &Router{
		mux:    http.NewServeMux(),
		routes: make(map[string]HandlerFunc),
		paths:  make(map[string]bool),
		NotFound: func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "Not Found", http.StatusNotFound)
		},
		MethodNotAllowed: func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		},
	}

	// Catch-all handler, dispatches on METHOD:PATH
	r.mux.HandleFunc("/", func(w http.ResponseWriter, req *http.Request) {
		start := time.Now()
		lrw := &loggingResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		r.dispatch(lrw, req)

		log.Info().
			Str("method", req.Method).
			Str("path", req.URL.Path).
			Int("status", lrw.statusCode).
			Dur("duration", time.Since(start)).
			Msg("request")
	})

	return r
}

func (r *Router) dispatch(w http.ResponseWriter, req *http.Request) {
	key := req.Method + ":" + req.URL.Path
	if h, ok := r.routes[key]; ok {
		h(w, req)
		return
	}

	// Wildcard routes are tried in registration order, so register the
	// more specific ones first
	pathMatched := r.paths[req.URL.Path]
	for _, routePath := range r.wildcards {
		params, ok := matchWildcardRoute(req.URL.Path, routePath)
		if !ok {
			continue
		}
		if h, ok := r.routes[req.Method+":"+routePath]; ok {
			ctx := context.WithValue(req.Context(), paramsKey{}, params)
			h(w, req.WithContext(ctx))
			return
		}
		pathMatched = true
	}

	if pathMatched {
		r.MethodNotAllowed(w, req)
		return
	}
	r.NotFound(w, req)
}

// Params returns the path segments matched by wildcards, in order. A trailing
// wildcard contributes the remaining path as one element.
func Params(req *http.Request) []string {
	params, _ := req.Context().Value(paramsKey{}).([]string)
	return params
}

// Param returns the i-th wildcard segment, or "" if there is none.
func Param(req *http.Request, i int) string {
	params := Params(req)
	if i < 0 || i >= len(params) {
		return ""
	}
	return params[i]
}

// matchWildcardRoute checks if a request path matches a wildcard route pattern
// and returns the segments the wildcards matched.
func matchWildcardRoute(requestPath, routePattern string) ([]string, bool) {
	requestSegments := strings.Split(strings.Trim(requestPath, "/"), "/")
	routeSegments := strings.Split(strings.Trim(routePattern, "/"), "/")

	var params []string

	// A trailing wildcard matches any number of remaining segments
	if len(routeSegments) > 0 && routeSegments[len(routeSegments)-1] == "*" {
		prefix := routeSegments[:len(routeSegments)-1]
		if len(requestSegments) < len(prefix) {
			return nil, false
		}
		for i, seg := range prefix {
			if seg == "*" {
				params = append(params, requestSegments[i])
				continue
			}
			if requestSegments[i] != seg {
				return nil, false
			}
		}
		return append(params, strings.Join(requestSegments[len(prefix):], "/")), true
	}

	if len(requestSegments) != len(routeSegments) {
		return nil, false
	}

	for i, routeSegment := range routeSegments {
		if routeSegment == "*" {
			if requestSegments[i] == "" {
				return nil, false
			}
			params = append(params, requestSegments[i])
			continue
		}
		if requestSegments[i] != routeSegment {
			return nil, false
		}
	}

	return params, true
}

// --- Register paths ---
func (r *Router) register(method, path string, handler HandlerFunc) {
	key := method + ":" + path
	r.routes[key] = handler
	if !r.paths[path] && strings.Contains(path, "*") {
		r.wildcards = append(r.wildcards, path)
	}
	r.paths[path] = true
}

func (r *Router) GET(path string, handler HandlerFunc)    { r.register(http.MethodGet, path, handler) }
func (r *Router) POST(path string, handler HandlerFunc)   { r.register(http.MethodPost, path, handler) }
func (r *Router) PUT(path string, handler HandlerFunc)    { r.register(http.MethodPut, path, handler) }
func (r *Router) PATCH(path string, handler HandlerFunc)  { r.register(http.MethodPatch, path, handler) }
func (r *Router) DELETE(path string, handler HandlerFunc) { r.register(http.MethodDelete, path, handler) }

// Use appends middleware. The first added runs outermost.
func (r *Router) Use(mw Middleware) {
	r.middle = append(r.middle, mw)
}

// Getter methods for testing
func (r *Router) Routes() map[string]HandlerFunc {
	return r.routes
}

func (r *Router) Paths() map[string]bool {
	return r.paths
}

// Handler returns the router wrapped in its middleware.
func (r *Router) Handler() http.Handler {
	var h http.Handler = r.mux
	for i := len(r.middle) - 1; i >= 0; i-- {
		h = r.middle[i](h)
	}
	return h
}

// --- Start server ---

// Start serves on addr until ctx is cancelled, then shuts down gracefully.
func (r *Router) Start(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           r.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("address", addr).Msg("🚀 Server started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("Server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// --- Logging response writer to capture status codes ---
type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.statusCode = code
	lrw.ResponseWriter.WriteHeader(code)
}

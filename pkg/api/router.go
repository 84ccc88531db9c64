package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	_ "offerboard/docs"
	"offerboard/pkg/logger"
	"offerboard/pkg/metrics"
	"offerboard/pkg/store"
)

// Options configures the optional parts of the router.
type Options struct {
	// Tracer starts request spans. The global provider is used when nil.
	Tracer trace.Tracer
	// Metrics records request and write metrics when set.
	Metrics *metrics.Collector
	// Gatherer backs GET /metrics when set.
	Gatherer prometheus.Gatherer
	// RateLimit is the sustained requests per second. Zero disables it.
	RateLimit float64
	RateBurst int
}

// NewRouter wires every endpoint and the middleware chain around s.
func NewRouter(s store.Store, log *logger.Logger, opts Options) http.Handler {
	h := NewHandler(s, log, opts.Metrics)

	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(routeNotFound)
	r.MethodNotAllowedHandler = http.HandlerFunc(methodNotAllowed)
	if opts.Metrics != nil {
		observe := metricsMiddleware(opts.Metrics)
		r.Use(observe)
		// mux skips middleware for these, so they are wrapped directly.
		r.NotFoundHandler = observe(r.NotFoundHandler)
		r.MethodNotAllowedHandler = observe(r.MethodNotAllowedHandler)
	}

	r.HandleFunc("/users", h.listUsers).Methods(http.MethodGet)
	r.HandleFunc("/users", h.createUser).Methods(http.MethodPost)
	r.HandleFunc("/users/{id:[0-9]+}", h.getUser).Methods(http.MethodGet)
	r.HandleFunc("/users/{id:[0-9]+}", h.updateUser).Methods(http.MethodPut)
	r.HandleFunc("/users/{id:[0-9]+}", h.deleteUser).Methods(http.MethodDelete)

	r.HandleFunc("/orders", h.listOrders).Methods(http.MethodGet)
	r.HandleFunc("/orders", h.createOrder).Methods(http.MethodPost)
	r.HandleFunc("/orders/{id:[0-9]+}", h.getOrder).Methods(http.MethodGet)
	r.HandleFunc("/orders/{id:[0-9]+}", h.updateOrder).Methods(http.MethodPut)
	r.HandleFunc("/orders/{id:[0-9]+}", h.deleteOrder).Methods(http.MethodDelete)

	r.HandleFunc("/offers", h.listOffers).Methods(http.MethodGet)
	r.HandleFunc("/offers", h.createOffer).Methods(http.MethodPost)
	r.HandleFunc("/offers/{id:[0-9]+}", h.getOffer).Methods(http.MethodGet)
	r.HandleFunc("/offers/{id:[0-9]+}", h.updateOffer).Methods(http.MethodPut)
	r.HandleFunc("/offers/{id:[0-9]+}", h.deleteOffer).Methods(http.MethodDelete)

	r.HandleFunc("/health", h.health).Methods(http.MethodGet)
	if opts.Gatherer != nil {
		r.Handle("/metrics", metrics.Handler(opts.Gatherer)).Methods(http.MethodGet)
	}
	r.PathPrefix("/swagger/").Handler(httpSwagger.WrapHandler)

	// Wrapped inside out: tracing runs first, the rate limiter last.
	var handler http.Handler = r
	if opts.RateLimit > 0 {
		burst := opts.RateBurst
		if burst < 1 {
			burst = 1
		}
		handler = rateLimitMiddleware(rate.NewLimiter(rate.Limit(opts.RateLimit), burst))(handler)
	}
	handler = recoveryMiddleware(log)(handler)
	handler = loggingMiddleware(log)(handler)
	handler = requestIDMiddleware(handler)
	handler = traceMiddleware(opts.Tracer)(handler)
	return handler
}

func routeNotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotFound, ErrorResponse{
		Code:    CodeRouteNotFound,
		Message: "no route for " + r.URL.Path,
	})
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusMethodNotAllowed, ErrorResponse{
		Code:    CodeMethodNotAllowed,
		Message: r.Method + " is not allowed on " + r.URL.Path,
	})
}

package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"vincula/internal/catalog"
	"vincula/internal/metrics"
	ordercontroller "vincula/internal/order/controller"
)

func NewRouter(
	orderCtrl *ordercontroller.OrderController,
	catalogModule *catalog.Module,
	authMiddleware func(http.Handler) http.Handler,
	m *metrics.Metrics,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.Recoverer)
	r.Use(metricsMiddleware(m))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(authMiddleware)

		r.Post("/products/search", catalogModule.Controller.HandleSearchProducts)

		r.Route("/orders", func(r chi.Router) {
			r.Post("/", orderCtrl.HandleCreateOrder)
			r.Get("/", orderCtrl.HandleListOrders)
			r.Get("/{orderId}", orderCtrl.HandleGetOrder)
			r.Patch("/{orderId}", orderCtrl.HandleUpdateOrder)
			r.Post("/{orderId}/status", orderCtrl.HandleChangeStatus)
		})
	})

	return r
}

func metricsMiddleware(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			path := chi.RouteContext(r.Context()).RoutePattern()
			if path == "" {
				path = "unmatched"
			}
			m.ObserveRequest(r.Method, path, ww.Status(), time.Since(start).Seconds())
		})
	}
}

// Package metrics exposes Prometheus instrumentation for the registry
// service together with a standalone scrape server.
package metrics

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsServer serves the Prometheus scrape endpoint on its own listener,
// separate from the API server.
type MetricsServer struct {
	srv      *http.Server
	registry *prometheus.Registry

	TokensMinted     *prometheus.CounterVec
	TokensRevoked    *prometheus.CounterVec
	OwnerChanges     *prometheus.CounterVec
	DiscoveryUpdates *prometheus.CounterVec
}

// New creates a metrics server for the given service name listening on addr.
func New(name, addr string) (*MetricsServer, error) {
	if addr == "" {
		return nil, fmt.Errorf("metrics listen address is empty")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	factory := promauto.With(registry)

	m := &MetricsServer{
		registry: registry,
		TokensMinted: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: sanitizeName(name),
			Name:      "tokens_minted_total",
			Help:      "Number of tokens minted, per registry instance.",
		}, []string{"registry"}),
		TokensRevoked: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: sanitizeName(name),
			Name:      "tokens_revoked_total",
			Help:      "Number of tokens revoked, per registry instance.",
		}, []string{"registry"}),
		OwnerChanges: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: sanitizeName(name),
			Name:      "owner_changes_total",
			Help:      "Number of wallet migrations completed, per registry instance.",
		}, []string{"registry"}),
		DiscoveryUpdates: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: sanitizeName(name),
			Name:      "discovery_updates_total",
			Help:      "Number of discovery store mutations, per operation.",
		}, []string{"operation"}),
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	m.srv = &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	return m, nil
}

// ListenAndServe blocks serving the scrape endpoint until Shutdown is called.
func (m *MetricsServer) ListenAndServe() error {
	return m.srv.ListenAndServe()
}

// Shutdown gracefully stops the scrape server.
func (m *MetricsServer) Shutdown(ctx context.Context) error {
	return m.srv.Shutdown(ctx)
}

func sanitizeName(name string) string {
	out := make([]byte, len(name))
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
			out[i] = c
		default:
			out[i] = '_'
		}
	}
	return string(out)
}

package httpserver

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/flashbots/go-utils/httplogger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/ruteri/ntt-registry-backend/metrics"
	"go.uber.org/atomic"
)

// HTTPServerConfig configures the API server and its companion metrics
// listener.
type HTTPServerConfig struct {
	ListenAddr  string
	MetricsAddr string
	EnablePprof bool
	Log         *slog.Logger

	DrainDuration            time.Duration
	GracefulShutdownDuration time.Duration
	ReadTimeout              time.Duration
	WriteTimeout             time.Duration
}

// Server ties the request handler to chi routing, health endpoints and the
// metrics listener.
type Server struct {
	cfg     *HTTPServerConfig
	isReady atomic.Bool
	log     *slog.Logger

	srv        *http.Server
	metricsSrv *metrics.MetricsServer
	handler    *Handler
}

// New creates the HTTP server. metricsSrv may be nil when no metrics
// listener is configured.
func New(cfg *HTTPServerConfig, handler *Handler, metricsSrv *metrics.MetricsServer) (srv *Server, err error) {
	srv = &Server{
		cfg:        cfg,
		log:        cfg.Log,
		srv:        nil,
		metricsSrv: metricsSrv,
		handler:    handler,
	}
	srv.isReady.Store(true)

	srv.srv = &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      srv.getRouter(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return srv, nil
}

// Router returns the configured API router, for embedding the API in
// another server or exercising it in tests.
func (srv *Server) Router() http.Handler {
	return srv.getRouter()
}

func (srv *Server) getRouter() http.Handler {
	mux := chi.NewRouter()

	// Admin endpoints
	mux.With(srv.httpLogger).Post("/api/admin/registries", srv.handler.HandleCreateRegistry)
	mux.With(srv.httpLogger).Get("/api/admin/registries", srv.handler.HandleListRegistries)

	// Registry endpoints
	mux.With(srv.httpLogger).Get("/api/registry/{registry_address}", srv.handler.HandleRegistryInfo)
	mux.With(srv.httpLogger).Post("/api/registry/{registry_address}/tokens", srv.handler.HandleMint)
	mux.With(srv.httpLogger).Get("/api/registry/{registry_address}/tokens/index/{index}", srv.handler.HandleTokenByIndex)
	mux.With(srv.httpLogger).Get("/api/registry/{registry_address}/tokens/{token_id}", srv.handler.HandleTokenInfo)
	mux.With(srv.httpLogger).Post("/api/registry/{registry_address}/tokens/{token_id}/revoke", srv.handler.HandleRevoke)
	mux.With(srv.httpLogger).Post("/api/registry/{registry_address}/tokens/{token_id}/change-owner", srv.handler.HandleChangeOwner)
	mux.With(srv.httpLogger).Post("/api/registry/{registry_address}/tokens/{token_id}/document", srv.handler.HandleStoreDocument)
	mux.With(srv.httpLogger).Get("/api/registry/{registry_address}/tokens/{token_id}/document", srv.handler.HandleTokenDocument)
	mux.With(srv.httpLogger).Get("/api/registry/{registry_address}/holders/{holder_address}", srv.handler.HandleHolder)
	mux.With(srv.httpLogger).Post("/api/registry/{registry_address}/delegations", srv.handler.HandleDelegate)
	mux.With(srv.httpLogger).Post("/api/registry/{registry_address}/consensus/mint", srv.handler.HandleApproveMint)
	mux.With(srv.httpLogger).Post("/api/registry/{registry_address}/consensus/revoke", srv.handler.HandleApproveRevoke)

	// Discovery endpoints
	mux.With(srv.httpLogger).Post("/api/discovery/{holder_address}/registries", srv.handler.HandleDiscoveryAdd)
	mux.With(srv.httpLogger).Get("/api/discovery/{holder_address}/registries", srv.handler.HandleDiscoveryGet)
	mux.With(srv.httpLogger).Delete("/api/discovery/{holder_address}/registries/{registry_address}", srv.handler.HandleDiscoveryRemove)

	// Event log
	mux.With(srv.httpLogger).Get("/api/events", srv.handler.HandleEvents)

	// Health and diagnostic endpoints
	mux.With(srv.httpLogger).Get("/livez", srv.handleLivenessCheck)
	mux.With(srv.httpLogger).Get("/readyz", srv.handleReadinessCheck)
	mux.With(srv.httpLogger).Get("/drain", srv.handleDrain)
	mux.With(srv.httpLogger).Get("/undrain", srv.handleUndrain)

	if srv.cfg.EnablePprof {
		srv.log.Info("pprof API enabled")
		mux.Mount("/debug", middleware.Profiler())
	}
	return mux
}

func (srv *Server) httpLogger(next http.Handler) http.Handler {
	return httplogger.LoggingMiddlewareSlog(srv.log, next)
}

func (srv *Server) handleLivenessCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"alive"}`))
}

func (srv *Server) handleReadinessCheck(w http.ResponseWriter, r *http.Request) {
	if !srv.isReady.Load() {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"status":"not ready"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ready"}`))
}

func (srv *Server) handleDrain(w http.ResponseWriter, r *http.Request) {
	if !srv.isReady.Swap(false) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"already draining"}`))
		return
	}

	srv.log.Info("Server marked as not ready")

	// Give load balancers time to notice before shutdown proceeds.
	go func() {
		time.Sleep(srv.cfg.DrainDuration)
		srv.log.Info("Drain period completed")
	}()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"draining"}`))
}

func (srv *Server) handleUndrain(w http.ResponseWriter, r *http.Request) {
	if srv.isReady.Swap(true) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"already ready"}`))
		return
	}

	srv.log.Info("Server marked as ready")

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ready"}`))
}

// RunInBackground starts the API and metrics listeners without blocking.
func (srv *Server) RunInBackground() {
	// metrics
	if srv.metricsSrv != nil {
		go func() {
			srv.log.With("metricsAddress", srv.cfg.MetricsAddr).Info("Starting metrics server")
			err := srv.metricsSrv.ListenAndServe()
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				srv.log.Error("HTTP server failed", "err", err)
			}
		}()
	}

	// api
	go func() {
		srv.log.Info("Starting HTTP server", "listenAddress", srv.cfg.ListenAddr)
		if err := srv.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			srv.log.Error("HTTP server failed", "err", err)
		}
	}()
}

// Shutdown gracefully stops both listeners.
func (srv *Server) Shutdown() {
	// api
	ctx, cancel := context.WithTimeout(context.Background(), srv.cfg.GracefulShutdownDuration)
	defer cancel()
	if err := srv.srv.Shutdown(ctx); err != nil {
		srv.log.Error("Graceful HTTP server shutdown failed", "err", err)
	} else {
		srv.log.Info("HTTP server gracefully stopped")
	}

	// metrics
	if srv.metricsSrv != nil {
		ctx, cancel := context.WithTimeout(context.Background(), srv.cfg.GracefulShutdownDuration)
		defer cancel()

		if err := srv.metricsSrv.Shutdown(ctx); err != nil {
			srv.log.Error("Graceful metrics server shutdown failed", "err", err)
		} else {
			srv.log.Info("Metrics server gracefully stopped")
		}
	}
}

package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/ruteri/ntt-registry-backend/cmd/flags"
	"github.com/ruteri/ntt-registry-backend/common"
	"github.com/ruteri/ntt-registry-backend/discovery"
	"github.com/ruteri/ntt-registry-backend/eventlog"
	"github.com/ruteri/ntt-registry-backend/httpserver"
	"github.com/ruteri/ntt-registry-backend/interfaces"
	"github.com/ruteri/ntt-registry-backend/metrics"
	"github.com/ruteri/ntt-registry-backend/registry"
	"github.com/ruteri/ntt-registry-backend/storage"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "registry-server",
		Usage: "Serve the non-tradable token registry API",
		Flags: append([]cli.Flag{
			flags.ListenAddrFlag,
			flags.DiscoveryDBFlag,
			flags.EventLogDBFlag,
			flags.StorageFlag,
			flags.LogServiceFlagFn(common.PackageName),
		}, flags.CommonFlags...),
		Action: runServer,
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func runServer(cCtx *cli.Context) error {
	listenAddr := cCtx.String(flags.ListenAddrFlag.Name)
	discoveryDB := cCtx.String(flags.DiscoveryDBFlag.Name)
	eventLogDB := cCtx.String(flags.EventLogDBFlag.Name)
	storageURIs := cCtx.StringSlice(flags.StorageFlag.Name)

	logger := flags.SetupLogger(cCtx)
	cfg := flags.ConfigureServer(cCtx, logger, listenAddr)

	// Metrics are optional; the sink feeds the counters from the event
	// stream.
	var metricsSrv *metrics.MetricsServer
	sinks := interfaces.MultiSink{}
	if cfg.MetricsAddr != "" {
		var err error
		metricsSrv, err = metrics.New(common.PackageName, cfg.MetricsAddr)
		if err != nil {
			logger.Error("Failed to create metrics server", "err", err)
			return err
		}
		sinks = append(sinks, metrics.NewSink(metricsSrv))
	}

	// Durable event log, optional.
	var events httpserver.EventLister
	if eventLogDB != "" {
		eventLog, err := eventlog.NewSQLiteLog(eventLogDB, logger)
		if err != nil {
			logger.Error("Failed to open event log", "err", err, "path", eventLogDB)
			return err
		}
		defer eventLog.Close()
		sinks = append(sinks, eventLog)
		events = eventLog
	} else {
		logger.Info("No event log database configured, events are log-only")
		sinks = append(sinks, eventlog.NewSlogSink(logger))
	}

	// Token document storage, optional.
	var documentStorage interfaces.StorageBackend
	if len(storageURIs) > 0 {
		locations := make([]interfaces.StorageBackendLocation, 0, len(storageURIs))
		for _, uri := range storageURIs {
			location, err := interfaces.NewStorageBackendLocation(uri)
			if err != nil {
				logger.Error("Invalid storage location", "err", err, "uri", uri)
				return err
			}
			locations = append(locations, location)
		}

		factory := storage.NewFactory(logger)
		backend, err := factory.CreateMultiBackend(locations)
		if err != nil {
			logger.Error("Failed to create storage backend", "err", err)
			return err
		}
		documentStorage = backend
	}

	manager := registry.NewManager(documentStorage, sinks, logger)

	// Discovery store: SQLite when a path is configured, in-memory
	// otherwise.
	var discoveryStore interfaces.DiscoveryStore
	if discoveryDB != "" {
		store, err := discovery.NewSQLiteStore(discoveryDB, sinks, logger)
		if err != nil {
			logger.Error("Failed to open discovery store", "err", err, "path", discoveryDB)
			return err
		}
		defer store.Close()
		discoveryStore = store
	} else {
		logger.Info("No discovery database configured, using in-memory store")
		discoveryStore = discovery.NewStore(sinks, logger)
	}

	handler := httpserver.NewHandler(manager, discoveryStore, events, logger)
	server, err := httpserver.New(cfg, handler, metricsSrv)
	if err != nil {
		logger.Error("Failed to create server", "err", err)
		return err
	}

	logger.Info("Starting server")
	server.RunInBackground()

	exit := make(chan os.Signal, 1)
	signal.Notify(exit, os.Interrupt, syscall.SIGTERM)

	logger.Info("Server is running, press Ctrl+C to stop")
	<-exit
	logger.Info("Shutdown signal received")

	server.Shutdown()
	logger.Info("Server shutdown complete")

	return nil
}

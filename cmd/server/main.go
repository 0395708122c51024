package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"nidgate/internal/audit"
	"nidgate/internal/birthplace"
	birthplacemetrics "nidgate/internal/birthplace/metrics"
	"nidgate/internal/birthplace/source"
	"nidgate/internal/platform/config"
	"nidgate/internal/platform/httpserver"
	"nidgate/internal/platform/logger"
	"nidgate/internal/platform/metrics"
	httptransport "nidgate/internal/transport/http"
)

var version = "dev"

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal packages.
func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	log := logger.New(cfg.Log.Level, cfg.Log.Format)

	if err := run(cfg, log); err != nil {
		log.Error("server exited with error", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	birthplaceMetrics := birthplacemetrics.New(reg)

	loadCtx, cancelLoad := context.WithTimeout(ctx, cfg.Dataset.LoadTimeout)
	src, closeSource := source.Open(loadCtx, cfg)
	defer closeSource()
	dataset := source.Load(loadCtx, src, log, birthplaceMetrics)
	cancelLoad()

	opts := []birthplace.Option{
		birthplace.WithLogger(log),
		birthplace.WithMetrics(birthplaceMetrics),
		birthplace.WithSource(src.Name()),
	}

	var tracker *audit.Tracker
	if cfg.Audit.Enabled {
		publisher, err := newPublisher(cfg.Audit, log)
		if err != nil {
			return err
		}
		defer publisher.Close()
		tracker = audit.NewTracker(publisher,
			audit.WithBuffer(cfg.Audit.Buffer),
			audit.WithSampler(audit.NewSampler(cfg.Audit.SampleRate)),
			audit.WithMetrics(audit.NewMetrics(reg)),
			audit.WithLogger(log),
		)
		subjectKey := []byte(cfg.Audit.SubjectKey)
		if len(subjectKey) == 0 {
			log.Warn("audit.subject_key is not set, subject hashes will not correlate across restarts")
			subjectKey = audit.NewSubjectKey()
		}
		opts = append(opts, birthplace.WithTracker(tracker), birthplace.WithSubjectKey(subjectKey))
	}
	service := birthplace.NewService(dataset, opts...)

	router := httptransport.NewRouter(httptransport.Deps{
		Service:        service,
		Logger:         log,
		Version:        version,
		Metrics:        metrics.New(reg),
		Gatherer:       reg,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		MaxBodyBytes:   cfg.HTTP.MaxBodyBytes,
		RequestTimeout: cfg.HTTP.RequestTimeout,
	})
	srv := httpserver.New(cfg.Addr, router, cfg.HTTP.ReadHeaderTimeout)

	g, gctx := errgroup.WithContext(ctx)
	if tracker != nil {
		g.Go(func() error { return tracker.Run(gctx) })
	}
	g.Go(func() error {
		log.Info("starting birthplace API",
			"addr", cfg.Addr,
			"version", version,
			"dataset_source", src.Name(),
			"dataset_entries", dataset.Len(),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(gctx), cfg.HTTP.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// newPublisher picks Kafka when brokers are configured and the log otherwise.
func newPublisher(cfg config.AuditConfig, log *slog.Logger) (audit.Publisher, error) {
	if len(cfg.KafkaBrokers) == 0 {
		return audit.NewLogPublisher(log), nil
	}
	publisher, err := audit.NewKafkaPublisher(cfg.KafkaBrokers, cfg.Topic)
	if err != nil {
		return nil, err
	}
	log.Info("publishing audit events to kafka", "brokers", cfg.KafkaBrokers, "topic", cfg.Topic)
	return publisher, nil
}

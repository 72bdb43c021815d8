package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/weatherlink-live-collector/internal/adapter/httpadapter"
	kafkaadapter "github.com/couchcryptid/weatherlink-live-collector/internal/adapter/kafka"
	mqttadapter "github.com/couchcryptid/weatherlink-live-collector/internal/adapter/mqtt"
	"github.com/couchcryptid/weatherlink-live-collector/internal/adapter/stdout"
	"github.com/couchcryptid/weatherlink-live-collector/internal/adapter/weatherlink"
	"github.com/couchcryptid/weatherlink-live-collector/internal/config"
	"github.com/couchcryptid/weatherlink-live-collector/internal/domain"
	"github.com/couchcryptid/weatherlink-live-collector/internal/observability"
	"github.com/couchcryptid/weatherlink-live-collector/internal/poller"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	device := weatherlink.NewClient(cfg.Host, cfg.FetchTimeout, logger)
	normalizer := domain.NewNormalizer()

	var sink poller.Sink
	var closeSink func() error

	switch cfg.Sink {
	case config.SinkKafka:
		w := kafkaadapter.NewWriter(cfg, logger)
		sink = w
		closeSink = w.Close
		logger.Info("publishing to kafka", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	case config.SinkMQTT:
		pub := mqttadapter.NewPublisher(cfg, logger)
		if err := pub.Connect(ctx); err != nil {
			logger.Error("mqtt connect failed", "error", err)
			os.Exit(1)
		}
		sink = pub
		closeSink = pub.Close
		logger.Info("publishing to mqtt", "broker", cfg.MQTTBroker, "port", cfg.MQTTPort)
	default:
		sink = stdout.NewWriter()
		logger.Info("publishing to stdout")
	}

	p := poller.New(
		device, normalizer, sink,
		cfg.PollInterval, cfg.RetryBackoff,
		metrics, clockwork.NewRealClock(), logger,
	)

	srv := httpadapter.NewServer(cfg.HTTPAddr, p, logger)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	go func() {
		if err := p.Run(ctx); err != nil {
			logger.Error("poller error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if closeSink != nil {
		if err := closeSink(); err != nil {
			logger.Error("sink close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}

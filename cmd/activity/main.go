package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/example/storefront/internal/activity"
	"github.com/example/storefront/internal/config"
	"github.com/example/storefront/internal/infrastructure/kafka"
	"github.com/example/storefront/internal/logging"
	"github.com/rs/zerolog"
)

const consumerGroup = "storefront-activity-log"

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	flag.Parse()

	cfg, logger, err := setup(*configPath, os.Stdout)
	if err != nil {
		bootFail(err, "failed to start")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logger.Info().
		Strs("kafka", cfg.KafkaBrokers).
		Str("topic", cfg.KafkaTopic).
		Str("group", consumerGroup).
		Msg("activity logger starting")

	handler := activity.NewLogHandler(logger)
	consumer := kafka.NewConsumer(cfg.KafkaBrokers, cfg.KafkaTopic, consumerGroup, logger)
	defer consumer.Close()

	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := consumer.Consume(ctx, handler.HandleEvent); err != nil && ctx.Err() == nil {
			logger.Error().Err(err).Msg("consumer error")
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigCh:
	case <-done:
	}

	logger.Info().Msg("shutting down")
	cancel()
	<-done
}

var errNoBrokers = errors.New("KAFKA_BROKERS is required")

// setup loads the config and builds the logger; the consumer needs brokers.
func setup(configPath string, out io.Writer) (config.Config, zerolog.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return config.Config{}, zerolog.Nop(), fmt.Errorf("load config: %w", err)
	}
	logger, err := logging.New("activity", cfg.LogLevel, cfg.LogFormat, out)
	if err != nil {
		return config.Config{}, zerolog.Nop(), fmt.Errorf("set up logging: %w", err)
	}
	if len(cfg.KafkaBrokers) == 0 {
		return config.Config{}, zerolog.Nop(), errNoBrokers
	}
	return cfg, logger, nil
}

// bootFail reports an error from before the configured logger exists.
func bootFail(err error, msg string) {
	l := zerolog.New(os.Stderr).With().Timestamp().Logger()
	l.Fatal().Err(err).Msg(msg)
}

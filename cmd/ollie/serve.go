package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/jmwilson/ollie"
	"github.com/jmwilson/ollie/internal/cli"
	"github.com/jmwilson/ollie/internal/config"
	"github.com/jmwilson/ollie/internal/presentation/tui"
	ollieHTTP "github.com/jmwilson/ollie/pkg/adapters/http"
	"github.com/jmwilson/ollie/pkg/adapters/mqtt"
	redisAdapter "github.com/jmwilson/ollie/pkg/adapters/redis"
	"github.com/jmwilson/ollie/pkg/observability"
	"github.com/jmwilson/ollie/pkg/runner"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 5 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Open the instrument and relay intents from every configured transport",
	Long: `Opens the configured instrument and relays intents to it until interrupted.

Transports are enabled by configuration:
- mqtt.broker: Hermes intents from a voice assistant (hermes/intent/#).
- redis.address: intents published on <prefix>intent:<name>, plus a device lease
  so only one relay drives the instrument.
- http.listen: the JSON API, SSE dispatch events and Prometheus metrics.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		sites, _ := cmd.Flags().GetStringSlice("site")

		sc := cli.OnSignal(context.Background(), logger)
		defer sc.Stop("serve returned")

		if tui.IsTerminal(os.Stdout) {
			tui.PrintBanner(os.Stdout, strings.TrimSpace(ollie.Version))
		}

		metrics := observability.NewMetrics(prometheus.DefaultRegisterer)
		streams := ollieHTTP.NewStreamManager(logger)

		opts := []ollie.Option{
			ollie.WithMetrics(metrics),
			ollie.WithLifecycleHooks(streams.Hooks()),
		}
		if len(sites) > 0 {
			opts = append(opts, ollie.WithInterceptor(runner.SiteFilter(sites...)))
		}

		inst, err := cli.OpenInstrument(sc, cfg, logger, opts...)
		if err != nil {
			return err
		}
		defer func() {
			if err := inst.Close(); err != nil {
				logger.Error("failed to close instrument", "error", err)
			}
		}()

		errs := make(chan error, 5)
		running := 0
		start := func(name string, fn func(context.Context) error) {
			running++
			go func() {
				err := fn(sc)
				if errors.Is(err, context.Canceled) {
					err = nil
				}
				if err != nil {
					err = fmt.Errorf("%s: %w", name, err)
					sc.Stop(err.Error())
				} else {
					sc.Stop(name + " exited")
				}
				errs <- err
			}()
		}

		start("relay", inst.Run)

		if cfg.MQTT.Broker != "" {
			client := paho.NewClient(mqtt.NewClientOptions(cfg.MQTT.Broker, cfg.MQTT.ClientID))
			adapter := mqtt.New(client, inst,
				mqtt.WithLogger(logger),
				mqtt.WithNamespace(cfg.MQTT.Namespace),
			)
			start("mqtt", adapter.Serve)
		}

		if inst.Redis != nil {
			source := redisAdapter.NewSource(inst.Redis, inst,
				redisAdapter.WithPrefix(cfg.Redis.Prefix),
				redisAdapter.WithLogger(logger),
			)
			start("redis", source.Serve)
		}

		if cfg.HTTP.Listen != "" {
			srv, err := ollieHTTP.NewServer(inst,
				ollieHTTP.WithLogger(logger),
				ollieHTTP.WithStreams(streams),
				ollieHTTP.WithOperations(inst),
			)
			if err != nil {
				return err
			}
			start("http", func(ctx context.Context) error {
				return serveHTTP(ctx, cfg.HTTP, srv.Handler(), logger)
			})
		}

		if inst.Lost != nil {
			start("lease", func(ctx context.Context) error {
				select {
				case <-inst.Lost:
					return fmt.Errorf("device lease on %s lost", cli.DeviceAddress(cfg))
				case <-ctx.Done():
					return nil
				}
			})
		}

		// Whatever ends first takes the rest down with it.
		var first error
		for i := 0; i < running; i++ {
			if err := <-errs; err != nil && first == nil {
				first = err
			}
		}

		sc.Finish("relay stopped")
		return first
	},
}

func serveHTTP(ctx context.Context, cfg config.HTTPConfig, handler http.Handler, logger *slog.Logger) error {
	srv := &http.Server{
		Addr:    cfg.Listen,
		Handler: handler,
	}

	// Channel to listen for errors coming from the listener.
	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("HTTP API listening", "address", cfg.Listen)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("graceful shutdown did not complete", "timeout", shutdownTimeout, "error", err)
			return srv.Close()
		}
		return nil
	}
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringSlice("site", nil, "Only accept intents from these Hermes site ids")
}

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ev-parking-lot/internal/config"
	"ev-parking-lot/internal/logging"
	"ev-parking-lot/internal/parking"
	"ev-parking-lot/internal/server"
)

func main() {
	cfg := config.Load()

	flag.StringVar(&cfg.Mode, "mode", cfg.Mode, "Mode to run: cli, server, or both")
	flag.StringVar(&cfg.Port, "port", cfg.Port, "Port for HTTP server")
	flag.IntVar(&cfg.LotLevel, "level", cfg.LotLevel, "Level of the initial lot")
	flag.IntVar(&cfg.LotRegularCapacity, "regular", cfg.LotRegularCapacity, "Regular slots in the initial lot")
	flag.IntVar(&cfg.LotEVCapacity, "ev", cfg.LotEVCapacity, "EV slots in the initial lot")
	flag.StringVar(&cfg.DefaultStrategy, "strategy", cfg.DefaultStrategy, "Default allocation strategy: regular_first or electric_only")
	flag.BoolVar(&cfg.TelemetryEnabled, "telemetry", cfg.TelemetryEnabled, "Export traces and metrics over OTLP")
	flag.Parse()

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(2)
	}

	logging.Init(cfg.IsDevelopment(), os.Stderr)
	log := logging.Logger()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	telemetryProvider := parking.NewNoopTelemetryProvider()
	if cfg.TelemetryEnabled {
		tp, err := parking.NewTelemetryProvider(ctx, cfg.OTelServiceName, cfg.OTelEndpoint)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize telemetry")
		}
		telemetryProvider = tp
	}

	strategy, err := parking.StrategyByName(cfg.DefaultStrategy)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid default strategy")
	}

	lot := parking.NewLot(cfg.LotLevel, cfg.LotRegularCapacity, cfg.LotEVCapacity)
	controller, err := parking.NewInstrumentedController(parking.NewController(lot, strategy), telemetryProvider)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create parking controller")
	}

	log.Info().
		Str("mode", cfg.Mode).
		Int("level", cfg.LotLevel).
		Int("regular_capacity", cfg.LotRegularCapacity).
		Int("ev_capacity", cfg.LotEVCapacity).
		Str("strategy", strategy.Name()).
		Msg("parking lot ready")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	switch cfg.Mode {
	case config.ModeCLI:
		runCLI(ctx, cancel, controller, telemetryProvider, sigChan)
	case config.ModeServer:
		runServer(ctx, cancel, cfg, controller, sigChan)
	case config.ModeBoth:
		runBoth(ctx, cancel, cfg, controller, telemetryProvider, sigChan)
	}

	shutdownTelemetry(telemetryProvider)
}

func runCLI(ctx context.Context, cancel context.CancelFunc, controller *parking.InstrumentedController, telemetryProvider *parking.TelemetryProvider, sigChan chan os.Signal) {
	go func() {
		<-sigChan
		logging.Logger().Info().Msg("shutting down")
		cancel()
	}()

	shell := parking.NewShell(controller, telemetryProvider, os.Stdin, os.Stdout)
	shell.Run(ctx)
}

func runServer(ctx context.Context, cancel context.CancelFunc, cfg *config.Config, controller *parking.InstrumentedController, sigChan chan os.Signal) {
	srv := server.NewServer(cfg.Port, controller, cfg.OTelServiceName)

	go func() {
		<-sigChan
		logging.Logger().Info().Msg("received shutdown signal")
		shutdownServer(srv)
		cancel()
	}()

	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logging.Error(ctx).Err(err).Msg("server error")
	}
}

func runBoth(ctx context.Context, cancel context.CancelFunc, cfg *config.Config, controller *parking.InstrumentedController, telemetryProvider *parking.TelemetryProvider, sigChan chan os.Signal) {
	srv := server.NewServer(cfg.Port, controller, cfg.OTelServiceName)

	serverDone := make(chan error, 1)
	go func() {
		serverDone <- srv.Start()
	}()

	cliDone := make(chan struct{})
	go func() {
		shell := parking.NewShell(controller, telemetryProvider, os.Stdin, os.Stdout)
		shell.Run(ctx)
		close(cliDone)
	}()

	go func() {
		<-sigChan
		logging.Logger().Info().Msg("received shutdown signal")
		cancel()
	}()

	select {
	case err := <-serverDone:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error(ctx).Err(err).Msg("server error")
		}
	case <-cliDone:
		logging.Logger().Info().Msg("CLI exited")
	case <-ctx.Done():
		logging.Logger().Info().Msg("context cancelled")
	}

	shutdownServer(srv)
}

func shutdownServer(srv *server.Server) {
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Logger().Error().Err(err).Msg("server shutdown error")
	}
}

func shutdownTelemetry(telemetryProvider *parking.TelemetryProvider) {
	logging.Logger().Info().Msg("shutting down telemetry")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := telemetryProvider.Shutdown(shutdownCtx); err != nil {
		logging.Logger().Error().Err(err).Msg("error shutting down telemetry")
	}
}

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

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/Resanso/smart-office/internal/export"
	"github.com/Resanso/smart-office/internal/llm"
	"github.com/Resanso/smart-office/internal/logging"
	"github.com/Resanso/smart-office/internal/metrics"
	"github.com/Resanso/smart-office/internal/server"
	"github.com/Resanso/smart-office/internal/simulation"
)

const (
	serviceName       = "smart-office"
	defaultOutputPath = "smart_office_data.csv"
)

func main() {
	envErr := godotenv.Load()

	out := flag.String("out", envOr("OUTPUT_PATH", defaultOutputPath), "output file (.csv, .xlsx or .lp)")
	serve := flag.String("serve", os.Getenv("SERVE_ADDR"), "serve the dataset over HTTP on this address after writing it")
	flag.Parse()

	log, err := logging.FromEnv(serviceName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger init failed: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()
	if envErr != nil {
		log.Debug(".env file not loaded", zap.Error(envErr))
	}

	runID := uuid.NewString()
	log = log.With(zap.String("runId", runID))

	m := metrics.New()
	gen := simulation.New(
		simulation.ReferenceWindow(),
		simulation.WithSeed(simulation.SeedFromEnv(log)),
		simulation.WithLogger(log),
		simulation.WithObserver(m),
	)
	ds, err := gen.Generate()
	if err != nil {
		log.Fatal("dataset generation failed", zap.Error(err))
	}

	if err := export.WriteFile(*out, ds); err != nil {
		log.Fatal("dataset write failed", zap.String("path", *out), zap.Error(err))
	}
	counts := ds.CountByType()
	for _, t := range simulation.SensorTypes() {
		log.Info("readings written", zap.String("tipo", t.String()), zap.Int("count", counts[t]))
	}
	fmt.Printf("Gerado: %s  | Linhas: %d\n", *out, ds.Len())

	if *serve == "" {
		return
	}
	if err := run(*serve, server.Dependencies{Dataset: ds, RunID: runID, Metrics: m, Logger: log}); err != nil {
		log.Fatal("http server error", zap.Error(err))
	}
}

func run(addr string, deps server.Dependencies) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := llm.FromEnv()
	switch {
	case errors.Is(err, llm.ErrMissingAPIKey):
		deps.Logger.Info("chat endpoint disabled", zap.Error(err))
	case err != nil:
		return err
	default:
		client, err := llm.New(ctx, cfg)
		if err != nil {
			return err
		}
		defer client.Close()
		deps.LLM = client
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           server.NewRouter(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		deps.Logger.Info("http server listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	deps.Logger.Info("http server shutting down")
	return srv.Shutdown(shutdownCtx)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

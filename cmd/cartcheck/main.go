// Command cartcheck serves the product trust-score API.
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

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/verifyyourcart/cartcheck/internal/analysis"
	"github.com/verifyyourcart/cartcheck/internal/api"
	"github.com/verifyyourcart/cartcheck/internal/config"
	"github.com/verifyyourcart/cartcheck/internal/database"
	"github.com/verifyyourcart/cartcheck/internal/metrics"
	"github.com/verifyyourcart/cartcheck/web"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the configuration file")
	generateConfig := flag.String("generate-config", "", "write a sample configuration to this path and exit")
	checkURL := flag.String("check", "", "analyze one product URL, print a report and exit")
	apiKey := flag.String("api-key", "", "LLM API key for --check, overrides the configured one")
	flag.Parse()

	if *generateConfig != "" {
		if err := config.GenerateSample(*generateConfig); err != nil {
			fmt.Fprintf(os.Stderr, "failed to generate config: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Sample configuration written to %s\n", *generateConfig)
		return
	}

	config.LoadDotEnv()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	setupLogging(cfg.Logging)
	metrics.Register()

	engine := analysis.NewEngine(cfg)

	if *checkURL != "" {
		os.Exit(runCheck(engine, *checkURL, *apiKey))
	}

	if err := serve(cfg, engine); err != nil {
		log.Fatal().Err(err).Msg("Server failed")
	}
}

func setupLogging(cfg config.LoggingConfig) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339

	if cfg.Format == "text" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
}

func runCheck(engine *analysis.Engine, rawURL, apiKey string) int {
	url, err := analysis.NormalizeURL(rawURL)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result := engine.Analyze(ctx, url, apiKey)
	if err := analysis.WriteReport(os.Stdout, result); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write report: %v\n", err)
		return 1
	}
	return 0
}

func serve(cfg *config.Config, engine *analysis.Engine) error {
	store, err := database.Open(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer store.Close()

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           api.NewRouter(cfg, engine, store, web.Static),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Int("port", cfg.Server.Port).
			Str("provider", engine.ProviderName()).
			Bool("ai_enabled", engine.HasCredential()).
			Msg("Starting HTTP server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case <-quit:
	}
	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info().Msg("Server exited")
	return nil
}

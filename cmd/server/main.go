package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/giftgenie/backend/config"
	httpDelivery "github.com/giftgenie/backend/internal/delivery/http"
	"github.com/giftgenie/backend/internal/domain"
	"github.com/giftgenie/backend/internal/infrastructure/llm"
	"github.com/giftgenie/backend/internal/infrastructure/naver"
	"github.com/giftgenie/backend/internal/observability"
	"github.com/giftgenie/backend/internal/usecase"
)

const version = "1.0.0"

var rootCmd = &cobra.Command{
	Use:           "giftgenie",
	Short:         "GiftGenie backend - grounds gift ideas in purchasable products",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// app is the wired application shared by every command
type app struct {
	cfg      *config.Config
	logger   zerolog.Logger
	gifts    *usecase.GiftService
	shutdown func(context.Context) error
}

func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := observability.NewLogger(observability.LogConfig{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		Output:      os.Stderr,
		ServiceName: "giftgenie",
	})

	shutdown, err := setupTracing(cfg.Telemetry.Enabled)
	if err != nil {
		return nil, fmt.Errorf("failed to set up tracing: %w", err)
	}

	return &app{
		cfg:      cfg,
		logger:   logger,
		gifts:    buildGiftService(cfg, logger),
		shutdown: shutdown,
	}, nil
}

// buildGiftService wires the pipeline. Missing credentials switch the
// affected collaborator to simulation instead of failing startup.
func buildGiftService(cfg *config.Config, logger zerolog.Logger) *usecase.GiftService {
	searcher := naver.NewClient(naver.Config{
		ClientID:            cfg.Naver.ClientID,
		ClientSecret:        cfg.Naver.ClientSecret,
		BaseURL:             cfg.Naver.BaseURL,
		Display:             cfg.Naver.Display,
		Timeout:             cfg.Naver.Timeout,
		RatePerSecond:       cfg.Naver.RatePerSecond,
		Burst:               cfg.Naver.Burst,
		LowerBoundInclusive: cfg.Pipeline.LowerBoundInclusive,
		MinTitleLength:      cfg.Pipeline.MinTitleLength,
	}, observability.Component(logger, "naver"))
	if !searcher.Configured() {
		logger.Warn().Msg("naver credentials not configured, catalog search is simulated")
	}

	var (
		generator domain.IntentGenerator = llm.NewSimulatedGenerator()
		refiner   domain.KeywordRefiner
		judge     domain.MatchJudge
	)
	client, err := llm.NewClient(llm.Config{
		APIKey:      cfg.LLM.APIKey,
		Model:       cfg.LLM.Model,
		BaseURL:     cfg.LLM.BaseURL,
		Temperature: cfg.LLM.Temperature,
		MaxTokens:   cfg.LLM.MaxTokens,
		Timeout:     cfg.LLM.Timeout,
	}, observability.Component(logger, "llm"))
	switch {
	case err == nil:
		generator = llm.NewIntentGenerator(client, observability.Component(logger, "intents"))
		refiner = llm.NewKeywordRefiner(client, observability.Component(logger, "refiner"))
		judge = llm.NewMatchJudge(client, observability.Component(logger, "judge"))
	case errors.Is(err, domain.ErrCollaboratorDisabled):
		logger.Warn().Msg("llm api key not configured, gift ideas are simulated and refinement is rule-based")
	default:
		logger.Error().Err(err).Msg("llm client unavailable, gift ideas are simulated and refinement is rule-based")
	}

	refinement := usecase.NewRefinementController(searcher, refiner, usecase.RefinementConfig{
		MaxAttempts:  cfg.Pipeline.MaxAttempts,
		MinProducts:  cfg.Pipeline.MinProducts,
		AttemptDelay: cfg.Pipeline.AttemptDelay,
		DiversityCap: cfg.Pipeline.DiversityCap,
		Display:      cfg.Naver.Display,
	}, observability.Component(logger, "refinement"))

	matcher := usecase.NewMatchingService(judge, usecase.MatchConfig{
		MaxIntents:      cfg.Pipeline.MaxIntents,
		JudgeCandidates: cfg.Pipeline.JudgeCandidates,
		ConfidenceBonus: cfg.Pipeline.ConfidenceBonus,
		EnableJudge:     cfg.LLM.EnableJudge,
		USDToKRW:        cfg.Pipeline.USDToKRW,
	}, observability.Component(logger, "matcher"))

	return usecase.NewGiftService(
		generator,
		usecase.NewQuerySynthesizer(observability.Component(logger, "synthesizer")),
		refinement,
		usecase.NewQualityScorer(cfg.Pipeline.RelevanceBonus),
		matcher,
		usecase.GiftServiceConfig{
			MaxIntents:          cfg.Pipeline.MaxIntents,
			DiversityCap:        cfg.Pipeline.DiversityCap,
			LowerBoundInclusive: cfg.Pipeline.LowerBoundInclusive,
			USDToKRW:            cfg.Pipeline.USDToKRW,
		},
		observability.Component(logger, "gifts"),
	)
}

// setupTracing installs a stdout span exporter when enabled.
func setupTracing(enabled bool) (func(context.Context) error, error) {
	if !enabled {
		return func(context.Context) error { return nil }, nil
	}

	exporter, err := stdouttrace.New(
		stdouttrace.WithWriter(os.Stderr),
		stdouttrace.WithPrettyPrint(),
	)
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter))
	otel.SetTracerProvider(tp)
	return tp.Shutdown, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.shutdown(context.Background())

	a.logger.Info().
		Str("version", version).
		Str("environment", a.cfg.Server.Environment).
		Str("port", a.cfg.Server.Port).
		Bool("search_configured", a.cfg.SearchConfigured()).
		Bool("llm_configured", a.cfg.LLMConfigured()).
		Msg("starting GiftGenie backend")

	handler := httpDelivery.NewHandler(a.gifts, a.cfg.Server.RequestTimeout, observability.Component(a.logger, "http"))
	router := httpDelivery.SetupRouter(a.cfg, handler, observability.Component(a.logger, "http"))

	server := &http.Server{
		Addr:              ":" + a.cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info().Str("addr", server.Addr).Msg("server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	a.logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

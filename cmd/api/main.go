package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"google.golang.org/genai"

	"github.com/pixremix/server/internal/http/handlers"
	"github.com/pixremix/server/internal/http/httpapi"
	"github.com/pixremix/server/internal/infra"
	"github.com/pixremix/server/internal/providers/gemini"
	"github.com/pixremix/server/internal/providers/mediacdn"
	"github.com/pixremix/server/internal/remix"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx := context.Background()
	genaiClient, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create gemini client")
	}

	cdn, err := mediacdn.NewClient(mediacdn.Options{
		BaseURL: cfg.CDNBaseURL,
		APIKey:  cfg.CDNAPIKey,
		Logger:  &logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create media cdn client")
	}

	vision := gemini.NewDescriber(genaiClient, cfg.VisionModel, &logger)
	planner := gemini.NewPlanner(genaiClient, cfg.PlannerModel, &logger)
	imageGen := gemini.NewGenerator(genaiClient, cfg.ImageModel, &logger)

	app := handlers.NewApp(cfg, logger, cdn, vision, remix.NewSynthesizer(planner), imageGen)
	router := httpapi.NewRouter(app, cfg, logger)
	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"fittingroom/internal/fitting"
	"fittingroom/internal/http/handlers"
	httpapi "fittingroom/internal/http/httpapi"
	"fittingroom/internal/infra"
	"fittingroom/internal/providers"
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	generator, backend := providers.NewGenerator(cfg, logger)
	if backend == providers.BackendSynthetic {
		logger.Warn().Msg("GEMINI_API_KEY is not set, using the offline collage generator")
	}

	session := fitting.NewSession(generator, logger)
	app := handlers.NewApp(session, logger, cfg.UploadMaxBytes)
	router := httpapi.NewRouter(app, httpapi.Options{
		Logger:          logger,
		RateLimitPerMin: cfg.RateLimitPerMin,
		DefaultLocale:   cfg.DefaultLocale,
		TrustProxy:      cfg.TrustProxy,
	})

	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Str("backend", backend).Msgf("fitting room listening on %s", server.Addr())
		if err := server.Start(); err != nil {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}

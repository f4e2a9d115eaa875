package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Scalingo/github-popularity-score/config"
	"github.com/Scalingo/github-popularity-score/controller"
	"github.com/Scalingo/github-popularity-score/logger"
	"github.com/Scalingo/github-popularity-score/metrics"
	"github.com/Scalingo/github-popularity-score/service"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newServeCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}

			return serve(cmd.Context(), *cfg)
		},
	}
}

func serve(ctx context.Context, cfg config.Config) error {
	// configure logger
	logger.Setup(cfg)

	log.WithFields(log.Fields{
		"starsWeight":         cfg.Score.StarsWeight,
		"forksWeight":         cfg.Score.ForksWeight,
		"recencyWeight":       cfg.Score.RecencyWeight,
		"recencyHalfLifeDays": cfg.Score.RecencyHalfLifeDays,
	}).Info("popularity score weights loaded")

	// setup github client
	// we do here and pass the client to Github service to easily improve tests with mock client
	githubClient, err := service.NewGithubClient(cfg, nil)
	if err != nil {
		return err
	}

	rateLimiter := service.NewSearchRateLimiter(ctx, githubClient, cfg)
	recorder := metrics.New()

	// setup handlers and services
	githubService := service.NewGithubService(cfg, githubClient, rateLimiter, recorder)
	scoringService := service.NewScoringService(cfg)
	popularityService := service.NewPopularityService(cfg, githubService, scoringService, recorder)
	apiController := controller.NewAPIController(cfg, popularityService)

	// setup server and define all routes
	gin.SetMode(gin.ReleaseMode)

	server := &http.Server{
		Addr:              ":" + cfg.API.ListenPort,
		Handler:           controller.NewRouter(cfg, apiController, recorder),
		ReadHeaderTimeout: 10 * time.Second,
	}

	return runServer(ctx, server)
}

// runServer blocks until the server fails to listen, a SIGINT/SIGTERM is received or ctx is done
// the last two shut the server down gracefully
func runServer(ctx context.Context, server *http.Server) error {
	listenErr := make(chan error, 1)

	go func() {
		log.Info("server listening on " + server.Addr)

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			listenErr <- err
		}
	}()

	// kill default send syscall.SIGTERM
	// kill -2 is syscall.SIGINT
	quit := make(chan os.Signal, 1)

	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-listenErr:
		log.WithError(err).Error("error while starting server")
		return err
	case <-quit:
		log.Info("SIGINT, SIGTERM received, will shut down server ...")
	case <-ctx.Done():
		log.Info("context done, will shut down server ...")
	}

	// the server has 15 seconds to finish the requests it is currently handling
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Server forced to shutdown")
		return err
	}

	log.Info("Application stopped gracefully !")
	return nil
}

package controller

import (
	"time"

	"github.com/Scalingo/github-popularity-score/config"
	"github.com/Scalingo/github-popularity-score/metrics"
	"github.com/Scalingo/github-popularity-score/middleware"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// NewRouter define all routes and their middlewares
func NewRouter(cfg config.Config, apiController APIController, recorder *metrics.Recorder) *gin.Engine {
	router := gin.New()

	router.Use(
		gin.Recovery(),
		middleware.RequestLogger(),
		middleware.Metrics(recorder),
		cors.New(cors.Config{
			AllowOrigins: []string{"*"},
			AllowMethods: []string{"GET"},
			AllowHeaders: []string{"Content-Type, Content-Length, Accept-Encoding, Host, accept, Origin, Cache-Control, X-Requested-With"},
			MaxAge:       12 * time.Hour,
		}),
	)

	router.GET("/health", apiController.GetHealth)
	router.GET("/metrics", gin.WrapH(recorder.Handler()))

	api := router.Group("/api/v1")
	{
		api.GET("/repo/popularityScore", middleware.ConcurrencyLimit(cfg.Tasks.MaxParallelTasksAllowed), apiController.GetPopularityScore)
	}

	return router
}

package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/Scalingo/github-popularity-score/metrics"
	"github.com/Scalingo/github-popularity-score/model"
	"github.com/gin-gonic/gin"
	"github.com/remeh/sizedwaitgroup"
	log "github.com/sirupsen/logrus"
)

// RequestLogger logs every request once it has been served
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		log.WithFields(log.Fields{
			"method":   c.Request.Method,
			"path":     c.Request.URL.Path,
			"status":   c.Writer.Status(),
			"duration": time.Since(start).String(),
			"clientIP": c.ClientIP(),
		}).Info("request served")
	}
}

// Metrics records the number and duration of requests per route
func Metrics(recorder *metrics.Recorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}

		recorder.ObserveHTTPRequest(route, c.Request.Method, strconv.Itoa(c.Writer.Status()), time.Since(start))
	}
}

// ConcurrencyLimit allows at most maxParallel requests to be handled at the same time
// other requests wait for a slot until their context is done
func ConcurrencyLimit(maxParallel int) gin.HandlerFunc {
	swg := sizedwaitgroup.New(maxParallel)

	return func(c *gin.Context) {
		if err := swg.AddWithContext(c.Request.Context()); err != nil {
			log.WithError(err).Warning("request cancelled while waiting for a free slot")

			c.AbortWithStatusJSON(http.StatusServiceUnavailable, model.APIError{
				Code:    "TOO_MANY_REQUESTS",
				Message: "the server is busy. wait few seconds and try again",
			})

			return
		}

		defer swg.Done()

		c.Next()
	}
}

package service

import (
	"context"
	"time"

	"github.com/Scalingo/github-popularity-score/config"
	"github.com/google/go-github/v66/github"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// NewSearchRateLimiter loads the current search rate limit from github to build the local limiter
// requests already consumed (by another process using the same token for instance) are taken from the bucket
// when github can't be reached, the configured number of requests per minute is used
func NewSearchRateLimiter(ctx context.Context, githubClient *github.Client, cfg config.Config) *rate.Limiter {
	log.Debug("loading current search rate limit from github")

	rateLimits, _, err := githubClient.RateLimit.Get(ctx)
	if err != nil || rateLimits == nil || rateLimits.Search == nil || rateLimits.Search.Limit <= 0 {
		log.WithError(err).WithField("requestsPerMinute", cfg.Github.SearchRequestsPerMinute).
			Warning("unable to load github search rate limits, using configured limit")

		return newPerMinuteLimiter(cfg.Github.SearchRequestsPerMinute, cfg.Github.SearchRequestsPerMinute)
	}

	log.WithFields(log.Fields{
		"totalAvailable":    rateLimits.Search.Limit,
		"remainingRequests": rateLimits.Search.Remaining,
	}).Debug("will setup local rate limiter with search rate limits infos from github")

	return newPerMinuteLimiter(rateLimits.Search.Limit, rateLimits.Search.Remaining)
}

func newPerMinuteLimiter(limit int, remaining int) *rate.Limiter {
	limit = max(limit, 1)

	rateLimiter := rate.NewLimiter(rate.Every(time.Minute/time.Duration(limit)), limit)

	if used := limit - max(remaining, 0); used > 0 {
		rateLimiter.AllowN(time.Now(), used)
	}

	return rateLimiter
}

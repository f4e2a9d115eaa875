package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Scalingo/github-popularity-score/config"
	"github.com/Scalingo/github-popularity-score/metrics"
	"github.com/Scalingo/github-popularity-score/model"
	"github.com/google/go-github/v66/github"
	"github.com/google/go-querystring/query"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

type GithubService interface {
	SearchRepositories(ctx context.Context, searchQuery string, page int, perPage int) ([]model.RawRepository, error)

	HandleRequestErrors(err error) error
}

type githubService struct {
	githubClient      *github.Client
	githubRateLimiter *rate.Limiter
	config            config.Config
	metrics           *metrics.Recorder
}

// searchParameters is encoded as the query string of the search request
type searchParameters struct {
	Query string `url:"q"`
	github.SearchOptions
}

// NewGithubClient build the github client with the optional token and base url from configuration
// httpClient can be nil, it is replaced by a mocked client in tests
func NewGithubClient(cfg config.Config, httpClient *http.Client) (*github.Client, error) {
	githubClient := github.NewClient(httpClient)

	if cfg.Github.Token != "" {
		log.Debug("will setup github client with authorization token")
		githubClient = githubClient.WithAuthToken(cfg.Github.Token)
	}

	if cfg.Github.BaseURL != "" {
		baseURL := cfg.Github.BaseURL
		if !strings.HasSuffix(baseURL, "/") {
			baseURL += "/"
		}

		u, err := url.Parse(baseURL)
		if err != nil {
			return nil, fmt.Errorf("invalid github base url %q: %w", cfg.Github.BaseURL, err)
		}

		githubClient.BaseURL = u
	}

	return githubClient, nil
}

// the search api has its own rate limit (30 calls per minute authenticated, 10 otherwise)
// so the limiter given here must be dedicated to search requests
func NewGithubService(config config.Config, githubClient *github.Client, rateLimiter *rate.Limiter, recorder *metrics.Recorder) GithubService {
	return githubService{
		githubClient:      githubClient,
		githubRateLimiter: rateLimiter,
		config:            config,
		metrics:           recorder,
	}
}

// SearchRepositories execute a single search request sorted by stars
// page is at least 1 and perPage is kept between 1 and 100
func (s githubService) SearchRepositories(ctx context.Context, searchQuery string, page int, perPage int) ([]model.RawRepository, error) {
	if !s.githubRateLimiter.Allow() {
		log.Warning("the Github rate limit has been reached. Use a token or wait until the limit reset")
		s.metrics.IncFetchError(model.ErrRateLimitReached.Error())
		return []model.RawRepository{}, &model.FetchError{Reason: model.ErrRateLimitReached}
	}

	page = max(page, 1)
	perPage = min(max(perPage, 1), model.MaxPerPage)

	log.WithFields(log.Fields{
		"query":   searchQuery,
		"page":    page,
		"perPage": perPage,
	}).Info("search repositories on github")

	params, err := query.Values(searchParameters{
		Query: searchQuery,
		SearchOptions: github.SearchOptions{
			Sort:  "stars",
			Order: "desc",
			ListOptions: github.ListOptions{
				Page:    page,
				PerPage: perPage,
			},
		},
	})

	if err != nil {
		s.metrics.IncFetchError(model.ErrFetch.Error())
		return []model.RawRepository{}, &model.FetchError{Reason: model.ErrFetch, Err: err}
	}

	req, err := s.githubClient.NewRequest(http.MethodGet, "search/repositories?"+params.Encode(), nil)
	if err != nil {
		s.metrics.IncFetchError(model.ErrFetch.Error())
		return []model.RawRepository{}, &model.FetchError{Reason: model.ErrFetch, Err: err}
	}

	// decoded into our own structure to keep updated_at as received
	var result model.GithubSearchResult
	if _, err := s.githubClient.Do(ctx, req, &result); err != nil {
		return []model.RawRepository{}, s.HandleRequestErrors(err)
	}

	if result.IncompleteResults {
		log.WithField("query", searchQuery).Warning("github returned incomplete search results")
	}

	if result.Items == nil {
		return []model.RawRepository{}, nil
	}

	log.WithFields(log.Fields{
		"totalCount":           result.TotalCount,
		"numberOfRepositories": len(result.Items),
	}).Debug("repositories received from github")

	return result.Items, nil
}

// HandleRequestErrors manage errors including github rate limit errors at the same location
// If error is a rate limit error, this function will update the local rate limiter to consume all available requests
// this can help us to keep the local rate limiter up to date
func (s githubService) HandleRequestErrors(err error) error {
	var rateLimitErr *github.RateLimitError
	var abuseRateLimitErr *github.AbuseRateLimitError

	if errors.As(err, &rateLimitErr) || errors.As(err, &abuseRateLimitErr) {
		if reservation := s.githubRateLimiter.ReserveN(time.Now(), s.githubRateLimiter.Burst()); !reservation.OK() {
			s.metrics.IncFetchError(model.ErrRateLimiter.Error())
			return &model.FetchError{Reason: model.ErrRateLimiter, Err: err}
		}

		log.Warning("the Github rate limit has been reached. Use a token or wait until the limit reset")
		s.metrics.IncFetchError(model.ErrRateLimitReached.Error())
		return &model.FetchError{Reason: model.ErrRateLimitReached, Err: err}
	}

	log.WithError(err).Error("error catched when fetching data from github")
	s.metrics.IncFetchError(model.ErrFetch.Error())
	return &model.FetchError{Reason: model.ErrFetch, Err: err}
}

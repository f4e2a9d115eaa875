package service

import (
	"context"
	"time"

	"github.com/Scalingo/github-popularity-score/config"
	"github.com/Scalingo/github-popularity-score/metrics"
	"github.com/Scalingo/github-popularity-score/model"
	log "github.com/sirupsen/logrus"
)

type PopularityService interface {
	Search(ctx context.Context, searchQuery string, page int, perPage int) ([]model.PopularityScoreResponse, error)
	SearchByFilters(ctx context.Context, filters model.SearchQuery) ([]model.PopularityScoreResponse, error)
}

type popularityService struct {
	githubService  GithubService
	scoringService ScoringService
	config         config.Config
	metrics        *metrics.Recorder
}

func NewPopularityService(config config.Config, githubService GithubService, scoringService ScoringService, recorder *metrics.Recorder) PopularityService {
	return popularityService{
		githubService:  githubService,
		scoringService: scoringService,
		config:         config,
		metrics:        recorder,
	}
}

// SearchByFilters build the github query from the language and creation date, then run Search
// filters.Language must already be the display name expected by github
func (s popularityService) SearchByFilters(ctx context.Context, filters model.SearchQuery) ([]model.PopularityScoreResponse, error) {
	return s.Search(ctx, filters.ToGithubQuery(), filters.Page, filters.PerPage)
}

// Search fetch one page of repositories, score each of them, normalize against the best one
// and return them ranked by raw score
// a single repository with an invalid date fails the whole page: dropping it would change the maximum used to normalize
func (s popularityService) Search(ctx context.Context, searchQuery string, page int, perPage int) ([]model.PopularityScoreResponse, error) {
	start := time.Now()

	responses, err := s.search(ctx, searchQuery, page, perPage)

	outcome := metrics.OutcomeSuccess
	if err != nil {
		outcome = metrics.OutcomeError
	}

	s.metrics.ObserveSearch(outcome, time.Since(start))

	return responses, err
}

func (s popularityService) search(ctx context.Context, searchQuery string, page int, perPage int) ([]model.PopularityScoreResponse, error) {
	repos, err := s.githubService.SearchRepositories(ctx, searchQuery, page, perPage)
	if err != nil {
		return []model.PopularityScoreResponse{}, err
	}

	scored := make([]ScoredRepository, 0, len(repos))

	for _, r := range repos {
		scoredRepository, err := s.scoringService.Score(r)

		if err != nil {
			log.WithError(err).WithField("repository", r.FullName).Error("unable to compute repository score")
			return []model.PopularityScoreResponse{}, err
		}

		scored = append(scored, scoredRepository)
	}

	maxRawScore := MaxRawScore(scored)
	s.scoringService.AssignNormalizedScores(scored, maxRawScore)
	s.metrics.AddRepositoriesScored(len(scored))

	log.WithFields(log.Fields{
		"query":                searchQuery,
		"numberOfRepositories": len(scored),
		"maxRawScore":          maxRawScore,
	}).Debug("repositories scored and normalized")

	return Rank(scored), nil
}

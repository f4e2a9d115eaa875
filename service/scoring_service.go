package service

import (
	"math"
	"time"

	"github.com/Scalingo/github-popularity-score/config"
	"github.com/Scalingo/github-popularity-score/model"
)

const day = 24 * time.Hour

// ScoredRepository is the working record of one pipeline run
// NormalizedScore stays at 0 until AssignNormalizedScores is called
type ScoredRepository struct {
	Repository      model.RawRepository
	RawScore        float64
	NormalizedScore float64
}

type ScoringService interface {
	Score(repo model.RawRepository) (ScoredRepository, error)
	ComputeRawScore(repo model.RawRepository) (float64, error)
	ComputeFreshness(repo model.RawRepository) (float64, error)

	AssignNormalizedScores(repos []ScoredRepository, maxRawScore float64)
}

type ScoringOption func(*scoringService)

// WithClock replace time.Now, used to get deterministic ages in tests
func WithClock(now func() time.Time) ScoringOption {
	return func(s *scoringService) {
		if now != nil {
			s.now = now
		}
	}
}

type scoringService struct {
	weights config.ScoreConfig
	now     func() time.Time
}

func NewScoringService(config config.Config, opts ...ScoringOption) ScoringService {
	s := &scoringService{
		weights: config.Score,
		now:     time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

func (s *scoringService) Score(repo model.RawRepository) (ScoredRepository, error) {
	raw, err := s.ComputeRawScore(repo)
	if err != nil {
		return ScoredRepository{}, err
	}

	return ScoredRepository{Repository: repo, RawScore: raw}, nil
}

// ComputeRawScore is the weighted sum of log10(1+stars), log10(1+forks) and the freshness
// the logarithm prevents a single huge repository from crushing all the others
func (s *scoringService) ComputeRawScore(repo model.RawRepository) (float64, error) {
	recency, err := s.ComputeFreshness(repo)
	if err != nil {
		return 0, err
	}

	stars := math.Log10(1 + float64(max(repo.Stars, 0)))
	forks := math.Log10(1 + float64(max(repo.Forks, 0)))

	return s.weights.StarsWeight*stars + s.weights.ForksWeight*forks + s.weights.RecencyWeight*recency, nil
}

// ComputeFreshness decays from 1 (updated now) to 0, halving every RecencyHalfLifeDays
// age is counted in whole days and a date in the future counts as today
func (s *scoringService) ComputeFreshness(repo model.RawRepository) (float64, error) {
	updatedAt, err := parseTimestamp(repo.UpdatedAt)
	if err != nil {
		return 0, &model.DataFormatError{
			Repository: repo.FullName,
			Field:      "updated_at",
			Value:      repo.UpdatedAt,
			Err:        err,
		}
	}

	days := max(0, int64(s.now().Sub(updatedAt)/day))
	halfLife := max(s.weights.RecencyHalfLifeDays, 1)

	return math.Exp(-math.Ln2 * float64(days) / float64(halfLife)), nil
}

// seconds are optional in an ISO-8601 date time, the offset is not
var timestampLayouts = []string{time.RFC3339, "2006-01-02T15:04Z07:00"}

func parseTimestamp(value string) (time.Time, error) {
	var firstErr error

	for _, layout := range timestampLayouts {
		parsed, err := time.Parse(layout, value)
		if err == nil {
			return parsed, nil
		}

		if firstErr == nil {
			firstErr = err
		}
	}

	return time.Time{}, firstErr
}

// AssignNormalizedScores scales every raw score so that maxRawScore becomes 100
// nothing is done for an empty batch or a non positive maximum
func (s *scoringService) AssignNormalizedScores(repos []ScoredRepository, maxRawScore float64) {
	if len(repos) == 0 || maxRawScore <= 0.0 {
		return
	}

	for i := range repos {
		repos[i].NormalizedScore = 100.0 * repos[i].RawScore / maxRawScore
	}
}

// MaxRawScore returns the highest raw score of the batch, 0 when empty
func MaxRawScore(repos []ScoredRepository) float64 {
	if len(repos) == 0 {
		return 0.0
	}

	maxRawScore := repos[0].RawScore
	for _, r := range repos[1:] {
		maxRawScore = max(maxRawScore, r.RawScore)
	}

	return maxRawScore
}

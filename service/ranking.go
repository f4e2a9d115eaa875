package service

import (
	"cmp"
	"slices"

	"github.com/Scalingo/github-popularity-score/model"
)

// Rank sorts by raw score, highest first, and builds the response records
// the sort is stable so equal scores keep the github order
// the input slice is left untouched
func Rank(repos []ScoredRepository) []model.PopularityScoreResponse {
	sorted := slices.Clone(repos)
	slices.SortStableFunc(sorted, func(a, b ScoredRepository) int {
		return cmp.Compare(b.RawScore, a.RawScore)
	})

	responses := make([]model.PopularityScoreResponse, 0, len(sorted))

	for _, r := range sorted {
		responses = append(responses, model.PopularityScoreResponse{
			Name:            r.Repository.Name,
			FullName:        r.Repository.FullName,
			HTMLURL:         r.Repository.HTMLURL,
			Stars:           r.Repository.Stars,
			Forks:           r.Repository.Forks,
			UpdatedAt:       r.Repository.UpdatedAt,
			RawScore:        r.RawScore,
			NormalizedScore: r.NormalizedScore,
		})
	}

	return responses
}

package service

import (
	"testing"

	"github.com/Scalingo/github-popularity-score/model"
	"github.com/stretchr/testify/assert"
)

func TestRank(t *testing.T) {
	tests := []struct {
		name          string
		repos         []ScoredRepository
		expectedOrder []string
	}{
		{
			name:          "Empty batch",
			repos:         []ScoredRepository{},
			expectedOrder: []string{},
		},
		{
			name: "Sorted by raw score descending",
			repos: []ScoredRepository{
				{Repository: model.RawRepository{FullName: "a"}, RawScore: 1.0},
				{Repository: model.RawRepository{FullName: "b"}, RawScore: 3.0},
				{Repository: model.RawRepository{FullName: "c"}, RawScore: 2.0},
			},
			expectedOrder: []string{"b", "c", "a"},
		},
		{
			name: "Ties keep the fetch order",
			repos: []ScoredRepository{
				{Repository: model.RawRepository{FullName: "first"}, RawScore: 1.5},
				{Repository: model.RawRepository{FullName: "top"}, RawScore: 4.0},
				{Repository: model.RawRepository{FullName: "second"}, RawScore: 1.5},
				{Repository: model.RawRepository{FullName: "third"}, RawScore: 1.5},
				{Repository: model.RawRepository{FullName: "last"}, RawScore: -0.2},
			},
			expectedOrder: []string{"top", "first", "second", "third", "last"},
		},
		{
			name: "Raw score is the key even when normalized scores disagree",
			repos: []ScoredRepository{
				{Repository: model.RawRepository{FullName: "low"}, RawScore: 1.0, NormalizedScore: 100},
				{Repository: model.RawRepository{FullName: "high"}, RawScore: 2.0, NormalizedScore: 0},
			},
			expectedOrder: []string{"high", "low"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			responses := Rank(tt.repos)

			order := make([]string, 0, len(responses))
			for _, r := range responses {
				order = append(order, r.FullName)
			}

			assert.Equal(t, tt.expectedOrder, order)
		})
	}
}

func TestRankBuildsResponses(t *testing.T) {
	repos := []ScoredRepository{
		{
			Repository: model.RawRepository{
				Name:      "repo1",
				FullName:  "owner/repo1",
				HTMLURL:   "https://github.com/owner/repo1",
				Stars:     12,
				Forks:     4,
				UpdatedAt: "2025-05-01T08:00:00Z",
			},
			RawScore:        1.2,
			NormalizedScore: 60,
		},
		{
			Repository:      model.RawRepository{Name: "repo2", FullName: "owner/repo2"},
			RawScore:        2.0,
			NormalizedScore: 100,
		},
	}

	responses := Rank(repos)

	assert.Equal(t, []model.PopularityScoreResponse{
		{Name: "repo2", FullName: "owner/repo2", RawScore: 2.0, NormalizedScore: 100},
		{
			Name:            "repo1",
			FullName:        "owner/repo1",
			HTMLURL:         "https://github.com/owner/repo1",
			Stars:           12,
			Forks:           4,
			UpdatedAt:       "2025-05-01T08:00:00Z",
			RawScore:        1.2,
			NormalizedScore: 60,
		},
	}, responses)

	// input order is preserved
	assert.Equal(t, "owner/repo1", repos[0].Repository.FullName)
}

package model

import "strings"

const (
	DefaultPage    = 10
	DefaultPerPage = 100
	MaxPerPage     = 100

	// github search never returns more than 1000 results for a query
	MaxSearchResults = 1000
)

type SearchQuery struct {
	Language     string `form:"language" binding:"required"`
	CreatedAfter string `form:"created_after" binding:"required"`
	Page         int    `form:"page,default=10"`
	PerPage      int    `form:"perPage,default=100"`
}

// ToGithubQuery build the search query string using github qualifiers
func (params SearchQuery) ToGithubQuery() string {
	return BuildQuery(params.Language, params.CreatedAfter)
}

// BuildQuery joins the language and creation date qualifiers with a single space
// blank values are skipped, the date is not validated here
func BuildQuery(language string, createdAfter string) string {
	var githubQuery strings.Builder

	if language = strings.TrimSpace(language); language != "" {
		githubQuery.WriteString("language:" + language + " ")
	}

	if createdAfter = strings.TrimSpace(createdAfter); createdAfter != "" {
		githubQuery.WriteString("created:>" + createdAfter)
	}

	return strings.TrimSpace(githubQuery.String())
}

package model

// RawRepository is a repository as returned by the github search api
// UpdatedAt is kept as received, parsing is done when computing the score
type RawRepository struct {
	Name      string `json:"name"`
	FullName  string `json:"full_name"`
	HTMLURL   string `json:"html_url"`
	Stars     int    `json:"stargazers_count"`
	Forks     int    `json:"forks_count"`
	UpdatedAt string `json:"updated_at"`
}

type GithubSearchResult struct {
	TotalCount        int             `json:"total_count"`
	IncompleteResults bool            `json:"incomplete_results"`
	Items             []RawRepository `json:"items"`
}

type PopularityScoreResponse struct {
	Name            string  `json:"name"`
	FullName        string  `json:"fullName"`
	HTMLURL         string  `json:"htmlUrl"`
	Stars           int     `json:"stars"`
	Forks           int     `json:"forks"`
	UpdatedAt       string  `json:"updatedAt"`
	RawScore        float64 `json:"rawScore"`
	NormalizedScore float64 `json:"normalizedScore"`
}

package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/Scalingo/github-popularity-score/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeGithub serves the rate limit and search endpoints and keeps the last search parameters
type fakeGithub struct {
	mu       sync.Mutex
	searches []url.Values
}

func (f *fakeGithub) lastSearch() url.Values {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.searches) == 0 {
		return nil
	}

	return f.searches[len(f.searches)-1]
}

func newFakeGithub(t *testing.T) *fakeGithub {
	t.Helper()

	fake := &fakeGithub{}
	updatedAt := time.Now().UTC().Add(-48 * time.Hour).Format(time.RFC3339)

	mux := http.NewServeMux()
	mux.HandleFunc("/rate_limit", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"resources":{"search":{"limit":30,"remaining":30}}}`)
	})
	mux.HandleFunc("/search/repositories", func(w http.ResponseWriter, r *http.Request) {
		fake.mu.Lock()
		fake.searches = append(fake.searches, r.URL.Query())
		fake.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"total_count":2,"incomplete_results":false,"items":[
			{"name":"small","full_name":"o/small","html_url":"https://github.com/o/small","stargazers_count":10,"forks_count":3,"updated_at":%q},
			{"name":"huge","full_name":"o/huge","html_url":"https://github.com/o/huge","stargazers_count":100000,"forks_count":5000,"updated_at":%q}
		]}`, updatedAt, updatedAt)
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	t.Setenv("GITHUB_API_URL", server.URL)
	t.Setenv("GITHUB_TOKEN", "")

	return fake
}

func executeSearch(args ...string) (string, error) {
	var stdout bytes.Buffer

	cmd := newRootCommand()
	cmd.SetArgs(append([]string{"search", "--config", "config/config.toml"}, args...))
	cmd.SetOut(&stdout)

	err := cmd.Execute()

	return stdout.String(), err
}

func TestSearchCommandWithFilters(t *testing.T) {
	fake := newFakeGithub(t)

	output, err := executeSearch("--language", "cplusplus", "--created-after", "2024-01-01", "--page", "1", "--per-page", "2")
	require.NoError(t, err)

	params := fake.lastSearch()
	require.NotNil(t, params)
	assert.Equal(t, "language:C++ created:>2024-01-01", params.Get("q"))
	assert.Equal(t, "stars", params.Get("sort"))
	assert.Equal(t, "desc", params.Get("order"))
	assert.Equal(t, "1", params.Get("page"))
	assert.Equal(t, "2", params.Get("per_page"))

	// indented json
	assert.Contains(t, output, "\n  {\n    \"name\": \"huge\"")

	var repos []model.PopularityScoreResponse
	require.NoError(t, json.Unmarshal([]byte(output), &repos))
	require.Len(t, repos, 2)
	assert.Equal(t, "o/huge", repos[0].FullName)
	assert.InDelta(t, 100.0, repos[0].NormalizedScore, 1e-9)
	assert.Equal(t, "o/small", repos[1].FullName)
	assert.Less(t, repos[1].NormalizedScore, repos[0].NormalizedScore)
}

func TestSearchCommandWithRawQuery(t *testing.T) {
	fake := newFakeGithub(t)

	output, err := executeSearch("--query", "language:Rust stars:>100")
	require.NoError(t, err)

	params := fake.lastSearch()
	require.NotNil(t, params)
	assert.Equal(t, "language:Rust stars:>100", params.Get("q"))
	assert.Equal(t, fmt.Sprint(model.DefaultPage), params.Get("page"))
	assert.Equal(t, fmt.Sprint(model.DefaultPerPage), params.Get("per_page"))

	var repos []model.PopularityScoreResponse
	require.NoError(t, json.Unmarshal([]byte(output), &repos))
	assert.Len(t, repos, 2)
}

func TestSearchCommandInvalidFlags(t *testing.T) {
	tests := []struct {
		name          string
		args          []string
		expectedError string
		expectedIs    error
	}{
		{
			name:          "Query combined with language",
			args:          []string{"--query", "stars:>1", "--language", "go"},
			expectedError: "--query can't be combined",
		},
		{
			name:          "Query combined with creation date",
			args:          []string{"--query", "stars:>1", "--created-after", "2024-01-01"},
			expectedError: "--query can't be combined",
		},
		{
			name:          "Unsupported language",
			args:          []string{"--language", "cobol"},
			expectedError: "cobol",
			expectedIs:    model.ErrInvalidParameter,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := newFakeGithub(t)

			output, err := executeSearch(tt.args...)

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.expectedError)
			if tt.expectedIs != nil {
				assert.ErrorIs(t, err, tt.expectedIs)
			}

			assert.Empty(t, output)
			assert.Nil(t, fake.lastSearch())
		})
	}
}

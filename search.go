package main

import (
	"encoding/json"
	"errors"

	"github.com/Scalingo/github-popularity-score/config"
	"github.com/Scalingo/github-popularity-score/logger"
	"github.com/Scalingo/github-popularity-score/metrics"
	"github.com/Scalingo/github-popularity-score/model"
	"github.com/Scalingo/github-popularity-score/service"
	"github.com/spf13/cobra"
)

type searchOptions struct {
	query        string
	language     string
	createdAfter string
	page         int
	perPage      int
}

func newSearchCommand(configPath *string) *cobra.Command {
	opts := searchOptions{}

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Run a single search and print the ranked repositories as JSON",
		Example: `  popularity-score search --language go --created-after 2024-01-01
  popularity-score search --query "language:Rust stars:>100" --page 1 --per-page 20`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.query != "" && (opts.language != "" || opts.createdAfter != "") {
				return errors.New("--query can't be combined with --language or --created-after")
			}

			filters := model.SearchQuery{CreatedAfter: opts.createdAfter, Page: opts.page, PerPage: opts.perPage}

			if opts.language != "" {
				language, err := model.ParseLanguage(opts.language)
				if err != nil {
					return err
				}

				filters.Language = language.DisplayName
			}

			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}

			// logs go to stderr, results to stdout
			logger.Setup(*cfg)

			githubClient, err := service.NewGithubClient(*cfg, nil)
			if err != nil {
				return err
			}

			recorder := metrics.New()
			githubService := service.NewGithubService(*cfg, githubClient, service.NewSearchRateLimiter(cmd.Context(), githubClient, *cfg), recorder)
			popularityService := service.NewPopularityService(*cfg, githubService, service.NewScoringService(*cfg), recorder)

			var repos []model.PopularityScoreResponse

			if opts.query != "" {
				repos, err = popularityService.Search(cmd.Context(), opts.query, opts.page, opts.perPage)
			} else {
				repos, err = popularityService.SearchByFilters(cmd.Context(), filters)
			}

			if err != nil {
				return err
			}

			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")

			return encoder.Encode(repos)
		},
	}

	cmd.Flags().StringVar(&opts.query, "query", "", "raw github search query, e.g. \"language:Go created:>2024-01-01\"")
	cmd.Flags().StringVar(&opts.language, "language", "", "language filter, case insensitive (java, go, cplusplus, ...)")
	cmd.Flags().StringVar(&opts.createdAfter, "created-after", "", "only repositories created after this date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&opts.page, "page", model.DefaultPage, "result page")
	cmd.Flags().IntVar(&opts.perPage, "per-page", model.DefaultPerPage, "results per page (max 100)")

	return cmd
}

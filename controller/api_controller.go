package controller

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Scalingo/github-popularity-score/config"
	"github.com/Scalingo/github-popularity-score/model"
	"github.com/Scalingo/github-popularity-score/service"
	"github.com/gin-gonic/gin"
)

const dateLayout = "2006-01-02"

type APIController interface {
	GetPopularityScore(ctx *gin.Context)
	GetHealth(ctx *gin.Context)
}

type apiController struct {
	popularityService service.PopularityService
	config            config.Config
	now               func() time.Time
}

func NewAPIController(config config.Config, service service.PopularityService) APIController {
	return apiController{
		popularityService: service,
		config:            config,
		now:               time.Now,
	}
}

func (s apiController) GetPopularityScore(c *gin.Context) {
	var searchQuery model.SearchQuery
	if err := c.ShouldBindQuery(&searchQuery); err != nil {
		c.JSON(http.StatusBadRequest, model.NewAPIError(&model.InvalidParameterError{
			Parameter: "query",
			Message:   "missing or invalid query parameters: " + err.Error(),
		}))

		return
	}

	if err := s.validateSearchQuery(&searchQuery); err != nil {
		c.JSON(StatusCode(err), model.NewAPIError(err))
		return
	}

	// execute the request
	repos, err := s.popularityService.SearchByFilters(c.Request.Context(), searchQuery)
	if err != nil {
		c.JSON(StatusCode(err), model.NewAPIError(err))
		return
	}

	c.JSON(http.StatusOK, repos)
}

func (s apiController) GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// validateSearchQuery checks the parameters and replace the language by the name github expects
func (s apiController) validateSearchQuery(searchQuery *model.SearchQuery) error {
	language, err := model.ParseLanguage(searchQuery.Language)
	if err != nil {
		return err
	}

	searchQuery.Language = language.DisplayName

	createdAfter, err := time.Parse(dateLayout, searchQuery.CreatedAfter)
	if err != nil {
		return &model.InvalidParameterError{
			Parameter: "created_after",
			Message:   fmt.Sprintf("Parameter 'created_after' must be in YYYY-MM-DD format. Invalid value: %s", searchQuery.CreatedAfter),
		}
	}

	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	if createdAfter.After(today) {
		return &model.InvalidParameterError{
			Parameter: "created_after",
			Message:   fmt.Sprintf("Parameter 'created_after' cannot be greater than today's date (%s).", today.Format(dateLayout)),
		}
	}

	if searchQuery.Page < 1 {
		return &model.InvalidParameterError{Parameter: "page", Message: "Parameter 'page' must be greater than 0"}
	}

	if searchQuery.PerPage < 1 || searchQuery.PerPage > model.MaxPerPage {
		return &model.InvalidParameterError{
			Parameter: "perPage",
			Message:   fmt.Sprintf("Parameter 'perPage' must be between 1 and %d", model.MaxPerPage),
		}
	}

	// division keeps huge pages from overflowing
	if searchQuery.Page > model.MaxSearchResults/searchQuery.PerPage {
		return &model.InvalidParameterError{
			Parameter: "page",
			Message:   fmt.Sprintf("github only returns the first %d results, page x perPage must not exceed it", model.MaxSearchResults),
		}
	}

	return nil
}

// StatusCode returns the http status matching the error
func StatusCode(err error) int {
	switch {
	case errors.Is(err, model.ErrInvalidParameter):
		return http.StatusBadRequest
	case errors.Is(err, model.ErrRateLimitReached):
		return http.StatusTooManyRequests
	case errors.Is(err, model.ErrFetch), errors.Is(err, model.ErrRateLimiter):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

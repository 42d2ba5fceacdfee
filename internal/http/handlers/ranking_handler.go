package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"review_app/internal/ranking"
)

// RankingOptions configures the ranking feed endpoints.
type RankingOptions struct {
	RatingThreshold  float64
	CentralThreshold float64
	BaseURL          string
	BasePath         string
	// ForceJSON ignores ?format and always answers JSON.
	ForceJSON bool
	Now       func() time.Time
}

// Rankings serves the detestability leaderboard as RSS or JSON. Every
// outcome, errors included, is rendered in the requested representation,
// except an unknown format which is always reported as JSON.
func Rankings(store ranking.Store, opts RankingOptions) gin.HandlerFunc {
	return func(c *gin.Context) {
		rawFormat, ok := c.GetQuery("format")
		if !ok {
			rawFormat = string(ranking.FormatRSS)
		}
		if opts.ForceJSON {
			rawFormat = string(ranking.FormatJSON)
		}

		// A present but empty ?type= is invalid; only an absent one defaults.
		rawKind, ok := c.GetQuery("type")
		if !ok {
			rawKind = string(ranking.MostDetestable)
		}
		kind, err := ranking.ParseKind(rawKind)
		if err != nil {
			errFormat := ranking.FormatRSS
			if rawFormat == string(ranking.FormatJSON) {
				errFormat = ranking.FormatJSON
			}
			writeRankingError(c, http.StatusBadRequest, errFormat, err.Error())
			return
		}

		format, err := ranking.ParseFormat(rawFormat)
		if err != nil {
			writeRankingError(c, http.StatusBadRequest, ranking.FormatJSON, err.Error())
			return
		}

		entities, err := store.RankableEntities(c.Request.Context())
		if err != nil {
			_ = c.Error(err)
			writeRankingError(c, http.StatusInternalServerError, format, "Query failed: "+err.Error())
			return
		}

		report := ranking.Build(entities, ranking.Params{
			Kind:             kind,
			Format:           format,
			RatingThreshold:  opts.RatingThreshold,
			CentralThreshold: opts.CentralThreshold,
		})

		var (
			body        []byte
			contentType string
		)
		if format == ranking.FormatJSON {
			contentType = ranking.ContentTypeJSON
			body, err = report.JSON()
		} else {
			now := time.Now()
			if opts.Now != nil {
				now = opts.Now()
			}
			contentType = ranking.ContentTypeXML
			body, err = report.RSS(ranking.Feed{BaseURL: opts.BaseURL, BasePath: opts.BasePath, Now: now})
		}
		if err != nil {
			_ = c.Error(err)
			writeRankingError(c, http.StatusInternalServerError, format, "Render failed")
			return
		}
		c.Data(http.StatusOK, contentType, body)
	}
}

func writeRankingError(c *gin.Context, status int, format ranking.Format, msg string) {
	contentType, body := ranking.ErrorBody(format, msg)
	c.Data(status, contentType, body)
	c.Abort()
}

package handlers

import (
	"database/sql"
	"math"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"review_app/internal/apierr"
	"review_app/internal/models"
)

type statItem struct {
	Label string      `json:"label"`
	Value interface{} `json:"value"`
}

type entityHighlight struct {
	Name      string  `json:"name"`
	AvgRating float64 `json:"avg_rating"`
}

// AdminStats returns the dashboard totals. The aggregates run concurrently.
func AdminStats(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var (
			entities, reviews, reviewers int64
			avgRating                    sql.NullFloat64
			top, worst                   []entityHighlight
		)

		g, ctx := errgroup.WithContext(c.Request.Context())
		ctxDB := db.WithContext(ctx)
		g.Go(func() error {
			return ctxDB.Model(&models.Entity{}).Count(&entities).Error
		})
		g.Go(func() error {
			return ctxDB.Model(&models.TraitReview{}).Distinct("batch_id").Count(&reviews).Error
		})
		g.Go(func() error {
			return ctxDB.Model(&models.TraitReview{}).Distinct("user_id").Count(&reviewers).Error
		})
		g.Go(func() error {
			return ctxDB.Model(&models.TraitReview{}).Select("AVG(rating)").Row().Scan(&avgRating)
		})
		highlight := func(order string, dst *[]entityHighlight) func() error {
			return func() error {
				return ctxDB.Table("entities AS e").
					Select("e.name, ROUND(AVG(r.rating), 2) AS avg_rating").
					Joins("JOIN trait_reviews r ON r.entity_id = e.id").
					Group("e.id, e.name").
					Order("avg_rating " + order + ", e.name ASC").
					Limit(1).
					Scan(dst).Error
			}
		}
		g.Go(highlight("DESC", &top))
		g.Go(highlight("ASC", &worst))

		if err := g.Wait(); err != nil {
			apierr.Abort(c, err)
			return
		}

		avg := 0.0
		if avgRating.Valid {
			avg = math.Round(avgRating.Float64*100) / 100
		}
		first := func(h []entityHighlight) interface{} {
			if len(h) == 0 {
				return nil
			}
			return h[0]
		}

		c.JSON(http.StatusOK, gin.H{
			"stats": []statItem{
				{Label: "Total Entități", Value: entities},
				{Label: "Total Evaluări", Value: reviews},
				{Label: "Utilizatori Activi", Value: reviewers},
				{Label: "Rating Mediu General", Value: avg},
			},
			"highlights": gin.H{
				"top_entity":   first(top),
				"worst_entity": first(worst),
			},
		})
	}
}

// CategoryStats returns entity count, review count and average rating per category.
func CategoryStats(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		type row struct {
			Name      string  `json:"name"`
			Count     int64   `json:"count"`
			Reviews   int64   `json:"reviews"`
			AvgRating float64 `json:"avg_rating"`
		}
		rows := []row{}
		err := db.WithContext(c.Request.Context()).
			Table("categories AS c").
			Select(`c.name, COUNT(DISTINCT e.id) AS count, COUNT(DISTINCT r.batch_id) AS reviews,
				COALESCE(ROUND(AVG(r.rating), 2), 0) AS avg_rating`).
			Joins("LEFT JOIN entities e ON e.category_id = c.id").
			Joins("LEFT JOIN trait_reviews r ON r.entity_id = e.id").
			Group("c.id, c.name").
			Order("count DESC, c.name ASC").
			Scan(&rows).Error
		if err != nil {
			apierr.Abort(c, err)
			return
		}
		c.JSON(http.StatusOK, rows)
	}
}

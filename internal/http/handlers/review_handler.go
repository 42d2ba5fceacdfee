package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"review_app/internal/apierr"
	"review_app/internal/models"
)

type reviewView struct {
	ID         int64     `json:"id"`
	BatchID    string    `json:"batch_id"`
	EntityID   int64     `json:"entity_id"`
	EntityName string    `json:"entity_name"`
	TraitID    int64     `json:"trait_id"`
	TraitName  string    `json:"trait_name"`
	UserID     int64     `json:"user_id"`
	Username   string    `json:"user_name"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment"`
	CreatedAt  time.Time `json:"created_at"`
}

func reviewQuery(db *gorm.DB) *gorm.DB {
	return db.Table("trait_reviews AS r").
		Select(`r.id, r.batch_id, r.entity_id, e.name AS entity_name, r.trait_id,
			COALESCE(t.name, '') AS trait_name, r.user_id, COALESCE(u.username, '') AS username,
			r.rating, r.comment, r.created_at`).
		Joins("JOIN entities e ON e.id = r.entity_id").
		Joins("LEFT JOIN traits t ON t.id = r.trait_id").
		Joins("LEFT JOIN users u ON u.id = r.user_id").
		Order("r.created_at DESC, r.id DESC")
}

func listReviews(c *gin.Context, q *gorm.DB) {
	reviews := []reviewView{}
	if err := q.Scan(&reviews).Error; err != nil {
		apierr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, reviews)
}

// ListReviews returns every trait review (admin).
func ListReviews(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		listReviews(c, reviewQuery(db.WithContext(c.Request.Context())))
	}
}

// ListMyReviews returns the caller's own reviews.
func ListMyReviews(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := mustPrincipal(c)
		if err != nil {
			apierr.Abort(c, err)
			return
		}
		listReviews(c, reviewQuery(db.WithContext(c.Request.Context())).Where("r.user_id = ?", p.ID))
	}
}

// ListEntityReviews returns the reviews of :entityId within :category.
func ListEntityReviews(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		entity, err := entityInCategory(db.WithContext(c.Request.Context()), c.Param("category"), c.Param("entityId"), false)
		if err != nil {
			apierr.Abort(c, err)
			return
		}
		listReviews(c, reviewQuery(db.WithContext(c.Request.Context())).Where("r.entity_id = ?", entity.ID))
	}
}

type ratingInput struct {
	TraitID int64  `json:"trait_id"`
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// CreateReview stores one submission of trait ratings for an approved entity.
// All rows share a batch id and creation instant.
func CreateReview(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := mustPrincipal(c)
		if err != nil {
			apierr.Abort(c, err)
			return
		}

		var input struct {
			Traits []ratingInput `json:"traits"`
		}
		if err := c.ShouldBindJSON(&input); err != nil || len(input.Traits) == 0 {
			apierr.Abort(c, apierr.BadRequest("Lipsesc datele necesare sau câmpul traits nu este un array."))
			return
		}

		ctxDB := db.WithContext(c.Request.Context())
		entity, err := entityInCategory(ctxDB, c.Param("category"), c.Param("entityId"), true)
		if err != nil {
			apierr.Abort(c, err)
			return
		}

		seen := map[int64]bool{}
		for _, r := range input.Traits {
			if r.Rating < 1 || r.Rating > 5 {
				apierr.Abort(c, apierr.BadRequest("Rating must be between 1 and 5"))
				return
			}
			if seen[r.TraitID] {
				apierr.Abort(c, apierr.BadRequest("Duplicate trait in review"))
				return
			}
			seen[r.TraitID] = true
		}

		ids := make([]int64, 0, len(seen))
		for id := range seen {
			ids = append(ids, id)
		}
		var known int64
		if err := ctxDB.Model(&models.Trait{}).
			Where("id IN ? AND category_id = ?", ids, entity.CategoryID).
			Count(&known).Error; err != nil {
			apierr.Abort(c, err)
			return
		}
		if int(known) != len(ids) {
			apierr.Abort(c, apierr.BadRequest("Unknown trait for this category"))
			return
		}

		batch := uuid.NewString()
		now := time.Now()
		rows := make([]models.TraitReview, 0, len(input.Traits))
		for _, r := range input.Traits {
			rows = append(rows, models.TraitReview{
				BatchID:   batch,
				EntityID:  entity.ID,
				UserID:    p.ID,
				TraitID:   r.TraitID,
				Rating:    r.Rating,
				Comment:   strings.TrimSpace(r.Comment),
				CreatedAt: now,
			})
		}

		err = ctxDB.Transaction(func(tx *gorm.DB) error {
			return tx.Create(&rows).Error
		})
		if err != nil {
			apierr.Abort(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success":  true,
			"message":  "Recenzia a fost adăugată cu succes!",
			"batch_id": batch,
		})
	}
}

// DeleteReview removes the submission containing review :id. When ownOnly is
// set, reviews of other users are reported as missing.
func DeleteReview(db *gorm.DB, ownOnly bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := pathID(c, "id", "review")
		if err != nil {
			apierr.Abort(c, err)
			return
		}

		ctxDB := db.WithContext(c.Request.Context())
		q := ctxDB.Where("id = ?", id)
		if ownOnly {
			p, err := mustPrincipal(c)
			if err != nil {
				apierr.Abort(c, err)
				return
			}
			q = q.Where("user_id = ?", p.ID)
		}

		var review models.TraitReview
		if err := q.First(&review).Error; err != nil {
			apierr.Abort(c, notFoundOr(err, "Review not found"))
			return
		}

		var deleted int64
		err = ctxDB.Transaction(func(tx *gorm.DB) error {
			res := tx.Where("batch_id = ?", review.BatchID).Delete(&models.TraitReview{})
			deleted = res.RowsAffected
			return res.Error
		})
		if err != nil {
			apierr.Abort(c, err)
			return
		}

		if !ownOnly {
			recordAudit(db, c, "reviews.delete", "review", review.ID, map[string]interface{}{
				"batch_id":  review.BatchID,
				"entity_id": review.EntityID,
				"user_id":   review.UserID,
				"rows":      deleted,
			})
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Review deleted successfully"})
	}
}

package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"review_app/internal/apierr"
	"review_app/internal/models"
)

type entityView struct {
	ID           int64         `json:"id"`
	Name         string        `json:"name"`
	Description  string        `json:"description"`
	Status       models.Status `json:"status"`
	CategoryID   int64         `json:"category_id"`
	CategoryName string        `json:"category_name"`
	AvgRating    float64       `json:"avg_rating"`
	ReviewCount  int64         `json:"review_count"`
	CreatedAt    time.Time     `json:"created_at"`
}

// entityQuery selects entities with their category and review aggregates.
// review_count counts submissions, not trait rows.
func entityQuery(db *gorm.DB) *gorm.DB {
	return db.Table("entities AS e").
		Select(`e.id, e.name, e.description, e.status, e.category_id, c.name AS category_name,
			COALESCE(ROUND(AVG(r.rating), 2), 0) AS avg_rating,
			COUNT(DISTINCT r.batch_id) AS review_count, e.created_at`).
		Joins("JOIN categories c ON c.id = e.category_id").
		Joins("LEFT JOIN trait_reviews r ON r.entity_id = e.id").
		Group("e.id, e.name, e.description, e.status, e.category_id, c.name, e.created_at").
		Order("e.name ASC")
}

func listEntities(c *gin.Context, q *gorm.DB) {
	entities := []entityView{}
	if err := q.Scan(&entities).Error; err != nil {
		apierr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, entities)
}

// entityInCategory loads entity rawID and checks it belongs to the named category.
func entityInCategory(db *gorm.DB, categoryName, rawID string, approvedOnly bool) (*models.Entity, error) {
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil || id <= 0 {
		return nil, apierr.BadRequest("Invalid entity ID")
	}
	q := db.Model(&models.Entity{}).
		Joins("JOIN categories ON categories.id = entities.category_id").
		Where("entities.id = ? AND categories.name = ?", id, categoryName)
	if approvedOnly {
		q = q.Where("entities.status = ?", models.StatusApproved)
	}
	var e models.Entity
	if err := q.First(&e).Error; err != nil {
		return nil, notFoundOr(err, "Entity not found")
	}
	return &e, nil
}

// ListEntities returns every entity (admin).
func ListEntities(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		listEntities(c, entityQuery(db.WithContext(c.Request.Context())))
	}
}

// ListEntitiesByCategory returns the entities of :category, optionally only approved ones.
func ListEntitiesByCategory(db *gorm.DB, approvedOnly bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		q := entityQuery(db.WithContext(c.Request.Context())).Where("c.name = ?", c.Param("category"))
		if approvedOnly {
			q = q.Where("e.status = ?", models.StatusApproved)
		}
		listEntities(c, q)
	}
}

// CreateEntity proposes a new entity in :category. It starts pending.
func CreateEntity(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			Name        string `json:"name" form:"name"`
			Description string `json:"description" form:"description"`
		}
		_ = c.ShouldBind(&input)
		input.Name = strings.TrimSpace(input.Name)
		input.Description = strings.TrimSpace(input.Description)
		if input.Name == "" {
			apierr.Abort(c, apierr.BadRequest("Missing entity name"))
			return
		}
		if input.Description == "" {
			apierr.Abort(c, apierr.BadRequest("Missing entity description"))
			return
		}
		if len(input.Name) > 255 {
			apierr.Abort(c, apierr.BadRequest("Entity name is too long (max 255 characters)"))
			return
		}

		ctxDB := db.WithContext(c.Request.Context())
		var category models.Category
		if err := ctxDB.Where("name = ?", c.Param("category")).First(&category).Error; err != nil {
			apierr.Abort(c, notFoundOr(err, "Category not found"))
			return
		}

		var existing int64
		if err := ctxDB.Model(&models.Entity{}).Where("LOWER(name) = LOWER(?)", input.Name).Count(&existing).Error; err != nil {
			apierr.Abort(c, err)
			return
		}
		if existing > 0 {
			apierr.Abort(c, apierr.Conflict("An entity with this name already exists"))
			return
		}

		entity := models.Entity{
			CategoryID:  category.ID,
			Name:        input.Name,
			Description: input.Description,
			Status:      models.StatusPending,
		}
		if err := ctxDB.Create(&entity).Error; err != nil {
			apierr.Abort(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Entity created successfully",
			"entity":  entity,
		})
	}
}

// SetEntityStatus approves or rejects entity :id.
func SetEntityStatus(db *gorm.DB, status models.Status) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := pathID(c, "id", "entity")
		if err != nil {
			apierr.Abort(c, err)
			return
		}
		res := db.WithContext(c.Request.Context()).Model(&models.Entity{}).Where("id = ?", id).Update("status", status)
		if res.Error != nil {
			apierr.Abort(c, res.Error)
			return
		}
		if res.RowsAffected == 0 {
			if err := db.WithContext(c.Request.Context()).Select("id").First(&models.Entity{}, id).Error; err != nil {
				apierr.Abort(c, notFoundOr(err, "Entity not found"))
				return
			}
		}

		recordAudit(db, c, "entities."+moderationVerb(status), "entity", id, map[string]interface{}{"status": status})
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Entity " + string(status) + " successfully"})
	}
}

// DeleteEntity removes entity :id with its reviews and Q&A.
func DeleteEntity(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := pathID(c, "id", "entity")
		if err != nil {
			apierr.Abort(c, err)
			return
		}

		var entity models.Entity
		err = db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
			if err := tx.First(&entity, id).Error; err != nil {
				return notFoundOr(err, "Entity not found")
			}
			return deleteEntities(tx, []int64{id})
		})
		if err != nil {
			apierr.Abort(c, err)
			return
		}

		recordAudit(db, c, "entities.delete", "entity", id, map[string]interface{}{"name": entity.Name})
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Entity deleted successfully"})
	}
}

func moderationVerb(status models.Status) string {
	if status == models.StatusRejected {
		return "reject"
	}
	return "approve"
}

// deleteEntities removes entities and everything that hangs off them.
func deleteEntities(tx *gorm.DB, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	questions := tx.Model(&models.Question{}).Select("id").Where("entity_id IN ?", ids)
	answers := tx.Model(&models.Answer{}).Select("id").Where("question_id IN (?)", questions)
	steps := []func() error{
		func() error { return tx.Where("answer_id IN (?)", answers).Delete(&models.AnswerVote{}).Error },
		func() error { return tx.Where("question_id IN (?)", questions).Delete(&models.Answer{}).Error },
		func() error { return tx.Where("entity_id IN ?", ids).Delete(&models.Question{}).Error },
		func() error { return tx.Where("entity_id IN ?", ids).Delete(&models.TraitReview{}).Error },
		func() error { return tx.Where("id IN ?", ids).Delete(&models.Entity{}).Error },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}

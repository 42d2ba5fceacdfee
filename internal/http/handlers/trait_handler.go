package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"review_app/internal/apierr"
	"review_app/internal/models"
)

type traitView struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	CategoryID   int64  `json:"category_id"`
	CategoryName string `json:"category_name"`
}

// ListTraits returns every trait with its category (admin).
func ListTraits(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		traits := []traitView{}
		err := db.WithContext(c.Request.Context()).
			Table("traits AS t").
			Select("t.id, t.name, t.category_id, c.name AS category_name").
			Joins("JOIN categories c ON c.id = t.category_id").
			Order("c.name ASC, t.name ASC").
			Scan(&traits).Error
		if err != nil {
			apierr.Abort(c, err)
			return
		}
		c.JSON(http.StatusOK, traits)
	}
}

func ListTraitsByCategory(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctxDB := db.WithContext(c.Request.Context())
		var category models.Category
		if err := ctxDB.Where("name = ?", c.Param("category")).First(&category).Error; err != nil {
			apierr.Abort(c, notFoundOr(err, "Category not found"))
			return
		}
		traits := []models.Trait{}
		if err := ctxDB.Where("category_id = ?", category.ID).Order("id ASC").Find(&traits).Error; err != nil {
			apierr.Abort(c, err)
			return
		}
		c.JSON(http.StatusOK, traits)
	}
}

func CreateTrait(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			Name string `json:"name" form:"name"`
		}
		_ = c.ShouldBind(&input)
		input.Name = strings.TrimSpace(input.Name)
		if input.Name == "" {
			apierr.Abort(c, apierr.BadRequest("Trait name is required"))
			return
		}

		ctxDB := db.WithContext(c.Request.Context())
		var category models.Category
		if err := ctxDB.Where("name = ?", c.Param("category")).First(&category).Error; err != nil {
			apierr.Abort(c, notFoundOr(err, "Category not found"))
			return
		}

		var existing int64
		if err := ctxDB.Model(&models.Trait{}).
			Where("category_id = ? AND LOWER(name) = LOWER(?)", category.ID, input.Name).
			Count(&existing).Error; err != nil {
			apierr.Abort(c, err)
			return
		}
		if existing > 0 {
			apierr.Abort(c, apierr.Conflict("Trait already exists"))
			return
		}

		trait := models.Trait{CategoryID: category.ID, Name: input.Name}
		if err := ctxDB.Create(&trait).Error; err != nil {
			apierr.Abort(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Trait created successfully", "trait": trait})
	}
}

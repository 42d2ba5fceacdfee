package handlers

import (
	"errors"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"review_app/internal/apierr"
	"review_app/internal/models"
)

const maxCategoryName = 100

type categoryInput struct {
	Name   string   `json:"name" form:"name"`
	Traits []string `json:"traits" form:"traits"`
}

func (in *categoryInput) normalize() error {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return apierr.BadRequest("Missing or empty category name")
	}
	if utf8.RuneCountInString(in.Name) > maxCategoryName {
		return apierr.BadRequest("Category name is too long (max 100 characters)")
	}
	seen := map[string]bool{}
	traits := in.Traits[:0]
	for _, t := range in.Traits {
		t = strings.TrimSpace(t)
		key := strings.ToLower(t)
		if t == "" || seen[key] {
			continue
		}
		seen[key] = true
		traits = append(traits, t)
	}
	in.Traits = traits
	return nil
}

// createCategory inserts the category and its traits in one transaction.
func createCategory(db *gorm.DB, in categoryInput, status models.Status) (models.Category, error) {
	category := models.Category{Name: in.Name, Status: status}
	for _, t := range in.Traits {
		category.Traits = append(category.Traits, models.Trait{Name: t})
	}
	err := db.Transaction(func(tx *gorm.DB) error {
		var existing int64
		if err := tx.Model(&models.Category{}).Where("LOWER(name) = LOWER(?)", in.Name).Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return apierr.Conflict("Category already exists")
		}
		return tx.Create(&category).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		err = apierr.Conflict("Category already exists")
	}
	if err != nil {
		return models.Category{}, err
	}
	return category, nil
}

func listCategories(c *gin.Context, q *gorm.DB) {
	categories := []models.Category{}
	if search, ok := c.GetQuery("search"); ok {
		search = strings.TrimSpace(search)
		if search == "" {
			apierr.Abort(c, apierr.BadRequest("Search term cannot be empty"))
			return
		}
		q = q.Where("name LIKE ?", likePattern(search))
		if err := q.Order("name ASC").Find(&categories).Error; err != nil {
			apierr.Abort(c, err)
			return
		}
		if len(categories) == 0 {
			apierr.Abort(c, apierr.NotFound("No categories found"))
			return
		}
		c.JSON(http.StatusOK, categories)
		return
	}
	if err := q.Order("name ASC").Find(&categories).Error; err != nil {
		apierr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, categories)
}

// ListCategories returns all categories, filtered by ?search when present.
func ListCategories(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		listCategories(c, db.WithContext(c.Request.Context()).Model(&models.Category{}))
	}
}

func ListApprovedCategories(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		listCategories(c, db.WithContext(c.Request.Context()).Model(&models.Category{}).
			Where("status = ?", models.StatusApproved))
	}
}

// CreateCategory proposes a category for moderation.
func CreateCategory(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in categoryInput
		if err := c.ShouldBind(&in); err != nil {
			apierr.Abort(c, apierr.BadRequest("Invalid traits format"))
			return
		}
		if err := in.normalize(); err != nil {
			apierr.Abort(c, err)
			return
		}
		category, err := createCategory(db.WithContext(c.Request.Context()), in, models.StatusPending)
		if err != nil {
			apierr.Abort(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{
			"success":  true,
			"message":  "Category created successfully",
			"category": category,
		})
	}
}

// ImportCategory creates an already approved category with its traits (admin).
func ImportCategory(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in categoryInput
		if err := c.ShouldBindJSON(&in); err != nil {
			apierr.Abort(c, apierr.BadRequest("Traits must be an array"))
			return
		}
		if err := in.normalize(); err != nil {
			apierr.Abort(c, err)
			return
		}
		category, err := createCategory(db.WithContext(c.Request.Context()), in, models.StatusApproved)
		if err != nil {
			apierr.Abort(c, err)
			return
		}
		recordAudit(db, c, "categories.import", "category", category.ID, map[string]interface{}{
			"name":   category.Name,
			"traits": in.Traits,
		})
		c.JSON(http.StatusCreated, gin.H{
			"success":  true,
			"message":  "Category imported successfully",
			"category": category,
		})
	}
}

// SetCategoryStatus approves or rejects category :id.
func SetCategoryStatus(db *gorm.DB, status models.Status) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := pathID(c, "id", "category")
		if err != nil {
			apierr.Abort(c, err)
			return
		}
		ctxDB := db.WithContext(c.Request.Context())
		var category models.Category
		if err := ctxDB.First(&category, id).Error; err != nil {
			apierr.Abort(c, notFoundOr(err, "Category not found"))
			return
		}
		if err := ctxDB.Model(&category).Update("status", status).Error; err != nil {
			apierr.Abort(c, err)
			return
		}
		recordAudit(db, c, "categories."+moderationVerb(status), "category", id, map[string]interface{}{"name": category.Name})
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Category " + string(status) + " successfully"})
	}
}

// DeleteCategory removes category :id with its traits and entities.
func DeleteCategory(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := pathID(c, "id", "category")
		if err != nil {
			apierr.Abort(c, err)
			return
		}

		var category models.Category
		err = db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
			if err := tx.First(&category, id).Error; err != nil {
				return notFoundOr(err, "Category not found")
			}
			var entityIDs []int64
			if err := tx.Model(&models.Entity{}).Where("category_id = ?", id).Pluck("id", &entityIDs).Error; err != nil {
				return err
			}
			if err := deleteEntities(tx, entityIDs); err != nil {
				return err
			}
			if err := tx.Where("category_id = ?", id).Delete(&models.Trait{}).Error; err != nil {
				return err
			}
			return tx.Delete(&category).Error
		})
		if err != nil {
			apierr.Abort(c, err)
			return
		}

		recordAudit(db, c, "categories.delete", "category", id, map[string]interface{}{"name": category.Name})
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Category deleted successfully"})
	}
}

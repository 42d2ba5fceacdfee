package testutil

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"review_app/internal/models"
)

func CreateUser(tb testing.TB, gdb *gorm.DB, username string, role models.Role) models.User {
	tb.Helper()
	u := models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: PasswordHash(tb),
		Role:         role,
	}
	if err := gdb.Create(&u).Error; err != nil {
		tb.Fatalf("create user: %v", err)
	}
	return u
}

// CreateCategory inserts a category with the named traits.
func CreateCategory(tb testing.TB, gdb *gorm.DB, name string, status models.Status, traits ...string) models.Category {
	tb.Helper()
	c := models.Category{Name: name, Status: status}
	for _, t := range traits {
		c.Traits = append(c.Traits, models.Trait{Name: t})
	}
	if err := gdb.Create(&c).Error; err != nil {
		tb.Fatalf("create category: %v", err)
	}
	return c
}

func CreateEntity(tb testing.TB, gdb *gorm.DB, categoryID int64, name string, status models.Status) models.Entity {
	tb.Helper()
	e := models.Entity{CategoryID: categoryID, Name: name, Description: name + " description", Status: status}
	if err := gdb.Create(&e).Error; err != nil {
		tb.Fatalf("create entity: %v", err)
	}
	return e
}

// Rating is one trait score inside a review submission.
type Rating struct {
	TraitID int64
	Score   int
}

// AddReview stores ratings as one submission made at the given time.
func AddReview(tb testing.TB, gdb *gorm.DB, entityID, userID int64, at time.Time, ratings ...Rating) []models.TraitReview {
	tb.Helper()
	batch := uuid.NewString()
	rows := make([]models.TraitReview, 0, len(ratings))
	for _, r := range ratings {
		rows = append(rows, models.TraitReview{
			BatchID:   batch,
			EntityID:  entityID,
			UserID:    userID,
			TraitID:   r.TraitID,
			Rating:    r.Score,
			CreatedAt: at,
		})
	}
	if err := gdb.Create(&rows).Error; err != nil {
		tb.Fatalf("create review: %v", err)
	}
	return rows
}

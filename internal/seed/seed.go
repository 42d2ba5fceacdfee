package seed

import (
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"review_app/internal/logger"
	"review_app/internal/models"
)

// Sample catalogue created on first setup so the rankings have something to show.
var sampleCategories = []struct {
	name   string
	traits []string
}{
	{"Telefoane", []string{"Baterie", "Ecran", "Preț", "Suport"}},
	{"Restaurante", []string{"Mâncare", "Servire", "Curățenie"}},
}

// FirstSetup makes sure an admin account and the sample categories exist. It
// is safe to run on every start.
func FirstSetup(db *gorm.DB, adminEmail, adminPassword string, log *logger.Logger) error {
	adminEmail = strings.ToLower(strings.TrimSpace(adminEmail))

	// -------------------------
	// 1) Ensure admin user
	// -------------------------
	passHash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	admin := models.User{
		Username:     "admin",
		Email:        adminEmail,
		PasswordHash: string(passHash),
		Role:         models.RoleAdmin,
	}
	if err := db.Where("email = ?", adminEmail).FirstOrCreate(&admin).Error; err != nil {
		return err
	}
	// An existing account with this email is promoted, its password left alone.
	if admin.Role != models.RoleAdmin {
		if err := db.Model(&admin).Update("role", models.RoleAdmin).Error; err != nil {
			return err
		}
	}

	// -------------------------
	// 2) Ensure sample categories
	// -------------------------
	for _, sc := range sampleCategories {
		category := models.Category{Name: sc.name, Status: models.StatusApproved}
		if err := db.Where("name = ?", sc.name).FirstOrCreate(&category).Error; err != nil {
			return err
		}
		for _, name := range sc.traits {
			trait := models.Trait{CategoryID: category.ID, Name: name}
			if err := db.Where("category_id = ? AND name = ?", category.ID, name).FirstOrCreate(&trait).Error; err != nil {
				return err
			}
		}
	}

	log.Info("✅ Seed OK", "admin", adminEmail, "categories", len(sampleCategories))
	return nil
}

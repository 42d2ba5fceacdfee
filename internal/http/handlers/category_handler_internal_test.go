package handlers

import (
	"errors"
	"net/http"
	"testing"

	"gorm.io/gorm"

	"review_app/internal/apierr"
	"review_app/internal/models"
	"review_app/internal/testutil"
)

// A concurrent create that lands between the name check and the insert
// still reports a conflict.
func TestCreateCategoryLostRaceIsConflict(t *testing.T) {
	gdb := testutil.DB(t)

	fired := false
	err := gdb.Callback().Create().Before("gorm:create").Register("test:concurrent_insert", func(tx *gorm.DB) {
		if fired || tx.Statement.Table != "categories" {
			return
		}
		fired = true
		tx.Session(&gorm.Session{NewDB: true}).
			Exec("INSERT INTO categories (name, status, created_at) VALUES (?, ?, CURRENT_TIMESTAMP)", "Phones", models.StatusPending)
	})
	if err != nil {
		t.Fatal(err)
	}

	_, err = createCategory(gdb, categoryInput{Name: "Phones"}, models.StatusPending)
	var ae *apierr.Error
	if !errors.As(err, &ae) || ae.Status != http.StatusConflict || ae.Message != "Category already exists" {
		t.Fatalf("err = %v, want 409 Category already exists", err)
	}
}

package handlers_test

import (
	"net/http"
	"strconv"
	"testing"

	"review_app/internal/models"
	"review_app/internal/testutil"
)

func TestCategories(t *testing.T) {
	s := newServer(t)
	testutil.CreateCategory(t, s.db, "Phones", models.StatusApproved, "Battery")
	testutil.CreateCategory(t, s.db, "Politicians", models.StatusPending)

	var cats []models.Category
	w := s.as(models.User{}, http.MethodGet, "/categories", nil)
	testutil.AssertStatus(t, w, http.StatusOK)
	testutil.DecodeJSON(t, w, &cats)
	if len(cats) != 2 {
		t.Fatalf("categories = %d, want 2", len(cats))
	}

	w = s.as(models.User{}, http.MethodGet, "/categories/approved", nil)
	testutil.DecodeJSON(t, w, &cats)
	if len(cats) != 1 || cats[0].Name != "Phones" {
		t.Fatalf("approved = %+v", cats)
	}

	w = s.as(models.User{}, http.MethodGet, "/categories?search=oli", nil)
	testutil.AssertStatus(t, w, http.StatusOK)
	testutil.DecodeJSON(t, w, &cats)
	if len(cats) != 1 || cats[0].Name != "Politicians" {
		t.Fatalf("search = %+v", cats)
	}

	w = s.as(models.User{}, http.MethodGet, "/categories?search=%20", nil)
	testutil.AssertStatus(t, w, http.StatusBadRequest)
	testutil.AssertMessage(t, w, "Search term cannot be empty")

	w = s.as(models.User{}, http.MethodGet, "/categories?search=zzz", nil)
	testutil.AssertStatus(t, w, http.StatusNotFound)
	testutil.AssertMessage(t, w, "No categories found")
}

func TestCreateCategory(t *testing.T) {
	s := newServer(t)

	w := s.as(s.alice, http.MethodPost, "/categories", map[string]any{"name": "  "})
	testutil.AssertStatus(t, w, http.StatusBadRequest)
	testutil.AssertMessage(t, w, "Missing or empty category name")

	w = s.as(s.alice, http.MethodPost, "/categories", map[string]any{
		"name":   "Cars",
		"traits": []string{"Noise", " noise ", "Price", ""},
	})
	testutil.AssertStatus(t, w, http.StatusCreated)

	var cat models.Category
	if err := s.db.Preload("Traits").Where("name = ?", "Cars").First(&cat).Error; err != nil {
		t.Fatalf("category not stored: %v", err)
	}
	if cat.Status != models.StatusPending || len(cat.Traits) != 2 {
		t.Fatalf("stored = %+v", cat)
	}

	w = s.as(s.alice, http.MethodPost, "/categories", map[string]any{"name": "cars"})
	testutil.AssertStatus(t, w, http.StatusConflict)
	testutil.AssertMessage(t, w, "Category already exists")
}

func TestModerateCategory(t *testing.T) {
	s := newServer(t)
	cat := testutil.CreateCategory(t, s.db, "Phones", models.StatusPending, "Battery")
	path := "/admin/categories/" + strconv.FormatInt(cat.ID, 10)

	w := s.as(s.admin, http.MethodPatch, path+"/approve", nil)
	testutil.AssertStatus(t, w, http.StatusOK)
	testutil.AssertMessage(t, w, "Category approved successfully")

	w = s.as(s.admin, http.MethodPatch, path+"/reject", nil)
	testutil.AssertStatus(t, w, http.StatusOK)
	testutil.AssertMessage(t, w, "Category rejected successfully")

	w = s.as(s.admin, http.MethodPatch, "/admin/categories/999/approve", nil)
	testutil.AssertStatus(t, w, http.StatusNotFound)

	w = s.as(s.admin, http.MethodPatch, "/admin/categories/abc/approve", nil)
	testutil.AssertStatus(t, w, http.StatusBadRequest)
	testutil.AssertMessage(t, w, "Invalid category ID")

	if n := count(t, s.db, &models.AuditLog{}, "action LIKE ?", "categories.%"); n != 2 {
		t.Fatalf("audit entries = %d, want 2", n)
	}
}

func TestDeleteCategoryCascades(t *testing.T) {
	s := newServer(t)
	cat := testutil.CreateCategory(t, s.db, "Phones", models.StatusApproved, "Battery")
	e := testutil.CreateEntity(t, s.db, cat.ID, "Phone X", models.StatusApproved)
	testutil.AddReview(t, s.db, e.ID, s.alice.ID, testTime, testutil.Rating{TraitID: cat.Traits[0].ID, Score: 2})

	w := s.as(s.admin, http.MethodDelete, "/admin/categories/"+strconv.FormatInt(cat.ID, 10), nil)
	testutil.AssertStatus(t, w, http.StatusOK)

	for name, model := range map[string]any{
		"categories": &models.Category{},
		"traits":     &models.Trait{},
		"entities":   &models.Entity{},
		"reviews":    &models.TraitReview{},
	} {
		if n := count(t, s.db, model, ""); n != 0 {
			t.Errorf("%s left = %d", name, n)
		}
	}
}

func TestTraits(t *testing.T) {
	s := newServer(t)
	testutil.CreateCategory(t, s.db, "Phones", models.StatusApproved, "Battery")

	w := s.as(s.alice, http.MethodPost, "/traits/Phones", map[string]string{"name": "Screen"})
	testutil.AssertStatus(t, w, http.StatusCreated)

	w = s.as(s.alice, http.MethodPost, "/traits/Phones", map[string]string{"name": "battery"})
	testutil.AssertStatus(t, w, http.StatusConflict)
	testutil.AssertMessage(t, w, "Trait already exists")

	w = s.as(s.alice, http.MethodPost, "/traits/Cars", map[string]string{"name": "Noise"})
	testutil.AssertStatus(t, w, http.StatusNotFound)
	testutil.AssertMessage(t, w, "Category not found")

	var traits []map[string]any
	w = s.as(s.alice, http.MethodGet, "/traits/Phones", nil)
	testutil.AssertStatus(t, w, http.StatusOK)
	testutil.DecodeJSON(t, w, &traits)
	if len(traits) != 2 {
		t.Fatalf("traits = %v", traits)
	}

	w = s.as(s.admin, http.MethodGet, "/admin/traits", nil)
	testutil.DecodeJSON(t, w, &traits)
	if len(traits) != 2 || traits[0]["category_name"] != "Phones" {
		t.Fatalf("admin traits = %v", traits)
	}
}

func TestEntities(t *testing.T) {
	s := newServer(t)
	cat := testutil.CreateCategory(t, s.db, "Phones", models.StatusApproved, "Battery")
	testutil.CreateEntity(t, s.db, cat.ID, "Phone X", models.StatusApproved)

	w := s.as(s.alice, http.MethodPost, "/entities/Phones", map[string]string{"name": "Phone Y"})
	testutil.AssertStatus(t, w, http.StatusBadRequest)
	testutil.AssertMessage(t, w, "Missing entity description")

	w = s.as(s.alice, http.MethodPost, "/entities/Phones", map[string]string{"name": "phone x", "description": "dup"})
	testutil.AssertStatus(t, w, http.StatusConflict)
	testutil.AssertMessage(t, w, "An entity with this name already exists")

	w = s.as(s.alice, http.MethodPost, "/entities/Cars", map[string]string{"name": "Car", "description": "d"})
	testutil.AssertStatus(t, w, http.StatusNotFound)
	testutil.AssertMessage(t, w, "Category not found")

	w = s.as(s.alice, http.MethodPost, "/entities/Phones", map[string]string{"name": "Phone Y", "description": "new"})
	testutil.AssertStatus(t, w, http.StatusOK)

	var all, approved []map[string]any
	testutil.DecodeJSON(t, s.as(s.alice, http.MethodGet, "/entities/Phones", nil), &all)
	testutil.DecodeJSON(t, s.as(s.alice, http.MethodGet, "/entities/Phones/approved", nil), &approved)
	if len(all) != 2 || len(approved) != 1 {
		t.Fatalf("all = %d approved = %d", len(all), len(approved))
	}

	var y models.Entity
	s.db.Where("name = ?", "Phone Y").First(&y)
	if y.Status != models.StatusPending {
		t.Fatalf("new entity status = %s", y.Status)
	}

	w = s.as(s.admin, http.MethodPatch, "/admin/entities/"+strconv.FormatInt(y.ID, 10)+"/approve", nil)
	testutil.AssertStatus(t, w, http.StatusOK)
	testutil.AssertMessage(t, w, "Entity approved successfully")

	w = s.as(s.admin, http.MethodPatch, "/admin/entities/999/reject", nil)
	testutil.AssertStatus(t, w, http.StatusNotFound)
	testutil.AssertMessage(t, w, "Entity not found")

	w = s.as(s.admin, http.MethodDelete, "/admin/entities/"+strconv.FormatInt(y.ID, 10), nil)
	testutil.AssertStatus(t, w, http.StatusOK)
	if n := count(t, s.db, &models.Entity{}, ""); n != 1 {
		t.Fatalf("entities left = %d", n)
	}
}

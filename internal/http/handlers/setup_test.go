package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"gorm.io/gorm"

	"review_app/internal/config"
	httpserver "review_app/internal/http"
	"review_app/internal/models"
	"review_app/internal/testutil"
)

type server struct {
	t     *testing.T
	db    *gorm.DB
	h     http.Handler
	alice models.User
	admin models.User
}

func newServer(t *testing.T) *server {
	t.Helper()
	gdb := testutil.DB(t)
	h := httpserver.NewRouter(httpserver.Deps{
		DB:       gdb,
		Sessions: testutil.Sessions(),
		Config: config.Config{
			BasePath:         "/api",
			BaseURL:          "http://localhost:3000",
			RatingThreshold:  2.5,
			CentralThreshold: 50,
		},
		Log: testutil.Logger(t),
	})
	return &server{
		t:     t,
		db:    gdb,
		h:     h,
		alice: testutil.CreateUser(t, gdb, "alice", models.RoleUser),
		admin: testutil.CreateUser(t, gdb, "root", models.RoleAdmin),
	}
}

// as sends an AJAX request authenticated as u; a zero user is anonymous.
func (s *server) as(u models.User, method, path string, body any) *httptest.ResponseRecorder {
	s.t.Helper()
	opts := []testutil.RequestOption{testutil.AJAX()}
	if u.ID != 0 {
		opts = append(opts, testutil.WithToken(testutil.Token(s.t, u)))
	}
	return testutil.MakeRequest(s.t, s.h, method, "/api"+path, body, opts...)
}

func count(t *testing.T, gdb *gorm.DB, model any, where string, args ...any) int64 {
	t.Helper()
	var n int64
	q := gdb.Model(model)
	if where != "" {
		q = q.Where(where, args...)
	}
	if err := q.Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}

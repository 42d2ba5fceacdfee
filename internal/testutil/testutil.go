package testutil

import (
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"review_app/internal/auth"
	"review_app/internal/db"
	"review_app/internal/logger"
	"review_app/internal/models"
)

const (
	JWTSecret = "test-secret"
	Password  = "password123"
)

var (
	logOnce sync.Once
	logg    *logger.Logger

	hashOnce sync.Once
	hash     string
)

func init() {
	gin.SetMode(gin.TestMode)
}

func Logger(tb testing.TB) *logger.Logger {
	tb.Helper()
	logOnce.Do(func() {
		logg = logger.Nop()
	})
	return logg
}

// DB returns a private, migrated in-memory SQLite database.
func DB(tb testing.TB) *gorm.DB {
	tb.Helper()
	gdb, err := db.Open("sqlite", "file::memory:")
	if err != nil {
		tb.Fatalf("failed to open test db: %v", err)
	}
	gdb.Logger = gormLogger.Default.LogMode(gormLogger.Silent)
	if err := db.AutoMigrate(gdb); err != nil {
		tb.Fatalf("failed to migrate test db: %v", err)
	}
	tb.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return gdb
}

func Sessions() *auth.Sessions {
	return auth.NewSessions(JWTSecret, 7*24*time.Hour, false)
}

func Token(tb testing.TB, u models.User) string {
	tb.Helper()
	tok, err := Sessions().Issue(u)
	if err != nil {
		tb.Fatalf("failed to issue token: %v", err)
	}
	return tok
}

// PasswordHash is a cached bcrypt hash of Password.
func PasswordHash(tb testing.TB) string {
	tb.Helper()
	hashOnce.Do(func() {
		b, err := bcrypt.GenerateFromPassword([]byte(Password), bcrypt.MinCost)
		if err != nil {
			panic(err)
		}
		hash = string(b)
	})
	return hash
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"review_app/internal/apierr"
)

func Health(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			apierr.Abort(c, apierr.New(http.StatusServiceUnavailable, "Database unavailable", err))
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

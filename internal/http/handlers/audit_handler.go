package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"review_app/internal/apierr"
	"review_app/internal/auth"
	"review_app/internal/models"
)

// recordAudit appends a moderation entry for the current principal. Failures
// are attached to the request for logging and never fail the action itself.
func recordAudit(db *gorm.DB, c *gin.Context, action, resourceType string, resourceID int64, meta map[string]interface{}) {
	entry := models.AuditLog{
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		IP:           c.ClientIP(),
		UserAgent:    c.GetHeader("User-Agent"),
		CreatedAt:    time.Now(),
	}
	if p := auth.FromContext(c); p != nil {
		entry.UserID = p.ID
		entry.InitiatorName = p.Username
	}
	if meta != nil {
		raw, _ := json.Marshal(meta)
		entry.Metadata = datatypes.JSON(raw)
	}
	if err := db.WithContext(c.Request.Context()).Create(&entry).Error; err != nil {
		_ = c.Error(err)
	}
}

// ListAudit pages through the audit trail newest first using an after_id cursor.
func ListAudit(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := queryInt(c, "limit", 20, 100)

		var afterID int64
		if cursorStr := c.Query("after_id"); cursorStr != "" {
			if parsed, err := strconv.ParseInt(cursorStr, 10, 64); err == nil && parsed > 0 {
				afterID = parsed
			}
		}

		search := strings.TrimSpace(c.Query("q"))

		query := db.WithContext(c.Request.Context()).Model(&models.AuditLog{}).Order("id DESC")
		if afterID > 0 {
			query = query.Where("id < ?", afterID)
		}
		if search != "" {
			like := likePattern(search)
			query = query.Where("(initiator_name LIKE ? OR action LIKE ? OR resource_type LIKE ? OR ip LIKE ?)",
				like, like, like, like)
		}

		logs := []models.AuditLog{}
		if err := query.Limit(limit + 1).Find(&logs).Error; err != nil {
			apierr.Abort(c, err)
			return
		}

		var nextCursor *int64
		if len(logs) > limit {
			next := logs[limit-1].ID
			logs = logs[:limit]
			nextCursor = &next
		}

		c.JSON(http.StatusOK, gin.H{
			"logs":        logs,
			"next_cursor": nextCursor,
		})
	}
}

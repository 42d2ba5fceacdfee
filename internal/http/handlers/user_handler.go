package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"review_app/internal/apierr"
	"review_app/internal/models"
)

// ListUsers returns all users from DB
func ListUsers(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		type userRow struct {
			ID          int64       `json:"id"`
			Username    string      `json:"username"`
			Email       string      `json:"email"`
			Role        models.Role `json:"role"`
			ReviewCount int64       `json:"review_count"`
			CreatedAt   time.Time   `json:"created_at"`
		}
		users := []userRow{}
		err := db.WithContext(c.Request.Context()).
			Table("users AS u").
			Select("u.id, u.username, u.email, u.role, COUNT(DISTINCT r.batch_id) AS review_count, u.created_at").
			Joins("LEFT JOIN trait_reviews r ON r.user_id = u.id").
			Group("u.id, u.username, u.email, u.role, u.created_at").
			Order("u.id ASC").
			Scan(&users).Error
		if err != nil {
			apierr.Abort(c, err)
			return
		}
		c.JSON(http.StatusOK, users)
	}
}

// DeleteUser removes user :id together with their reviews, questions, answers and votes.
func DeleteUser(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := pathID(c, "id", "user")
		if err != nil {
			apierr.Abort(c, err)
			return
		}
		if p, _ := mustPrincipal(c); p != nil && p.ID == id {
			apierr.Abort(c, apierr.BadRequest("You cannot delete your own account"))
			return
		}

		var user models.User
		err = db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
			if err := tx.First(&user, id).Error; err != nil {
				return notFoundOr(err, "User not found")
			}
			questions := tx.Model(&models.Question{}).Select("id").Where("user_id = ?", id)
			answers := tx.Model(&models.Answer{}).Select("id").Where("user_id = ? OR question_id IN (?)", id, questions)
			if err := tx.Where("user_id = ? OR answer_id IN (?)", id, answers).Delete(&models.AnswerVote{}).Error; err != nil {
				return err
			}
			if err := tx.Where("user_id = ? OR question_id IN (?)", id, questions).Delete(&models.Answer{}).Error; err != nil {
				return err
			}
			for _, m := range []interface{}{&models.Question{}, &models.TraitReview{}} {
				if err := tx.Where("user_id = ?", id).Delete(m).Error; err != nil {
					return err
				}
			}
			return tx.Delete(&user).Error
		})
		if err != nil {
			apierr.Abort(c, err)
			return
		}

		recordAudit(db, c, "users.delete", "user", id, map[string]interface{}{"username": user.Username})
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "User deleted successfully"})
	}
}

package handlers

import (
	"errors"
	"net/http"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"review_app/internal/apierr"
	"review_app/internal/auth"
	"review_app/internal/models"
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_\-.]+$`)

func validateUsername(username string) error {
	if n := utf8.RuneCountInString(username); n < 3 || n > 50 {
		return apierr.BadRequest("Username must be between 3 and 50 characters")
	}
	if !usernamePattern.MatchString(username) {
		return apierr.BadRequest("Username contains invalid characters")
	}
	return nil
}

// GetAccount returns the caller's profile with their reviews.
func GetAccount(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := mustPrincipal(c)
		if err != nil {
			apierr.Abort(c, err)
			return
		}

		ctxDB := db.WithContext(c.Request.Context())
		var user models.User
		if err := ctxDB.First(&user, p.ID).Error; err != nil {
			apierr.Abort(c, notFoundOr(err, "User not found"))
			return
		}

		reviews := []reviewView{}
		if err := reviewQuery(ctxDB).Where("r.user_id = ?", user.ID).Scan(&reviews).Error; err != nil {
			apierr.Abort(c, err)
			return
		}

		view := userView(user)
		view["created_at"] = user.CreatedAt
		c.JSON(http.StatusOK, gin.H{"user": view, "reviews": reviews})
	}
}

// UpdateAccount changes the caller's username and email and reissues the
// session so the token claims match the stored profile.
func UpdateAccount(db *gorm.DB, sessions *auth.Sessions) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := mustPrincipal(c)
		if err != nil {
			apierr.Abort(c, err)
			return
		}

		var input struct {
			Username *string `json:"username" form:"username"`
			Email    *string `json:"email" form:"email"`
		}
		if err := c.ShouldBind(&input); err != nil || input.Username == nil || input.Email == nil {
			apierr.Abort(c, apierr.BadRequest("Missing username or email"))
			return
		}
		username := strings.TrimSpace(*input.Username)
		email := strings.ToLower(strings.TrimSpace(*input.Email))
		if username == "" || email == "" {
			apierr.Abort(c, apierr.BadRequest("Username and email cannot be empty"))
			return
		}
		if err := validateUsername(username); err != nil {
			apierr.Abort(c, err)
			return
		}
		if !validEmail(email) {
			apierr.Abort(c, apierr.BadRequest("Invalid email format"))
			return
		}

		ctxDB := db.WithContext(c.Request.Context())
		var user models.User
		err = ctxDB.Transaction(func(tx *gorm.DB) error {
			if err := tx.First(&user, p.ID).Error; err != nil {
				return notFoundOr(err, "User not found")
			}
			var taken int64
			if err := tx.Model(&models.User{}).Where("username = ? AND id <> ?", username, user.ID).Count(&taken).Error; err != nil {
				return err
			}
			if taken > 0 {
				return apierr.Conflict("Username already exists")
			}
			if err := tx.Model(&models.User{}).Where("email = ? AND id <> ?", email, user.ID).Count(&taken).Error; err != nil {
				return err
			}
			if taken > 0 {
				return apierr.Conflict("Email already exists")
			}
			user.Username = username
			user.Email = email
			return tx.Model(&user).Updates(map[string]interface{}{"username": username, "email": email}).Error
		})
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			err = apierr.Conflict("Username already exists")
		}
		if err != nil {
			apierr.Abort(c, err)
			return
		}

		token, err := sessions.Issue(user)
		if err != nil {
			apierr.Abort(c, err)
			return
		}
		sessions.SetCookie(c, token)

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "User updated successfully",
			"user":    userView(user),
		})
	}
}

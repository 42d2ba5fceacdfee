package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"review_app/internal/apierr"
	"review_app/internal/auth"
	"review_app/internal/models"
)

var validate = validator.New()

func validEmail(email string) bool {
	return validate.Var(email, "required,email") == nil
}

func userView(u models.User) gin.H {
	return gin.H{"id": u.ID, "username": u.Username, "email": u.Email, "role": u.Role}
}

func principalView(p *auth.Principal) gin.H {
	return gin.H{"id": p.ID, "username": p.Username, "role": p.Role}
}

// LoginHandler authenticates the user and sets the session cookie.
func LoginHandler(db *gorm.DB, sessions *auth.Sessions) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			Email    string `json:"email" form:"email"`
			Password string `json:"password" form:"password"`
		}
		if err := c.ShouldBind(&input); err != nil || strings.TrimSpace(input.Email) == "" || input.Password == "" {
			apierr.Abort(c, apierr.BadRequest("Missing credentials"))
			return
		}

		var user models.User
		err := db.WithContext(c.Request.Context()).
			Where("email = ?", strings.ToLower(strings.TrimSpace(input.Email))).
			First(&user).Error
		if err != nil {
			apierr.Abort(c, notFoundOr(err, "Utilizatorul nu există!"))
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
			apierr.Abort(c, apierr.Unauthorized("Parola incorectă!"))
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
			"message": "Login successful",
			"token":   token,
			"user":    userView(user),
		})
	}
}

// RegisterHandler creates a regular user account.
func RegisterHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			Username string `json:"username" form:"username"`
			Email    string `json:"email" form:"email"`
			Password string `json:"password" form:"password"`
		}
		if err := c.ShouldBind(&input); err != nil {
			apierr.Abort(c, apierr.BadRequest("Toate câmpurile sunt necesare!"))
			return
		}

		input.Username = strings.TrimSpace(input.Username)
		input.Email = strings.ToLower(strings.TrimSpace(input.Email))
		if input.Username == "" || input.Email == "" || input.Password == "" {
			apierr.Abort(c, apierr.BadRequest("Toate câmpurile sunt necesare!"))
			return
		}
		if err := validateUsername(input.Username); err != nil {
			apierr.Abort(c, err)
			return
		}
		if !validEmail(input.Email) {
			apierr.Abort(c, apierr.BadRequest("Email invalid!"))
			return
		}
		if len(input.Password) < 8 {
			apierr.Abort(c, apierr.BadRequest("Parola trebuie să aibă cel puțin 8 caractere!"))
			return
		}

		ctxDB := db.WithContext(c.Request.Context())
		var existing int64
		if err := ctxDB.Model(&models.User{}).Where("username = ?", input.Username).Count(&existing).Error; err != nil {
			apierr.Abort(c, err)
			return
		}
		if existing > 0 {
			apierr.Abort(c, apierr.Conflict("User deja folosit!"))
			return
		}
		if err := ctxDB.Model(&models.User{}).Where("email = ?", input.Email).Count(&existing).Error; err != nil {
			apierr.Abort(c, err)
			return
		}
		if existing > 0 {
			apierr.Abort(c, apierr.Conflict("Email deja folosit!"))
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if err != nil {
			apierr.Abort(c, err)
			return
		}

		user := models.User{
			Username:     input.Username,
			Email:        input.Email,
			PasswordHash: string(hash),
			Role:         models.RoleUser,
		}
		if err := ctxDB.Create(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				apierr.Abort(c, apierr.Conflict("User deja folosit!"))
				return
			}
			apierr.Abort(c, err)
			return
		}

		c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Cont creat cu succes!"})
	}
}

// LogoutHandler clears the session cookie. It succeeds with or without a session.
func LogoutHandler(sessions *auth.Sessions) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessions.ClearCookie(c)
		c.Header("Cache-Control", "no-cache, no-store, must-revalidate")
		c.Header("Pragma", "no-cache")
		c.Header("Expires", "0")
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Logout successful"})
	}
}

func AuthStatusHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		p := auth.FromContext(c)
		if p == nil {
			c.JSON(http.StatusOK, gin.H{"authenticated": false})
			return
		}
		c.JSON(http.StatusOK, gin.H{"authenticated": true, "user": principalView(p)})
	}
}

func CheckHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := mustPrincipal(c)
		if err != nil {
			apierr.Abort(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"authenticated": true, "user": principalView(p)})
	}
}

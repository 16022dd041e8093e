package middleware

import (
	"net/http"
	"strings"

	"github.com/YenChengLai/constellation-backend/internal/models"
	"github.com/YenChengLai/constellation-backend/internal/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ContextUserKey is where the authenticated principal lives in the gin context.
const ContextUserKey = "currentUser"

func abortUnauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Could not validate credentials"})
}

// AuthMiddleware validates the bearer access token and puts the current user
// into the context. Every failure collapses to the same generic 401.
func AuthMiddleware(auth *service.AuthService, db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var tokenStr string

		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
				tokenStr = parts[1]
			}
		}

		// query fallback for downloads where headers cannot be set
		if tokenStr == "" {
			tokenStr = c.Query("token")
		}

		if tokenStr == "" {
			abortUnauthorized(c)
			return
		}

		userID, err := auth.VerifyAccess(tokenStr)
		if err != nil {
			abortUnauthorized(c)
			return
		}

		var user models.User
		if err := db.First(&user, "id = ?", userID).Error; err != nil {
			abortUnauthorized(c)
			return
		}

		c.Set(ContextUserKey, &user)
		c.Next()
	}
}

// AdminRequired allows only the configured administrator through. Must run
// after AuthMiddleware.
func AdminRequired(auth *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		v, ok := c.Get(ContextUserKey)
		user, _ := v.(*models.User)
		if !ok || user == nil || !auth.IsAdmin(user) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"detail": "Administrator privileges required."})
			return
		}
		c.Next()
	}
}

package handler

import (
	"net/http"

	"github.com/YenChengLai/constellation-backend/internal/middleware"
	"github.com/YenChengLai/constellation-backend/internal/models"
	"github.com/YenChengLai/constellation-backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// currentUser pulls the authenticated principal placed by the auth middleware.
func currentUser(c *gin.Context) (*models.User, bool) {
	v, ok := c.Get(middleware.ContextUserKey)
	if !ok {
		return nil, false
	}
	user, ok := v.(*models.User)
	return user, ok && user != nil
}

// mustUser aborts with 401 when no principal is present.
func mustUser(c *gin.Context) (*models.User, bool) {
	user, ok := currentUser(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Could not validate credentials"})
		return nil, false
	}
	return user, true
}

// writeError maps a service error to its HTTP status; anything else is a 500.
func writeError(c *gin.Context, err error) {
	if se, ok := service.AsError(err); ok {
		c.JSON(se.Status, gin.H{"detail": se.Message})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"detail": "Internal server error."})
}

// bindJSON binds the request body and rejects malformed input with a 422
// naming the first offending field.
func bindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		detail := "Invalid input details provided."
		if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
			detail = verrs[0].Field() + ": " + verrs[0].Tag() + " validation failed"
		}
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": detail})
		return false
	}
	return true
}

package handler

import (
	"net/http"

	"github.com/YenChengLai/constellation-backend/internal/models"
	"github.com/YenChengLai/constellation-backend/internal/service"

	"github.com/gin-gonic/gin"
)

// AdminHandler exposes user verification to the configured administrator.
type AdminHandler struct {
	Auth *service.AuthService
}

func NewAdminHandler(auth *service.AuthService) *AdminHandler {
	return &AdminHandler{Auth: auth}
}

func (h *AdminHandler) ListUnverified(c *gin.Context) {
	users, err := h.Auth.ListUnverified()
	if err != nil {
		writeError(c, err)
		return
	}

	out := make([]models.UserPublic, 0, len(users))
	for i := range users {
		out = append(out, users[i].Public())
	}
	c.JSON(http.StatusOK, out)
}

func (h *AdminHandler) VerifyUser(c *gin.Context) {
	user, err := h.Auth.VerifyUser(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, user.Public())
}

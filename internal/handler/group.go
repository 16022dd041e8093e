package handler

import (
	"net/http"

	"github.com/YenChengLai/constellation-backend/internal/models"
	"github.com/YenChengLai/constellation-backend/internal/service"

	"github.com/gin-gonic/gin"
)

type GroupHandler struct {
	Groups *service.GroupService
}

func NewGroupHandler(groups *service.GroupService) *GroupHandler {
	return &GroupHandler{Groups: groups}
}

type createGroupReq struct {
	Name string `json:"name" binding:"required,max=64"`
}

func (h *GroupHandler) Create(c *gin.Context) {
	user, ok := mustUser(c)
	if !ok {
		return
	}
	var req createGroupReq
	if !bindJSON(c, &req) {
		return
	}

	group, err := h.Groups.Create(user, req.Name)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, group.Public())
}

func (h *GroupHandler) ListMine(c *gin.Context) {
	user, ok := mustUser(c)
	if !ok {
		return
	}

	groups, err := h.Groups.ListForUser(user)
	if err != nil {
		writeError(c, err)
		return
	}

	out := make([]models.GroupPublic, 0, len(groups))
	for i := range groups {
		out = append(out, groups[i].Public())
	}
	c.JSON(http.StatusOK, out)
}

func (h *GroupHandler) Get(c *gin.Context) {
	user, ok := mustUser(c)
	if !ok {
		return
	}

	group, err := h.Groups.Get(user, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, group.Public())
}

type addMemberReq struct {
	Email string `json:"email" binding:"required,email"`
}

func (h *GroupHandler) AddMember(c *gin.Context) {
	user, ok := mustUser(c)
	if !ok {
		return
	}
	var req addMemberReq
	if !bindJSON(c, &req) {
		return
	}

	group, err := h.Groups.AddMember(user, c.Param("id"), req.Email)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, group.Public())
}

func (h *GroupHandler) RemoveMember(c *gin.Context) {
	user, ok := mustUser(c)
	if !ok {
		return
	}

	group, err := h.Groups.RemoveMember(user, c.Param("id"), c.Param("memberId"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, group.Public())
}

package handler

import (
	"net/http"

	"github.com/YenChengLai/constellation-backend/internal/models"
	"github.com/YenChengLai/constellation-backend/internal/service"

	"github.com/gin-gonic/gin"
)

type CategoryHandler struct {
	Categories *service.CategoryService
}

func NewCategoryHandler(categories *service.CategoryService) *CategoryHandler {
	return &CategoryHandler{Categories: categories}
}

type createCategoryReq struct {
	Name  string `json:"name" binding:"required,max=64"`
	Type  string `json:"type" binding:"required,oneof=income expense"`
	Icon  string `json:"icon" binding:"max=16"`
	Color string `json:"color" binding:"max=16"`
}

func (h *CategoryHandler) Create(c *gin.Context) {
	user, ok := mustUser(c)
	if !ok {
		return
	}
	var req createCategoryReq
	if !bindJSON(c, &req) {
		return
	}

	category, err := h.Categories.Create(user, service.CategoryInput{
		Name:  req.Name,
		Type:  req.Type,
		Icon:  req.Icon,
		Color: req.Color,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, category.Public())
}

func (h *CategoryHandler) List(c *gin.Context) {
	user, ok := mustUser(c)
	if !ok {
		return
	}

	typeFilter := c.Query("category_type")
	if typeFilter != "" && typeFilter != models.CategoryTypeExpense && typeFilter != models.CategoryTypeIncome {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": "category_type: must be 'expense' or 'income'"})
		return
	}

	categories, err := h.Categories.List(user, typeFilter)
	if err != nil {
		writeError(c, err)
		return
	}

	out := make([]models.CategoryPublic, 0, len(categories))
	for i := range categories {
		out = append(out, categories[i].Public())
	}
	c.JSON(http.StatusOK, out)
}

type updateCategoryReq struct {
	Name  *string `json:"name" binding:"omitempty,max=64"`
	Icon  *string `json:"icon" binding:"omitempty,max=16"`
	Color *string `json:"color" binding:"omitempty,max=16"`
}

func (h *CategoryHandler) Update(c *gin.Context) {
	user, ok := mustUser(c)
	if !ok {
		return
	}
	var req updateCategoryReq
	if !bindJSON(c, &req) {
		return
	}

	category, err := h.Categories.Update(user, c.Param("id"), service.CategoryPatch{
		Name:  req.Name,
		Icon:  req.Icon,
		Color: req.Color,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, category.Public())
}

func (h *CategoryHandler) Delete(c *gin.Context) {
	user, ok := mustUser(c)
	if !ok {
		return
	}

	if err := h.Categories.Delete(user, c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

package handler

import (
	"net/http"

	"github.com/YenChengLai/constellation-backend/internal/models"
	"github.com/YenChengLai/constellation-backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type AccountHandler struct {
	Accounts *service.AccountService
}

func NewAccountHandler(accounts *service.AccountService) *AccountHandler {
	return &AccountHandler{Accounts: accounts}
}

type createAccountReq struct {
	Name           string          `json:"name" binding:"required,max=64"`
	Type           string          `json:"type" binding:"required"`
	InitialBalance decimal.Decimal `json:"initial_balance"`
	GroupID        *string         `json:"group_id"`
}

func (h *AccountHandler) Create(c *gin.Context) {
	user, ok := mustUser(c)
	if !ok {
		return
	}
	var req createAccountReq
	if !bindJSON(c, &req) {
		return
	}

	account, err := h.Accounts.Create(user, service.AccountInput{
		Name:           req.Name,
		Type:           req.Type,
		InitialBalance: req.InitialBalance,
		GroupID:        req.GroupID,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, account.Public())
}

func (h *AccountHandler) List(c *gin.Context) {
	user, ok := mustUser(c)
	if !ok {
		return
	}

	accounts, err := h.Accounts.List(user)
	if err != nil {
		writeError(c, err)
		return
	}

	out := make([]models.AccountPublic, 0, len(accounts))
	for i := range accounts {
		out = append(out, accounts[i].Public())
	}
	c.JSON(http.StatusOK, out)
}

type updateAccountReq struct {
	Name       *string `json:"name" binding:"omitempty,max=64"`
	IsArchived *bool   `json:"is_archived"`
}

func (h *AccountHandler) Update(c *gin.Context) {
	user, ok := mustUser(c)
	if !ok {
		return
	}
	var req updateAccountReq
	if !bindJSON(c, &req) {
		return
	}

	account, err := h.Accounts.Update(user, c.Param("id"), service.AccountPatch{
		Name:       req.Name,
		IsArchived: req.IsArchived,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, account.Public())
}

// Archive handles DELETE /accounts/:id. Accounts are archived, never
// destroyed, and only at a zero balance.
func (h *AccountHandler) Archive(c *gin.Context) {
	user, ok := mustUser(c)
	if !ok {
		return
	}

	if err := h.Accounts.Archive(user, c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

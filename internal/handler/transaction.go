package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/YenChengLai/constellation-backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type TransactionHandler struct {
	Ledger *service.LedgerService
}

func NewTransactionHandler(ledger *service.LedgerService) *TransactionHandler {
	return &TransactionHandler{Ledger: ledger}
}

type createTransactionReq struct {
	Type            string          `json:"type" binding:"required,oneof=income expense"`
	Amount          decimal.Decimal `json:"amount" binding:"required"`
	Currency        string          `json:"currency" binding:"max=8"`
	TransactionDate time.Time       `json:"transaction_date"`
	Description     string          `json:"description" binding:"max=255"`
	CategoryID      string          `json:"category_id" binding:"required"`
	AccountID       string          `json:"account_id" binding:"required"`
	GroupID         *string         `json:"group_id"`
	PayerID         string          `json:"payer_id"`
}

func (h *TransactionHandler) Create(c *gin.Context) {
	user, ok := mustUser(c)
	if !ok {
		return
	}
	var req createTransactionReq
	if !bindJSON(c, &req) {
		return
	}

	transaction, err := h.Ledger.Create(user, service.TransactionInput{
		Type:            req.Type,
		Amount:          req.Amount,
		Currency:        req.Currency,
		TransactionDate: req.TransactionDate,
		Description:     req.Description,
		CategoryID:      req.CategoryID,
		AccountID:       req.AccountID,
		GroupID:         req.GroupID,
		PayerID:         req.PayerID,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, transaction.Public(""))
}

func (h *TransactionHandler) List(c *gin.Context) {
	user, ok := mustUser(c)
	if !ok {
		return
	}
	year, month, groupID, ok := monthQuery(c)
	if !ok {
		return
	}

	transactions, err := h.Ledger.List(user, year, month, groupID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, transactions)
}

type updateTransactionReq struct {
	Type            *string          `json:"type" binding:"omitempty,oneof=income expense"`
	Amount          *decimal.Decimal `json:"amount"`
	Currency        *string          `json:"currency" binding:"omitempty,max=8"`
	TransactionDate *time.Time       `json:"transaction_date"`
	Description     *string          `json:"description" binding:"omitempty,max=255"`
	CategoryID      *string          `json:"category_id"`
	AccountID       *string          `json:"account_id"`
}

func (h *TransactionHandler) Update(c *gin.Context) {
	user, ok := mustUser(c)
	if !ok {
		return
	}
	var req updateTransactionReq
	if !bindJSON(c, &req) {
		return
	}

	transaction, err := h.Ledger.Update(user, c.Param("id"), service.TransactionPatch{
		Type:            req.Type,
		Amount:          req.Amount,
		Currency:        req.Currency,
		TransactionDate: req.TransactionDate,
		Description:     req.Description,
		CategoryID:      req.CategoryID,
		AccountID:       req.AccountID,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, transaction.Public(""))
}

func (h *TransactionHandler) Delete(c *gin.Context) {
	user, ok := mustUser(c)
	if !ok {
		return
	}

	if err := h.Ledger.Delete(user, c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *TransactionHandler) Summary(c *gin.Context) {
	user, ok := mustUser(c)
	if !ok {
		return
	}
	year, month, groupID, ok := monthQuery(c)
	if !ok {
		return
	}

	current, previous, err := h.Ledger.Summary(user, year, month, groupID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"currentMonth":  current,
		"previousMonth": previous,
	})
}

// monthQuery parses the shared year/month/group_id query parameters,
// defaulting to the current UTC month.
func monthQuery(c *gin.Context) (year, month int, groupID *string, ok bool) {
	now := time.Now().UTC()
	year, month = now.Year(), int(now.Month())

	if v := c.Query("year"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": "year: must be an integer"})
			return 0, 0, nil, false
		}
		year = parsed
	}
	if v := c.Query("month"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": "month: must be an integer"})
			return 0, 0, nil, false
		}
		month = parsed
	}
	if v := c.Query("group_id"); v != "" {
		groupID = &v
	}
	return year, month, groupID, true
}

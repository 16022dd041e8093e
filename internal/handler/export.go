package handler

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"time"

	"github.com/YenChengLai/constellation-backend/internal/models"
	"github.com/YenChengLai/constellation-backend/internal/service"
	"github.com/YenChengLai/constellation-backend/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

// ExportHandler streams the acting user's personal transactions as CSV or XLSX.
type ExportHandler struct {
	Ledger *service.LedgerService
}

func NewExportHandler(ledger *service.LedgerService) *ExportHandler {
	return &ExportHandler{Ledger: ledger}
}

var exportHeader = []string{"Type", "Category", "Amount", "Currency", "Description", "Date"}

func exportRow(t *models.Transaction) []string {
	return []string{
		t.Type,
		t.Category.Name,
		util.CentToAmount(t.AmountCent),
		t.Currency,
		t.Description,
		t.TransactionDate.Format("2006-01-02"),
	}
}

// ExportCSV writes all personal transactions as a CSV attachment.
func (h *ExportHandler) ExportCSV(c *gin.Context) {
	user, ok := mustUser(c)
	if !ok {
		return
	}

	transactions, err := h.Ledger.ListPersonal(user)
	if err != nil {
		writeError(c, err)
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"transactions_%s.csv\"",
		time.Now().Format("20060102")))

	// UTF-8 BOM so spreadsheet tools detect the encoding
	_, _ = c.Writer.Write([]byte{0xEF, 0xBB, 0xBF})

	writer := csv.NewWriter(c.Writer)
	defer writer.Flush()

	_ = writer.Write(exportHeader)
	for i := range transactions {
		_ = writer.Write(exportRow(&transactions[i]))
	}
}

// ExportXLSX writes all personal transactions as an XLSX attachment.
func (h *ExportHandler) ExportXLSX(c *gin.Context) {
	user, ok := mustUser(c)
	if !ok {
		return
	}

	transactions, err := h.Ledger.ListPersonal(user)
	if err != nil {
		writeError(c, err)
		return
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	const sheet = "Transactions"
	f.SetSheetName(f.GetSheetName(0), sheet)

	for col, title := range exportHeader {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		_ = f.SetCellValue(sheet, cell, title)
	}
	for row := range transactions {
		for col, value := range exportRow(&transactions[row]) {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			_ = f.SetCellValue(sheet, cell, value)
		}
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"transactions_%s.xlsx\"",
		time.Now().Format("20060102")))

	if err := f.Write(c.Writer); err != nil {
		c.Status(http.StatusInternalServerError)
	}
}

package api

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"
	"time"

	"cartera/database"
	"cartera/middleware"
	"cartera/models"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

// ExportHandler streams the caller's movements over a date window as CSV or
// XLSX files.
type ExportHandler struct{}

// NewExportHandler creates an export handler.
func NewExportHandler() *ExportHandler {
	return &ExportHandler{}
}

// exportWindow parses the mandatory init_date/end_date query parameters and
// loads the movements. The end bound is inclusive through end of day.
func (h *ExportHandler) exportWindow(c *gin.Context) (string, string, []models.Movement, bool) {
	userID := middleware.GetCurrentUserID(c)

	initStr := c.Query("init_date")
	endStr := c.Query("end_date")
	if initStr == "" || endStr == "" {
		BadRequest(c, "init_date and end_date are required")
		return "", "", nil, false
	}

	initDate, err := time.ParseInLocation("2006-01-02", initStr, time.Local)
	if err != nil {
		BadRequest(c, "init_date must be a date like 2026-08-01")
		return "", "", nil, false
	}
	endDate, err := time.ParseInLocation("2006-01-02", endStr, time.Local)
	if err != nil {
		BadRequest(c, "end_date must be a date like 2026-08-31")
		return "", "", nil, false
	}
	endDate = endDate.Add(24*time.Hour - time.Second)

	var movements []models.Movement
	if err := database.DB.
		Preload("Account").Preload("Account.Currency").Preload("Category").Preload("Event").
		Where("user_id = ? AND date_purchase >= ? AND date_purchase <= ?", userID, initDate, endDate).
		Order("date_purchase DESC").
		Find(&movements).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "movements could not be retrieved"))
		return "", "", nil, false
	}

	return initStr, endStr, movements, true
}

func movementExportRow(m *models.Movement) []string {
	account, currency, category, event := "", "", "", ""
	if m.Account != nil {
		account = m.Account.Name
		if m.Account.Currency != nil {
			currency = m.Account.Currency.Code
		}
	}
	if m.Category != nil {
		category = m.Category.Name
	}
	if m.Event != nil {
		event = m.Event.Name
	}
	kind := "movement"
	if m.TransferID != nil {
		kind = "transfer-in"
	}
	return []string{
		fmt.Sprintf("%d", m.ID),
		account,
		currency,
		category,
		event,
		m.Description,
		m.Amount.StringFixed(2),
		m.Trm.String(),
		kind,
		m.DatePurchase.Format("2006-01-02 15:04:05"),
	}
}

var movementExportHeaders = []string{
	"ID", "Account", "Currency", "Category", "Event", "Description",
	"Amount", "Rate", "Kind", "Date",
}

// CSV exports the window's movements as a CSV file.
// @Summary Export movements as CSV
// @Tags export
// @Produce text/csv
// @Security BearerAuth
// @Param init_date query string true "window start (2026-08-01)"
// @Param end_date query string true "window end (2026-08-31)"
// @Success 200 {file} file "CSV file"
// @Failure 400 {object} Response "invalid request"
// @Router /api/v1/export/csv [get]
func (h *ExportHandler) CSV(c *gin.Context) {
	initStr, endStr, movements, ok := h.exportWindow(c)
	if !ok {
		return
	}

	buf := new(bytes.Buffer)
	// BOM so Excel detects UTF-8.
	buf.WriteString("\xEF\xBB\xBF")

	writer := csv.NewWriter(buf)
	if err := writer.Write(movementExportHeaders); err != nil {
		InternalError(c, "CSV could not be generated")
		return
	}
	for i := range movements {
		if err := writer.Write(movementExportRow(&movements[i])); err != nil {
			InternalError(c, "CSV could not be generated")
			return
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		InternalError(c, "CSV could not be generated")
		return
	}

	filename := fmt.Sprintf("movements_%s_%s.csv", initStr, endStr)
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Header("Content-Length", fmt.Sprintf("%d", buf.Len()))

	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// XLSX exports the window's movements as a styled Excel workbook with a
// summary row.
// @Summary Export movements as XLSX
// @Tags export
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Param init_date query string true "window start (2026-08-01)"
// @Param end_date query string true "window end (2026-08-31)"
// @Success 200 {file} file "XLSX file"
// @Failure 400 {object} Response "invalid request"
// @Router /api/v1/export/xlsx [get]
func (h *ExportHandler) XLSX(c *gin.Context) {
	initStr, endStr, movements, ok := h.exportWindow(c)
	if !ok {
		return
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Movements"
	f.SetSheetName("Sheet1", sheetName)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 12, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4F81BD"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
	})
	dataStyle, _ := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
	})

	f.SetColWidth(sheetName, "A", "A", 8)
	f.SetColWidth(sheetName, "B", "C", 15)
	f.SetColWidth(sheetName, "D", "E", 18)
	f.SetColWidth(sheetName, "F", "F", 30)
	f.SetColWidth(sheetName, "G", "H", 14)
	f.SetColWidth(sheetName, "I", "J", 20)

	for i, header := range movementExportHeaders {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, header)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	lastCol := 'A' + rune(len(movementExportHeaders)-1)
	for i := range movements {
		row := i + 2
		for col, value := range movementExportRow(&movements[i]) {
			f.SetCellValue(sheetName, fmt.Sprintf("%c%d", 'A'+col, row), value)
		}
		f.SetCellStyle(sheetName,
			fmt.Sprintf("A%d", row), fmt.Sprintf("%c%d", lastCol, row), dataStyle)
	}

	summaryRow := len(movements) + 2
	summaryStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"FFC000"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
	})
	f.SetCellValue(sheetName, fmt.Sprintf("A%d", summaryRow), "Total")
	f.MergeCell(sheetName, fmt.Sprintf("A%d", summaryRow), fmt.Sprintf("F%d", summaryRow))
	f.SetCellValue(sheetName, fmt.Sprintf("G%d", summaryRow), fmt.Sprintf("%d records", len(movements)))
	f.MergeCell(sheetName, fmt.Sprintf("G%d", summaryRow), fmt.Sprintf("%c%d", lastCol, summaryRow))
	f.SetCellStyle(sheetName,
		fmt.Sprintf("A%d", summaryRow), fmt.Sprintf("%c%d", lastCol, summaryRow), summaryStyle)

	filename := fmt.Sprintf("movements_%s_%s.xlsx", initStr, endStr)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename*=UTF-8''%s", filename))

	if err := f.Write(c.Writer); err != nil {
		InternalError(c, "XLSX could not be generated")
		return
	}
}

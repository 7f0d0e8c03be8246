package controllers

import (
	"fmt"
	"time"

	"github.com/bookbite/bookbite/models"
	"github.com/bookbite/bookbite/utils"
	"github.com/gin-gonic/gin"
	"github.com/jung-kurt/gofpdf"
	"github.com/tealeg/xlsx"
)

const exportBatchSize = 1000

type payoutSummary struct {
	TotalRequests int
	TotalPending  int64
	TotalApproved int64
	TotalRejected int64
}

func summarizePayouts(items []payoutExportRow) payoutSummary {
	var summary payoutSummary
	for _, item := range items {
		summary.TotalRequests++
		switch item.Status {
		case models.TransactionStatusPending:
			summary.TotalPending += item.Amount
		case models.TransactionStatusSuccess:
			summary.TotalApproved += item.Amount
		case models.TransactionStatusFailed:
			summary.TotalRejected += item.Amount
		}
	}
	return summary
}

type payoutExportRow struct {
	TransactionID uint
	Amount        int64
	Status        string
	Description   string
	CreatedAt     time.Time
	ManagerName   string
	BusinessName  string
}

func loadPayoutExportRows() ([]payoutExportRow, error) {
	items, _, err := ledgerSvc.ListPayouts(exportBatchSize, 0)
	if err != nil {
		return nil, err
	}
	rows := make([]payoutExportRow, len(items))
	for i, item := range items {
		rows[i] = payoutExportRow{
			TransactionID: item.TransactionID,
			Amount:        item.Amount,
			Status:        item.Status,
			Description:   item.Description,
			CreatedAt:     item.CreatedAt,
			ManagerName:   item.ManagerName,
			BusinessName:  item.BusinessName,
		}
	}
	return rows, nil
}

// DownloadPayoutReportExcel exports the payout register as an Excel
// sheet for the admin dashboard.
func DownloadPayoutReportExcel(c *gin.Context) {
	utils.LogInfo("DownloadPayoutReportExcel called")

	rows, err := loadPayoutExportRows()
	if err != nil {
		utils.LogError("Failed to fetch payouts for Excel export: %v", err)
		utils.InternalServerError(c, "Failed to fetch payouts", err.Error())
		return
	}
	summary := summarizePayouts(rows)

	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Payout Report")
	if err != nil {
		utils.LogError("Failed to create Excel sheet: %v", err)
		utils.InternalServerError(c, "Failed to create Excel sheet", err.Error())
		return
	}

	titleRow := sheet.AddRow()
	titleRow.AddCell().SetString("BOOK BITE - Payout Report")
	titleRow = sheet.AddRow()
	titleRow.AddCell().SetString("Generated: " + time.Now().Format("2006-01-02 15:04"))
	sheet.AddRow()

	headers := []string{"Transaction ID", "Manager", "Business", "Amount", "Status", "Description", "Requested At"}
	headerRow := sheet.AddRow()
	for _, h := range headers {
		cell := headerRow.AddCell()
		cell.SetString(h)
		style := xlsx.NewStyle()
		font := xlsx.DefaultFont()
		font.Bold = true
		style.Font = *font
		cell.SetStyle(style)
	}

	for _, row := range rows {
		r := sheet.AddRow()
		r.AddCell().SetInt(int(row.TransactionID))
		r.AddCell().SetString(row.ManagerName)
		r.AddCell().SetString(row.BusinessName)
		r.AddCell().SetString(utils.FormatAmount(row.Amount))
		r.AddCell().SetString(row.Status)
		r.AddCell().SetString(row.Description)
		r.AddCell().SetString(row.CreatedAt.Format("2006-01-02 15:04"))
	}

	sheet.AddRow()
	summaryRow := sheet.AddRow()
	summaryRow.AddCell().SetString("Summary")
	style := xlsx.NewStyle()
	font := xlsx.DefaultFont()
	font.Bold = true
	style.Font = *font
	summaryRow.Cells[0].SetStyle(style)

	summaryData := [][]string{
		{"Total Requests", fmt.Sprintf("%d", summary.TotalRequests)},
		{"Pending Amount", utils.FormatAmount(summary.TotalPending)},
		{"Approved Amount", utils.FormatAmount(summary.TotalApproved)},
		{"Rejected Amount", utils.FormatAmount(summary.TotalRejected)},
	}
	for _, data := range summaryData {
		row := sheet.AddRow()
		row.AddCell().SetString(data[0])
		row.AddCell().SetString(data[1])
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename=payout_report.xlsx")
	if err := file.Write(c.Writer); err != nil {
		utils.LogError("Failed to write Excel file: %v", err)
		utils.InternalServerError(c, "Failed to write Excel file", err.Error())
		return
	}
	utils.LogInfo("Generated payout Excel report with %d rows", len(rows))
}

// DownloadPayoutReportPDF exports the payout register as a PDF.
func DownloadPayoutReportPDF(c *gin.Context) {
	utils.LogInfo("DownloadPayoutReportPDF called")

	rows, err := loadPayoutExportRows()
	if err != nil {
		utils.LogError("Failed to fetch payouts for PDF export: %v", err)
		utils.InternalServerError(c, "Failed to fetch payouts", err.Error())
		return
	}
	summary := summarizePayouts(rows)

	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 20)
	pdf.Cell(0, 12, "BOOK BITE - Payout Report")
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 12)
	pdf.Cell(0, 8, "Generated: "+time.Now().Format("2006-01-02 15:04"))
	pdf.Ln(10)

	headers := []string{"Txn ID", "Manager", "Business", "Amount", "Status", "Requested At"}
	colWidths := []float64{25, 55, 55, 35, 30, 40}
	pdf.SetFont("Arial", "B", 11)
	for i, h := range headers {
		pdf.SetFillColor(200, 200, 200)
		pdf.CellFormat(colWidths[i], 9, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 10)
	fill := false
	for _, row := range rows {
		pdf.SetFillColor(245, 245, 245)
		if fill {
			pdf.SetFillColor(230, 240, 255)
		}
		fill = !fill
		pdf.CellFormat(colWidths[0], 8, fmt.Sprintf("%d", row.TransactionID), "1", 0, "C", fill, 0, "")
		pdf.CellFormat(colWidths[1], 8, row.ManagerName, "1", 0, "L", fill, 0, "")
		pdf.CellFormat(colWidths[2], 8, row.BusinessName, "1", 0, "L", fill, 0, "")
		pdf.CellFormat(colWidths[3], 8, utils.FormatAmount(row.Amount), "1", 0, "R", fill, 0, "")
		pdf.CellFormat(colWidths[4], 8, row.Status, "1", 0, "C", fill, 0, "")
		pdf.CellFormat(colWidths[5], 8, row.CreatedAt.Format("2006-01-02 15:04"), "1", 0, "C", fill, 0, "")
		pdf.Ln(-1)
	}

	pdf.Ln(8)
	pdf.SetFont("Arial", "B", 13)
	pdf.SetFillColor(220, 230, 250)
	pdf.CellFormat(70, 10, "Summary", "1", 0, "C", true, 0, "")
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 11)
	pdf.SetFillColor(255, 255, 255)
	pdf.CellFormat(50, 8, "Total Requests", "1", 0, "L", false, 0, "")
	pdf.CellFormat(40, 8, fmt.Sprintf("%d", summary.TotalRequests), "1", 0, "R", false, 0, "")
	pdf.Ln(-1)
	pdf.CellFormat(50, 8, "Pending Amount", "1", 0, "L", false, 0, "")
	pdf.CellFormat(40, 8, utils.FormatAmount(summary.TotalPending), "1", 0, "R", false, 0, "")
	pdf.Ln(-1)
	pdf.CellFormat(50, 8, "Approved Amount", "1", 0, "L", false, 0, "")
	pdf.CellFormat(40, 8, utils.FormatAmount(summary.TotalApproved), "1", 0, "R", false, 0, "")
	pdf.Ln(-1)
	pdf.CellFormat(50, 8, "Rejected Amount", "1", 0, "L", false, 0, "")
	pdf.CellFormat(40, 8, utils.FormatAmount(summary.TotalRejected), "1", 0, "R", false, 0, "")

	c.Header("Content-Type", "application/pdf")
	c.Header("Content-Disposition", "attachment; filename=payout_report.pdf")
	if err := pdf.Output(c.Writer); err != nil {
		utils.LogError("Failed to write PDF file: %v", err)
		utils.InternalServerError(c, "Failed to write PDF file", err.Error())
		return
	}
	utils.LogInfo("Generated payout PDF report with %d rows", len(rows))
}

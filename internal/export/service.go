package export

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/hvtran/accounting-bot/internal/entity"
	"github.com/hvtran/accounting-bot/internal/repository"
)

// Service produces XLSX workbooks from stored invoices.
type Service struct {
	invoices *repository.InvoiceRepository
	logger   *slog.Logger
}

func NewService(invoices *repository.InvoiceRepository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{invoices: invoices, logger: logger}
}

// ExportInvoicesXLSX returns a workbook for the given date window.
// If only from is provided -> from..today (inclusive).
// If neither is provided   -> all invoices.
func (s *Service) ExportInvoicesXLSX(ctx context.Context, from, to *time.Time) ([]byte, error) {
	start := time.Now()

	var (
		invs []*entity.Invoice
		err  error
	)
	if from == nil && to == nil {
		invs, err = s.invoices.ListAll(ctx)
	} else {
		f, t := normalizeWindow(from, to)
		invs, err = s.invoices.ListByDateRange(ctx, f, t)
	}
	if err != nil {
		return nil, fmt.Errorf("query invoices: %w", err)
	}

	buf, err := buildWorkbook(invs)
	if err != nil {
		return nil, err
	}

	s.logger.Info("export.xlsx.ok",
		"rows", len(invs),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf, nil
}

func normalizeWindow(from, to *time.Time) (time.Time, time.Time) {
	var f, t time.Time
	if from != nil {
		f = time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	}
	if to != nil {
		t = time.Date(to.Year(), to.Month(), to.Day(), 23, 59, 59, 0, time.UTC)
	} else {
		now := time.Now().UTC()
		t = time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, 0, time.UTC)
	}
	return f, t
}

var headers = []string{
	"Số hóa đơn",
	"Ngày hóa đơn",
	"Nhà cung cấp",
	"Mã số thuế",
	"Tiền trước thuế",
	"Thuế suất (%)",
	"Tiền thuế",
	"Tổng tiền",
	"Diễn giải",
	"Tài khoản",
	"Danh mục",
	"Trạng thái",
	"Người tạo",
}

func buildWorkbook(invs []*entity.Invoice) ([]byte, error) {
	f := excelize.NewFile()
	const sheet = "Hóa đơn"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)
	// drop the default sheet so the workbook opens on ours
	if index, _ := f.GetSheetIndex("Sheet1"); index != -1 {
		_ = f.DeleteSheet("Sheet1")
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"DDEBF7"}},
	})
	if err != nil {
		return nil, err
	}

	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
		_ = f.SetCellStyle(sheet, cell, cell, headerStyle)
	}

	row := 2
	var grandTotal float64
	for _, inv := range invs {
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}

		if !inv.InvoiceDate.IsZero() {
			write(2, inv.InvoiceDate.Format("2006-01-02"))
		} else {
			write(2, "")
		}
		write(1, inv.InvoiceNumber)
		write(3, inv.SupplierName)
		write(4, inv.SupplierTaxCode)
		write(5, inv.Subtotal)
		write(6, inv.TaxRate)
		write(7, inv.TaxAmount)
		write(8, inv.TotalAmount)
		write(9, truncate(inv.Description, 140))
		write(10, inv.AccountCode)
		write(11, inv.Category)
		write(12, string(inv.Status))
		write(13, inv.CreatedByUsername)

		grandTotal += inv.TotalAmount
		row++
	}

	// totals row
	if len(invs) > 0 {
		labelCell, _ := excelize.CoordinatesToCellName(7, row)
		totalCell, _ := excelize.CoordinatesToCellName(8, row)
		_ = f.SetCellValue(sheet, labelCell, "Tổng cộng")
		_ = f.SetCellValue(sheet, totalCell, grandTotal)
		_ = f.SetCellStyle(sheet, labelCell, totalCell, mustBoldStyle(f))
	}

	_ = f.SetColWidth(sheet, "A", "A", 18)
	_ = f.SetColWidth(sheet, "B", "B", 12)
	_ = f.SetColWidth(sheet, "C", "C", 32)
	_ = f.SetColWidth(sheet, "D", "D", 14)
	_ = f.SetColWidth(sheet, "E", "H", 14)
	_ = f.SetColWidth(sheet, "I", "I", 40)
	_ = f.SetColWidth(sheet, "J", "L", 12)
	_ = f.SetColWidth(sheet, "M", "M", 16)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}

func mustBoldStyle(f *excelize.File) int {
	style, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	return style
}

// truncate limits s to n runes so multi-byte text is never cut mid-character.
func truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

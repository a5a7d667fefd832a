package service

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"fieldpos/internal/report/models"
)

const salesSheetName = "Sales"

// salesExportHeader is the column layout of the sales workbook.
var salesExportHeader = []string{
	"Invoice",
	"Date",
	"Branch",
	"Cashier",
	"Customer",
	"Payment",
	"Status",
	"Subtotal",
	"Discount",
	"Total",
}

var salesExportWidths = []float64{16, 18, 18, 18, 24, 12, 12, 12, 12, 12}

// buildSalesWorkbook renders the export rows into an XLSX workbook and
// returns the serialized file.
func buildSalesWorkbook(rows []models.SaleRow) ([]byte, error) {
	f := excelize.NewFile()
	// WriteTo needs the file open, so Close only runs on error paths.

	index, err := f.NewSheet(salesSheetName)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("create header style: %w", err)
	}

	for col, header := range salesExportHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("header cell: %w", err)
		}
		if err := f.SetCellValue(salesSheetName, cell, header); err != nil {
			f.Close()
			return nil, fmt.Errorf("set header %s: %w", cell, err)
		}
		if err := f.SetCellStyle(salesSheetName, cell, cell, headerStyle); err != nil {
			f.Close()
			return nil, fmt.Errorf("style header %s: %w", cell, err)
		}
		name, err := excelize.ColumnNumberToName(col + 1)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("column name: %w", err)
		}
		if err := f.SetColWidth(salesSheetName, name, name, salesExportWidths[col]); err != nil {
			f.Close()
			return nil, fmt.Errorf("set column width: %w", err)
		}
	}

	for i, row := range rows {
		values := []any{
			row.InvoiceNo,
			row.CreatedAt.Format("2006-01-02 15:04"),
			row.BranchName,
			row.CashierName,
			row.CustomerName,
			row.PaymentMethod,
			row.Status,
			row.Subtotal,
			row.Discount,
			row.Total,
		}
		for col, value := range values {
			// Data starts on row 2; row 1 is the header.
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				f.Close()
				return nil, fmt.Errorf("data cell: %w", err)
			}
			if err := f.SetCellValue(salesSheetName, cell, value); err != nil {
				f.Close()
				return nil, fmt.Errorf("set cell %s: %w", cell, err)
			}
		}
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		f.Close()
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("close workbook: %w", err)
	}
	return buf.Bytes(), nil
}

package service

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"fieldpos/internal/report/models"
)

func TestBuildSalesWorkbook(t *testing.T) {
	rows := []models.SaleRow{
		{
			InvoiceNo:     "INV-20260105-0001",
			CreatedAt:     time.Date(2026, 1, 5, 11, 45, 0, 0, time.UTC),
			BranchName:    "Downtown",
			CashierName:   "Sari",
			CustomerName:  "PT Dingin Sejuk",
			PaymentMethod: "cash",
			Status:        "completed",
			Subtotal:      200,
			Discount:      20,
			Total:         180,
		},
		{
			// Walk-in sale: no customer name.
			InvoiceNo:     "INV-20260106-0002",
			CreatedAt:     time.Date(2026, 1, 6, 9, 15, 0, 0, time.UTC),
			BranchName:    "Downtown",
			CashierName:   "Sari",
			PaymentMethod: "qris",
			Status:        "voided",
			Subtotal:      75,
			Total:         75,
		},
	}

	workbook, err := buildSalesWorkbook(rows)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(workbook))
	require.NoError(t, err)
	defer f.Close() //nolint:errcheck // read-only workbook

	assert.Equal(t, []string{"Sales"}, f.GetSheetList(), "the placeholder sheet is dropped")

	sheetRows, err := f.GetRows("Sales")
	require.NoError(t, err)
	require.Len(t, sheetRows, 3, "header plus one line per sale")
	assert.Equal(t, salesExportHeader, sheetRows[0])

	cell := func(ref string) string {
		value, err := f.GetCellValue("Sales", ref)
		require.NoError(t, err)
		return value
	}

	assert.Equal(t, "INV-20260105-0001", cell("A2"))
	assert.Equal(t, "2026-01-05 11:45", cell("B2"))
	assert.Equal(t, "Downtown", cell("C2"))
	assert.Equal(t, "PT Dingin Sejuk", cell("E2"))
	assert.Equal(t, "completed", cell("G2"))
	assert.Equal(t, "200", cell("H2"))
	assert.Equal(t, "20", cell("I2"))
	assert.Equal(t, "180", cell("J2"))

	assert.Equal(t, "", cell("E3"), "walk-in sales leave the customer cell blank")
	assert.Equal(t, "voided", cell("G3"), "voided sales stay in the export, flagged by status")
}

func TestBuildSalesWorkbook_NoRows(t *testing.T) {
	workbook, err := buildSalesWorkbook(nil)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(workbook))
	require.NoError(t, err)
	defer f.Close() //nolint:errcheck // read-only workbook

	sheetRows, err := f.GetRows("Sales")
	require.NoError(t, err)
	assert.Len(t, sheetRows, 1, "an empty period still exports the header")
}

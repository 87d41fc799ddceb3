// Package xlsxexport renders a purchase draft as an Excel workbook.
package xlsxexport

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"pharmabill/internal/csvexport"
	"pharmabill/internal/draft"
)

// SheetName is the name of the single sheet in the workbook.
const SheetName = "Purchase"

// Write renders d into an .xlsx document: a header block, one row per line
// and the bill totals beneath.
func Write(d *draft.Draft) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	header := [][]string{
		{"Distributor", d.DistributorName},
		{"Invoice Number", d.InvoiceNumber},
		{"Invoice Date", d.InvoiceDate},
		{"Pricing Mode", string(d.Mode)},
	}
	row := 1
	for _, r := range header {
		if err := setRow(f, row, r); err != nil {
			return nil, err
		}
		row++
	}
	row++

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("create style: %w", err)
	}
	if err := setRow(f, row, csvexport.Columns); err != nil {
		return nil, err
	}
	first, _ := excelize.CoordinatesToCellName(1, row)
	last, _ := excelize.CoordinatesToCellName(len(csvexport.Columns), row)
	if err := f.SetCellStyle(SheetName, first, last, bold); err != nil {
		return nil, fmt.Errorf("style header: %w", err)
	}
	row++

	lines := d.Lines()
	for i := range lines {
		if err := setRow(f, row, csvexport.LineRow(&lines[i])); err != nil {
			return nil, err
		}
		row++
	}
	row++

	for _, r := range csvexport.TotalsRows(d.Totals()) {
		if err := setRow(f, row, r); err != nil {
			return nil, err
		}
		row++
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func setRow(f *excelize.File, row int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("row %d: %w", row, err)
	}
	vals := make([]interface{}, len(values))
	for i, v := range values {
		vals[i] = v
	}
	if err := f.SetSheetRow(SheetName, cell, &vals); err != nil {
		return fmt.Errorf("set row %d: %w", row, err)
	}
	return nil
}

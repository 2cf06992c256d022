package export

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const sheet = "Sheet1"

var columnWidths = []float64{18, 12, 10, 22, 32, 10, 18, 14, 12, 12, 14, 8}

// Spreadsheet renders rows as an .xlsx workbook with one header row.
// Visible prices are written as numbers, masked ones as text.
func Spreadsheet(rows []Row, now time.Time) (*Document, error) {
	f := excelize.NewFile()
	defer f.Close()

	bold, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("creating header style: %w", err)
	}

	for i, h := range thaiHeaders {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, fmt.Errorf("writing header: %w", err)
		}
	}
	last, err := excelize.CoordinatesToCellName(len(thaiHeaders), 1)
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(sheet, "A1", last, bold); err != nil {
		return nil, fmt.Errorf("styling header: %w", err)
	}

	for r, row := range rows {
		for c, v := range row.cells() {
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return nil, err
			}
			var value interface{} = v
			if priceColumns[c] {
				if d, err := decimal.NewFromString(v); err == nil {
					value = d.InexactFloat64()
				}
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return nil, fmt.Errorf("writing row %d: %w", r+1, err)
			}
		}
	}

	for i, w := range columnWidths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetColWidth(sheet, col, col, w); err != nil {
			return nil, fmt.Errorf("setting column width: %w", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("writing workbook: %w", err)
	}
	return &Document{
		Data:     buf.Bytes(),
		MIME:     MIMESpreadsheet,
		Filename: Filename("items", now, "xlsx"),
	}, nil
}

package export

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"github.com/jung-kurt/gofpdf"
)

const (
	fontFamily   = "body"
	tableRowH    = 7.0
	tableFontPt  = 8.0
	tableTitlePt = 12.0
)

// pdfColumnWidths add up to the printable width of landscape A4 with 10mm
// margins.
var pdfColumnWidths = []float64{30, 20, 18, 28, 45, 18, 25, 22, 20, 20, 18, 13}

// writer wraps a PDF with the font it was set up with.
type writer struct {
	pdf  *gofpdf.Fpdf
	text func(string) string
	font string
	utf8 bool
}

func newWriter(orientation, size string, opts Options) (*writer, error) {
	pdf := gofpdf.New(orientation, "mm", size, "")
	w := &writer{pdf: pdf, font: "Helvetica", text: pdf.UnicodeTranslatorFromDescriptor("")}

	if opts.FontPath != "" {
		data, err := os.ReadFile(opts.FontPath)
		if err != nil {
			return nil, fmt.Errorf("reading pdf font: %w", err)
		}
		pdf.AddUTF8FontFromBytes(fontFamily, "", data)
		if err := pdf.Error(); err != nil {
			return nil, fmt.Errorf("loading pdf font: %w", err)
		}
		w.font = fontFamily
		w.text = func(s string) string { return s }
		w.utf8 = true
	}
	return w, nil
}

// setFont selects the writer's font. UTF-8 fonts are loaded in one style
// only, so bold falls back to regular.
func (w *writer) setFont(bold bool, size float64) {
	style := ""
	if bold && !w.utf8 {
		style = "B"
	}
	w.pdf.SetFont(w.font, style, size)
}

// fit shortens s until it fits in width mm. Translated core-font text is
// single-byte, UTF-8 text is cut on rune boundaries.
func (w *writer) fit(s string, width float64) string {
	s = w.text(s)
	limit := width - 2
	if w.pdf.GetStringWidth(s) <= limit {
		return s
	}
	cut := func(s string) string { return s[:len(s)-1] }
	if w.utf8 {
		cut = func(s string) string {
			r := []rune(s)
			return string(r[:len(r)-1])
		}
	}
	for s != "" && w.pdf.GetStringWidth(s+"..") > limit {
		s = cut(s)
	}
	return s + ".."
}

func (w *writer) output() ([]byte, error) {
	var buf bytes.Buffer
	if err := w.pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("rendering pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// PDF renders rows as a landscape A4 table. The header row repeats on every
// page.
func PDF(rows []Row, now time.Time, opts Options) (*Document, error) {
	w, err := newWriter("L", "A4", opts)
	if err != nil {
		return nil, err
	}
	pdf := w.pdf
	pdf.SetMargins(10, 10, 10)
	pdf.SetAutoPageBreak(false, 10)

	headers := latinHeaders
	title := "Items " + now.Format("2006-01-02")
	if w.utf8 {
		headers = thaiHeaders
		title = "รายการสินค้า " + now.Format("2006-01-02")
	}

	pdf.SetHeaderFunc(func() {
		w.setFont(true, tableTitlePt)
		pdf.CellFormat(0, 8, w.text(title), "", 1, "L", false, 0, "")
		w.setFont(true, tableFontPt)
		pdf.SetFillColor(224, 224, 224)
		for i, h := range headers {
			pdf.CellFormat(pdfColumnWidths[i], tableRowH, w.fit(h, pdfColumnWidths[i]), "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
	})
	pdf.AddPage()

	_, pageH := pdf.GetPageSize()
	w.setFont(false, tableFontPt)
	for _, row := range rows {
		if pdf.GetY()+tableRowH > pageH-10 {
			pdf.AddPage()
			w.setFont(false, tableFontPt)
		}
		for i, v := range row.cells() {
			align := "L"
			if priceColumns[i] {
				align = "R"
			}
			pdf.CellFormat(pdfColumnWidths[i], tableRowH, w.fit(v, pdfColumnWidths[i]), "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	data, err := w.output()
	if err != nil {
		return nil, err
	}
	return &Document{
		Data:     data,
		MIME:     MIMEPDF,
		Filename: Filename("items", now, "pdf"),
	}, nil
}

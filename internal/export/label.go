package export

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
	"github.com/skip2/go-qrcode"

	"github.com/erazemk/backoffice/internal/model"
)

const labelQRSize = 60.0

// Label prints an A6 batch label: the lot code as a QR code and as text,
// followed by the batch details and its items.
func Label(c *model.Consignment, shop *model.ShopProfile, opts Options) (*Document, error) {
	png, err := qrcode.Encode(c.LotCode, qrcode.Medium, 512)
	if err != nil {
		return nil, fmt.Errorf("encoding lot code: %w", err)
	}

	w, err := newWriter("P", "A6", opts)
	if err != nil {
		return nil, err
	}
	pdf := w.pdf
	pdf.SetMargins(8, 8, 8)
	pdf.SetAutoPageBreak(true, 8)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	inner := pageW - 16

	if shop != nil && shop.Name != "" {
		w.setFont(true, 11)
		pdf.CellFormat(inner, 6, w.fit(shop.Name, inner), "", 1, "C", false, 0, "")
	}

	opt := gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: true}
	pdf.RegisterImageOptionsReader("lot", opt, bytes.NewReader(png))
	pdf.ImageOptions("lot", (pageW-labelQRSize)/2, pdf.GetY()+2, labelQRSize, labelQRSize, false, opt, 0, "")
	pdf.SetY(pdf.GetY() + labelQRSize + 4)

	w.setFont(true, 14)
	pdf.CellFormat(inner, 8, c.LotCode, "", 1, "C", false, 0, "")

	w.setFont(false, 9)
	details := [][2]string{
		{"Date", c.Date},
		{"Type", c.Type},
		{"Customer", c.ConsignorName},
		{"Phone", c.ContactNumber},
		{"Items", fmt.Sprint(len(c.Items))},
	}
	for _, d := range details {
		pdf.CellFormat(24, 5, d[0], "", 0, "L", false, 0, "")
		pdf.CellFormat(inner-24, 5, w.fit(d[1], inner-24), "", 1, "L", false, 0, "")
	}

	pdf.Ln(2)
	for _, it := range c.Items {
		pdf.CellFormat(inner, 5, w.fit("- "+it.ProductName, inner), "", 1, "L", false, 0, "")
	}

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("building label: %w", err)
	}
	data, err := w.output()
	if err != nil {
		return nil, err
	}
	return &Document{
		Data:     data,
		MIME:     MIMEPDF,
		Filename: "label-" + c.LotCode + ".pdf",
	}, nil
}

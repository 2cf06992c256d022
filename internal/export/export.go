// Package export renders item lists as spreadsheets and PDF tables, and
// prints batch labels.
package export

import (
	"time"

	"github.com/erazemk/backoffice/internal/access"
	"github.com/erazemk/backoffice/internal/model"
	"github.com/erazemk/backoffice/internal/status"
)

// MIME types.
const (
	MIMESpreadsheet = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	MIMEPDF         = "application/pdf"
)

// Document is a generated file ready to be sent.
type Document struct {
	Data     []byte
	MIME     string
	Filename string
}

// Options configure PDF rendering.
type Options struct {
	// FontPath is a UTF-8 TrueType font used for PDF text. Without it PDFs
	// use the core Helvetica font, which cannot show Thai.
	FontPath string
}

// Row is one exported item, already formatted and gated for the viewer.
type Row struct {
	LotCode        string
	Date           string
	Type           string
	Consignor      string
	Product        string
	Category       string
	Condition      string
	Status         string
	ConfirmedPrice string
	SalesPrice     string
	SalesChannel   string
	Paid           string
}

func (r Row) cells() []string {
	return []string{
		r.LotCode, r.Date, r.Type, r.Consignor, r.Product, r.Category,
		r.Condition, r.Status, r.ConfirmedPrice, r.SalesPrice, r.SalesChannel, r.Paid,
	}
}

// priceColumns are the indexes of price cells in Row.cells.
var priceColumns = map[int]bool{8: true, 9: true}

var thaiHeaders = []string{
	"รหัสล็อต", "วันที่", "ประเภท", "ผู้ฝาก/ลูกค้า", "สินค้า", "หมวดหมู่",
	"ปี/สภาพ", "สถานะ", "ราคายืนยัน", "ราคาขาย", "ช่องทางขาย", "ชำระ",
}

var latinHeaders = []string{
	"Lot", "Date", "Type", "Customer", "Product", "Category",
	"Condition", "Status", "Confirmed", "Sold for", "Channel", "Paid",
}

var typeLabels = map[string]string{
	model.TypeIncome:      "รับซื้อ",
	model.TypeConsignment: "ฝากขาย",
	model.TypePawn:        "จำนำ",
	model.TypeRepair:      "ซ่อม",
}

// TypeLabel returns the display name of a batch type.
func TypeLabel(t string) string {
	if l, ok := typeLabels[t]; ok {
		return l
	}
	return t
}

// PaidMark is shown in the paid column of items with proof of payment.
const PaidMark = "PAID"

// Rows formats items for export as seen by v. Prices of items v may not see
// are masked.
func Rows(items []model.Item, v access.Viewer) []Row {
	rows := make([]Row, 0, len(items))
	for i := range items {
		it := &items[i]
		a := access.For(v, it.OwnerID)

		wf, label := workflowOf(it)
		paid := ""
		if status.Paid(it, wf) {
			paid = PaidMark
		}

		rows = append(rows, Row{
			LotCode:        it.LotCode,
			Date:           it.BatchDate,
			Type:           TypeLabel(it.BatchType),
			Consignor:      it.ConsignorName,
			Product:        it.ProductName,
			Category:       it.Category,
			Condition:      it.Condition,
			Status:         label,
			ConfirmedPrice: access.Price(a, it.ConfirmedPrice),
			SalesPrice:     access.NullPrice(a, it.SalesPrice),
			SalesChannel:   it.SalesChannel,
			Paid:           paid,
		})
	}
	return rows
}

// workflowOf picks the workflow that describes an item in lists: pawn and
// repair batches show their own lifecycle, everything else the sale badge.
func workflowOf(it *model.Item) (status.Workflow, string) {
	switch it.BatchType {
	case model.TypePawn:
		return status.Pawn, status.LabelOf(status.Pawn, it.PawnStatus).Text
	case model.TypeRepair:
		return status.Repair, status.LabelOf(status.Repair, it.RepairStatus).Text
	}
	return status.Sale, status.Badge(it).Text
}

// Filename returns name-YYYY-MM-DD.ext for the day of now.
func Filename(name string, now time.Time, ext string) string {
	return name + "-" + now.Format("2006-01-02") + "." + ext
}

package export

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/erazemk/backoffice/internal/access"
	"github.com/erazemk/backoffice/internal/model"
	"github.com/erazemk/backoffice/internal/status"
)

var exportDay = time.Date(2026, 10, 19, 15, 4, 0, 0, time.UTC)

func sampleItems() []model.Item {
	return []model.Item{
		{
			ProductName: "Nikon FM2", Category: model.CategoryCamera, Condition: "1982 / 9",
			Status: status.SaleSold, SlipImage: "slip", ConfirmedPrice: decimal.NewFromInt(1000),
			SalesPrice: decimal.NewNullDecimal(decimal.NewFromInt(1800)), SalesChannel: "shopee",
			OwnerID: 1, LotCode: "CS-20261019-001", BatchType: model.TypeConsignment,
			BatchDate: "2026-10-19", ConsignorName: "Somchai",
		},
		{
			ProductName: "Nikkor 50mm", Category: model.CategoryLens,
			Status: status.SaleReady, IsReserveOpen: true, ConfirmedPrice: decimal.NewFromInt(2500),
			OwnerID: 2, LotCode: "CS-20261019-002", BatchType: model.TypeConsignment,
			BatchDate: "2026-10-19", ConsignorName: "Somsak",
		},
		{
			ProductName: "Canon AE-1", Category: model.CategoryCamera,
			PawnStatus: status.PawnRedeemed, RedemptionSlips: []string{"r"}, ConfirmedPrice: decimal.NewFromInt(700),
			OwnerID: 2, LotCode: "PW-20261019-001", BatchType: model.TypePawn,
			BatchDate: "2026-10-19", ConsignorName: "Malee",
		},
	}
}

func TestRowsMaskAndLabel(t *testing.T) {
	rows := Rows(sampleItems(), access.Viewer{ID: 1, Role: model.RoleEmployee})

	own := rows[0]
	if own.ConfirmedPrice != "1000" || own.SalesPrice != "1800" {
		t.Errorf("expected own prices visible, got %q %q", own.ConfirmedPrice, own.SalesPrice)
	}
	if own.Status != "ขายแล้ว" || own.Paid != PaidMark || own.Type != "ฝากขาย" {
		t.Errorf("unexpected own row: %+v", own)
	}

	other := rows[1]
	if other.ConfirmedPrice != access.PriceMask || other.SalesPrice != access.PriceMask {
		t.Errorf("expected masked prices, got %q %q", other.ConfirmedPrice, other.SalesPrice)
	}
	if other.Status != "ติดจอง" || other.Paid != "" {
		t.Errorf("unexpected reserved row: %+v", other)
	}

	pawn := rows[2]
	if pawn.Status != "ไถ่ถอนแล้ว" || pawn.Paid != PaidMark {
		t.Errorf("unexpected pawn row: %+v", pawn)
	}

	manager := Rows(sampleItems(), access.Viewer{ID: 9, Role: model.RoleManager})
	if manager[1].ConfirmedPrice != "2500" || manager[1].SalesPrice != "" {
		t.Errorf("expected manager to see prices, got %+v", manager[1])
	}
}

func TestSpreadsheet(t *testing.T) {
	rows := Rows(sampleItems(), access.Viewer{ID: 1, Role: model.RoleEmployee})

	doc, err := Spreadsheet(rows, exportDay)
	if err != nil {
		t.Fatalf("Spreadsheet: %v", err)
	}
	if doc.MIME != MIMESpreadsheet {
		t.Errorf("unexpected MIME %q", doc.MIME)
	}
	if doc.Filename != "items-2026-10-19.xlsx" {
		t.Errorf("unexpected filename %q", doc.Filename)
	}

	f, err := excelize.OpenReader(bytes.NewReader(doc.Data))
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer f.Close()

	got, err := f.GetRows(sheet)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 4 {
		t.Fatalf("expected header and 3 rows, got %d", len(got))
	}
	if got[0][0] != thaiHeaders[0] || got[0][8] != thaiHeaders[8] {
		t.Errorf("unexpected header row: %v", got[0])
	}
	if got[1][0] != "CS-20261019-001" || got[1][8] != "1000" {
		t.Errorf("unexpected first row: %v", got[1])
	}
	if got[2][8] != access.PriceMask {
		t.Errorf("expected masked price in second row, got %v", got[2])
	}
}

func TestSpreadsheetEmpty(t *testing.T) {
	doc, err := Spreadsheet(nil, exportDay)
	if err != nil {
		t.Fatalf("Spreadsheet: %v", err)
	}
	f, err := excelize.OpenReader(bytes.NewReader(doc.Data))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	got, _ := f.GetRows(sheet)
	if len(got) != 1 {
		t.Errorf("expected only the header row, got %d rows", len(got))
	}
}

func TestPDF(t *testing.T) {
	rows := Rows(sampleItems(), access.Viewer{ID: 1, Role: model.RoleManager})
	// Enough rows to need a second page.
	for len(rows) < 60 {
		rows = append(rows, rows[0])
	}

	doc, err := PDF(rows, exportDay, Options{})
	if err != nil {
		t.Fatalf("PDF: %v", err)
	}
	if !bytes.HasPrefix(doc.Data, []byte("%PDF")) {
		t.Error("expected PDF header")
	}
	if doc.MIME != MIMEPDF || doc.Filename != "items-2026-10-19.pdf" {
		t.Errorf("unexpected document: %q %q", doc.MIME, doc.Filename)
	}
}

func TestPDFMissingFont(t *testing.T) {
	if _, err := PDF(nil, exportDay, Options{FontPath: "/nonexistent/font.ttf"}); err == nil {
		t.Error("expected error for missing font")
	}
}

func TestLabel(t *testing.T) {
	c := &model.Consignment{
		LotCode: "PW-20261019-001", Date: "2026-10-19", Type: model.TypePawn,
		ConsignorName: "Malee", Items: sampleItems()[2:],
	}

	doc, err := Label(c, &model.ShopProfile{Name: "Film Corner"}, Options{})
	if err != nil {
		t.Fatalf("Label: %v", err)
	}
	if !bytes.HasPrefix(doc.Data, []byte("%PDF")) {
		t.Error("expected PDF header")
	}
	if !strings.HasPrefix(doc.Filename, "label-PW-20261019-001") {
		t.Errorf("unexpected filename %q", doc.Filename)
	}
}

func TestFilename(t *testing.T) {
	if got := Filename("items", exportDay, "xlsx"); got != "items-2026-10-19.xlsx" {
		t.Errorf("unexpected filename %q", got)
	}
}

package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/erazemk/backoffice/internal/db"
	"github.com/erazemk/backoffice/internal/model"
	"github.com/erazemk/backoffice/internal/status"
)

func newUser(t *testing.T, database *sql.DB, email, role string) *model.User {
	t.Helper()
	u, err := CreateUser(context.Background(), database, email, email, "hash", role)
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	return u
}

func newBatch(t *testing.T, database *sql.DB, owner int64, typ, date string, prices ...int64) *model.Consignment {
	t.Helper()
	c := &model.Consignment{
		Date:          date,
		Type:          typ,
		ConsignorName: "Somchai",
		UserID:        owner,
	}
	for i, p := range prices {
		c.Items = append(c.Items, model.Item{
			ProductName:    "item " + string(rune('A'+i)),
			Category:       model.CategoryCamera,
			ConfirmedPrice: decimal.NewFromInt(p),
		})
	}
	created, err := CreateConsignment(context.Background(), database, c)
	if err != nil {
		t.Fatalf("CreateConsignment: %v", err)
	}
	return created
}

func TestCreateConsignmentTotal(t *testing.T) {
	database := db.NewTestDB(t)
	owner := newUser(t, database, "owner@example.com", model.RoleEmployee)

	c := &model.Consignment{
		Date:          "2026-10-19",
		Type:          model.TypeConsignment,
		ConsignorName: "Somchai",
		UserID:        owner.ID,
		TotalPrice:    decimal.NewFromInt(1), // ignored
		Items: []model.Item{
			{ProductName: "Nikon FM2", Category: model.CategoryCamera, ConfirmedPrice: decimal.NewFromInt(1000)},
			{ProductName: "Nikkor 50mm", Category: model.CategoryLens, ConfirmedPrice: decimal.NewFromInt(2500)},
		},
	}
	created, err := CreateConsignment(context.Background(), database, c)
	if err != nil {
		t.Fatalf("CreateConsignment: %v", err)
	}

	if created.TotalPrice.String() != "3500" {
		t.Errorf("expected total 3500, got %s", created.TotalPrice)
	}
	if created.LotCode != "CS-20261019-001" {
		t.Errorf("expected lot code CS-20261019-001, got %q", created.LotCode)
	}
	if len(created.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(created.Items))
	}
	for _, it := range created.Items {
		if it.Status != status.SaleReady {
			t.Errorf("expected new item status %q, got %q", status.SaleReady, it.Status)
		}
		if it.OwnerID != owner.ID || it.LotCode != created.LotCode {
			t.Errorf("expected batch fields joined, got owner %d lot %q", it.OwnerID, it.LotCode)
		}
	}
	if created.UserName != owner.Name {
		t.Errorf("expected user name %q, got %q", owner.Name, created.UserName)
	}
}

func TestLotCodeSequence(t *testing.T) {
	database := db.NewTestDB(t)
	owner := newUser(t, database, "o@example.com", model.RoleManager)

	tests := []struct {
		typ, date, want string
	}{
		{model.TypeConsignment, "2026-10-19", "CS-20261019-001"},
		{model.TypeConsignment, "2026-10-19", "CS-20261019-002"},
		{model.TypePawn, "2026-10-19", "PW-20261019-001"},
		{model.TypeConsignment, "2026-10-20", "CS-20261020-001"},
		{model.TypeIncome, "2026-10-19", "IN-20261019-001"},
		{model.TypeRepair, "2026-10-19", "RP-20261019-001"},
		{model.TypeConsignment, "2026-10-19", "CS-20261019-003"},
	}
	for _, tt := range tests {
		c := newBatch(t, database, owner.ID, tt.typ, tt.date)
		if c.LotCode != tt.want {
			t.Errorf("%s %s: expected lot code %q, got %q", tt.typ, tt.date, tt.want, c.LotCode)
		}
	}
}

func TestCreateConsignmentInitialStates(t *testing.T) {
	database := db.NewTestDB(t)
	owner := newUser(t, database, "o@example.com", model.RoleManager)

	pawn := newBatch(t, database, owner.ID, model.TypePawn, "2026-10-19", 500)
	if got := pawn.Items[0].PawnStatus; got != status.PawnActive {
		t.Errorf("expected pawn item %q, got %q", status.PawnActive, got)
	}
	repair := newBatch(t, database, owner.ID, model.TypeRepair, "2026-10-19", 0)
	if got := repair.Items[0].RepairStatus; got != status.RepairRepairing {
		t.Errorf("expected repair item %q, got %q", status.RepairRepairing, got)
	}
}

func TestCreateConsignmentUnknownType(t *testing.T) {
	database := db.NewTestDB(t)
	owner := newUser(t, database, "o@example.com", model.RoleManager)

	_, err := CreateConsignment(context.Background(), database, &model.Consignment{
		Date: "2026-10-19", Type: "GIFT", ConsignorName: "x", UserID: owner.ID,
	})
	if err == nil {
		t.Error("expected error for unknown batch type")
	}
}

func TestGetConsignmentMissing(t *testing.T) {
	database := db.NewTestDB(t)

	c, err := GetConsignment(context.Background(), database, 42)
	if err != nil {
		t.Fatal(err)
	}
	if c != nil {
		t.Error("expected nil for missing consignment")
	}
}

func TestUpdateConsignmentReplacesItems(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	owner := newUser(t, database, "o@example.com", model.RoleManager)
	c := newBatch(t, database, owner.ID, model.TypeConsignment, "2026-10-19", 1000, 2500)

	// Sell the first item so we can check its state survives the edit.
	sold := c.Items[0]
	sold.Status = status.SaleSold
	sold.SlipImage = "slip"
	if err := saveItem(ctx, database, &sold); err != nil {
		t.Fatal(err)
	}

	edit := &model.Consignment{
		Date:          "2026-10-20",
		Type:          model.TypePawn, // ignored
		ConsignorName: "Somsak",
		Images:        []string{"batch-img"},
		Items: []model.Item{
			{ID: sold.ID, ProductName: "renamed", Category: model.CategoryCamera, ConfirmedPrice: decimal.NewFromInt(1200), Status: status.SaleReady},
			{ProductName: "new lens", Category: model.CategoryLens, ConfirmedPrice: decimal.NewFromInt(300), Status: status.SaleSold},
		},
	}
	got, err := UpdateConsignment(ctx, database, c.ID, edit)
	if err != nil {
		t.Fatalf("UpdateConsignment: %v", err)
	}

	if got.ConsignorName != "Somsak" || got.Date != "2026-10-20" {
		t.Errorf("header not updated: %+v", got)
	}
	if got.Type != model.TypeConsignment || got.LotCode != c.LotCode {
		t.Errorf("type and lot code must not change, got %q %q", got.Type, got.LotCode)
	}
	if got.TotalPrice.String() != "1500" {
		t.Errorf("expected total 1500, got %s", got.TotalPrice)
	}
	if len(got.Images) != 1 || got.Images[0] != "batch-img" {
		t.Errorf("unexpected images: %v", got.Images)
	}
	if len(got.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(got.Items))
	}

	kept := got.Items[0]
	if kept.ID != sold.ID || kept.ProductName != "renamed" {
		t.Errorf("expected edited item first, got %+v", kept)
	}
	if kept.Status != status.SaleSold || kept.SlipImage != "slip" {
		t.Errorf("workflow state must survive batch edit, got %q %q", kept.Status, kept.SlipImage)
	}
	if added := got.Items[1]; added.Status != status.SaleReady {
		t.Errorf("new item must start ready, got %q", added.Status)
	}

	removed, _ := GetItem(ctx, database, c.Items[1].ID)
	if removed != nil {
		t.Error("expected item missing from the edit to be deleted")
	}
}

func TestUpdateConsignmentMissing(t *testing.T) {
	database := db.NewTestDB(t)

	_, err := UpdateConsignment(context.Background(), database, 7, &model.Consignment{Date: "2026-10-19"})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteConsignmentCascades(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	owner := newUser(t, database, "o@example.com", model.RoleManager)

	batchImg, _ := SaveImage(ctx, database, []byte("b"), "image/jpeg")
	defectImg, _ := SaveImage(ctx, database, []byte("d"), "image/jpeg")
	unrelated, _ := SaveImage(ctx, database, []byte("u"), "image/jpeg")

	c, err := CreateConsignment(ctx, database, &model.Consignment{
		Date: "2026-10-19", Type: model.TypeIncome, ConsignorName: "x", UserID: owner.ID,
		Images: []string{batchImg},
		Items: []model.Item{{
			ProductName: "body", Category: model.CategoryCamera,
			ConfirmedPrice: decimal.NewFromInt(10), DefectImages: []string{defectImg},
		}},
	})
	if err != nil {
		t.Fatal(err)
	}
	itemID := c.Items[0].ID
	if err := SaveTransition(ctx, database, &c.Items[0], model.HistoryEntry{Workflow: "sale", From: "ready", To: "ready"}); err != nil {
		t.Fatal(err)
	}

	if err := DeleteConsignment(ctx, database, c.ID); err != nil {
		t.Fatalf("DeleteConsignment: %v", err)
	}

	if got, _ := GetConsignment(ctx, database, c.ID); got != nil {
		t.Error("expected consignment gone")
	}
	if got, _ := GetItem(ctx, database, itemID); got != nil {
		t.Error("expected item gone")
	}
	if h, _ := GetItemHistory(ctx, database, itemID); len(h) != 0 {
		t.Errorf("expected history gone, got %d entries", len(h))
	}
	for _, key := range []string{batchImg, defectImg} {
		if data, _, _ := GetImage(ctx, database, key); data != nil {
			t.Errorf("expected image %s deleted", key)
		}
	}
	if data, _, _ := GetImage(ctx, database, unrelated); data == nil {
		t.Error("unrelated image must survive")
	}

	if err := DeleteConsignment(ctx, database, c.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteConsignmentKeepsSharedImages(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	manager := newUser(t, database, "m@example.com", model.RoleManager)
	employee := newUser(t, database, "e@example.com", model.RoleEmployee)

	photo, _ := SaveImage(ctx, database, []byte("p"), "image/jpeg")
	slip, _ := SaveImage(ctx, database, []byte("s"), "image/jpeg")

	if _, err := CreateConsignment(ctx, database, &model.Consignment{
		Date: "2026-10-19", Type: model.TypePawn, ConsignorName: "x", UserID: manager.ID,
		Items: []model.Item{{
			ProductName: "Leica M3", Category: model.CategoryCamera,
			ImageKey: photo, RedemptionSlips: []string{slip},
		}},
	}); err != nil {
		t.Fatal(err)
	}

	// Another user's batch pointing at the same keys.
	other, err := CreateConsignment(ctx, database, &model.Consignment{
		Date: "2026-10-19", Type: model.TypeIncome, ConsignorName: "y", UserID: employee.ID,
		Images: []string{slip},
		Items: []model.Item{{
			ProductName: "copy", Category: model.CategoryCamera,
			ImageKey: photo, DefectImages: []string{slip},
		}},
	})
	if err != nil {
		t.Fatal(err)
	}

	if err := DeleteConsignment(ctx, database, other.ID); err != nil {
		t.Fatalf("DeleteConsignment: %v", err)
	}
	for _, key := range []string{photo, slip} {
		if data, _, _ := GetImage(ctx, database, key); data == nil {
			t.Errorf("image %s still used by another batch was deleted", key)
		}
	}
}

func TestUpdateConsignmentReplacedImage(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	owner := newUser(t, database, "o@example.com", model.RoleManager)

	oldPhoto, _ := SaveImage(ctx, database, []byte("old"), "image/jpeg")
	newPhoto, _ := SaveImage(ctx, database, []byte("new"), "image/jpeg")

	c, err := CreateConsignment(ctx, database, &model.Consignment{
		Date: "2026-10-19", Type: model.TypeIncome, ConsignorName: "x", UserID: owner.ID,
		Items: []model.Item{{ProductName: "FM2", Category: model.CategoryCamera, ImageKey: oldPhoto}},
	})
	if err != nil {
		t.Fatal(err)
	}

	edit := *c
	edit.Items = []model.Item{c.Items[0]}
	edit.Items[0].ImageKey = newPhoto
	got, err := UpdateConsignment(ctx, database, c.ID, &edit)
	if err != nil {
		t.Fatalf("UpdateConsignment: %v", err)
	}
	if got.Items[0].ImageKey != newPhoto {
		t.Errorf("expected new photo, got %q", got.Items[0].ImageKey)
	}
	if data, _, _ := GetImage(ctx, database, oldPhoto); data != nil {
		t.Error("replaced photo should be deleted")
	}
	if data, _, _ := GetImage(ctx, database, newPhoto); data == nil {
		t.Error("new photo must be kept")
	}

	// Saving again without changes must not lose anything.
	if _, err := UpdateConsignment(ctx, database, c.ID, got); err != nil {
		t.Fatal(err)
	}
	if data, _, _ := GetImage(ctx, database, newPhoto); data == nil {
		t.Error("unchanged photo must be kept")
	}
}

func TestListConsignmentsFilters(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	alice := newUser(t, database, "alice@example.com", model.RoleEmployee)
	bob := newUser(t, database, "bob@example.com", model.RoleEmployee)

	newBatch(t, database, alice.ID, model.TypeConsignment, "2026-10-01", 100)
	newBatch(t, database, alice.ID, model.TypePawn, "2026-10-02", 200)
	newBatch(t, database, bob.ID, model.TypeConsignment, "2026-10-03", 300)

	tests := []struct {
		name   string
		filter ConsignmentFilter
		want   int
	}{
		{"all", ConsignmentFilter{}, 3},
		{"by type", ConsignmentFilter{Type: model.TypeConsignment}, 2},
		{"by owner", ConsignmentFilter{OwnerID: alice.ID}, 2},
		{"by lot code", ConsignmentFilter{Query: "PW-2026"}, 1},
		{"by product", ConsignmentFilter{Query: "item A"}, 3},
		{"no match", ConsignmentFilter{Query: "leica"}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list, total, err := ListConsignments(ctx, database, tt.filter)
			if err != nil {
				t.Fatal(err)
			}
			if total != tt.want || len(list) != tt.want {
				t.Errorf("expected %d, got total %d len %d", tt.want, total, len(list))
			}
		})
	}
}

func TestListConsignmentsPaging(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	owner := newUser(t, database, "o@example.com", model.RoleManager)

	for _, d := range []string{"2026-10-01", "2026-10-02", "2026-10-03"} {
		newBatch(t, database, owner.ID, model.TypeIncome, d)
	}

	page, total, err := ListConsignments(ctx, database, ConsignmentFilter{Page: 2, PageSize: 2})
	if err != nil {
		t.Fatal(err)
	}
	if total != 3 || len(page) != 1 {
		t.Fatalf("expected total 3 and 1 row, got %d and %d", total, len(page))
	}
	if page[0].Date != "2026-10-01" {
		t.Errorf("expected oldest batch on page 2, got %s", page[0].Date)
	}
	if page[0].Items == nil || page[0].Images == nil {
		t.Error("expected empty, non-nil child lists")
	}
}

func TestListConsignmentsSearchIsLiteral(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	owner := newUser(t, database, "owner@example.com", model.RoleEmployee)

	for _, name := range []string{"Canon 50A", "Hood 50_x", "Film 100% cotton"} {
		c := &model.Consignment{
			Date:          "2026-10-05",
			Type:          model.TypeConsignment,
			ConsignorName: "Somchai",
			UserID:        owner.ID,
			Items: []model.Item{{
				ProductName:    name,
				Category:       model.CategoryOther,
				ConfirmedPrice: decimal.NewFromInt(10),
			}},
		}
		if _, err := CreateConsignment(ctx, database, c); err != nil {
			t.Fatal(err)
		}
	}

	tests := []struct {
		query string
		want  int
	}{
		{"50_", 1},
		{"50", 2},
		{"100%", 1},
		{"%", 1},
		{"_", 1},
		{`\`, 0},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			_, total, err := ListConsignments(ctx, database, ConsignmentFilter{Query: tt.query})
			if err != nil {
				t.Fatal(err)
			}
			if total != tt.want {
				t.Errorf("query %q: expected %d matches, got %d", tt.query, tt.want, total)
			}
		})
	}
}

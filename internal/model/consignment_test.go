package model

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
)

func TestRecomputeTotal(t *testing.T) {
	c := Consignment{
		Type: TypeConsignment,
		Items: []Item{
			{ProductName: "Nikon FM2", ConfirmedPrice: decimal.NewFromInt(1000)},
			{ProductName: "Nikkor 50mm f/1.4", ConfirmedPrice: decimal.NewFromInt(2500)},
		},
	}
	c.RecomputeTotal()

	if c.TotalPrice.String() != "3500" {
		t.Errorf("expected total 3500, got %s", c.TotalPrice)
	}

	data, err := json.Marshal(c)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var decoded map[string]any
	json.Unmarshal(data, &decoded)
	if decoded["totalPrice"] != "3500" {
		t.Errorf("expected totalPrice \"3500\" on the wire, got %v", decoded["totalPrice"])
	}
}

func TestLotPrefix(t *testing.T) {
	tests := map[string]string{
		TypeIncome:      "IN",
		TypeConsignment: "CS",
		TypePawn:        "PW",
		TypeRepair:      "RP",
		"SALE":          "",
	}
	for typ, want := range tests {
		if got := LotPrefix(typ); got != want {
			t.Errorf("LotPrefix(%q) = %q, want %q", typ, got, want)
		}
		if ValidType(typ) != (want != "") {
			t.Errorf("ValidType(%q) mismatch", typ)
		}
	}
}

func TestItemPatchApply(t *testing.T) {
	it := Item{ProductName: "Old", Category: CategoryOther, Status: "sold"}
	name := "Canon AE-1"
	price := decimal.NewFromInt(4200)
	open := ReserveFlag(true)

	ItemPatch{ProductName: &name, ConfirmedPrice: &price, IsReserveOpen: &open}.Apply(&it)

	if it.ProductName != name {
		t.Errorf("expected name %q, got %q", name, it.ProductName)
	}
	if !it.ConfirmedPrice.Equal(price) {
		t.Errorf("expected price %s, got %s", price, it.ConfirmedPrice)
	}
	if !it.IsReserveOpen {
		t.Error("expected reservation flag to be set")
	}
	if it.Category != CategoryOther || it.Status != "sold" {
		t.Error("unset patch fields must not change the item")
	}
}

func TestPatchFromKeepsWorkflowState(t *testing.T) {
	src := Item{ProductName: "Leica M6", Category: CategoryCamera, ConfirmedPrice: decimal.NewFromInt(90000), Status: "ready"}
	dst := Item{ProductName: "old", Status: "sold", SlipImage: "slip"}

	PatchFrom(src).Apply(&dst)

	if dst.ProductName != "Leica M6" || dst.Category != CategoryCamera {
		t.Errorf("editable fields not copied: %+v", dst)
	}
	if dst.Status != "sold" || dst.SlipImage != "slip" {
		t.Errorf("workflow fields must be kept: %+v", dst)
	}
	if dst.SalesPrice.Valid {
		t.Error("unset sales price must stay unset")
	}
}

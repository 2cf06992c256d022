package status

import (
	"testing"

	"github.com/erazemk/backoffice/internal/model"
)

func TestSaleStateOf(t *testing.T) {
	it := &model.Item{Status: SaleRepair, RepairStartDate: "a", RepairEndDate: "b", SlipImage: "stale"}
	s, ok := SaleStateOf(it).(InRepair)
	if !ok {
		t.Fatalf("expected InRepair, got %T", SaleStateOf(it))
	}
	if s.Start != "a" || s.End != "b" {
		t.Errorf("unexpected repair state: %+v", s)
	}

	if _, ok := SaleStateOf(&model.Item{}).(Ready); !ok {
		t.Error("expected empty status to decode as Ready")
	}
	u, ok := SaleStateOf(&model.Item{Status: "READY_SALE"}).(Unknown)
	if !ok || u.Key() != "READY_SALE" {
		t.Errorf("expected Unknown carrying the raw value, got %#v", SaleStateOf(&model.Item{Status: "READY_SALE"}))
	}
}

func TestPawnStateOf(t *testing.T) {
	s, ok := PawnStateOf(&model.Item{PawnStatus: PawnExtended, PawnEndDate: "2027-01-01"}).(Extended)
	if !ok || s.Due != "2027-01-01" {
		t.Errorf("unexpected pawn state: %#v", s)
	}
	if _, ok := PawnStateOf(&model.Item{}).(Unknown); !ok {
		t.Error("expected Unknown for items outside the pawn workflow")
	}
}

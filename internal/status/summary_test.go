package status

import (
	"reflect"
	"testing"

	"github.com/erazemk/backoffice/internal/model"
)

func TestImportSummary(t *testing.T) {
	items := []model.Item{
		{Status: SaleReady},
		{Status: SaleReady, IsReserveOpen: true},
		{Status: KeyReserved},
		{Status: SaleSold},
		{Status: "lost"},
	}

	got := ImportSummary(items)
	want := []Count{
		{KeyReady, "พร้อมขาย", 1},
		{KeyReserved, "ติดจอง", 2},
		{KeyRepair, "ส่งซ่อม", 0},
		{KeySold, "ขายแล้ว", 1},
		{"lost", "lost", 1},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ImportSummary = %+v, want %+v", got, want)
	}
}

func TestPawnSummaryZeroFilled(t *testing.T) {
	got := PawnSummary([]model.Item{{PawnStatus: PawnExtended}, {PawnStatus: PawnExtended}, {}})
	want := []Count{
		{PawnActive, "ยังไม่ครบกำหนด", 0},
		{PawnExtended, "ต่อดอก", 2},
		{PawnRedeemed, "ไถ่ถอนแล้ว", 0},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("PawnSummary = %+v, want %+v", got, want)
	}
}

func TestRepairSummary(t *testing.T) {
	got := RepairSummary([]model.Item{{RepairStatus: RepairRepairing}, {RepairStatus: RepairReturned}})
	if got[0].Count != 1 || got[1].Count != 0 || got[2].Count != 1 {
		t.Errorf("unexpected repair summary: %+v", got)
	}
}

func TestPayoutSummary(t *testing.T) {
	got := PayoutSummary([]model.Item{{Status: SaleSold}, {Status: "SOLD"}, {Status: SaleReserved}})
	want := []Count{
		{KeyCompleted, "จ่ายแล้ว", 2},
		{KeyPending, "รอจ่าย", 1},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("PayoutSummary = %+v, want %+v", got, want)
	}
}

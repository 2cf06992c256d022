package status

import (
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/erazemk/backoffice/internal/model"
)

func TestReservedClearsRepairAndReservation(t *testing.T) {
	it := &model.Item{
		Status:           SaleRepair,
		RepairStartDate:  "2026-10-01",
		RepairEndDate:    "2026-10-10",
		ReserveStartDate: "2026-09-30",
		IsReserveOpen:    true,
	}

	from, err := Apply(it, Sale, SaleReserved, Input{})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if from != SaleRepair {
		t.Errorf("expected previous state %q, got %q", SaleRepair, from)
	}
	if it.Status != SaleReserved {
		t.Errorf("expected status %q, got %q", SaleReserved, it.Status)
	}
	if it.RepairStartDate != "" || it.RepairEndDate != "" || it.ReserveStartDate != "" {
		t.Errorf("expected dates cleared, got %q %q %q", it.RepairStartDate, it.RepairEndDate, it.ReserveStartDate)
	}
	if it.IsReserveOpen.String() != "false" {
		t.Errorf("expected isReserveOpen \"false\", got %q", it.IsReserveOpen.String())
	}
}

func TestRepairConfirmationNeedsBothDates(t *testing.T) {
	tests := []struct {
		start, end string
		want       bool
	}{
		{"", "", false},
		{"2026-10-01", "", false},
		{"", "2026-10-10", false},
		{"  ", "2026-10-10", false},
		{"2026-10-01", "2026-10-10", true},
	}
	for _, tt := range tests {
		in := Input{RepairStartDate: tt.start, RepairEndDate: tt.end}
		if got := CanConfirm(Sale, SaleRepair, in); got != tt.want {
			t.Errorf("CanConfirm(sale, repair, %q, %q) = %v, want %v", tt.start, tt.end, got, tt.want)
		}
		if got := CanConfirm(Repair, RepairRepairing, in); got != tt.want {
			t.Errorf("CanConfirm(repair, repairing, %q, %q) = %v, want %v", tt.start, tt.end, got, tt.want)
		}
	}

	// Terminal repair states close immediately.
	if !CanConfirm(Repair, RepairDone, Input{}) || !CanConfirm(Repair, RepairReturned, Input{}) {
		t.Error("terminal repair states must not require input")
	}
}

func TestApplyIncompleteLeavesItemUntouched(t *testing.T) {
	it := &model.Item{Status: SaleReady}

	_, err := Apply(it, Sale, SaleRepair, Input{RepairStartDate: "2026-10-01"})
	var incomplete *IncompleteError
	if !errors.As(err, &incomplete) {
		t.Fatalf("expected IncompleteError, got %v", err)
	}
	if _, ok := incomplete.Fields["repairEndDate"]; !ok {
		t.Errorf("expected repairEndDate in missing fields, got %v", incomplete.Fields)
	}
	if it.Status != SaleReady || it.RepairStartDate != "" {
		t.Errorf("item changed on failed transition: %+v", it)
	}
}

func TestRepairReservedRepairDoesNotRestoreDates(t *testing.T) {
	it := &model.Item{Status: SaleReady}

	if _, err := Apply(it, Sale, SaleRepair, Input{RepairStartDate: "2026-10-01", RepairEndDate: "2026-10-10"}); err != nil {
		t.Fatalf("first repair: %v", err)
	}
	if _, err := Apply(it, Sale, SaleReserved, Input{}); err != nil {
		t.Fatalf("reserved: %v", err)
	}
	if it.RepairStartDate != "" || it.RepairEndDate != "" {
		t.Fatalf("expected dates cleared by reserved, got %q %q", it.RepairStartDate, it.RepairEndDate)
	}

	// Selecting repair again starts from the cleared values.
	in := Input{RepairStartDate: it.RepairStartDate, RepairEndDate: it.RepairEndDate}
	if CanConfirm(Sale, SaleRepair, in) {
		t.Error("repair must not be confirmable with the cleared dates")
	}
	if _, err := Apply(it, Sale, SaleRepair, in); err == nil {
		t.Error("expected error re-entering repair without dates")
	}
	if it.RepairStartDate != "" || it.RepairEndDate != "" {
		t.Errorf("expected empty dates, got %q %q", it.RepairStartDate, it.RepairEndDate)
	}

	if _, err := Apply(it, Sale, SaleRepair, Input{RepairStartDate: "2026-11-01", RepairEndDate: "2026-11-05"}); err != nil {
		t.Fatalf("second repair: %v", err)
	}
	if it.RepairStartDate != "2026-11-01" || it.RepairEndDate != "2026-11-05" {
		t.Errorf("expected new dates, got %q %q", it.RepairStartDate, it.RepairEndDate)
	}
}

func TestSoldNeedsSlipAndSetsSale(t *testing.T) {
	it := &model.Item{Status: SaleReserved}

	if CanConfirm(Sale, SaleSold, Input{}) {
		t.Error("sold must require a slip image")
	}

	price := decimal.NewFromInt(5900)
	_, err := Apply(it, Sale, SaleSold, Input{SlipImage: "slip-1", SalesPrice: &price, SalesChannel: "shopee"})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if it.SlipImage != "slip-1" || it.SalesChannel != "shopee" {
		t.Errorf("unexpected sale fields: %+v", it)
	}
	if !it.SalesPrice.Valid || !it.SalesPrice.Decimal.Equal(price) {
		t.Errorf("expected sales price %s, got %+v", price, it.SalesPrice)
	}
}

func TestPaidIndicator(t *testing.T) {
	tests := []struct {
		name string
		item model.Item
		wf   Workflow
		want bool
	}{
		{"sold with slip", model.Item{Status: SaleSold, SlipImage: "k"}, Sale, true},
		{"sold without slip", model.Item{Status: SaleSold}, Sale, false},
		{"reserved with stale slip", model.Item{Status: SaleReserved, SlipImage: "k"}, Sale, false},
		{"redeemed with slip", model.Item{PawnStatus: PawnRedeemed, RedemptionSlips: []string{"k"}}, Pawn, true},
		{"redeemed without slip", model.Item{PawnStatus: PawnRedeemed}, Pawn, false},
		{"redeemed with empty slip", model.Item{PawnStatus: PawnRedeemed, RedemptionSlips: []string{""}}, Pawn, false},
		{"extended with slip", model.Item{PawnStatus: PawnExtended, RedemptionSlips: []string{"k"}}, Pawn, false},
		{"other workflow", model.Item{Status: SaleSold, SlipImage: "k"}, Repair, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Paid(&tt.item, tt.wf); got != tt.want {
				t.Errorf("Paid = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPawnTransitions(t *testing.T) {
	it := &model.Item{}

	if _, err := Apply(it, Pawn, PawnActive, Input{}); err == nil {
		t.Error("active must require a pawn end date")
	}
	if _, err := Apply(it, Pawn, PawnActive, Input{PawnEndDate: "2026-12-01"}); err != nil {
		t.Fatalf("active: %v", err)
	}
	if _, err := Apply(it, Pawn, PawnExtended, Input{PawnEndDate: "2027-01-01"}); err != nil {
		t.Fatalf("extended: %v", err)
	}
	if it.PawnEndDate != "2027-01-01" {
		t.Errorf("expected extended due date, got %q", it.PawnEndDate)
	}

	// Redeeming without a slip is allowed; the PAID indicator stays off.
	if _, err := Apply(it, Pawn, PawnRedeemed, Input{}); err != nil {
		t.Fatalf("redeemed: %v", err)
	}
	if Paid(it, Pawn) {
		t.Error("expected no PAID indicator without slip")
	}
	if _, err := Apply(it, Pawn, PawnRedeemed, Input{RedemptionSlip: "slip"}); err != nil {
		t.Fatalf("redeemed with slip: %v", err)
	}
	if !Paid(it, Pawn) {
		t.Error("expected PAID indicator with slip")
	}
}

func TestImageCap(t *testing.T) {
	var list []string
	for i := 0; i < MaxImages; i++ {
		var err error
		list, err = AppendImage(list, fmt.Sprintf("img-%d", i))
		if err != nil {
			t.Fatalf("AppendImage %d: %v", i, err)
		}
	}

	got, err := AppendImage(list, "one-too-many")
	if !errors.Is(err, ErrImageLimit) {
		t.Errorf("expected ErrImageLimit, got %v", err)
	}
	if len(got) != MaxImages {
		t.Errorf("expected %d images, got %d", MaxImages, len(got))
	}
}

func TestUnsellableEvidenceCap(t *testing.T) {
	it := &model.Item{DefectImages: []string{"a", "b", "c", "d", "e"}}

	_, err := Apply(it, Intake, IntakeUnsellable, Input{Images: []string{"f", "g"}})
	if !errors.Is(err, ErrImageLimit) {
		t.Fatalf("expected ErrImageLimit, got %v", err)
	}
	if len(it.DefectImages) != 5 || it.ProductStatus != "" {
		t.Errorf("item changed on failed transition: %+v", it)
	}

	// Evidence is optional.
	if _, err := Apply(it, Intake, IntakeUnsellable, Input{}); err != nil {
		t.Fatalf("Apply without images: %v", err)
	}
}

func TestSellableKeepsButHidesDefectImages(t *testing.T) {
	it := &model.Item{}
	if _, err := Apply(it, Intake, IntakeUnsellable, Input{Images: []string{"a"}}); err != nil {
		t.Fatal(err)
	}
	if len(VisibleDefectImages(it)) != 1 {
		t.Fatal("expected defect image visible while unsellable")
	}
	if _, err := Apply(it, Intake, IntakeSellable, Input{}); err != nil {
		t.Fatal(err)
	}
	if len(it.DefectImages) != 1 {
		t.Error("expected defect images retained")
	}
	if VisibleDefectImages(it) != nil {
		t.Error("expected defect images hidden for sellable item")
	}
}

func TestConditionNotFinalEvidence(t *testing.T) {
	it := &model.Item{}
	if _, err := Apply(it, Condition, ConditionNotFinal, Input{Images: []string{"x", "y"}}); err != nil {
		t.Fatal(err)
	}
	if len(it.ConditionImages) != 2 || it.ConditionStatus != ConditionNotFinal {
		t.Errorf("unexpected item: %+v", it)
	}
	if _, err := Apply(it, Condition, ConditionFinal, Input{}); err != nil {
		t.Fatal(err)
	}
}

func TestApplyRejectsForeignStates(t *testing.T) {
	it := &model.Item{}
	if _, err := Apply(it, Sale, PawnRedeemed, Input{}); !errors.Is(err, ErrUnknownStatus) {
		t.Errorf("expected ErrUnknownStatus, got %v", err)
	}
	if _, err := Apply(it, Workflow("audit"), SaleSold, Input{}); !errors.Is(err, ErrUnknownWorkflow) {
		t.Errorf("expected ErrUnknownWorkflow, got %v", err)
	}
}

func TestWorkflowsAreIndependent(t *testing.T) {
	it := &model.Item{Status: SaleReady}
	if _, err := Apply(it, Repair, RepairRepairing, Input{RepairStartDate: "2026-10-01", RepairEndDate: "2026-10-02"}); err != nil {
		t.Fatal(err)
	}
	if it.Status != SaleReady {
		t.Errorf("repair service changed the sales status: %q", it.Status)
	}
	if it.RepairStatus != RepairRepairing {
		t.Errorf("expected repair status %q, got %q", RepairRepairing, it.RepairStatus)
	}
}

func TestInit(t *testing.T) {
	pawn := &model.Item{}
	Init(pawn, model.TypePawn)
	if pawn.Status != SaleReady || pawn.PawnStatus != PawnActive || pawn.RepairStatus != "" {
		t.Errorf("unexpected pawn item states: %+v", pawn)
	}

	repair := &model.Item{Status: SaleSold}
	Init(repair, model.TypeRepair)
	if repair.Status != SaleSold || repair.RepairStatus != RepairRepairing {
		t.Errorf("unexpected repair item states: %+v", repair)
	}
}

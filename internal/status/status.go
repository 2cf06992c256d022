// Package status holds the item lifecycle rules: which states each workflow
// offers, what a transition clears or sets, and how stored values are labelled
// for display.
//
// Every workflow keeps its state in a separate item field, so the intake
// evaluation, the sales lifecycle, the repair service, the pawn lifecycle and
// the repair-condition assessment never overwrite one another.
package status

import (
	"fmt"

	"github.com/erazemk/backoffice/internal/model"
)

// Workflow identifies one item lifecycle.
type Workflow string

// Workflows.
const (
	Intake    Workflow = "intake"
	Sale      Workflow = "sale"
	Repair    Workflow = "repair"
	Pawn      Workflow = "pawn"
	Condition Workflow = "condition"
)

// Workflows lists every workflow.
var Workflows = []Workflow{Intake, Sale, Repair, Pawn, Condition}

// Stored values per workflow.
const (
	IntakeSellable   = "ขายได้"
	IntakeUnsellable = "ขายไม่ได้"

	SaleReady    = "ready"
	SaleReserved = "reserved"
	SaleRepair   = "repair"
	SaleSold     = "sold"

	RepairRepairing = "repairing"
	RepairDone      = "repair_done"
	RepairReturned  = "return_customer"

	PawnActive   = "active"
	PawnExtended = "extended"
	PawnRedeemed = "redeemed"

	ConditionFinal    = "final"
	ConditionNotFinal = "not_final"
)

// Uppercase keys used by the dashboard and the summary endpoints.
const (
	KeyReady          = "READY"
	KeyReadySale      = "READY_SALE"
	KeyReserved       = "RESERVED"
	KeySold           = "SOLD"
	KeyRepair         = "REPAIR"
	KeyReturnCustomer = "RETURN_CUSTOMER"
	KeyExtended       = "EXTENDED"
	KeyRepairing      = "REPAIRING"
	KeyRepaired       = "REPAIRED"
	KeyNotRepair      = "NOT_REPAIR"
	KeyCompleted      = "COMPLETED"
	KeyPending        = "PENDING"
	KeyRepairDone     = "REPAIR_DONE"
)

// MaxImages caps defect images, condition evidence and redemption slips.
const MaxImages = 6

var selectors = map[Workflow][]string{
	Intake:    {IntakeSellable, IntakeUnsellable},
	Sale:      {SaleReserved, SaleRepair, SaleSold},
	Repair:    {RepairRepairing, RepairDone, RepairReturned},
	Pawn:      {PawnActive, PawnExtended, PawnRedeemed},
	Condition: {ConditionFinal, ConditionNotFinal},
}

// ParseWorkflow converts s to a Workflow.
func ParseWorkflow(s string) (Workflow, error) {
	wf := Workflow(s)
	if _, ok := selectors[wf]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownWorkflow, s)
	}
	return wf, nil
}

// States returns the selectable states of wf in display order.
func States(wf Workflow) []string {
	return append([]string(nil), selectors[wf]...)
}

// Next returns the states selectable from current. Workflows are flat
// selectors: every state is reachable from every other.
func Next(wf Workflow, current string) []string {
	var next []string
	for _, s := range selectors[wf] {
		if s != current {
			next = append(next, s)
		}
	}
	return next
}

// Valid reports whether s is a selectable state of wf.
func Valid(wf Workflow, s string) bool {
	for _, known := range selectors[wf] {
		if known == s {
			return true
		}
	}
	return false
}

// Current returns the stored state of it for wf.
func Current(it *model.Item, wf Workflow) string {
	if p := field(it, wf); p != nil {
		return *p
	}
	return ""
}

func field(it *model.Item, wf Workflow) *string {
	switch wf {
	case Intake:
		return &it.ProductStatus
	case Sale:
		return &it.Status
	case Repair:
		return &it.RepairStatus
	case Pawn:
		return &it.PawnStatus
	case Condition:
		return &it.ConditionStatus
	}
	return nil
}

// Init sets the starting states of a new item in a batch of batchType.
// States already set are kept.
func Init(it *model.Item, batchType string) {
	if it.Status == "" {
		it.Status = SaleReady
	}
	switch batchType {
	case model.TypePawn:
		if it.PawnStatus == "" {
			it.PawnStatus = PawnActive
		}
	case model.TypeRepair:
		if it.RepairStatus == "" {
			it.RepairStatus = RepairRepairing
		}
	}
}

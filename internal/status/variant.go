package status

import "github.com/erazemk/backoffice/internal/model"

// SaleState is the typed view of the sales lifecycle of an item.
type SaleState interface {
	Key() string
	saleState()
}

// PawnState is the typed view of the pawn lifecycle of an item.
type PawnState interface {
	Key() string
	pawnState()
}

type (
	Ready    struct{}
	Reserved struct{}
	InRepair struct{ Start, End string }
	Sold     struct{ Slip string }

	Active   struct{ Due string }
	Extended struct{ Due string }
	Redeemed struct{ Slip string }

	// Unknown wraps a stored value no workflow recognises.
	Unknown struct{ Raw string }
)

func (Ready) Key() string    { return SaleReady }
func (Reserved) Key() string { return SaleReserved }
func (InRepair) Key() string { return SaleRepair }
func (Sold) Key() string     { return SaleSold }
func (Active) Key() string   { return PawnActive }
func (Extended) Key() string { return PawnExtended }
func (Redeemed) Key() string { return PawnRedeemed }
func (u Unknown) Key() string {
	return u.Raw
}

func (Ready) saleState()    {}
func (Reserved) saleState() {}
func (InRepair) saleState() {}
func (Sold) saleState()     {}
func (Unknown) saleState()  {}

func (Active) pawnState()   {}
func (Extended) pawnState() {}
func (Redeemed) pawnState() {}
func (Unknown) pawnState()  {}

// SaleStateOf decodes the sales lifecycle of it. Fields outside the current
// branch are ignored.
func SaleStateOf(it *model.Item) SaleState {
	switch it.Status {
	case SaleReady, "":
		return Ready{}
	case SaleReserved:
		return Reserved{}
	case SaleRepair:
		return InRepair{Start: it.RepairStartDate, End: it.RepairEndDate}
	case SaleSold:
		return Sold{Slip: it.SlipImage}
	}
	return Unknown{Raw: it.Status}
}

// PawnStateOf decodes the pawn lifecycle of it.
func PawnStateOf(it *model.Item) PawnState {
	switch it.PawnStatus {
	case PawnActive:
		return Active{Due: it.PawnEndDate}
	case PawnExtended:
		return Extended{Due: it.PawnEndDate}
	case PawnRedeemed:
		return Redeemed{Slip: it.RedemptionSlip()}
	}
	return Unknown{Raw: it.PawnStatus}
}

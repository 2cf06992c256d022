package api

import (
	"github.com/shopspring/decimal"

	"github.com/erazemk/backoffice/internal/access"
	"github.com/erazemk/backoffice/internal/model"
	"github.com/erazemk/backoffice/internal/status"
)

// itemView is an item as sent to a particular viewer: prices are strings so
// they can be masked, and the display badge is resolved.
type itemView struct {
	model.Item
	ConfirmedPrice  string        `json:"confirmedPrice"`
	SalesPrice      *string       `json:"salesPrice"`
	RedemptionPrice *string       `json:"redemptionPrice"`
	DefectImages    []string      `json:"defectImages"`
	Badge           status.Label  `json:"badge"`
	Paid            bool          `json:"paid"`
	Access          access.Access `json:"access"`
}

func newItemView(it model.Item, v access.Viewer, ownerID int64) itemView {
	a := access.For(v, ownerID)
	defects := status.VisibleDefectImages(&it)
	if defects == nil {
		defects = []string{}
	}
	return itemView{
		Item:            it,
		ConfirmedPrice:  access.Price(a, it.ConfirmedPrice),
		SalesPrice:      nullPrice(a, it.SalesPrice),
		RedemptionPrice: nullPrice(a, it.RedemptionPrice),
		DefectImages:    defects,
		Badge:           status.Badge(&it),
		Paid:            status.Paid(&it, status.Sale) || status.Paid(&it, status.Pawn),
		Access:          a,
	}
}

// nullPrice renders an optional price, or null when it is unset and the
// viewer may see prices, so the value decodes again as an unset price.
func nullPrice(a access.Access, value decimal.NullDecimal) *string {
	if a.CanSeePrice && !value.Valid {
		return nil
	}
	s := access.NullPrice(a, value)
	return &s
}

func itemViews(items []model.Item, v access.Viewer) []itemView {
	out := make([]itemView, 0, len(items))
	for _, it := range items {
		out = append(out, newItemView(it, v, it.OwnerID))
	}
	return out
}

// consignmentView is a batch as sent to a particular viewer.
type consignmentView struct {
	model.Consignment
	TotalPrice string        `json:"totalPrice"`
	Items      []itemView    `json:"items"`
	Access     access.Access `json:"access"`
}

func newConsignmentView(c model.Consignment, v access.Viewer) consignmentView {
	items := make([]itemView, 0, len(c.Items))
	for _, it := range c.Items {
		items = append(items, newItemView(it, v, c.UserID))
	}
	if c.Images == nil {
		c.Images = []string{}
	}
	a := access.For(v, c.UserID)
	return consignmentView{
		Consignment: c,
		TotalPrice:  access.Price(a, c.TotalPrice),
		Items:       items,
		Access:      a,
	}
}

type consignmentPage struct {
	Consignments []consignmentView `json:"consignments"`
	Total        int               `json:"total"`
	Page         int               `json:"page"`
	PageSize     int               `json:"pageSize"`
}

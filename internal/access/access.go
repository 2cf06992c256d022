// Package access decides what a signed-in user may see and do with a record.
package access

import (
	"github.com/shopspring/decimal"

	"github.com/erazemk/backoffice/internal/model"
)

// PriceMask replaces prices the viewer may not see.
const PriceMask = "***"

// Viewer is the user a response is built for.
type Viewer struct {
	ID   int64
	Role string
}

// Access lists the permissions a viewer has on one record.
type Access struct {
	CanSeePrice bool `json:"canSeePrice"`
	CanEdit     bool `json:"canEdit"`
	CanDelete   bool `json:"canDelete"`
}

// For returns the permissions of v on a record owned by ownerID. Managers
// get everything, employees only their own records.
func For(v Viewer, ownerID int64) Access {
	if model.RoleAtLeast(v.Role, model.RoleManager) {
		return Access{CanSeePrice: true, CanEdit: true, CanDelete: true}
	}
	own := v.Role == model.RoleEmployee && v.ID != 0 && v.ID == ownerID
	return Access{CanSeePrice: own, CanEdit: own, CanDelete: own}
}

// Price formats value, or returns PriceMask if a hides prices.
func Price(a Access, value decimal.Decimal) string {
	if !a.CanSeePrice {
		return PriceMask
	}
	return value.String()
}

// NullPrice is Price for optional values. Unset values render empty.
func NullPrice(a Access, value decimal.NullDecimal) string {
	if !a.CanSeePrice {
		return PriceMask
	}
	if !value.Valid {
		return ""
	}
	return value.Decimal.String()
}

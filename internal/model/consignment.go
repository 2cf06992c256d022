package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Consignment is a batch of items received together under one transaction
// type. TotalPrice is always derived from the items.
type Consignment struct {
	ID            int64           `json:"id"`
	Date          string          `json:"date" validate:"required,datetime=2006-01-02"`
	LotCode       string          `json:"lotCode"`
	Type          string          `json:"type" validate:"required,oneof=INCOME CONSIGNMENT PAWN REPAIR"`
	ConsignorName string          `json:"consignorName" validate:"required,max=200"`
	ContactNumber string          `json:"contactNumber" validate:"max=50"`
	Address       string          `json:"address" validate:"max=500"`
	TotalPrice    decimal.Decimal `json:"totalPrice"`
	UserID        int64           `json:"userId"`
	Images        []string        `json:"images" validate:"max=20,dive,required"`
	Items         []Item          `json:"items" validate:"dive"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`

	// Joined fields (not always populated).
	UserName string `json:"userName,omitempty"`
}

// Batch types.
const (
	TypeIncome      = "INCOME"
	TypeConsignment = "CONSIGNMENT"
	TypePawn        = "PAWN"
	TypeRepair      = "REPAIR"
)

// Types lists the batch types in display order.
var Types = []string{TypeIncome, TypeConsignment, TypePawn, TypeRepair}

var lotPrefixes = map[string]string{
	TypeIncome:      "IN",
	TypeConsignment: "CS",
	TypePawn:        "PW",
	TypeRepair:      "RP",
}

// ValidType reports whether t is a known batch type.
func ValidType(t string) bool {
	_, ok := lotPrefixes[t]
	return ok
}

// LotPrefix returns the lot code prefix for a batch type, or "" if unknown.
func LotPrefix(t string) string {
	return lotPrefixes[t]
}

// SumConfirmed adds up the confirmed prices of items.
func SumConfirmed(items []Item) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.ConfirmedPrice)
	}
	return total
}

// RecomputeTotal sets TotalPrice from the current items.
func (c *Consignment) RecomputeTotal() {
	c.TotalPrice = SumConfirmed(c.Items)
}

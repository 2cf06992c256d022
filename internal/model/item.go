package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Item is a single product inside a consignment batch. Each workflow keeps its
// state in its own field; see package status for the allowed values.
type Item struct {
	ID            int64  `json:"id"`
	ConsignmentID int64  `json:"consignmentId"`
	ProductName   string `json:"productName" validate:"required,max=200"`
	Category      string `json:"category" validate:"required,oneof=camera lens tripod battery film strap other"`
	Condition     string `json:"condition" validate:"max=200"`

	ProductStatus   string `json:"productStatus"`
	Status          string `json:"status"`
	RepairStatus    string `json:"repairStatus"`
	PawnStatus      string `json:"pawnStatus"`
	ConditionStatus string `json:"conditionStatus"`

	ConfirmedPrice decimal.Decimal     `json:"confirmedPrice" validate:"gte=0"`
	SalesPrice     decimal.NullDecimal `json:"salesPrice" validate:"omitempty,gte=0"`
	SalesChannel   string              `json:"salesChannel"`

	ImageKey        string   `json:"imageKey"`
	DefectImages    []string `json:"defectImages" validate:"max=6"`
	ConditionImages []string `json:"conditionImages" validate:"max=6"`

	IsReserveOpen    ReserveFlag `json:"isReserveOpen"`
	ReserveStartDate string      `json:"reserveStartDate" validate:"omitempty,datetime=2006-01-02"`
	ReserveEndDate   string      `json:"reserveEndDate" validate:"omitempty,datetime=2006-01-02"`

	RepairStartDate string `json:"repairStartDate" validate:"omitempty,datetime=2006-01-02"`
	RepairEndDate   string `json:"repairEndDate" validate:"omitempty,datetime=2006-01-02"`

	RedemptionPrice decimal.NullDecimal `json:"redemptionPrice" validate:"omitempty,gte=0"`
	PawnEndDate     string              `json:"pawnEndDate" validate:"omitempty,datetime=2006-01-02"`
	RedemptionSlips []string            `json:"redemptionSlips" validate:"max=6"`

	SlipImage string `json:"slipImage"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Joined from the parent consignment (not always populated).
	OwnerID       int64  `json:"ownerId"`
	LotCode       string `json:"lotCode,omitempty"`
	BatchType     string `json:"batchType,omitempty"`
	BatchDate     string `json:"batchDate,omitempty"`
	ConsignorName string `json:"consignorName,omitempty"`
}

// RedemptionSlip returns the first redemption slip, or "" if none was uploaded.
func (it *Item) RedemptionSlip() string {
	if len(it.RedemptionSlips) == 0 {
		return ""
	}
	return it.RedemptionSlips[0]
}

// Categories.
const (
	CategoryCamera  = "camera"
	CategoryLens    = "lens"
	CategoryTripod  = "tripod"
	CategoryBattery = "battery"
	CategoryFilm    = "film"
	CategoryStrap   = "strap"
	CategoryOther   = "other"
)

// Categories lists all item categories.
var Categories = []string{
	CategoryCamera, CategoryLens, CategoryTripod, CategoryBattery,
	CategoryFilm, CategoryStrap, CategoryOther,
}

// ValidCategory reports whether c is a known category.
func ValidCategory(c string) bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// ItemPatch holds the editable, non-workflow fields of an item. Nil fields are
// left unchanged. Workflow states change only through status transitions.
type ItemPatch struct {
	ProductName      *string          `json:"productName" validate:"omitempty,min=1,max=200"`
	Category         *string          `json:"category" validate:"omitempty,oneof=camera lens tripod battery film strap other"`
	Condition        *string          `json:"condition" validate:"omitempty,max=200"`
	ConfirmedPrice   *decimal.Decimal `json:"confirmedPrice" validate:"omitempty,gte=0"`
	SalesPrice       *decimal.Decimal `json:"salesPrice" validate:"omitempty,gte=0"`
	SalesChannel     *string          `json:"salesChannel" validate:"omitempty,max=100"`
	ImageKey         *string          `json:"imageKey"`
	IsReserveOpen    *ReserveFlag     `json:"isReserveOpen"`
	ReserveStartDate *string          `json:"reserveStartDate" validate:"omitempty,datetime=2006-01-02"`
	ReserveEndDate   *string          `json:"reserveEndDate" validate:"omitempty,datetime=2006-01-02"`
	RedemptionPrice  *decimal.Decimal `json:"redemptionPrice" validate:"omitempty,gte=0"`
	PawnEndDate      *string          `json:"pawnEndDate" validate:"omitempty,datetime=2006-01-02"`
}

// Apply copies the set fields of p onto it.
func (p ItemPatch) Apply(it *Item) {
	if p.ProductName != nil {
		it.ProductName = *p.ProductName
	}
	if p.Category != nil {
		it.Category = *p.Category
	}
	if p.Condition != nil {
		it.Condition = *p.Condition
	}
	if p.ConfirmedPrice != nil {
		it.ConfirmedPrice = *p.ConfirmedPrice
	}
	if p.SalesPrice != nil {
		it.SalesPrice = decimal.NewNullDecimal(*p.SalesPrice)
	}
	if p.SalesChannel != nil {
		it.SalesChannel = *p.SalesChannel
	}
	if p.ImageKey != nil {
		it.ImageKey = *p.ImageKey
	}
	if p.IsReserveOpen != nil {
		it.IsReserveOpen = *p.IsReserveOpen
	}
	if p.ReserveStartDate != nil {
		it.ReserveStartDate = *p.ReserveStartDate
	}
	if p.ReserveEndDate != nil {
		it.ReserveEndDate = *p.ReserveEndDate
	}
	if p.RedemptionPrice != nil {
		it.RedemptionPrice = decimal.NewNullDecimal(*p.RedemptionPrice)
	}
	if p.PawnEndDate != nil {
		it.PawnEndDate = *p.PawnEndDate
	}
}

// PatchFrom returns a patch that sets every editable field to its value in it.
func PatchFrom(it Item) ItemPatch {
	p := ItemPatch{
		ProductName:      &it.ProductName,
		Category:         &it.Category,
		Condition:        &it.Condition,
		ConfirmedPrice:   &it.ConfirmedPrice,
		SalesChannel:     &it.SalesChannel,
		ImageKey:         &it.ImageKey,
		IsReserveOpen:    &it.IsReserveOpen,
		ReserveStartDate: &it.ReserveStartDate,
		ReserveEndDate:   &it.ReserveEndDate,
		PawnEndDate:      &it.PawnEndDate,
	}
	if it.SalesPrice.Valid {
		p.SalesPrice = &it.SalesPrice.Decimal
	}
	if it.RedemptionPrice.Valid {
		p.RedemptionPrice = &it.RedemptionPrice.Decimal
	}
	return p
}

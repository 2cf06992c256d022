package model

import "time"

// ShopProfile is the singleton record describing the shop.
type ShopProfile struct {
	Name       string    `json:"name" validate:"max=200"`
	Address    string    `json:"address" validate:"max=500"`
	District   string    `json:"district" validate:"max=100"`
	Province   string    `json:"province" validate:"max=100"`
	PostalCode string    `json:"postalCode" validate:"omitempty,numeric,len=5"`
	Phone      string    `json:"phone" validate:"max=50"`
	Line       string    `json:"line" validate:"max=100"`
	Shopee     string    `json:"shopee" validate:"max=200"`
	Facebook   string    `json:"facebook" validate:"max=200"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/erazemk/backoffice/internal/model"
)

// GetShopProfile returns the shop profile, or an empty one if none was saved.
func GetShopProfile(ctx context.Context, db *sql.DB) (*model.ShopProfile, error) {
	p := &model.ShopProfile{}
	err := db.QueryRowContext(ctx,
		`SELECT name, address, district, province, postal_code, phone, line, shopee, facebook, updated_at
		 FROM shop_profile WHERE id = 1`,
	).Scan(&p.Name, &p.Address, &p.District, &p.Province, &p.PostalCode,
		&p.Phone, &p.Line, &p.Shopee, &p.Facebook, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return &model.ShopProfile{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting shop profile: %w", err)
	}
	return p, nil
}

// UpdateShopProfile creates or replaces the shop profile.
func UpdateShopProfile(ctx context.Context, db *sql.DB, p *model.ShopProfile) (*model.ShopProfile, error) {
	_, err := db.ExecContext(ctx,
		`INSERT INTO shop_profile (id, name, address, district, province, postal_code, phone, line, shopee, facebook)
		 VALUES (1, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET
		     name = excluded.name, address = excluded.address, district = excluded.district,
		     province = excluded.province, postal_code = excluded.postal_code, phone = excluded.phone,
		     line = excluded.line, shopee = excluded.shopee, facebook = excluded.facebook,
		     updated_at = CURRENT_TIMESTAMP`,
		p.Name, p.Address, p.District, p.Province, p.PostalCode, p.Phone, p.Line, p.Shopee, p.Facebook,
	)
	if err != nil {
		return nil, fmt.Errorf("updating shop profile: %w", err)
	}
	return GetShopProfile(ctx, db)
}

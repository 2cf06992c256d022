package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// SaveImage stores processed image data under a new random key.
func SaveImage(ctx context.Context, db *sql.DB, data []byte, mime string) (string, error) {
	key := uuid.NewString()
	_, err := db.ExecContext(ctx,
		`INSERT INTO images (key, data, mime) VALUES (?, ?, ?)`,
		key, data, mime,
	)
	if err != nil {
		return "", fmt.Errorf("saving image: %w", err)
	}
	return key, nil
}

// GetImage returns image data and MIME type by key.
func GetImage(ctx context.Context, db *sql.DB, key string) ([]byte, string, error) {
	var data []byte
	var mime string
	err := db.QueryRowContext(ctx,
		`SELECT data, mime FROM images WHERE key = ?`, key,
	).Scan(&data, &mime)
	if err == sql.ErrNoRows {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("getting image: %w", err)
	}
	return data, mime, nil
}

// imageRefQuery counts the places that still point at an image key.
const imageRefQuery = `
SELECT (SELECT COUNT(*) FROM consignment_images WHERE image_key = ?1)
     + (SELECT COUNT(*) FROM items WHERE image_key = ?1 OR slip_image = ?1)
     + (SELECT COUNT(*) FROM items, json_each(items.defect_images) WHERE json_each.value = ?1)
     + (SELECT COUNT(*) FROM items, json_each(items.condition_images) WHERE json_each.value = ?1)
     + (SELECT COUNT(*) FROM items, json_each(items.redemption_slips) WHERE json_each.value = ?1)`

// deleteImages removes the given keys unless a batch or item still refers to
// them. Callers drop their own references first. Empty keys are ignored.
func deleteImages(ctx context.Context, q querier, keys []string) error {
	seen := make(map[string]bool, len(keys))
	var args []any
	for _, k := range keys {
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true

		var refs int
		if err := q.QueryRowContext(ctx, imageRefQuery, k).Scan(&refs); err != nil {
			return fmt.Errorf("checking image references: %w", err)
		}
		if refs == 0 {
			args = append(args, k)
		}
	}
	if len(args) == 0 {
		return nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(args)), ",")
	if _, err := q.ExecContext(ctx,
		`DELETE FROM images WHERE key IN (`+placeholders+`)`, args...,
	); err != nil {
		return fmt.Errorf("deleting images: %w", err)
	}
	return nil
}

// DeleteImage removes an uploaded image that nothing refers to.
func DeleteImage(ctx context.Context, db *sql.DB, key string) error {
	return deleteImages(ctx, db, []string{key})
}

package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/erazemk/backoffice/internal/model"
)

// GetItemHistory returns the status changes of an item, newest first.
func GetItemHistory(ctx context.Context, db *sql.DB, itemID int64) ([]model.HistoryEntry, error) {
	return ListHistory(ctx, db, itemID, 0)
}

// ListHistory returns status changes, optionally filtered by item or by the
// user who made them.
func ListHistory(ctx context.Context, db *sql.DB, itemID, changedBy int64) ([]model.HistoryEntry, error) {
	query := `SELECT h.id, h.item_id, h.workflow, h.from_status, h.to_status,
	                 h.changed_by, h.changed_at, COALESCE(u.name, '')
	          FROM item_history h
	          LEFT JOIN users u ON u.id = h.changed_by
	          WHERE 1=1`
	var args []any

	if itemID > 0 {
		query += ` AND h.item_id = ?`
		args = append(args, itemID)
	}
	if changedBy > 0 {
		query += ` AND h.changed_by = ?`
		args = append(args, changedBy)
	}

	query += ` ORDER BY h.changed_at DESC, h.id DESC`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing item history: %w", err)
	}
	defer rows.Close()

	var entries []model.HistoryEntry
	for rows.Next() {
		var e model.HistoryEntry
		if err := rows.Scan(&e.ID, &e.ItemID, &e.Workflow, &e.From, &e.To,
			&e.ChangedBy, &e.ChangedAt, &e.ChangedByName); err != nil {
			return nil, fmt.Errorf("scanning history entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

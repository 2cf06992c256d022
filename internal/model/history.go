package model

import "time"

// HistoryEntry records one workflow status change of an item.
type HistoryEntry struct {
	ID        int64     `json:"id"`
	ItemID    int64     `json:"itemId"`
	Workflow  string    `json:"workflow"`
	From      string    `json:"from"`
	To        string    `json:"to"`
	ChangedBy *int64    `json:"changedBy,omitempty"`
	ChangedAt time.Time `json:"changedAt"`

	// Joined fields (not always populated).
	ChangedByName string `json:"changedByName,omitempty"`
}

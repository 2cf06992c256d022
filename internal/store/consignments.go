package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/erazemk/backoffice/internal/model"
	"github.com/erazemk/backoffice/internal/status"
)

// Page sizes for ListConsignments.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// lotCodeAttempts bounds retries when two batches race for the same lot code.
const lotCodeAttempts = 3

const consignmentSelect = `
SELECT c.id, c.date, c.lot_code, c.type, c.consignor_name, c.contact_number,
       c.address, c.total_price, c.user_id, c.created_at, c.updated_at,
       COALESCE(u.name, '')
FROM consignments c
LEFT JOIN users u ON u.id = c.user_id`

// ConsignmentFilter narrows ListConsignments. Zero fields match everything.
type ConsignmentFilter struct {
	Type     string
	OwnerID  int64
	Query    string
	Page     int
	PageSize int
}

// Normalize clamps the page and page size to their allowed ranges.
func (f *ConsignmentFilter) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 {
		f.PageSize = DefaultPageSize
	}
	if f.PageSize > MaxPageSize {
		f.PageSize = MaxPageSize
	}
}

func scanConsignment(row interface{ Scan(...any) error }) (*model.Consignment, error) {
	c := &model.Consignment{}
	err := row.Scan(&c.ID, &c.Date, &c.LotCode, &c.Type, &c.ConsignorName, &c.ContactNumber,
		&c.Address, &c.TotalPrice, &c.UserID, &c.CreatedAt, &c.UpdatedAt, &c.UserName)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// GetConsignment returns a batch with its images and items.
func GetConsignment(ctx context.Context, db *sql.DB, id int64) (*model.Consignment, error) {
	return getConsignment(ctx, db, id)
}

func getConsignment(ctx context.Context, q querier, id int64) (*model.Consignment, error) {
	c, err := scanConsignment(q.QueryRowContext(ctx, consignmentSelect+` WHERE c.id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting consignment: %w", err)
	}
	if err := loadChildren(ctx, q, c); err != nil {
		return nil, err
	}
	return c, nil
}

func loadChildren(ctx context.Context, q querier, c *model.Consignment) error {
	rows, err := q.QueryContext(ctx,
		`SELECT image_key FROM consignment_images WHERE consignment_id = ? ORDER BY position`, c.ID,
	)
	if err != nil {
		return fmt.Errorf("loading consignment images: %w", err)
	}
	c.Images = []string{}
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			rows.Close()
			return fmt.Errorf("scanning consignment image: %w", err)
		}
		c.Images = append(c.Images, key)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return fmt.Errorf("loading consignment images: %w", err)
	}
	rows.Close()

	items, err := listItems(ctx, q, ItemFilter{ConsignmentID: c.ID})
	if err != nil {
		return err
	}
	if items == nil {
		items = []model.Item{}
	}
	c.Items = items
	return nil
}

// likeEscaper makes search text match literally inside a LIKE pattern.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ListConsignments returns one page of batches matching f, newest first,
// together with the total number of matches.
func ListConsignments(ctx context.Context, db *sql.DB, f ConsignmentFilter) ([]model.Consignment, int, error) {
	f.Normalize()

	var where []string
	var args []any
	if f.Type != "" {
		where = append(where, `c.type = ?`)
		args = append(args, f.Type)
	}
	if f.OwnerID != 0 {
		where = append(where, `c.user_id = ?`)
		args = append(args, f.OwnerID)
	}
	if q := strings.TrimSpace(f.Query); q != "" {
		like := "%" + likeEscaper.Replace(q) + "%"
		where = append(where, `(c.lot_code LIKE ? ESCAPE '\' OR c.consignor_name LIKE ? ESCAPE '\'
			OR EXISTS (SELECT 1 FROM items i WHERE i.consignment_id = c.id AND i.product_name LIKE ? ESCAPE '\'))`)
		args = append(args, like, like, like)
	}

	cond := ""
	if len(where) > 0 {
		cond = ` WHERE ` + strings.Join(where, ` AND `)
	}

	var total int
	if err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM consignments c`+cond, args...,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting consignments: %w", err)
	}

	rows, err := db.QueryContext(ctx,
		consignmentSelect+cond+` ORDER BY c.date DESC, c.id DESC LIMIT ? OFFSET ?`,
		append(args, f.PageSize, (f.Page-1)*f.PageSize)...,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("listing consignments: %w", err)
	}
	var list []model.Consignment
	for rows.Next() {
		c, err := scanConsignment(rows)
		if err != nil {
			rows.Close()
			return nil, 0, fmt.Errorf("scanning consignment: %w", err)
		}
		list = append(list, *c)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, 0, fmt.Errorf("listing consignments: %w", err)
	}
	rows.Close()

	for i := range list {
		if err := loadChildren(ctx, db, &list[i]); err != nil {
			return nil, 0, err
		}
	}
	return list, total, nil
}

// CreateConsignment stores a new batch owned by c.UserID together with its
// items and images. The lot code and the total are generated; any values in
// c are ignored.
func CreateConsignment(ctx context.Context, db *sql.DB, c *model.Consignment) (*model.Consignment, error) {
	var id int64
	var err error
	for attempt := 0; attempt < lotCodeAttempts; attempt++ {
		id, err = createConsignment(ctx, db, c)
		if err == nil || !isUniqueViolation(err) {
			break
		}
	}
	if err != nil {
		return nil, err
	}
	return GetConsignment(ctx, db, id)
}

func createConsignment(ctx context.Context, db *sql.DB, c *model.Consignment) (int64, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	lot, err := nextLotCode(ctx, tx, c.Type, c.Date)
	if err != nil {
		return 0, err
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO consignments (date, lot_code, type, consignor_name, contact_number, address, total_price, user_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		c.Date, lot, c.Type, c.ConsignorName, c.ContactNumber, c.Address,
		model.SumConfirmed(c.Items), c.UserID,
	)
	if err != nil {
		return 0, fmt.Errorf("creating consignment: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting consignment id: %w", err)
	}

	if err := insertImages(ctx, tx, id, c.Images); err != nil {
		return 0, err
	}
	for i := range c.Items {
		it := c.Items[i]
		prepareNewItem(&it, c.Type)
		if _, err := insertItem(ctx, tx, id, &it); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing consignment: %w", err)
	}
	return id, nil
}

// nextLotCode returns the next free lot code for batches of typ dated date,
// in the form PREFIX-YYYYMMDD-NNN.
func nextLotCode(ctx context.Context, q querier, typ, date string) (string, error) {
	prefix := model.LotPrefix(typ)
	if prefix == "" {
		return "", fmt.Errorf("unknown batch type %q", typ)
	}
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return "", fmt.Errorf("parsing batch date: %w", err)
	}

	base := prefix + "-" + day.Format("20060102") + "-"
	var last int
	if err := q.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(CAST(substr(lot_code, ?) AS INTEGER)), 0)
		 FROM consignments WHERE lot_code LIKE ?`,
		len(base)+1, base+"%",
	).Scan(&last); err != nil {
		return "", fmt.Errorf("finding last lot code: %w", err)
	}
	return fmt.Sprintf("%s%03d", base, last+1), nil
}

// prepareNewItem discards client-supplied workflow states so every new item
// starts from the initial states of its batch type.
func prepareNewItem(it *model.Item, batchType string) {
	it.ID = 0
	it.ProductStatus, it.Status, it.RepairStatus, it.PawnStatus, it.ConditionStatus = "", "", "", "", ""
	status.Init(it, batchType)
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func insertImages(ctx context.Context, q querier, consignmentID int64, keys []string) error {
	for i, key := range keys {
		if _, err := q.ExecContext(ctx,
			`INSERT INTO consignment_images (consignment_id, position, image_key) VALUES (?, ?, ?)`,
			consignmentID, i, key,
		); err != nil {
			return fmt.Errorf("adding consignment image: %w", err)
		}
	}
	return nil
}

// UpdateConsignment edits a batch. Header fields and images are replaced. The
// items in c become the batch's item set: items with a known ID have every
// editable field replaced (an omitted imageKey or isReserveOpen clears it),
// items without one are added, and items missing from c are deleted. Images no
// longer referenced anywhere are removed. Type and lot code never change, and
// workflow states are only changed through transitions.
func UpdateConsignment(ctx context.Context, db *sql.DB, id int64, c *model.Consignment) (*model.Consignment, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	current, err := getConsignment(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, ErrNotFound
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE consignments SET date = ?, consignor_name = ?, contact_number = ?, address = ?,
		        updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		c.Date, c.ConsignorName, c.ContactNumber, c.Address, id,
	); err != nil {
		return nil, fmt.Errorf("updating consignment: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM consignment_images WHERE consignment_id = ?`, id,
	); err != nil {
		return nil, fmt.Errorf("clearing consignment images: %w", err)
	}
	if err := insertImages(ctx, tx, id, c.Images); err != nil {
		return nil, err
	}

	existing := make(map[int64]model.Item, len(current.Items))
	for _, it := range current.Items {
		existing[it.ID] = it
	}

	kept := make(map[int64]bool)
	for i := range c.Items {
		in := c.Items[i]
		if old, ok := existing[in.ID]; ok && in.ID != 0 {
			model.PatchFrom(in).Apply(&old)
			if err := saveItem(ctx, tx, &old); err != nil {
				return nil, err
			}
			kept[old.ID] = true
			continue
		}

		prepareNewItem(&in, current.Type)
		if _, err := insertItem(ctx, tx, id, &in); err != nil {
			return nil, err
		}
	}

	for _, it := range current.Items {
		if kept[it.ID] {
			continue
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM items WHERE id = ?`, it.ID); err != nil {
			return nil, fmt.Errorf("deleting item: %w", err)
		}
	}

	// Every image the batch used before the edit is a candidate; deleteImages
	// keeps the ones still referenced.
	candidates := append([]string(nil), current.Images...)
	for i := range current.Items {
		candidates = append(candidates, itemImageKeys(&current.Items[i])...)
	}
	if err := deleteImages(ctx, tx, candidates); err != nil {
		return nil, err
	}

	if err := recomputeTotal(ctx, tx, id); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing consignment update: %w", err)
	}

	return GetConsignment(ctx, db, id)
}

// DeleteConsignment removes a batch, its items, their history and the images
// they reference that no other batch or item uses.
func DeleteConsignment(ctx context.Context, db *sql.DB, id int64) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	c, err := getConsignment(ctx, tx, id)
	if err != nil {
		return err
	}
	if c == nil {
		return ErrNotFound
	}

	keys := append([]string(nil), c.Images...)
	for i := range c.Items {
		keys = append(keys, itemImageKeys(&c.Items[i])...)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM consignments WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting consignment: %w", err)
	}
	if err := deleteImages(ctx, tx, keys); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing consignment delete: %w", err)
	}
	return nil
}

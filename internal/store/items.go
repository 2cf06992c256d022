package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/erazemk/backoffice/internal/model"
	"github.com/erazemk/backoffice/internal/status"
)

const itemSelect = `
SELECT i.id, i.consignment_id, i.product_name, i.category, i.condition,
       i.product_status, i.status, i.repair_status, i.pawn_status, i.condition_status,
       i.confirmed_price, i.sales_price, i.sales_channel, i.image_key,
       i.defect_images, i.condition_images, i.is_reserve_open,
       i.reserve_start_date, i.reserve_end_date, i.repair_start_date, i.repair_end_date,
       i.redemption_price, i.pawn_end_date, i.redemption_slips, i.slip_image,
       i.created_at, i.updated_at,
       c.user_id, c.lot_code, c.type, c.date, c.consignor_name
FROM items i
JOIN consignments c ON c.id = i.consignment_id`

func scanItem(row interface{ Scan(...any) error }) (*model.Item, error) {
	it := &model.Item{}
	var defects, evidence, slips string
	err := row.Scan(
		&it.ID, &it.ConsignmentID, &it.ProductName, &it.Category, &it.Condition,
		&it.ProductStatus, &it.Status, &it.RepairStatus, &it.PawnStatus, &it.ConditionStatus,
		&it.ConfirmedPrice, &it.SalesPrice, &it.SalesChannel, &it.ImageKey,
		&defects, &evidence, &it.IsReserveOpen,
		&it.ReserveStartDate, &it.ReserveEndDate, &it.RepairStartDate, &it.RepairEndDate,
		&it.RedemptionPrice, &it.PawnEndDate, &slips, &it.SlipImage,
		&it.CreatedAt, &it.UpdatedAt,
		&it.OwnerID, &it.LotCode, &it.BatchType, &it.BatchDate, &it.ConsignorName,
	)
	if err != nil {
		return nil, err
	}
	if it.DefectImages, err = decodeKeys(defects); err != nil {
		return nil, err
	}
	if it.ConditionImages, err = decodeKeys(evidence); err != nil {
		return nil, err
	}
	if it.RedemptionSlips, err = decodeKeys(slips); err != nil {
		return nil, err
	}
	return it, nil
}

// GetItem returns an item by ID, with its batch fields joined in.
func GetItem(ctx context.Context, db *sql.DB, id int64) (*model.Item, error) {
	return getItem(ctx, db, id)
}

func getItem(ctx context.Context, q querier, id int64) (*model.Item, error) {
	it, err := scanItem(q.QueryRowContext(ctx, itemSelect+` WHERE i.id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting item: %w", err)
	}
	return it, nil
}

// ItemFilter narrows ListItems. Zero fields match everything.
type ItemFilter struct {
	Types         []string
	Status        string
	OwnerID       int64
	ConsignmentID int64
}

// ListItems returns items matching f, newest batch first.
func ListItems(ctx context.Context, db *sql.DB, f ItemFilter) ([]model.Item, error) {
	return listItems(ctx, db, f)
}

func listItems(ctx context.Context, q querier, f ItemFilter) ([]model.Item, error) {
	var where []string
	var args []any
	if len(f.Types) > 0 {
		where = append(where, `c.type IN (`+strings.TrimSuffix(strings.Repeat("?,", len(f.Types)), ",")+`)`)
		for _, t := range f.Types {
			args = append(args, t)
		}
	}
	if f.Status != "" {
		where = append(where, `i.status = ?`)
		args = append(args, f.Status)
	}
	if f.OwnerID != 0 {
		where = append(where, `c.user_id = ?`)
		args = append(args, f.OwnerID)
	}
	if f.ConsignmentID != 0 {
		where = append(where, `i.consignment_id = ?`)
		args = append(args, f.ConsignmentID)
	}

	query := itemSelect
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, ` AND `)
	}
	query += ` ORDER BY c.date DESC, c.id DESC, i.id`

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	defer rows.Close()

	var items []model.Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		items = append(items, *it)
	}
	return items, rows.Err()
}

// UpdateItem applies patch to an item and recomputes the batch total.
func UpdateItem(ctx context.Context, db *sql.DB, id int64, patch model.ItemPatch) (*model.Item, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	it, err := getItem(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if it == nil {
		return nil, ErrNotFound
	}

	patch.Apply(it)
	if err := saveItem(ctx, tx, it); err != nil {
		return nil, err
	}
	if err := recomputeTotal(ctx, tx, it.ConsignmentID); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing item update: %w", err)
	}

	return GetItem(ctx, db, id)
}

// AppendItemImage adds key to the image list of item id chosen by list,
// reading and writing the item in one transaction so concurrent uploads
// cannot overwrite each other. It returns status.ErrImageLimit when the
// list is full.
func AppendItemImage(ctx context.Context, db *sql.DB, id int64, list func(*model.Item) *[]string, key string) (*model.Item, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	it, err := getItem(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if it == nil {
		return nil, ErrNotFound
	}

	target := list(it)
	images, err := status.AppendImage(*target, key)
	if err != nil {
		return nil, err
	}
	*target = images
	if err := saveItem(ctx, tx, it); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing image append: %w", err)
	}
	return it, nil
}

// SaveTransition writes the new state of it and records the change in the
// item history, atomically.
func SaveTransition(ctx context.Context, db *sql.DB, it *model.Item, entry model.HistoryEntry) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if err := saveItem(ctx, tx, it); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO item_history (item_id, workflow, from_status, to_status, changed_by)
		 VALUES (?, ?, ?, ?, ?)`,
		it.ID, entry.Workflow, entry.From, entry.To, entry.ChangedBy,
	); err != nil {
		return fmt.Errorf("recording item history: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transition: %w", err)
	}
	return nil
}

func insertItem(ctx context.Context, q querier, consignmentID int64, it *model.Item) (int64, error) {
	defects, evidence, slips, err := encodeItemKeys(it)
	if err != nil {
		return 0, err
	}

	res, err := q.ExecContext(ctx,
		`INSERT INTO items (consignment_id, product_name, category, condition,
		        product_status, status, repair_status, pawn_status, condition_status,
		        confirmed_price, sales_price, sales_channel, image_key,
		        defect_images, condition_images, is_reserve_open,
		        reserve_start_date, reserve_end_date, repair_start_date, repair_end_date,
		        redemption_price, pawn_end_date, redemption_slips, slip_image)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		consignmentID, it.ProductName, it.Category, it.Condition,
		it.ProductStatus, it.Status, it.RepairStatus, it.PawnStatus, it.ConditionStatus,
		it.ConfirmedPrice, it.SalesPrice, it.SalesChannel, it.ImageKey,
		defects, evidence, it.IsReserveOpen,
		it.ReserveStartDate, it.ReserveEndDate, it.RepairStartDate, it.RepairEndDate,
		it.RedemptionPrice, it.PawnEndDate, slips, it.SlipImage,
	)
	if err != nil {
		return 0, fmt.Errorf("creating item: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting item id: %w", err)
	}
	return id, nil
}

func saveItem(ctx context.Context, q querier, it *model.Item) error {
	defects, evidence, slips, err := encodeItemKeys(it)
	if err != nil {
		return err
	}

	res, err := q.ExecContext(ctx,
		`UPDATE items SET product_name = ?, category = ?, condition = ?,
		        product_status = ?, status = ?, repair_status = ?, pawn_status = ?, condition_status = ?,
		        confirmed_price = ?, sales_price = ?, sales_channel = ?, image_key = ?,
		        defect_images = ?, condition_images = ?, is_reserve_open = ?,
		        reserve_start_date = ?, reserve_end_date = ?, repair_start_date = ?, repair_end_date = ?,
		        redemption_price = ?, pawn_end_date = ?, redemption_slips = ?, slip_image = ?,
		        updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		it.ProductName, it.Category, it.Condition,
		it.ProductStatus, it.Status, it.RepairStatus, it.PawnStatus, it.ConditionStatus,
		it.ConfirmedPrice, it.SalesPrice, it.SalesChannel, it.ImageKey,
		defects, evidence, it.IsReserveOpen,
		it.ReserveStartDate, it.ReserveEndDate, it.RepairStartDate, it.RepairEndDate,
		it.RedemptionPrice, it.PawnEndDate, slips, it.SlipImage,
		it.ID,
	)
	if err != nil {
		return fmt.Errorf("saving item: %w", err)
	}
	return checkAffected(res)
}

func encodeItemKeys(it *model.Item) (defects, evidence, slips string, err error) {
	if defects, err = encodeKeys(it.DefectImages); err != nil {
		return
	}
	if evidence, err = encodeKeys(it.ConditionImages); err != nil {
		return
	}
	slips, err = encodeKeys(it.RedemptionSlips)
	return
}

// itemImageKeys lists every image an item references.
func itemImageKeys(it *model.Item) []string {
	keys := []string{it.ImageKey, it.SlipImage}
	keys = append(keys, it.DefectImages...)
	keys = append(keys, it.ConditionImages...)
	return append(keys, it.RedemptionSlips...)
}

// recomputeTotal sets the batch total to the sum of its items' confirmed
// prices. Prices are stored as text, so the sum is taken in Go.
func recomputeTotal(ctx context.Context, q querier, consignmentID int64) error {
	rows, err := q.QueryContext(ctx,
		`SELECT confirmed_price FROM items WHERE consignment_id = ?`, consignmentID,
	)
	if err != nil {
		return fmt.Errorf("loading item prices: %w", err)
	}
	total := decimal.Zero
	for rows.Next() {
		var p decimal.Decimal
		if err := rows.Scan(&p); err != nil {
			rows.Close()
			return fmt.Errorf("scanning item price: %w", err)
		}
		total = total.Add(p)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return fmt.Errorf("loading item prices: %w", err)
	}
	rows.Close()

	if _, err := q.ExecContext(ctx,
		`UPDATE consignments SET total_price = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		total, consignmentID,
	); err != nil {
		return fmt.Errorf("updating batch total: %w", err)
	}
	return nil
}

package store

import (
	"context"
	"database/sql"

	"github.com/erazemk/backoffice/internal/model"
)

// Records is the batch and item storage used by the API.
type Records interface {
	ListConsignments(ctx context.Context, f ConsignmentFilter) ([]model.Consignment, int, error)
	GetConsignment(ctx context.Context, id int64) (*model.Consignment, error)
	CreateConsignment(ctx context.Context, c *model.Consignment) (*model.Consignment, error)
	UpdateConsignment(ctx context.Context, id int64, c *model.Consignment) (*model.Consignment, error)
	DeleteConsignment(ctx context.Context, id int64) error
	ListItems(ctx context.Context, f ItemFilter) ([]model.Item, error)
	GetItem(ctx context.Context, id int64) (*model.Item, error)
	UpdateItem(ctx context.Context, id int64, patch model.ItemPatch) (*model.Item, error)
}

// SQLRecords implements Records on a SQLite database.
type SQLRecords struct {
	DB *sql.DB
}

var _ Records = SQLRecords{}

func (r SQLRecords) ListConsignments(ctx context.Context, f ConsignmentFilter) ([]model.Consignment, int, error) {
	return ListConsignments(ctx, r.DB, f)
}

func (r SQLRecords) GetConsignment(ctx context.Context, id int64) (*model.Consignment, error) {
	return GetConsignment(ctx, r.DB, id)
}

func (r SQLRecords) CreateConsignment(ctx context.Context, c *model.Consignment) (*model.Consignment, error) {
	return CreateConsignment(ctx, r.DB, c)
}

func (r SQLRecords) UpdateConsignment(ctx context.Context, id int64, c *model.Consignment) (*model.Consignment, error) {
	return UpdateConsignment(ctx, r.DB, id, c)
}

func (r SQLRecords) DeleteConsignment(ctx context.Context, id int64) error {
	return DeleteConsignment(ctx, r.DB, id)
}

func (r SQLRecords) ListItems(ctx context.Context, f ItemFilter) ([]model.Item, error) {
	return ListItems(ctx, r.DB, f)
}

func (r SQLRecords) GetItem(ctx context.Context, id int64) (*model.Item, error) {
	return GetItem(ctx, r.DB, id)
}

func (r SQLRecords) UpdateItem(ctx context.Context, id int64, patch model.ItemPatch) (*model.Item, error) {
	return UpdateItem(ctx, r.DB, id, patch)
}

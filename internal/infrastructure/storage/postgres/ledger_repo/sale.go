package ledger_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/jomora1/proyvarchar/internal/core/apperror"
	"github.com/jomora1/proyvarchar/internal/core/id"
	"github.com/jomora1/proyvarchar/internal/core/types"
	"github.com/jomora1/proyvarchar/internal/domain/sales"
	"github.com/jomora1/proyvarchar/internal/infrastructure/storage/postgres"
)

const (
	saleTable     = "sales"
	saleItemTable = "sale_items"
)

var _ sales.Repository = (*SaleRepo)(nil)

// SaleRepo implements sales.Repository.
//
// Item reads order by created sequence; that ordering is the stable
// tie-break for equal unit prices during allocation.
type SaleRepo struct {
	baseRepo
	saleCols []string
	itemCols []string
}

// NewSaleRepo creates a new sale repository.
func NewSaleRepo(txManager *postgres.TxManager) *SaleRepo {
	return &SaleRepo{
		baseRepo: baseRepo{txManager: txManager},
		saleCols: postgres.ExtractDBColumns[sales.Sale](),
		itemCols: postgres.ExtractDBColumns[sales.Item](),
	}
}

func (r *SaleRepo) baseSelect() squirrel.SelectBuilder {
	return r.Builder().Select(r.saleCols...).From(saleTable)
}

func (r *SaleRepo) CreateSale(ctx context.Context, sale *sales.Sale) error {
	q := r.Builder().
		Insert(saleTable).
		SetMap(postgres.StructToMap(sale))

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
		return apperror.NewStoreFailure(fmt.Errorf("insert sale: %w", err))
	}
	return nil
}

func (r *SaleRepo) CreateItems(ctx context.Context, items []sales.Item) error {
	if len(items) == 0 {
		return nil
	}

	q := r.Builder().
		Insert(saleItemTable).
		Columns(r.itemCols...)
	for i := range items {
		data := postgres.StructToMap(&items[i])
		row := make([]any, 0, len(r.itemCols))
		for _, col := range r.itemCols {
			row = append(row, data[col])
		}
		q = q.Values(row...)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
		return apperror.NewStoreFailure(fmt.Errorf("insert items: %w", err))
	}
	return nil
}

func (r *SaleRepo) GetSale(ctx context.Context, saleID id.ID) (*sales.Sale, error) {
	q := r.baseSelect().
		Where(squirrel.Eq{"id": saleID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var sale sales.Sale
	if err := pgxscan.Get(ctx, r.querier(ctx), &sale, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("sale", saleID.String())
		}
		return nil, apperror.NewStoreFailure(fmt.Errorf("get sale: %w", err))
	}
	return &sale, nil
}

func (r *SaleRepo) GetItems(ctx context.Context, saleID id.ID) ([]sales.Item, error) {
	q := r.Builder().
		Select(r.itemCols...).
		From(saleItemTable).
		Where(squirrel.Eq{"sale_id": saleID}).
		OrderBy("seq ASC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []sales.Item
	if err := pgxscan.Select(ctx, r.querier(ctx), &items, sql, args...); err != nil {
		return nil, apperror.NewStoreFailure(fmt.Errorf("get items: %w", err))
	}
	return items, nil
}

func (r *SaleRepo) UpdateSalePayment(ctx context.Context, saleID id.ID, paid types.Money, status sales.Status) error {
	q := r.Builder().
		Update(saleTable).
		Set("paid", paid).
		Set("status", status).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": saleID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return apperror.NewStoreFailure(fmt.Errorf("update sale payment: %w", err))
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("sale", saleID.String())
	}
	return nil
}

func (r *SaleRepo) UpdateItemPayment(ctx context.Context, itemID id.ID, paid, pending types.Money) error {
	q := r.Builder().
		Update(saleItemTable).
		Set("paid", paid).
		Set("pending", pending).
		Where(squirrel.Eq{"id": itemID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return apperror.NewStoreFailure(fmt.Errorf("update item payment: %w", err))
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("sale item", itemID.String())
	}
	return nil
}

func (r *SaleRepo) UpdateItemCut(ctx context.Context, itemID id.ID, cutUnits int, isCutIncluded bool, cutID id.ID) error {
	q := r.Builder().
		Update(saleItemTable).
		Set("cut_units", cutUnits).
		Set("is_cut_included", isCutIncluded).
		Set("cut_id", cutID).
		Where(squirrel.Eq{"id": itemID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return apperror.NewStoreFailure(fmt.Errorf("update item cut: %w", err))
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("sale item", itemID.String())
	}
	return nil
}

func (r *SaleRepo) List(ctx context.Context) ([]*sales.Sale, error) {
	return r.list(ctx, r.baseSelect().OrderBy("date DESC"))
}

func (r *SaleRepo) ListByClient(ctx context.Context, clientID id.ID) ([]*sales.Sale, error) {
	q := r.baseSelect().
		Where(squirrel.Eq{"client_id": clientID}).
		OrderBy("date ASC")
	return r.list(ctx, q)
}

func (r *SaleRepo) list(ctx context.Context, q squirrel.SelectBuilder) ([]*sales.Sale, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var list []*sales.Sale
	if err := pgxscan.Select(ctx, r.querier(ctx), &list, sql, args...); err != nil {
		return nil, apperror.NewStoreFailure(fmt.Errorf("list sales: %w", err))
	}
	return list, nil
}

func (r *SaleRepo) ListAllItems(ctx context.Context) ([]sales.Item, error) {
	q := r.Builder().
		Select(r.itemCols...).
		From(saleItemTable).
		OrderBy("sale_id ASC", "seq ASC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []sales.Item
	if err := pgxscan.Select(ctx, r.querier(ctx), &items, sql, args...); err != nil {
		return nil, apperror.NewStoreFailure(fmt.Errorf("list all items: %w", err))
	}
	return items, nil
}

func (r *SaleRepo) CountByClient(ctx context.Context, clientID id.ID) (int, error) {
	q := r.Builder().
		Select("COUNT(*)").
		From(saleTable).
		Where(squirrel.Eq{"client_id": clientID})

	sql, args, err := q.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build query: %w", err)
	}

	var count int
	if err := r.querier(ctx).QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, apperror.NewStoreFailure(fmt.Errorf("count sales: %w", err))
	}
	return count, nil
}

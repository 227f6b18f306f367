package ledger_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/jomora1/proyvarchar/internal/core/apperror"
	"github.com/jomora1/proyvarchar/internal/core/id"
	"github.com/jomora1/proyvarchar/internal/domain/purchases"
	"github.com/jomora1/proyvarchar/internal/infrastructure/storage/postgres"
)

const (
	purchaseTable     = "purchases"
	purchaseLineTable = "purchase_lines"
)

var _ purchases.Repository = (*PurchaseRepo)(nil)

// PurchaseRepo implements purchases.Repository.
type PurchaseRepo struct {
	baseRepo
	purchaseCols []string
	lineCols     []string
}

// NewPurchaseRepo creates a new purchase repository.
func NewPurchaseRepo(txManager *postgres.TxManager) *PurchaseRepo {
	return &PurchaseRepo{
		baseRepo:     baseRepo{txManager: txManager},
		purchaseCols: postgres.ExtractDBColumns[purchases.Purchase](),
		lineCols:     postgres.ExtractDBColumns[purchases.Line](),
	}
}

func (r *PurchaseRepo) baseSelect() squirrel.SelectBuilder {
	return r.Builder().Select(r.purchaseCols...).From(purchaseTable)
}

func (r *PurchaseRepo) Create(ctx context.Context, p *purchases.Purchase) error {
	q := r.Builder().
		Insert(purchaseTable).
		SetMap(postgres.StructToMap(p))

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
		return apperror.NewStoreFailure(fmt.Errorf("insert purchase: %w", err))
	}
	return nil
}

func (r *PurchaseRepo) SaveLines(ctx context.Context, lines []purchases.Line) error {
	if len(lines) == 0 {
		return nil
	}

	q := r.Builder().
		Insert(purchaseLineTable).
		Columns(r.lineCols...)
	for i := range lines {
		data := postgres.StructToMap(&lines[i])
		row := make([]any, 0, len(r.lineCols))
		for _, col := range r.lineCols {
			row = append(row, data[col])
		}
		q = q.Values(row...)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
		return apperror.NewStoreFailure(fmt.Errorf("insert purchase lines: %w", err))
	}
	return nil
}

func (r *PurchaseRepo) GetByID(ctx context.Context, purchaseID id.ID) (*purchases.Purchase, error) {
	q := r.baseSelect().
		Where(squirrel.Eq{"id": purchaseID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var p purchases.Purchase
	if err := pgxscan.Get(ctx, r.querier(ctx), &p, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("purchase", purchaseID.String())
		}
		return nil, apperror.NewStoreFailure(fmt.Errorf("get purchase: %w", err))
	}
	return &p, nil
}

func (r *PurchaseRepo) GetLines(ctx context.Context, purchaseID id.ID) ([]purchases.Line, error) {
	q := r.Builder().
		Select(r.lineCols...).
		From(purchaseLineTable).
		Where(squirrel.Eq{"purchase_id": purchaseID}).
		OrderBy("product_name ASC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var lines []purchases.Line
	if err := pgxscan.Select(ctx, r.querier(ctx), &lines, sql, args...); err != nil {
		return nil, apperror.NewStoreFailure(fmt.Errorf("get purchase lines: %w", err))
	}
	return lines, nil
}

func (r *PurchaseRepo) List(ctx context.Context) ([]*purchases.Purchase, error) {
	return r.list(ctx, r.baseSelect().OrderBy("date DESC"))
}

func (r *PurchaseRepo) ListByDateRange(ctx context.Context, from, to time.Time) ([]*purchases.Purchase, error) {
	q := r.baseSelect().
		Where(squirrel.GtOrEq{"date": from}).
		Where(squirrel.LtOrEq{"date": to}).
		OrderBy("date DESC")
	return r.list(ctx, q)
}

func (r *PurchaseRepo) list(ctx context.Context, q squirrel.SelectBuilder) ([]*purchases.Purchase, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var list []*purchases.Purchase
	if err := pgxscan.Select(ctx, r.querier(ctx), &list, sql, args...); err != nil {
		return nil, apperror.NewStoreFailure(fmt.Errorf("list purchases: %w", err))
	}
	return list, nil
}

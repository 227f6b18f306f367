package catalog_repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jomora1/proyvarchar/internal/core/apperror"
	"github.com/jomora1/proyvarchar/internal/core/types"
	"github.com/jomora1/proyvarchar/internal/domain/catalogs/product"
	"github.com/jomora1/proyvarchar/internal/infrastructure/storage/postgres"
)

const productTable = "products"

// Compile-time check.
var _ product.Repository = (*ProductRepo)(nil)

// ProductRepo implements product.Repository.
type ProductRepo struct {
	baseRepo
	cols []string
}

// NewProductRepo creates a new product repository.
func NewProductRepo(txManager *postgres.TxManager) *ProductRepo {
	return &ProductRepo{
		baseRepo: baseRepo{txManager: txManager},
		cols:     postgres.ExtractDBColumns[product.Product](),
	}
}

func (r *ProductRepo) baseSelect() squirrel.SelectBuilder {
	return r.Builder().Select(r.cols...).From(productTable)
}

// Create inserts a new product using its "db" tags.
func (r *ProductRepo) Create(ctx context.Context, p *product.Product) error {
	q := r.Builder().
		Insert(productTable).
		SetMap(postgres.StructToMap(p))

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperror.NewDuplicate("product", "code", p.Code)
		}
		return apperror.NewStoreFailure(fmt.Errorf("insert product: %w", err))
	}
	return nil
}

// Update rewrites all mutable columns of the product row.
func (r *ProductRepo) Update(ctx context.Context, p *product.Product) error {
	data := postgres.StructToMap(p)
	delete(data, "code")
	delete(data, "created_at")

	q := r.Builder().
		Update(productTable).
		SetMap(data).
		Where(squirrel.Eq{"code": p.Code})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return apperror.NewStoreFailure(fmt.Errorf("update product: %w", err))
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("product", p.Code)
	}
	return nil
}

// Delete removes the product row.
func (r *ProductRepo) Delete(ctx context.Context, code string) error {
	q := r.Builder().
		Delete(productTable).
		Where(squirrel.Eq{"code": code})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	result, err := r.querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return apperror.NewConflict("product is referenced by existing documents").
				WithDetail("code", code)
		}
		return apperror.NewStoreFailure(fmt.Errorf("delete product: %w", err))
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("product", code)
	}
	return nil
}

// GetByCode retrieves a product by its code.
func (r *ProductRepo) GetByCode(ctx context.Context, code string) (*product.Product, error) {
	q := r.baseSelect().
		Where(squirrel.Eq{"code": code}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var p product.Product
	if err := pgxscan.Get(ctx, r.querier(ctx), &p, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("product", code)
		}
		return nil, apperror.NewStoreFailure(fmt.Errorf("get product: %w", err))
	}
	return &p, nil
}

// List retrieves all products ordered by name.
func (r *ProductRepo) List(ctx context.Context) ([]*product.Product, error) {
	q := r.baseSelect().OrderBy("name ASC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []*product.Product
	if err := pgxscan.Select(ctx, r.querier(ctx), &items, sql, args...); err != nil {
		return nil, apperror.NewStoreFailure(fmt.Errorf("list products: %w", err))
	}
	return items, nil
}

// AdjustStock changes the stock count by delta. The stock CHECK constraint
// rejects a negative result.
func (r *ProductRepo) AdjustStock(ctx context.Context, code string, delta int) error {
	q := r.Builder().
		Update(productTable).
		Set("stock", squirrel.Expr("stock + ?", delta)).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"code": code})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23514" {
			return apperror.NewInsufficientStock(code, -delta, 0)
		}
		return apperror.NewStoreFailure(fmt.Errorf("adjust stock: %w", err))
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("product", code)
	}
	return nil
}

// RecordPurchase increments stock and refreshes last-purchase bookkeeping.
func (r *ProductRepo) RecordPurchase(ctx context.Context, code string, qty int, unitCost types.Money, at time.Time) error {
	q := r.Builder().
		Update(productTable).
		Set("stock", squirrel.Expr("stock + ?", qty)).
		Set("last_purchase_date", at).
		Set("last_purchase_cost", unitCost).
		Set("updated_at", at).
		Where(squirrel.Eq{"code": code})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return apperror.NewStoreFailure(fmt.Errorf("record purchase: %w", err))
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("product", code)
	}
	return nil
}

// IsReferenced reports whether a sale item or purchase line uses the code.
func (r *ProductRepo) IsReferenced(ctx context.Context, code string) (bool, error) {
	sql := `
		SELECT 1 WHERE EXISTS (
			SELECT 1 FROM sale_items WHERE product_code = $1
		) OR EXISTS (
			SELECT 1 FROM purchase_lines WHERE product_code = $1
		)
	`
	var one int
	err := r.querier(ctx).QueryRow(ctx, sql, code).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, apperror.NewStoreFailure(fmt.Errorf("check references: %w", err))
	}
	return true, nil
}

package catalog_repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jomora1/proyvarchar/internal/core/apperror"
	"github.com/jomora1/proyvarchar/internal/core/id"
	"github.com/jomora1/proyvarchar/internal/domain/catalogs/client"
	"github.com/jomora1/proyvarchar/internal/infrastructure/storage/postgres"
)

const clientTable = "clients"

var _ client.Repository = (*ClientRepo)(nil)

// ClientRepo implements client.Repository.
type ClientRepo struct {
	baseRepo
	cols []string
}

// NewClientRepo creates a new client repository.
func NewClientRepo(txManager *postgres.TxManager) *ClientRepo {
	return &ClientRepo{
		baseRepo: baseRepo{txManager: txManager},
		cols:     postgres.ExtractDBColumns[client.Client](),
	}
}

func (r *ClientRepo) baseSelect() squirrel.SelectBuilder {
	return r.Builder().Select(r.cols...).From(clientTable)
}

func (r *ClientRepo) Create(ctx context.Context, c *client.Client) error {
	q := r.Builder().
		Insert(clientTable).
		SetMap(postgres.StructToMap(c))

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
		return apperror.NewStoreFailure(fmt.Errorf("insert client: %w", err))
	}
	return nil
}

func (r *ClientRepo) Update(ctx context.Context, c *client.Client) error {
	data := postgres.StructToMap(c)
	delete(data, "id")
	delete(data, "created_at")

	q := r.Builder().
		Update(clientTable).
		SetMap(data).
		Where(squirrel.Eq{"id": c.ID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return apperror.NewStoreFailure(fmt.Errorf("update client: %w", err))
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("client", c.ID.String())
	}
	return nil
}

func (r *ClientRepo) Delete(ctx context.Context, clientID id.ID) error {
	q := r.Builder().
		Delete(clientTable).
		Where(squirrel.Eq{"id": clientID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	result, err := r.querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return apperror.NewConflict("client has recorded sales").
				WithDetail("id", clientID.String())
		}
		return apperror.NewStoreFailure(fmt.Errorf("delete client: %w", err))
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("client", clientID.String())
	}
	return nil
}

func (r *ClientRepo) GetByID(ctx context.Context, clientID id.ID) (*client.Client, error) {
	q := r.baseSelect().
		Where(squirrel.Eq{"id": clientID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var c client.Client
	if err := pgxscan.Get(ctx, r.querier(ctx), &c, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("client", clientID.String())
		}
		return nil, apperror.NewStoreFailure(fmt.Errorf("get client: %w", err))
	}
	return &c, nil
}

func (r *ClientRepo) List(ctx context.Context) ([]*client.Client, error) {
	q := r.baseSelect().OrderBy("name ASC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []*client.Client
	if err := pgxscan.Select(ctx, r.querier(ctx), &items, sql, args...); err != nil {
		return nil, apperror.NewStoreFailure(fmt.Errorf("list clients: %w", err))
	}
	return items, nil
}

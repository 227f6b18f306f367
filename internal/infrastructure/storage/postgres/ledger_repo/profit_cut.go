package ledger_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/jomora1/proyvarchar/internal/core/apperror"
	"github.com/jomora1/proyvarchar/internal/core/id"
	"github.com/jomora1/proyvarchar/internal/domain/profitcut"
	"github.com/jomora1/proyvarchar/internal/infrastructure/storage/postgres"
)

const profitCutTable = "profit_cuts"

var _ profitcut.Repository = (*ProfitCutRepo)(nil)

// ProfitCutRepo implements profitcut.Repository. The included item IDs are
// stored as a uuid array on the cut row.
type ProfitCutRepo struct {
	baseRepo
	cols []string
}

// NewProfitCutRepo creates a new profit-cut repository.
func NewProfitCutRepo(txManager *postgres.TxManager) *ProfitCutRepo {
	return &ProfitCutRepo{
		baseRepo: baseRepo{txManager: txManager},
		cols:     postgres.ExtractDBColumns[profitcut.ProfitCut](),
	}
}

func (r *ProfitCutRepo) Create(ctx context.Context, cut *profitcut.ProfitCut) error {
	q := r.Builder().
		Insert(profitCutTable).
		SetMap(postgres.StructToMap(cut))

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
		return apperror.NewStoreFailure(fmt.Errorf("insert profit cut: %w", err))
	}
	return nil
}

func (r *ProfitCutRepo) GetByID(ctx context.Context, cutID id.ID) (*profitcut.ProfitCut, error) {
	q := r.Builder().
		Select(r.cols...).
		From(profitCutTable).
		Where(squirrel.Eq{"id": cutID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var cut profitcut.ProfitCut
	if err := pgxscan.Get(ctx, r.querier(ctx), &cut, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("profit cut", cutID.String())
		}
		return nil, apperror.NewStoreFailure(fmt.Errorf("get profit cut: %w", err))
	}
	return &cut, nil
}

func (r *ProfitCutRepo) List(ctx context.Context) ([]*profitcut.ProfitCut, error) {
	q := r.Builder().
		Select(r.cols...).
		From(profitCutTable).
		OrderBy("date DESC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var list []*profitcut.ProfitCut
	if err := pgxscan.Select(ctx, r.querier(ctx), &list, sql, args...); err != nil {
		return nil, apperror.NewStoreFailure(fmt.Errorf("list profit cuts: %w", err))
	}
	return list, nil
}

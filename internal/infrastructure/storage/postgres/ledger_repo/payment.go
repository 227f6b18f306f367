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
	"github.com/jomora1/proyvarchar/internal/domain/payments"
	"github.com/jomora1/proyvarchar/internal/infrastructure/storage/postgres"
)

const paymentTable = "payments"

var _ payments.Repository = (*PaymentRepo)(nil)

// PaymentRepo implements payments.Repository. It also records the initial
// payment of a partially paid sale, which is why the sales service takes it
// as its PaymentRecorder.
type PaymentRepo struct {
	baseRepo
	cols []string
}

// NewPaymentRepo creates a new payment repository.
func NewPaymentRepo(txManager *postgres.TxManager) *PaymentRepo {
	return &PaymentRepo{
		baseRepo: baseRepo{txManager: txManager},
		cols:     postgres.ExtractDBColumns[payments.Payment](),
	}
}

func (r *PaymentRepo) Create(ctx context.Context, p *payments.Payment) error {
	q := r.Builder().
		Insert(paymentTable).
		SetMap(postgres.StructToMap(p))

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
		return apperror.NewStoreFailure(fmt.Errorf("insert payment: %w", err))
	}
	return nil
}

// RecordInitial appends the payment row for a sale that starts partially
// paid. Satisfies sales.PaymentRecorder.
func (r *PaymentRepo) RecordInitial(ctx context.Context, saleID id.ID, amount types.Money, date time.Time, userID string) (id.ID, error) {
	p := &payments.Payment{
		ID:        id.New(),
		SaleID:    saleID,
		Amount:    amount,
		Date:      date,
		UserID:    userID,
		CreatedAt: date,
	}
	if err := r.Create(ctx, p); err != nil {
		return id.Nil(), err
	}
	return p.ID, nil
}

func (r *PaymentRepo) ListBySale(ctx context.Context, saleID id.ID) ([]*payments.Payment, error) {
	q := r.Builder().
		Select(r.cols...).
		From(paymentTable).
		Where(squirrel.Eq{"sale_id": saleID}).
		OrderBy("date DESC")
	return r.list(ctx, q)
}

func (r *PaymentRepo) List(ctx context.Context) ([]*payments.Payment, error) {
	q := r.Builder().
		Select(r.cols...).
		From(paymentTable).
		OrderBy("date DESC")
	return r.list(ctx, q)
}

func (r *PaymentRepo) list(ctx context.Context, q squirrel.SelectBuilder) ([]*payments.Payment, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var list []*payments.Payment
	if err := pgxscan.Select(ctx, r.querier(ctx), &list, sql, args...); err != nil {
		return nil, apperror.NewStoreFailure(fmt.Errorf("list payments: %w", err))
	}
	return list, nil
}

// Package ledger_repo provides PostgreSQL implementations for the document
// ledgers (sales, payments, profit cuts, purchases).
package ledger_repo

import (
	"context"

	"github.com/Masterminds/squirrel"

	"github.com/jomora1/proyvarchar/internal/infrastructure/storage/postgres"
)

type baseRepo struct {
	txManager *postgres.TxManager
}

// Builder returns a squirrel builder with PostgreSQL placeholders.
func (r *baseRepo) Builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func (r *baseRepo) querier(ctx context.Context) postgres.Querier {
	return r.txManager.GetQuerier(ctx)
}

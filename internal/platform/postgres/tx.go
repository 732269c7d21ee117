// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// TxBeginner is satisfied by *pgxpool.Pool and pgx.Tx.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// WithTx runs fn inside a transaction. The transaction is committed when fn
// returns nil and rolled back otherwise. Errors returned by fn are passed
// through unwrapped so that [apperr] values keep their status.
func WithTx(ctx context.Context, db TxBeginner, fn func(tx pgx.Tx) error) error {
	transaction, err := db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("postgres: failed to begin transaction: %w", err)
	}
	defer transaction.Rollback(ctx)

	if err := fn(transaction); err != nil {
		return err
	}

	if err := transaction.Commit(ctx); err != nil {
		return fmt.Errorf("postgres: failed to commit transaction: %w", err)
	}

	return nil
}

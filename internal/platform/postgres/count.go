// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// RowQuerier is satisfied by *pgxpool.Pool and pgx.Tx.
type RowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

/*
CountPastEnd returns the total for a paginated listing.

Listings carry their total as a COUNT(*) OVER() column, which is absent when
the requested page lies past the end. In that case, and only then, the total
is read with countQuery instead.

Parameters:
  - windowTotal: The total scanned from the listing rows
  - rows: Number of rows the listing returned
  - offset: The listing OFFSET
  - countQuery: A SELECT COUNT(*) with the listing's WHERE clause
*/
func CountPastEnd(ctx context.Context, db RowQuerier, windowTotal, rows, offset int, countQuery string, args ...any) (int, error) {
	if rows > 0 || offset == 0 {
		return windowTotal, nil
	}

	var total int
	if err := db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("postgres: failed to count rows: %w", err)
	}
	return total, nil
}

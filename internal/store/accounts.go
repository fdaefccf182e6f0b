// Package store reads customer accounts from the external accounting
// database. Lookups feed the front end's account validation and receipt
// prefill; writes to the ledger live in the ledger package.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/dwgops/pospay/internal/domain"
)

// DB is the read-side subset of pgxpool.Pool.
type DB interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

type AccountStore struct {
	db DB
}

func NewAccountStore(db DB) *AccountStore {
	return &AccountStore{db: db}
}

// GetAccount fetches one account by its numeric code.
func (s *AccountStore) GetAccount(ctx context.Context, acct int64) (*domain.Account, error) {
	var a domain.Account
	err := s.db.QueryRow(ctx,
		"SELECT acct, last, first, inactive, balance, email FROM account WHERE acct = $1",
		acct,
	).Scan(&a.Acct, &a.LastName, &a.First, &a.Inactive, &a.Balance, &a.Email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("account query failed: %w", err)
	}
	return &a, nil
}

// SearchAccounts finds accounts whose first or last name contains q,
// case-insensitively. Results are capped so a one-letter search cannot drag
// the whole customer base across the wire.
func (s *AccountStore) SearchAccounts(ctx context.Context, q string) ([]domain.Account, error) {
	rows, err := s.db.Query(ctx,
		`SELECT acct, last, first, inactive, balance, email FROM account
		 WHERE last ILIKE '%' || $1 || '%' OR first ILIKE '%' || $1 || '%'
		 ORDER BY last, first
		 LIMIT 50`,
		q,
	)
	if err != nil {
		return nil, fmt.Errorf("account search failed: %w", err)
	}
	defer rows.Close()

	var accounts []domain.Account
	for rows.Next() {
		var a domain.Account
		if err := rows.Scan(&a.Acct, &a.LastName, &a.First, &a.Inactive, &a.Balance, &a.Email); err != nil {
			return nil, fmt.Errorf("account scan failed: %w", err)
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

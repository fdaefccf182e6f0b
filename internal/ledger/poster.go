// Package ledger posts approved payments into the external accounting
// database. The schema (account, location, transactiongroup, transaction,
// transactiongroupnote) is owned by the accounting system; this package only
// reads accounts, adjusts balances, and inserts rows referencing them.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/dwgops/pospay/internal/domain"
)

// Ledger schema constants: payment transaction type, the POS system user,
// and the tax/code bucket for card payments. Values are dictated by the
// accounting system.
const (
	trxTypePayment = 1
	posUser        = 13
	taxGroupCard   = 2
	trxCodeCard    = 2
)

// DB is the subset of pgxpool.Pool the poster needs. pgxmock satisfies it
// in tests.
type DB interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Poster writes one payment's group/detail/balance/note unit atomically.
type Poster struct {
	db       DB
	operator string // display name recorded in the audit note
	host     string // terminal hostname recorded in the audit note
	logger   *slog.Logger
	now      func() time.Time
}

// NewPoster builds a Poster. operator and host identify who applied the
// payment in the transactiongroupnote audit row.
func NewPoster(db DB, operator, host string, logger *slog.Logger) *Poster {
	return &Poster{db: db, operator: operator, host: host, logger: logger, now: time.Now}
}

// Post applies an approved payment of amount (major units, dollars) to
// accountID. It never returns an error: every failure mode is a
// PostingResult status, because by the time we are here the card has already
// been charged and the caller must decide how to surface the gap.
//
// The sentinel account short-circuits before any database interaction.
func (p *Poster) Post(ctx context.Context, accountID, authCode string, amount decimal.Decimal) domain.PostingResult {
	res := domain.PostingResult{AccountID: accountID, AuthCode: authCode}

	if accountID == domain.SentinelAccount {
		res.Status = domain.PostingExempt
		return res
	}

	acct, err := strconv.ParseInt(accountID, 10, 64)
	if err != nil {
		res.Status = domain.PostingAccountNotFound
		return res
	}

	newBalance, err := p.apply(ctx, acct, authCode, amount)
	switch {
	case errors.Is(err, domain.ErrAccountNotFound):
		res.Status = domain.PostingAccountNotFound
	case err != nil:
		p.logger.Error("ledger posting aborted", "account", accountID, "auth_code", authCode, "error", err)
		res.Status = domain.PostingFailed
		res.Reason = err
	default:
		res.Status = domain.PostingApplied
		res.NewBalance = newBalance
	}
	return res
}

// apply runs the four-step posting unit in one transaction. Any error rolls
// the whole unit back and leaves the account untouched.
func (p *Poster) apply(ctx context.Context, acct int64, authCode string, amount decimal.Decimal) (decimal.Decimal, error) {
	tx, err := p.db.Begin(ctx)
	if err != nil {
		return decimal.Zero, domain.E(domain.KindLedgerPosting, "tx begin failed", err)
	}
	defer tx.Rollback(ctx)

	var balance decimal.Decimal
	err = tx.QueryRow(ctx, "SELECT balance FROM account WHERE acct = $1", acct).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, domain.ErrAccountNotFound
		}
		return decimal.Zero, domain.E(domain.KindLedgerPosting, "account lookup failed", err)
	}

	// Payments reduce what the customer owes, so the ledger carries the
	// negative amount and the balance moves down.
	newBalance := balance.Sub(amount)
	negAmount := amount.Neg()

	var locationKey int64
	err = tx.QueryRow(ctx, "SELECT location_key FROM location WHERE account = $1", acct).Scan(&locationKey)
	if err != nil {
		return decimal.Zero, domain.E(domain.KindLedgerPosting, "location lookup failed", err)
	}

	now := p.now()
	postDate := now.Format("2006-01-02")

	var groupID int64
	err = tx.QueryRow(ctx,
		`INSERT INTO transactiongroup
		   (account, reference, postdate, trxdate, type, usr, time_stamp, amount,
		    running_balance, reverse_transaction, open, invoiced, hidden, location_key, tank_key)
		 VALUES ($1, $2, $3, $3, $4, $5, $6, $7, $8, false, $7, false, false, $9, 0)
		 RETURNING transaction_group`,
		acct, authCode, postDate, trxTypePayment, posUser, now, negAmount, newBalance, locationKey,
	).Scan(&groupID)
	if err != nil {
		return decimal.Zero, domain.E(domain.KindLedgerPosting, "group insert failed", err)
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO transaction
		   (transaction_group, account, reference, postdate, trxdate, type, usr,
		    time_stamp, amount, balance, reverse_transaction, location_key, tax_group, code)
		 VALUES ($1, $2, $3, $4, $4, $5, $6, $7, $8, $9, false, $10, $11, $12)`,
		groupID, acct, authCode, postDate, trxTypePayment, posUser, now, negAmount, newBalance,
		locationKey, taxGroupCard, trxCodeCard,
	)
	if err != nil {
		return decimal.Zero, domain.E(domain.KindLedgerPosting, "detail insert failed", err)
	}

	_, err = tx.Exec(ctx, "UPDATE account SET balance = $1 WHERE acct = $2", newBalance, acct)
	if err != nil {
		return decimal.Zero, domain.E(domain.KindLedgerPosting, "balance update failed", err)
	}

	note := fmt.Sprintf("Payment applied by %s on %s", p.operator, p.host)
	_, err = tx.Exec(ctx,
		"INSERT INTO transactiongroupnote (transaction_group, note) VALUES ($1, $2)", groupID, note)
	if err != nil {
		return decimal.Zero, domain.E(domain.KindLedgerPosting, "note insert failed", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return decimal.Zero, domain.E(domain.KindLedgerPosting, "tx commit failed", err)
	}
	return newBalance, nil
}

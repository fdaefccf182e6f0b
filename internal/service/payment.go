// Package service coordinates one payment submission end to end: validate,
// authorize, classify, post to the ledger, journal, and alert.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dwgops/pospay/internal/domain"
	"github.com/dwgops/pospay/internal/gateway"
	"github.com/dwgops/pospay/internal/respcode"
)

// Poster applies an approved payment to the ledger. Amount is in major
// units; the cents-to-dollars conversion happens exactly once, at this
// boundary.
type Poster interface {
	Post(ctx context.Context, accountID, authCode string, amount decimal.Decimal) domain.PostingResult
}

// Journalist appends one entry per payment attempt, any outcome.
type Journalist interface {
	Append(e domain.JournalEntry) error
}

// ReferenceSink receives the authorization reference when a payment did not
// land on a real ledger account, so the operator has it at hand. The desktop
// front end backs this with the clipboard.
type ReferenceSink interface {
	Copy(ref string) error
}

// FailureRecorder captures unclassified faults for later reconstruction.
type FailureRecorder interface {
	Record(context string, err error)
}

// NopSink discards references; used by front ends that surface the auth
// code in their own response instead.
type NopSink struct{}

func (NopSink) Copy(string) error { return nil }

// Orchestrator runs the submission state machine. One run per submit, no
// two runs concurrently per terminal.
type Orchestrator struct {
	authorizer gateway.Authorizer
	poster     Poster
	journal    Journalist
	alerts     interface{ Notify(message string) }
	refs       ReferenceSink
	failures   FailureRecorder
	logger     *slog.Logger
	now        func() time.Time
}

func NewOrchestrator(
	authorizer gateway.Authorizer,
	poster Poster,
	journal Journalist,
	alerts interface{ Notify(message string) },
	refs ReferenceSink,
	failures FailureRecorder,
	logger *slog.Logger,
) *Orchestrator {
	return &Orchestrator{
		authorizer: authorizer,
		poster:     poster,
		journal:    journal,
		alerts:     alerts,
		refs:       refs,
		failures:   failures,
		logger:     logger,
		now:        time.Now,
	}
}

const (
	genericErrorMsg  = "An error has occurred. Please check your inputs and try again."
	tooLargeMsg      = "Error: This amount is too large. Please use the physical machine."
	outcomeUnknown   = "unknown"
	outcomeDeclined  = "DECLINED"
	outcomeApproved  = "APPROVED"
	paymentCurrency  = "AUD"
)

// Process runs one submission to a terminal state. It never returns an
// error: every fault, classified or not, becomes an operator-facing outcome,
// and residual panics are converted to the generic path so the terminal
// stays usable.
func (o *Orchestrator) Process(ctx context.Context, req domain.PaymentRequest) (out domain.PaymentOutcome) {
	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("panic: %v", r)
			o.failures.Record("payment submission", err)
			o.logger.Error("payment submission panicked", "error", err)
			out = domain.PaymentOutcome{State: domain.StateGatewayFault, Message: genericErrorMsg}
		}
	}()

	amountCents, err := parseAmountCents(req.AmountText)
	if err != nil {
		o.failures.Record("amount parse", err)
		o.appendJournal(req, outcomeDeclined, "")
		return domain.PaymentOutcome{State: domain.StateValidationRejected, Message: genericErrorMsg}
	}

	if amountCents > domain.AmountCeilingCents {
		dollars := decimal.New(amountCents, -2)
		o.alerts.Notify(fmt.Sprintf("Payment declined due to excessive amount. Amount was: $%s", dollars.StringFixed(2)))
		o.appendJournal(req, outcomeDeclined, "")
		return domain.PaymentOutcome{State: domain.StateValidationRejected, Message: tooLargeMsg}
	}

	auth, err := o.authorizer.Authorize(ctx, gateway.ChargeRequest{
		CardNumber:   strings.ReplaceAll(req.CardNumber, " ", ""),
		ExpiryMonth:  req.ExpiryMonth,
		ExpiryYear:   req.ExpiryYear,
		CVC:          req.CVC,
		CustomerName: req.CustomerLabel,
		AmountCents:  amountCents,
		Description:  req.Description,
		Currency:     paymentCurrency,
	})
	if err != nil {
		if errors.Is(err, gateway.ErrBadRequest) {
			// The gateway refused the submission outright, which in
			// practice means a malformed card number.
			cls := respcode.Classify("INVALID_CARD_NUMBER")
			o.appendJournal(req, outcomeDeclined+" - "+cls.String(), "")
			o.alerts.Notify(fmt.Sprintf("Payment Failed: %v", err))
			return domain.PaymentOutcome{State: domain.StateDeclinedKnown, Message: cls.String()}
		}
		o.logger.Error("gateway fault", "error", err)
		o.appendJournal(req, outcomeUnknown, "")
		o.alerts.Notify(fmt.Sprintf("Payment failed. Gateway fault: %v", err))
		return domain.PaymentOutcome{State: domain.StateGatewayFault, Message: genericErrorMsg}
	}

	switch auth.Status {
	case domain.StatusApproved:
		return o.handleApproved(ctx, req, auth, amountCents)

	case domain.StatusDeclined:
		if respcode.Known(auth.DeclineReason) {
			cls := respcode.Classify(auth.DeclineReason)
			o.appendJournal(req, outcomeDeclined+" - "+cls.String(), "")
			return domain.PaymentOutcome{State: domain.StateDeclinedKnown, Message: cls.String()}
		}
		o.appendJournal(req, outcomeUnknown, "")
		o.alerts.Notify(fmt.Sprintf("Payment failed. Unknown error.\n%s", auth.DeclineReason))
		return domain.PaymentOutcome{
			State:   domain.StateDeclinedUnknown,
			Message: fmt.Sprintf("Error: The payment status is unknown (%s)", auth.DeclineReason),
		}

	default:
		o.appendJournal(req, outcomeUnknown, "")
		o.alerts.Notify(fmt.Sprintf("Payment failed. Unknown error.\n%s", auth.RawStatus))
		return domain.PaymentOutcome{
			State:   domain.StateDeclinedUnknown,
			Message: fmt.Sprintf("Error: The payment status is unknown (%s)", auth.RawStatus),
		}
	}
}

// handleApproved journals the capture, posts to the ledger, and decides
// whether the reference needs to go to the operator's sink. The payment is
// captured no matter what happens below; a posting gap is an accounting
// problem to reconcile, never a reason to fail the charge.
func (o *Orchestrator) handleApproved(ctx context.Context, req domain.PaymentRequest, auth domain.AuthorizationResult, amountCents int64) domain.PaymentOutcome {
	o.appendJournal(req, outcomeApproved, auth.AuthCode)

	accountID := leadingToken(req.CustomerLabel)
	amountDollars := decimal.New(amountCents, -2)
	res := o.poster.Post(ctx, accountID, auth.AuthCode, amountDollars)

	var message string
	switch res.Status {
	case domain.PostingExempt:
		message = fmt.Sprintf("Payment successful.\nReference: %s", auth.AuthCode)
	case domain.PostingApplied:
		message = fmt.Sprintf("Payment successful and applied to account %s.\nReference: %s", accountID, auth.AuthCode)
	case domain.PostingAccountNotFound:
		o.alerts.Notify(fmt.Sprintf("Account %s not found. Reference: %s Amount: %s",
			accountID, auth.AuthCode, amountDollars.StringFixed(2)))
		message = fmt.Sprintf("Payment successful, but account %s not found.\nReference: %s", accountID, auth.AuthCode)
	case domain.PostingFailed:
		o.alerts.Notify(fmt.Sprintf("Payment could not be posted to account %s. Reference: %s Amount: %s Error: %v",
			accountID, auth.AuthCode, amountDollars.StringFixed(2), res.Reason))
		message = fmt.Sprintf("Payment successful, but could not be applied to account %s.\nReference: %s", accountID, auth.AuthCode)
	}

	if !res.Applied() {
		if err := o.refs.Copy(auth.AuthCode); err != nil {
			o.logger.Warn("reference copy failed", "error", err)
		}
	}

	o.logger.Info("payment processed",
		"account", accountID, "auth_code", auth.AuthCode,
		"amount", amountDollars.StringFixed(2), "posting", res.Status)

	return domain.PaymentOutcome{
		State:    domain.StateSuccess,
		Message:  message,
		AuthCode: auth.AuthCode,
		Applied:  res.Applied(),
	}
}

func (o *Orchestrator) appendJournal(req domain.PaymentRequest, outcome, authCode string) {
	err := o.journal.Append(domain.JournalEntry{
		CustomerLabel: req.CustomerLabel,
		AmountText:    req.AmountText,
		Outcome:       outcome,
		UnixTime:      o.now().Unix(),
		AuthCode:      authCode,
	})
	if err != nil {
		// The journal is a local record; losing one line must not block
		// the payment flow, but the gap has to be reconstructable.
		o.failures.Record("journal append", err)
		o.logger.Error("journal append failed", "error", err)
	}
}

// parseAmountCents converts the typed amount ("$50.00") to minor units.
// Decimal arithmetic only: float rounding once produced off-by-one-cent
// ledger rows.
func parseAmountCents(text string) (int64, error) {
	trimmed := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(text), "$"))
	d, err := decimal.NewFromString(trimmed)
	if err != nil {
		return 0, domain.E(domain.KindValidation, "malformed amount", err)
	}
	if d.IsNegative() {
		return 0, domain.E(domain.KindValidation, "negative amount", nil)
	}
	return d.Shift(2).Round(0).IntPart(), nil
}

func leadingToken(label string) string {
	fields := strings.Fields(label)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

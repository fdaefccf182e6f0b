package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AmountCeilingCents is the largest charge the MOTO channel will accept, in
// minor units. Larger payments must go through the physical terminal.
const AmountCeilingCents = 300000

// SentinelAccount marks a payment for a customer who has no ledger account
// yet. The poster must not touch the database for it.
const SentinelAccount = "00000"

// PaymentRequest carries one submission from the operator form.
type PaymentRequest struct {
	CardNumber    string `json:"card_number"`
	ExpiryMonth   string `json:"expiry_month"`
	ExpiryYear    string `json:"expiry_year"`
	CVC           string `json:"cvc"`
	AmountText    string `json:"amount"`   // as typed, e.g. "$50.00"
	CustomerLabel string `json:"customer"` // "12345 Smith" or free text
	Description   string `json:"description"`
}

// AuthStatus is the gateway's verdict on a submission.
type AuthStatus string

const (
	StatusApproved AuthStatus = "APPROVED"
	StatusDeclined AuthStatus = "DECLINED"
	StatusUnknown  AuthStatus = "UNKNOWN"
)

// AuthorizationResult is the gateway response, produced once per request and
// consumed immediately by the orchestrator. Only its projection into a
// journal entry or ledger posting is ever persisted.
type AuthorizationResult struct {
	Status        AuthStatus
	DeclineReason string // reason code when Status is StatusDeclined
	RawStatus     string // gateway's literal status when not recognized
	AuthCode      string
}

// Account is the external ledger's view of a customer. This system reads it
// and adjusts its balance; it never creates or deletes accounts.
type Account struct {
	Acct     int64           `json:"acct"`
	LastName string          `json:"last"`
	First    *string         `json:"first"` // nil for business accounts
	Balance  decimal.Decimal `json:"balance"`
	Inactive bool            `json:"inactive"`
	Email    *string         `json:"email"`
}

// PostingStatus classifies the outcome of a ledger posting attempt.
type PostingStatus int

const (
	// PostingExempt: sentinel account, no ledger write occurred.
	PostingExempt PostingStatus = iota
	// PostingApplied: the full group/detail/balance/note unit committed.
	PostingApplied
	// PostingAccountNotFound: the account id did not resolve. The gateway
	// capture stands; reconciliation happens manually.
	PostingAccountNotFound
	// PostingFailed: the database unit aborted and was rolled back.
	PostingFailed
)

// PostingResult reports what the ledger poster did with an approved payment.
type PostingResult struct {
	Status     PostingStatus
	AccountID  string
	AuthCode   string
	NewBalance decimal.Decimal // set only when Status is PostingApplied
	Reason     error           // set only when Status is PostingFailed
}

// Applied reports whether the payment landed on a real ledger account.
func (r PostingResult) Applied() bool { return r.Status == PostingApplied }

// JournalEntry is one appended record per payment attempt, any outcome.
type JournalEntry struct {
	CustomerLabel string `json:"customer"`
	AmountText    string `json:"amount"`
	Outcome       string `json:"outcome"`
	UnixTime      int64  `json:"unix_time"`
	AuthCode      string `json:"auth_code,omitempty"`
}

// When returns the entry timestamp in local time.
func (e JournalEntry) When() time.Time { return time.Unix(e.UnixTime, 0) }

// TerminalState is where one orchestrator run ended.
type TerminalState string

const (
	StateSuccess            TerminalState = "SUCCESS"
	StateDeclinedKnown      TerminalState = "DECLINED_KNOWN"
	StateDeclinedUnknown    TerminalState = "DECLINED_UNKNOWN"
	StateValidationRejected TerminalState = "VALIDATION_REJECTED"
	StateGatewayFault       TerminalState = "GATEWAY_FAULT"
)

// PaymentOutcome is what the orchestrator hands back to the front end.
type PaymentOutcome struct {
	State    TerminalState `json:"state"`
	Message  string        `json:"message"` // operator-facing, plain language
	AuthCode string        `json:"auth_code,omitempty"`
	// Applied is true when the payment was posted to a real ledger account,
	// in which case the front end should not copy the reference anywhere.
	Applied bool `json:"applied"`
}

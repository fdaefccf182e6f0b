// Package respcode maps gateway reason codes to operator-facing guidance.
//
// The mapping is fixed: it mirrors the code taxonomy published by the
// acquiring bank's gateway. Classify is total: codes the gateway grows in
// the future fall back to the generic unknown-status classification instead
// of failing.
package respcode

// Classification is a customer-facing explanation plus the recommended next
// step for one gateway reason code.
type Classification struct {
	Code        string `json:"code"`
	OK          bool   `json:"ok"`
	Explanation string `json:"explanation"`
	NextSteps   string `json:"next_steps,omitempty"`
}

// String renders the classification the way it is shown and journaled.
func (c Classification) String() string {
	prefix := "Error: "
	if c.OK {
		prefix = "Success: "
	}
	s := prefix + c.Explanation
	if c.NextSteps != "" {
		s += "\nNext Steps: " + c.NextSteps
	}
	return s
}

const (
	useAlternateCard = "The customer should use an alternate card and contact their bank."
	contactBank      = "The customer should contact their bank for more information."
)

var classifications = map[string]Classification{
	"APPROVED": {OK: true, Explanation: "The transaction was approved."},
	"DECLINED": {
		Explanation: "The customer's bank declined the transaction.",
		NextSteps:   useAlternateCard,
	},
	"PICKUP_CARD": {
		Explanation: "The customer's bank declined the transaction because the card was reported lost or stolen.",
		NextSteps:   useAlternateCard,
	},
	"HOT_CARD": {
		Explanation: "The customer's bank declined the transaction because the card was reported lost or stolen.",
		NextSteps:   useAlternateCard,
	},
	"LOST_CARD_PICKUP": {
		Explanation: "The customer's bank declined the transaction because the card was reported lost or stolen.",
		NextSteps:   useAlternateCard,
	},
	"SUSPECTED_FRAUD": {
		Explanation: "The customer's bank declined the transaction because it suspects fraud.",
		NextSteps:   contactBank,
	},
	"EXPIRED_CARD": {
		Explanation: "The customer's bank declined the transaction because the card is expired.",
		NextSteps: "The customer should use an alternate card. If the customer believes that the card " +
			"is still valid, they should contact their bank.",
	},
	"CVC_MISMATCH": {
		Explanation: "The customer's bank declined the transaction because the card's security code (CVV) did not match.",
		NextSteps:   "The customer should try again using the correct security code.",
	},
	"INVALID_MERCHANT": {
		Explanation: "The customer's bank declined the transaction because they don't allow transactions from us.",
		NextSteps:   contactBank,
	},
	"INVALID_CURRENCY": {
		Explanation: "The customer's bank declined the transaction because the card does not allow transactions in AUD.",
		NextSteps:   useAlternateCard,
	},
	"CARD_TYPE_NOT_ENABLED": {
		Explanation: "The customer's bank declined the transaction because this type of payment is not allowed.",
		NextSteps:   useAlternateCard,
	},
	"SYSTEM_ERROR": {
		Explanation: "The customer's bank declined the transaction due to a technical issue.",
		NextSteps:   "The customer should try again later or pay using an alternate method.",
	},
	"LIMIT_EXCEEDED": {
		Explanation: "The customer's bank declined the transaction because it will exceed the customer's card limit.",
		NextSteps:   "The customer should use an alternate card or try again tomorrow.",
	},
	"MERCHANT_LOCKED_OR_CLOSED": {
		Explanation: "The customer's bank declined the transaction because the merchant's account is locked or closed.",
		NextSteps:   useAlternateCard,
	},
	"TOO_MANY_DECLINES": {
		Explanation: "The customer's bank declined the transaction due to too many recent transactions failing.",
		NextSteps:   "The customer should use an alternate card or contact their bank.",
	},
	"INVALID_CARD_NUMBER": {
		Explanation: "The customer's bank declined the transaction because the card number is invalid.",
		NextSteps:   "The customer should check their card number and try again.",
	},
	"DO_NOT_HONOUR": {
		Explanation: "The customer's bank declined the transaction but did not provide any more information.",
		NextSteps:   "The customer should check the card details and try again.",
	},
	"RESTRICTED_CARD": {
		Explanation: "The customer's bank declined the transaction because the card cannot be used for this type of transaction.",
		NextSteps:   useAlternateCard,
	},
	"INSUFFICIENT_FUNDS": {
		Explanation: "The customer's bank declined the transaction due to insufficient funds in their account.",
		NextSteps:   "The customer should use an alternate card or transfer some funds.",
	},
	"UNKNOWN": {
		Explanation: "The customer's bank declined the transaction for an unknown reason.",
		NextSteps:   "The customer should try again or contact their bank.",
	},
	"TOO_MANY_RETRIES": {
		Explanation: "The customer's bank declined the transaction due to too many recent transactions failing to process.",
		NextSteps:   "The customer should use an alternate card or contact their bank.",
	},
	"TIMED_OUT": {
		Explanation: "The customer's bank declined the transaction because it took too long to process.",
		NextSteps:   "Retry the transaction. If this error persists, contact support.",
	},
	"NOT_SUPPORTED": {
		Explanation: "The customer's bank declined the transaction because the card does not support this type of transaction.",
		NextSteps:   useAlternateCard,
	},
	"CANCELLED": {
		Explanation: "The customer's bank declined the transaction because the customer cancelled the transaction.",
		NextSteps:   "The customer should try again.",
	},
	"BLOCKED": {
		Explanation: "The customer's bank declined the transaction because the card does not support this type of transaction.",
		NextSteps:   useAlternateCard,
	},
	"SECURE_3D_AUTH_FAILED": {
		Explanation: "The customer's bank declined the transaction because the card has security requirements " +
			"that prevent it from being used for this transaction.",
		NextSteps: useAlternateCard,
	},
	"OTHER": {
		Explanation: "The customer's bank declined the transaction for an unknown reason.",
		NextSteps:   contactBank,
	},
}

// Known reports whether code has a fixed classification.
func Known(code string) bool {
	_, ok := classifications[code]
	return ok
}

// Classify returns the classification for code. Unrecognized codes get the
// UNKNOWN classification with the literal code filled in, never an error.
func Classify(code string) Classification {
	if c, ok := classifications[code]; ok {
		c.Code = code
		return c
	}
	c := classifications["UNKNOWN"]
	c.Code = code
	return c
}

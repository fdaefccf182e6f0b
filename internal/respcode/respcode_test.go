package respcode

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyIsTotal(t *testing.T) {
	inputs := []string{"", "APPROVED", "INSUFFICIENT_FUNDS", "NOT_A_CODE", "declined", "💳", strings.Repeat("X", 500)}
	for _, code := range inputs {
		c := Classify(code)
		assert.NotEmpty(t, c.Explanation, "code %q", code)
		assert.Equal(t, code, c.Code)
	}
}

func TestClassifyKnownCodes(t *testing.T) {
	c := Classify("INSUFFICIENT_FUNDS")
	assert.False(t, c.OK)
	assert.Equal(t, "The customer's bank declined the transaction due to insufficient funds in their account.", c.Explanation)
	assert.Equal(t, "The customer should use an alternate card or transfer some funds.", c.NextSteps)

	approved := Classify("APPROVED")
	assert.True(t, approved.OK)
	assert.Equal(t, "Success: The transaction was approved.", approved.String())
}

func TestClassifyUnknownFallsBack(t *testing.T) {
	c := Classify("SOME_FUTURE_CODE")
	require.False(t, c.OK)
	assert.Equal(t, "SOME_FUTURE_CODE", c.Code)
	assert.Contains(t, c.Explanation, "unknown reason")
	assert.NotEmpty(t, c.NextSteps)
}

func TestKnown(t *testing.T) {
	for _, code := range []string{
		"APPROVED", "DECLINED", "PICKUP_CARD", "HOT_CARD", "LOST_CARD_PICKUP",
		"SUSPECTED_FRAUD", "EXPIRED_CARD", "CVC_MISMATCH", "INVALID_MERCHANT",
		"INVALID_CURRENCY", "CARD_TYPE_NOT_ENABLED", "SYSTEM_ERROR", "LIMIT_EXCEEDED",
		"MERCHANT_LOCKED_OR_CLOSED", "TOO_MANY_DECLINES", "INVALID_CARD_NUMBER",
		"DO_NOT_HONOUR", "RESTRICTED_CARD", "INSUFFICIENT_FUNDS", "UNKNOWN",
		"TOO_MANY_RETRIES", "TIMED_OUT", "NOT_SUPPORTED", "CANCELLED", "BLOCKED",
		"SECURE_3D_AUTH_FAILED", "OTHER",
	} {
		assert.True(t, Known(code), code)
	}
	assert.False(t, Known("SOME_FUTURE_CODE"))
	assert.False(t, Known(""))
}

func TestStringRendering(t *testing.T) {
	c := Classify("DECLINED")
	want := "Error: The customer's bank declined the transaction.\nNext Steps: The customer should use an alternate card and contact their bank."
	assert.Equal(t, want, c.String())
}

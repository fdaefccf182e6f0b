package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dwgops/pospay/internal/domain"
)

func chargeReq() ChargeRequest {
	return ChargeRequest{
		CardNumber:   "4532015112830366",
		ExpiryMonth:  "12",
		ExpiryYear:   "30",
		CVC:          "123",
		CustomerName: "12345 Smith",
		AmountCents:  5000,
		Description:  "12345 Smith",
		Currency:     "AUD",
	}
}

func TestAuthorizeApproved(t *testing.T) {
	var captured chargePayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/payment", r.URL.Path)
		user, _, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "pub", user)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		json.NewEncoder(w).Encode(map[string]string{"paymentStatus": "APPROVED", "authCode": "AUTH1"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "pub", "priv")
	res, err := c.Authorize(context.Background(), chargeReq())

	require.NoError(t, err)
	assert.Equal(t, domain.StatusApproved, res.Status)
	assert.Equal(t, "AUTH1", res.AuthCode)

	// The wire carries minor units; the conversion happened upstream.
	assert.Equal(t, int64(5000), captured.Amount)
	assert.Equal(t, "AUD", captured.Currency)
	assert.Equal(t, "4532015112830366", captured.Card.Number)
	assert.NotEmpty(t, captured.Reference)
}

func TestAuthorizeDeclined(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"paymentStatus": "DECLINED", "declineReason": "INSUFFICIENT_FUNDS"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "pub", "priv")
	res, err := c.Authorize(context.Background(), chargeReq())

	require.NoError(t, err)
	assert.Equal(t, domain.StatusDeclined, res.Status)
	assert.Equal(t, "INSUFFICIENT_FUNDS", res.DeclineReason)
}

func TestAuthorizeUnrecognizedStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"paymentStatus": "PENDING_REVIEW"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "pub", "priv")
	res, err := c.Authorize(context.Background(), chargeReq())

	require.NoError(t, err)
	assert.Equal(t, domain.StatusUnknown, res.Status)
	assert.Equal(t, "PENDING_REVIEW", res.RawStatus)
}

func TestAuthorizeBadRequest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]any{"error": map[string]string{"message": "card.number is invalid"}})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "pub", "priv")
	_, err := c.Authorize(context.Background(), chargeReq())

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBadRequest)
	assert.ErrorContains(t, err, "card.number is invalid")
}

func TestAuthorizeServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "pub", "priv")
	_, err := c.Authorize(context.Background(), chargeReq())

	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrBadRequest)
}

func TestSandboxDetection(t *testing.T) {
	assert.True(t, NewClient("http://x", "sbpb_abc", "k").Sandbox())
	assert.False(t, NewClient("http://x", "lvpb_abc", "k").Sandbox())
}

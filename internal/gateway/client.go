package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dwgops/pospay/internal/domain"
)

// SandboxKeyPrefix identifies sandbox credentials. Front ends show a warning
// banner when the configured public key carries it.
const SandboxKeyPrefix = "sbpb_"

// Client is the HTTP implementation of Authorizer. One request per charge,
// no retries: a duplicate submission could double-charge the card.
type Client struct {
	baseURL    string
	publicKey  string
	privateKey string
	httpClient *http.Client
}

// NewClient builds a gateway client. The default request timeout is generous
// because issuer authorization can legitimately take several seconds.
func NewClient(baseURL, publicKey, privateKey string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		publicKey:  publicKey,
		privateKey: privateKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Sandbox reports whether the client is configured against the sandbox.
func (c *Client) Sandbox() bool {
	return strings.HasPrefix(c.publicKey, SandboxKeyPrefix)
}

type chargePayload struct {
	Card struct {
		Number   string `json:"number"`
		ExpMonth string `json:"expMonth"`
		ExpYear  string `json:"expYear"`
		CVC      string `json:"cvc"`
	} `json:"card"`
	Order struct {
		CustomerName string `json:"customerName"`
	} `json:"order"`
	Amount      int64  `json:"amount"` // minor units
	Description string `json:"description"`
	Currency    string `json:"currency"`
	Reference   string `json:"reference"`
}

type chargeResponse struct {
	PaymentStatus string `json:"paymentStatus"`
	DeclineReason string `json:"declineReason"`
	AuthCode      string `json:"authCode"`
	Error         struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Authorize submits the charge and maps the gateway's status taxonomy onto
// AuthorizationResult. A 4xx from the gateway surfaces as ErrBadRequest;
// transport failures come back as-is for the caller to classify.
func (c *Client) Authorize(ctx context.Context, req ChargeRequest) (domain.AuthorizationResult, error) {
	payload := chargePayload{
		Amount:      req.AmountCents,
		Description: req.Description,
		Currency:    req.Currency,
		Reference:   uuid.NewString(),
	}
	payload.Card.Number = req.CardNumber
	payload.Card.ExpMonth = req.ExpiryMonth
	payload.Card.ExpYear = req.ExpiryYear
	payload.Card.CVC = req.CVC
	payload.Order.CustomerName = req.CustomerName

	body, err := json.Marshal(payload)
	if err != nil {
		return domain.AuthorizationResult{}, fmt.Errorf("encode charge: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/payment", bytes.NewReader(body))
	if err != nil {
		return domain.AuthorizationResult{}, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.SetBasicAuth(c.publicKey, c.privateKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return domain.AuthorizationResult{}, domain.E(domain.KindGateway, "gateway request", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.AuthorizationResult{}, domain.E(domain.KindGateway, "gateway response", err)
	}

	var cr chargeResponse
	if err := json.Unmarshal(respBody, &cr); err != nil {
		return domain.AuthorizationResult{}, domain.E(domain.KindGateway, "decode gateway response", err)
	}

	if resp.StatusCode >= 400 && resp.StatusCode < 500 {
		return domain.AuthorizationResult{}, fmt.Errorf("%w: %s", ErrBadRequest, cr.Error.Message)
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return domain.AuthorizationResult{}, domain.E(domain.KindGateway, fmt.Sprintf("gateway status %d", resp.StatusCode), nil)
	}

	return mapStatus(cr), nil
}

func mapStatus(cr chargeResponse) domain.AuthorizationResult {
	switch cr.PaymentStatus {
	case "APPROVED":
		return domain.AuthorizationResult{Status: domain.StatusApproved, AuthCode: cr.AuthCode}
	case "DECLINED":
		return domain.AuthorizationResult{Status: domain.StatusDeclined, DeclineReason: cr.DeclineReason}
	default:
		return domain.AuthorizationResult{Status: domain.StatusUnknown, RawStatus: cr.PaymentStatus}
	}
}

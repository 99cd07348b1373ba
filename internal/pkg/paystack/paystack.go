// Package paystack is a minimal client for the Paystack transaction API.
// It covers transaction initialization, verification and webhook signature
// validation, which is everything the payment workflow needs.
package paystack

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nacosng/feeclearance/internal/pkg/apperrors"
)

// DefaultBaseURL is the production Paystack API endpoint
const DefaultBaseURL = "https://api.paystack.co"

// Client talks to the Paystack API
type Client struct {
	secretKey  string
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a Paystack client. An empty baseURL falls back to the
// production endpoint; tests point it at an httptest server.
func NewClient(secretKey, baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		secretKey:  secretKey,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// InitializeRequest is the payload for transaction initialization
type InitializeRequest struct {
	Email       string            `json:"email"`
	Amount      int64             `json:"amount"`
	Reference   string            `json:"reference"`
	CallbackURL string            `json:"callback_url,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// InitializeResponse carries the checkout URL returned by Paystack
type InitializeResponse struct {
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code"`
	Reference        string `json:"reference"`
}

// VerifyResponse is the transaction state returned by the verify endpoint
type VerifyResponse struct {
	Status    string `json:"status"`
	Reference string `json:"reference"`
	Amount    int64  `json:"amount"`
	PaidAt    string `json:"paid_at"`
	Channel   string `json:"channel"`
}

type apiEnvelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// ToKobo converts a Naira amount to the integer kobo value Paystack expects
func ToKobo(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).IntPart()
}

// InitializeTransaction asks Paystack for a checkout session. Amount is in
// Naira; the kobo conversion happens here.
func (c *Client) InitializeTransaction(ctx context.Context, email string, amount decimal.Decimal, reference, callbackURL string, metadata map[string]string) (*InitializeResponse, error) {
	payload := InitializeRequest{
		Email:       email,
		Amount:      ToKobo(amount),
		Reference:   reference,
		CallbackURL: callbackURL,
		Metadata:    metadata,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode initialize request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/transaction/initialize", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build initialize request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Content-Type", "application/json")

	var result InitializeResponse
	if err := c.do(req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// VerifyTransaction fetches the current state of a transaction by reference
func (c *Client) VerifyTransaction(ctx context.Context, reference string) (*VerifyResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/transaction/verify/"+reference, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build verify request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)

	var result VerifyResponse
	if err := c.do(req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) do(req *http.Request, out interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperrors.NewUpstreamError(fmt.Sprintf("paystack request failed: %v", err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return apperrors.NewUpstreamError(fmt.Sprintf("failed to read paystack response: %v", err))
	}

	var envelope apiEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return apperrors.NewUpstreamError(fmt.Sprintf("failed to decode paystack response (HTTP %d)", resp.StatusCode))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 || !envelope.Status {
		return apperrors.NewUpstreamError(fmt.Sprintf("paystack error (HTTP %d): %s", resp.StatusCode, envelope.Message))
	}

	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return apperrors.NewUpstreamError("failed to decode paystack response data")
	}
	return nil
}

// ValidateWebhookSignature checks the x-paystack-signature header against an
// HMAC-SHA512 of the raw request body keyed with the secret key.
func (c *Client) ValidateWebhookSignature(body []byte, signature string) bool {
	if signature == "" {
		return false
	}
	mac := hmac.New(sha512.New, []byte(c.secretKey))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

const referenceChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateReference builds a unique payment reference of the form
// NACOS-<timestamp base36>-<random suffix>.
func GenerateReference() string {
	ts := strings.ToUpper(strconv.FormatInt(time.Now().UnixMilli(), 36))
	suffix := make([]byte, 6)
	for i := range suffix {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(referenceChars))))
		if err != nil {
			suffix[i] = referenceChars[time.Now().UnixNano()%int64(len(referenceChars))]
			continue
		}
		suffix[i] = referenceChars[n.Int64()]
	}
	return fmt.Sprintf("NACOS-%s-%s", ts, string(suffix))
}

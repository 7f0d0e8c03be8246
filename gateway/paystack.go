package gateway

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/bookbite/bookbite/utils"
)

const defaultBaseURL = "https://api.paystack.co"

// ErrUnavailable is returned when Paystack cannot be reached or answers
// with a server error. Callers must fail closed: no local state may be
// written on the strength of an unverified transaction.
var ErrUnavailable = errors.New("payment gateway unavailable")

// Client is a thin wrapper over the Paystack transaction API.
type Client struct {
	secretKey  string
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a Paystack client using PAYSTACK_SECRET_KEY. The
// outbound timeout bounds every gateway call.
func NewClient() *Client {
	return &Client{
		secretKey: os.Getenv("PAYSTACK_SECRET_KEY"),
		baseURL:   defaultBaseURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// NewClientWithBaseURL is used by tests to point the client at a stub server.
func NewClientWithBaseURL(secretKey, baseURL string) *Client {
	c := NewClient()
	c.secretKey = secretKey
	c.baseURL = baseURL
	return c
}

// InitializedTransaction is the normalized result of a transaction
// initialization: where to send the payer, and the reference to verify later.
type InitializedTransaction struct {
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code"`
	Reference        string `json:"reference"`
}

// Verification is the authoritative state of a transaction as reported
// by Paystack. Amount is in kobo.
type Verification struct {
	Status    string `json:"status"`
	Amount    int64  `json:"amount"`
	Currency  string `json:"currency"`
	Reference string `json:"reference"`
}

// VerificationStatusSuccess is the only Paystack transaction status that
// permits crediting a wallet.
const VerificationStatusSuccess = "success"

type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// InitializeTransaction creates a Paystack transaction for a wallet
// top-up and returns the checkout redirect info.
func (c *Client) InitializeTransaction(email string, amountKobo int64, reference, callbackURL string) (*InitializedTransaction, error) {
	payload := map[string]interface{}{
		"email":     email,
		"amount":    amountKobo,
		"reference": reference,
		"currency":  "NGN",
	}
	if callbackURL != "" {
		payload["callback_url"] = callbackURL
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequest(http.MethodPost, c.baseURL+"/transaction/initialize", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Content-Type", "application/json")

	env, err := c.do(req)
	if err != nil {
		return nil, err
	}
	if !env.Status {
		return nil, fmt.Errorf("paystack initialize rejected: %s", env.Message)
	}

	var result InitializedTransaction
	if err := json.Unmarshal(env.Data, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// VerifyTransaction asks Paystack for the authoritative status of a
// transaction reference.
func (c *Client) VerifyTransaction(reference string) (*Verification, error) {
	req, err := http.NewRequest(http.MethodGet, c.baseURL+"/transaction/verify/"+reference, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)

	env, err := c.do(req)
	if err != nil {
		return nil, err
	}
	if !env.Status {
		// Paystack answered but does not recognize the transaction as
		// payable. Report it as unconfirmed rather than unavailable.
		utils.LogDebug("Paystack verify rejected reference %s: %s", reference, env.Message)
		return &Verification{Status: "failed", Reference: reference}, nil
	}

	var result Verification
	if err := json.Unmarshal(env.Data, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) do(req *http.Request) (*envelope, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		utils.LogError("Paystack request failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		utils.LogError("Paystack returned status %d for %s", resp.StatusCode, req.URL.Path)
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return &env, nil
}

// Package intasend talks to the IntaSend business payments API to disburse
// net salaries to worker phone numbers.
package intasend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"paykey/internal/faults"
)

type PayoutRequest struct {
	PhoneNumber string
	Amount      decimal.Decimal
	Reference   string
	Narrative   string
}

type Payout struct {
	TrackingID string
	State      string
}

// Gateway is the disbursement boundary the batch processor calls once per
// worker.
type Gateway interface {
	SendMoney(ctx context.Context, req PayoutRequest) (*Payout, error)
}

type Client struct {
	baseURL    string
	secretKey  string
	simulate   bool
	httpClient *http.Client
}

func NewClient(baseURL, secretKey string, timeout time.Duration, simulate bool) *Client {
	return &Client{
		baseURL:    baseURL,
		secretKey:  secretKey,
		simulate:   simulate,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type sendMoneyPayload struct {
	PhoneNumber string `json:"phone_number"`
	Amount      string `json:"amount"`
	Narrative   string `json:"narrative"`
	APIRef      string `json:"api_ref"`
}

type sendMoneyResponse struct {
	TrackingID string `json:"tracking_id"`
	State      string `json:"state"`
	Error      string `json:"error"`
}

func (c *Client) SendMoney(ctx context.Context, req PayoutRequest) (*Payout, error) {
	if c.simulate {
		return &Payout{TrackingID: "SIM-" + uuid.NewString(), State: "COMPLETE"}, nil
	}

	body, err := json.Marshal(sendMoneyPayload{
		PhoneNumber: req.PhoneNumber,
		Amount:      req.Amount.StringFixed(2),
		Narrative:   req.Narrative,
		APIRef:      req.Reference,
	})
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/send-money/initiate/", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.secretKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &faults.ExternalServiceError{Op: "intasend send-money", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &faults.ExternalServiceError{Op: "intasend send-money", Cause: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &faults.ExternalServiceError{
			Op:    "intasend send-money",
			Cause: fmt.Errorf("status %d: %s", resp.StatusCode, respBody),
		}
	}

	var parsed sendMoneyResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, &faults.ExternalServiceError{Op: "intasend send-money", Cause: err}
	}
	if parsed.Error != "" {
		return nil, &faults.ExternalServiceError{Op: "intasend send-money", Cause: errors.New(parsed.Error)}
	}

	return &Payout{TrackingID: parsed.TrackingID, State: parsed.State}, nil
}

package intasend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paykey/internal/faults"
)

func TestSendMoneySuccess(t *testing.T) {
	var gotAuth string
	var gotPayload sendMoneyPayload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v1/send-money/initiate/", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPayload))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(sendMoneyResponse{TrackingID: "TRK-42", State: "COMPLETE"})
	}))
	defer server.Close()

	client := NewClient(server.URL, "sk_test", 5*time.Second, false)
	payout, err := client.SendMoney(context.Background(), PayoutRequest{
		PhoneNumber: "+254712345678",
		Amount:      decimal.RequireFromString("71854.65"),
		Reference:   "ref-1",
		Narrative:   "Salary June 2024",
	})
	require.NoError(t, err)

	assert.Equal(t, "TRK-42", payout.TrackingID)
	assert.Equal(t, "Bearer sk_test", gotAuth)
	assert.Equal(t, "+254712345678", gotPayload.PhoneNumber)
	assert.Equal(t, "71854.65", gotPayload.Amount)
	assert.Equal(t, "ref-1", gotPayload.APIRef)
}

func TestSendMoneyHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewClient(server.URL, "bad-key", 5*time.Second, false)
	_, err := client.SendMoney(context.Background(), PayoutRequest{
		PhoneNumber: "+254712345678",
		Amount:      decimal.NewFromInt(1000),
		Reference:   "ref-1",
	})

	var eerr *faults.ExternalServiceError
	require.ErrorAs(t, err, &eerr)
	assert.True(t, strings.Contains(eerr.Error(), "401"))
}

func TestSendMoneyErrorPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(sendMoneyResponse{Error: "insufficient balance"})
	}))
	defer server.Close()

	client := NewClient(server.URL, "sk_test", 5*time.Second, false)
	_, err := client.SendMoney(context.Background(), PayoutRequest{
		PhoneNumber: "+254712345678",
		Amount:      decimal.NewFromInt(1000),
		Reference:   "ref-1",
	})

	var eerr *faults.ExternalServiceError
	require.ErrorAs(t, err, &eerr)
	assert.Contains(t, eerr.Error(), "insufficient balance")
}

func TestSendMoneyTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // connection refused from here on

	client := NewClient(server.URL, "sk_test", time.Second, false)
	_, err := client.SendMoney(context.Background(), PayoutRequest{
		PhoneNumber: "+254712345678",
		Amount:      decimal.NewFromInt(1000),
		Reference:   "ref-1",
	})

	var eerr *faults.ExternalServiceError
	require.ErrorAs(t, err, &eerr)
}

func TestSimulationModeSkipsNetwork(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", "", time.Second, true)
	payout, err := client.SendMoney(context.Background(), PayoutRequest{
		PhoneNumber: "+254712345678",
		Amount:      decimal.NewFromInt(1000),
		Reference:   "ref-1",
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(payout.TrackingID, "SIM-"))
	assert.Equal(t, "COMPLETE", payout.State)
}

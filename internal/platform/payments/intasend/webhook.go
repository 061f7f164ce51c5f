package intasend

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// WebhookEvent is the subset of the IntaSend transfer webhook this service
// consumes: matching the api_ref back to a transaction and recording the
// provider's tracking id.
type WebhookEvent struct {
	TrackingID string `json:"tracking_id"`
	APIRef     string `json:"api_ref"`
	State      string `json:"state"`
}

// VerifySignature checks the HMAC-SHA256 hex signature IntaSend sends with
// each webhook delivery. An empty configured secret disables verification.
func VerifySignature(secret string, body []byte, signature string) bool {
	if secret == "" {
		return true
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

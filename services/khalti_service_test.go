package services

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		config  *KhaltiConfig
		wantErr bool
	}{
		{
			name:    "valid config",
			config:  &KhaltiConfig{SecretKey: "secret", BaseURL: "https://dev.khalti.com/api/v2"},
			wantErr: false,
		},
		{
			name:    "missing secret key",
			config:  &KhaltiConfig{BaseURL: "https://dev.khalti.com/api/v2"},
			wantErr: true,
		},
		{
			name:    "missing base url",
			config:  &KhaltiConfig{SecretKey: "secret"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ks := NewKhaltiService(tt.config)
			err := ks.ValidateConfig()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSettlementStatus(t *testing.T) {
	tests := []struct {
		lookupStatus string
		want         string
		settled      bool
	}{
		{"Completed", "COMPLETED", true},
		{"Expired", "FAILED", true},
		{"User canceled", "FAILED", true},
		{"Refunded", "FAILED", true},
		{"Pending", "", false},
		{"Initiated", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.lookupStatus, func(t *testing.T) {
			got, settled := SettlementStatus(tt.lookupStatus)
			assert.Equal(t, tt.settled, settled)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestInitiateSendsPaisaAndAuthHeader(t *testing.T) {
	var gotAuth string
	var gotPayload map[string]interface{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/epayment/initiate/", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		json.NewDecoder(r.Body).Decode(&gotPayload)
		json.NewEncoder(w).Encode(map[string]string{
			"pidx":        "pidx-abc",
			"payment_url": "https://pay.khalti.com/?pidx=pidx-abc",
		})
	}))
	defer server.Close()

	ks := NewKhaltiService(&KhaltiConfig{
		SecretKey:  "test-secret",
		BaseURL:    server.URL,
		ReturnURL:  "http://localhost/return",
		WebsiteURL: "http://localhost",
	})

	resp, err := ks.Initiate("booking-1", "Deep Clean", 1500, "Asha", "asha@example.com", "9800000000")
	assert.NoError(t, err)
	assert.Equal(t, "pidx-abc", resp.Pidx)

	assert.Equal(t, "Key test-secret", gotAuth)
	// 1500 rupees go over the wire as 150000 paisa.
	assert.Equal(t, float64(150000), gotPayload["amount"])
	assert.Equal(t, "booking-1", gotPayload["purchase_order_id"])
}

func TestInitiateRejectsEmptyPidx(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{})
	}))
	defer server.Close()

	ks := NewKhaltiService(&KhaltiConfig{SecretKey: "s", BaseURL: server.URL})
	_, err := ks.Initiate("booking-1", "Deep Clean", 100, "A", "a@b.c", "98")
	assert.Error(t, err)
}

func TestLookup(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/epayment/lookup/", r.URL.Path)

		var payload map[string]string
		json.NewDecoder(r.Body).Decode(&payload)
		assert.Equal(t, "pidx-abc", payload["pidx"])

		json.NewEncoder(w).Encode(map[string]interface{}{
			"pidx":           "pidx-abc",
			"total_amount":   150000,
			"status":         "Completed",
			"transaction_id": "txn-9",
		})
	}))
	defer server.Close()

	ks := NewKhaltiService(&KhaltiConfig{SecretKey: "s", BaseURL: server.URL})
	resp, err := ks.Lookup("pidx-abc")
	assert.NoError(t, err)
	assert.Equal(t, "Completed", resp.Status)
	assert.Equal(t, int64(150000), resp.TotalAmount)
	assert.Equal(t, "txn-9", resp.TransactionID)
}

func TestLookupGatewayError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"detail":"Not found","error_key":"validation_error"}`))
	}))
	defer server.Close()

	ks := NewKhaltiService(&KhaltiConfig{SecretKey: "s", BaseURL: server.URL})
	_, err := ks.Lookup("pidx-missing")
	assert.Error(t, err)
}

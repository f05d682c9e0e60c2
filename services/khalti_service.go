package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/khalildhmine/neatify-server/models"
)

// KhaltiConfig holds Khalti ePayment configuration.
type KhaltiConfig struct {
	SecretKey    string
	IsProduction bool
	BaseURL      string
	ReturnURL    string
	WebsiteURL   string
}

// KhaltiService talks to the Khalti ePayment API. A single instance is shared
// by the payment controller and the payment monitor.
type KhaltiService struct {
	config     *KhaltiConfig
	httpClient *http.Client
}

var (
	khaltiService *KhaltiService
	khaltiOnce    sync.Once
)

// GetKhaltiService returns the singleton KhaltiService configured from the
// environment.
func GetKhaltiService() *KhaltiService {
	khaltiOnce.Do(func() {
		isProduction := os.Getenv("KHALTI_ENV") == "production"

		baseURL := os.Getenv("KHALTI_BASE_URL")
		if baseURL == "" {
			if isProduction {
				baseURL = "https://khalti.com/api/v2"
			} else {
				baseURL = "https://dev.khalti.com/api/v2"
			}
		}

		returnURL := os.Getenv("KHALTI_RETURN_URL")
		if returnURL == "" {
			returnURL = "https://neatify.app/payment/return"
		}
		websiteURL := os.Getenv("KHALTI_WEBSITE_URL")
		if websiteURL == "" {
			websiteURL = "https://neatify.app"
		}

		khaltiService = &KhaltiService{
			config: &KhaltiConfig{
				SecretKey:    os.Getenv("KHALTI_SECRET_KEY"),
				IsProduction: isProduction,
				BaseURL:      baseURL,
				ReturnURL:    returnURL,
				WebsiteURL:   websiteURL,
			},
			httpClient: &http.Client{
				Timeout: 30 * time.Second,
			},
		}
	})
	return khaltiService
}

// NewKhaltiService builds a service with an explicit config, used by tests.
func NewKhaltiService(config *KhaltiConfig) *KhaltiService {
	return &KhaltiService{
		config:     config,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// ValidateConfig checks that the gateway can be called.
func (ks *KhaltiService) ValidateConfig() error {
	if ks.config.SecretKey == "" {
		return fmt.Errorf("KHALTI_SECRET_KEY is not set")
	}
	if ks.config.BaseURL == "" {
		return fmt.Errorf("khalti base URL is not set")
	}
	return nil
}

// InitiateResponse is the reply from the initiate endpoint.
type InitiateResponse struct {
	Pidx       string `json:"pidx"`
	PaymentURL string `json:"payment_url"`
	ExpiresAt  string `json:"expires_at"`
}

// LookupResponse is the reply from the lookup endpoint. Status is one of
// "Completed", "Pending", "Initiated", "Expired", "User canceled", "Refunded".
type LookupResponse struct {
	Pidx          string `json:"pidx"`
	TotalAmount   int64  `json:"total_amount"`
	Status        string `json:"status"`
	TransactionID string `json:"transaction_id"`
	Fee           int64  `json:"fee"`
	Refunded      bool   `json:"refunded"`
}

// SettlementStatus maps a gateway lookup status to the local payment status.
// settled is false while the gateway still considers the payment in flight.
func SettlementStatus(lookupStatus string) (status string, settled bool) {
	switch lookupStatus {
	case "Completed":
		return models.PaymentStatusCompleted, true
	case "Expired", "User canceled", "Refunded":
		return models.PaymentStatusFailed, true
	default:
		return "", false
	}
}

// Initiate starts a payment for the given order. Amount is in rupees and is
// converted to paisa on the wire.
func (ks *KhaltiService) Initiate(orderID string, orderName string, amount float64, customerName, customerEmail, customerPhone string) (*InitiateResponse, error) {
	if err := ks.ValidateConfig(); err != nil {
		return nil, err
	}

	payload := map[string]interface{}{
		"return_url":          ks.config.ReturnURL,
		"website_url":         ks.config.WebsiteURL,
		"amount":              int64(amount * 100),
		"purchase_order_id":   orderID,
		"purchase_order_name": orderName,
		"customer_info": map[string]interface{}{
			"name":  customerName,
			"email": customerEmail,
			"phone": customerPhone,
		},
	}

	var out InitiateResponse
	if err := ks.post("/epayment/initiate/", payload, &out); err != nil {
		return nil, err
	}
	if out.Pidx == "" {
		return nil, fmt.Errorf("khalti initiate returned no pidx")
	}
	return &out, nil
}

// Lookup fetches the current state of a payment by pidx.
func (ks *KhaltiService) Lookup(pidx string) (*LookupResponse, error) {
	if err := ks.ValidateConfig(); err != nil {
		return nil, err
	}

	var out LookupResponse
	if err := ks.post("/epayment/lookup/", map[string]interface{}{"pidx": pidx}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (ks *KhaltiService) post(path string, payload interface{}, out interface{}) error {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("error marshaling request: %w", err)
	}

	req, err := http.NewRequest("POST", ks.config.BaseURL+path, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Key "+ks.config.SecretKey)

	resp, err := ks.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("error calling khalti: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("error reading khalti response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("khalti returned status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("error decoding khalti response: %w", err)
	}
	return nil
}

package crm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	commonhttp "academy-api/internal/common/http"
)

// Client forwards lead records to the marketing CRM webhook.
type Client struct {
	apiKey     string
	webhookURL string
	httpClient *commonhttp.Client
}

// Lead is the wire shape the CRM webhook accepts.
type Lead struct {
	ID        string                 `json:"id,omitempty"`
	Email     string                 `json:"Email"`
	FirstName string                 `json:"First_Name"`
	LastName  string                 `json:"Last_Name"`
	Phone     string                 `json:"Phone,omitempty"`
	Source    string                 `json:"Lead_Source,omitempty"`
	Form      string                 `json:"Form,omitempty"`
	Fields    map[string]interface{} `json:"Fields,omitempty"`
}

type forwardResponse struct {
	Data []struct {
		Code    string `json:"code"`
		Details struct {
			ID string `json:"id"`
		} `json:"details"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"data"`
}

func NewClient(webhookURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		apiKey:     apiKey,
		webhookURL: webhookURL,
		httpClient: commonhttp.NewClient(timeout),
	}
}

// ForwardLead posts a lead record to the webhook and returns the CRM record id.
func (c *Client) ForwardLead(ctx context.Context, lead *Lead) (string, error) {
	payload := map[string]interface{}{
		"data": []Lead{*lead},
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal lead: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.webhookURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to forward lead (status %d): %s", resp.StatusCode, string(body))
	}

	var fwdResp forwardResponse
	if err := json.Unmarshal(body, &fwdResp); err != nil {
		return "", fmt.Errorf("failed to unmarshal response: %w", err)
	}

	if len(fwdResp.Data) == 0 {
		return "", fmt.Errorf("no data in response")
	}

	if fwdResp.Data[0].Status != "success" {
		return "", fmt.Errorf("lead forwarding failed: %s", fwdResp.Data[0].Message)
	}

	return fwdResp.Data[0].Details.ID, nil
}

package board

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/nkchq/projectboard/internal/constants"
	"github.com/nkchq/projectboard/internal/models"
)

// APIClient is the RemoteStore backed by the HTTP API. It authenticates
// with the session cookie of the acting user.
type APIClient struct {
	baseURL string
	token   string
	client  *http.Client
}

// NewAPIClient creates a client for the API at baseURL using the given
// session token.
func NewAPIClient(baseURL, token string) *APIClient {
	return &APIClient{
		baseURL: baseURL,
		token:   token,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// UpdateStatus issues the status-transition mutation for a task.
func (c *APIClient) UpdateStatus(ctx context.Context, taskID uint64, status models.TaskStatus) error {
	body, err := json.Marshal(map[string]string{"status": string(status)})
	if err != nil {
		return fmt.Errorf("failed to encode status: %w", err)
	}

	url := fmt.Sprintf("%s/api/tasks/%d/status", c.baseURL, taskID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(&http.Cookie{Name: constants.SessionCookieName, Value: c.token})

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("status update failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("status update rejected: %s", resp.Status)
	}
	return nil
}

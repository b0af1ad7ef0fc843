package board

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nkchq/projectboard/internal/constants"
	"github.com/nkchq/projectboard/internal/models"
)

func TestAPIClientUpdateStatus(t *testing.T) {
	var (
		gotMethod string
		gotPath   string
		gotToken  string
		gotBody   map[string]string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		if c, err := r.Cookie(constants.SessionCookieName); err == nil {
			gotToken = c.Value
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := NewAPIClient(srv.URL, "token-123")
	require.NoError(t, client.UpdateStatus(context.Background(), 42, models.TaskStatusInProgress))

	assert.Equal(t, http.MethodPatch, gotMethod)
	assert.Equal(t, "/api/tasks/42/status", gotPath)
	assert.Equal(t, "token-123", gotToken)
	assert.Equal(t, map[string]string{"status": "IN_PROGRESS"}, gotBody)
}

func TestAPIClientUpdateStatus_RejectedByServer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	client := NewAPIClient(srv.URL, "token-123")
	err := client.UpdateStatus(context.Background(), 42, models.TaskStatusCompleted)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}

func TestAPIClientUpdateStatus_ServerUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	srv.Close()

	client := NewAPIClient(srv.URL, "token-123")
	assert.Error(t, client.UpdateStatus(context.Background(), 42, models.TaskStatusCompleted))
}

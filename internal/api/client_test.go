package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"subcon/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(server.URL, time.Second, nil)
}

func TestGetSubscriptionStatus_Success(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/subscription-status", r.URL.Path)
		assert.Equal(t, "USER_001", r.URL.Query().Get("userId"))
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		_, _ = io.WriteString(w, `{"subscription":{"plan":"free"}}`)
	})

	sub, err := client.GetSubscriptionStatus(context.Background(), "USER_001")
	require.NoError(t, err)
	assert.JSONEq(t, `{"plan":"free"}`, string(sub))
}

func TestGetSubscriptionStatus_EscapesUserID(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "a&b c", r.URL.Query().Get("userId"))
		_, _ = io.WriteString(w, `{"subscription":null}`)
	})

	sub, err := client.GetSubscriptionStatus(context.Background(), "a&b c")
	require.NoError(t, err)
	assert.Nil(t, sub)
}

func TestGetSubscriptionStatus_APIError(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		message string
	}{
		{"string message", http.StatusNotFound, `{"message":"user not found"}`, "user not found"},
		{"no message falls back to status text", http.StatusInternalServerError, `{}`, "Internal Server Error"},
		{"non-json body falls back to status text", http.StatusBadGateway, `<html>`, "Bad Gateway"},
		{"undecodable 2xx body", http.StatusOK, `<html>`, "error decoding response"},
		{"empty 2xx body", http.StatusOK, "", "error decoding response"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			})

			_, err := client.GetSubscriptionStatus(context.Background(), "USER_001")
			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Contains(t, apiErr.Error(), tt.message)
		})
	}
}

func TestGetSubscriptionStatus_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	baseURL := server.URL
	server.Close()

	client := NewClient(baseURL, time.Second, nil)
	_, err := client.GetSubscriptionStatus(context.Background(), "USER_001")

	var netErr *NetworkError
	require.True(t, errors.As(err, &netErr))
	assert.Equal(t, "subscription-status", netErr.Op)
	assert.NotEmpty(t, netErr.Error())
}

func TestUpdateSubscription_SendsJSONBody(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/update-subscription", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, map[string]string{
			"userId":        "USER_001",
			"newPlan":       "annual_spiritual",
			"effectiveDate": "2024-01-01T10:00:00.000Z",
		}, body)

		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"subscription":{"plan":"annual_spiritual"}}`)
	})

	sub, err := client.UpdateSubscription(context.Background(), models.UpdateRequest{
		UserID:        "USER_001",
		NewPlan:       models.PlanAnnualSpiritual,
		EffectiveDate: "2024-01-01T10:00:00.000Z",
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"plan":"annual_spiritual"}`, string(sub))
}

func TestUpdateSubscription_JoinsMessageList(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"message":["bad date","bad plan"]}`)
	})

	_, err := client.UpdateSubscription(context.Background(), models.UpdateRequest{
		UserID:        "USER_001",
		NewPlan:       models.PlanFree,
		EffectiveDate: "2024-01-01T10:00:00.000Z",
	})
	require.Error(t, err)
	assert.Equal(t, "bad date, bad plan", err.Error())
}

func TestUpdateSubscription_MissingFieldsSkipsNetwork(t *testing.T) {
	hits := 0
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		hits++
	})

	_, err := client.UpdateSubscription(context.Background(), models.UpdateRequest{UserID: "USER_001"})
	assert.ErrorIs(t, err, models.ErrMissingFields)
	assert.Equal(t, 0, hits)
}

func TestNewClient_Defaults(t *testing.T) {
	client := NewClient("http://example.com/", 0, nil)
	assert.Equal(t, "http://example.com", client.BaseURL)
	assert.Equal(t, DefaultTimeout, client.client.Timeout)
}

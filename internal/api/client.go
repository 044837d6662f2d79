package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"subcon/internal/models"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// DefaultBaseURL is the subscription service used when nothing is configured
const DefaultBaseURL = "https://candidate-002-powerofaum-module-sub.vercel.app"

// DefaultTimeout bounds a single request
const DefaultTimeout = 30 * time.Second

// errEmptyBody is the decode failure for a 2xx response without a body
var errEmptyBody = errors.New("empty response body")

// Client handles communication with the subscription API
type Client struct {
	// Base URL of the API server
	BaseURL string

	// HTTP client with a timeout
	client *http.Client

	logger logrus.FieldLogger
}

// NewClient creates a new API client. A zero timeout uses DefaultTimeout and
// a nil logger discards log output.
func NewClient(baseURL string, timeout time.Duration, logger logrus.FieldLogger) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		logger = l
	}

	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// subscriptionEnvelope is the success body of both endpoints
type subscriptionEnvelope struct {
	Subscription json.RawMessage `json:"subscription"`
}

// do sends req and decodes a 2xx body into a subscription. Non-2xx responses
// become *APIError and transport failures become *NetworkError.
func (c *Client) do(req *http.Request, op string) (models.Subscription, error) {
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)

	log := c.logger.WithFields(logrus.Fields{
		"op":         op,
		"method":     req.Method,
		"url":        req.URL.String(),
		"request_id": requestID,
	})
	log.Debug("sending request")

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		log.WithError(err).Warn("request failed")
		return nil, &NetworkError{Op: op, Err: err}
	}
	defer func(Body io.ReadCloser) {
		err := Body.Close()
		if err != nil {
			log.WithError(err).Warn("failed to close response body")
		}
	}(resp.Body)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{Op: op, Err: fmt.Errorf("error reading response body: %w", err)}
	}

	log = log.WithFields(logrus.Fields{
		"status":   resp.StatusCode,
		"duration": time.Since(start),
	})

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := newAPIError(resp, body)
		log.WithField("message", apiErr.Message).Info("request rejected")
		return nil, apiErr
	}

	var envelope subscriptionEnvelope
	decodeErr := errEmptyBody
	if len(bytes.TrimSpace(body)) > 0 {
		decodeErr = json.Unmarshal(body, &envelope)
	}
	if decodeErr != nil {
		log.WithError(decodeErr).Warn("undecodable response body")
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Message:    fmt.Sprintf("error decoding response: %v", decodeErr),
		}
	}
	log.Debug("request succeeded")

	if isNullJSON(envelope.Subscription) {
		return nil, nil
	}
	return envelope.Subscription, nil
}

// GetSubscriptionStatus fetches the current subscription of userID
func (c *Client) GetSubscriptionStatus(ctx context.Context, userID string) (models.Subscription, error) {
	endpoint := fmt.Sprintf("%s/api/subscription-status?userId=%s", c.BaseURL, url.QueryEscape(userID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}

	return c.do(req, "subscription-status")
}

func isNullJSON(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

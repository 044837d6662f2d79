package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"subcon/internal/models"
)

// UpdateSubscription submits a plan change. The request must already carry a
// normalized effective date; see NormalizeEffectiveDate.
func (c *Client) UpdateSubscription(ctx context.Context, update models.UpdateRequest) (models.Subscription, error) {
	if err := update.Validate(); err != nil {
		return nil, err
	}

	jsonData, err := json.Marshal(update)
	if err != nil {
		return nil, fmt.Errorf("error marshalling request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/api/update-subscription", c.BaseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, "update-subscription")
}

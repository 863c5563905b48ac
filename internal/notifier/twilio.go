package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/nguyentantai21042004/caption-queue/internal/models"
	"github.com/nguyentantai21042004/caption-queue/pkg/httpclient"
)

type messageResponse struct {
	SID          string `json:"sid"`
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
}

func (n *implTwilio) Send(ctx context.Context, recipient, message string) (Result, error) {
	if recipient == "" {
		return Result{}, fmt.Errorf("%w: recipient is empty", models.ErrDeliveryFailed)
	}

	form := url.Values{}
	form.Set("To", recipient)
	form.Set("From", n.from)
	form.Set("Body", message)
	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", n.apiBase, n.sid)

	resp, err := n.client.Do(ctx, func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
		if err != nil {
			return nil, err
		}
		req.SetBasicAuth(n.sid, n.token)
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		return req, nil
	})
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", models.ErrDeliveryFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return Result{}, fmt.Errorf("%w: %v", models.ErrDeliveryFailed, httpclient.ReadError(resp))
	}

	var out messageResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return Result{}, fmt.Errorf("%w: decode response: %v", models.ErrDeliveryFailed, err)
	}
	if out.ErrorMessage != "" || out.Status == models.DeliveryFailed {
		return Result{DeliveryID: out.SID, Status: models.DeliveryFailed},
			fmt.Errorf("%w: %s", models.ErrDeliveryFailed, out.ErrorMessage)
	}
	if out.Status == "" {
		out.Status = models.DeliveryQueued
	}

	n.logger.Debug(ctx, "Sent SMS %s to %s (%s)", out.SID, recipient, out.Status)
	return Result{DeliveryID: out.SID, Status: out.Status}, nil
}

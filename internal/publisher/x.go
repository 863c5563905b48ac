package publisher

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/nguyentantai21042004/caption-queue/internal/models"
	"github.com/nguyentantai21042004/caption-queue/pkg/httpclient"
)

type tweetRequest struct {
	Text string `json:"text"`
}

type tweetResponse struct {
	Data struct {
		ID   string `json:"id"`
		Text string `json:"text"`
	} `json:"data"`
}

func (p *implX) Publish(ctx context.Context, text string) (Result, error) {
	payload, err := json.Marshal(tweetRequest{Text: text})
	if err != nil {
		return Result{}, fmt.Errorf("%w: encode tweet: %v", models.ErrPostingFailed, err)
	}

	resp, err := p.client.Do(ctx, func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.apiBase+"/2/tweets", bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+p.token)
		req.Header.Set("Content-Type", "application/json")
		return req, nil
	})
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", models.ErrPostingFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return Result{}, fmt.Errorf("%w: %v", models.ErrPostingFailed, httpclient.ReadError(resp))
	}

	var out tweetResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return Result{}, fmt.Errorf("%w: decode response: %v", models.ErrPostingFailed, err)
	}
	if out.Data.ID == "" {
		return Result{}, fmt.Errorf("%w: response carried no post id", models.ErrPostingFailed)
	}

	url := fmt.Sprintf("https://x.com/%s/status/%s", p.handle, out.Data.ID)
	p.logger.Info(ctx, "Published post %s", out.Data.ID)
	return Result{ExternalPostID: out.Data.ID, URL: url}, nil
}

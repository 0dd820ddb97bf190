package nlu

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/bytedance/sonic"
)

// Client is the thin proxy boundary to the natural-language service: text
// in, reply text out, synchronous, no retries. All understanding happens on
// the other side of this call.
type Client struct {
	hc       *http.Client
	baseURL  string
	botName  string
	botAlias string
}

func New(baseURL, botName, botAlias string) *Client {
	return &Client{
		hc:       &http.Client{Timeout: 10 * time.Second},
		baseURL:  baseURL,
		botName:  botName,
		botAlias: botAlias,
	}
}

type postTextRequest struct {
	InputText string `json:"inputText"`
}

type postTextResponse struct {
	Message string `json:"message"`
}

func (c *Client) PostText(ctx context.Context, userID, text string) (string, error) {
	body, err := sonic.Marshal(postTextRequest{InputText: text})
	if err != nil {
		return "", err
	}
	endpoint := fmt.Sprintf("%s/bot/%s/alias/%s/user/%s/text",
		c.baseURL, url.PathEscape(c.botName), url.PathEscape(c.botAlias), url.PathEscape(userID))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("content-type", "application/json")

	res, err := c.hc.Do(req)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()
	b, err := io.ReadAll(res.Body)
	if err != nil {
		return "", err
	}
	if res.StatusCode != http.StatusOK {
		return "", fmt.Errorf("nlu post text failed (status=%d)", res.StatusCode)
	}
	var out postTextResponse
	if err := sonic.Unmarshal(b, &out); err != nil {
		return "", fmt.Errorf("decode nlu response: %w", err)
	}
	return out.Message, nil
}

package opensearch

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/bytedance/sonic"

	"github.com/example/dining-concierge/internal/domain/recommend"
)

// Client talks to an OpenSearch-compatible search endpoint over its REST
// API. The query shape matches the index the corpus seeder writes: one doc
// per restaurant with its id and cuisine.
type Client struct {
	hc       *http.Client
	baseURL  string
	index    string
	username string
	password string
}

func New(baseURL, index, username, password string) *Client {
	return &Client{
		hc:       &http.Client{Timeout: 5 * time.Second},
		baseURL:  baseURL,
		index:    index,
		username: username,
		password: password,
	}
}

type searchRequest struct {
	Size  int `json:"size"`
	Query struct {
		MultiMatch struct {
			Query string `json:"query"`
		} `json:"multi_match"`
	} `json:"query"`
}

type searchResponse struct {
	Hits struct {
		Hits []struct {
			ID    string  `json:"_id"`
			Score float64 `json:"_score"`
		} `json:"hits"`
	} `json:"hits"`
}

// Search returns up to poolSize hits for the query, most relevant first.
func (c *Client) Search(ctx context.Context, query string, poolSize int) ([]recommend.Hit, error) {
	var sr searchRequest
	sr.Size = poolSize
	sr.Query.MultiMatch.Query = query

	body, err := sonic.Marshal(sr)
	if err != nil {
		return nil, err
	}
	status, resp, err := c.do(ctx, http.MethodPost, fmt.Sprintf("%s/_search", c.index), body)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("search failed (status=%d)", status)
	}
	var res searchResponse
	if err := sonic.Unmarshal(resp, &res); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}
	hits := make([]recommend.Hit, 0, len(res.Hits.Hits))
	for _, h := range res.Hits.Hits {
		hits = append(hits, recommend.Hit{ID: h.ID, Score: h.Score})
	}
	return hits, nil
}

// Index writes one document, replacing any previous version.
func (c *Client) Index(ctx context.Context, id string, doc any) error {
	body, err := sonic.Marshal(doc)
	if err != nil {
		return err
	}
	status, resp, err := c.do(ctx, http.MethodPut, fmt.Sprintf("%s/_doc/%s", c.index, url.PathEscape(id)), body)
	if err != nil {
		return err
	}
	if status >= 400 {
		var r struct {
			Error struct {
				Reason string `json:"reason"`
			} `json:"error"`
		}
		_ = sonic.Unmarshal(resp, &r)
		if r.Error.Reason != "" {
			return fmt.Errorf("index %s failed: %s (status=%d)", id, r.Error.Reason, status)
		}
		return fmt.Errorf("index %s failed (status=%d)", id, status)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, body []byte) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, fmt.Sprintf("%s/%s", c.baseURL, path), bytes.NewReader(body))
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("content-type", "application/json")
	if c.username != "" {
		req.SetBasicAuth(c.username, c.password)
	}
	res, err := c.hc.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer res.Body.Close()
	b, err := io.ReadAll(res.Body)
	if err != nil {
		return res.StatusCode, nil, err
	}
	return res.StatusCode, b, nil
}

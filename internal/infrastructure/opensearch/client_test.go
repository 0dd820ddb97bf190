package opensearch

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearch(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody []byte
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotBody, _ = io.ReadAll(r.Body)
		_, _ = w.Write([]byte(`{"hits":{"hits":[{"_id":"a","_score":2.5},{"_id":"b","_score":1.0}]}}`))
	}))
	defer ts.Close()

	c := New(ts.URL, "restaurants", "search-user", "secret")
	hits, err := c.Search(context.Background(), "italian", 100)
	require.NoError(t, err)

	assert.Equal(t, "/restaurants/_search", gotPath)
	assert.NotEmpty(t, gotAuth, "basic auth header set")

	var req searchRequest
	require.NoError(t, sonic.Unmarshal(gotBody, &req))
	assert.Equal(t, 100, req.Size)
	assert.Equal(t, "italian", req.Query.MultiMatch.Query)

	require.Len(t, hits, 2)
	assert.Equal(t, "a", hits[0].ID)
	assert.Equal(t, 2.5, hits[0].Score)
	assert.Equal(t, "b", hits[1].ID)
}

func TestSearchErrorStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer ts.Close()

	c := New(ts.URL, "restaurants", "", "")
	_, err := c.Search(context.Background(), "italian", 10)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status=502")
}

func TestIndex(t *testing.T) {
	var gotMethod, gotPath string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"result":"created"}`))
	}))
	defer ts.Close()

	c := New(ts.URL, "restaurants", "", "")
	err := c.Index(context.Background(), "r-1", map[string]string{"id": "r-1", "cuisine": "thai"})
	require.NoError(t, err)
	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, "/restaurants/_doc/r-1", gotPath)
}

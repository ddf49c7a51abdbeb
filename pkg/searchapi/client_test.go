package searchapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearch(t *testing.T) {
	var gotQuery, gotEngine, gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		gotQuery = r.URL.Query().Get("q")
		gotEngine = r.URL.Query().Get("engine")
		gotKey = r.URL.Query().Get("api_key")

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"organic_results": [
				{"title": "Analytical Engines", "link": "https://analyticalengines.example.com", "snippet": "A technology company."},
				{"title": "Ada - LinkedIn", "link": "https://linkedin.com/in/ada", "snippet": "Profile."}
			]
		}`))
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL), WithEngine("bing"))

	results, err := client.Search(context.Background(), "Ada Lovelace Analytical Engines")
	require.NoError(t, err)

	assert.Equal(t, "Ada Lovelace Analytical Engines", gotQuery)
	assert.Equal(t, "bing", gotEngine)
	assert.Equal(t, "test-key", gotKey)

	require.Len(t, results, 2)
	assert.Equal(t, "Analytical Engines", results[0].Title)
	assert.Equal(t, "https://linkedin.com/in/ada", results[1].Link)
	assert.Equal(t, "Profile.", results[1].Snippet)
}

func TestSearchErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"invalid api key"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := NewClient("bad-key", WithBaseURL(srv.URL))

	_, err := client.Search(context.Background(), "query")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestSearchEmptyResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))

	results, err := client.Search(context.Background(), "query")
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearchBadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))

	_, err := client.Search(context.Background(), "query")
	assert.Error(t, err)
}

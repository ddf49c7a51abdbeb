package enrich

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/lead-intake/pkg/searchapi"
)

func TestExtractURLs(t *testing.T) {
	results := []searchapi.Result{
		{Title: "Ada Lovelace - LinkedIn", Link: "https://www.linkedin.com/in/ada"},
		{Title: "Ada Lovelace | Twitter", Link: "https://twitter.com/ada"},
		{Title: "Analytical Engines", Link: "https://analyticalengines.example.com/about"},
		{Title: "Another site", Link: "https://other.example.com"},
	}

	got := ExtractURLs(results)
	assert.Equal(t, "https://www.linkedin.com/in/ada", got.LinkedIn)
	assert.Equal(t, "https://analyticalengines.example.com/about", got.Website)
}

func TestExtractURLsSkipsSocialDomains(t *testing.T) {
	results := []searchapi.Result{
		{Link: "https://www.facebook.com/analyticalengines"},
		{Link: "https://github.com/analyticalengines"},
		{Link: "https://www.youtube.com/@analyticalengines"},
	}

	got := ExtractURLs(results)
	assert.Empty(t, got.LinkedIn)
	assert.Empty(t, got.Website)
}

func TestExtractURLsFirstMatchWins(t *testing.T) {
	results := []searchapi.Result{
		{Link: "https://www.linkedin.com/in/first"},
		{Link: "https://www.linkedin.com/in/second"},
		{Link: "https://first.example.com"},
		{Link: "https://second.example.com"},
	}

	got := ExtractURLs(results)
	assert.Equal(t, "https://www.linkedin.com/in/first", got.LinkedIn)
	assert.Equal(t, "https://first.example.com", got.Website)
}

func TestExtractURLsEmptyResults(t *testing.T) {
	got := ExtractURLs(nil)
	assert.Empty(t, got.LinkedIn)
	assert.Empty(t, got.Website)
}

func TestPublicInfo(t *testing.T) {
	results := []searchapi.Result{
		{Title: "Analytical Engines", Snippet: "A technology company."},
		{Title: "Funding news", Snippet: "Raised a series A."},
	}

	got := PublicInfo(results)
	assert.Equal(t, "Analytical Engines: A technology company.\n\nFunding news: Raised a series A.", got)

	assert.Empty(t, PublicInfo(nil))
}

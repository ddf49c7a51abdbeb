package enrich

import (
	"net/url"
	"strings"

	"github.com/sells-group/lead-intake/pkg/searchapi"
)

// socialStoplist holds domains that never count as a company website.
var socialStoplist = []string{
	"linkedin.com",
	"google.com",
	"facebook.com",
	"twitter.com",
	"instagram.com",
	"youtube.com",
	"github.com",
}

// Extracted holds candidate URLs pulled from search results.
type Extracted struct {
	LinkedIn string
	Website  string
}

// ExtractURLs scans ranked search results for the submitter's LinkedIn
// profile and company website. The first link containing "linkedin.com"
// wins the LinkedIn slot; the first parseable link outside the social
// stoplist wins the website slot. Scanning stops once both are found.
func ExtractURLs(results []searchapi.Result) Extracted {
	var out Extracted

	for _, r := range results {
		link := r.Link

		if out.LinkedIn == "" && strings.Contains(link, "linkedin.com") {
			out.LinkedIn = link
		}

		if out.Website == "" && !onStoplist(link) {
			if parsed, err := url.Parse(link); err == nil && parsed.Hostname() != "" {
				out.Website = link
			}
		}

		if out.LinkedIn != "" && out.Website != "" {
			break
		}
	}

	return out
}

func onStoplist(link string) bool {
	for _, domain := range socialStoplist {
		if strings.Contains(link, domain) {
			return true
		}
	}
	return false
}

// PublicInfo flattens search results into "{title}: {snippet}" lines for
// grounding AI generation.
func PublicInfo(results []searchapi.Result) string {
	lines := make([]string, 0, len(results))
	for _, r := range results {
		lines = append(lines, r.Title+": "+r.Snippet)
	}
	return strings.Join(lines, "\n\n")
}

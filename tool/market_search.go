package tool

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"
)

// MarketSearchName is the identifier agents use to request a market search.
const MarketSearchName = "search_job_trends"

const duckDuckGoEndpoint = "https://html.duckduckgo.com/html/"

// MarketSearchOptions configure the MarketSearch tool.
type MarketSearchOptions struct {
	HTTPClient *http.Client
	Endpoint   string
	MaxResults int
}

// MarketSearch searches the web for job market trends, salaries, top
// skills and hiring companies for a role and location. It queries the
// DuckDuckGo HTML endpoint and condenses result titles and snippets into
// a plain-text digest for the model.
type MarketSearch struct {
	client     *http.Client
	endpoint   string
	maxResults int
}

// NewMarketSearch constructs the tool with optional overrides.
func NewMarketSearch(optFns ...func(o *MarketSearchOptions)) *MarketSearch {
	opts := MarketSearchOptions{
		HTTPClient: &http.Client{Timeout: 15 * time.Second},
		Endpoint:   duckDuckGoEndpoint,
		MaxResults: 3,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &MarketSearch{
		client:     opts.HTTPClient,
		endpoint:   opts.Endpoint,
		maxResults: opts.MaxResults,
	}
}

// Name implements Tool.
func (m *MarketSearch) Name() string { return MarketSearchName }

// Description implements Tool.
func (m *MarketSearch) Description() string {
	return "Search the web for live job market trends, salaries, top skills, " +
		"and hiring companies for a specific role and location."
}

// Parameters implements Tool.
func (m *MarketSearch) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"role": map[string]any{
				"type":        "string",
				"description": "Target job role, e.g. 'Data Scientist'",
			},
			"location": map[string]any{
				"type":        "string",
				"description": "Target location, e.g. 'United States' or 'Remote'",
			},
		},
		"required": []string{"role", "location"},
	}
}

// Call implements Tool. It returns a digest of the top search hits, or an
// explanatory message when nothing was found.
func (m *MarketSearch) Call(ctx context.Context, args map[string]string) (string, error) {
	role := args["role"]
	location := args["location"]
	query := fmt.Sprintf("%s job market trends salary top skills hiring companies in %s", role, location)

	results, err := m.search(ctx, query)
	if err != nil {
		return "", err
	}
	if len(results) == 0 {
		return "No recent search results found. Make an educated guess based on your knowledge.", nil
	}

	var b strings.Builder
	for i, r := range results {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "Title: %s\nSnippet: %s", r.title, r.snippet)
	}
	return b.String(), nil
}

type searchHit struct{ title, snippet string }

var (
	resultTitleRe   = regexp.MustCompile(`(?s)<a[^>]*class="result__a"[^>]*>(.*?)</a>`)
	resultSnippetRe = regexp.MustCompile(`(?s)<a[^>]*class="result__snippet"[^>]*>(.*?)</a>`)
	htmlTagRe       = regexp.MustCompile(`<[^>]+>`)
)

// search posts the query to the HTML endpoint and scrapes result titles
// and snippets. The markup is stable enough for a line-level scrape; a
// structural change degrades to zero hits, which Call reports gracefully.
func (m *MarketSearch) search(ctx context.Context, query string) ([]searchHit, error) {
	form := url.Values{"q": {query}}
	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, m.endpoint, strings.NewReader(form.Encode()),
	)
	if err != nil {
		return nil, fmt.Errorf("build search request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", "careermesh/1.0")

	resp, err := m.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("web search: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("web search: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read search response: %w", err)
	}

	titles := resultTitleRe.FindAllStringSubmatch(string(body), m.maxResults)
	snippets := resultSnippetRe.FindAllStringSubmatch(string(body), m.maxResults)

	hits := make([]searchHit, 0, len(titles))
	for i, t := range titles {
		hit := searchHit{title: cleanHTML(t[1])}
		if i < len(snippets) {
			hit.snippet = cleanHTML(snippets[i][1])
		}
		hits = append(hits, hit)
	}
	return hits, nil
}

func cleanHTML(s string) string {
	s = htmlTagRe.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, "&amp;", "&")
	s = strings.ReplaceAll(s, "&quot;", `"`)
	s = strings.ReplaceAll(s, "&#x27;", "'")
	return strings.TrimSpace(s)
}

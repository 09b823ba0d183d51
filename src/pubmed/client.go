package pubmed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/verimed-labs/claimwatch/src/webclient"
)

const (
	defaultBaseURL    = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils"
	defaultMaxResults = 5
)

// Article is a transient literature record fetched per query; it is never
// persisted beyond the verification call that used it.
type Article struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	PubDate  string   `json:"pubDate"`
	Source   string   `json:"source"`
	Authors  []string `json:"authors"`
	Abstract string   `json:"abstract"`
	DOI      string   `json:"doi"`
	URL      string   `json:"url"`
}

// Client talks to the NCBI E-utilities search and summary endpoints.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a PubMed client. The API key is optional; NCBI merely
// throttles keyless callers harder.
func NewClient(apiKey string) *Client {
	return &Client{
		baseURL:    defaultBaseURL,
		apiKey:     apiKey,
		httpClient: webclient.NewDefault(30 * time.Second),
	}
}

// NewClientWithBaseURL is used by tests to point the client at a fake server.
func NewClientWithBaseURL(baseURL, apiKey string) *Client {
	c := NewClient(apiKey)
	c.baseURL = strings.TrimRight(baseURL, "/")
	return c
}

var nonQueryChars = regexp.MustCompile(`[^\w\s-]`)
var whitespaceRun = regexp.MustCompile(`\s+`)

// SanitizeQuery strips everything outside word characters, whitespace, and
// hyphens, then collapses internal whitespace.
func SanitizeQuery(text string) string {
	cleaned := nonQueryChars.ReplaceAllString(text, "")
	return whitespaceRun.ReplaceAllString(strings.TrimSpace(cleaned), " ")
}

// SearchArticles runs an ID search followed by a summary fetch for the
// returned IDs. Upstream failures and malformed responses are absorbed into
// an empty result so a flaky literature API never fails the verification
// pipeline. Result order follows the upstream ranking.
func (c *Client) SearchArticles(ctx context.Context, query string, maxResults int) []Article {
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	ids, err := c.searchIDs(ctx, SanitizeQuery(query), maxResults)
	if err != nil {
		log.Printf("pubmed: search failed: %v", err)
		return nil
	}
	if len(ids) == 0 {
		return nil
	}

	articles, err := c.fetchSummaries(ctx, ids)
	if err != nil {
		log.Printf("pubmed: summary fetch failed: %v", err)
		return nil
	}
	return articles
}

type esearchResponse struct {
	ESearchResult struct {
		IDList []string `json:"idlist"`
	} `json:"esearchresult"`
}

func (c *Client) searchIDs(ctx context.Context, term string, max int) ([]string, error) {
	params := url.Values{
		"db":      {"pubmed"},
		"term":    {term},
		"retmax":  {fmt.Sprintf("%d", max)},
		"retmode": {"json"},
	}
	body, err := c.get(ctx, "/esearch.fcgi", params)
	if err != nil {
		return nil, err
	}

	var parsed esearchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("parse esearch response: %w", err)
	}
	return parsed.ESearchResult.IDList, nil
}

type esummaryResponse struct {
	Result map[string]json.RawMessage `json:"result"`
}

type esummaryRecord struct {
	UID     string `json:"uid"`
	Title   string `json:"title"`
	PubDate string `json:"pubdate"`
	Source  string `json:"source"`
	Authors []struct {
		Name string `json:"name"`
	} `json:"authors"`
	Abstract    string `json:"abstract"`
	ELocationID string `json:"elocationid"`
}

func (c *Client) fetchSummaries(ctx context.Context, ids []string) ([]Article, error) {
	params := url.Values{
		"db":      {"pubmed"},
		"id":      {strings.Join(ids, ",")},
		"retmode": {"json"},
	}
	body, err := c.get(ctx, "/esummary.fcgi", params)
	if err != nil {
		return nil, err
	}

	var parsed esummaryResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("parse esummary response: %w", err)
	}

	// The result map is joined back to the ID list so ordering follows the
	// upstream ranking rather than map iteration.
	articles := make([]Article, 0, len(ids))
	for _, id := range ids {
		raw, ok := parsed.Result[id]
		if !ok {
			continue
		}
		var rec esummaryRecord
		if err := json.Unmarshal(raw, &rec); err != nil || rec.UID == "" {
			continue
		}

		authors := make([]string, 0, len(rec.Authors))
		for _, a := range rec.Authors {
			authors = append(authors, a.Name)
		}

		articles = append(articles, Article{
			ID:       rec.UID,
			Title:    rec.Title,
			PubDate:  rec.PubDate,
			Source:   rec.Source,
			Authors:  authors,
			Abstract: rec.Abstract,
			DOI:      rec.ELocationID,
			URL:      fmt.Sprintf("https://pubmed.ncbi.nlm.nih.gov/%s/", rec.UID),
		})
	}
	return articles, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	if c.apiKey != "" {
		params.Set("api_key", c.apiKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("pubmed %s: status %d", path, resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

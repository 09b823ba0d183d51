package twitter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"io"
	"log"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"

	"github.com/verimed-labs/claimwatch/src/claims"
	"github.com/verimed-labs/claimwatch/src/webclient"
)

const (
	defaultAPIHost    = "twitter-api47.p.rapidapi.com"
	defaultListLimit  = 10
	defaultMaxRetries = 3
	defaultRetryDelay = time.Second

	timelineModuleEntry = "TimelineTimelineModule"
)

// ErrUserNotFound is terminal: the caller must not retry it.
var ErrUserNotFound = errors.New("twitter: user not found")

// Client fetches a user's recent posts through a RapidAPI Twitter gateway.
type Client struct {
	baseURL    string
	apiKey     string
	apiHost    string
	httpClient *http.Client
	maxRetries int
	retryDelay time.Duration
	sanitizer  *bluemonday.Policy
}

// NewClient builds a client against the default RapidAPI host.
func NewClient(apiKey string) *Client {
	return &Client{
		baseURL:    "https://" + defaultAPIHost,
		apiKey:     apiKey,
		apiHost:    defaultAPIHost,
		httpClient: webclient.NewDefault(30 * time.Second),
		maxRetries: defaultMaxRetries,
		retryDelay: defaultRetryDelay,
		sanitizer:  bluemonday.StrictPolicy(),
	}
}

// NewClientWithBaseURL points the client at a fake server; tests also shrink
// the retry delay through it.
func NewClientWithBaseURL(baseURL, apiKey string, retryDelay time.Duration) *Client {
	c := NewClient(apiKey)
	c.baseURL = strings.TrimRight(baseURL, "/")
	if retryDelay > 0 {
		c.retryDelay = retryDelay
	}
	return c
}

// ResolveUserID maps a handle to the platform-internal user id. A 404 or a
// response without a rest_id is a terminal not-found.
func (c *Client) ResolveUserID(ctx context.Context, handle string) (string, error) {
	status, body, err := c.get(ctx, "/v2/user/by-username", url.Values{"username": {handle}})
	if err != nil {
		return "", fmt.Errorf("resolve user %q: %w", handle, err)
	}
	if status == http.StatusNotFound {
		return "", fmt.Errorf("%w: %s", ErrUserNotFound, handle)
	}
	if status != http.StatusOK {
		return "", fmt.Errorf("resolve user %q: status %d", handle, status)
	}

	var parsed struct {
		RestID string `json:"rest_id"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil || parsed.RestID == "" {
		return "", fmt.Errorf("%w: %s", ErrUserNotFound, handle)
	}
	return parsed.RestID, nil
}

// GetUserTweets fetches, filters, and canonicalizes a user's recent posts for
// the given time range. Rate limits retry with a doubled delay, other
// transient failures with linear backoff, both within the same attempt limit.
func (c *Client) GetUserTweets(ctx context.Context, handle string, timeRange TimeRange) ([]Post, error) {
	userID, err := c.ResolveUserID(ctx, handle)
	if err != nil {
		return nil, err
	}

	var entries []timelineEntry
	policy := webclient.Policy{
		Attempts: c.maxRetries,
		Delay:    c.retryDelay,
		Retryable: func(status int, err error) bool {
			return err != nil && !errors.Is(err, ErrUserNotFound)
		},
		Backoff: webclient.RateLimitAwareBackoff,
	}

	_, _, err = webclient.Do(ctx, policy, func() (int, []byte, error) {
		status, body, err := c.get(ctx, "/v2/user/tweets", url.Values{
			"userId": {userID},
			"limit":  {fmt.Sprintf("%d", defaultListLimit)},
		})
		if err != nil {
			return status, body, err
		}
		switch {
		case status == http.StatusNotFound:
			return status, body, fmt.Errorf("%w: %s", ErrUserNotFound, handle)
		case status != http.StatusOK:
			return status, body, fmt.Errorf("list tweets: status %d", status)
		}

		decoded, err := decodeTimeline(body)
		if err != nil {
			return status, body, err
		}
		entries = decoded
		return status, body, nil
	})
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("twitter: fetch tweets for %q after %d attempts: %w", handle, c.maxRetries, err)
	}

	posts := c.processEntries(entries, timeRange)
	log.Printf("twitter: %d posts for %s within %s", len(posts), handle, timeRange)
	return posts, nil
}

// processEntries drops non-content entries and entries missing required
// fields, applies the time-range filter, and maps into canonical posts.
func (c *Client) processEntries(entries []timelineEntry, timeRange TimeRange) []Post {
	start := timeRange.Start(time.Now())

	posts := make([]Post, 0, len(entries))
	for _, entry := range entries {
		if entry.Content == nil || entry.Content.EntryType == timelineModuleEntry {
			continue
		}
		if entry.Content.ItemContent == nil || entry.Content.ItemContent.TweetResults == nil {
			continue
		}
		result := entry.Content.ItemContent.TweetResults.Result
		if result == nil || result.Legacy == nil || result.RestID == "" || result.Legacy.FullText == "" {
			continue
		}

		createdAt, err := time.Parse(time.RubyDate, result.Legacy.CreatedAt)
		if err != nil {
			continue
		}
		if createdAt.Before(start) {
			continue
		}

		posts = append(posts, Post{
			ID:        result.RestID,
			Platform:  "twitter",
			Content:   c.normalizeText(result.Legacy.FullText),
			CreatedAt: createdAt,
			Engagement: claims.Engagement{
				Likes:    result.Legacy.FavoriteCount,
				Retweets: result.Legacy.RetweetCount,
				Replies:  result.Legacy.ReplyCount,
			},
			URL: fmt.Sprintf("https://twitter.com/user/status/%s", result.RestID),
		})
	}
	return posts
}

var trackingLink = regexp.MustCompile(`https?://t\.co/\S+`)

// normalizeText strips markup and tracking redirects, resolves HTML entities,
// and collapses whitespace.
func (c *Client) normalizeText(text string) string {
	text = c.sanitizer.Sanitize(text)
	text = html.UnescapeString(text)
	text = trackingLink.ReplaceAllString(text, "")
	return strings.Join(strings.Fields(text), " ")
}

func (c *Client) get(ctx context.Context, path string, params url.Values) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("x-rapidapi-key", c.apiKey)
	req.Header.Set("x-rapidapi-host", c.apiHost)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, err
	}
	return resp.StatusCode, body, nil
}

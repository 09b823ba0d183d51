package twitter

import (
	"encoding/json"
	"errors"
)

// ErrUnrecognizedShape signals a timeline payload that matched none of the
// known response variants.
var ErrUnrecognizedShape = errors.New("twitter: unrecognized timeline response shape")

// timelineEntry mirrors the nested envelope the upstream API wraps tweets in.
// Pointers mark layers that may be absent so missing-field entries can be
// filtered instead of decoded into zero values.
type timelineEntry struct {
	Content *struct {
		EntryType   string `json:"entryType"`
		ItemContent *struct {
			TweetResults *struct {
				Result *tweetResult `json:"result"`
			} `json:"tweet_results"`
		} `json:"itemContent"`
	} `json:"content"`
}

type tweetResult struct {
	RestID string `json:"rest_id"`
	Legacy *struct {
		FullText      string `json:"full_text"`
		CreatedAt     string `json:"created_at"`
		FavoriteCount int    `json:"favorite_count"`
		RetweetCount  int    `json:"retweet_count"`
		ReplyCount    int    `json:"reply_count"`
	} `json:"legacy"`
}

// shapeMatcher attempts one structural reading of the timeline payload.
type shapeMatcher struct {
	name   string
	decode func(body []byte) ([]timelineEntry, bool)
}

// timelineShapes is the ordered list of accepted response variants; the first
// structural match wins.
var timelineShapes = []shapeMatcher{
	{"array", func(body []byte) ([]timelineEntry, bool) {
		var entries []timelineEntry
		if err := json.Unmarshal(body, &entries); err != nil {
			return nil, false
		}
		return entries, true
	}},
	{"data", keyedShape("data")},
	{"tweets", keyedShape("tweets")},
	{"results", keyedShape("results")},
}

func keyedShape(key string) func(body []byte) ([]timelineEntry, bool) {
	return func(body []byte) ([]timelineEntry, bool) {
		var envelope map[string]json.RawMessage
		if err := json.Unmarshal(body, &envelope); err != nil {
			return nil, false
		}
		raw, ok := envelope[key]
		if !ok {
			return nil, false
		}
		var entries []timelineEntry
		if err := json.Unmarshal(raw, &entries); err != nil {
			return nil, false
		}
		return entries, true
	}
}

// decodeTimeline tries each accepted shape in order.
func decodeTimeline(body []byte) ([]timelineEntry, error) {
	for _, shape := range timelineShapes {
		if entries, ok := shape.decode(body); ok {
			return entries, nil
		}
	}
	return nil, ErrUnrecognizedShape
}

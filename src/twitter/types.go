package twitter

import (
	"time"

	"github.com/verimed-labs/claimwatch/src/claims"
)

// TimeRange bounds how far back the post listing reaches.
type TimeRange string

const (
	RangeLastWeek  TimeRange = "lastWeek"
	RangeLastMonth TimeRange = "lastMonth"
)

// Start returns the inclusive lower bound for post timestamps. Unknown values
// fall back to lastWeek.
func (tr TimeRange) Start(now time.Time) time.Time {
	switch tr {
	case RangeLastMonth:
		return now.AddDate(0, 0, -30)
	default:
		return now.AddDate(0, 0, -7)
	}
}

// Post is the canonical social-media content unit consumed by the pipeline.
type Post struct {
	ID         string            `json:"id"`
	Platform   string            `json:"platform"`
	Content    string            `json:"content"`
	CreatedAt  time.Time         `json:"createdAt"`
	Engagement claims.Engagement `json:"engagement"`
	URL        string            `json:"url"`
}

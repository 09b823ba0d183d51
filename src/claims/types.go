package claims

import "time"

// ClaimType categorizes an extracted claim.
type ClaimType string

const TypeMedical ClaimType = "medical"

// Claim is a sentence-level health assertion extracted from source text.
type Claim struct {
	Text          string    `json:"text"`
	Type          ClaimType `json:"type"`
	ExtractedDate time.Time `json:"extractedDate"`
}

// EvidenceRef points at a literature record backing (or failing to back) a claim.
type EvidenceRef struct {
	Title          string  `json:"title"`
	URL            string  `json:"url"`
	PubDate        string  `json:"pubDate"`
	RelevanceScore float64 `json:"relevanceScore"`
}

// Verification is the outcome of checking one claim against the literature.
// Recomputed wholesale on a retried attempt; the latest attempt wins.
type Verification struct {
	Verified           bool          `json:"verified"`
	Confidence         int           `json:"confidence"`
	SupportingEvidence []EvidenceRef `json:"supportingEvidence"`
	LastChecked        time.Time     `json:"lastChecked"`
	Skipped            bool          `json:"verificationSkipped,omitempty"`
}

// Engagement aggregates interaction counters for a post or report.
type Engagement struct {
	Likes    int `json:"likes"`
	Retweets int `json:"retweets"`
	Replies  int `json:"replies"`
}

// VerifiedClaim carries a claim, its verification, and the post it came from.
type VerifiedClaim struct {
	Claim
	Verification Verification `json:"verification"`
	PostID       string       `json:"postId,omitempty"`
	Platform     string       `json:"platform,omitempty"`
	Engagement   Engagement   `json:"engagement"`
	URL          string       `json:"url,omitempty"`
}

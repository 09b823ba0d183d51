package influencer

import (
	"sort"

	"github.com/verimed-labs/claimwatch/src/claims"
)

const topClaimCount = 5

// Summary holds the aggregate statistics of one analysis run.
type Summary struct {
	TotalClaims       int               `json:"totalClaims"`
	VerifiedCount     int               `json:"verifiedCount"`
	VerificationRate  float64           `json:"verificationRate"`
	AverageConfidence float64           `json:"averageConfidence"`
	TotalEngagement   claims.Engagement `json:"totalEngagement"`
}

// Report is the aggregate over all verified claims for one influencer and
// time window.
type Report struct {
	Summary   Summary                `json:"summary"`
	Claims    []claims.VerifiedClaim `json:"claims"`
	Platforms []string               `json:"platforms"`
	TopClaims []claims.VerifiedClaim `json:"topClaims"`
}

// GenerateReport assembles a report from the analyzed claims. Rates and means
// are 0, never NaN, when there are no claims.
func GenerateReport(analysis []claims.VerifiedClaim) *Report {
	report := &Report{
		Claims:    analysis,
		Platforms: []string{"twitter"},
		TopClaims: []claims.VerifiedClaim{},
	}
	if len(analysis) == 0 {
		report.Claims = []claims.VerifiedClaim{}
		return report
	}

	var verified int
	var confidenceSum float64
	var engagement claims.Engagement
	for _, c := range analysis {
		if c.Verification.Verified {
			verified++
		}
		confidenceSum += float64(c.Verification.Confidence)
		engagement.Likes += c.Engagement.Likes
		engagement.Retweets += c.Engagement.Retweets
		engagement.Replies += c.Engagement.Replies
	}

	report.Summary = Summary{
		TotalClaims:       len(analysis),
		VerifiedCount:     verified,
		VerificationRate:  float64(verified) / float64(len(analysis)) * 100,
		AverageConfidence: confidenceSum / float64(len(analysis)),
		TotalEngagement:   engagement,
	}

	top := make([]claims.VerifiedClaim, len(analysis))
	copy(top, analysis)
	sort.SliceStable(top, func(i, j int) bool {
		return top[i].Engagement.Likes+top[i].Engagement.Retweets >
			top[j].Engagement.Likes+top[j].Engagement.Retweets
	})
	if len(top) > topClaimCount {
		top = top[:topClaimCount]
	}
	report.TopClaims = top

	return report
}

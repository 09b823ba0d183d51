package webserver

import (
	"context"
	"log"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/verimed-labs/claimwatch/src/claims"
)

// ClaimChecker is the slice of the claim verifier the analyze endpoint needs.
type ClaimChecker interface {
	VerifyMedicalClaim(ctx context.Context, claimText string) (claims.Verification, error)
}

type Analyze struct {
	checker ClaimChecker
}

func NewAnalyze(checker ClaimChecker) Analyze {
	return Analyze{checker: checker}
}

type analyzeSummary struct {
	TotalClaims       int     `json:"totalClaims"`
	VerifiedCount     int     `json:"verifiedCount"`
	VerificationRate  float64 `json:"verificationRate"`
	AverageConfidence float64 `json:"averageConfidence"`
}

// Analyze extracts claims from free text and optionally verifies them. A
// single claim's verification failure degrades that claim to an unverified
// placeholder; it never fails the request.
func (a Analyze) Analyze(c *gin.Context) {
	var req struct {
		Text   string `json:"text" binding:"required"`
		Verify bool   `json:"verify"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "text is required and must be a string"})
		return
	}

	extracted := claims.Dedupe(claims.ExtractClaims(req.Text))
	if len(extracted) == 0 {
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data": gin.H{
				"originalText":        req.Text,
				"claims":              []claims.VerifiedClaim{},
				"summary":             analyzeSummary{},
				"verificationEnabled": req.Verify,
			},
		})
		return
	}

	verified := make([]claims.VerifiedClaim, len(extracted))
	if req.Verify {
		var wg sync.WaitGroup
		semaphore := make(chan struct{}, 3)
		for i, cl := range extracted {
			wg.Add(1)
			go func(index int, cl claims.Claim) {
				defer wg.Done()
				semaphore <- struct{}{}
				defer func() { <-semaphore }()

				verification, err := a.checker.VerifyMedicalClaim(c.Request.Context(), cl.Text)
				if err != nil {
					log.Printf("webserver: verify claim failed: %v", err)
					verification = claims.Verification{SupportingEvidence: []claims.EvidenceRef{}}
				}
				verified[index] = claims.VerifiedClaim{Claim: cl, Verification: verification}
			}(i, cl)
		}
		wg.Wait()
	} else {
		for i, cl := range extracted {
			verified[i] = claims.VerifiedClaim{
				Claim: cl,
				Verification: claims.Verification{
					SupportingEvidence: []claims.EvidenceRef{},
					Skipped:            true,
				},
			}
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"originalText":        req.Text,
			"claims":              verified,
			"summary":             summarize(verified),
			"verificationEnabled": req.Verify,
		},
	})
}

func summarize(verified []claims.VerifiedClaim) analyzeSummary {
	s := analyzeSummary{TotalClaims: len(verified)}
	if s.TotalClaims == 0 {
		return s
	}

	var confidenceSum float64
	for _, vc := range verified {
		if vc.Verification.Verified {
			s.VerifiedCount++
		}
		confidenceSum += float64(vc.Verification.Confidence)
	}
	s.VerificationRate = float64(s.VerifiedCount) / float64(s.TotalClaims) * 100
	s.AverageConfidence = confidenceSum / float64(s.TotalClaims)
	return s
}

package pubmed

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/verimed-labs/claimwatch/src/claims"
)

// ErrVerificationFailed signals an unexpected local failure while verifying a
// claim. Upstream search failures never surface here; the search client
// absorbs those into an empty evidence set.
var ErrVerificationFailed = errors.New("pubmed: failed to verify medical claim")

const (
	defaultMaxRetries  = 3
	defaultRetryDelay  = time.Second
	maxConcurrentCalls = 3
)

// PostRef ties verified claims back to the post they were extracted from.
type PostRef struct {
	PostID     string
	Platform   string
	URL        string
	Engagement claims.Engagement
}

// Verifier is the per-claim verification unit: search, score, attach evidence.
type Verifier struct {
	client     *Client
	maxRetries int
	retryDelay time.Duration
}

// NewVerifier builds a Verifier on top of a literature search client.
func NewVerifier(client *Client) *Verifier {
	return &Verifier{
		client:     client,
		maxRetries: defaultMaxRetries,
		retryDelay: defaultRetryDelay,
	}
}

// SetRetryDelay overrides the backoff base, used by tests to keep retries fast.
func (v *Verifier) SetRetryDelay(d time.Duration) {
	if d > 0 {
		v.retryDelay = d
	}
}

// VerifyMedicalClaim checks one claim against the literature: sanitize,
// search, score, and build the supporting evidence list in retrieval order.
func (v *Verifier) VerifyMedicalClaim(ctx context.Context, claimText string) (claims.Verification, error) {
	if SanitizeQuery(claimText) == "" {
		return claims.Verification{}, fmt.Errorf("%w: empty claim text", ErrVerificationFailed)
	}

	articles := v.client.SearchArticles(ctx, claimText, defaultMaxResults)
	analysis := AnalyzeArticles(articles, claimText)

	evidence := make([]claims.EvidenceRef, 0, len(articles))
	for _, a := range articles {
		evidence = append(evidence, claims.EvidenceRef{
			Title:          a.Title,
			URL:            a.URL,
			PubDate:        a.PubDate,
			RelevanceScore: Relevance(a, claimText),
		})
	}

	return claims.Verification{
		Verified:           analysis.IsVerified,
		Confidence:         analysis.Confidence,
		SupportingEvidence: evidence,
		LastChecked:        time.Now().UTC(),
	}, nil
}

// VerifyWithRetry verifies a batch of claims from one post, retrying the whole
// batch with linear backoff. A retried attempt re-verifies every claim; there
// is no partial-success carryover between attempts.
func (v *Verifier) VerifyWithRetry(ctx context.Context, batch []claims.Claim, post PostRef, maxRetries int) ([]claims.VerifiedClaim, error) {
	if maxRetries <= 0 {
		maxRetries = v.maxRetries
	}

	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		verified, err := v.verifyBatch(ctx, batch, post)
		if err == nil {
			return verified, nil
		}
		lastErr = err

		if attempt == maxRetries {
			break
		}
		log.Printf("pubmed: batch verification attempt %d failed: %v", attempt, err)

		t := time.NewTimer(time.Duration(attempt) * v.retryDelay)
		select {
		case <-ctx.Done():
			t.Stop()
			return nil, ctx.Err()
		case <-t.C:
		}
	}
	return nil, lastErr
}

// verifyBatch fans the claims out over a bounded number of goroutines. Each
// result lands in its positionally fixed slot so output order follows input
// order regardless of completion order.
func (v *Verifier) verifyBatch(ctx context.Context, batch []claims.Claim, post PostRef) ([]claims.VerifiedClaim, error) {
	results := make([]claims.VerifiedClaim, len(batch))
	errs := make([]error, len(batch))

	var wg sync.WaitGroup
	semaphore := make(chan struct{}, maxConcurrentCalls)

	for i, c := range batch {
		wg.Add(1)
		go func(index int, cl claims.Claim) {
			defer wg.Done()

			select {
			case semaphore <- struct{}{}:
				defer func() { <-semaphore }()
			case <-ctx.Done():
				errs[index] = ctx.Err()
				return
			}

			verification, err := v.VerifyMedicalClaim(ctx, cl.Text)
			if err != nil {
				errs[index] = err
				return
			}
			results[index] = claims.VerifiedClaim{
				Claim:        cl,
				Verification: verification,
				PostID:       post.PostID,
				Platform:     post.Platform,
				Engagement:   post.Engagement,
				URL:          post.URL,
			}
		}(i, c)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}

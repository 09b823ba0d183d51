package influencer

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/verimed-labs/claimwatch/src/cache"
	"github.com/verimed-labs/claimwatch/src/claims"
	"github.com/verimed-labs/claimwatch/src/pubmed"
	"github.com/verimed-labs/claimwatch/src/twitter"
)

// ErrAlreadyProcessing rejects a request for a handle whose analysis is still
// in flight. The caller must re-request later; nothing is queued.
var ErrAlreadyProcessing = errors.New("influencer: handle is currently being processed")

const (
	defaultCacheTTL   = 5 * time.Minute
	defaultBatchSize  = 5
	defaultBatchPause = time.Second
	defaultMaxRetries = 3
)

// ContentSource fetches a user's recent posts for a time window.
type ContentSource interface {
	GetUserTweets(ctx context.Context, handle string, timeRange twitter.TimeRange) ([]twitter.Post, error)
}

// ClaimVerifier verifies a batch of claims extracted from one post.
type ClaimVerifier interface {
	VerifyWithRetry(ctx context.Context, batch []claims.Claim, post pubmed.PostRef, maxRetries int) ([]claims.VerifiedClaim, error)
}

// Service drives the full per-influencer pipeline: fetch posts, extract and
// deduplicate claims, verify in bounded batches, and aggregate into a report.
// It exclusively owns the post cache and the in-flight handle set.
type Service struct {
	source   ContentSource
	verifier ClaimVerifier

	posts    *cache.TTLMap
	inflight *cache.Inflight

	batchSize  int
	batchPause time.Duration
	maxRetries int
}

// Option tunes a Service, mostly for tests.
type Option func(*Service)

// WithCacheTTL overrides the 5-minute post-cache lifetime.
func WithCacheTTL(ttl time.Duration) Option {
	return func(s *Service) { s.posts = cache.NewTTLMap(ttl) }
}

// WithBatching overrides the batch size and inter-batch pause.
func WithBatching(size int, pause time.Duration) Option {
	return func(s *Service) {
		if size > 0 {
			s.batchSize = size
		}
		s.batchPause = pause
	}
}

// NewService wires the orchestrator to its content source and verifier.
func NewService(source ContentSource, verifier ClaimVerifier, opts ...Option) *Service {
	s := &Service{
		source:     source,
		verifier:   verifier,
		posts:      cache.NewTTLMap(defaultCacheTTL),
		inflight:   cache.NewInflight(),
		batchSize:  defaultBatchSize,
		batchPause: defaultBatchPause,
		maxRetries: defaultMaxRetries,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetInfluencerContent returns the influencer's posts for the window, served
// from cache when a live entry exists. Concurrent requests for the same
// handle fail fast with ErrAlreadyProcessing while the fetch is in flight.
func (s *Service) GetInfluencerContent(ctx context.Context, handle string, timeRange twitter.TimeRange) ([]twitter.Post, error) {
	if !s.inflight.TryAcquire(handle) {
		return nil, fmt.Errorf("%w: %s", ErrAlreadyProcessing, handle)
	}
	defer s.inflight.Release(handle)

	key := fmt.Sprintf("%s-%s", handle, timeRange)
	if cached, ok := s.posts.Get(key); ok {
		return cached.([]twitter.Post), nil
	}

	posts, err := s.source.GetUserTweets(ctx, handle, timeRange)
	if err != nil {
		return nil, err
	}

	s.posts.Set(key, posts)
	return posts, nil
}

// AnalyzePosts runs claim extraction and verification over the posts in
// fixed-size batches, pausing between batches to stay under the literature
// API's rate limits. A single post's failure degrades to an empty result and
// never aborts the batch.
func (s *Service) AnalyzePosts(ctx context.Context, posts []twitter.Post) *Report {
	analysis := make([]claims.VerifiedClaim, 0)

	for start := 0; start < len(posts); start += s.batchSize {
		end := start + s.batchSize
		if end > len(posts) {
			end = len(posts)
		}
		batch := posts[start:end]

		// Results are positionally fixed so output order within a batch
		// follows input order, not completion order.
		results := make([][]claims.VerifiedClaim, len(batch))
		var wg sync.WaitGroup
		for i, post := range batch {
			wg.Add(1)
			go func(index int, p twitter.Post) {
				defer wg.Done()
				results[index] = s.analyzePost(ctx, p)
			}(i, post)
		}
		wg.Wait()

		for _, r := range results {
			analysis = append(analysis, r...)
		}

		if end < len(posts) && s.batchPause > 0 {
			t := time.NewTimer(s.batchPause)
			select {
			case <-ctx.Done():
				t.Stop()
				return GenerateReport(analysis)
			case <-t.C:
			}
		}
	}

	return GenerateReport(analysis)
}

// AnalyzeInfluencer is the full pipeline for one influencer and time window.
func (s *Service) AnalyzeInfluencer(ctx context.Context, handle string, timeRange twitter.TimeRange) (*Report, error) {
	posts, err := s.GetInfluencerContent(ctx, handle, timeRange)
	if err != nil {
		return nil, err
	}
	return s.AnalyzePosts(ctx, posts), nil
}

func (s *Service) analyzePost(ctx context.Context, post twitter.Post) []claims.VerifiedClaim {
	extracted := claims.Dedupe(claims.ExtractClaims(post.Content))
	if len(extracted) == 0 {
		return nil
	}

	ref := pubmed.PostRef{
		PostID:     post.ID,
		Platform:   post.Platform,
		URL:        post.URL,
		Engagement: post.Engagement,
	}

	verified, err := s.verifier.VerifyWithRetry(ctx, extracted, ref, s.maxRetries)
	if err != nil {
		log.Printf("influencer: analysis of post %s failed: %v", post.ID, err)
		return nil
	}
	return verified
}

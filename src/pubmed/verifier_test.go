package pubmed

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verimed-labs/claimwatch/src/claims"
)

func newFakeVerifier(t *testing.T) *Verifier {
	t.Helper()
	year := time.Now().Year()
	client := newFakeEutils(t,
		func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"esearchresult":{"idlist":["111"]}}`)
		},
		func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprintf(w, `{"result":{
				"uids":["111"],
				"111":{"uid":"111","title":"turmeric cures inflammation","pubdate":"%d Jan","source":"JAMA"}
			}}`, year)
		},
	)
	v := NewVerifier(client)
	v.SetRetryDelay(time.Millisecond)
	return v
}

func TestVerifyMedicalClaim(t *testing.T) {
	v := newFakeVerifier(t)

	got, err := v.VerifyMedicalClaim(context.Background(), "turmeric cures inflammation")
	require.NoError(t, err)

	assert.True(t, got.Verified)
	assert.Equal(t, 100, got.Confidence)
	require.Len(t, got.SupportingEvidence, 1)
	assert.Equal(t, "turmeric cures inflammation", got.SupportingEvidence[0].Title)
	assert.InDelta(t, 1.0, got.SupportingEvidence[0].RelevanceScore, 1e-9)
	assert.False(t, got.LastChecked.IsZero())
}

func TestVerifyMedicalClaimDegenerateText(t *testing.T) {
	v := newFakeVerifier(t)

	_, err := v.VerifyMedicalClaim(context.Background(), "?!?!")
	assert.ErrorIs(t, err, ErrVerificationFailed)
}

func TestVerifyMedicalClaimNoEvidence(t *testing.T) {
	client := newFakeEutils(t,
		func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"esearchresult":{"idlist":[]}}`)
		},
		func(w http.ResponseWriter, r *http.Request) {},
	)
	v := NewVerifier(client)

	got, err := v.VerifyMedicalClaim(context.Background(), "completely novel claim")
	require.NoError(t, err)
	assert.False(t, got.Verified)
	assert.Equal(t, 0, got.Confidence)
	assert.Empty(t, got.SupportingEvidence)
}

func TestVerifyWithRetryPreservesInputOrder(t *testing.T) {
	v := newFakeVerifier(t)
	post := PostRef{PostID: "p1", Platform: "twitter", URL: "https://twitter.com/user/status/p1",
		Engagement: claims.Engagement{Likes: 10, Retweets: 2, Replies: 1}}

	batch := []claims.Claim{
		{Text: "turmeric cures inflammation", Type: claims.TypeMedical},
		{Text: "another treatment claim", Type: claims.TypeMedical},
		{Text: "third therapy claim", Type: claims.TypeMedical},
	}

	out, err := v.VerifyWithRetry(context.Background(), batch, post, 3)
	require.NoError(t, err)
	require.Len(t, out, 3)

	for i := range batch {
		assert.Equal(t, batch[i].Text, out[i].Text)
		assert.Equal(t, "p1", out[i].PostID)
		assert.Equal(t, "twitter", out[i].Platform)
		assert.Equal(t, 10, out[i].Engagement.Likes)
	}
}

func TestVerifyWithRetryExhaustsAndPropagates(t *testing.T) {
	v := newFakeVerifier(t)

	// Degenerate claim text fails locally on every attempt.
	batch := []claims.Claim{{Text: "...", Type: claims.TypeMedical}}

	_, err := v.VerifyWithRetry(context.Background(), batch, PostRef{}, 2)
	assert.ErrorIs(t, err, ErrVerificationFailed)
}

func TestVerifyWithRetryEmptyBatch(t *testing.T) {
	v := newFakeVerifier(t)

	out, err := v.VerifyWithRetry(context.Background(), nil, PostRef{}, 3)
	require.NoError(t, err)
	assert.Empty(t, out)
}

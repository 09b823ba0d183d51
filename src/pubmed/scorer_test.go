package pubmed

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func currentYearDate() string {
	return fmt.Sprintf("%d Jan 1", time.Now().Year())
}

func TestAnalyzeArticlesNoEvidence(t *testing.T) {
	got := AnalyzeArticles(nil, "any claim at all")
	assert.False(t, got.IsVerified)
	assert.Equal(t, 0, got.Confidence)
}

func TestAnalyzeArticlesPerfectScore(t *testing.T) {
	// Fresh JAMA article whose title contains every claim word:
	// 0.3*1 + 0.5*1 + 0.2*1 = 1.0.
	articles := []Article{{
		Title:   "turmeric cures inflammation",
		PubDate: currentYearDate(),
		Source:  "JAMA",
	}}

	got := AnalyzeArticles(articles, "turmeric cures inflammation")
	assert.True(t, got.IsVerified)
	assert.Equal(t, 100, got.Confidence)
}

func TestAnalyzeArticlesBelowThreshold(t *testing.T) {
	// Zero relevance, obscure journal, current year:
	// 0.3*1 + 0.5*0 + 0.2*0.6 = 0.42.
	articles := []Article{{
		Title:   "unrelated topic entirely",
		PubDate: currentYearDate(),
		Source:  "Some Obscure Journal",
	}}

	got := AnalyzeArticles(articles, "turmeric cures inflammation")
	assert.False(t, got.IsVerified)
	assert.Equal(t, 42, got.Confidence)
}

func TestConfidenceMonotonicInRelevance(t *testing.T) {
	base := Article{PubDate: currentYearDate(), Source: "Some Journal"}

	low := base
	low.Title = "turmeric studied"
	high := base
	high.Title = "turmeric cures inflammation"

	claim := "turmeric cures inflammation"
	lowScore := AnalyzeArticles([]Article{low}, claim)
	highScore := AnalyzeArticles([]Article{high}, claim)

	assert.GreaterOrEqual(t, highScore.Confidence, lowScore.Confidence)
}

func TestAgeScoreDecay(t *testing.T) {
	year := time.Now().Year()

	assert.InDelta(t, 1.0, AgeScore(fmt.Sprintf("%d Jan", year)), 1e-9)
	assert.InDelta(t, 0.5, AgeScore(fmt.Sprintf("%d Mar", year-5)), 1e-9)
	assert.InDelta(t, 0.0, AgeScore(fmt.Sprintf("%d", year-10)), 1e-9)
	assert.InDelta(t, 0.0, AgeScore(fmt.Sprintf("%d", year-25)), 1e-9)
	assert.InDelta(t, 0.0, AgeScore("garbage"), 1e-9)
}

func TestRelevanceWordOverlap(t *testing.T) {
	article := Article{Title: "Effects of turmeric on chronic inflammation"}

	assert.InDelta(t, 2.0/3.0, Relevance(article, "turmeric reduces inflammation"), 1e-9)
	assert.InDelta(t, 0, Relevance(article, ""), 1e-9)
	assert.InDelta(t, 0, Relevance(Article{}, "turmeric"), 1e-9)
}

func TestSourceScoreAllowlist(t *testing.T) {
	assert.InDelta(t, 1.0, SourceScore("JAMA Internal Medicine"), 1e-9)
	assert.InDelta(t, 1.0, SourceScore("the lancet oncology"), 1e-9)
	assert.InDelta(t, 1.0, SourceScore("New England Journal of Medicine"), 1e-9)
	assert.InDelta(t, 0.6, SourceScore("Journal of Irreproducible Results"), 1e-9)
}

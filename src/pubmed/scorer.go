package pubmed

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// Scoring policy constants. The weights must sum to 1 so the composite stays
// in [0, 1].
const (
	ageWeight       = 0.3
	relevanceWeight = 0.5
	sourceWeight    = 0.2

	verifiedThreshold = 0.6

	reputableSourceScore = 1.0
	defaultSourceScore   = 0.6
)

// highQualityJournals is the allowlist of sources that earn the full source
// score. Matching is case-insensitive containment.
var highQualityJournals = []string{
	"JAMA",
	"Lancet",
	"BMJ",
	"Nature Medicine",
	"New England Journal",
}

// Analysis is the scorer's verdict over a set of retrieved articles.
type Analysis struct {
	IsVerified bool `json:"isVerified"`
	Confidence int  `json:"confidence"`
}

// AnalyzeArticles computes the composite confidence for a claim from the
// retrieved articles. No articles means no evidence: unverified, confidence 0.
func AnalyzeArticles(articles []Article, claimText string) Analysis {
	if len(articles) == 0 {
		return Analysis{}
	}

	var sum float64
	for _, a := range articles {
		composite := ageWeight*AgeScore(a.PubDate) +
			relevanceWeight*Relevance(a, claimText) +
			sourceWeight*SourceScore(a.Source)
		sum += composite
	}
	mean := sum / float64(len(articles))

	return Analysis{
		IsVerified: mean > verifiedThreshold,
		Confidence: int(math.Round(mean * 100)),
	}
}

// AgeScore decays linearly with publication age: 1.0 for the current year,
// reaching 0 at ten years old.
func AgeScore(pubDate string) float64 {
	year, ok := pubYear(pubDate)
	if !ok {
		return 0
	}
	age := float64(time.Now().Year() - year)
	return math.Max(0, 1-age*0.1)
}

// Relevance is the fraction of the claim's word set that also appears in the
// article title, over lower-cased whitespace tokenization.
func Relevance(article Article, claimText string) float64 {
	claimWords := wordSet(claimText)
	if len(claimWords) == 0 {
		return 0
	}
	titleWords := wordSet(article.Title)

	matched := 0
	for w := range claimWords {
		if _, ok := titleWords[w]; ok {
			matched++
		}
	}
	return float64(matched) / float64(len(claimWords))
}

// SourceScore rewards articles from the high-quality journal allowlist.
func SourceScore(source string) float64 {
	lower := strings.ToLower(source)
	for _, journal := range highQualityJournals {
		if strings.Contains(lower, strings.ToLower(journal)) {
			return reputableSourceScore
		}
	}
	return defaultSourceScore
}

func wordSet(text string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, w := range strings.Fields(strings.ToLower(text)) {
		set[w] = struct{}{}
	}
	return set
}

// pubYear extracts the publication year from PubMed's loose pubdate strings
// ("2023 Jan 15", "2023 Nov-Dec", "2023").
func pubYear(pubDate string) (int, bool) {
	fields := strings.Fields(pubDate)
	if len(fields) == 0 {
		return 0, false
	}
	year, err := strconv.Atoi(fields[0])
	if err != nil || year < 1000 {
		return 0, false
	}
	return year, true
}

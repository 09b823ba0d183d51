package claims

import (
	"regexp"
	"strings"
	"time"
)

// medicalKeywords is the fixed vocabulary a sentence must contain to count as
// a health claim. Matching is case-insensitive substring containment.
var medicalKeywords = []string{
	"treatment", "cure", "prevent", "heal", "therapy",
	"medicine", "drug", "symptom", "disease", "condition",
	"study shows", "research indicates", "clinical trial",
	"evidence suggests", "scientists found",
}

var sentenceEnd = regexp.MustCompile(`[.!?]+`)

// ExtractClaims splits text into sentences and keeps the ones matching the
// medical vocabulary. It performs no I/O; the extracted set depends only on
// the input text.
func ExtractClaims(text string) []Claim {
	out := make([]Claim, 0)
	if strings.TrimSpace(text) == "" {
		return out
	}

	now := time.Now().UTC()
	for _, raw := range sentenceEnd.Split(text, -1) {
		sentence := strings.TrimSpace(raw)
		if sentence == "" {
			continue
		}
		if !containsKeyword(sentence) {
			continue
		}
		out = append(out, Claim{
			Text:          sentence,
			Type:          TypeMedical,
			ExtractedDate: now,
		})
	}
	return out
}

func containsKeyword(sentence string) bool {
	lower := strings.ToLower(sentence)
	for _, kw := range medicalKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

package claims

import (
	"strings"

	"github.com/OneOfOne/xxhash"
	"github.com/xrash/smetrics"
)

// similarityThreshold collapses near-duplicate claims: two claims whose
// Jaro-Winkler distance exceeds it are treated as the same assertion.
const similarityThreshold = 0.8

// Dedupe removes exact and near-duplicate claims, keeping the first
// occurrence. Exact duplicates are caught by a fingerprint of the normalized
// text before the more expensive similarity pass.
func Dedupe(in []Claim) []Claim {
	out := make([]Claim, 0, len(in))
	seen := make(map[uint64]struct{}, len(in))

	for _, c := range in {
		norm := normalizeForDedupe(c.Text)
		if norm == "" {
			continue
		}

		sum := xxhash.ChecksumString64(norm)
		if _, dup := seen[sum]; dup {
			continue
		}

		similar := false
		for _, kept := range out {
			if smetrics.JaroWinkler(norm, normalizeForDedupe(kept.Text), 0.7, 4) > similarityThreshold {
				similar = true
				break
			}
		}
		if similar {
			continue
		}

		seen[sum] = struct{}{}
		out = append(out, c)
	}
	return out
}

func normalizeForDedupe(text string) string {
	return strings.Join(strings.Fields(strings.ToLower(text)), " ")
}

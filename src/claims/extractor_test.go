package claims

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractClaimsMedicalSentence(t *testing.T) {
	text := "This treatment is a proven cure for the disease, according to a clinical trial."
	out := ExtractClaims(text)

	require.Len(t, out, 1)
	assert.Equal(t, "This treatment is a proven cure for the disease, according to a clinical trial", out[0].Text)
	assert.Equal(t, TypeMedical, out[0].Type)
	assert.False(t, out[0].ExtractedDate.IsZero())
}

func TestExtractClaimsNoMatch(t *testing.T) {
	out := ExtractClaims("I had a great sandwich today.")
	assert.Empty(t, out)
}

func TestExtractClaimsEmptyInput(t *testing.T) {
	assert.Empty(t, ExtractClaims(""))
	assert.Empty(t, ExtractClaims("   \n\t "))
}

func TestExtractClaimsSplitsOnTerminators(t *testing.T) {
	text := "New drug lowers blood pressure! Is this therapy safe? The weather was nice."
	out := ExtractClaims(text)

	require.Len(t, out, 2)
	assert.Equal(t, "New drug lowers blood pressure", out[0].Text)
	assert.Equal(t, "Is this therapy safe", out[1].Text)
}

func TestExtractClaimsCaseInsensitive(t *testing.T) {
	out := ExtractClaims("STUDY SHOWS coffee helps.")
	require.Len(t, out, 1)
}

func TestExtractClaimsRepeatedTerminators(t *testing.T) {
	out := ExtractClaims("This medicine works!!! Really...")
	require.Len(t, out, 1)
	assert.Equal(t, "This medicine works", out[0].Text)
}

func TestExtractClaimsIdempotent(t *testing.T) {
	text := "Scientists found a cure. Exercise may prevent illness."
	a := ExtractClaims(text)
	b := ExtractClaims(text)

	require.Equal(t, len(a), len(b))
	for i := range a {
		assert.Equal(t, a[i].Text, b[i].Text)
		assert.Equal(t, a[i].Type, b[i].Type)
	}
}

func TestDedupeExactAndNear(t *testing.T) {
	in := []Claim{
		{Text: "This treatment cures headaches", Type: TypeMedical},
		{Text: "this  treatment cures headaches", Type: TypeMedical},
		{Text: "This treatment cures headache", Type: TypeMedical},
		{Text: "Vitamin D prevents rickets", Type: TypeMedical},
	}
	out := Dedupe(in)

	require.Len(t, out, 2)
	assert.Equal(t, "This treatment cures headaches", out[0].Text)
	assert.Equal(t, "Vitamin D prevents rickets", out[1].Text)
}

func TestDedupeKeepsDistinctClaims(t *testing.T) {
	in := []Claim{
		{Text: "Aspirin thins the blood"},
		{Text: "Green tea boosts metabolism"},
	}
	assert.Len(t, Dedupe(in), 2)
}

package reconciliation_test

import (
	"testing"
	"testing/quick"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fortuna/hoopsync/internal/reconciliation"
)

func TestNormalize(t *testing.T) {
	cases := map[string]string{
		"Á. Smith":            "a. smith",
		"  Stefanie   Dolson ": "stefanie dolson",
		"Jonquel JONES":       "jonquel jones",
		"Nnéka Ogwumike":      "nneka ogwumike",
		"Marie Gülich":        "marie gulich",
		"":                    "",
	}
	for in, want := range cases {
		assert.Equal(t, want, reconciliation.Normalize(in), "input %q", in)
	}
}

func TestNormalizeIsIdempotent(t *testing.T) {
	inputs := []string{
		"Á. Smith", "ÅSA", "Kía Nurse", "Dearica Hamby", "ǅemal", "İstanbul",
		"ﬁnn", "Á́na", "\tTab\nSeparated  Name ", "Σίσυφος", "ΣΑΣ",
		"ꮷ", "Ꮃ", "Ꮃꮃ Ꮷ", "\xff\xfeAja", "a\xc3",
	}
	for _, in := range inputs {
		once := reconciliation.Normalize(in)
		assert.Equal(t, once, reconciliation.Normalize(once), "input %q", in)
	}
}

func TestNormalizeCherokeeIsStable(t *testing.T) {
	upper := reconciliation.Normalize("\u13B3")
	lower := reconciliation.Normalize("\uAB83")
	assert.Equal(t, upper, lower)
	assert.Equal(t, upper, reconciliation.Normalize(upper))
}

func TestNormalizeIsIdempotentForAnyString(t *testing.T) {
	idempotent := func(s string) bool {
		once := reconciliation.Normalize(s)
		return reconciliation.Normalize(once) == once
	}
	require.NoError(t, quick.Check(idempotent, &quick.Config{MaxCount: 5000}))

	rawBytes := func(b []byte) bool {
		return idempotent(string(b))
	}
	require.NoError(t, quick.Check(rawBytes, &quick.Config{MaxCount: 5000}))
}

func TestTokenSetRatio(t *testing.T) {
	assert.Equal(t, 100, reconciliation.TokenSetRatio("wilson aja", "aja wilson"))
	assert.Equal(t, 100, reconciliation.TokenSetRatio("a ja wilson", "wilson a ja wilson"))
	assert.Equal(t, 100, reconciliation.TokenSetRatio("a'ja wilson", "a ja wilson"))
	assert.Equal(t, 0, reconciliation.TokenSetRatio("", "aja wilson"))
	assert.Equal(t, 0, reconciliation.TokenSetRatio("...", "aja wilson"))
	// "smith a" vs "smith ana": LCS 7 over 16 runes.
	assert.Equal(t, 88, reconciliation.TokenSetRatio("a. smith", "ana smith"))
	assert.Less(t, reconciliation.TokenSetRatio("breanna stewart", "sabrina ionescu"), 60)
}

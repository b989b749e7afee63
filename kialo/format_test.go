package kialo

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestFormatArgumentsThreeNumberedClauses(t *testing.T) {
	raw := "1) Saves money.\n2) Improves safety.\n3) Cuts red tape."
	got := FormatArguments(raw)
	assert.Equal(t, [3]string{"Saves money.", "Improves safety.", "Cuts red tape."}, got)
}

func TestFormatArgumentsHyphenMarkers(t *testing.T) {
	raw := "- First point\n- Second point\n- Third point"
	got := FormatArguments(raw)
	assert.Equal(t, [3]string{"First point", "Second point", "Third point"}, got)
}

func TestFormatArgumentsPadsShortInput(t *testing.T) {
	got := FormatArguments("1) Only one argument here.")
	assert.Equal(t, "Only one argument here.", got[0])
	assert.Equal(t, "", got[1])
	assert.Equal(t, "", got[2])
}

func TestFormatArgumentsTwoClauses(t *testing.T) {
	got := FormatArguments("1) First.\n2) Second.")
	assert.Equal(t, [3]string{"First.", "Second.", ""}, got)
}

func TestFormatArgumentsEmptyInput(t *testing.T) {
	got := FormatArguments("")
	assert.Equal(t, [3]string{"", "", ""}, got)
}

func TestFormatArgumentsIgnoresExtraClauses(t *testing.T) {
	raw := "1) A\n2) B\n3) C\n4) D"
	got := FormatArguments(raw)
	assert.Equal(t, [3]string{"A", "B", "C"}, got)
}

func TestFormatArgumentsUnmarkedTextYieldsNoArguments(t *testing.T) {
	got := FormatArguments("The bill lowers insurance costs overall.")
	assert.Equal(t, [3]string{"", "", ""}, got)
}

func TestFormatArgumentsMultiLineClauseBodies(t *testing.T) {
	raw := "1) First argument\nthat wraps onto a second line.\n2) Second.\n3) Third."
	got := FormatArguments(raw)
	assert.Equal(t, "First argument\nthat wraps onto a second line.", got[0])
	assert.Equal(t, "Second.", got[1])
	assert.Equal(t, "Third.", got[2])
}

func TestTruncateSummaryIdentityUnderLimit(t *testing.T) {
	s := "A short summary."
	assert.Equal(t, s, TruncateSummary(s))

	exact := strings.Repeat("x", 500)
	assert.Equal(t, exact, TruncateSummary(exact))
}

func TestTruncateSummaryCutsAtSentenceBoundary(t *testing.T) {
	// 600 chars, last period before the limit at index 480.
	s := strings.Repeat("x", 480) + "." + strings.Repeat("y", 119)
	got := TruncateSummary(s)
	assert.Len(t, got, 481)
	assert.True(t, strings.HasSuffix(got, "."))
}

func TestTruncateSummaryHardCutWithoutPeriod(t *testing.T) {
	s := strings.Repeat("z", 600)
	got := TruncateSummary(s)
	assert.Len(t, got, 500)
}

func TestTruncateSummaryCountsCharactersNotBytes(t *testing.T) {
	// 200 characters but 600 bytes; within the character limit.
	s := strings.Repeat("ñ", 200)
	assert.Equal(t, s, TruncateSummary(s))
}

func TestTruncateSummaryMultibyteHardCutKeepsValidUTF8(t *testing.T) {
	s := strings.Repeat("ñ", 600)
	got := TruncateSummary(s)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, 500, utf8.RuneCountInString(got))
}

func TestTruncateSummaryMultibyteSentenceBoundary(t *testing.T) {
	s := strings.Repeat("ñ", 480) + "." + strings.Repeat("ñ", 119)
	got := TruncateSummary(s)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, 481, utf8.RuneCountInString(got))
	assert.True(t, strings.HasSuffix(got, "."))
}

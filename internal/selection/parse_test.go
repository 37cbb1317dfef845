package selection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Single(t *testing.T) {
	segments, err := Parse("abc1234")
	require.NoError(t, err)
	require.Len(t, segments, 1)
	assert.Equal(t, "abc1234", segments[0].Start)
	assert.False(t, segments[0].IsRange)
}

func TestParse_Range(t *testing.T) {
	segments, err := Parse("def5678-9999999")
	require.NoError(t, err)
	require.Len(t, segments, 1)
	assert.True(t, segments[0].IsRange)
	assert.Equal(t, "def5678", segments[0].Start)
	assert.Equal(t, "9999999", segments[0].End)
}

func TestParse_Mixed(t *testing.T) {
	segments, err := Parse("abc1234,def5678-9999999,cafef00")
	require.NoError(t, err)
	require.Len(t, segments, 3)
	assert.False(t, segments[0].IsRange)
	assert.True(t, segments[1].IsRange)
	assert.False(t, segments[2].IsRange)
}

func TestParse_InteriorWhitespaceRemoved(t *testing.T) {
	// Whitespace inside a segment is removed, not just trimmed, so
	// ranges may be entered with stray spaces.
	segments, err := Parse("  abc 1234 , def5678 - 9999999\t")
	require.NoError(t, err)
	require.Len(t, segments, 2)
	assert.Equal(t, "abc1234", segments[0].Start)
	assert.Equal(t, "def5678", segments[1].Start)
	assert.Equal(t, "9999999", segments[1].End)
}

func TestParse_EmptyInput(t *testing.T) {
	for _, raw := range []string{"", "   ", "\t\n"} {
		_, err := Parse(raw)
		require.Error(t, err, "input %q", raw)
		kind, ok := KindOf(err)
		require.True(t, ok)
		assert.Equal(t, KindEmptySelection, kind)
	}
}

func TestParse_EmptySegment(t *testing.T) {
	// "a,,b" must fail, never silently drop the empty segment.
	_, err := Parse("abc1234,,def5678")
	require.Error(t, err)
	kind, ok := KindOf(err)
	require.True(t, ok)
	assert.Equal(t, KindEmptySelection, kind)
}

func TestParse_TrailingComma(t *testing.T) {
	_, err := Parse("abc1234,")
	require.Error(t, err)
	kind, _ := KindOf(err)
	assert.Equal(t, KindEmptySelection, kind)
}

func TestParse_TooManyDelimiters(t *testing.T) {
	_, err := Parse("abc1234-def5678-9999999")
	require.Error(t, err)
	kind, ok := KindOf(err)
	require.True(t, ok)
	assert.Equal(t, KindMalformedSegment, kind)

	var selErr *Error
	require.ErrorAs(t, err, &selErr)
	assert.Equal(t, "abc1234-def5678-9999999", selErr.Segment)
	assert.Equal(t, "abc1234-def5678-9999999", selErr.Input)
}

func TestParse_ErrorCarriesInput(t *testing.T) {
	_, err := Parse("abc1234,,def5678")
	var selErr *Error
	require.ErrorAs(t, err, &selErr)
	assert.Equal(t, "abc1234,,def5678", selErr.Input)
}

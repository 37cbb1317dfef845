package selection

import (
	"strings"
	"unicode"
)

// Segment is one comma-separated piece of a selection string: either a
// single reference token or a start-end range.
type Segment struct {
	Raw     string // segment text with interior whitespace removed
	Start   string // the token, or the range start
	End     string // the range end; unset for a single reference
	IsRange bool
}

// Parse splits a raw selection string into ordered segments.
// Splitting is strictly on ','. Interior whitespace within a segment is
// removed, not just trimmed, so ranges may be entered with stray spaces.
// A segment with no '-' is a single reference; exactly one '-' is a
// range split at that position. Anything else is malformed.
func Parse(raw string) ([]Segment, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, newEmptyInput(raw)
	}

	parts := strings.Split(trimmed, ",")
	segments := make([]Segment, 0, len(parts))
	for _, part := range parts {
		cleaned := stripSpace(part)
		if cleaned == "" {
			return nil, newEmptySegment(strings.TrimSpace(part), raw)
		}
		switch strings.Count(cleaned, "-") {
		case 0:
			segments = append(segments, Segment{Raw: cleaned, Start: cleaned})
		case 1:
			i := strings.IndexByte(cleaned, '-')
			segments = append(segments, Segment{
				Raw:     cleaned,
				Start:   cleaned[:i],
				End:     cleaned[i+1:],
				IsRange: true,
			})
		default:
			return nil, newMalformedSegment(cleaned, raw)
		}
	}
	return segments, nil
}

// stripSpace removes every whitespace rune, not just leading/trailing.
func stripSpace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

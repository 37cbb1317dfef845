package selection

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"strings"
)

// ShortLen is the fixed identifier prefix length used everywhere a
// shortened identifier appears: display, canonical strings, and tag
// prefixes. Changing it changes the tag for an identical selection.
const ShortLen = 7

// tagHashLen is the hex digest length embedded in a selection tag.
const tagHashLen = 8

// Default preview bounds for large selections.
const (
	DefaultPreviewMax  = 20
	DefaultPreviewEdge = 5
)

// Short shortens an identifier to ShortLen characters for display.
func Short(sha string) string {
	if len(sha) > ShortLen {
		return sha[:ShortLen]
	}
	return sha
}

// Canonical returns the deterministic serialized form of the selection:
// shortened identifiers comma-joined in selection order. It is a pure
// function of the ordered identifier list and is order-sensitive.
func (s *Selection) Canonical() string {
	shorts := make([]string, len(s.Commits))
	for i, sha := range s.Commits {
		shorts[i] = Short(sha)
	}
	return strings.Join(shorts, ",")
}

// Tag returns a short filesystem-safe label for the selection: the
// first and last identifier prefixes, the count, and a digest of the
// canonical string. An empty selection yields "0commits-<hash>".
func (s *Selection) Tag() string {
	sum := sha1.Sum([]byte(s.Canonical()))
	digest := hex.EncodeToString(sum[:])[:tagHashLen]
	if len(s.Commits) == 0 {
		return fmt.Sprintf("0commits-%s", digest)
	}
	first := Short(s.Commits[0])
	last := Short(s.Commits[len(s.Commits)-1])
	return fmt.Sprintf("%s-%s-%dcommits-%s", first, last, len(s.Commits), digest)
}

// Preview renders a shortened identifier list for display. Lists no
// longer than maxItems are rendered in full; longer lists show the
// first and last edgeItems entries around an ellipsis, never
// materializing the middle.
func Preview(commits []string, maxItems, edgeItems int) string {
	if len(commits) <= maxItems {
		shorts := make([]string, len(commits))
		for i, sha := range commits {
			shorts[i] = Short(sha)
		}
		return strings.Join(shorts, ", ")
	}
	head := make([]string, edgeItems)
	for i := 0; i < edgeItems; i++ {
		head[i] = Short(commits[i])
	}
	tail := make([]string, edgeItems)
	for i := 0; i < edgeItems; i++ {
		tail[i] = Short(commits[len(commits)-edgeItems+i])
	}
	return strings.Join(head, ", ") + " ... " + strings.Join(tail, ", ")
}

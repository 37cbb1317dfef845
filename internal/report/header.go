package report

import (
	"fmt"
	"strings"

	"bigpicture/internal/selection"
)

// expandedInline is the largest selection whose commits are listed in
// full in compilation headers; larger selections get a count plus an
// edge preview.
const expandedInline = 20

// HeaderLines returns the selection provenance lines stamped at the top
// of every compilation file.
func HeaderLines(sel *selection.Selection) []string {
	lines := []string{
		fmt.Sprintf("# Commit selection (requested): %s", sel.Requested),
		fmt.Sprintf("# Commit selection (canonical): %s", sel.Canonical()),
	}
	commits := sel.Commits
	if len(commits) == 0 {
		return append(lines, "# Expanded commits: count=0")
	}
	if len(commits) <= expandedInline {
		shorts := make([]string, len(commits))
		for i, sha := range commits {
			shorts[i] = selection.Short(sha)
		}
		return append(lines, fmt.Sprintf("# Expanded commits (count=%d): %s",
			len(commits), strings.Join(shorts, ", ")))
	}
	preview := selection.Preview(commits, selection.DefaultPreviewMax, selection.DefaultPreviewEdge)
	return append(lines, fmt.Sprintf("# Expanded commits: count=%d min=%s max=%s preview=%s",
		len(commits), selection.Short(commits[0]), selection.Short(commits[len(commits)-1]), preview))
}

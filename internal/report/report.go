package report

import (
	"context"
	"fmt"
	"io"
	"strings"

	"bigpicture/internal/github"
	"bigpicture/internal/gitctx"
)

// separator is the section delimiter used in every report file.
var separator = strings.Repeat("=", 80)

// Source provides commit data from a repository. *gitctx.Repo-style
// value receivers on gitctx.Repo satisfy it.
type Source interface {
	CommitInfo(sha, repo string) (gitctx.Commit, error)
	ChangedFiles(sha string) ([]string, error)
	FileContent(sha, path string) (string, bool)
	FileDiff(sha, path, parent string) (string, error)
	Parent(sha string) (string, error)
}

// ChecksFetcher returns the CI check runs for a commit. Implementations
// populate CheckRun.LogOutput for failed runs so the with-logs report
// variants can inline them. A nil ChecksFetcher disables check sections.
type ChecksFetcher interface {
	Checks(ctx context.Context, sha string) ([]github.CheckRun, error)
}

// errWriter wraps an io.Writer and captures the first error.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...interface{}) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}

func (ew *errWriter) println(s string) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintln(ew.w, s)
}

// summaryLine collapses a commit body into a single line.
func summaryLine(body string) string {
	s := strings.Join(strings.Fields(body), " ")
	if s == "" {
		return "(no summary provided)"
	}
	return s
}

func logNote(includeLogs bool) string {
	if includeLogs {
		return " (with logs)"
	}
	return ""
}

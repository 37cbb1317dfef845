package report

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"bigpicture/internal/github"
	"bigpicture/internal/gitctx"
	"bigpicture/internal/selection"
)

// Compiler turns a resolved selection into report files on disk.
type Compiler struct {
	Source        Source
	Checks        ChecksFetcher // nil skips check sections
	Repo          string        // GitHub "owner/name"; empty leaves commit URLs unset
	OutDir        string
	Exclude       []string
	RedactSecrets bool
	RedactPaths   []string
	Log           *zap.SugaredLogger
}

// Result reports what a compilation run produced.
type Result struct {
	RunID               string
	Processed           int
	Missing             []string // selected commits whose metadata could not be read
	Skipped             []string // selected commits with no reportable files
	CommitFiles         []string
	CommitFilesWithLogs []string
	Compilations        []string
}

// entry carries everything collected for one successfully processed commit.
type entry struct {
	info   gitctx.Commit
	parent string
	files  []string
	file   string // plain per-commit report path
}

// Run processes every commit in the selection and writes the report
// files. Commits that cannot be read are skipped with a warning; an
// authentication failure against the checks API aborts the run.
func (c *Compiler) Run(ctx context.Context, sel *selection.Selection) (*Result, error) {
	log := c.Log
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	if err := os.MkdirAll(c.OutDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	res := &Result{RunID: ulid.Make().String()}
	log.Infow("starting report run",
		"run", res.RunID,
		"canonical", sel.Canonical(),
		"commits", sel.Count(),
	)

	var entries []entry
	var entriesWithLogs []string

	for _, sha := range sel.Commits {
		info, err := c.Source.CommitInfo(sha, c.Repo)
		if err != nil {
			log.Warnw("commit not found or inaccessible", "sha", selection.Short(sha), "error", err)
			res.Missing = append(res.Missing, sha)
			continue
		}
		log.Infow("processing commit", "short", info.Short, "title", info.Title)

		allFiles, err := c.Source.ChangedFiles(info.SHA)
		if err != nil {
			log.Warnw("failed to list changed files", "short", info.Short, "error", err)
			res.Skipped = append(res.Skipped, sha)
			continue
		}
		files := c.includedFiles(allFiles)
		if excluded := len(allFiles) - len(files); excluded > 0 {
			log.Infow("excluded files", "short", info.Short, "count", excluded)
		}
		if len(files) == 0 {
			log.Infow("no files to process", "short", info.Short, "changed", len(allFiles))
			res.Skipped = append(res.Skipped, sha)
			continue
		}

		parent, err := c.Source.Parent(info.SHA)
		if err != nil {
			log.Warnw("failed to resolve parent", "short", info.Short, "error", err)
			res.Skipped = append(res.Skipped, sha)
			continue
		}

		checks, err := c.fetchChecks(ctx, info.SHA)
		if err != nil {
			if errors.Is(err, github.ErrAuth) {
				return nil, err
			}
			log.Warnw("failed to retrieve checks", "short", info.Short, "error", err)
			checks = nil
		}

		plainPath := filepath.Join(c.OutDir, fmt.Sprintf("commit-%s-implementation.txt", info.Short))
		logsPath := filepath.Join(c.OutDir, fmt.Sprintf("commit-%s-implementation-with-logs.txt", info.Short))

		if err := c.writeCommitFile(plainPath, info, files, checks, parent, false); err != nil {
			return nil, err
		}
		if err := c.writeCommitFile(logsPath, info, files, checks, parent, true); err != nil {
			return nil, err
		}

		entries = append(entries, entry{info: info, parent: parent, files: files, file: plainPath})
		entriesWithLogs = append(entriesWithLogs, logsPath)
		res.CommitFiles = append(res.CommitFiles, plainPath)
		res.CommitFilesWithLogs = append(res.CommitFilesWithLogs, logsPath)
	}

	if len(entries) == 0 {
		return nil, fmt.Errorf("no valid commits found for the requested selection")
	}
	res.Processed = len(entries)

	tag := sel.Tag()
	jobs := []struct {
		name        string
		includeLogs bool
		write       func(path string, includeLogs bool) error
	}{
		{fmt.Sprintf("commit-comparison-%s.txt", tag), false, func(p string, l bool) error {
			return c.writeMaster(p, sel, entries, res.CommitFiles, l)
		}},
		{fmt.Sprintf("commit-summaries-%s.txt", tag), false, func(p string, l bool) error {
			return c.writeSummaries(p, sel, entries, res.CommitFiles, l)
		}},
		{fmt.Sprintf("commit-touched-files-%s.txt", tag), false, func(p string, l bool) error {
			return c.writeTouched(p, sel, entries, l)
		}},
		{fmt.Sprintf("commit-comparison-%s-with-logs.txt", tag), true, func(p string, l bool) error {
			return c.writeMaster(p, sel, entries, entriesWithLogs, l)
		}},
		{fmt.Sprintf("commit-summaries-%s-with-logs.txt", tag), true, func(p string, l bool) error {
			return c.writeSummaries(p, sel, entries, entriesWithLogs, l)
		}},
		{fmt.Sprintf("commit-touched-files-%s-with-logs.txt", tag), true, func(p string, l bool) error {
			return c.writeTouched(p, sel, entries, l)
		}},
	}
	for _, job := range jobs {
		path := filepath.Join(c.OutDir, job.name)
		if err := job.write(path, job.includeLogs); err != nil {
			return nil, err
		}
		res.Compilations = append(res.Compilations, path)
		log.Infow("wrote compilation", "path", path)
	}

	log.Infow("report run complete",
		"run", res.RunID,
		"processed", res.Processed,
		"missing", len(res.Missing),
		"skipped", len(res.Skipped),
	)
	return res, nil
}

func (c *Compiler) includedFiles(files []string) []string {
	var out []string
	for _, f := range files {
		if gitctx.MatchesAny(f, c.Exclude) {
			continue
		}
		out = append(out, f)
	}
	return out
}

func (c *Compiler) fetchChecks(ctx context.Context, sha string) ([]github.CheckRun, error) {
	if c.Checks == nil {
		return nil, nil
	}
	return c.Checks.Checks(ctx, sha)
}

func (c *Compiler) writeCommitFile(path string, info gitctx.Commit, files []string, checks []github.CheckRun, parent string, includeLogs bool) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := c.writeCommit(f, info, files, checks, parent, includeLogs); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}

// writeHeader emits the common compilation preamble: title, selection
// provenance, totals, and a generation timestamp.
func writeHeader(ew *errWriter, title string, sel *selection.Selection, total int) {
	ew.printf("%s\n", title)
	for _, line := range HeaderLines(sel) {
		ew.println(line)
	}
	ew.printf("# Total commits: %d\n", total)
	ew.printf("# Generated: %s\n", time.Now().Format("2006-01-02 15:04:05"))
	ew.println(separator)
	ew.println("")
}

// writeMaster concatenates the per-commit report files into one document.
func (c *Compiler) writeMaster(path string, sel *selection.Selection, entries []entry, commitFiles []string, includeLogs bool) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	ew := &errWriter{w: f}
	writeHeader(ew, "# Master Comparison"+logNote(includeLogs), sel, len(entries))

	for i, e := range entries {
		ew.println("\n" + separator)
		ew.printf("# Commit %d/%d - %s: %s\n", i+1, len(entries), e.info.Short, e.info.Title)
		ew.println(separator)
		ew.println("")

		body, err := os.ReadFile(commitFiles[i])
		if err != nil {
			return fmt.Errorf("reading %s: %w", commitFiles[i], err)
		}
		ew.printf("%s", body)
		ew.println("\n")
	}
	if ew.err != nil {
		return fmt.Errorf("writing %s: %w", path, ew.err)
	}
	return nil
}

// writeSummaries emits one short digest block per processed commit.
func (c *Compiler) writeSummaries(path string, sel *selection.Selection, entries []entry, commitFiles []string, includeLogs bool) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	ew := &errWriter{w: f}
	writeHeader(ew, "# Commit Summary Compilation"+logNote(includeLogs), sel, len(entries))

	for i, e := range entries {
		ew.printf("## Commit %d/%d - %s: %s\n", i+1, len(entries), e.info.Short, e.info.Title)
		ew.printf("- Author: %s\n", e.info.Author)
		ew.printf("- Date: %s\n", e.info.Date)
		ew.printf("- URL: %s\n", e.info.URL)
		ew.printf("- Summary: %s\n", summaryLine(e.info.Body))
		ew.printf("- Detailed file: %s\n", commitFiles[i])
		ew.println("")
	}
	if ew.err != nil {
		return fmt.Errorf("writing %s: %w", path, ew.err)
	}
	return nil
}

// writeTouched re-renders the before/after/diff sections for every file
// each commit touched, grouped per commit.
func (c *Compiler) writeTouched(path string, sel *selection.Selection, entries []entry, includeLogs bool) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	ew := &errWriter{w: f}
	writeHeader(ew, "# Touched Files"+logNote(includeLogs)+" (commits)", sel, len(entries))

	for i, e := range entries {
		ew.println(separator)
		ew.printf("# Commit %d/%d - %s: %s\n", i+1, len(entries), e.info.Short, e.info.Title)
		ew.printf("# Commit: %s\n", e.info.SHA)
		ew.printf("# Date: %s\n", e.info.Date)
		ew.printf("# URL: %s\n", e.info.URL)
		ew.printf("# Files: %s\n\n", strings.Join(e.files, ", "))

		for _, p := range e.files {
			c.writeFileSection(ew, p, e.info.SHA, e.parent)
		}
		ew.println("")
	}
	if ew.err != nil {
		return fmt.Errorf("writing %s: %w", path, ew.err)
	}
	return nil
}

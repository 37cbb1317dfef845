package report

import (
	"io"
	"strings"

	"bigpicture/internal/github"
	"bigpicture/internal/gitctx"
	"bigpicture/internal/redact"
)

// writeCommit writes one implementation report: commit metadata, a
// before/after/diff section per changed file, and the check runs.
func (c *Compiler) writeCommit(w io.Writer, info gitctx.Commit, files []string, checks []github.CheckRun, parent string, includeLogs bool) error {
	ew := &errWriter{w: w}

	ew.printf("# Commit: %s\n", info.SHA)
	ew.printf("# Short: %s\n", info.Short)
	ew.printf("# Title: %s\n", info.Title)
	ew.printf("# Author: %s\n", info.Author)
	ew.printf("# Author email: %s\n", info.AuthorEmail)
	ew.printf("# Date: %s\n", info.Date)
	ew.printf("# URL: %s\n", info.URL)
	ew.printf("# Summary: %s\n", summaryLine(info.Body))
	ew.printf("# Changed files: %d\n", len(files))
	ew.printf("# Files: %s\n\n", strings.Join(files, ", "))
	ew.println(separator)

	for _, path := range files {
		c.writeFileSection(ew, path, info.SHA, parent)
	}

	ew.println(separator)
	ew.printf("Checks (%d):\n", len(checks))
	if len(checks) == 0 {
		ew.println("# No checks found")
	} else {
		for _, check := range checks {
			c.writeCheck(ew, check, includeLogs)
		}
	}
	ew.println("")

	return ew.err
}

func (c *Compiler) writeFileSection(ew *errWriter, path, sha, parent string) {
	ew.println(separator)
	ew.printf("# File: %s\n", path)
	if parent != "" {
		ew.printf("# Parent: %s\n", parent)
	}
	ew.printf("# Commit: %s\n\n", sha)

	ew.println("--- Before ---")
	if parent == "" {
		ew.println("(file did not exist)")
	} else if before, ok := c.Source.FileContent(parent, path); !ok {
		ew.println("(file did not exist)")
	} else {
		c.writeContent(ew, before, path)
	}

	ew.println("\n--- After ---")
	if after, ok := c.Source.FileContent(sha, path); !ok {
		ew.println("(file removed)")
	} else {
		c.writeContent(ew, after, path)
	}

	ew.println("\n--- Diff ---")
	diff, err := c.Source.FileDiff(sha, path, parent)
	if err != nil || diff == "" {
		ew.println("(no differences)")
	} else {
		if c.RedactSecrets {
			diff = redact.Secrets(diff)
		}
		ew.printf("%s", diff)
		if !strings.HasSuffix(diff, "\n") {
			ew.println("")
		}
	}
	ew.println("")
}

// writeContent emits file contents, guaranteeing a trailing newline so
// the next section never glues onto the last line.
func (c *Compiler) writeContent(ew *errWriter, content, path string) {
	if c.RedactSecrets {
		content = redact.Content(content, path, c.RedactPaths)
	}
	ew.printf("%s", content)
	if !strings.HasSuffix(content, "\n") {
		ew.println("")
	}
}

func (c *Compiler) writeCheck(ew *errWriter, check github.CheckRun, includeLogs bool) {
	heading := "- " + check.Name + ": status=" + check.Status + ", conclusion=" + check.Conclusion
	if check.DetailsURL != "" {
		heading += " [" + check.DetailsURL + "]"
	}
	ew.println(heading)

	summary := check.Summary
	if summary == "" {
		summary = check.Title
	}
	if summary != "" {
		for _, line := range strings.Split(summary, "\n") {
			ew.printf("    %s\n", line)
		}
	}
	if includeLogs && check.LogOutput != "" {
		logs := check.LogOutput
		if c.RedactSecrets {
			logs = redact.Log(logs)
		}
		ew.println("    Logs:")
		for _, line := range strings.Split(strings.TrimRight(logs, "\n"), "\n") {
			ew.printf("    %s\n", line)
		}
	}
}

package gitctx

import (
	"fmt"
	"strings"
)

// commitFormat uses the ASCII unit separator between fields so titles
// and bodies containing any printable character split cleanly.
const commitFormat = "%H%x1f%h%x1f%an%x1f%ae%x1f%ad%x1f%s%x1f%b"

// Commit holds the metadata for one commit.
type Commit struct {
	SHA         string
	Short       string
	Author      string
	AuthorEmail string
	Date        string
	Title       string
	Body        string
	URL         string
}

// CommitInfo gathers metadata for a commit. repo is the GitHub
// "owner/name" used to build the commit URL; empty leaves URL unset.
func (r Repo) CommitInfo(sha, repo string) (Commit, error) {
	out, err := r.git("show", "-s", "--format="+commitFormat, sha)
	if err != nil {
		return Commit{}, fmt.Errorf("git show %s: %w", sha, err)
	}
	parts := strings.Split(strings.TrimRight(out, "\n"), "\x1f")
	if len(parts) < 7 {
		return Commit{}, fmt.Errorf("unexpected git show output for %s", sha)
	}
	c := Commit{
		SHA:         parts[0],
		Short:       parts[1],
		Author:      parts[2],
		AuthorEmail: parts[3],
		Date:        parts[4],
		Title:       parts[5],
		Body:        strings.Join(parts[6:], "\x1f"),
	}
	if repo != "" {
		c.URL = fmt.Sprintf("https://github.com/%s/commit/%s", repo, c.SHA)
	}
	return c, nil
}

// ChangedFiles lists the paths touched by a commit.
func (r Repo) ChangedFiles(sha string) ([]string, error) {
	out, err := r.git("show", "--name-only", "--pretty=format:", sha)
	if err != nil {
		return nil, fmt.Errorf("git show --name-only %s: %w", sha, err)
	}
	return splitLines(out), nil
}

// FileContent returns a file's contents at a commit. ok is false when
// the file does not exist at that commit.
func (r Repo) FileContent(sha, path string) (string, bool) {
	out, err := r.git("show", sha+":"+path)
	if err != nil {
		return "", false
	}
	return out, true
}

// FileDiff returns the diff for one file introduced by a commit. For a
// root commit (parent == "") the whole file shows as added.
func (r Repo) FileDiff(sha, path, parent string) (string, error) {
	if parent != "" {
		out, err := r.git("diff", parent, sha, "--", path)
		if err != nil {
			return "", fmt.Errorf("git diff %s %s -- %s: %w", parent, sha, path, err)
		}
		return out, nil
	}
	out, err := r.git("show", sha, "--pretty=format:", "--", path)
	if err != nil {
		return "", fmt.Errorf("git show %s -- %s: %w", sha, path, err)
	}
	return out, nil
}

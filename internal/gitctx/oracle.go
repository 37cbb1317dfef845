package gitctx

import (
	"errors"
	"fmt"
	"os/exec"
	"regexp"
	"strings"
)

// hashToken is the accepted shape of a user-supplied reference token:
// an abbreviated or full hex commit hash.
var hashToken = regexp.MustCompile(`^[0-9a-fA-F]{7,40}$`)

// ResolveReference resolves a reference token to a full commit SHA.
// Tokens must look like commit hashes (7-40 hex characters); anything
// else, and anything git cannot verify, wraps ErrNotFound.
func (r Repo) ResolveReference(token string) (string, error) {
	cleaned := strings.TrimSpace(token)
	if cleaned == "" || !hashToken.MatchString(cleaned) {
		return "", fmt.Errorf("%q is not a commit hash (7-40 hex characters): %w", token, ErrNotFound)
	}
	out, err := r.git("rev-parse", "--verify", cleaned+"^{commit}")
	if err != nil {
		return "", fmt.Errorf("rev-parse %q: %w", token, ErrNotFound)
	}
	return strings.TrimSpace(out), nil
}

// IsAncestor reports whether a is an ancestor-or-self of b.
func (r Repo) IsAncestor(a, b string) (bool, error) {
	if a == b {
		return true, nil
	}
	_, err := r.git("merge-base", "--is-ancestor", a, b)
	if err == nil {
		return true, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() == 1 {
		return false, nil
	}
	return false, fmt.Errorf("git merge-base --is-ancestor %s %s: %w", a, b, err)
}

// PathBetween enumerates the commits from start to end, oldest first,
// inclusive of both endpoints. git's rev-list addresses the start by
// its parent; a root start has none and is re-included by hand.
func (r Repo) PathBetween(start, end string) ([]string, error) {
	if start == end {
		return []string{start}, nil
	}

	parent, err := r.Parent(start)
	if err != nil {
		return nil, err
	}
	revRange := start + ".." + end
	if parent != "" {
		revRange = start + "^.." + end
	}

	out, err := r.git("rev-list", "--reverse", revRange)
	if err != nil {
		return nil, fmt.Errorf("git rev-list %s: %w", revRange, err)
	}
	commits := splitLines(out)

	if parent == "" && (len(commits) == 0 || commits[0] != start) {
		commits = append([]string{start}, commits...)
	}
	return commits, nil
}

// Parent returns the first parent of a commit, or "" for a root commit.
func (r Repo) Parent(sha string) (string, error) {
	out, err := r.git("rev-list", "--parents", "-n", "1", sha)
	if err != nil {
		return "", fmt.Errorf("git rev-list --parents %s: %w", sha, err)
	}
	parts := strings.Fields(out)
	if len(parts) >= 2 {
		return parts[1], nil
	}
	return "", nil
}

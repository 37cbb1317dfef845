package selection

// Oracle answers history questions about a commit graph. A production
// implementation wraps the git CLI; tests can implement it over an
// in-memory DAG.
type Oracle interface {
	// ResolveReference resolves a user-supplied token to a full commit
	// identifier, or returns an error if the token names no commit.
	ResolveReference(token string) (string, error)
	// IsAncestor reports whether a is an ancestor-or-self of b.
	IsAncestor(a, b string) (bool, error)
	// PathBetween enumerates the commits from start to end inclusive,
	// oldest first. start must be an ancestor-or-self of end.
	PathBetween(start, end string) ([]string, error)
}

// Selection is the resolved, ordered, duplicate-free list of commit
// identifiers for one invocation. It is immutable once built.
type Selection struct {
	Requested string   // the raw selection string as entered
	Commits   []string // resolved full identifiers, first-seen order
}

// Count returns the number of resolved commits.
func (s *Selection) Count() int {
	return len(s.Commits)
}

// Resolve expands parsed segments against the oracle, strictly in input
// order. Within a range, commits are appended oldest first. Every
// identifier appears at most once, keeping its first-seen position.
// The first oracle failure aborts the whole resolution.
func Resolve(raw string, segments []Segment, oracle Oracle) (*Selection, error) {
	sel := &Selection{Requested: raw}
	seen := make(map[string]bool)
	add := func(sha string) {
		if !seen[sha] {
			seen[sha] = true
			sel.Commits = append(sel.Commits, sha)
		}
	}

	for _, seg := range segments {
		if !seg.IsRange {
			sha, err := resolveToken(seg.Start, raw, oracle)
			if err != nil {
				return nil, err
			}
			add(sha)
			continue
		}

		start, err := resolveToken(seg.Start, raw, oracle)
		if err != nil {
			return nil, err
		}
		end, err := resolveToken(seg.End, raw, oracle)
		if err != nil {
			return nil, err
		}

		ok, err := oracle.IsAncestor(start, end)
		if err != nil {
			return nil, newInvalidRange(seg.Raw, raw, err)
		}
		if !ok {
			return nil, newInvalidRange(seg.Raw, raw, nil)
		}

		path, err := oracle.PathBetween(start, end)
		if err != nil {
			return nil, newEmptyRange(seg.Raw, raw, err)
		}
		if len(path) == 0 {
			return nil, newEmptyRange(seg.Raw, raw, nil)
		}
		// Some backends enumerate paths parent-exclusively and drop a
		// root start. The start endpoint is part of the closed range.
		if path[0] != start {
			path = append([]string{start}, path...)
		}
		for _, sha := range path {
			add(sha)
		}
	}

	if len(sel.Commits) == 0 {
		return nil, newEmptyResult(raw)
	}
	return sel, nil
}

// ResolveString parses and resolves a raw selection string in one step.
func ResolveString(raw string, oracle Oracle) (*Selection, error) {
	segments, err := Parse(raw)
	if err != nil {
		return nil, err
	}
	return Resolve(raw, segments, oracle)
}

func resolveToken(token, input string, oracle Oracle) (string, error) {
	if token == "" {
		return "", newUnknownReference(token, input, nil)
	}
	sha, err := oracle.ResolveReference(token)
	if err != nil {
		return "", newUnknownReference(token, input, err)
	}
	return sha, nil
}

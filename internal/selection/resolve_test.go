package selection

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// dagOracle implements Oracle over a synthetic commit DAG described by
// first-parent links. Tokens resolve through an explicit ref table.
type dagOracle struct {
	refs   map[string]string // token -> full identifier
	parent map[string]string // child -> parent
	// dropRootFromPath simulates a backend whose path enumeration is
	// parent-exclusive at the root.
	dropRootFromPath bool
}

func (o *dagOracle) ResolveReference(token string) (string, error) {
	if sha, ok := o.refs[token]; ok {
		return sha, nil
	}
	return "", fmt.Errorf("unknown revision %q", token)
}

func (o *dagOracle) IsAncestor(a, b string) (bool, error) {
	for cur := b; ; {
		if cur == a {
			return true, nil
		}
		p, ok := o.parent[cur]
		if !ok {
			return false, nil
		}
		cur = p
	}
}

func (o *dagOracle) PathBetween(start, end string) ([]string, error) {
	var rev []string
	for cur := end; ; {
		rev = append(rev, cur)
		if cur == start {
			break
		}
		p, ok := o.parent[cur]
		if !ok {
			return nil, fmt.Errorf("no path from %s to %s", start, end)
		}
		cur = p
	}
	path := make([]string, 0, len(rev))
	for i := len(rev) - 1; i >= 0; i-- {
		path = append(path, rev[i])
	}
	if o.dropRootFromPath && path[0] == start {
		if _, hasParent := o.parent[start]; !hasParent {
			path = path[1:]
		}
	}
	return path, nil
}

// chainOracle builds a linear history R -> C -> M1 -> M2 -> B plus a
// detached commit D, matching the worked scenario.
func chainOracle() *dagOracle {
	return &dagOracle{
		refs: map[string]string{
			"deadbee": "D",
			"cafefee": "C",
			"babe000": "B",
			"m1":      "M1",
			"m2":      "M2",
			"root000": "R",
		},
		parent: map[string]string{
			"C":  "R",
			"M1": "C",
			"M2": "M1",
			"B":  "M2",
		},
	}
}

func TestResolve_Scenario(t *testing.T) {
	// "deadbee,cafefee-babe000": the single precedes the range, the
	// range expands oldest first.
	sel, err := ResolveString("deadbee,cafefee-babe000", chainOracle())
	require.NoError(t, err)

	want := []string{"D", "C", "M1", "M2", "B"}
	if diff := cmp.Diff(want, sel.Commits); diff != "" {
		t.Errorf("resolved commits mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "deadbee,cafefee-babe000", sel.Requested)
}

func TestResolve_DedupFirstSeen(t *testing.T) {
	// M1 appears as a single before the range that contains it; it
	// keeps its first-seen position.
	sel, err := ResolveString("m1,cafefee-babe000,m1", chainOracle())
	require.NoError(t, err)

	want := []string{"M1", "C", "M2", "B"}
	if diff := cmp.Diff(want, sel.Commits); diff != "" {
		t.Errorf("resolved commits mismatch (-want +got):\n%s", diff)
	}
}

func TestResolve_TwoTokensSameIdentifier(t *testing.T) {
	o := chainOracle()
	// Equality is by resolved identifier, not by the token that
	// produced it. Built by hand since "also-m1" would parse as a range.
	o.refs["also-m1"] = "M1"
	segments := []Segment{
		{Raw: "m1", Start: "m1"},
		{Raw: "also-m1", Start: "also-m1"},
	}
	sel, err := Resolve("m1,also-m1", segments, o)
	require.NoError(t, err)
	assert.Equal(t, []string{"M1"}, sel.Commits)
}

func TestResolve_SingleEqualsCollapsedRange(t *testing.T) {
	single, err := ResolveString("cafefee", chainOracle())
	require.NoError(t, err)
	collapsed, err := ResolveString("cafefee-cafefee", chainOracle())
	require.NoError(t, err)

	assert.Equal(t, single.Commits, collapsed.Commits)
	assert.Equal(t, single.Canonical(), collapsed.Canonical())
	assert.Equal(t, single.Tag(), collapsed.Tag())
}

func TestResolve_UnknownReference(t *testing.T) {
	_, err := ResolveString("nothere", chainOracle())
	require.Error(t, err)
	kind, ok := KindOf(err)
	require.True(t, ok)
	assert.Equal(t, KindUnknownReference, kind)

	var selErr *Error
	require.ErrorAs(t, err, &selErr)
	assert.Equal(t, "nothere", selErr.Segment)
}

func TestResolve_BlankRangeEndpoint(t *testing.T) {
	// "abc-" parses as a range with a blank end token; a blank token is
	// an unknown reference, not a separate failure kind.
	segments, err := Parse("cafefee-")
	require.NoError(t, err)
	_, err = Resolve("cafefee-", segments, chainOracle())
	kind, ok := KindOf(err)
	require.True(t, ok)
	assert.Equal(t, KindUnknownReference, kind)
}

func TestResolve_InvalidRangeNeverSwaps(t *testing.T) {
	// end-start is not silently reordered.
	_, err := ResolveString("babe000-cafefee", chainOracle())
	require.Error(t, err)
	kind, ok := KindOf(err)
	require.True(t, ok)
	assert.Equal(t, KindInvalidRange, kind)
	assert.Contains(t, err.Error(), "start must be an ancestor of end")
}

func TestResolve_UnrelatedRange(t *testing.T) {
	_, err := ResolveString("deadbee-babe000", chainOracle())
	kind, ok := KindOf(err)
	require.True(t, ok)
	assert.Equal(t, KindInvalidRange, kind)
}

func TestResolve_RootReincludedWhenPathIsParentExclusive(t *testing.T) {
	o := chainOracle()
	o.dropRootFromPath = true

	sel, err := ResolveString("root000-babe000", o)
	require.NoError(t, err)

	want := []string{"R", "C", "M1", "M2", "B"}
	if diff := cmp.Diff(want, sel.Commits); diff != "" {
		t.Errorf("resolved commits mismatch (-want +got):\n%s", diff)
	}
}

func TestResolve_EmptyRange(t *testing.T) {
	o := &emptyPathOracle{dagOracle: chainOracle()}
	_, err := ResolveString("cafefee-babe000", o)
	require.Error(t, err)
	kind, ok := KindOf(err)
	require.True(t, ok)
	assert.Equal(t, KindEmptyRange, kind)
}

// emptyPathOracle confirms ancestry but enumerates no commits, the
// pathological case the resolver must defend against.
type emptyPathOracle struct {
	*dagOracle
}

func (o *emptyPathOracle) PathBetween(start, end string) ([]string, error) {
	return nil, nil
}

func TestResolve_NoSegments(t *testing.T) {
	_, err := Resolve("whatever", nil, chainOracle())
	require.Error(t, err)
	kind, ok := KindOf(err)
	require.True(t, ok)
	assert.Equal(t, KindEmptySelection, kind)
}

func TestResolve_NoDuplicates(t *testing.T) {
	sel, err := ResolveString("cafefee-babe000,root000-babe000,deadbee", chainOracle())
	require.NoError(t, err)

	seen := make(map[string]bool)
	for _, sha := range sel.Commits {
		assert.False(t, seen[sha], "identifier %s appears twice", sha)
		seen[sha] = true
	}
}

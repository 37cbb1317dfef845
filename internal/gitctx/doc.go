// Package gitctx answers history questions and extracts commit data
// from a git repository by shelling out to git.
//
// [Repo] implements the selection oracle (reference resolution,
// ancestry checks, and oldest-first path enumeration between two
// commits) and supplies the raw material for report generation: commit
// metadata, changed-file lists, file contents at a commit, and
// per-file diffs against the first parent.
package gitctx

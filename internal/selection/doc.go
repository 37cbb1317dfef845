// Package selection parses commit-selection strings like
// "a1b2c3d,def4567-89abcde" and resolves them against a commit history
// into an ordered, deduplicated list of full SHAs with a canonical
// string form and a content-derived tag.
package selection

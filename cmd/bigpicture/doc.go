// Bigpicture generates big-picture implementation reports for a selection
// of commits.
//
// It resolves a selection string of commit identifiers and ranges, writes
// one report per commit with file contents before and after, per-file
// diffs, and CI check runs, and compiles master, summary, and
// touched-files documents across the whole selection. Each document comes
// in a plain and a with-logs variant.
//
// Usage:
//
//	bigpicture report abc1234                  # one commit
//	bigpicture report abc1234,def5678          # several commits
//	bigpicture report abc1234-def5678          # an ancestry range
//	bigpicture resolve 'abc1234-def5678'       # inspect a selection
//	bigpicture config show                     # effective configuration
//	bigpicture cache clear                     # drop cached check runs
package main

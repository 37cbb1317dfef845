// Package report generates the big-picture text reports for a resolved
// commit selection: one implementation report per commit (file contents
// before and after, per-file diffs, CI check runs), plus three
// compilations across the whole selection — a master comparison, a
// commit summary digest, and a touched-files dump. Every report comes
// in a plain and a with-logs variant; the latter inlines the workflow
// logs of failed check runs.
package report

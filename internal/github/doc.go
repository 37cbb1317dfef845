// Package github provides a minimal GitHub REST API client for
// fetching the check runs recorded on a commit and the logs of their
// workflow runs.
//
// It detects the current repository from the local git remote and
// authenticates with the GITHUB_TOKEN environment variable. Requests
// are rate limited to stay under GitHub's secondary limits.
package github

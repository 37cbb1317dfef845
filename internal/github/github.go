package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"regexp"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const defaultAPIURL = "https://api.github.com"

// ErrAuth indicates the API rejected the token (401/403).
var ErrAuth = errors.New("github authentication failed")

// requestsPerSecond caps the client's request rate. GitHub's secondary
// rate limits trip on bursts well below the hourly quota.
const requestsPerSecond = 8

// Client provides access to the GitHub REST API.
type Client struct {
	token   string
	apiURL  string
	httpCli *http.Client
	limiter *rate.Limiter
}

// NewClient creates a new GitHub client. Requires GITHUB_TOKEN env var.
func NewClient() (*Client, error) {
	token := os.Getenv("GITHUB_TOKEN")
	if token == "" {
		return nil, fmt.Errorf("GITHUB_TOKEN environment variable is not set")
	}

	apiURL := os.Getenv("GITHUB_API_URL")
	if apiURL == "" {
		apiURL = defaultAPIURL
	}
	apiURL = strings.TrimRight(apiURL, "/")

	return &Client{
		token:   token,
		apiURL:  apiURL,
		httpCli: &http.Client{Timeout: 60 * time.Second},
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), 1),
	}, nil
}

// CheckRun is one CI check result attached to a commit.
type CheckRun struct {
	Name       string
	Status     string
	Conclusion string
	DetailsURL string
	Title      string
	Summary    string
	LogOutput  string
}

type checkRunsResponse struct {
	CheckRuns []struct {
		Name       string `json:"name"`
		Status     string `json:"status"`
		Conclusion string `json:"conclusion"`
		DetailsURL string `json:"details_url"`
		Output     struct {
			Title   string `json:"title"`
			Summary string `json:"summary"`
		} `json:"output"`
	} `json:"check_runs"`
}

// CheckRuns fetches the check runs recorded for a commit.
func (c *Client) CheckRuns(ctx context.Context, owner, repo, sha string) ([]CheckRun, error) {
	url := fmt.Sprintf("%s/repos/%s/%s/commits/%s/check-runs", c.apiURL, owner, repo, sha)
	body, err := c.get(ctx, url, "application/vnd.github.v3+json")
	if err != nil {
		return nil, fmt.Errorf("fetching check runs for %s: %w", sha, err)
	}
	return ParseCheckRuns(body)
}

// ParseCheckRuns normalizes a check-runs API response body. Missing
// names and states come back as "unknown" so reports never print blanks.
func ParseCheckRuns(body []byte) ([]CheckRun, error) {
	var resp checkRunsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("parsing check runs: %w", err)
	}
	checks := make([]CheckRun, 0, len(resp.CheckRuns))
	for _, cr := range resp.CheckRuns {
		check := CheckRun{
			Name:       cr.Name,
			Status:     cr.Status,
			Conclusion: cr.Conclusion,
			DetailsURL: cr.DetailsURL,
			Title:      cr.Output.Title,
			Summary:    cr.Output.Summary,
		}
		if check.Name == "" {
			check.Name = "unknown check"
		}
		if check.Status == "" {
			check.Status = "unknown"
		}
		if check.Conclusion == "" {
			check.Conclusion = "unknown"
		}
		checks = append(checks, check)
	}
	return checks, nil
}

type jobsResponse struct {
	Jobs []struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	} `json:"jobs"`
}

// RunLog fetches the combined plain-text logs for a workflow run by
// walking its jobs. The per-job logs endpoint redirects to the raw log,
// which the default HTTP client follows.
func (c *Client) RunLog(ctx context.Context, owner, repo, runID string) (string, error) {
	url := fmt.Sprintf("%s/repos/%s/%s/actions/runs/%s/jobs", c.apiURL, owner, repo, runID)
	body, err := c.get(ctx, url, "application/vnd.github.v3+json")
	if err != nil {
		return "", fmt.Errorf("fetching jobs for run %s: %w", runID, err)
	}

	var resp jobsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("parsing jobs for run %s: %w", runID, err)
	}

	var sb strings.Builder
	for _, job := range resp.Jobs {
		logURL := fmt.Sprintf("%s/repos/%s/%s/actions/jobs/%d/logs", c.apiURL, owner, repo, job.ID)
		logBody, err := c.get(ctx, logURL, "application/vnd.github.v3+json")
		if err != nil {
			return "", fmt.Errorf("fetching logs for job %d: %w", job.ID, err)
		}
		fmt.Fprintf(&sb, "==> Job: %s\n", job.Name)
		sb.Write(logBody)
		if len(logBody) == 0 || logBody[len(logBody)-1] != '\n' {
			sb.WriteByte('\n')
		}
	}
	return sb.String(), nil
}

var actionsRunRe = regexp.MustCompile(`/actions/runs/(\d+)`)

// ExtractRunID pulls the GitHub Actions run ID out of a check's details
// URL. Returns "" when the URL does not point at an Actions run.
func ExtractRunID(detailsURL string) string {
	if m := actionsRunRe.FindStringSubmatch(detailsURL); len(m) == 2 {
		return m[1]
	}
	return ""
}

// ShouldFetchLog reports whether a check's conclusion warrants pulling
// its run logs. Passing and skipped checks have nothing worth reading.
func ShouldFetchLog(conclusion string) bool {
	switch strings.ToLower(conclusion) {
	case "success", "neutral", "skipped":
		return false
	}
	return true
}

func (c *Client) get(ctx context.Context, url, accept string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", accept)

	resp, err := c.httpCli.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode == 401 || resp.StatusCode == 403 {
		return nil, fmt.Errorf("%w: %s", ErrAuth, string(body))
	}
	if resp.StatusCode == 404 {
		return nil, fmt.Errorf("not found: %s", url)
	}
	if resp.StatusCode != 200 {
		return nil, fmt.Errorf("GitHub API error (status %d): %s", resp.StatusCode, string(body))
	}
	return body, nil
}

var (
	httpsRemoteRe = regexp.MustCompile(`https?://[^/]+/([^/]+)/([^/.\s]+)`)
	sshRemoteRe   = regexp.MustCompile(`[^@]+@[^:]+:([^/]+)/([^/.\s]+)`)
)

// DetectRepo parses owner/repo from the git remote origin URL.
func DetectRepo() (owner, repo string, err error) {
	out, err := exec.Command("git", "remote", "get-url", "origin").Output()
	if err != nil {
		return "", "", fmt.Errorf("cannot detect repo: git remote get-url origin failed: %w", err)
	}
	url := strings.TrimSpace(string(out))
	return ParseRemoteURL(url)
}

// ParseRemoteURL extracts owner/repo from a git remote URL.
func ParseRemoteURL(url string) (owner, repo string, err error) {
	// Strip .git suffix
	url = strings.TrimSuffix(url, ".git")

	if m := httpsRemoteRe.FindStringSubmatch(url); len(m) == 3 {
		return m[1], m[2], nil
	}
	if m := sshRemoteRe.FindStringSubmatch(url); len(m) == 3 {
		return m[1], m[2], nil
	}
	return "", "", fmt.Errorf("cannot parse owner/repo from remote URL: %s", url)
}

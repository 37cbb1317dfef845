package github

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"golang.org/x/time/rate"
)

func testClient(server *httptest.Server) *Client {
	return &Client{
		token:   "test-token",
		apiURL:  server.URL,
		httpCli: server.Client(),
		limiter: rate.NewLimiter(rate.Inf, 1),
	}
}

const checkRunsBody = `{
  "total_count": 2,
  "check_runs": [
    {
      "name": "build",
      "status": "completed",
      "conclusion": "success",
      "details_url": "https://github.com/octo/demo/actions/runs/123",
      "output": {"title": "Build passed", "summary": "All targets built."}
    },
    {
      "name": "lint",
      "status": "completed",
      "conclusion": "failure",
      "details_url": "https://github.com/octo/demo/actions/runs/456",
      "output": {"title": "", "summary": ""}
    }
  ]
}`

func TestCheckRuns(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer test-token" {
			t.Errorf("Authorization = %q", r.Header.Get("Authorization"))
		}
		if r.URL.Path != "/repos/octo/demo/commits/abc123/check-runs" {
			t.Errorf("Path = %q", r.URL.Path)
		}
		w.Write([]byte(checkRunsBody))
	}))
	defer server.Close()

	checks, err := testClient(server).CheckRuns(context.Background(), "octo", "demo", "abc123")
	if err != nil {
		t.Fatalf("CheckRuns error: %v", err)
	}
	if len(checks) != 2 {
		t.Fatalf("got %d checks, want 2", len(checks))
	}
	if checks[0].Name != "build" || checks[0].Conclusion != "success" {
		t.Errorf("checks[0] = %+v", checks[0])
	}
	if checks[0].Title != "Build passed" {
		t.Errorf("Title = %q", checks[0].Title)
	}
	if checks[1].Conclusion != "failure" {
		t.Errorf("checks[1].Conclusion = %q", checks[1].Conclusion)
	}
}

func TestParseCheckRuns_Defaults(t *testing.T) {
	body := `{"check_runs": [{"details_url": "x"}]}`
	checks, err := ParseCheckRuns([]byte(body))
	if err != nil {
		t.Fatalf("ParseCheckRuns error: %v", err)
	}
	if checks[0].Name != "unknown check" {
		t.Errorf("Name = %q, want %q", checks[0].Name, "unknown check")
	}
	if checks[0].Status != "unknown" || checks[0].Conclusion != "unknown" {
		t.Errorf("checks[0] = %+v", checks[0])
	}
}

func TestCheckRuns_AuthError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(401)
		w.Write([]byte(`{"message":"Bad credentials"}`))
	}))
	defer server.Close()

	_, err := testClient(server).CheckRuns(context.Background(), "octo", "demo", "abc123")
	if err == nil {
		t.Fatal("expected error for 401")
	}
	if !errors.Is(err, ErrAuth) {
		t.Errorf("error = %v, want ErrAuth", err)
	}
}

func TestRunLog(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/repos/octo/demo/actions/runs/123/jobs":
			w.Write([]byte(`{"jobs": [{"id": 1, "name": "build"}, {"id": 2, "name": "test"}]}`))
		case "/repos/octo/demo/actions/jobs/1/logs":
			w.Write([]byte("building...\ndone\n"))
		case "/repos/octo/demo/actions/jobs/2/logs":
			w.Write([]byte("testing...\nFAIL"))
		default:
			t.Errorf("unexpected path %q", r.URL.Path)
			w.WriteHeader(404)
		}
	}))
	defer server.Close()

	log, err := testClient(server).RunLog(context.Background(), "octo", "demo", "123")
	if err != nil {
		t.Fatalf("RunLog error: %v", err)
	}
	if !strings.Contains(log, "==> Job: build") || !strings.Contains(log, "building...") {
		t.Errorf("log missing build job:\n%s", log)
	}
	if !strings.Contains(log, "==> Job: test") || !strings.Contains(log, "FAIL") {
		t.Errorf("log missing test job:\n%s", log)
	}
	if !strings.HasSuffix(log, "\n") {
		t.Error("log should end with a newline")
	}
}

func TestExtractRunID(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://github.com/octo/demo/actions/runs/12345", "12345"},
		{"https://github.com/octo/demo/actions/runs/12345/job/678", "12345"},
		{"https://example.com/some/other/url", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := ExtractRunID(tt.url); got != tt.want {
			t.Errorf("ExtractRunID(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}

func TestShouldFetchLog(t *testing.T) {
	tests := []struct {
		conclusion string
		want       bool
	}{
		{"success", false},
		{"SUCCESS", false},
		{"neutral", false},
		{"skipped", false},
		{"failure", true},
		{"timed_out", true},
		{"cancelled", true},
		{"unknown", true},
		{"", true},
	}
	for _, tt := range tests {
		if got := ShouldFetchLog(tt.conclusion); got != tt.want {
			t.Errorf("ShouldFetchLog(%q) = %v, want %v", tt.conclusion, got, tt.want)
		}
	}
}

func TestParseRemoteURL(t *testing.T) {
	tests := []struct {
		url       string
		owner     string
		repo      string
		shouldErr bool
	}{
		{"https://github.com/octo/demo.git", "octo", "demo", false},
		{"https://github.com/octo/demo", "octo", "demo", false},
		{"git@github.com:octo/demo.git", "octo", "demo", false},
		{"not-a-remote", "", "", true},
	}
	for _, tt := range tests {
		owner, repo, err := ParseRemoteURL(tt.url)
		if tt.shouldErr {
			if err == nil {
				t.Errorf("ParseRemoteURL(%q) should fail", tt.url)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseRemoteURL(%q) error: %v", tt.url, err)
			continue
		}
		if owner != tt.owner || repo != tt.repo {
			t.Errorf("ParseRemoteURL(%q) = %s/%s, want %s/%s", tt.url, owner, repo, tt.owner, tt.repo)
		}
	}
}

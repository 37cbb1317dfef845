package cli

import (
	"context"
	"encoding/json"
	"errors"

	"go.uber.org/zap"

	"bigpicture/internal/cache"
	"bigpicture/internal/github"
)

// checksService fetches the check runs for a commit, attaches the
// workflow logs of failed runs, and memoizes the combined result in the
// local response cache.
type checksService struct {
	client *github.Client
	cache  *cache.Cache
	owner  string
	repo   string
	log    *zap.SugaredLogger
}

func (s *checksService) Checks(ctx context.Context, sha string) ([]github.CheckRun, error) {
	key := cache.BuildKey(s.owner, s.repo, sha)
	if body, ok := s.cache.Get(key); ok {
		var runs []github.CheckRun
		if err := json.Unmarshal([]byte(body), &runs); err == nil {
			return runs, nil
		}
		// Unreadable entry: fall through to a fresh fetch.
	}

	runs, err := s.client.CheckRuns(ctx, s.owner, s.repo, sha)
	if err != nil {
		return nil, err
	}

	for i := range runs {
		if !github.ShouldFetchLog(runs[i].Conclusion) {
			continue
		}
		runID := github.ExtractRunID(runs[i].DetailsURL)
		if runID == "" {
			continue
		}
		logText, err := s.client.RunLog(ctx, s.owner, s.repo, runID)
		if err != nil {
			if errors.Is(err, github.ErrAuth) {
				return nil, err
			}
			s.log.Warnw("failed to fetch run logs", "check", runs[i].Name, "run", runID, "error", err)
			continue
		}
		runs[i].LogOutput = logText
	}

	if data, err := json.Marshal(runs); err == nil {
		if err := s.cache.Put(key, string(data)); err != nil {
			s.log.Warnw("failed to cache check runs", "sha", sha, "error", err)
		}
	}
	return runs, nil
}

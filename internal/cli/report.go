package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"bigpicture/internal/cache"
	"bigpicture/internal/config"
	"bigpicture/internal/github"
	"bigpicture/internal/gitctx"
	"bigpicture/internal/report"
	"bigpicture/internal/selection"
)

// Shared report flags
var (
	flagCommits   string
	flagOutputDir string
	flagExclude   string
	flagNoCleanup bool
	flagNoCache   bool
	flagNoRedact  bool
)

func addReportFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&flagCommits, "commits", "", "Commit selection string (alias for the positional argument)")
	cmd.Flags().StringVar(&flagOutputDir, "output-dir", "", "Directory where output files are written (default: /tmp)")
	cmd.Flags().StringVar(&flagExclude, "exclude", "", "Additional file glob patterns to exclude (comma-separated)")
	cmd.Flags().BoolVar(&flagNoCleanup, "no-cleanup", false, "Don't return to the original branch at the end")
	cmd.Flags().BoolVar(&flagNoCache, "no-cache", false, "Bypass the check-run response cache")
	cmd.Flags().BoolVar(&flagNoRedact, "no-redact", false, "Disable secret redaction (use with caution)")
}

func buildOverrides() map[string]string {
	m := make(map[string]string)
	if flagOutputDir != "" {
		m["outputDir"] = flagOutputDir
	}
	if flagExclude != "" {
		m["exclude"] = flagExclude
	}
	return m
}

func splitComma(s string) []string {
	parts := strings.Split(s, ",")
	var result []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}

// selectionArg picks the selection string from the positional argument
// or the --commits flag.
func selectionArg(args []string) (string, error) {
	raw := flagCommits
	if len(args) > 0 {
		raw = args[0]
	}
	if raw == "" {
		return "", fmt.Errorf("commit selection is required (e.g. 'abc1234,def5678-9999999')")
	}
	return raw, nil
}

var reportCmd = &cobra.Command{
	Use:   "report [selection]",
	Short: "Generate big-picture reports for a commit selection",
	Long: "Resolve a commit selection string like 'abc1234,def5678-9999999' and write\n" +
		"per-commit implementation reports plus master, summary, and touched-files\n" +
		"compilations, in plain and with-logs variants.",
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := selectionArg(args)
		if err != nil {
			return err
		}

		cfg, err := config.Load(buildOverrides())
		if err != nil {
			return err
		}
		if flagNoRedact {
			cfg.Privacy.RedactSecrets = false
			fmt.Fprintln(os.Stderr, "WARNING: secret redaction is disabled")
		}

		repo := gitctx.Repo{}
		sel, err := selection.ResolveString(raw, repo)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitUsageError
			return nil
		}
		printSelection(sel)

		startingBranch, err := repo.CurrentBranch()
		if err != nil {
			logger.Warnw("cannot determine current branch", "error", err)
		}
		defer restoreBranch(repo, startingBranch)

		runReport(cmd.Context(), repo, sel, cfg)
		return nil
	},
}

func runReport(ctx context.Context, repo gitctx.Repo, sel *selection.Selection, cfg config.Config) {
	if ctx == nil {
		ctx = context.Background()
	}

	repoName := ""
	if owner, name, err := github.DetectRepo(); err != nil {
		logger.Warnw("no GitHub remote detected; commit URLs and checks are skipped", "error", err)
	} else {
		repoName = owner + "/" + name
	}

	fetcher, closeCache := buildChecksFetcher(cfg, repoName)
	defer closeCache()

	compiler := &report.Compiler{
		Source:        repo,
		Checks:        fetcher,
		Repo:          repoName,
		OutDir:        cfg.OutputDir,
		Exclude:       cfg.ExcludeFiles,
		RedactSecrets: cfg.Privacy.RedactSecrets,
		RedactPaths:   cfg.Privacy.RedactPaths,
		Log:           logger,
	}

	res, err := compiler.Run(ctx, sel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if errors.Is(err, github.ErrAuth) {
			exitCode = ExitAuthError
			return
		}
		exitCode = ExitRuntimeError
		return
	}

	printResult(sel, res, cfg.OutputDir)
}

// buildChecksFetcher wires the GitHub client and response cache into a
// report.ChecksFetcher. Missing credentials or an undetected remote
// degrade to reports without check runs instead of failing.
func buildChecksFetcher(cfg config.Config, repoName string) (report.ChecksFetcher, func()) {
	noop := func() {}
	if repoName == "" {
		return nil, noop
	}
	client, err := github.NewClient()
	if err != nil {
		logger.Warnw("GitHub client unavailable; check runs are skipped", "error", err)
		return nil, noop
	}

	enabled := cfg.Cache.Enabled && !flagNoCache
	c, err := cache.New(enabled, cfg.Cache.Dir, cfg.Cache.TTLSeconds)
	if err != nil {
		logger.Warnw("cache unavailable; fetching without it", "error", err)
		c, _ = cache.New(false, "", 0)
	}

	parts := strings.SplitN(repoName, "/", 2)
	svc := &checksService{
		client: client,
		cache:  c,
		owner:  parts[0],
		repo:   parts[1],
		log:    logger,
	}
	return svc, func() {
		if err := c.Close(); err != nil {
			logger.Warnw("closing cache", "error", err)
		}
	}
}

func printSelection(sel *selection.Selection) {
	fmt.Fprintf(os.Stdout, "Requested commit selection: %s\n", sel.Requested)
	fmt.Fprintf(os.Stdout, "Canonical commit selection: %s\n", sel.Canonical())
	if sel.Count() > 0 {
		preview := selection.Preview(sel.Commits, selection.DefaultPreviewMax, selection.DefaultPreviewEdge)
		fmt.Fprintf(os.Stdout, "Expanded commits: count=%d min=%s max=%s preview=%s\n",
			sel.Count(),
			selection.Short(sel.Commits[0]),
			selection.Short(sel.Commits[sel.Count()-1]),
			preview,
		)
	}
}

func printResult(sel *selection.Selection, res *report.Result, outDir string) {
	fmt.Fprintf(os.Stdout, "\nRequested commit count: %d; processed commit count: %d\n",
		sel.Count(), res.Processed)
	if len(res.Missing) > 0 {
		fmt.Fprintf(os.Stdout, "Missing/inaccessible commits: %s\n", shortList(res.Missing))
	}
	if len(res.Skipped) > 0 {
		fmt.Fprintf(os.Stdout, "Skipped commits after processing: %s\n", shortList(res.Skipped))
	}

	fmt.Fprintf(os.Stdout, "\n✓ Successfully processed %d commit(s)\n", res.Processed)
	fmt.Fprintf(os.Stdout, "✓ Individual files: %s/commit-{sha}-implementation.txt\n", outDir)
	for _, path := range res.Compilations {
		fmt.Fprintf(os.Stdout, "✓ %s\n", path)
	}
}

func shortList(shas []string) string {
	shorts := make([]string, len(shas))
	for i, sha := range shas {
		shorts[i] = selection.Short(sha)
	}
	return strings.Join(shorts, ", ")
}

func restoreBranch(repo gitctx.Repo, branch string) {
	if flagNoCleanup || branch == "" {
		return
	}
	if err := repo.Checkout(branch); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to return to %s branch: %v\n", branch, err)
		return
	}
	fmt.Fprintf(os.Stdout, "✓ Returned to %s branch\n", branch)
}

func init() {
	addReportFlags(reportCmd)
}

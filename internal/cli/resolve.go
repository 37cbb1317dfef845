package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"bigpicture/internal/gitctx"
	"bigpicture/internal/selection"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <selection>",
	Short: "Resolve a commit selection without generating reports",
	Long: "Parse and resolve a commit selection string against the local repository\n" +
		"and print the canonical form, selection tag, and expanded commit list.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sel, err := selection.ResolveString(args[0], gitctx.Repo{})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitUsageError
			return nil
		}

		fmt.Fprintf(os.Stdout, "Requested: %s\n", sel.Requested)
		fmt.Fprintf(os.Stdout, "Canonical: %s\n", sel.Canonical())
		fmt.Fprintf(os.Stdout, "Tag:       %s\n", sel.Tag())
		fmt.Fprintf(os.Stdout, "Count:     %d\n", sel.Count())
		fmt.Fprintf(os.Stdout, "Commits:   %s\n",
			selection.Preview(sel.Commits, selection.DefaultPreviewMax, selection.DefaultPreviewEdge))
		return nil
	},
}

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abdul-hamid-achik/suitereport/packages/feed"
	"github.com/abdul-hamid-achik/suitereport/packages/report"
)

var listCmd = &cobra.Command{
	Use:   "list <feed>...",
	Short: "List the suites and tests in result feeds",
	Long: `List every suite of a result feed with its tests, without the
reporter's formatting.

Examples:
  suitereport list results.jsonl`,
	Args: cobra.MinimumNArgs(1),
	RunE: listCommand,
}

func listCommand(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	for _, path := range args {
		f, err := os.Open(path)
		if err != nil {
			return withExitCode(ExitUsageError, fmt.Errorf("cannot read feed: %w", err))
		}
		total, suites, err := feed.ReadAll(f)
		f.Close()
		if err != nil {
			return withExitCode(ExitParseError, fmt.Errorf("%s: %w", path, err))
		}

		fmt.Fprintf(cmd.OutOrStdout(), "\n%s: %d of %d %s\n", path, len(suites), total, report.Plural(total, "suite"))
		for _, s := range suites {
			status := "pass"
			if !s.Passed() {
				status = "fail"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "  %s %s\n", status, s.FilePath)
			for _, o := range s.TestResults {
				fmt.Fprintf(cmd.OutOrStdout(), "    - [%s] %s\n", o.Status, o.FullName())
			}
		}
	}

	return nil
}

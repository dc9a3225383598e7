package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/abdul-hamid-achik/suitereport/packages/feed"
)

var validateCmd = &cobra.Command{
	Use:   "validate <feed>...",
	Short: "Validate result feeds against the record schema",
	Long: `Validate JSON-lines result feeds without reporting them. Every
malformed record is listed with its line number.

Examples:
  suitereport validate results.jsonl
  suitereport validate run1.jsonl run2.jsonl`,
	Args: cobra.MinimumNArgs(1),
	RunE: validateCommand,
}

func validateCommand(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	hasErrors := false
	for _, path := range args {
		problems, err := validateFeed(path)
		for _, p := range problems {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error in %s: %v\n", path, p)
		}
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error in %s: %v\n", path, err)
		}
		if err != nil || len(problems) > 0 {
			hasErrors = true
			continue
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Valid: %s\n", path)
	}

	if hasErrors {
		return withExitCode(ExitParseError, fmt.Errorf("validation failed"))
	}

	return nil
}

// validateFeed returns every malformed record in the feed at path. The
// error is set when the feed could not be read at all.
func validateFeed(path string) ([]*feed.DecodeError, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var problems []*feed.DecodeError
	d := feed.NewDecoder(f)
	for {
		_, err := d.Next()
		if errors.Is(err, io.EOF) {
			return problems, nil
		}
		var de *feed.DecodeError
		if errors.As(err, &de) {
			problems = append(problems, de)
			continue
		}
		if err != nil {
			return problems, err
		}
	}
}

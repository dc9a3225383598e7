package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/abdul-hamid-achik/suitereport/packages/core/config"
)

var forceInit bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize suitereport in the current directory",
	Long: `Initialize suitereport in the current directory.

This creates:
  - .suitereport.yaml  - Configuration file with default settings
  - example.jsonl      - Example result feed

Examples:
  suitereport init
  suitereport init --force`,
	RunE: initCommand,
}

func init() {
	initCmd.Flags().BoolVarP(&forceInit, "force", "f", false, "Overwrite existing files")
}

const exampleFeed = `{"type":"run","totalSuites":3}
{"type":"suite","filePath":"math/add_test.go","perfStats":{"start":1700000000000,"end":1700000000120},"testResults":[{"title":"adds integers","ancestorTitles":["Add"],"status":"passed","duration":2},{"title":"adds floats","ancestorTitles":["Add"],"status":"passed","duration":1}]}
{"type":"suite","filePath":"math/div_test.go","perfStats":{"start":1700000000000,"end":1700000002900},"testResults":[{"title":"divides","ancestorTitles":["Div"],"status":"passed","duration":4},{"title":"rejects zero","ancestorTitles":["Div"],"status":"failed","duration":3,"failureMessages":["expected an error, got nil\n    math/div_test.go:21"]}]}
{"type":"suite","filePath":"math/mul_test.go","perfStats":{"start":1700000000000,"end":1700000000050},"testResults":[{"title":"multiplies","status":"passed","duration":1},{"title":"overflows","status":"pending"}]}
`

func initCommand(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return err
	}
	return initProject(cwd, forceInit, cmd.OutOrStdout())
}

func initProject(dir string, force bool, out io.Writer) error {
	configFile := filepath.Join(dir, config.ConfigFilenames[0])
	exampleFile := filepath.Join(dir, "example.jsonl")

	if !force {
		for _, f := range []string{configFile, exampleFile} {
			if _, err := os.Stat(f); err == nil {
				return fmt.Errorf("file already exists: %s (use --force to overwrite)", f)
			}
		}
	}

	cfg := config.DefaultConfig()
	cfg.RootDir = "."
	configYAML, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile(configFile, configYAML, 0644); err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	fmt.Fprintf(out, "Created: %s\n", configFile)

	if err := os.WriteFile(exampleFile, []byte(exampleFeed), 0644); err != nil {
		return fmt.Errorf("failed to create example file: %w", err)
	}
	fmt.Fprintf(out, "Created: %s\n", exampleFile)

	fmt.Fprintf(out, "\nsuitereport initialized!\n")
	fmt.Fprintf(out, "Run 'suitereport run example.jsonl' to report the example feed.\n")

	return nil
}

// Package cmd implements the suitereport CLI commands using Cobra.
//
// Available commands:
//   - run: Report a result feed file, or stdin, as it is read
//   - validate: Check a result feed against the record schema
//   - list: Display the suites and tests in a result feed
//   - init: Create a config file and an example feed
//   - version: Show suitereport version information
//   - completion: Generate shell completion scripts
//
// Flags default from SUITEREPORT_* environment variables and override
// values from a .suitereport.yaml style config file.
package cmd

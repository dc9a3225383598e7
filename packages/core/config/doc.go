// Package config handles configuration loading and management for
// suitereport.
//
// It provides functionality for:
//   - Loading configuration from .suitereport.yaml or suitereport.config.json files
//   - Default configuration values
//   - Merging file values with command-line overrides
//   - Detecting whether output should be highlighted
package config

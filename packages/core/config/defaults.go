package config

const (
	// DefaultStatsTop is how many of the slowest suites --stats lists.
	DefaultStatsTop = 5
	// DefaultLogLevel is the level for diagnostic logging on stderr.
	DefaultLogLevel = "warn"
)

// DefaultConfig returns a configuration with default values. NoHighlight
// is left unset so it is detected from the terminal.
func DefaultConfig() *Config {
	return &Config{
		Verbose:         BoolPtr(false),
		Bail:            BoolPtr(false),
		CollectCoverage: BoolPtr(false),
		Stats:           BoolPtr(false),
		StatsTop:        DefaultStatsTop,
		LogLevel:        DefaultLogLevel,
	}
}

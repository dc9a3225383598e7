package report

import (
	"strings"
)

const failureIndent = "    "

// FailureBody renders the detail for every failed test in a suite: the
// test's full name followed by its failure messages. Paths under
// cfg.RootDir are shown relative to it. A suite with no recorded detail
// yields an empty string.
func FailureBody(result SuiteResult, cfg Config) string {
	var blocks []string
	for _, o := range result.TestResults {
		if o.Status != StatusFailed {
			continue
		}
		var b strings.Builder
		b.WriteString("  ")
		b.WriteString(Format("● "+o.FullName(), StyleFailTitle, cfg))
		b.WriteString("\n")
		for _, msg := range o.FailureMessages {
			b.WriteString("\n")
			b.WriteString(formatFailureMessage(msg, cfg))
		}
		blocks = append(blocks, strings.TrimRight(b.String(), "\n"))
	}

	if len(blocks) == 0 && result.FailureMessage != "" {
		blocks = append(blocks, strings.TrimRight(formatFailureMessage(result.FailureMessage, cfg), "\n"))
	}

	return strings.Join(blocks, "\n\n")
}

func formatFailureMessage(msg string, cfg Config) string {
	// A root of "/" strips nothing.
	root := ""
	if trimmed := strings.TrimRight(cfg.RootDir, "/"); trimmed != "" {
		root = trimmed + "/"
	}

	var b strings.Builder
	for _, line := range strings.Split(strings.TrimRight(msg, "\n"), "\n") {
		if root != "" {
			line = strings.ReplaceAll(line, root, "")
		}
		if line == "" {
			b.WriteString("\n")
			continue
		}
		if isStackLine(line) {
			line = Format(line, StyleStack, cfg)
		}
		b.WriteString(failureIndent)
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

func isStackLine(line string) bool {
	trimmed := strings.TrimSpace(line)
	if strings.HasPrefix(trimmed, "at ") {
		return true
	}
	return line != trimmed && strings.Contains(trimmed, ".go:")
}

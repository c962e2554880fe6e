// Copyright 2025, Command Line Inc.
// SPDX-License-Identifier: Apache-2.0

package utilfn

import "strings"

func isBlankLine(line string) bool {
	return strings.Trim(line, " \t") == ""
}

func leadingWhitespace(line string) string {
	idx := 0
	for idx < len(line) && (line[idx] == ' ' || line[idx] == '\t') {
		idx++
	}
	return line[:idx]
}

func commonPrefix(a string, b string) string {
	n := min(len(a), len(b))
	idx := 0
	for idx < n && a[idx] == b[idx] {
		idx++
	}
	return a[:idx]
}

// Dedent removes the leading whitespace shared by every non-blank line.
// Tabs and spaces are compared literally (no tab expansion), so "\t" and "    "
// have no common margin. Whitespace-only lines are normalized to "".
// Relative indentation between lines is preserved.
func Dedent(s string) string {
	lines := strings.Split(s, "\n")
	margin := ""
	haveMargin := false
	for _, line := range lines {
		if isBlankLine(line) {
			continue
		}
		indent := leadingWhitespace(line)
		if !haveMargin {
			margin = indent
			haveMargin = true
			continue
		}
		margin = commonPrefix(margin, indent)
		if margin == "" {
			break
		}
	}
	for idx, line := range lines {
		if isBlankLine(line) {
			lines[idx] = ""
			continue
		}
		lines[idx] = strings.TrimPrefix(line, margin)
	}
	return strings.Join(lines, "\n")
}

package typescript

import "strings"

// Header is the fixed comment at the top of every generated file.
// Smart cleaning relies on it to tell generated files from hand-written ones.
const Header = `/*
 * This source code was auto-generated by contractor.
 * Changes to this file may cause incorrect behavior and will be lost when the
 * code is regenerated next time contractor runs.
 */`

// IsGenerated reports whether content starts with the generated-file header
func IsGenerated(content []byte) bool {
	text := strings.ReplaceAll(string(content), "\r\n", "\n")
	return strings.HasPrefix(strings.TrimPrefix(text, "\uFEFF"), Header)
}

// Normalize trims surrounding whitespace and trailing spaces on every line, converts line
// terminators to newline and ends the text with exactly one terminator.
func Normalize(text, newline string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	lines := strings.Split(strings.TrimSpace(text), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.Join(lines, newline) + newline
}

package markup

import (
	"strings"
)

var (
	attributeEscaper = strings.NewReplacer(
		`&`, "&amp;",
		`"`, "&quot;",
		`<`, "&lt;",
		`>`, "&gt;",
	)
	textEscaper = strings.NewReplacer(
		`&`, "&amp;",
		`<`, "&lt;",
		`>`, "&gt;",
	)
)

func escapeAttribute(s string) string { return attributeEscaper.Replace(s) }

func escapeText(s string) string { return textEscaper.Replace(s) }

// reindent prefixes every non-empty line of s with indent.
func reindent(s, indent string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if line == "" {
			continue
		}
		lines[i] = indent + line
	}
	return strings.Join(lines, "\n")
}

// normalizeContent undoes reindent. Surrounding blank lines are dropped,
// the indentation common to all non-empty lines is removed, and the result
// is trimmed.
func normalizeContent(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	lines := strings.Split(s, "\n")

	for len(lines) > 0 && strings.TrimSpace(lines[0]) == "" {
		lines = lines[1:]
	}
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	if len(lines) == 0 {
		return ""
	}

	common := -1
	for _, line := range lines {
		if line == "" {
			continue
		}
		n := len(line) - len(strings.TrimLeft(line, " \t"))
		if common < 0 || n < common {
			common = n
		}
	}
	if common > 0 {
		for i, line := range lines {
			if len(line) >= common {
				lines[i] = line[common:]
			}
		}
	}

	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// Package lock finds author-protected spans in markup text and rejects
// edits that intersect them. It works on raw text, not on a document tree,
// because the source editor checks edits as they are typed.
package lock

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Marker is the attribute that locks an element. It matches the attribute
// written by the markup generator for locked nodes.
const Marker = "data-locked"

var (
	tagRe    = regexp.MustCompile(`<(/?)([A-Za-z][A-Za-z0-9_:-]*)([^<>]*?)(/?)>`)
	markerRe = regexp.MustCompile(`(?i)(?:^|\s)` + Marker + `(?:\s*=\s*(?:"true"|'true'|true))?(?:\s|/|$)`)
)

// Range is a span of text with 1-based lines and columns. The end column
// is exclusive.
type Range struct {
	StartLine   int `json:"startLine"`
	StartColumn int `json:"startColumn"`
	EndLine     int `json:"endLine"`
	EndColumn   int `json:"endColumn"`
}

// Region is a locked span. It always covers whole lines.
type Region struct {
	Range
	Tag string `json:"tag"`
}

type openTag struct {
	name      string
	startLine int
	// depth counts unlocked elements with the same name opened inside the
	// locked one, so that their end tags do not close the region.
	depth int
}

// FindLockedRegions scans the text line by line and returns the regions
// of elements carrying the lock marker, in the order they are closed.
// Tag names match case-insensitively. Locked elements left open at the end
// of the text produce no region.
//
// An end tag does not simply close the nearest open locked element of the
// same name: unlocked elements of that name opened inside it are counted,
// and their end tags are matched first. A locked region therefore ends at
// its own end tag, never at the end tag of a nested namesake.
func FindLockedRegions(text string) []Region {
	lines := splitLines(text)

	var (
		stack   []openTag
		regions []Region
	)

	for i, line := range lines {
		lineNo := i + 1
		for _, m := range tagRe.FindAllStringSubmatch(line, -1) {
			closing := m[1] == "/"
			name := strings.ToLower(m[2])
			attrs := m[3]
			selfClosing := m[4] == "/"

			if closing {
				idx := nearest(stack, name)
				if idx < 0 {
					continue
				}
				if stack[idx].depth > 0 {
					stack[idx].depth--
					continue
				}
				regions = append(regions, wholeLines(lines, stack[idx].startLine, lineNo, name))
				stack = append(stack[:idx], stack[idx+1:]...)
				continue
			}

			if !markerRe.MatchString(attrs) {
				if idx := nearest(stack, name); idx >= 0 && !selfClosing {
					stack[idx].depth++
				}
				continue
			}

			if selfClosing {
				regions = append(regions, wholeLines(lines, lineNo, lineNo, name))
				continue
			}
			stack = append(stack, openTag{name: name, startLine: lineNo})
		}
	}

	return regions
}

func nearest(stack []openTag, name string) int {
	for i := len(stack) - 1; i >= 0; i-- {
		if stack[i].name == name {
			return i
		}
	}
	return -1
}

func wholeLines(lines []string, start, end int, tag string) Region {
	return Region{
		Range: Range{
			StartLine:   start,
			StartColumn: 1,
			EndLine:     end,
			EndColumn:   utf8.RuneCountInString(lines[end-1]) + 1,
		},
		Tag: tag,
	}
}

func splitLines(text string) []string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}

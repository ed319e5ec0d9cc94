package lock

import (
	"github.com/pkg/errors"
)

var ErrLockedRegion = errors.New("edit intersects a locked region")

func before(line, col, otherLine, otherCol int) bool {
	return line < otherLine || (line == otherLine && col < otherCol)
}

// Overlaps reports whether the edit intersects any region. Boundaries are
// half-open: an edit ending exactly where a region starts, or starting
// exactly where it ends, does not intersect it.
func Overlaps(edit Range, regions []Region) bool {
	_, ok := firstOverlap(edit, regions)
	return ok
}

func firstOverlap(edit Range, regions []Region) (Region, bool) {
	for _, r := range regions {
		if before(edit.StartLine, edit.StartColumn, r.EndLine, r.EndColumn) &&
			before(r.StartLine, r.StartColumn, edit.EndLine, edit.EndColumn) {
			return r, true
		}
	}
	return Region{}, false
}

// Check returns ErrLockedRegion when the edit intersects a locked region
// of text. It always scans the given text, never a cached result.
func Check(text string, edit Range) error {
	if r, ok := firstOverlap(edit, FindLockedRegions(text)); ok {
		return errors.Wrapf(ErrLockedRegion, "<%s> on lines %d-%d", r.Tag, r.StartLine, r.EndLine)
	}
	return nil
}

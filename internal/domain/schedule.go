package domain

import (
	"sort"
	"time"
)

// OpenRangesFor resolves the open ranges of a calendar date.
// Precedence: blocked date (nothing open), then an active special schedule
// (replaces the weekly ranges entirely), then the weekly ranges for the weekday.
func (c *BusinessConfig) OpenRangesFor(date time.Time) []TimeRange {
	if c.IsBlocked(date) {
		return nil
	}

	if special, ok := c.ActiveSpecialFor(date); ok {
		return []TimeRange{special.Range}
	}

	weekly := c.Weekly[date.Weekday()]
	if len(weekly) == 0 {
		return nil
	}

	ranges := make([]TimeRange, len(weekly))
	copy(ranges, weekly)
	sort.Slice(ranges, func(i, j int) bool { return ranges[i].Start < ranges[j].Start })
	return ranges
}

// FindRange returns the open range that fully contains [start, start+duration)
func FindRange(ranges []TimeRange, start, duration int) (TimeRange, bool) {
	for _, r := range ranges {
		if r.Contains(start, duration) {
			return r, true
		}
	}
	return TimeRange{}, false
}

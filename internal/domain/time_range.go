package domain

import (
	"fmt"

	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

// TimeRange is a half-open interval of minutes from the start of a day.
// Valid ranges satisfy 0 <= Start < End <= 1440.
type TimeRange struct {
	Start int
	End   int
}

// NewTimeRange builds a range from "HH:MM" strings
func NewTimeRange(start, end string) (TimeRange, error) {
	s, err := types.TimeString(start).Minutes()
	if err != nil {
		return TimeRange{}, fmt.Errorf("%w: start %q", ErrInvalidTimeRange, start)
	}
	e, err := types.TimeString(end).Minutes()
	if err != nil {
		return TimeRange{}, fmt.Errorf("%w: end %q", ErrInvalidTimeRange, end)
	}
	tr := TimeRange{Start: s, End: e}
	if err := tr.Validate(); err != nil {
		return TimeRange{}, err
	}
	return tr, nil
}

// Validate checks the range invariant
func (tr TimeRange) Validate() error {
	if tr.Start < 0 || tr.End > MinutesPerDay || tr.Start >= tr.End {
		return fmt.Errorf("%w: %d-%d", ErrInvalidTimeRange, tr.Start, tr.End)
	}
	return nil
}

// Duration length of the range in minutes
func (tr TimeRange) Duration() int {
	return tr.End - tr.Start
}

// Contains returns true if [start, start+duration) fits inside the range
func (tr TimeRange) Contains(start, duration int) bool {
	return start >= tr.Start && start+duration <= tr.End
}

// Overlaps returns true if two ranges share at least one minute
func (tr TimeRange) Overlaps(other TimeRange) bool {
	return tr.Start < other.End && other.Start < tr.End
}

// StartString start in "HH:MM"
func (tr TimeRange) StartString() types.TimeString {
	return FormatMinutes(tr.Start)
}

// EndString end in "HH:MM" ("24:00" for end of day)
func (tr TimeRange) EndString() types.TimeString {
	return FormatMinutes(tr.End)
}

func (tr TimeRange) String() string {
	return fmt.Sprintf("%s-%s", tr.StartString(), tr.EndString())
}

// FormatMinutes formats minute-of-day as "HH:MM"
func FormatMinutes(minutes int) types.TimeString {
	ts, err := types.FromMinutes(minutes)
	if err != nil {
		return ""
	}
	return ts
}

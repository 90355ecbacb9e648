package domain

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// NormalizeBusinessConfig validates the config and brings it to canonical form:
// defaults filled in, weekly ranges sorted, blocked dates deduplicated and sorted,
// special schedules sorted by date. It is applied on every config write.
func NormalizeBusinessConfig(cfg *BusinessConfig) error {
	cfg.Name = strings.TrimSpace(cfg.Name)
	if cfg.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidBusinessConfig)
	}

	if cfg.Timezone == "" {
		cfg.Timezone = DefaultTimezone
	}
	if _, err := time.LoadLocation(cfg.Timezone); err != nil {
		return fmt.Errorf("%w: unknown timezone %q", ErrInvalidBusinessConfig, cfg.Timezone)
	}

	if err := normalizeLimits(cfg); err != nil {
		return err
	}
	if err := normalizeServices(cfg); err != nil {
		return err
	}
	if err := normalizeWeekly(cfg); err != nil {
		return err
	}
	if err := normalizeSpecial(cfg); err != nil {
		return err
	}
	normalizeBlocked(cfg)

	return nil
}

func normalizeLimits(cfg *BusinessConfig) error {
	if cfg.MaxReservationsPerSlot == 0 {
		cfg.MaxReservationsPerSlot = DefaultMaxReservationsPerSlot
	}
	if cfg.MaxReservationsPerSlot < MinReservationsPerSlot || cfg.MaxReservationsPerSlot > MaxReservationsPerSlot {
		return fmt.Errorf("%w: max reservations per slot must be between %d and %d",
			ErrInvalidBusinessConfig, MinReservationsPerSlot, MaxReservationsPerSlot)
	}

	if cfg.DefaultServiceDuration == 0 {
		cfg.DefaultServiceDuration = DefaultServiceDurationMinutes
	}
	if cfg.DefaultServiceDuration < MinServiceDurationMinutes || cfg.DefaultServiceDuration > MaxServiceDurationMinutes {
		return fmt.Errorf("%w: default service duration must be between %d and %d minutes",
			ErrInvalidBusinessConfig, MinServiceDurationMinutes, MaxServiceDurationMinutes)
	}

	if cfg.SlotGranularityMinutes == 0 {
		cfg.SlotGranularityMinutes = DefaultSlotGranularityMinutes
	}
	if cfg.SlotGranularityMinutes < MinSlotGranularityMinutes || cfg.SlotGranularityMinutes > MinutesPerDay {
		return fmt.Errorf("%w: slot granularity must be between %d and %d minutes",
			ErrInvalidBusinessConfig, MinSlotGranularityMinutes, MinutesPerDay)
	}

	if cfg.ConfirmationWindow == 0 {
		cfg.ConfirmationWindow = DefaultConfirmationWindow
	}
	if cfg.ConfirmationWindow < MinConfirmationWindowHours*time.Hour ||
		cfg.ConfirmationWindow > MaxConfirmationWindowHours*time.Hour {
		return fmt.Errorf("%w: confirmation window must be between %dh and %dh",
			ErrInvalidBusinessConfig, MinConfirmationWindowHours, MaxConfirmationWindowHours)
	}

	if cfg.AdminEmail != nil {
		trimmed := strings.TrimSpace(*cfg.AdminEmail)
		if trimmed == "" {
			cfg.AdminEmail = nil
		} else {
			cfg.AdminEmail = &trimmed
		}
	}

	return nil
}

func normalizeServices(cfg *BusinessConfig) error {
	seen := make(map[int64]struct{}, len(cfg.Services))
	for i := range cfg.Services {
		s := &cfg.Services[i]
		s.Name = strings.TrimSpace(s.Name)
		if s.Name == "" || len(s.Name) > MaxServiceNameLength {
			return fmt.Errorf("%w: name must be 1..%d characters", ErrInvalidService, MaxServiceNameLength)
		}
		if s.DurationMinutes < MinServiceDurationMinutes || s.DurationMinutes > MaxServiceDurationMinutes {
			return fmt.Errorf("%w: %q duration must be between %d and %d minutes",
				ErrInvalidService, s.Name, MinServiceDurationMinutes, MaxServiceDurationMinutes)
		}
		if s.Price != nil && s.Price.IsNegative() {
			return fmt.Errorf("%w: %q price must not be negative", ErrInvalidService, s.Name)
		}
		if s.ID != 0 {
			if _, dup := seen[s.ID]; dup {
				return fmt.Errorf("%w: duplicate service id %d", ErrInvalidService, s.ID)
			}
			seen[s.ID] = struct{}{}
		}
		s.BusinessID = cfg.ID
	}
	return nil
}

func normalizeWeekly(cfg *BusinessConfig) error {
	if cfg.Weekly == nil {
		cfg.Weekly = WeeklySchedule{}
	}
	for day, ranges := range cfg.Weekly {
		if day < time.Sunday || day > time.Saturday {
			return fmt.Errorf("%w: %d", ErrInvalidWeekday, day)
		}
		if len(ranges) == 0 {
			delete(cfg.Weekly, day)
			continue
		}
		sorted, err := sortRanges(ranges)
		if err != nil {
			return fmt.Errorf("%s: %w", day, err)
		}
		cfg.Weekly[day] = sorted
	}
	return nil
}

// sortRanges validates, orders and checks ranges for overlap
func sortRanges(ranges []TimeRange) ([]TimeRange, error) {
	sorted := make([]TimeRange, len(ranges))
	copy(sorted, ranges)

	for _, r := range sorted {
		if err := r.Validate(); err != nil {
			return nil, err
		}
	}

	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Start < sorted[j].Start })

	for i := 1; i < len(sorted); i++ {
		if sorted[i-1].Overlaps(sorted[i]) {
			return nil, fmt.Errorf("%w: %s and %s", ErrOverlappingRanges, sorted[i-1], sorted[i])
		}
	}
	return sorted, nil
}

func normalizeSpecial(cfg *BusinessConfig) error {
	active := make(map[string]struct{}, len(cfg.Special))
	for i := range cfg.Special {
		s := &cfg.Special[i]
		if err := s.Range.Validate(); err != nil {
			return fmt.Errorf("special schedule %s: %w", DateKey(s.Date), err)
		}
		s.BusinessID = cfg.ID
		if !s.Active {
			continue
		}
		key := DateKey(s.Date)
		if _, dup := active[key]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateSpecialSchedule, key)
		}
		active[key] = struct{}{}
	}

	sort.SliceStable(cfg.Special, func(i, j int) bool {
		return DateKey(cfg.Special[i].Date) < DateKey(cfg.Special[j].Date)
	})
	return nil
}

func normalizeBlocked(cfg *BusinessConfig) {
	seen := make(map[string]struct{}, len(cfg.Blocked))
	result := make([]BlockedDate, 0, len(cfg.Blocked))
	for _, b := range cfg.Blocked {
		key := DateKey(b.Date)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		b.BusinessID = cfg.ID
		if b.Reason != nil && len(*b.Reason) > MaxBlockedReasonLength {
			trimmed := (*b.Reason)[:MaxBlockedReasonLength]
			b.Reason = &trimmed
		}
		result = append(result, b)
	}
	sort.Slice(result, func(i, j int) bool { return DateKey(result[i].Date) < DateKey(result[j].Date) })
	cfg.Blocked = result
}

// ValidateSpecialSchedule checks a single special schedule against the existing ones
func ValidateSpecialSchedule(existing []SpecialSchedule, candidate SpecialSchedule) error {
	if err := candidate.Range.Validate(); err != nil {
		return err
	}
	if !candidate.Active {
		return nil
	}
	key := DateKey(candidate.Date)
	for _, s := range existing {
		if s.ID != candidate.ID && s.Active && DateKey(s.Date) == key {
			return fmt.Errorf("%w: %s", ErrDuplicateSpecialSchedule, key)
		}
	}
	return nil
}

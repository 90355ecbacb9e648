package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeBusinessConfig_Defaults(t *testing.T) {
	cfg := &BusinessConfig{
		ID:   3,
		Name: "  Salon  ",
		Weekly: WeeklySchedule{
			time.Monday: {{Start: 900, End: 1140}, {Start: 540, End: 780}},
			time.Sunday: {},
		},
		Services: []Service{{ID: 1, Name: "Cut", DurationMinutes: 45, Active: true}},
	}

	require.NoError(t, NormalizeBusinessConfig(cfg))

	assert.Equal(t, "Salon", cfg.Name)
	assert.Equal(t, DefaultTimezone, cfg.Timezone)
	assert.Equal(t, DefaultMaxReservationsPerSlot, cfg.MaxReservationsPerSlot)
	assert.Equal(t, DefaultSlotGranularityMinutes, cfg.SlotGranularityMinutes)
	assert.Equal(t, DefaultServiceDurationMinutes, cfg.DefaultServiceDuration)
	assert.Equal(t, DefaultConfirmationWindow, cfg.ConfirmationWindow)
	assert.Equal(t, []TimeRange{{Start: 540, End: 780}, {Start: 900, End: 1140}}, cfg.Weekly[time.Monday])
	_, hasSunday := cfg.Weekly[time.Sunday]
	assert.False(t, hasSunday)
	assert.Equal(t, int64(3), cfg.Services[0].BusinessID)
}

func TestNormalizeBusinessConfig_Errors(t *testing.T) {
	negative := decimal.NewFromInt(-1)

	tests := []struct {
		name    string
		mutate  func(cfg *BusinessConfig)
		wantErr error
	}{
		{
			name:    "empty name",
			mutate:  func(cfg *BusinessConfig) { cfg.Name = " " },
			wantErr: ErrInvalidBusinessConfig,
		},
		{
			name:    "unknown timezone",
			mutate:  func(cfg *BusinessConfig) { cfg.Timezone = "Mars/Olympus" },
			wantErr: ErrInvalidBusinessConfig,
		},
		{
			name:    "capacity above limit",
			mutate:  func(cfg *BusinessConfig) { cfg.MaxReservationsPerSlot = 101 },
			wantErr: ErrInvalidBusinessConfig,
		},
		{
			name: "overlapping weekly ranges",
			mutate: func(cfg *BusinessConfig) {
				cfg.Weekly[time.Monday] = []TimeRange{{Start: 540, End: 720}, {Start: 700, End: 800}}
			},
			wantErr: ErrOverlappingRanges,
		},
		{
			name: "inverted range",
			mutate: func(cfg *BusinessConfig) {
				cfg.Weekly[time.Monday] = []TimeRange{{Start: 720, End: 540}}
			},
			wantErr: ErrInvalidTimeRange,
		},
		{
			name: "range past midnight",
			mutate: func(cfg *BusinessConfig) {
				cfg.Weekly[time.Monday] = []TimeRange{{Start: 1380, End: 1500}}
			},
			wantErr: ErrInvalidTimeRange,
		},
		{
			name:    "invalid weekday",
			mutate:  func(cfg *BusinessConfig) { cfg.Weekly[time.Weekday(7)] = []TimeRange{{Start: 540, End: 600}} },
			wantErr: ErrInvalidWeekday,
		},
		{
			name: "two active specials on one date",
			mutate: func(cfg *BusinessConfig) {
				cfg.Special = []SpecialSchedule{
					{ID: 1, Date: tuesday, Range: TimeRange{Start: 600, End: 720}, Active: true},
					{ID: 2, Date: tuesday, Range: TimeRange{Start: 780, End: 840}, Active: true},
				}
			},
			wantErr: ErrDuplicateSpecialSchedule,
		},
		{
			name:    "service without duration",
			mutate:  func(cfg *BusinessConfig) { cfg.Services = []Service{{ID: 1, Name: "Cut"}} },
			wantErr: ErrInvalidService,
		},
		{
			name: "negative price",
			mutate: func(cfg *BusinessConfig) {
				cfg.Services = []Service{{ID: 1, Name: "Cut", DurationMinutes: 30, Price: &negative}}
			},
			wantErr: ErrInvalidService,
		},
		{
			name: "duplicate service id",
			mutate: func(cfg *BusinessConfig) {
				cfg.Services = []Service{
					{ID: 1, Name: "Cut", DurationMinutes: 30},
					{ID: 1, Name: "Shave", DurationMinutes: 30},
				}
			},
			wantErr: ErrInvalidService,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &BusinessConfig{ID: 1, Name: "Salon", Weekly: WeeklySchedule{}}
			tt.mutate(cfg)
			assert.ErrorIs(t, NormalizeBusinessConfig(cfg), tt.wantErr)
		})
	}
}

func TestNormalizeBusinessConfig_SpecialAndBlocked(t *testing.T) {
	cfg := &BusinessConfig{
		ID:   1,
		Name: "Salon",
		Special: []SpecialSchedule{
			{ID: 2, Date: tuesday, Range: TimeRange{Start: 600, End: 720}, Active: true},
			{ID: 1, Date: tuesday, Range: TimeRange{Start: 780, End: 840}, Active: false},
			{ID: 3, Date: monday, Range: TimeRange{Start: 600, End: 720}, Active: true},
		},
		Blocked: []BlockedDate{{Date: tuesday}, {Date: monday}, {Date: tuesday}},
	}

	require.NoError(t, NormalizeBusinessConfig(cfg))

	assert.Equal(t, int64(3), cfg.Special[0].ID)
	require.Len(t, cfg.Blocked, 2)
	assert.Equal(t, "2025-03-10", DateKey(cfg.Blocked[0].Date))
	assert.Equal(t, "2025-03-11", DateKey(cfg.Blocked[1].Date))
}

func TestValidateSpecialSchedule(t *testing.T) {
	existing := []SpecialSchedule{{ID: 1, Date: tuesday, Range: TimeRange{Start: 600, End: 720}, Active: true}}

	err := ValidateSpecialSchedule(existing, SpecialSchedule{Date: tuesday, Range: TimeRange{Start: 780, End: 840}, Active: true})
	assert.ErrorIs(t, err, ErrDuplicateSpecialSchedule)

	err = ValidateSpecialSchedule(existing, SpecialSchedule{Date: tuesday, Range: TimeRange{Start: 780, End: 840}, Active: false})
	assert.NoError(t, err)

	err = ValidateSpecialSchedule(existing, SpecialSchedule{ID: 1, Date: tuesday, Range: TimeRange{Start: 540, End: 600}, Active: true})
	assert.NoError(t, err, "updating the same schedule")

	err = ValidateSpecialSchedule(nil, SpecialSchedule{Date: monday, Range: TimeRange{Start: 600, End: 600}, Active: true})
	assert.ErrorIs(t, err, ErrInvalidTimeRange)
}

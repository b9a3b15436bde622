package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDailySlots(t *testing.T) {
	loc, err := time.LoadLocation("America/Sao_Paulo")
	require.NoError(t, err)

	date := time.Date(2024, 3, 10, 15, 42, 0, 0, loc)
	slots := DailySlots(date, loc)

	require.Len(t, slots, SlotCount)

	first := slots[0]
	assert.Equal(t, time.Date(2024, 3, 10, 8, 0, 0, 0, loc), first.Start)

	for i, slot := range slots {
		assert.Equal(t, SlotDuration, slot.End.Sub(slot.Start), "slot %d duration", i)
		if i > 0 {
			assert.Equal(t, slots[i-1].End, slot.Start, "slot %d should start where the previous ends", i)
		}
	}

	last := slots[len(slots)-1]
	assert.Equal(t, time.Date(2024, 3, 10, 18, 0, 0, 0, loc), last.Start)
}

func TestDailySlotsDeterministic(t *testing.T) {
	loc := time.UTC
	date := time.Date(2025, 1, 1, 0, 0, 0, 0, loc)

	assert.Equal(t, DailySlots(date, loc), DailySlots(date, loc))

	// Time-of-day of the anchor must not matter, only the calendar date.
	evening := date.Add(23 * time.Hour)
	assert.Equal(t, DailySlots(date, loc), DailySlots(evening, loc))
}

func TestPeriodOf(t *testing.T) {
	loc := time.UTC
	day := func(h, m int) time.Time {
		return time.Date(2024, 5, 20, h, m, 0, 0, loc)
	}

	tests := []struct {
		name string
		t    time.Time
		want Period
	}{
		{"early morning boundary", day(6, 0), PeriodMorning},
		{"mid morning", day(9, 30), PeriodMorning},
		{"last morning minute", day(11, 59), PeriodMorning},
		{"noon is afternoon", day(12, 0), PeriodAfternoon},
		{"late afternoon", day(17, 59), PeriodAfternoon},
		{"six pm is evening", day(18, 0), PeriodEvening},
		{"late night", day(23, 30), PeriodEvening},
		{"before dawn", day(4, 0), PeriodEvening},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PeriodOf(tt.t))
		})
	}
}

// Package schedule defines the clinic's fixed intraday time grid.
package schedule

import "time"

// The clinic runs 13 fixed 50-minute slots, back to back from 08:00
// through the 18:00 start.
const (
	SlotDuration = 50 * time.Minute
	SlotCount    = 13

	firstSlotHour   = 8
	firstSlotMinute = 0
)

type Period string

const (
	PeriodMorning   Period = "manha"
	PeriodAfternoon Period = "tarde"
	PeriodEvening   Period = "noite"
)

type Slot struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// DailySlots returns the clinic's slot grid anchored to the calendar
// date of the given time, in the given location. Deterministic for any
// date, past or future.
func DailySlots(date time.Time, loc *time.Location) []Slot {
	day := date.In(loc)
	first := time.Date(day.Year(), day.Month(), day.Day(), firstSlotHour, firstSlotMinute, 0, 0, loc)

	slots := make([]Slot, 0, SlotCount)
	for i := 0; i < SlotCount; i++ {
		start := first.Add(time.Duration(i) * SlotDuration)
		slots = append(slots, Slot{Start: start, End: start.Add(SlotDuration)})
	}
	return slots
}

// PeriodOf classifies a timestamp into the coarse day period used for
// grouping and counts.
func PeriodOf(t time.Time) Period {
	switch h := t.Hour(); {
	case h >= 6 && h < 12:
		return PeriodMorning
	case h >= 12 && h < 18:
		return PeriodAfternoon
	default:
		return PeriodEvening
	}
}

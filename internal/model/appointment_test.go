package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeSecondaryStatus(t *testing.T) {
	assert.Equal(t, "", NormalizeSecondaryStatus("nenhum"))
	assert.Equal(t, "", NormalizeSecondaryStatus(""))
	assert.Equal(t, "confirmado", NormalizeSecondaryStatus("confirmado"))

	// Idempotent: normalizing a normalized value changes nothing.
	assert.Equal(t, "", NormalizeSecondaryStatus(NormalizeSecondaryStatus("nenhum")))
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to AppointmentStatus
		want     bool
	}{
		{AppointmentStatusScheduled, AppointmentStatusInProgress, true},
		{AppointmentStatusScheduled, AppointmentStatusNoShow, true},
		{AppointmentStatusScheduled, AppointmentStatusCancelled, true},
		{AppointmentStatusScheduled, AppointmentStatusCompleted, false},
		{AppointmentStatusInProgress, AppointmentStatusCompleted, true},
		{AppointmentStatusInProgress, AppointmentStatusScheduled, false},
		{AppointmentStatusCompleted, AppointmentStatusScheduled, false},
		{AppointmentStatusCancelled, AppointmentStatusScheduled, false},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.want, CanTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}

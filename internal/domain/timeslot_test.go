package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeSlotStatus(t *testing.T) {
	tests := []struct {
		name      string
		booked    int
		max       int
		isBlocked bool
		want      SlotStatus
	}{
		{"empty slot", 0, 3, false, SlotStatusAvailable},
		{"partially booked", 1, 3, false, SlotStatusPartiallyBooked},
		{"one short of full", 2, 3, false, SlotStatusPartiallyBooked},
		{"full", 3, 3, false, SlotStatusBooked},
		{"over capacity stays booked", 4, 3, false, SlotStatusBooked},
		{"single seat taken", 1, 1, false, SlotStatusBooked},
		{"blocked wins over empty", 0, 3, true, SlotStatusBlocked},
		{"blocked wins over full", 3, 3, true, SlotStatusBlocked},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ComputeSlotStatus(tt.booked, tt.max, tt.isBlocked))
		})
	}
}

func TestParseSlotStatus(t *testing.T) {
	for _, valid := range []string{"available", "partially_booked", "booked", "blocked"} {
		status, err := ParseSlotStatus(valid)
		require.NoError(t, err)
		assert.Equal(t, SlotStatus(valid), status)
	}

	_, err := ParseSlotStatus("reserved")
	assert.ErrorIs(t, err, ErrInvalidSlotStatus)
}

func TestTimeSlotHelpers(t *testing.T) {
	start := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)
	slot := &TimeSlot{
		StartTime:     start,
		EndTime:       start.Add(45 * time.Minute),
		MaxClients:    3,
		BookedClients: 2,
	}

	assert.Equal(t, 1, slot.AvailableSpots())
	assert.True(t, slot.IsBookable())
	assert.Equal(t, 45, slot.DurationMinutes())

	slot.BookedClients = 3
	assert.Equal(t, 0, slot.AvailableSpots())
	assert.False(t, slot.IsBookable())

	slot.BookedClients = 1
	slot.IsBlocked = true
	assert.False(t, slot.IsBookable())
}

package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/pkg/ptr"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

func validSchedule() *Schedule {
	return &Schedule{
		CompanyID: 10,
		Name:      "Основное расписание",
		Type:      ScheduleTypeRegular,
		WeeklyTemplate: map[Weekday]DayTemplate{
			Monday: {Start: "09:00", End: "18:00", IsWorkingDay: true},
			Sunday: {IsWorkingDay: false},
		},
		SlotDurationMinutes:   30,
		SlotIntervalMinutes:   0,
		MaxConcurrentBookings: 1,
		IsActive:              true,
	}
}

func TestScheduleValidate(t *testing.T) {
	t.Run("valid schedule", func(t *testing.T) {
		require.NoError(t, validSchedule().Validate())
	})

	tests := []struct {
		name   string
		mutate func(s *Schedule)
	}{
		{"missing company", func(s *Schedule) { s.CompanyID = 0 }},
		{"empty name", func(s *Schedule) { s.Name = "" }},
		{"unknown type", func(s *Schedule) { s.Type = "weekly" }},
		{"zero duration", func(s *Schedule) { s.SlotDurationMinutes = 0 }},
		{"negative interval", func(s *Schedule) { s.SlotIntervalMinutes = -5 }},
		{"zero capacity", func(s *Schedule) { s.MaxConcurrentBookings = 0 }},
		{"capacity over limit", func(s *Schedule) { s.MaxConcurrentBookings = MaxConcurrentBookingsLimit + 1 }},
		{"unknown weekday in template", func(s *Schedule) {
			s.WeeklyTemplate["someday"] = DayTemplate{Start: "09:00", End: "10:00", IsWorkingDay: true}
		}},
		{"bad template time", func(s *Schedule) {
			s.WeeklyTemplate[Tuesday] = DayTemplate{Start: "9am", End: "18:00", IsWorkingDay: true}
		}},
		{"bad exception date", func(s *Schedule) {
			s.Exceptions = []ScheduleException{{Date: "07-03-2025", IsWorkingDay: false}}
		}},
		{"nameless event", func(s *Schedule) {
			s.RecurringEvents = []RecurringEvent{{Days: []Weekday{Monday}, StartTime: "12:00", EndTime: "13:00"}}
		}},
		{"event end before start", func(s *Schedule) {
			s.RecurringEvents = []RecurringEvent{
				{Name: "обед", Days: []Weekday{Monday}, StartTime: "13:00", EndTime: "12:00"},
			}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validSchedule()
			tt.mutate(s)
			assert.Error(t, s.Validate())
		})
	}
}

func TestParseScheduleType(t *testing.T) {
	for _, valid := range []string{"regular", "custom", "holiday", "vacation"} {
		st, err := ParseScheduleType(valid)
		require.NoError(t, err)
		assert.Equal(t, ScheduleType(valid), st)
	}

	_, err := ParseScheduleType("weekly")
	assert.ErrorIs(t, err, ErrInvalidScheduleType)
}

func TestResolveDay(t *testing.T) {
	monday := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	sunday := time.Date(2025, 6, 8, 0, 0, 0, 0, time.UTC)

	t.Run("template day without exception", func(t *testing.T) {
		resolved := validSchedule().ResolveDay(monday)
		assert.True(t, resolved.IsWorkingDay)
		assert.Equal(t, types.TimeString("09:00"), resolved.Start)
		assert.Equal(t, types.TimeString("18:00"), resolved.End)
	})

	t.Run("day absent from template is off", func(t *testing.T) {
		wednesday := time.Date(2025, 6, 4, 0, 0, 0, 0, time.UTC)
		assert.False(t, validSchedule().ResolveDay(wednesday).IsWorkingDay)
	})

	t.Run("exception turns working day off", func(t *testing.T) {
		s := validSchedule()
		s.Exceptions = []ScheduleException{{Date: "2025-06-02", IsWorkingDay: false}}
		assert.False(t, s.ResolveDay(monday).IsWorkingDay)
	})

	t.Run("exception shrinks the window", func(t *testing.T) {
		s := validSchedule()
		s.Exceptions = []ScheduleException{{
			Date:         "2025-06-02",
			End:          ptr.Ptr(types.TimeString("13:00")),
			IsWorkingDay: true,
		}}
		resolved := s.ResolveDay(monday)
		assert.True(t, resolved.IsWorkingDay)
		assert.Equal(t, types.TimeString("09:00"), resolved.Start)
		assert.Equal(t, types.TimeString("13:00"), resolved.End)
	})

	t.Run("exception turns day off template on", func(t *testing.T) {
		s := validSchedule()
		s.Exceptions = []ScheduleException{{
			Date:         "2025-06-08",
			Start:        ptr.Ptr(types.TimeString("10:00")),
			End:          ptr.Ptr(types.TimeString("14:00")),
			IsWorkingDay: true,
		}}
		resolved := s.ResolveDay(sunday)
		assert.True(t, resolved.IsWorkingDay)
		assert.Equal(t, types.TimeString("10:00"), resolved.Start)
		assert.Equal(t, types.TimeString("14:00"), resolved.End)
	})
}

func TestRecurringEventActiveOn(t *testing.T) {
	monday := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	tuesday := time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC)

	event := RecurringEvent{
		Name:      "планерка",
		Days:      []Weekday{Monday},
		StartTime: "09:00",
		EndTime:   "09:30",
	}

	assert.True(t, event.ActiveOn(monday))
	assert.False(t, event.ActiveOn(tuesday))

	t.Run("bounded by dates", func(t *testing.T) {
		bounded := event
		bounded.StartDate = ptr.Ptr("2025-06-09")
		assert.False(t, bounded.ActiveOn(monday))

		bounded.StartDate = nil
		bounded.EndDate = ptr.Ptr("2025-05-31")
		assert.False(t, bounded.ActiveOn(monday))
	})

	t.Run("malformed bound means no bound", func(t *testing.T) {
		loose := event
		loose.StartDate = ptr.Ptr("not-a-date")
		assert.True(t, loose.ActiveOn(monday))
	})
}

func TestBookingOverlaps(t *testing.T) {
	start := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)
	booking := &Booking{StartTime: start, EndTime: start.Add(time.Hour)}

	// Границы полуоткрытые: стык интервалов пересечением не считается
	assert.False(t, booking.Overlaps(start.Add(-time.Hour), start))
	assert.False(t, booking.Overlaps(start.Add(time.Hour), start.Add(2*time.Hour)))
	assert.True(t, booking.Overlaps(start.Add(30*time.Minute), start.Add(90*time.Minute)))
	assert.True(t, booking.Overlaps(start.Add(-30*time.Minute), start.Add(30*time.Minute)))
	assert.True(t, booking.Overlaps(start.Add(10*time.Minute), start.Add(20*time.Minute)))
}

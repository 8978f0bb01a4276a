package generate_slots

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	scheduleRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/schedule"
)

type mockScheduleRepo struct {
	schedules map[int64]*domain.Schedule
}

func (m *mockScheduleRepo) GetByID(ctx context.Context, id int64) (*domain.Schedule, error) {
	s, ok := m.schedules[id]
	if !ok {
		return nil, fmt.Errorf("%w: id=%d", scheduleRepo.ErrScheduleNotFound, id)
	}
	return s, nil
}

// mockSlotRepo хранит слоты в памяти с той же уникальностью,
// что и индекс time_slots в базе
type mockSlotRepo struct {
	slots   map[string]*domain.TimeSlot
	deleted int64
	nextID  int64
}

func newMockSlotRepo() *mockSlotRepo {
	return &mockSlotRepo{slots: map[string]*domain.TimeSlot{}}
}

func slotKey(scheduleID int64, start, end time.Time) string {
	return fmt.Sprintf("%d/%s/%s", scheduleID, start.Format(time.RFC3339), end.Format(time.RFC3339))
}

func (m *mockSlotRepo) Create(ctx context.Context, slot *domain.TimeSlot) (bool, error) {
	key := slotKey(slot.ScheduleID, slot.StartTime, slot.EndTime)
	if _, exists := m.slots[key]; exists {
		return false, nil
	}
	m.nextID++
	slot.ID = m.nextID
	m.slots[key] = slot
	return true, nil
}

func (m *mockSlotRepo) DeleteByScheduleRange(ctx context.Context, scheduleID int64, from, to time.Time) (int64, error) {
	var count int64
	for key, slot := range m.slots {
		if slot.ScheduleID == scheduleID && !slot.StartTime.Before(from) && !slot.StartTime.After(to) {
			delete(m.slots, key)
			count++
		}
	}
	m.deleted += count
	return count, nil
}

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

func newTestUseCase(schedule *domain.Schedule) (*UseCase, *mockSlotRepo) {
	schedules := &mockScheduleRepo{schedules: map[int64]*domain.Schedule{}}
	if schedule != nil {
		schedules.schedules[schedule.ID] = schedule
	}
	slots := newMockSlotRepo()
	return NewUseCase(schedules, slots, 0, nopLogger{}), slots
}

func TestExecute_GeneratesWorkWeek(t *testing.T) {
	uc, slots := newTestUseCase(baseSchedule())

	// Понедельник-воскресенье: 5 рабочих дней по 18 слотов
	resp, err := uc.Execute(context.Background(), &Request{
		ScheduleID: 1,
		StartDate:  mustDate(t, "2026-09-07"),
		EndDate:    mustDate(t, "2026-09-13"),
	})

	require.NoError(t, err)
	assert.Equal(t, 90, resp.Created)
	assert.Equal(t, 0, resp.Skipped)
	assert.Len(t, slots.slots, 90)

	for _, slot := range slots.slots {
		assert.Equal(t, int64(1), slot.ScheduleID)
		assert.Equal(t, 1, slot.MaxClients)
		assert.Equal(t, 0, slot.BookedClients)
		assert.Equal(t, domain.SlotStatusAvailable, slot.Status)
	}
}

func TestExecute_Idempotent(t *testing.T) {
	uc, slots := newTestUseCase(baseSchedule())
	req := &Request{
		ScheduleID: 1,
		StartDate:  mustDate(t, "2026-09-07"),
		EndDate:    mustDate(t, "2026-09-07"),
	}

	first, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 18, first.Created)

	// Повторная генерация того же диапазона не создает дубликатов
	second, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 0, second.Created)
	assert.Equal(t, 18, second.Skipped)
	assert.Len(t, slots.slots, 18)
}

func TestExecute_OverrideRegenerates(t *testing.T) {
	schedule := baseSchedule()
	uc, slots := newTestUseCase(schedule)
	req := &Request{
		ScheduleID: 1,
		StartDate:  mustDate(t, "2026-09-07"),
		EndDate:    mustDate(t, "2026-09-07"),
	}

	_, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)

	// После смены длительности перегенерация с override заменяет слоты
	schedule.SlotDurationMinutes = 60
	req.OverrideExisting = true

	resp, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 9, resp.Created)
	assert.Equal(t, int64(18), slots.deleted)
	assert.Len(t, slots.slots, 9)
}

func TestExecute_EventSlotsTagged(t *testing.T) {
	schedule := baseSchedule()
	schedule.RecurringEvents = []domain.RecurringEvent{
		{
			Name:          "Групповая тренировка",
			Days:          []domain.Weekday{domain.Monday},
			StartTime:     "19:00",
			EndTime:       "20:30",
			IsWorkingTime: true,
		},
	}
	uc, slots := newTestUseCase(schedule)

	resp, err := uc.Execute(context.Background(), &Request{
		ScheduleID: 1,
		StartDate:  mustDate(t, "2026-09-07"),
		EndDate:    mustDate(t, "2026-09-07"),
	})

	require.NoError(t, err)
	assert.Equal(t, 19, resp.Created) // 18 обычных + 1 событие

	var tagged int
	for _, slot := range slots.slots {
		if slot.EventName != nil {
			tagged++
			assert.Equal(t, "Групповая тренировка", *slot.EventName)
			assert.Equal(t, "19:00", slot.StartTime.Format(domain.TimeFormat))
		}
	}
	assert.Equal(t, 1, tagged)
}

func TestExecute_BlockingEventCountsSkipped(t *testing.T) {
	schedule := baseSchedule()
	schedule.RecurringEvents = []domain.RecurringEvent{
		{
			Name:          "Обед",
			Days:          []domain.Weekday{domain.Monday},
			StartTime:     "13:00",
			EndTime:       "14:00",
			IsWorkingTime: false,
		},
	}
	uc, _ := newTestUseCase(schedule)

	resp, err := uc.Execute(context.Background(), &Request{
		ScheduleID: 1,
		StartDate:  mustDate(t, "2026-09-07"),
		EndDate:    mustDate(t, "2026-09-07"),
	})

	require.NoError(t, err)
	assert.Equal(t, 16, resp.Created)
	assert.Equal(t, 2, resp.Skipped)
}

func TestExecute_Errors(t *testing.T) {
	monday := mustDate(t, "2026-09-07")

	t.Run("расписание не найдено", func(t *testing.T) {
		uc, _ := newTestUseCase(nil)
		_, err := uc.Execute(context.Background(), &Request{
			ScheduleID: 42, StartDate: monday, EndDate: monday,
		})
		assert.ErrorIs(t, err, ErrScheduleNotFound)
	})

	t.Run("неактивное расписание", func(t *testing.T) {
		schedule := baseSchedule()
		schedule.IsActive = false
		uc, _ := newTestUseCase(schedule)
		_, err := uc.Execute(context.Background(), &Request{
			ScheduleID: 1, StartDate: monday, EndDate: monday,
		})
		assert.ErrorIs(t, err, ErrScheduleInactive)
	})

	t.Run("конец диапазона раньше начала", func(t *testing.T) {
		uc, _ := newTestUseCase(baseSchedule())
		_, err := uc.Execute(context.Background(), &Request{
			ScheduleID: 1, StartDate: monday, EndDate: monday.AddDate(0, 0, -1),
		})
		assert.ErrorIs(t, err, ErrInvalidDateRange)
	})

	t.Run("диапазон больше предела", func(t *testing.T) {
		uc, _ := newTestUseCase(baseSchedule())
		_, err := uc.Execute(context.Background(), &Request{
			ScheduleID: 1, StartDate: monday, EndDate: monday.AddDate(0, 0, domain.MaxGenerationRangeDays),
		})
		assert.ErrorIs(t, err, ErrInvalidDateRange)
	})

	t.Run("нулевой scheduleID", func(t *testing.T) {
		uc, _ := newTestUseCase(baseSchedule())
		_, err := uc.Execute(context.Background(), &Request{
			ScheduleID: 0, StartDate: monday, EndDate: monday,
		})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

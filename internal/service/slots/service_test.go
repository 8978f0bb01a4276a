package slots

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	slotRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/timeslot"
	"github.com/m04kA/SMC-SchedulingService/internal/service/slots/models"
	"github.com/m04kA/SMC-SchedulingService/pkg/ptr"
)

// fakeSlotRepo повторяет семантику условных UPDATE репозитория слотов:
// проверка и изменение счетчика выполняются под одной блокировкой
type fakeSlotRepo struct {
	mu    sync.Mutex
	slots map[int64]*domain.TimeSlot
}

func newFakeSlotRepo(slots ...*domain.TimeSlot) *fakeSlotRepo {
	repo := &fakeSlotRepo{slots: map[int64]*domain.TimeSlot{}}
	for _, s := range slots {
		repo.slots[s.ID] = s
	}
	return repo
}

func (f *fakeSlotRepo) GetByID(ctx context.Context, id int64) (*domain.TimeSlot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	slot, ok := f.slots[id]
	if !ok {
		return nil, fmt.Errorf("%w: id=%d", slotRepo.ErrSlotNotFound, id)
	}
	copied := *slot
	return &copied, nil
}

func (f *fakeSlotRepo) List(ctx context.Context, filter slotRepo.SlotsFilter) ([]*domain.TimeSlot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []*domain.TimeSlot
	for _, slot := range f.slots {
		if filter.ScheduleID != nil && slot.ScheduleID != *filter.ScheduleID {
			continue
		}
		if filter.OnlyAvailable && !slot.IsBookable() {
			continue
		}
		if filter.StartTime != nil && slot.StartTime.Before(*filter.StartTime) {
			continue
		}
		if filter.EndTime != nil && !slot.StartTime.Before(*filter.EndTime) {
			continue
		}
		copied := *slot
		result = append(result, &copied)
	}
	return result, nil
}

func (f *fakeSlotRepo) Reserve(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	slot, ok := f.slots[id]
	if !ok {
		return fmt.Errorf("%w: id=%d", slotRepo.ErrSlotNotFound, id)
	}
	if slot.IsBlocked || slot.BookedClients >= slot.MaxClients {
		return fmt.Errorf("%w: id=%d", slotRepo.ErrSlotUnavailable, id)
	}
	slot.BookedClients++
	slot.Status = domain.ComputeSlotStatus(slot.BookedClients, slot.MaxClients, slot.IsBlocked)
	return nil
}

func (f *fakeSlotRepo) Release(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	slot, ok := f.slots[id]
	if !ok {
		return fmt.Errorf("%w: id=%d", slotRepo.ErrSlotNotFound, id)
	}
	if slot.BookedClients == 0 {
		return fmt.Errorf("%w: id=%d", slotRepo.ErrNoActiveReservations, id)
	}
	slot.BookedClients--
	slot.Status = domain.ComputeSlotStatus(slot.BookedClients, slot.MaxClients, slot.IsBlocked)
	return nil
}

func (f *fakeSlotRepo) SetBlocked(ctx context.Context, id int64, blocked bool, reason *string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	slot, ok := f.slots[id]
	if !ok {
		return slotRepo.ErrSlotNotFound
	}
	slot.IsBlocked = blocked
	slot.BlockReason = reason
	slot.Status = domain.ComputeSlotStatus(slot.BookedClients, slot.MaxClients, blocked)
	return nil
}

func (f *fakeSlotRepo) UpdateDetails(ctx context.Context, id int64, maxClients *int, price *float64, notes *string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	slot, ok := f.slots[id]
	if !ok {
		return slotRepo.ErrSlotNotFound
	}
	if maxClients != nil {
		if slot.BookedClients > *maxClients {
			return fmt.Errorf("%w: id=%d", slotRepo.ErrCapacityBelowOccupancy, id)
		}
		slot.MaxClients = *maxClients
		slot.Status = domain.ComputeSlotStatus(slot.BookedClients, slot.MaxClients, slot.IsBlocked)
	}
	if price != nil {
		slot.Price = price
	}
	if notes != nil {
		slot.Notes = notes
	}
	return nil
}

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

func testSlot(id int64, maxClients, booked int) *domain.TimeSlot {
	return &domain.TimeSlot{
		ID:            id,
		ScheduleID:    1,
		StartTime:     time.Date(2026, 9, 7, 10, 0, 0, 0, time.UTC),
		EndTime:       time.Date(2026, 9, 7, 10, 30, 0, 0, time.UTC),
		MaxClients:    maxClients,
		BookedClients: booked,
		Status:        domain.ComputeSlotStatus(booked, maxClients, false),
	}
}

func TestReserveReleaseRoundTrip(t *testing.T) {
	repo := newFakeSlotRepo(testSlot(1, 2, 0))
	svc := NewService(repo, nopLogger{})
	ctx := context.Background()

	// Два резервирования занимают обе позиции
	resp, err := svc.Reserve(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, resp.BookedClients)
	assert.Equal(t, string(domain.SlotStatusPartiallyBooked), resp.Status)

	resp, err = svc.Reserve(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, resp.BookedClients)
	assert.Equal(t, string(domain.SlotStatusBooked), resp.Status)
	assert.Equal(t, 0, resp.AvailableSpots)

	// Третье резервирование отклоняется
	_, err = svc.Reserve(ctx, 1)
	assert.ErrorIs(t, err, ErrSlotUnavailable)

	// Освобождение возвращает статус обратно
	resp, err = svc.Release(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, resp.BookedClients)
	assert.Equal(t, string(domain.SlotStatusPartiallyBooked), resp.Status)
}

func TestReleaseOnEmptySlot(t *testing.T) {
	repo := newFakeSlotRepo(testSlot(1, 2, 0))
	svc := NewService(repo, nopLogger{})

	_, err := svc.Release(context.Background(), 1)
	assert.ErrorIs(t, err, ErrInvalidRelease)
}

func TestConcurrentReserveOneWinner(t *testing.T) {
	// На последнее место претендуют два конкурентных запроса:
	// ровно один успех, овербукинга нет
	repo := newFakeSlotRepo(testSlot(1, 3, 2))
	svc := NewService(repo, nopLogger{})

	const attempts = 2
	errs := make(chan error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Reserve(context.Background(), 1)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var successes, conflicts int
	for err := range errs {
		switch {
		case err == nil:
			successes++
		default:
			require.ErrorIs(t, err, ErrSlotUnavailable)
			conflicts++
		}
	}

	assert.Equal(t, 1, successes)
	assert.Equal(t, 1, conflicts)

	slot, err := repo.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 3, slot.BookedClients)
	assert.Equal(t, domain.SlotStatusBooked, slot.Status)
}

func TestBlockUnblock(t *testing.T) {
	repo := newFakeSlotRepo(testSlot(1, 2, 1))
	svc := NewService(repo, nopLogger{})
	ctx := context.Background()

	resp, err := svc.SetBlocked(ctx, 1, true, ptr.Ptr("санитарный день"))
	require.NoError(t, err)
	assert.Equal(t, string(domain.SlotStatusBlocked), resp.Status)
	assert.True(t, resp.IsBlocked)

	// Заблокированный слот нельзя резервировать, брони не теряются
	_, err = svc.Reserve(ctx, 1)
	assert.ErrorIs(t, err, ErrSlotUnavailable)
	assert.Equal(t, 1, resp.BookedClients)

	// После разблокировки статус пересчитывается из занятости
	resp, err = svc.SetBlocked(ctx, 1, false, nil)
	require.NoError(t, err)
	assert.Equal(t, string(domain.SlotStatusPartiallyBooked), resp.Status)
	assert.False(t, resp.IsBlocked)
}

func TestUpdateDetails(t *testing.T) {
	ctx := context.Background()

	t.Run("обновление цены и заметок", func(t *testing.T) {
		svc := NewService(newFakeSlotRepo(testSlot(1, 2, 0)), nopLogger{})
		resp, err := svc.UpdateDetails(ctx, 1, &models.UpdateSlotRequest{
			Price: ptr.Ptr(2000.0),
			Notes: ptr.Ptr("акция"),
		})
		require.NoError(t, err)
		assert.Equal(t, 2000.0, *resp.Price)
		assert.Equal(t, "акция", *resp.Notes)
	})

	t.Run("вместимость ниже занятости отклоняется", func(t *testing.T) {
		svc := NewService(newFakeSlotRepo(testSlot(1, 3, 2)), nopLogger{})
		_, err := svc.UpdateDetails(ctx, 1, &models.UpdateSlotRequest{
			MaxClients: ptr.Ptr(1),
		})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("расширение вместимости пересчитывает статус", func(t *testing.T) {
		svc := NewService(newFakeSlotRepo(testSlot(1, 2, 2)), nopLogger{})
		resp, err := svc.UpdateDetails(ctx, 1, &models.UpdateSlotRequest{
			MaxClients: ptr.Ptr(4),
		})
		require.NoError(t, err)
		assert.Equal(t, string(domain.SlotStatusPartiallyBooked), resp.Status)
		assert.Equal(t, 2, resp.AvailableSpots)
	})

	t.Run("пустой запрос отклоняется", func(t *testing.T) {
		svc := NewService(newFakeSlotRepo(testSlot(1, 2, 0)), nopLogger{})
		_, err := svc.UpdateDetails(ctx, 1, &models.UpdateSlotRequest{})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestList(t *testing.T) {
	free := testSlot(1, 2, 0)
	full := testSlot(2, 1, 1)
	full.StartTime = free.StartTime.Add(30 * time.Minute)
	full.EndTime = free.EndTime.Add(30 * time.Minute)

	svc := NewService(newFakeSlotRepo(free, full), nopLogger{})
	ctx := context.Background()

	t.Run("фильтр обязателен", func(t *testing.T) {
		_, err := svc.List(ctx, &models.ListSlotsRequest{})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("все слоты расписания", func(t *testing.T) {
		resp, err := svc.List(ctx, &models.ListSlotsRequest{ScheduleID: ptr.Ptr(int64(1))})
		require.NoError(t, err)
		assert.Len(t, resp.Slots, 2)
	})

	t.Run("только доступные", func(t *testing.T) {
		resp, err := svc.List(ctx, &models.ListSlotsRequest{
			ScheduleID:    ptr.Ptr(int64(1)),
			OnlyAvailable: true,
		})
		require.NoError(t, err)
		require.Len(t, resp.Slots, 1)
		assert.Equal(t, int64(1), resp.Slots[0].ID)
	})
}

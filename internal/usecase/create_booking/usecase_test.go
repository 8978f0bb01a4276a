package create_booking

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	slotRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/timeslot"
	"github.com/m04kA/SMC-SchedulingService/pkg/ptr"
)

type mockBookingRepo struct {
	bookings []*domain.Booking
	nextID   int64
}

func (m *mockBookingRepo) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	m.nextID++
	b := *booking
	b.ID = m.nextID
	b.CreatedAt = time.Now()
	b.UpdatedAt = b.CreatedAt
	m.bookings = append(m.bookings, &b)
	return &b, nil
}

func (m *mockBookingRepo) FindOverlapping(ctx context.Context, serviceID int64, staffID *int64, start, end time.Time) ([]*domain.Booking, error) {
	var overlapping []*domain.Booking
	for _, b := range m.bookings {
		if b.ServiceID != serviceID || !b.IsActive() {
			continue
		}
		if staffID != nil && (b.StaffID == nil || *b.StaffID != *staffID) {
			continue
		}
		if b.Overlaps(start, end) {
			overlapping = append(overlapping, b)
		}
	}
	return overlapping, nil
}

// mockSlotStore повторяет семантику атомарного Reserve из репозитория слотов
type mockSlotStore struct {
	slots map[int64]*domain.TimeSlot
}

func (m *mockSlotStore) GetByID(ctx context.Context, id int64) (*domain.TimeSlot, error) {
	slot, ok := m.slots[id]
	if !ok {
		return nil, fmt.Errorf("%w: id=%d", slotRepo.ErrSlotNotFound, id)
	}
	return slot, nil
}

func (m *mockSlotStore) Reserve(ctx context.Context, id int64) error {
	slot, ok := m.slots[id]
	if !ok {
		return fmt.Errorf("%w: id=%d", slotRepo.ErrSlotNotFound, id)
	}
	if !slot.IsBookable() {
		return fmt.Errorf("%w: id=%d", slotRepo.ErrSlotUnavailable, id)
	}
	slot.BookedClients++
	slot.Status = domain.ComputeSlotStatus(slot.BookedClients, slot.MaxClients, slot.IsBlocked)
	return nil
}

type fakeTxManager struct{}

func (fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

func at(t *testing.T, s string) time.Time {
	t.Helper()
	ts, err := time.ParseInLocation("2006-01-02 15:04", s, time.UTC)
	require.NoError(t, err)
	return ts
}

func newTestUseCase(slots ...*domain.TimeSlot) (*UseCase, *mockBookingRepo, *mockSlotStore) {
	bookingStore := &mockBookingRepo{}
	slotStore := &mockSlotStore{slots: map[int64]*domain.TimeSlot{}}
	for _, s := range slots {
		slotStore.slots[s.ID] = s
	}
	uc := NewUseCase(bookingStore, slotStore, fakeTxManager{}, nopLogger{})
	return uc, bookingStore, slotStore
}

func TestExecute_SlotBooking(t *testing.T) {
	slot := &domain.TimeSlot{
		ID:         7,
		ScheduleID: 1,
		StartTime:  at(t, "2026-09-07 10:00"),
		EndTime:    at(t, "2026-09-07 10:30"),
		MaxClients: 2,
		Status:     domain.SlotStatusAvailable,
		Price:      ptr.Ptr(1500.0),
	}
	uc, _, slotStore := newTestUseCase(slot)

	resp, err := uc.Execute(context.Background(), &Request{
		CompanyID:  10,
		ServiceID:  3,
		UserID:     ptr.Ptr(int64(42)),
		TimeSlotID: ptr.Ptr(int64(7)),
	})

	require.NoError(t, err)
	assert.Equal(t, int64(7), *resp.TimeSlotID)
	assert.Equal(t, string(domain.StatusPending), resp.Status)
	assert.Equal(t, at(t, "2026-09-07 10:00"), resp.StartTime)
	assert.Equal(t, 30, resp.DurationMinutes)
	require.NotNil(t, resp.Price)
	assert.Equal(t, 1500.0, *resp.Price) // цена наследуется из слота

	assert.Equal(t, 1, slotStore.slots[7].BookedClients)
	assert.Equal(t, domain.SlotStatusPartiallyBooked, slotStore.slots[7].Status)
}

func TestExecute_SlotErrors(t *testing.T) {
	full := &domain.TimeSlot{
		ID:            8,
		StartTime:     at(t, "2026-09-07 10:00"),
		EndTime:       at(t, "2026-09-07 10:30"),
		MaxClients:    1,
		BookedClients: 1,
		Status:        domain.SlotStatusBooked,
	}
	blocked := &domain.TimeSlot{
		ID:         9,
		StartTime:  at(t, "2026-09-07 11:00"),
		EndTime:    at(t, "2026-09-07 11:30"),
		MaxClients: 1,
		IsBlocked:  true,
		Status:     domain.SlotStatusBlocked,
	}
	uc, bookingStore, _ := newTestUseCase(full, blocked)

	base := Request{CompanyID: 10, ServiceID: 3, UserID: ptr.Ptr(int64(42))}

	t.Run("слот не найден", func(t *testing.T) {
		req := base
		req.TimeSlotID = ptr.Ptr(int64(404))
		_, err := uc.Execute(context.Background(), &req)
		assert.ErrorIs(t, err, ErrSlotNotFound)
	})

	t.Run("все места заняты", func(t *testing.T) {
		req := base
		req.TimeSlotID = ptr.Ptr(int64(8))
		_, err := uc.Execute(context.Background(), &req)
		assert.ErrorIs(t, err, ErrSlotUnavailable)
	})

	t.Run("слот заблокирован", func(t *testing.T) {
		req := base
		req.TimeSlotID = ptr.Ptr(int64(9))
		_, err := uc.Execute(context.Background(), &req)
		assert.ErrorIs(t, err, ErrSlotUnavailable)
	})

	assert.Empty(t, bookingStore.bookings, "неудачные запросы не должны создавать бронирований")
}

func TestExecute_AdHocOverlap(t *testing.T) {
	uc, _, _ := newTestUseCase()

	// Существующее бронирование 10:00-11:00
	_, err := uc.Execute(context.Background(), &Request{
		CompanyID: 10,
		ServiceID: 3,
		UserID:    ptr.Ptr(int64(42)),
		StartTime: ptr.Ptr(at(t, "2026-09-07 10:00")),
		EndTime:   ptr.Ptr(at(t, "2026-09-07 11:00")),
	})
	require.NoError(t, err)

	t.Run("пересекающийся интервал отклоняется", func(t *testing.T) {
		_, err := uc.Execute(context.Background(), &Request{
			CompanyID: 10,
			ServiceID: 3,
			UserID:    ptr.Ptr(int64(43)),
			StartTime: ptr.Ptr(at(t, "2026-09-07 10:30")),
			EndTime:   ptr.Ptr(at(t, "2026-09-07 11:30")),
		})
		assert.ErrorIs(t, err, ErrTimeConflict)
	})

	t.Run("соприкосновение границ пересечением не считается", func(t *testing.T) {
		resp, err := uc.Execute(context.Background(), &Request{
			CompanyID: 10,
			ServiceID: 3,
			UserID:    ptr.Ptr(int64(43)),
			StartTime: ptr.Ptr(at(t, "2026-09-07 11:00")),
			EndTime:   ptr.Ptr(at(t, "2026-09-07 12:00")),
		})
		require.NoError(t, err)
		assert.Equal(t, 60, resp.DurationMinutes)
	})

	t.Run("другая услуга не конфликтует", func(t *testing.T) {
		_, err := uc.Execute(context.Background(), &Request{
			CompanyID: 10,
			ServiceID: 4,
			UserID:    ptr.Ptr(int64(43)),
			StartTime: ptr.Ptr(at(t, "2026-09-07 10:00")),
			EndTime:   ptr.Ptr(at(t, "2026-09-07 11:00")),
		})
		assert.NoError(t, err)
	})
}

func TestExecute_StaffScopedOverlap(t *testing.T) {
	uc, _, _ := newTestUseCase()

	// Бронирование сотрудника 1
	_, err := uc.Execute(context.Background(), &Request{
		CompanyID: 10,
		ServiceID: 3,
		UserID:    ptr.Ptr(int64(42)),
		StaffID:   ptr.Ptr(int64(1)),
		StartTime: ptr.Ptr(at(t, "2026-09-07 10:00")),
		EndTime:   ptr.Ptr(at(t, "2026-09-07 11:00")),
	})
	require.NoError(t, err)

	// Тот же интервал у другого сотрудника свободен
	_, err = uc.Execute(context.Background(), &Request{
		CompanyID: 10,
		ServiceID: 3,
		UserID:    ptr.Ptr(int64(43)),
		StaffID:   ptr.Ptr(int64(2)),
		StartTime: ptr.Ptr(at(t, "2026-09-07 10:00")),
		EndTime:   ptr.Ptr(at(t, "2026-09-07 11:00")),
	})
	assert.NoError(t, err)
}

func TestExecute_Validation(t *testing.T) {
	uc, _, _ := newTestUseCase()
	start := at(t, "2026-09-07 10:00")
	end := at(t, "2026-09-07 11:00")

	tests := []struct {
		name string
		req  Request
	}{
		{
			name: "ни слота, ни интервала",
			req:  Request{CompanyID: 10, ServiceID: 3, UserID: ptr.Ptr(int64(42))},
		},
		{
			name: "и слот, и интервал одновременно",
			req: Request{
				CompanyID: 10, ServiceID: 3, UserID: ptr.Ptr(int64(42)),
				TimeSlotID: ptr.Ptr(int64(7)), StartTime: &start, EndTime: &end,
			},
		},
		{
			name: "конец интервала раньше начала",
			req: Request{
				CompanyID: 10, ServiceID: 3, UserID: ptr.Ptr(int64(42)),
				StartTime: &end, EndTime: &start,
			},
		},
		{
			name: "гостевое бронирование без контактов",
			req: Request{
				CompanyID: 10, ServiceID: 3,
				StartTime: &start, EndTime: &end,
			},
		},
		{
			name: "нулевой companyID",
			req: Request{
				ServiceID: 3, UserID: ptr.Ptr(int64(42)),
				StartTime: &start, EndTime: &end,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Execute(context.Background(), &tt.req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestExecute_GuestBooking(t *testing.T) {
	uc, _, _ := newTestUseCase()

	resp, err := uc.Execute(context.Background(), &Request{
		CompanyID:   10,
		ServiceID:   3,
		ClientName:  ptr.Ptr("Иван Петров"),
		ClientPhone: ptr.Ptr("+79001234567"),
		StartTime:   ptr.Ptr(at(t, "2026-09-07 10:00")),
		EndTime:     ptr.Ptr(at(t, "2026-09-07 11:00")),
	})

	require.NoError(t, err)
	assert.Nil(t, resp.UserID)
	assert.Equal(t, string(domain.StatusPending), resp.Status)
}

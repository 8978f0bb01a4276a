package cancel_booking

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/booking"
	slotRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/timeslot"
	"github.com/m04kA/SMC-SchedulingService/pkg/ptr"
)

type mockBookingRepo struct {
	bookings map[int64]*domain.Booking
}

func (m *mockBookingRepo) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	b, ok := m.bookings[id]
	if !ok {
		return nil, fmt.Errorf("%w: id=%d", bookingRepo.ErrBookingNotFound, id)
	}
	copied := *b
	return &copied, nil
}

func (m *mockBookingRepo) Cancel(ctx context.Context, id int64, reason *string) error {
	b, ok := m.bookings[id]
	if !ok {
		return bookingRepo.ErrBookingNotFound
	}
	now := time.Now()
	b.Status = domain.StatusCancelled
	b.CancellationReason = reason
	b.CancelledAt = &now
	return nil
}

type mockSlotStore struct {
	slots map[int64]*domain.TimeSlot
}

func (m *mockSlotStore) Release(ctx context.Context, id int64) error {
	slot, ok := m.slots[id]
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

type fakeTxManager struct{}

func (fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

func newTestUseCase(bookings map[int64]*domain.Booking, slots map[int64]*domain.TimeSlot) (*UseCase, *mockBookingRepo, *mockSlotStore) {
	if bookings == nil {
		bookings = map[int64]*domain.Booking{}
	}
	if slots == nil {
		slots = map[int64]*domain.TimeSlot{}
	}
	bookingStore := &mockBookingRepo{bookings: bookings}
	slotStore := &mockSlotStore{slots: slots}
	return NewUseCase(bookingStore, slotStore, fakeTxManager{}, nopLogger{}), bookingStore, slotStore
}

func TestExecute_CancelReleasesSlot(t *testing.T) {
	uc, bookingStore, slotStore := newTestUseCase(
		map[int64]*domain.Booking{
			1: {ID: 1, CompanyID: 10, ServiceID: 3, TimeSlotID: ptr.Ptr(int64(7)), Status: domain.StatusConfirmed},
		},
		map[int64]*domain.TimeSlot{
			7: {ID: 7, MaxClients: 2, BookedClients: 2, Status: domain.SlotStatusBooked},
		},
	)

	resp, err := uc.Execute(context.Background(), &Request{
		BookingID: 1,
		Reason:    ptr.Ptr("клиент передумал"),
	})

	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusCancelled), resp.Status)
	require.NotNil(t, resp.CancellationReason)
	assert.Equal(t, "клиент передумал", *resp.CancellationReason)
	assert.NotNil(t, resp.CancelledAt)

	assert.Equal(t, 1, slotStore.slots[7].BookedClients)
	assert.Equal(t, domain.SlotStatusPartiallyBooked, slotStore.slots[7].Status)
	assert.Equal(t, domain.StatusCancelled, bookingStore.bookings[1].Status)
}

func TestExecute_SecondCancelDoesNotReleaseTwice(t *testing.T) {
	uc, _, slotStore := newTestUseCase(
		map[int64]*domain.Booking{
			1: {ID: 1, TimeSlotID: ptr.Ptr(int64(7)), Status: domain.StatusPending},
		},
		map[int64]*domain.TimeSlot{
			7: {ID: 7, MaxClients: 2, BookedClients: 1, Status: domain.SlotStatusPartiallyBooked},
		},
	)

	_, err := uc.Execute(context.Background(), &Request{BookingID: 1})
	require.NoError(t, err)
	assert.Equal(t, 0, slotStore.slots[7].BookedClients)

	// Повторная отмена не трогает счетчик слота
	_, err = uc.Execute(context.Background(), &Request{BookingID: 1})
	assert.ErrorIs(t, err, ErrAlreadyCancelled)
	assert.Equal(t, 0, slotStore.slots[7].BookedClients)
}

func TestExecute_OwnershipRule(t *testing.T) {
	t.Run("владелец отменяет свое бронирование", func(t *testing.T) {
		uc, _, _ := newTestUseCase(
			map[int64]*domain.Booking{
				1: {ID: 1, UserID: ptr.Ptr(int64(42)), Status: domain.StatusConfirmed},
			},
			nil,
		)

		resp, err := uc.Execute(context.Background(), &Request{BookingID: 1, UserID: 42})
		require.NoError(t, err)
		assert.Equal(t, string(domain.StatusCancelled), resp.Status)
	})

	t.Run("чужое бронирование отменить нельзя", func(t *testing.T) {
		uc, bookingStore, slotStore := newTestUseCase(
			map[int64]*domain.Booking{
				1: {ID: 1, UserID: ptr.Ptr(int64(42)), TimeSlotID: ptr.Ptr(int64(7)), Status: domain.StatusConfirmed},
			},
			map[int64]*domain.TimeSlot{
				7: {ID: 7, MaxClients: 2, BookedClients: 1, Status: domain.SlotStatusPartiallyBooked},
			},
		)

		_, err := uc.Execute(context.Background(), &Request{BookingID: 1, UserID: 99})
		assert.ErrorIs(t, err, ErrAccessDenied)

		// Бронирование и счетчик слота не тронуты
		assert.Equal(t, domain.StatusConfirmed, bookingStore.bookings[1].Status)
		assert.Equal(t, 1, slotStore.slots[7].BookedClients)
	})

	t.Run("гостевое бронирование отменяет любой пользователь", func(t *testing.T) {
		uc, _, _ := newTestUseCase(
			map[int64]*domain.Booking{
				1: {ID: 1, Status: domain.StatusPending},
			},
			nil,
		)

		resp, err := uc.Execute(context.Background(), &Request{BookingID: 1, UserID: 99})
		require.NoError(t, err)
		assert.Equal(t, string(domain.StatusCancelled), resp.Status)
	})
}

func TestExecute_SlotlessBookingCancels(t *testing.T) {
	uc, _, _ := newTestUseCase(
		map[int64]*domain.Booking{
			1: {ID: 1, Status: domain.StatusPending},
		},
		nil,
	)

	resp, err := uc.Execute(context.Background(), &Request{BookingID: 1})

	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusCancelled), resp.Status)
}

func TestExecute_PurgedSlotDoesNotBlockCancel(t *testing.T) {
	// Слот удален перегенерацией, бронирование держит висячую ссылку
	uc, bookingStore, _ := newTestUseCase(
		map[int64]*domain.Booking{
			1: {ID: 1, TimeSlotID: ptr.Ptr(int64(404)), Status: domain.StatusConfirmed},
		},
		nil,
	)

	resp, err := uc.Execute(context.Background(), &Request{BookingID: 1})

	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusCancelled), resp.Status)
	assert.Equal(t, domain.StatusCancelled, bookingStore.bookings[1].Status)
}

func TestExecute_ZeroCounterAbortsCancel(t *testing.T) {
	// Счетчик уже нулевой - признак поврежденного состояния, отмена прерывается
	uc, bookingStore, _ := newTestUseCase(
		map[int64]*domain.Booking{
			1: {ID: 1, TimeSlotID: ptr.Ptr(int64(7)), Status: domain.StatusConfirmed},
		},
		map[int64]*domain.TimeSlot{
			7: {ID: 7, MaxClients: 2, BookedClients: 0, Status: domain.SlotStatusAvailable},
		},
	)

	_, err := uc.Execute(context.Background(), &Request{BookingID: 1})

	assert.ErrorIs(t, err, ErrInternal)
	assert.Equal(t, domain.StatusConfirmed, bookingStore.bookings[1].Status)
}

func TestExecute_Errors(t *testing.T) {
	t.Run("бронирование не найдено", func(t *testing.T) {
		uc, _, _ := newTestUseCase(nil, nil)
		_, err := uc.Execute(context.Background(), &Request{BookingID: 42})
		assert.ErrorIs(t, err, ErrBookingNotFound)
	})

	t.Run("завершенное бронирование не отменяется", func(t *testing.T) {
		uc, _, _ := newTestUseCase(
			map[int64]*domain.Booking{1: {ID: 1, Status: domain.StatusCompleted}},
			nil,
		)
		_, err := uc.Execute(context.Background(), &Request{BookingID: 1})
		assert.ErrorIs(t, err, ErrNotCancellable)
	})

	t.Run("нулевой bookingID", func(t *testing.T) {
		uc, _, _ := newTestUseCase(nil, nil)
		_, err := uc.Execute(context.Background(), &Request{BookingID: 0})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

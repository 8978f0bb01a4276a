package cancel_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/booking"
	slotRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/timeslot"
)

// UseCase use case для отмены бронирования
type UseCase struct {
	bookingRepo BookingRepository
	slotRepo    TimeSlotRepository
	txManager   TransactionManager
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	slotRepo TimeSlotRepository,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo: bookingRepo,
		slotRepo:    slotRepo,
		txManager:   txManager,
		logger:      logger,
	}
}

// Execute выполняет use case отмены бронирования.
// Освобождение места в слоте и смена статуса связаны одной сериализуемой
// транзакцией: сбой между ними откатывает оба изменения. Повторная отмена
// возвращает ErrAlreadyCancelled, место не освобождается второй раз.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CancelBooking: booking=%d", req.BookingID)

	// 1. Валидация входных данных
	if req.BookingID <= 0 {
		uc.logger.Warn("CancelBooking: invalid booking id=%d", req.BookingID)
		return nil, fmt.Errorf("%w: bookingID must be positive", ErrInvalidInput)
	}

	var result *domain.Booking

	// 2. Выполняем операции с БД в сериализуемой транзакции
	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 2.1. Получаем бронирование с блокировкой строки (FOR UPDATE)
		booking, err := uc.bookingRepo.GetByID(txCtx, req.BookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				uc.logger.Warn("CancelBooking: booking id=%d not found", req.BookingID)
				return fmt.Errorf("%w: id=%d", ErrBookingNotFound, req.BookingID)
			}
			uc.logger.Error("CancelBooking: failed to get booking id=%d: %v", req.BookingID, err)
			return fmt.Errorf("%w: Execute - get booking: %v", ErrInternal, err)
		}

		// 2.2. Проверяем право на отмену: чужое бронирование отменить нельзя,
		// гостевое (без привязки к пользователю) доступно любому вызывающему
		if booking.UserID != nil && *booking.UserID != req.UserID {
			uc.logger.Warn("CancelBooking: user=%d has no access to booking id=%d", req.UserID, req.BookingID)
			return fmt.Errorf("%w: id=%d", ErrAccessDenied, req.BookingID)
		}

		// 2.3. Проверяем статус
		if booking.IsCancelled() {
			uc.logger.Warn("CancelBooking: booking id=%d is already cancelled", req.BookingID)
			return fmt.Errorf("%w: id=%d", ErrAlreadyCancelled, req.BookingID)
		}
		if !booking.CanBeCancelled() {
			uc.logger.Warn("CancelBooking: booking id=%d has status %s", req.BookingID, booking.Status)
			return fmt.Errorf("%w: id=%d, status=%s", ErrNotCancellable, req.BookingID, booking.Status)
		}

		// 2.4. Освобождаем место в слоте, если бронирование его держит
		if booking.HoldsSlot() {
			if err := uc.releaseSlot(txCtx, *booking.TimeSlotID); err != nil {
				return err
			}
		}

		// 2.5. Отмечаем бронирование отмененным
		if err := uc.bookingRepo.Cancel(txCtx, booking.ID, req.Reason); err != nil {
			uc.logger.Error("CancelBooking: failed to cancel booking id=%d: %v", booking.ID, err)
			return fmt.Errorf("%w: Execute - cancel booking: %v", ErrInternal, err)
		}

		now := time.Now()
		booking.Status = domain.StatusCancelled
		booking.CancellationReason = req.Reason
		booking.CancelledAt = &now
		result = booking
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("CancelBooking: successfully cancelled booking id=%d", result.ID)
	return toResponse(result), nil
}

// releaseSlot освобождает место в слоте
// Удаленный перегенерацией слот не мешает отмене, нулевой счетчик занятости -
// нарушение инварианта, транзакция прерывается
func (uc *UseCase) releaseSlot(ctx context.Context, slotID int64) error {
	err := uc.slotRepo.Release(ctx, slotID)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, slotRepo.ErrSlotNotFound):
		uc.logger.Warn("CancelBooking: slot id=%d no longer exists, skipping release", slotID)
		return nil
	case errors.Is(err, slotRepo.ErrNoActiveReservations):
		uc.logger.Error("CancelBooking: slot id=%d has no active reservations, state is corrupted", slotID)
		return fmt.Errorf("%w: Execute - release slot: %v", ErrInternal, err)
	default:
		uc.logger.Error("CancelBooking: failed to release slot id=%d: %v", slotID, err)
		return fmt.Errorf("%w: Execute - release slot: %v", ErrInternal, err)
	}
}

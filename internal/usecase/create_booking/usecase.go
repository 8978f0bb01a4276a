package create_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	slotRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/timeslot"
)

// UseCase use case для создания бронирования
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

// Execute выполняет use case создания бронирования
// Резервирование места и запись бронирования связаны сериализуемой транзакцией:
// при любой ошибке после резервирования откат транзакции возвращает место
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: company=%d, service=%d, slot=%v",
		req.CompanyID, req.ServiceID, req.TimeSlotID)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	var result *domain.Booking

	// 2. Выполняем операции с БД в сериализуемой транзакции
	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		booking := &domain.Booking{
			CompanyID:   req.CompanyID,
			ServiceID:   req.ServiceID,
			UserID:      req.UserID,
			StaffID:     req.StaffID,
			ClientName:  req.ClientName,
			ClientPhone: req.ClientPhone,
			ClientEmail: req.ClientEmail,
			Price:       req.Price,
			Notes:       req.Notes,
			Status:      domain.StatusPending,
		}

		if req.TimeSlotID != nil {
			// 2.1. Бронирование места в слоте: единственный стерегущий
			// побочный эффект - атомарный Reserve
			if err := uc.reserveSlot(txCtx, *req.TimeSlotID, booking); err != nil {
				return err
			}
		} else {
			// 2.2. Ad-hoc бронирование: проверяем пересечения с активными
			// бронированиями услуги (FOR UPDATE внутри транзакции)
			if err := uc.checkWindowFree(txCtx, req, booking); err != nil {
				return err
			}
		}

		booking.DurationMinutes = int(booking.EndTime.Sub(booking.StartTime).Minutes())

		// 2.3. Сохраняем бронирование
		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to create booking: %v", err)
			return fmt.Errorf("%w: Execute - create booking: %v", ErrInternal, err)
		}

		result = created
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateBooking: successfully created booking id=%d", result.ID)
	return toResponse(result), nil
}

// reserveSlot занимает место в слоте и заполняет интервал бронирования из слота
func (uc *UseCase) reserveSlot(ctx context.Context, slotID int64, booking *domain.Booking) error {
	if err := uc.slotRepo.Reserve(ctx, slotID); err != nil {
		switch {
		case errors.Is(err, slotRepo.ErrSlotNotFound):
			uc.logger.Warn("CreateBooking: slot id=%d not found", slotID)
			return fmt.Errorf("%w: id=%d", ErrSlotNotFound, slotID)
		case errors.Is(err, slotRepo.ErrSlotUnavailable):
			uc.logger.Warn("CreateBooking: slot id=%d is not available", slotID)
			return fmt.Errorf("%w: id=%d", ErrSlotUnavailable, slotID)
		default:
			uc.logger.Error("CreateBooking: failed to reserve slot id=%d: %v", slotID, err)
			return fmt.Errorf("%w: Execute - reserve slot: %v", ErrInternal, err)
		}
	}

	slot, err := uc.slotRepo.GetByID(ctx, slotID)
	if err != nil {
		uc.logger.Error("CreateBooking: failed to get slot id=%d after reserve: %v", slotID, err)
		return fmt.Errorf("%w: Execute - get slot: %v", ErrInternal, err)
	}

	booking.TimeSlotID = &slot.ID
	booking.StartTime = slot.StartTime
	booking.EndTime = slot.EndTime
	if booking.Price == nil {
		booking.Price = slot.Price
	}
	return nil
}

// checkWindowFree проверяет, что запрошенный интервал не пересекается
// с активными бронированиями услуги или указанного сотрудника.
// Полуоткрытая семантика: соприкосновение границ пересечением не считается
func (uc *UseCase) checkWindowFree(ctx context.Context, req *Request, booking *domain.Booking) error {
	overlapping, err := uc.bookingRepo.FindOverlapping(ctx, req.ServiceID, req.StaffID, *req.StartTime, *req.EndTime)
	if err != nil {
		uc.logger.Error("CreateBooking: failed to find overlapping bookings: %v", err)
		return fmt.Errorf("%w: Execute - find overlapping: %v", ErrInternal, err)
	}
	if len(overlapping) > 0 {
		uc.logger.Warn("CreateBooking: window %s-%s conflicts with %d existing booking(s)",
			req.StartTime.Format("2006-01-02 15:04"), req.EndTime.Format("15:04"), len(overlapping))
		return fmt.Errorf("%w: %d overlapping booking(s)", ErrTimeConflict, len(overlapping))
	}

	booking.StartTime = *req.StartTime
	booking.EndTime = *req.EndTime
	return nil
}

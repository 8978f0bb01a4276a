package bookings

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-SchedulingService/internal/service/bookings/models"
)

// Service сервис для чтения бронирований
// Создание и отмена идут через отдельные use cases с транзакциями
type Service struct {
	bookingRepo BookingRepository
	logger      Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(bookingRepo BookingRepository, logger Logger) *Service {
	return &Service{
		bookingRepo: bookingRepo,
		logger:      logger,
	}
}

// GetByID получает бронирование по ID
// Пользователь видит только свои бронирования; гостевые бронирования
// (без привязки к пользователю) доступны любому аутентифицированному вызову
func (s *Service) GetByID(ctx context.Context, id int64, userID int64) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d for user=%d", id, userID)

	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("GetByID: booking id=%d not found", id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("GetByID: repository error: %v", err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	if booking.UserID != nil && *booking.UserID != userID {
		s.logger.Warn("GetByID: user=%d has no access to booking id=%d", userID, id)
		return nil, ErrAccessDenied
	}

	return models.FromDomainBooking(booking), nil
}

// List получает бронирования по фильтру
func (s *Service) List(ctx context.Context, req *models.ListBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("List: fetching bookings company=%v, service=%v, user=%v",
		req.CompanyID, req.ServiceID, req.UserID)

	if req.CompanyID == nil && req.ServiceID == nil && req.UserID == nil {
		return nil, fmt.Errorf("%w: one of companyId, serviceId or userId is required", ErrInvalidInput)
	}

	bookings, err := s.bookingRepo.ListWithFilter(ctx, domain.BookingsFilter{
		CompanyID:  req.CompanyID,
		ServiceID:  req.ServiceID,
		UserID:     req.UserID,
		StaffID:    req.StaffID,
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
		OnlyActive: req.OnlyActive,
	})
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainBookings(bookings), nil
}

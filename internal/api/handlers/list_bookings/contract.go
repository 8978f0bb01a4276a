package list_bookings

import (
	"context"

	"github.com/m04kA/SMC-SchedulingService/internal/service/bookings/models"
)

// BookingService сервис для чтения бронирований
type BookingService interface {
	List(ctx context.Context, req *models.ListBookingsRequest) (*models.BookingListResponse, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

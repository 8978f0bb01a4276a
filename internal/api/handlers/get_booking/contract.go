package get_booking

import (
	"context"

	"github.com/m04kA/SMC-SchedulingService/internal/service/bookings/models"
)

// BookingService сервис для чтения бронирований
type BookingService interface {
	GetByID(ctx context.Context, id int64, userID int64) (*models.BookingResponse, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

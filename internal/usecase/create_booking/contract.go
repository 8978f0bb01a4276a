package create_booking

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	// FindOverlapping возвращает активные бронирования услуги (и, опционально,
	// конкретного сотрудника), пересекающиеся с интервалом [start, end)
	FindOverlapping(ctx context.Context, serviceID int64, staffID *int64, start, end time.Time) ([]*domain.Booking, error)
}

// TimeSlotRepository интерфейс репозитория временных слотов
type TimeSlotRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.TimeSlot, error)
	// Reserve атомарно занимает одно место в слоте
	Reserve(ctx context.Context, id int64) error
}

// TransactionManager интерфейс менеджера транзакций
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

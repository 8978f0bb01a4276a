package cancel_booking

import (
	"context"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	// GetByID внутри транзакции блокирует строку (FOR UPDATE)
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	Cancel(ctx context.Context, id int64, reason *string) error
}

// TimeSlotRepository интерфейс репозитория временных слотов
type TimeSlotRepository interface {
	// Release атомарно освобождает одно место в слоте
	Release(ctx context.Context, id int64) error
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

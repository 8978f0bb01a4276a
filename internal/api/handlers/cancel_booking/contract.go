package cancel_booking

import (
	"context"

	cancelBooking "github.com/m04kA/SMC-SchedulingService/internal/usecase/cancel_booking"
)

// CancelBookingUseCase выполняет отмену бронирования
type CancelBookingUseCase interface {
	Execute(ctx context.Context, req *cancelBooking.Request) (*cancelBooking.Response, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

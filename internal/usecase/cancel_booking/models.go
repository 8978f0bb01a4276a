package cancel_booking

import (
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// Request модель запроса на отмену бронирования
// UserID - идентификатор вызывающего пользователя; правило доступа то же,
// что при чтении: свои бронирования и гостевые (без привязки к пользователю)
type Request struct {
	BookingID int64
	UserID    int64
	Reason    *string
}

// Response модель отмененного бронирования
type Response struct {
	ID         int64
	CompanyID  int64
	ServiceID  int64
	TimeSlotID *int64

	StartTime time.Time
	EndTime   time.Time

	Status             string
	CancellationReason *string
	CancelledAt        *time.Time
}

func toResponse(b *domain.Booking) *Response {
	return &Response{
		ID:                 b.ID,
		CompanyID:          b.CompanyID,
		ServiceID:          b.ServiceID,
		TimeSlotID:         b.TimeSlotID,
		StartTime:          b.StartTime,
		EndTime:            b.EndTime,
		Status:             string(b.Status),
		CancellationReason: b.CancellationReason,
		CancelledAt:        b.CancelledAt,
	}
}

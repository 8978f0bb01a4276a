package cancel_booking

import (
	"time"

	cancelBooking "github.com/m04kA/SMC-SchedulingService/internal/usecase/cancel_booking"
)

// CancelBookingRequest HTTP запрос на отмену бронирования
type CancelBookingRequest struct {
	Reason *string `json:"reason,omitempty"`
}

// CancelBookingResponse HTTP ответ с данными отмененного бронирования
type CancelBookingResponse struct {
	ID         int64  `json:"id"`
	CompanyID  int64  `json:"companyId"`
	ServiceID  int64  `json:"serviceId"`
	TimeSlotID *int64 `json:"timeSlotId,omitempty"`

	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`

	Status             string     `json:"status"`
	CancellationReason *string    `json:"cancellationReason,omitempty"`
	CancelledAt        *time.Time `json:"cancelledAt,omitempty"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP модель
func FromUseCaseResponse(resp *cancelBooking.Response) *CancelBookingResponse {
	return &CancelBookingResponse{
		ID:                 resp.ID,
		CompanyID:          resp.CompanyID,
		ServiceID:          resp.ServiceID,
		TimeSlotID:         resp.TimeSlotID,
		StartTime:          resp.StartTime,
		EndTime:            resp.EndTime,
		Status:             resp.Status,
		CancellationReason: resp.CancellationReason,
		CancelledAt:        resp.CancelledAt,
	}
}

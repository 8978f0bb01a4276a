package create_booking

import (
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// Request модель запроса на создание бронирования
// Либо TimeSlotID (бронирование места в сгенерированном слоте),
// либо StartTime+EndTime (ad-hoc бронирование без слота)
type Request struct {
	CompanyID int64
	ServiceID int64
	UserID    *int64
	StaffID   *int64

	TimeSlotID *int64
	StartTime  *time.Time
	EndTime    *time.Time

	ClientName  *string
	ClientPhone *string
	ClientEmail *string

	Price *float64
	Notes *string
}

// Response модель созданного бронирования
type Response struct {
	ID         int64
	CompanyID  int64
	ServiceID  int64
	UserID     *int64
	StaffID    *int64
	TimeSlotID *int64

	StartTime       time.Time
	EndTime         time.Time
	DurationMinutes int

	Status string
	Price  *float64
	Notes  *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

func toResponse(b *domain.Booking) *Response {
	return &Response{
		ID:              b.ID,
		CompanyID:       b.CompanyID,
		ServiceID:       b.ServiceID,
		UserID:          b.UserID,
		StaffID:         b.StaffID,
		TimeSlotID:      b.TimeSlotID,
		StartTime:       b.StartTime,
		EndTime:         b.EndTime,
		DurationMinutes: b.DurationMinutes,
		Status:          string(b.Status),
		Price:           b.Price,
		Notes:           b.Notes,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
}

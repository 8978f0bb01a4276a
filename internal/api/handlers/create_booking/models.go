package create_booking

import (
	"fmt"
	"time"

	createBooking "github.com/m04kA/SMC-SchedulingService/internal/usecase/create_booking"
)

// CreateBookingRequest HTTP запрос на создание бронирования.
// Указывается либо timeSlotId, либо пара startTime/endTime (RFC3339)
type CreateBookingRequest struct {
	CompanyID int64  `json:"companyId"`
	ServiceID int64  `json:"serviceId"`
	StaffID   *int64 `json:"staffId,omitempty"`

	TimeSlotID *int64  `json:"timeSlotId,omitempty"`
	StartTime  *string `json:"startTime,omitempty"`
	EndTime    *string `json:"endTime,omitempty"`

	ClientName  *string `json:"clientName,omitempty"`
	ClientPhone *string `json:"clientPhone,omitempty"`
	ClientEmail *string `json:"clientEmail,omitempty"`

	Price *float64 `json:"price,omitempty"`
	Notes *string  `json:"notes,omitempty"`
}

// BookingResponse HTTP ответ с данными созданного бронирования
type BookingResponse struct {
	ID         int64  `json:"id"`
	CompanyID  int64  `json:"companyId"`
	ServiceID  int64  `json:"serviceId"`
	UserID     *int64 `json:"userId,omitempty"`
	StaffID    *int64 `json:"staffId,omitempty"`
	TimeSlotID *int64 `json:"timeSlotId,omitempty"`

	StartTime       time.Time `json:"startTime"`
	EndTime         time.Time `json:"endTime"`
	DurationMinutes int       `json:"durationMinutes"`

	Status string   `json:"status"`
	Price  *float64 `json:"price,omitempty"`
	Notes  *string  `json:"notes,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case.
// userID берется из контекста авторизации; для гостевых бронирований
// (с контактами клиента) он не передается
func (r *CreateBookingRequest) ToUseCaseRequest(userID *int64) (*createBooking.Request, error) {
	req := &createBooking.Request{
		CompanyID:   r.CompanyID,
		ServiceID:   r.ServiceID,
		UserID:      userID,
		StaffID:     r.StaffID,
		TimeSlotID:  r.TimeSlotID,
		ClientName:  r.ClientName,
		ClientPhone: r.ClientPhone,
		ClientEmail: r.ClientEmail,
		Price:       r.Price,
		Notes:       r.Notes,
	}

	if r.StartTime != nil {
		start, err := time.Parse(time.RFC3339, *r.StartTime)
		if err != nil {
			return nil, fmt.Errorf("parse startTime: %w", err)
		}
		req.StartTime = &start
	}
	if r.EndTime != nil {
		end, err := time.Parse(time.RFC3339, *r.EndTime)
		if err != nil {
			return nil, fmt.Errorf("parse endTime: %w", err)
		}
		req.EndTime = &end
	}

	return req, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP модель
func FromUseCaseResponse(resp *createBooking.Response) *BookingResponse {
	return &BookingResponse{
		ID:              resp.ID,
		CompanyID:       resp.CompanyID,
		ServiceID:       resp.ServiceID,
		UserID:          resp.UserID,
		StaffID:         resp.StaffID,
		TimeSlotID:      resp.TimeSlotID,
		StartTime:       resp.StartTime,
		EndTime:         resp.EndTime,
		DurationMinutes: resp.DurationMinutes,
		Status:          resp.Status,
		Price:           resp.Price,
		Notes:           resp.Notes,
		CreatedAt:       resp.CreatedAt,
		UpdatedAt:       resp.UpdatedAt,
	}
}

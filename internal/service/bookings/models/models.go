package models

import (
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// ListBookingsRequest фильтр выборки бронирований
type ListBookingsRequest struct {
	CompanyID  *int64     `json:"companyId,omitempty"`
	ServiceID  *int64     `json:"serviceId,omitempty"`
	UserID     *int64     `json:"userId,omitempty"`
	StaffID    *int64     `json:"staffId,omitempty"`
	StartTime  *time.Time `json:"startTime,omitempty"`
	EndTime    *time.Time `json:"endTime,omitempty"`
	OnlyActive bool       `json:"onlyActive,omitempty"`
}

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID         int64  `json:"id"`
	CompanyID  int64  `json:"companyId"`
	ServiceID  int64  `json:"serviceId"`
	UserID     *int64 `json:"userId,omitempty"`
	StaffID    *int64 `json:"staffId,omitempty"`
	TimeSlotID *int64 `json:"timeSlotId,omitempty"`

	ClientName  *string `json:"clientName,omitempty"`
	ClientPhone *string `json:"clientPhone,omitempty"`
	ClientEmail *string `json:"clientEmail,omitempty"`

	StartTime       time.Time `json:"startTime"`
	EndTime         time.Time `json:"endTime"`
	DurationMinutes int       `json:"durationMinutes"`

	Status string   `json:"status"`
	Price  *float64 `json:"price,omitempty"`
	Notes  *string  `json:"notes,omitempty"`

	CancellationReason *string    `json:"cancellationReason,omitempty"`
	CancelledAt        *time.Time `json:"cancelledAt,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	return &BookingResponse{
		ID:                 b.ID,
		CompanyID:          b.CompanyID,
		ServiceID:          b.ServiceID,
		UserID:             b.UserID,
		StaffID:            b.StaffID,
		TimeSlotID:         b.TimeSlotID,
		ClientName:         b.ClientName,
		ClientPhone:        b.ClientPhone,
		ClientEmail:        b.ClientEmail,
		StartTime:          b.StartTime,
		EndTime:            b.EndTime,
		DurationMinutes:    b.DurationMinutes,
		Status:             string(b.Status),
		Price:              b.Price,
		Notes:              b.Notes,
		CancellationReason: b.CancellationReason,
		CancelledAt:        b.CancelledAt,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}
}

// FromDomainBookings конвертирует список domain моделей в DTO
func FromDomainBookings(bookings []*domain.Booking) *BookingListResponse {
	result := &BookingListResponse{Bookings: make([]BookingResponse, 0, len(bookings))}
	for _, b := range bookings {
		result.Bookings = append(result.Bookings, *FromDomainBooking(b))
	}
	return result
}

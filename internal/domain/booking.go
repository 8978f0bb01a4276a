package domain

import (
	"fmt"
	"time"
)

// BookingStatus статус бронирования
type BookingStatus string

const (
	StatusPending     BookingStatus = "pending"     // Ожидает подтверждения
	StatusConfirmed   BookingStatus = "confirmed"   // Подтверждено
	StatusCompleted   BookingStatus = "completed"   // Завершено (услуга оказана)
	StatusCancelled   BookingStatus = "cancelled"   // Отменено
	StatusRescheduled BookingStatus = "rescheduled" // Перенесено на другое время
)

// ParseBookingStatus валидирующий конструктор статуса бронирования
func ParseBookingStatus(s string) (BookingStatus, error) {
	switch BookingStatus(s) {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled, StatusRescheduled:
		return BookingStatus(s), nil
	default:
		return "", fmt.Errorf("%w: unknown booking status %q", ErrInvalidBookingStatus, s)
	}
}

// ActiveStatuses статусы, при которых бронирование занимает время
// Используются при проверке пересечений
var ActiveStatuses = []BookingStatus{StatusPending, StatusConfirmed}

// Booking бронирование клиента
// Может ссылаться на TimeSlot (слабая ссылка - слот живет своей жизнью)
// или держать собственный интервал без слота (ad-hoc бронирование)
type Booking struct {
	ID         int64
	CompanyID  int64
	ServiceID  int64
	UserID     *int64 // nil для гостевых бронирований
	StaffID    *int64 // Сотрудник, оказывающий услугу
	TimeSlotID *int64

	// Контакты клиента для гостевых бронирований
	ClientName  *string
	ClientPhone *string
	ClientEmail *string

	StartTime       time.Time
	EndTime         time.Time
	DurationMinutes int

	Price  *float64
	Status BookingStatus
	Notes  *string

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive возвращает true, если бронирование занимает время
func (b *Booking) IsActive() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

// IsCancelled возвращает true, если бронирование отменено
func (b *Booking) IsCancelled() bool {
	return b.Status == StatusCancelled
}

// CanBeCancelled возвращает true, если бронирование можно отменить
func (b *Booking) CanBeCancelled() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

// HoldsSlot возвращает true, если бронирование держит место в слоте
func (b *Booking) HoldsSlot() bool {
	return b.TimeSlotID != nil
}

// Overlaps проверяет пересечение с интервалом [start, end)
// Полуоткрытые интервалы: соприкосновение границ пересечением не считается
func (b *Booking) Overlaps(start, end time.Time) bool {
	return b.StartTime.Before(end) && b.EndTime.After(start)
}

// BookingsFilter фильтр для выборки бронирований
type BookingsFilter struct {
	CompanyID  *int64
	ServiceID  *int64
	UserID     *int64
	StaffID    *int64
	TimeSlotID *int64
	StartTime  *time.Time // Нижняя граница начала бронирования
	EndTime    *time.Time // Верхняя граница начала бронирования
	Status     *BookingStatus
	OnlyActive bool // Только pending/confirmed
}

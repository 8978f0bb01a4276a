package domain

import "errors"

// Значения по умолчанию для расписаний
const (
	DefaultSlotDurationMinutes   = 60
	DefaultSlotIntervalMinutes   = 0
	DefaultMaxConcurrentBookings = 1
)

// Бизнес-ограничения
const (
	MinSlotDurationMinutes     = 5
	MaxSlotDurationMinutes     = 480 // 8 часов
	MinConcurrentBookings      = 1
	MaxConcurrentBookingsLimit = 100
	MaxNotesLength             = 500
	MaxGenerationRangeDays     = 90 // Рекомендуемый предел диапазона генерации слотов
)

// Форматы даты и времени
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// Ошибки валидации доменных типов
var (
	// ErrInvalidSchedule возвращается при нарушении инвариантов расписания
	ErrInvalidSchedule = errors.New("domain: invalid schedule")

	// ErrInvalidScheduleType возвращается при неизвестном типе расписания
	ErrInvalidScheduleType = errors.New("domain: invalid schedule type")

	// ErrInvalidSlotStatus возвращается при неизвестном статусе слота
	ErrInvalidSlotStatus = errors.New("domain: invalid slot status")

	// ErrInvalidBookingStatus возвращается при неизвестном статусе бронирования
	ErrInvalidBookingStatus = errors.New("domain: invalid booking status")
)

package domain

import (
	"fmt"
	"time"
)

// SlotStatus статус временного слота
type SlotStatus string

const (
	SlotStatusAvailable       SlotStatus = "available"        // Доступен для бронирования
	SlotStatusPartiallyBooked SlotStatus = "partially_booked" // Есть брони, но места остались
	SlotStatusBooked          SlotStatus = "booked"           // Все места заняты
	SlotStatusBlocked         SlotStatus = "blocked"          // Заблокирован вручную
)

// ParseSlotStatus валидирующий конструктор статуса слота
func ParseSlotStatus(s string) (SlotStatus, error) {
	switch SlotStatus(s) {
	case SlotStatusAvailable, SlotStatusPartiallyBooked, SlotStatusBooked, SlotStatusBlocked:
		return SlotStatus(s), nil
	default:
		return "", fmt.Errorf("%w: unknown slot status %q", ErrInvalidSlotStatus, s)
	}
}

// ComputeSlotStatus чистая функция статуса слота от (занято, вместимость, блокировка).
// Единственное место, где определена эта зависимость; SQL CASE в репозитории
// слотов обязан ей соответствовать.
func ComputeSlotStatus(bookedClients, maxClients int, isBlocked bool) SlotStatus {
	switch {
	case isBlocked:
		return SlotStatusBlocked
	case bookedClients >= maxClients:
		return SlotStatusBooked
	case bookedClients > 0:
		return SlotStatusPartiallyBooked
	default:
		return SlotStatusAvailable
	}
}

// TimeSlot конкретный бронируемый интервал, сгенерированный из расписания
// Счетчик BookedClients меняется только атомарными Reserve/Release в репозитории
type TimeSlot struct {
	ID         int64
	ScheduleID int64

	StartTime time.Time
	EndTime   time.Time

	MaxClients    int
	BookedClients int
	Status        SlotStatus
	IsBlocked     bool

	Price       *float64 // Цена в слоте, может отличаться от цены услуги
	Notes       *string
	BlockReason *string
	EventName   *string // Название повторяющегося события, из которого создан слот

	CreatedAt time.Time
	UpdatedAt time.Time
}

// AvailableSpots возвращает количество свободных мест в слоте
func (s *TimeSlot) AvailableSpots() int {
	spots := s.MaxClients - s.BookedClients
	if spots < 0 {
		return 0
	}
	return spots
}

// IsBookable проверяет, можно ли зарезервировать место в слоте
func (s *TimeSlot) IsBookable() bool {
	return !s.IsBlocked && s.BookedClients < s.MaxClients
}

// DurationMinutes длительность слота в минутах
func (s *TimeSlot) DurationMinutes() int {
	return int(s.EndTime.Sub(s.StartTime) / time.Minute)
}

package models

import (
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// Request модели

// ListSlotsRequest запрос на выборку слотов
// Обязателен хотя бы один из ScheduleID / ServiceID / CompanyID
type ListSlotsRequest struct {
	ScheduleID    *int64     `json:"scheduleId,omitempty"`
	ServiceID     *int64     `json:"serviceId,omitempty"`
	CompanyID     *int64     `json:"companyId,omitempty"`
	StartTime     *time.Time `json:"startTime,omitempty"`
	EndTime       *time.Time `json:"endTime,omitempty"`
	OnlyAvailable bool       `json:"onlyAvailable,omitempty"`
}

// BlockSlotRequest запрос на блокировку слота
type BlockSlotRequest struct {
	Reason *string `json:"reason,omitempty"`
}

// UpdateSlotRequest запрос на обновление параметров слота
// Все поля опциональны - обновляются только переданные значения
type UpdateSlotRequest struct {
	MaxClients *int     `json:"maxClients,omitempty"`
	Price      *float64 `json:"price,omitempty"`
	Notes      *string  `json:"notes,omitempty"`
}

// Response модели

// SlotResponse ответ с данными временного слота
type SlotResponse struct {
	ID             int64     `json:"id"`
	ScheduleID     int64     `json:"scheduleId"`
	StartTime      time.Time `json:"startTime"`
	EndTime        time.Time `json:"endTime"`
	MaxClients     int       `json:"maxClients"`
	BookedClients  int       `json:"bookedClients"`
	AvailableSpots int       `json:"availableSpots"`
	Status         string    `json:"status"`
	IsBlocked      bool      `json:"isBlocked"`
	Price          *float64  `json:"price,omitempty"`
	Notes          *string   `json:"notes,omitempty"`
	BlockReason    *string   `json:"blockReason,omitempty"`
	EventName      *string   `json:"eventName,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// SlotListResponse ответ со списком слотов
type SlotListResponse struct {
	Slots []SlotResponse `json:"slots"`
}

// Методы конвертации

// FromDomainSlot конвертирует domain модель в DTO
func FromDomainSlot(s *domain.TimeSlot) *SlotResponse {
	if s == nil {
		return nil
	}

	return &SlotResponse{
		ID:             s.ID,
		ScheduleID:     s.ScheduleID,
		StartTime:      s.StartTime,
		EndTime:        s.EndTime,
		MaxClients:     s.MaxClients,
		BookedClients:  s.BookedClients,
		AvailableSpots: s.AvailableSpots(),
		Status:         string(s.Status),
		IsBlocked:      s.IsBlocked,
		Price:          s.Price,
		Notes:          s.Notes,
		BlockReason:    s.BlockReason,
		EventName:      s.EventName,
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.UpdatedAt,
	}
}

// FromDomainSlots конвертирует список domain моделей в DTO
func FromDomainSlots(slots []*domain.TimeSlot) *SlotListResponse {
	result := &SlotListResponse{Slots: make([]SlotResponse, 0, len(slots))}
	for _, s := range slots {
		result.Slots = append(result.Slots, *FromDomainSlot(s))
	}
	return result
}

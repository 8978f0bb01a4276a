package generate_slots

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	generateSlots "github.com/m04kA/SMC-SchedulingService/internal/usecase/generate_slots"
)

// GenerateSlotsRequest HTTP запрос на генерацию слотов
type GenerateSlotsRequest struct {
	StartDate        string `json:"startDate"` // YYYY-MM-DD
	EndDate          string `json:"endDate"`   // YYYY-MM-DD
	OverrideExisting bool   `json:"overrideExisting,omitempty"`
}

// GenerateSlotsResponse HTTP ответ с итогами генерации
type GenerateSlotsResponse struct {
	Created int `json:"created"`
	Skipped int `json:"skipped"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *GenerateSlotsRequest) ToUseCaseRequest(scheduleID int64) (*generateSlots.Request, error) {
	startDate, err := time.ParseInLocation(domain.DateFormat, r.StartDate, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("parse startDate: %w", err)
	}
	endDate, err := time.ParseInLocation(domain.DateFormat, r.EndDate, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("parse endDate: %w", err)
	}

	return &generateSlots.Request{
		ScheduleID:       scheduleID,
		StartDate:        startDate,
		EndDate:          endDate,
		OverrideExisting: r.OverrideExisting,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP модель
func FromUseCaseResponse(resp *generateSlots.Response) *GenerateSlotsResponse {
	return &GenerateSlotsResponse{
		Created: resp.Created,
		Skipped: resp.Skipped,
	}
}

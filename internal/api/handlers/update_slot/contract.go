package update_slot

import (
	"context"

	"github.com/m04kA/SMC-SchedulingService/internal/service/slots/models"
)

type SlotService interface {
	UpdateDetails(ctx context.Context, id int64, req *models.UpdateSlotRequest) (*models.SlotResponse, error)
	SetBlocked(ctx context.Context, id int64, blocked bool, reason *string) (*models.SlotResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

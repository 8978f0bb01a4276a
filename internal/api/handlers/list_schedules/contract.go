package list_schedules

import (
	"context"

	"github.com/m04kA/SMC-SchedulingService/internal/service/schedules/models"
)

type ScheduleService interface {
	ListByCompany(ctx context.Context, companyID int64, serviceID *int64) (*models.ScheduleListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

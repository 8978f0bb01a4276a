package schedules

import (
	"context"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// ScheduleRepository интерфейс репозитория расписаний
type ScheduleRepository interface {
	Create(ctx context.Context, schedule *domain.Schedule) (*domain.Schedule, error)
	GetByID(ctx context.Context, id int64) (*domain.Schedule, error)
	ListByCompany(ctx context.Context, companyID int64, serviceID *int64) ([]*domain.Schedule, error)
	Update(ctx context.Context, schedule *domain.Schedule) (*domain.Schedule, error)
	Delete(ctx context.Context, id int64) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

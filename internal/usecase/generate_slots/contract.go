package generate_slots

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// ScheduleRepository интерфейс репозитория расписаний
type ScheduleRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Schedule, error)
}

// TimeSlotRepository интерфейс репозитория временных слотов
type TimeSlotRepository interface {
	// Create вставляет слот; false означает, что идентичный слот уже существовал
	Create(ctx context.Context, slot *domain.TimeSlot) (bool, error)
	DeleteByScheduleRange(ctx context.Context, scheduleID int64, from, to time.Time) (int64, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

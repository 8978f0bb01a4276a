package slots

import (
	"context"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	slotRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/timeslot"
)

// TimeSlotRepository интерфейс репозитория временных слотов
type TimeSlotRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.TimeSlot, error)
	List(ctx context.Context, filter slotRepo.SlotsFilter) ([]*domain.TimeSlot, error)
	Reserve(ctx context.Context, id int64) error
	Release(ctx context.Context, id int64) error
	SetBlocked(ctx context.Context, id int64, blocked bool, reason *string) error
	UpdateDetails(ctx context.Context, id int64, maxClients *int, price *float64, notes *string) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

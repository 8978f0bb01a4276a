package generate_slots

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	scheduleRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/schedule"
)

// UseCase use case генерации временных слотов по расписанию
type UseCase struct {
	scheduleRepo ScheduleRepository
	slotRepo     TimeSlotRepository
	maxRangeDays int
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	scheduleRepo ScheduleRepository,
	slotRepo TimeSlotRepository,
	maxRangeDays int,
	logger Logger,
) *UseCase {
	if maxRangeDays <= 0 {
		maxRangeDays = domain.MaxGenerationRangeDays
	}
	return &UseCase{
		scheduleRepo: scheduleRepo,
		slotRepo:     slotRepo,
		maxRangeDays: maxRangeDays,
		logger:       logger,
	}
}

// Execute выполняет генерацию слотов для диапазона дат (границы включительно).
// Генерация идемпотентна: повторный запуск по тому же диапазону не создает
// дубликатов, существующие слоты учитываются как пропущенные.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GenerateSlots: schedule=%d, range=%s..%s, override=%t",
		req.ScheduleID, req.StartDate.Format(domain.DateFormat), req.EndDate.Format(domain.DateFormat), req.OverrideExisting)

	// 1. Валидация входных данных
	if err := validateRequest(req, uc.maxRangeDays); err != nil {
		uc.logger.Warn("GenerateSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем расписание
	schedule, err := uc.scheduleRepo.GetByID(ctx, req.ScheduleID)
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrScheduleNotFound) {
			uc.logger.Warn("GenerateSlots: schedule %d not found", req.ScheduleID)
			return nil, fmt.Errorf("%w: id=%d", ErrScheduleNotFound, req.ScheduleID)
		}
		uc.logger.Error("GenerateSlots: failed to get schedule %d: %v", req.ScheduleID, err)
		return nil, fmt.Errorf("%w: Execute - get schedule: %v", ErrInternal, err)
	}

	// 3. Неактивное расписание не генерирует слоты
	if !schedule.IsActive {
		uc.logger.Warn("GenerateSlots: schedule %d is inactive", req.ScheduleID)
		return nil, fmt.Errorf("%w: id=%d", ErrScheduleInactive, req.ScheduleID)
	}

	// 4. При перегенерации сначала удаляем слоты диапазона
	if req.OverrideExisting {
		deleted, err := uc.slotRepo.DeleteByScheduleRange(ctx, schedule.ID,
			truncateToDay(req.StartDate), endOfDay(req.EndDate))
		if err != nil {
			uc.logger.Error("GenerateSlots: failed to delete existing slots: %v", err)
			return nil, fmt.Errorf("%w: Execute - delete existing slots: %v", ErrInternal, err)
		}
		uc.logger.Info("GenerateSlots: override removed %d existing slots", deleted)
	}

	// 5. Обходим дни диапазона и создаем слоты
	resp := &Response{}
	for _, day := range daysIn(req.StartDate, req.EndDate) {
		dayCandidates, blocked := buildDaySlots(schedule, day)
		resp.Skipped += blocked

		candidates := append(dayCandidates, buildEventSlots(schedule, day)...)
		for _, c := range candidates {
			created, err := uc.createSlot(ctx, schedule, c)
			if err != nil {
				return nil, err
			}
			if created {
				resp.Created++
			} else {
				resp.Skipped++
			}
		}
	}

	uc.logger.Info("GenerateSlots: schedule=%d done, created=%d, skipped=%d",
		schedule.ID, resp.Created, resp.Skipped)
	return resp, nil
}

// createSlot вставляет один слот-кандидат; false означает, что слот уже существовал
func (uc *UseCase) createSlot(ctx context.Context, schedule *domain.Schedule, c slotCandidate) (bool, error) {
	slot := &domain.TimeSlot{
		ScheduleID:    schedule.ID,
		StartTime:     c.Start,
		EndTime:       c.End,
		MaxClients:    schedule.MaxConcurrentBookings,
		BookedClients: 0,
		Status:        domain.SlotStatusAvailable,
		EventName:     c.EventName,
	}

	created, err := uc.slotRepo.Create(ctx, slot)
	if err != nil {
		uc.logger.Error("GenerateSlots: failed to create slot %s-%s: %v",
			c.Start.Format("2006-01-02 15:04"), c.End.Format("15:04"), err)
		return false, fmt.Errorf("%w: Execute - create slot: %v", ErrInternal, err)
	}
	return created, nil
}

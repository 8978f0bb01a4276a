package schedules

import (
	"context"
	"errors"
	"fmt"

	scheduleRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/schedule"
	"github.com/m04kA/SMC-SchedulingService/internal/service/schedules/models"
)

// Service сервис для работы с расписаниями
type Service struct {
	scheduleRepo ScheduleRepository
	logger       Logger
}

// NewService создает новый экземпляр сервиса расписаний
func NewService(scheduleRepo ScheduleRepository, logger Logger) *Service {
	return &Service{
		scheduleRepo: scheduleRepo,
		logger:       logger,
	}
}

// Create создает новое расписание
func (s *Service) Create(ctx context.Context, req *models.CreateScheduleRequest) (*models.ScheduleResponse, error) {
	s.logger.Info("Create: creating schedule %q for company=%d", req.Name, req.CompanyID)

	// 1. Конвертируем запрос в domain модель и валидируем инварианты
	schedule := req.ToDomainSchedule()
	if err := schedule.Validate(); err != nil {
		s.logger.Warn("Create: validation failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	// 2. Сохраняем расписание
	created, err := s.scheduleRepo.Create(ctx, schedule)
	if err != nil {
		s.logger.Error("Create: repository error: %v", err)
		return nil, fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Create: successfully created schedule id=%d", created.ID)
	return models.FromDomainSchedule(created), nil
}

// GetByID получает расписание по ID
func (s *Service) GetByID(ctx context.Context, id int64) (*models.ScheduleResponse, error) {
	s.logger.Info("GetByID: fetching schedule id=%d", id)

	schedule, err := s.scheduleRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrScheduleNotFound) {
			s.logger.Warn("GetByID: schedule id=%d not found", id)
			return nil, ErrScheduleNotFound
		}
		s.logger.Error("GetByID: repository error: %v", err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainSchedule(schedule), nil
}

// ListByCompany получает расписания компании, опционально отфильтрованные по услуге
func (s *Service) ListByCompany(ctx context.Context, companyID int64, serviceID *int64) (*models.ScheduleListResponse, error) {
	s.logger.Info("ListByCompany: fetching schedules for company=%d, service=%v", companyID, serviceID)

	if companyID <= 0 {
		return nil, fmt.Errorf("%w: companyID must be positive", ErrInvalidInput)
	}

	schedules, err := s.scheduleRepo.ListByCompany(ctx, companyID, serviceID)
	if err != nil {
		s.logger.Error("ListByCompany: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListByCompany - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainSchedules(schedules), nil
}

// Update обновляет расписание
// Изменение шаблона не трогает уже сгенерированные слоты:
// новые правила действуют только на последующие генерации
func (s *Service) Update(ctx context.Context, id int64, req *models.UpdateScheduleRequest) (*models.ScheduleResponse, error) {
	s.logger.Info("Update: updating schedule id=%d", id)

	// 1. Получаем текущее расписание
	schedule, err := s.scheduleRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrScheduleNotFound) {
			s.logger.Warn("Update: schedule id=%d not found", id)
			return nil, ErrScheduleNotFound
		}
		s.logger.Error("Update: failed to get schedule id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: Update - get schedule: %v", ErrInternal, err)
	}

	// 2. Накладываем изменения и валидируем результат
	req.ApplyTo(schedule)
	if err := schedule.Validate(); err != nil {
		s.logger.Warn("Update: validation failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	// 3. Сохраняем
	updated, err := s.scheduleRepo.Update(ctx, schedule)
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrScheduleNotFound) {
			return nil, ErrScheduleNotFound
		}
		s.logger.Error("Update: repository error: %v", err)
		return nil, fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Update: successfully updated schedule id=%d", updated.ID)
	return models.FromDomainSchedule(updated), nil
}

// Delete удаляет расписание вместе со всеми его слотами (каскад на уровне БД)
func (s *Service) Delete(ctx context.Context, id int64) error {
	s.logger.Info("Delete: deleting schedule id=%d", id)

	if err := s.scheduleRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, scheduleRepo.ErrScheduleNotFound) {
			s.logger.Warn("Delete: schedule id=%d not found", id)
			return ErrScheduleNotFound
		}
		s.logger.Error("Delete: repository error: %v", err)
		return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Delete: successfully deleted schedule id=%d", id)
	return nil
}

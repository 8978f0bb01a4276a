package slots

import (
	"context"
	"errors"
	"fmt"

	slotRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/timeslot"
	"github.com/m04kA/SMC-SchedulingService/internal/service/slots/models"
)

// Service сервис для работы с временными слотами
// Reserve и Release делегируются атомарным условным UPDATE репозитория:
// два конкурентных Reserve на последнее место дают ровно один успех
type Service struct {
	slotRepo TimeSlotRepository
	logger   Logger
}

// NewService создает новый экземпляр сервиса слотов
func NewService(slotRepo TimeSlotRepository, logger Logger) *Service {
	return &Service{
		slotRepo: slotRepo,
		logger:   logger,
	}
}

// GetByID получает слот по ID
func (s *Service) GetByID(ctx context.Context, id int64) (*models.SlotResponse, error) {
	s.logger.Info("GetByID: fetching slot id=%d", id)

	slot, err := s.slotRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, slotRepo.ErrSlotNotFound) {
			s.logger.Warn("GetByID: slot id=%d not found", id)
			return nil, ErrSlotNotFound
		}
		s.logger.Error("GetByID: repository error: %v", err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainSlot(slot), nil
}

// List получает слоты по фильтру
// Чтение без побочных эффектов
func (s *Service) List(ctx context.Context, req *models.ListSlotsRequest) (*models.SlotListResponse, error) {
	s.logger.Info("List: fetching slots schedule=%v, service=%v, company=%v",
		req.ScheduleID, req.ServiceID, req.CompanyID)

	if req.ScheduleID == nil && req.ServiceID == nil && req.CompanyID == nil {
		return nil, fmt.Errorf("%w: one of scheduleId, serviceId or companyId is required", ErrInvalidInput)
	}

	slots, err := s.slotRepo.List(ctx, slotRepo.SlotsFilter{
		ScheduleID:    req.ScheduleID,
		ServiceID:     req.ServiceID,
		CompanyID:     req.CompanyID,
		StartTime:     req.StartTime,
		EndTime:       req.EndTime,
		OnlyAvailable: req.OnlyAvailable,
	})
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainSlots(slots), nil
}

// Reserve атомарно занимает одно место в слоте
func (s *Service) Reserve(ctx context.Context, id int64) (*models.SlotResponse, error) {
	s.logger.Info("Reserve: reserving spot in slot id=%d", id)

	if err := s.slotRepo.Reserve(ctx, id); err != nil {
		switch {
		case errors.Is(err, slotRepo.ErrSlotNotFound):
			s.logger.Warn("Reserve: slot id=%d not found", id)
			return nil, ErrSlotNotFound
		case errors.Is(err, slotRepo.ErrSlotUnavailable):
			s.logger.Warn("Reserve: slot id=%d is not available", id)
			return nil, ErrSlotUnavailable
		default:
			s.logger.Error("Reserve: repository error: %v", err)
			return nil, fmt.Errorf("%w: Reserve - repository error: %v", ErrInternal, err)
		}
	}

	return s.GetByID(ctx, id)
}

// Release атомарно освобождает одно место в слоте
// Нулевой счетчик занятости - нарушение инварианта на стороне вызывающего
func (s *Service) Release(ctx context.Context, id int64) (*models.SlotResponse, error) {
	s.logger.Info("Release: releasing spot in slot id=%d", id)

	if err := s.slotRepo.Release(ctx, id); err != nil {
		switch {
		case errors.Is(err, slotRepo.ErrSlotNotFound):
			s.logger.Warn("Release: slot id=%d not found", id)
			return nil, ErrSlotNotFound
		case errors.Is(err, slotRepo.ErrNoActiveReservations):
			s.logger.Error("Release: slot id=%d has no active reservations", id)
			return nil, ErrInvalidRelease
		default:
			s.logger.Error("Release: repository error: %v", err)
			return nil, fmt.Errorf("%w: Release - repository error: %v", ErrInternal, err)
		}
	}

	return s.GetByID(ctx, id)
}

// SetBlocked блокирует или разблокирует слот
// Блокировка не трогает счетчик занятости: существующие брони остаются
func (s *Service) SetBlocked(ctx context.Context, id int64, blocked bool, reason *string) (*models.SlotResponse, error) {
	s.logger.Info("SetBlocked: slot id=%d, blocked=%t", id, blocked)

	if err := s.slotRepo.SetBlocked(ctx, id, blocked, reason); err != nil {
		if errors.Is(err, slotRepo.ErrSlotNotFound) {
			s.logger.Warn("SetBlocked: slot id=%d not found", id)
			return nil, ErrSlotNotFound
		}
		s.logger.Error("SetBlocked: repository error: %v", err)
		return nil, fmt.Errorf("%w: SetBlocked - repository error: %v", ErrInternal, err)
	}

	return s.GetByID(ctx, id)
}

// UpdateDetails обновляет параметры слота
// Вместимость нельзя опустить ниже текущей занятости
func (s *Service) UpdateDetails(ctx context.Context, id int64, req *models.UpdateSlotRequest) (*models.SlotResponse, error) {
	s.logger.Info("UpdateDetails: slot id=%d", id)

	if req.MaxClients == nil && req.Price == nil && req.Notes == nil {
		return nil, fmt.Errorf("%w: nothing to update", ErrInvalidInput)
	}
	if req.MaxClients != nil && *req.MaxClients <= 0 {
		return nil, fmt.Errorf("%w: maxClients must be positive", ErrInvalidInput)
	}

	if err := s.slotRepo.UpdateDetails(ctx, id, req.MaxClients, req.Price, req.Notes); err != nil {
		switch {
		case errors.Is(err, slotRepo.ErrSlotNotFound):
			s.logger.Warn("UpdateDetails: slot id=%d not found", id)
			return nil, ErrSlotNotFound
		case errors.Is(err, slotRepo.ErrCapacityBelowOccupancy):
			s.logger.Warn("UpdateDetails: slot id=%d capacity below current occupancy", id)
			return nil, fmt.Errorf("%w: maxClients below current occupancy", ErrInvalidInput)
		default:
			s.logger.Error("UpdateDetails: repository error: %v", err)
			return nil, fmt.Errorf("%w: UpdateDetails - repository error: %v", ErrInternal, err)
		}
	}

	return s.GetByID(ctx, id)
}

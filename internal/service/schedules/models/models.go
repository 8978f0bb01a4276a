package models

import (
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// Request модели

// DayTemplateInput шаблон одного дня недели
type DayTemplateInput struct {
	Start        string `json:"start"`
	End          string `json:"end"`
	IsWorkingDay bool   `json:"isWorkingDay"`
}

// ExceptionInput точечное переопределение шаблона на дату
type ExceptionInput struct {
	Date         string  `json:"date"` // YYYY-MM-DD
	Start        *string `json:"start,omitempty"`
	End          *string `json:"end,omitempty"`
	IsWorkingDay bool    `json:"isWorkingDay"`
}

// RecurringEventInput повторяющееся событие расписания
type RecurringEventInput struct {
	Name          string   `json:"name"`
	Days          []string `json:"days"`
	StartTime     string   `json:"startTime"`
	EndTime       string   `json:"endTime"`
	StartDate     *string  `json:"startDate,omitempty"` // YYYY-MM-DD
	EndDate       *string  `json:"endDate,omitempty"`   // YYYY-MM-DD
	IsWorkingTime bool     `json:"isWorkingTime"`
}

// CreateScheduleRequest запрос на создание расписания
type CreateScheduleRequest struct {
	CompanyID             int64                       `json:"companyId"`
	ServiceID             *int64                      `json:"serviceId,omitempty"` // NULL = для всей компании
	Name                  string                      `json:"name"`
	Type                  string                      `json:"type"` // regular, custom, holiday, vacation
	WeeklyTemplate        map[string]DayTemplateInput `json:"weeklyTemplate"`
	Exceptions            []ExceptionInput            `json:"exceptions,omitempty"`
	RecurringEvents       []RecurringEventInput       `json:"recurringEvents,omitempty"`
	SlotDurationMinutes   *int                        `json:"slotDurationMinutes,omitempty"`
	SlotIntervalMinutes   *int                        `json:"slotIntervalMinutes,omitempty"`
	MaxConcurrentBookings *int                        `json:"maxConcurrentBookings,omitempty"`
	IsActive              *bool                       `json:"isActive,omitempty"`
}

// UpdateScheduleRequest запрос на обновление расписания
// Все поля опциональны - обновляются только переданные значения.
// Изменение шаблона не трогает уже сгенерированные слоты
type UpdateScheduleRequest struct {
	Name                  *string                     `json:"name,omitempty"`
	Type                  *string                     `json:"type,omitempty"`
	WeeklyTemplate        map[string]DayTemplateInput `json:"weeklyTemplate,omitempty"`
	Exceptions            *[]ExceptionInput           `json:"exceptions,omitempty"`
	RecurringEvents       *[]RecurringEventInput      `json:"recurringEvents,omitempty"`
	SlotDurationMinutes   *int                        `json:"slotDurationMinutes,omitempty"`
	SlotIntervalMinutes   *int                        `json:"slotIntervalMinutes,omitempty"`
	MaxConcurrentBookings *int                        `json:"maxConcurrentBookings,omitempty"`
	IsActive              *bool                       `json:"isActive,omitempty"`
}

// Response модели

// DayTemplateResponse шаблон одного дня недели
type DayTemplateResponse struct {
	Start        string `json:"start"`
	End          string `json:"end"`
	IsWorkingDay bool   `json:"isWorkingDay"`
}

// ScheduleResponse ответ с данными расписания
type ScheduleResponse struct {
	ID                    int64                          `json:"id"`
	CompanyID             int64                          `json:"companyId"`
	ServiceID             *int64                         `json:"serviceId,omitempty"`
	Name                  string                         `json:"name"`
	Type                  string                         `json:"type"`
	WeeklyTemplate        map[string]DayTemplateResponse `json:"weeklyTemplate"`
	Exceptions            []ExceptionInput               `json:"exceptions"`
	RecurringEvents       []RecurringEventInput          `json:"recurringEvents"`
	SlotDurationMinutes   int                            `json:"slotDurationMinutes"`
	SlotIntervalMinutes   int                            `json:"slotIntervalMinutes"`
	MaxConcurrentBookings int                            `json:"maxConcurrentBookings"`
	IsActive              bool                           `json:"isActive"`
	CreatedAt             time.Time                      `json:"createdAt"`
	UpdatedAt             time.Time                      `json:"updatedAt"`
}

// ScheduleListResponse ответ со списком расписаний
type ScheduleListResponse struct {
	Schedules []ScheduleResponse `json:"schedules"`
}

// Методы конвертации

// ToDomainSchedule конвертирует запрос в domain модель
// Незаданные поля заполняются значениями по умолчанию
func (r *CreateScheduleRequest) ToDomainSchedule() *domain.Schedule {
	schedule := &domain.Schedule{
		CompanyID:             r.CompanyID,
		ServiceID:             r.ServiceID,
		Name:                  r.Name,
		Type:                  domain.ScheduleType(r.Type),
		WeeklyTemplate:        toDomainTemplate(r.WeeklyTemplate),
		Exceptions:            toDomainExceptions(r.Exceptions),
		RecurringEvents:       toDomainEvents(r.RecurringEvents),
		SlotDurationMinutes:   domain.DefaultSlotDurationMinutes,
		SlotIntervalMinutes:   domain.DefaultSlotIntervalMinutes,
		MaxConcurrentBookings: domain.DefaultMaxConcurrentBookings,
		IsActive:              true,
	}

	if r.SlotDurationMinutes != nil {
		schedule.SlotDurationMinutes = *r.SlotDurationMinutes
	}
	if r.SlotIntervalMinutes != nil {
		schedule.SlotIntervalMinutes = *r.SlotIntervalMinutes
	}
	if r.MaxConcurrentBookings != nil {
		schedule.MaxConcurrentBookings = *r.MaxConcurrentBookings
	}
	if r.IsActive != nil {
		schedule.IsActive = *r.IsActive
	}
	return schedule
}

// ApplyTo накладывает обновление на существующую domain модель
func (r *UpdateScheduleRequest) ApplyTo(schedule *domain.Schedule) {
	if r.Name != nil {
		schedule.Name = *r.Name
	}
	if r.Type != nil {
		schedule.Type = domain.ScheduleType(*r.Type)
	}
	if r.WeeklyTemplate != nil {
		schedule.WeeklyTemplate = toDomainTemplate(r.WeeklyTemplate)
	}
	if r.Exceptions != nil {
		schedule.Exceptions = toDomainExceptions(*r.Exceptions)
	}
	if r.RecurringEvents != nil {
		schedule.RecurringEvents = toDomainEvents(*r.RecurringEvents)
	}
	if r.SlotDurationMinutes != nil {
		schedule.SlotDurationMinutes = *r.SlotDurationMinutes
	}
	if r.SlotIntervalMinutes != nil {
		schedule.SlotIntervalMinutes = *r.SlotIntervalMinutes
	}
	if r.MaxConcurrentBookings != nil {
		schedule.MaxConcurrentBookings = *r.MaxConcurrentBookings
	}
	if r.IsActive != nil {
		schedule.IsActive = *r.IsActive
	}
}

// FromDomainSchedule конвертирует domain модель в DTO
func FromDomainSchedule(s *domain.Schedule) *ScheduleResponse {
	if s == nil {
		return nil
	}

	template := make(map[string]DayTemplateResponse, len(s.WeeklyTemplate))
	for day, tmpl := range s.WeeklyTemplate {
		template[string(day)] = DayTemplateResponse{
			Start:        tmpl.Start.String(),
			End:          tmpl.End.String(),
			IsWorkingDay: tmpl.IsWorkingDay,
		}
	}

	exceptions := make([]ExceptionInput, 0, len(s.Exceptions))
	for _, exc := range s.Exceptions {
		exceptions = append(exceptions, ExceptionInput{
			Date:         exc.Date,
			Start:        timeStringPtr(exc.Start),
			End:          timeStringPtr(exc.End),
			IsWorkingDay: exc.IsWorkingDay,
		})
	}

	events := make([]RecurringEventInput, 0, len(s.RecurringEvents))
	for _, event := range s.RecurringEvents {
		days := make([]string, 0, len(event.Days))
		for _, d := range event.Days {
			days = append(days, string(d))
		}
		events = append(events, RecurringEventInput{
			Name:          event.Name,
			Days:          days,
			StartTime:     event.StartTime.String(),
			EndTime:       event.EndTime.String(),
			StartDate:     event.StartDate,
			EndDate:       event.EndDate,
			IsWorkingTime: event.IsWorkingTime,
		})
	}

	return &ScheduleResponse{
		ID:                    s.ID,
		CompanyID:             s.CompanyID,
		ServiceID:             s.ServiceID,
		Name:                  s.Name,
		Type:                  string(s.Type),
		WeeklyTemplate:        template,
		Exceptions:            exceptions,
		RecurringEvents:       events,
		SlotDurationMinutes:   s.SlotDurationMinutes,
		SlotIntervalMinutes:   s.SlotIntervalMinutes,
		MaxConcurrentBookings: s.MaxConcurrentBookings,
		IsActive:              s.IsActive,
		CreatedAt:             s.CreatedAt,
		UpdatedAt:             s.UpdatedAt,
	}
}

// FromDomainSchedules конвертирует список domain моделей в DTO
func FromDomainSchedules(schedules []*domain.Schedule) *ScheduleListResponse {
	result := &ScheduleListResponse{Schedules: make([]ScheduleResponse, 0, len(schedules))}
	for _, s := range schedules {
		result.Schedules = append(result.Schedules, *FromDomainSchedule(s))
	}
	return result
}

func toDomainTemplate(input map[string]DayTemplateInput) map[domain.Weekday]domain.DayTemplate {
	template := make(map[domain.Weekday]domain.DayTemplate, len(input))
	for day, tmpl := range input {
		template[domain.Weekday(day)] = domain.DayTemplate{
			Start:        types.TimeString(tmpl.Start),
			End:          types.TimeString(tmpl.End),
			IsWorkingDay: tmpl.IsWorkingDay,
		}
	}
	return template
}

func toDomainExceptions(input []ExceptionInput) []domain.ScheduleException {
	exceptions := make([]domain.ScheduleException, 0, len(input))
	for _, exc := range input {
		exceptions = append(exceptions, domain.ScheduleException{
			Date:         exc.Date,
			Start:        domainTimePtr(exc.Start),
			End:          domainTimePtr(exc.End),
			IsWorkingDay: exc.IsWorkingDay,
		})
	}
	return exceptions
}

func toDomainEvents(input []RecurringEventInput) []domain.RecurringEvent {
	events := make([]domain.RecurringEvent, 0, len(input))
	for _, event := range input {
		days := make([]domain.Weekday, 0, len(event.Days))
		for _, d := range event.Days {
			days = append(days, domain.Weekday(d))
		}
		events = append(events, domain.RecurringEvent{
			Name:          event.Name,
			Days:          days,
			StartTime:     types.TimeString(event.StartTime),
			EndTime:       types.TimeString(event.EndTime),
			StartDate:     event.StartDate,
			EndDate:       event.EndDate,
			IsWorkingTime: event.IsWorkingTime,
		})
	}
	return events
}

func domainTimePtr(s *string) *types.TimeString {
	if s == nil {
		return nil
	}
	ts := types.TimeString(*s)
	return &ts
}

func timeStringPtr(ts *types.TimeString) *string {
	if ts == nil {
		return nil
	}
	s := ts.String()
	return &s
}

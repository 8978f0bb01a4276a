package domain

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// ScheduleType тип расписания
type ScheduleType string

const (
	ScheduleTypeRegular  ScheduleType = "regular"  // Регулярное расписание
	ScheduleTypeCustom   ScheduleType = "custom"   // Индивидуальное расписание
	ScheduleTypeHoliday  ScheduleType = "holiday"  // Расписание выходных дней
	ScheduleTypeVacation ScheduleType = "vacation" // Расписание отпусков
)

// ParseScheduleType валидирующий конструктор типа расписания
func ParseScheduleType(s string) (ScheduleType, error) {
	switch ScheduleType(s) {
	case ScheduleTypeRegular, ScheduleTypeCustom, ScheduleTypeHoliday, ScheduleTypeVacation:
		return ScheduleType(s), nil
	default:
		return "", fmt.Errorf("%w: unknown schedule type %q", ErrInvalidScheduleType, s)
	}
}

// Weekday канонические названия дней недели в шаблонах расписаний
type Weekday string

const (
	Monday    Weekday = "monday"
	Tuesday   Weekday = "tuesday"
	Wednesday Weekday = "wednesday"
	Thursday  Weekday = "thursday"
	Friday    Weekday = "friday"
	Saturday  Weekday = "saturday"
	Sunday    Weekday = "sunday"
)

// WeekdayNames все канонические названия дней недели
var WeekdayNames = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// WeekdayFromTime конвертирует time.Weekday в каноническое название
func WeekdayFromTime(d time.Weekday) Weekday {
	switch d {
	case time.Monday:
		return Monday
	case time.Tuesday:
		return Tuesday
	case time.Wednesday:
		return Wednesday
	case time.Thursday:
		return Thursday
	case time.Friday:
		return Friday
	case time.Saturday:
		return Saturday
	default:
		return Sunday
	}
}

// IsValidWeekday проверяет, что строка - каноническое название дня недели
func IsValidWeekday(s Weekday) bool {
	for _, d := range WeekdayNames {
		if d == s {
			return true
		}
	}
	return false
}

// DayTemplate шаблон одного дня недели
type DayTemplate struct {
	Start        types.TimeString `json:"start"`
	End          types.TimeString `json:"end"`
	IsWorkingDay bool             `json:"is_working_day"`
}

// ScheduleException точечное переопределение шаблона на конкретную дату
// Переопределяет рабочий/нерабочий статус и, опционально, время начала и конца
type ScheduleException struct {
	Date         string            `json:"date"` // "2006-01-02"
	Start        *types.TimeString `json:"start,omitempty"`
	End          *types.TimeString `json:"end,omitempty"`
	IsWorkingDay bool              `json:"is_working_day"`
}

// RecurringEvent повторяющееся событие расписания
// IsWorkingTime=true - событие добавляет бронируемое окно (один слот на вхождение),
// IsWorkingTime=false - событие блокирует пересекающиеся слоты (перерыв, планерка)
type RecurringEvent struct {
	Name          string           `json:"name"`
	Days          []Weekday        `json:"days"`
	StartTime     types.TimeString `json:"start_time"`
	EndTime       types.TimeString `json:"end_time"`
	StartDate     *string          `json:"start_date,omitempty"` // "2006-01-02", nil = без нижней границы
	EndDate       *string          `json:"end_date,omitempty"`   // "2006-01-02", nil = без верхней границы
	IsWorkingTime bool             `json:"is_working_time"`
}

// ActiveOn проверяет, действует ли событие в указанную дату
// Некорректные граничные даты трактуются как отсутствие границы
func (e *RecurringEvent) ActiveOn(date time.Time) bool {
	weekday := WeekdayFromTime(date.Weekday())
	found := false
	for _, d := range e.Days {
		if d == weekday {
			found = true
			break
		}
	}
	if !found {
		return false
	}

	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	if e.StartDate != nil {
		if from, err := time.ParseInLocation(DateFormat, *e.StartDate, date.Location()); err == nil && day.Before(from) {
			return false
		}
	}
	if e.EndDate != nil {
		if to, err := time.ParseInLocation(DateFormat, *e.EndDate, date.Location()); err == nil && day.After(to) {
			return false
		}
	}
	return true
}

// Schedule декларативное расписание компании или отдельной услуги
// Из него генерируются конкретные временные слоты (TimeSlot)
type Schedule struct {
	ID        int64
	CompanyID int64
	ServiceID *int64 // nil = расписание действует для всей компании
	Name      string
	Type      ScheduleType

	WeeklyTemplate  map[Weekday]DayTemplate
	Exceptions      []ScheduleException
	RecurringEvents []RecurringEvent

	SlotDurationMinutes   int
	SlotIntervalMinutes   int
	MaxConcurrentBookings int

	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// FindException возвращает исключение для указанной даты, если оно есть
func (s *Schedule) FindException(date time.Time) *ScheduleException {
	dateStr := date.Format(DateFormat)
	for i := range s.Exceptions {
		if s.Exceptions[i].Date == dateStr {
			return &s.Exceptions[i]
		}
	}
	return nil
}

// ResolvedDay рабочее окно одного календарного дня после применения исключений
type ResolvedDay struct {
	Start        types.TimeString
	End          types.TimeString
	IsWorkingDay bool
}

// ResolveDay вычисляет рабочее окно на дату: исключение имеет приоритет
// над недельным шаблоном, в том числе может сделать нерабочий день рабочим.
// Незаданные в исключении времена наследуются из шаблона.
func (s *Schedule) ResolveDay(date time.Time) ResolvedDay {
	tmpl, hasTmpl := s.WeeklyTemplate[WeekdayFromTime(date.Weekday())]
	exception := s.FindException(date)

	if exception == nil {
		if !hasTmpl {
			return ResolvedDay{IsWorkingDay: false}
		}
		return ResolvedDay{Start: tmpl.Start, End: tmpl.End, IsWorkingDay: tmpl.IsWorkingDay}
	}

	resolved := ResolvedDay{IsWorkingDay: exception.IsWorkingDay}
	if hasTmpl {
		resolved.Start = tmpl.Start
		resolved.End = tmpl.End
	}
	if exception.Start != nil {
		resolved.Start = *exception.Start
	}
	if exception.End != nil {
		resolved.End = *exception.End
	}
	return resolved
}

// Validate проверяет инварианты расписания
func (s *Schedule) Validate() error {
	if s.CompanyID <= 0 {
		return fmt.Errorf("%w: companyID must be positive", ErrInvalidSchedule)
	}
	if s.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidSchedule)
	}
	if _, err := ParseScheduleType(string(s.Type)); err != nil {
		return err
	}
	if s.SlotDurationMinutes <= 0 {
		return fmt.Errorf("%w: slot duration must be positive", ErrInvalidSchedule)
	}
	if s.SlotIntervalMinutes < 0 {
		return fmt.Errorf("%w: slot interval must not be negative", ErrInvalidSchedule)
	}
	if s.MaxConcurrentBookings < MinConcurrentBookings || s.MaxConcurrentBookings > MaxConcurrentBookingsLimit {
		return fmt.Errorf("%w: max concurrent bookings must be between %d and %d",
			ErrInvalidSchedule, MinConcurrentBookings, MaxConcurrentBookingsLimit)
	}

	for day, tmpl := range s.WeeklyTemplate {
		if !IsValidWeekday(day) {
			return fmt.Errorf("%w: unknown weekday %q", ErrInvalidSchedule, day)
		}
		if tmpl.IsWorkingDay {
			if err := tmpl.Start.Validate(); err != nil {
				return fmt.Errorf("%w: %s start time: %v", ErrInvalidSchedule, day, err)
			}
			if err := tmpl.End.Validate(); err != nil {
				return fmt.Errorf("%w: %s end time: %v", ErrInvalidSchedule, day, err)
			}
		}
	}

	for _, exc := range s.Exceptions {
		if _, err := time.Parse(DateFormat, exc.Date); err != nil {
			return fmt.Errorf("%w: exception date %q is not a valid date", ErrInvalidSchedule, exc.Date)
		}
		if exc.Start != nil {
			if err := exc.Start.Validate(); err != nil {
				return fmt.Errorf("%w: exception %s start time: %v", ErrInvalidSchedule, exc.Date, err)
			}
		}
		if exc.End != nil {
			if err := exc.End.Validate(); err != nil {
				return fmt.Errorf("%w: exception %s end time: %v", ErrInvalidSchedule, exc.Date, err)
			}
		}
	}

	for _, event := range s.RecurringEvents {
		if event.Name == "" {
			return fmt.Errorf("%w: recurring event name is required", ErrInvalidSchedule)
		}
		for _, day := range event.Days {
			if !IsValidWeekday(day) {
				return fmt.Errorf("%w: recurring event %q: unknown weekday %q", ErrInvalidSchedule, event.Name, day)
			}
		}
		if err := event.StartTime.Validate(); err != nil {
			return fmt.Errorf("%w: recurring event %q start time: %v", ErrInvalidSchedule, event.Name, err)
		}
		if err := event.EndTime.Validate(); err != nil {
			return fmt.Errorf("%w: recurring event %q end time: %v", ErrInvalidSchedule, event.Name, err)
		}
		if !event.EndTime.IsAfter(event.StartTime) {
			return fmt.Errorf("%w: recurring event %q: end time must be after start time", ErrInvalidSchedule, event.Name)
		}
	}

	return nil
}

package generate_slots

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/ptr"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// baseSchedule понедельник-пятница 09:00-18:00, слоты по 30 минут без интервала
func baseSchedule() *domain.Schedule {
	weekday := domain.DayTemplate{
		Start:        types.TimeString("09:00"),
		End:          types.TimeString("18:00"),
		IsWorkingDay: true,
	}
	return &domain.Schedule{
		ID:        1,
		CompanyID: 10,
		Name:      "Основное расписание",
		Type:      domain.ScheduleTypeRegular,
		WeeklyTemplate: map[domain.Weekday]domain.DayTemplate{
			domain.Monday:    weekday,
			domain.Tuesday:   weekday,
			domain.Wednesday: weekday,
			domain.Thursday:  weekday,
			domain.Friday:    weekday,
		},
		SlotDurationMinutes:   30,
		SlotIntervalMinutes:   0,
		MaxConcurrentBookings: 1,
		IsActive:              true,
	}
}

// mustDate парсит дату YYYY-MM-DD в UTC
func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.ParseInLocation(domain.DateFormat, s, time.UTC)
	require.NoError(t, err)
	return d
}

func TestBuildDaySlots(t *testing.T) {
	monday := "2026-09-07" // понедельник
	sunday := "2026-09-06"

	tests := []struct {
		name        string
		mutate      func(s *domain.Schedule)
		date        string
		wantCount   int
		wantBlocked int
		wantFirst   string // "HH:MM" первого слота, если wantCount > 0
		wantLast    string // "HH:MM" начала последнего слота
	}{
		{
			name:      "рабочий день без интервала: 18 слотов по 30 минут",
			date:      monday,
			wantCount: 18,
			wantFirst: "09:00",
			wantLast:  "17:30",
		},
		{
			name:      "нерабочий день шаблона не дает слотов",
			date:      sunday,
			wantCount: 0,
		},
		{
			name: "интервал между слотами увеличивает шаг курсора",
			mutate: func(s *domain.Schedule) {
				s.SlotDurationMinutes = 60
				s.SlotIntervalMinutes = 15
			},
			// 09:00, 10:15, 11:30, 12:45, 14:00, 15:15, 16:30
			date:      monday,
			wantCount: 7,
			wantFirst: "09:00",
			wantLast:  "16:30",
		},
		{
			name: "неполный слот в конце окна отбрасывается",
			mutate: func(s *domain.Schedule) {
				s.WeeklyTemplate[domain.Monday] = domain.DayTemplate{
					Start:        types.TimeString("09:00"),
					End:          types.TimeString("10:45"),
					IsWorkingDay: true,
				}
			},
			date:      monday,
			wantCount: 3, // 09:00, 09:30, 10:00; 10:30-11:00 не помещается
			wantFirst: "09:00",
			wantLast:  "10:00",
		},
		{
			name: "исключение делает рабочий день выходным",
			mutate: func(s *domain.Schedule) {
				s.Exceptions = []domain.ScheduleException{
					{Date: monday, IsWorkingDay: false},
				}
			},
			date:      monday,
			wantCount: 0,
		},
		{
			name: "исключение сокращает окно дня",
			mutate: func(s *domain.Schedule) {
				s.Exceptions = []domain.ScheduleException{
					{
						Date:         monday,
						Start:        ptr.Ptr(types.TimeString("10:00")),
						End:          ptr.Ptr(types.TimeString("12:00")),
						IsWorkingDay: true,
					},
				}
			},
			date:      monday,
			wantCount: 4,
			wantFirst: "10:00",
			wantLast:  "11:30",
		},
		{
			name: "исключение делает выходной день рабочим",
			mutate: func(s *domain.Schedule) {
				s.Exceptions = []domain.ScheduleException{
					{
						Date:         sunday,
						Start:        ptr.Ptr(types.TimeString("12:00")),
						End:          ptr.Ptr(types.TimeString("14:00")),
						IsWorkingDay: true,
					},
				}
			},
			date:      sunday,
			wantCount: 4,
			wantFirst: "12:00",
			wantLast:  "13:30",
		},
		{
			name: "блокирующее событие вырезает пересекающиеся слоты",
			mutate: func(s *domain.Schedule) {
				s.RecurringEvents = []domain.RecurringEvent{
					{
						Name:          "Обед",
						Days:          []domain.Weekday{domain.Monday},
						StartTime:     types.TimeString("13:00"),
						EndTime:       types.TimeString("14:00"),
						IsWorkingTime: false,
					},
				}
			},
			date:        monday,
			wantCount:   16,
			wantBlocked: 2, // 13:00 и 13:30
			wantFirst:   "09:00",
			wantLast:    "17:30",
		},
		{
			name: "блокирующее событие с частичным пересечением задевает соседний слот",
			mutate: func(s *domain.Schedule) {
				s.RecurringEvents = []domain.RecurringEvent{
					{
						Name:          "Планерка",
						Days:          []domain.Weekday{domain.Monday},
						StartTime:     types.TimeString("13:15"),
						EndTime:       types.TimeString("13:45"),
						IsWorkingTime: false,
					},
				}
			},
			date:        monday,
			wantCount:   16,
			wantBlocked: 2, // пересекает и 13:00-13:30, и 13:30-14:00
		},
		{
			name: "блокирующее событие вне дней недели не действует",
			mutate: func(s *domain.Schedule) {
				s.RecurringEvents = []domain.RecurringEvent{
					{
						Name:          "Обед",
						Days:          []domain.Weekday{domain.Tuesday},
						StartTime:     types.TimeString("13:00"),
						EndTime:       types.TimeString("14:00"),
						IsWorkingTime: false,
					},
				}
			},
			date:      monday,
			wantCount: 18,
		},
		{
			name: "блокирующее событие с истекшей датой окончания не действует",
			mutate: func(s *domain.Schedule) {
				s.RecurringEvents = []domain.RecurringEvent{
					{
						Name:          "Ремонт",
						Days:          []domain.Weekday{domain.Monday},
						StartTime:     types.TimeString("09:00"),
						EndTime:       types.TimeString("18:00"),
						EndDate:       ptr.Ptr("2026-08-31"),
						IsWorkingTime: false,
					},
				}
			},
			date:      monday,
			wantCount: 18,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			schedule := baseSchedule()
			if tt.mutate != nil {
				tt.mutate(schedule)
			}
			date := mustDate(t, tt.date)

			candidates, blocked := buildDaySlots(schedule, date)

			assert.Len(t, candidates, tt.wantCount)
			assert.Equal(t, tt.wantBlocked, blocked)

			if tt.wantCount > 0 && tt.wantFirst != "" {
				assert.Equal(t, tt.wantFirst, candidates[0].Start.Format(domain.TimeFormat))
				assert.Equal(t, tt.wantLast, candidates[len(candidates)-1].Start.Format(domain.TimeFormat))
			}
			for _, c := range candidates {
				assert.Equal(t, time.Duration(schedule.SlotDurationMinutes)*time.Minute, c.End.Sub(c.Start))
				assert.Nil(t, c.EventName)
			}
		})
	}
}

func TestBuildEventSlots(t *testing.T) {
	monday := mustDate(t, "2026-09-07")

	schedule := baseSchedule()
	schedule.RecurringEvents = []domain.RecurringEvent{
		{
			Name:          "Групповая тренировка",
			Days:          []domain.Weekday{domain.Monday, domain.Wednesday},
			StartTime:     types.TimeString("19:00"),
			EndTime:       types.TimeString("20:30"),
			IsWorkingTime: true,
		},
		{
			Name:          "Обед",
			Days:          []domain.Weekday{domain.Monday},
			StartTime:     types.TimeString("13:00"),
			EndTime:       types.TimeString("14:00"),
			IsWorkingTime: false, // блокирующие события слотов не дают
		},
		{
			Name:          "Мастер-класс",
			Days:          []domain.Weekday{domain.Monday},
			StartTime:     types.TimeString("21:00"),
			EndTime:       types.TimeString("22:00"),
			StartDate:     ptr.Ptr("2026-10-01"), // еще не началось
			IsWorkingTime: true,
		},
	}

	candidates := buildEventSlots(schedule, monday)

	require.Len(t, candidates, 1)
	require.NotNil(t, candidates[0].EventName)
	assert.Equal(t, "Групповая тренировка", *candidates[0].EventName)
	assert.Equal(t, "19:00", candidates[0].Start.Format(domain.TimeFormat))
	assert.Equal(t, "20:30", candidates[0].End.Format(domain.TimeFormat))
}

func TestDaysIn(t *testing.T) {
	start := mustDate(t, "2026-09-07")
	end := mustDate(t, "2026-09-13")

	days := daysIn(start, end)

	require.Len(t, days, 7)
	assert.Equal(t, "2026-09-07", days[0].Format(domain.DateFormat))
	assert.Equal(t, "2026-09-13", days[6].Format(domain.DateFormat))

	single := daysIn(start, start)
	require.Len(t, single, 1)
}

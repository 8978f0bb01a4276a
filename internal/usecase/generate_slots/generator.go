package generate_slots

import (
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// slotCandidate кандидат на создание слота, еще не прошедший проверку существования
type slotCandidate struct {
	Start     time.Time
	End       time.Time
	EventName *string // Название события для слотов из повторяющихся событий
}

// buildDaySlots вычисляет кандидатов слотов одного календарного дня
// по недельному шаблону с учетом исключений.
//
// Курсор идет от начала рабочего окна с шагом (длительность + интервал).
// Слот, не помещающийся в окно целиком, отбрасывается, а не усекается.
// Слоты, пересекающие блокирующие события, не создаются и попадают
// в счетчик пропущенных.
//
// День без рабочего окна (нерабочий, нет шаблона, некорректное время) -
// не ошибка: он просто дает ноль кандидатов.
func buildDaySlots(schedule *domain.Schedule, date time.Time) (candidates []slotCandidate, blocked int) {
	resolved := schedule.ResolveDay(date)
	if !resolved.IsWorkingDay || resolved.Start.IsZero() || resolved.End.IsZero() {
		return nil, 0
	}

	dayStart, err := resolved.Start.OnDate(date)
	if err != nil {
		return nil, 0
	}
	dayEnd, err := resolved.End.OnDate(date)
	if err != nil {
		return nil, 0
	}

	duration := time.Duration(schedule.SlotDurationMinutes) * time.Minute
	step := time.Duration(schedule.SlotDurationMinutes+schedule.SlotIntervalMinutes) * time.Minute

	blockingWindows := blockingWindowsOn(schedule, date)

	for cursor := dayStart; !cursor.Add(duration).After(dayEnd); cursor = cursor.Add(step) {
		slotStart := cursor
		slotEnd := cursor.Add(duration)

		if overlapsAny(slotStart, slotEnd, blockingWindows) {
			blocked++
			continue
		}

		candidates = append(candidates, slotCandidate{Start: slotStart, End: slotEnd})
	}

	return candidates, blocked
}

// buildEventSlots вычисляет кандидатов слотов из повторяющихся рабочих событий,
// действующих в указанную дату. Каждое вхождение события дает ровно один слот
// на весь интервал события, помеченный его названием.
func buildEventSlots(schedule *domain.Schedule, date time.Time) []slotCandidate {
	var candidates []slotCandidate

	for i := range schedule.RecurringEvents {
		event := &schedule.RecurringEvents[i]
		if !event.IsWorkingTime || !event.ActiveOn(date) {
			continue
		}

		start, err := event.StartTime.OnDate(date)
		if err != nil {
			continue
		}
		end, err := event.EndTime.OnDate(date)
		if err != nil {
			continue
		}

		name := event.Name
		candidates = append(candidates, slotCandidate{Start: start, End: end, EventName: &name})
	}

	return candidates
}

// window временной интервал внутри одного дня
type window struct {
	start time.Time
	end   time.Time
}

// blockingWindowsOn возвращает интервалы блокирующих событий, действующих в дату
// Блокирующие события имеют приоритет и над шаблоном, и над исключениями
func blockingWindowsOn(schedule *domain.Schedule, date time.Time) []window {
	var windows []window

	for i := range schedule.RecurringEvents {
		event := &schedule.RecurringEvents[i]
		if event.IsWorkingTime || !event.ActiveOn(date) {
			continue
		}

		start, err := event.StartTime.OnDate(date)
		if err != nil {
			continue
		}
		end, err := event.EndTime.OnDate(date)
		if err != nil {
			continue
		}

		windows = append(windows, window{start: start, end: end})
	}

	return windows
}

// overlapsAny проверяет пересечение [start, end) хотя бы с одним из окон
// Полуоткрытая семантика: соприкосновение границ пересечением не считается
func overlapsAny(start, end time.Time, windows []window) bool {
	for _, w := range windows {
		if w.start.Before(end) && w.end.After(start) {
			return true
		}
	}
	return false
}

// daysIn возвращает последовательность календарных дней диапазона (включительно)
func daysIn(startDate, endDate time.Time) []time.Time {
	var days []time.Time
	start := truncateToDay(startDate)
	end := truncateToDay(endDate)

	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// truncateToDay обнуляет время, оставляя только дату
func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// endOfDay возвращает последнюю секунду дня
func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, t.Location())
}

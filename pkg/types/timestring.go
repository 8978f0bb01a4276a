package types

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidTimeString возвращается при некорректном формате времени
var ErrInvalidTimeString = errors.New("invalid time string format, expected HH:MM")

// TimeString время суток в формате "HH:MM" (например, "09:30")
// Используется для рабочих часов, шаблонов расписаний и временных слотов.
// Хранится как строка, поэтому без изменений проходит через JSON и JSONB.
//
// Результаты арифметики (AddMinutes) могут выходить за границу суток
// (например, "24:30") - такие значения корректно сравниваются между собой,
// но не проходят Validate.
type TimeString string

// NewTimeString создает TimeString из time.Time (берёт только часы и минуты)
func NewTimeString(t time.Time) TimeString {
	return TimeString(t.Format("15:04"))
}

// NewTimeStringFromString создает TimeString из строки с валидацией формата
func NewTimeStringFromString(s string) (TimeString, error) {
	ts := TimeString(s)
	if err := ts.Validate(); err != nil {
		return "", err
	}
	return ts, nil
}

// String возвращает строковое представление времени
func (t TimeString) String() string {
	return string(t)
}

// IsZero проверяет, что время не задано
func (t TimeString) IsZero() bool {
	return t == ""
}

// Validate проверяет формат HH:MM (часы 00-23, минуты 00-59)
func (t TimeString) Validate() error {
	var hours, minutes int
	if _, err := fmt.Sscanf(string(t), "%02d:%02d", &hours, &minutes); err != nil {
		return ErrInvalidTimeString
	}
	if len(t) != 5 || t[2] != ':' {
		return ErrInvalidTimeString
	}
	if hours < 0 || hours > 23 || minutes < 0 || minutes > 59 {
		return ErrInvalidTimeString
	}
	return nil
}

// toMinutes конвертирует время в минуты от начала суток
// Принимает и значения за границей суток ("24:30" -> 1470)
func (t TimeString) toMinutes() (int, error) {
	var hours, minutes int
	if _, err := fmt.Sscanf(string(t), "%d:%d", &hours, &minutes); err != nil {
		return 0, ErrInvalidTimeString
	}
	if hours < 0 || minutes < 0 || minutes > 59 {
		return 0, ErrInvalidTimeString
	}
	return hours*60 + minutes, nil
}

// IsBefore проверяет, что время строго раньше other
// При некорректном формате возвращает false
func (t TimeString) IsBefore(other TimeString) bool {
	a, err1 := t.toMinutes()
	b, err2 := other.toMinutes()
	if err1 != nil || err2 != nil {
		return false
	}
	return a < b
}

// IsAfter проверяет, что время строго позже other
// При некорректном формате возвращает false
func (t TimeString) IsAfter(other TimeString) bool {
	a, err1 := t.toMinutes()
	b, err2 := other.toMinutes()
	if err1 != nil || err2 != nil {
		return false
	}
	return a > b
}

// AddMinutes возвращает время, сдвинутое на minutes минут вперед
// Результат может выйти за границу суток (например, "24:15")
func (t TimeString) AddMinutes(minutes int) (TimeString, error) {
	total, err := t.toMinutes()
	if err != nil {
		return "", err
	}
	total += minutes
	if total < 0 {
		return "", fmt.Errorf("%w: negative result", ErrInvalidTimeString)
	}
	return TimeString(fmt.Sprintf("%02d:%02d", total/60, total%60)), nil
}

// OnDate привязывает время суток к конкретной дате
func (t TimeString) OnDate(date time.Time) (time.Time, error) {
	total, err := t.toMinutes()
	if err != nil {
		return time.Time{}, err
	}
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	return day.Add(time.Duration(total) * time.Minute), nil
}

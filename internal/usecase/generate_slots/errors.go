package generate_slots

import "errors"

var (
	// ErrScheduleNotFound возвращается, когда расписание не найдено
	ErrScheduleNotFound = errors.New("generate_slots: schedule not found")

	// ErrScheduleInactive возвращается при попытке генерации по неактивному расписанию
	ErrScheduleInactive = errors.New("generate_slots: schedule is inactive")

	// ErrInvalidDateRange возвращается при некорректном диапазоне дат
	// (конец раньше начала или диапазон больше разрешенного предела)
	ErrInvalidDateRange = errors.New("generate_slots: invalid date range")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("generate_slots: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("generate_slots: internal error")
)

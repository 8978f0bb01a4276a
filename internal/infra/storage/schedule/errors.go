package schedule

import "errors"

var (
	// ErrScheduleNotFound возвращается, когда расписание не найдено
	ErrScheduleNotFound = errors.New("schedule.repository: schedule not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("schedule.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("schedule.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("schedule.repository: failed to scan row")

	// ErrMarshalTemplate возвращается при ошибке сериализации JSONB-полей расписания
	ErrMarshalTemplate = errors.New("schedule.repository: failed to marshal schedule template")

	// ErrUnmarshalTemplate возвращается при ошибке десериализации JSONB-полей расписания
	ErrUnmarshalTemplate = errors.New("schedule.repository: failed to unmarshal schedule template")
)

package timeslot

import "errors"

var (
	// ErrSlotNotFound возвращается, когда временной слот не найден
	ErrSlotNotFound = errors.New("timeslot.repository: time slot not found")

	// ErrSlotUnavailable возвращается, когда слот заблокирован или все места заняты
	ErrSlotUnavailable = errors.New("timeslot.repository: time slot is not available")

	// ErrCapacityBelowOccupancy возвращается при попытке установить вместимость
	// меньше текущего числа занятых мест
	ErrCapacityBelowOccupancy = errors.New("timeslot.repository: capacity below current occupancy")

	// ErrNoActiveReservations возвращается при попытке освободить место в слоте
	// с нулевым счетчиком занятости. Признак ошибки в вызывающем коде:
	// счетчик никогда не должен уходить в минус
	ErrNoActiveReservations = errors.New("timeslot.repository: slot has no active reservations")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("timeslot.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("timeslot.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("timeslot.repository: failed to scan row")
)

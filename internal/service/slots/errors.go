package slots

import "errors"

var (
	// ErrSlotNotFound возвращается, когда временной слот не найден
	ErrSlotNotFound = errors.New("time slot not found")

	// ErrSlotUnavailable возвращается, когда слот заблокирован или все места заняты
	ErrSlotUnavailable = errors.New("time slot is not available")

	// ErrInvalidRelease возвращается при попытке освободить место в слоте
	// с нулевым счетчиком занятости
	ErrInvalidRelease = errors.New("slot has no active reservations")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)

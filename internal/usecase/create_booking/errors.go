package create_booking

import "errors"

var (
	// ErrSlotNotFound возвращается, когда указанный слот не найден
	ErrSlotNotFound = errors.New("create_booking: time slot not found")

	// ErrSlotUnavailable возвращается, когда слот заблокирован или все места заняты
	ErrSlotUnavailable = errors.New("create_booking: time slot is not available")

	// ErrTimeConflict возвращается, когда запрошенный интервал пересекается
	// с существующим активным бронированием
	ErrTimeConflict = errors.New("create_booking: time conflict with existing booking")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)

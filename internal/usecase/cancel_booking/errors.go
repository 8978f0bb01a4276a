package cancel_booking

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("cancel_booking: booking not found")

	// ErrAlreadyCancelled возвращается при повторной попытке отмены
	// Место в слоте освобождается ровно один раз
	ErrAlreadyCancelled = errors.New("cancel_booking: booking is already cancelled")

	// ErrNotCancellable возвращается для завершенных и перенесенных бронирований
	ErrNotCancellable = errors.New("cancel_booking: booking cannot be cancelled")

	// ErrAccessDenied возвращается при попытке отменить чужое бронирование
	ErrAccessDenied = errors.New("cancel_booking: access denied")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("cancel_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("cancel_booking: internal error")
)

package create_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/api/middleware"
	createBooking "github.com/m04kA/SMC-SchedulingService/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidTime        = "некорректный формат времени, ожидается RFC3339"
	msgInvalidData        = "некорректные данные бронирования"
	msgSlotNotFound       = "временной слот не найден"
	msgSlotUnavailable    = "в слоте нет свободных мест"
	msgTimeConflict       = "запрошенное время пересекается с существующим бронированием"
	msgUnauthorized       = "требуется авторизация для бронирования без контактов клиента"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Гостевое бронирование идет без userID: клиент идентифицируется контактами
	var userID *int64
	if id, ok := middleware.GetUserID(r.Context()); ok {
		userID = &id
	} else if req.ClientPhone == nil && req.ClientEmail == nil {
		h.logger.Warn("POST /bookings - Unauthenticated request without client contacts")
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(userID)
	if err != nil {
		h.logger.Warn("POST /bookings - Failed to parse time: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createBooking.ErrSlotNotFound):
			h.logger.Warn("POST /bookings - Slot not found: error=%v", err)
			handlers.RespondNotFound(w, msgSlotNotFound)

		case errors.Is(err, createBooking.ErrSlotUnavailable):
			h.logger.Warn("POST /bookings - Slot unavailable: error=%v", err)
			handlers.RespondConflict(w, msgSlotUnavailable)

		case errors.Is(err, createBooking.ErrTimeConflict):
			h.logger.Warn("POST /bookings - Time conflict: error=%v", err)
			handlers.RespondConflict(w, msgTimeConflict)

		case errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid booking data: error=%v", err)
			handlers.RespondBadRequest(w, msgInvalidData)

		default:
			h.logger.Error("POST /bookings - Failed to create booking: error=%v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings - Booking created successfully: booking_id=%d, company_id=%d, service_id=%d",
		result.ID, result.CompanyID, result.ServiceID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}

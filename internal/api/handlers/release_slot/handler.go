package release_slot

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/service/slots"
)

const (
	msgInvalidSlotID = "некорректный ID слота"
	msgNotFound      = "временной слот не найден"
)

type Handler struct {
	service SlotService
	logger  Logger
}

func NewHandler(service SlotService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/slots/{slotId}/release
// Освобождение пустого слота - нарушение инварианта, отвечаем 500
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	slotID, err := strconv.ParseInt(vars["slotId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /slots/{id}/release - Invalid slot ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSlotID)
		return
	}

	result, err := h.service.Release(r.Context(), slotID)
	if err != nil {
		switch {
		case errors.Is(err, slots.ErrSlotNotFound):
			h.logger.Warn("POST /slots/{id}/release - Slot not found: slot_id=%d", slotID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, slots.ErrInvalidRelease):
			h.logger.Error("POST /slots/{id}/release - Release without reservation: slot_id=%d", slotID)
			handlers.RespondInternalError(w)

		default:
			h.logger.Error("POST /slots/{id}/release - Failed to release slot: slot_id=%d, error=%v", slotID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /slots/{id}/release - Spot released: slot_id=%d, booked=%d/%d",
		slotID, result.BookedClients, result.MaxClients)
	handlers.RespondJSON(w, http.StatusOK, result)
}

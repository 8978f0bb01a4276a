package reserve_slot

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/service/slots"
)

const (
	msgInvalidSlotID   = "некорректный ID слота"
	msgNotFound        = "временной слот не найден"
	msgSlotUnavailable = "временной слот недоступен"
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

// Handle POST /api/v1/slots/{slotId}/reserve
// Конкурентные запросы на последнее место дают ровно один успех
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	slotID, err := strconv.ParseInt(vars["slotId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /slots/{id}/reserve - Invalid slot ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSlotID)
		return
	}

	result, err := h.service.Reserve(r.Context(), slotID)
	if err != nil {
		switch {
		case errors.Is(err, slots.ErrSlotNotFound):
			h.logger.Warn("POST /slots/{id}/reserve - Slot not found: slot_id=%d", slotID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, slots.ErrSlotUnavailable):
			h.logger.Warn("POST /slots/{id}/reserve - Slot unavailable: slot_id=%d", slotID)
			handlers.RespondConflict(w, msgSlotUnavailable)

		default:
			h.logger.Error("POST /slots/{id}/reserve - Failed to reserve slot: slot_id=%d, error=%v", slotID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /slots/{id}/reserve - Spot reserved: slot_id=%d, booked=%d/%d",
		slotID, result.BookedClients, result.MaxClients)
	handlers.RespondJSON(w, http.StatusOK, result)
}

package update_slot

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/service/slots"
	"github.com/m04kA/SMC-SchedulingService/internal/service/slots/models"
)

const (
	msgInvalidSlotID      = "некорректный ID слота"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidData        = "некорректные данные слота"
	msgNotFound           = "временной слот не найден"
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

// Handle PATCH /api/v1/slots/{slotId}
// Обновление вместимости, цены и заметок слота
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	slotID, ok := h.slotID(w, r, "PATCH /slots/{id}")
	if !ok {
		return
	}

	var req models.UpdateSlotRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /slots/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.UpdateDetails(r.Context(), slotID, &req)
	if err != nil {
		h.respondError(w, err, slotID, "PATCH /slots/{id}")
		return
	}

	h.logger.Info("PATCH /slots/{id} - Slot updated successfully: slot_id=%d", slotID)
	handlers.RespondJSON(w, http.StatusOK, result)
}

// HandleBlock POST /api/v1/slots/{slotId}/block
// Блокировка не трогает счетчик занятости: существующие брони остаются
func (h *Handler) HandleBlock(w http.ResponseWriter, r *http.Request) {
	slotID, ok := h.slotID(w, r, "POST /slots/{id}/block")
	if !ok {
		return
	}

	var req models.BlockSlotRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /slots/{id}/block - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.SetBlocked(r.Context(), slotID, true, req.Reason)
	if err != nil {
		h.respondError(w, err, slotID, "POST /slots/{id}/block")
		return
	}

	h.logger.Info("POST /slots/{id}/block - Slot blocked: slot_id=%d", slotID)
	handlers.RespondJSON(w, http.StatusOK, result)
}

// HandleUnblock POST /api/v1/slots/{slotId}/unblock
func (h *Handler) HandleUnblock(w http.ResponseWriter, r *http.Request) {
	slotID, ok := h.slotID(w, r, "POST /slots/{id}/unblock")
	if !ok {
		return
	}

	result, err := h.service.SetBlocked(r.Context(), slotID, false, nil)
	if err != nil {
		h.respondError(w, err, slotID, "POST /slots/{id}/unblock")
		return
	}

	h.logger.Info("POST /slots/{id}/unblock - Slot unblocked: slot_id=%d", slotID)
	handlers.RespondJSON(w, http.StatusOK, result)
}

func (h *Handler) slotID(w http.ResponseWriter, r *http.Request, route string) (int64, bool) {
	vars := mux.Vars(r)
	slotID, err := strconv.ParseInt(vars["slotId"], 10, 64)
	if err != nil {
		h.logger.Warn("%s - Invalid slot ID: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidSlotID)
		return 0, false
	}
	return slotID, true
}

func (h *Handler) respondError(w http.ResponseWriter, err error, slotID int64, route string) {
	switch {
	case errors.Is(err, slots.ErrSlotNotFound):
		h.logger.Warn("%s - Slot not found: slot_id=%d", route, slotID)
		handlers.RespondNotFound(w, msgNotFound)

	case errors.Is(err, slots.ErrInvalidInput):
		h.logger.Warn("%s - Invalid slot data: slot_id=%d, error=%v", route, slotID, err)
		handlers.RespondBadRequest(w, msgInvalidData)

	default:
		h.logger.Error("%s - Failed to update slot: slot_id=%d, error=%v", route, slotID, err)
		handlers.RespondInternalError(w)
	}
}

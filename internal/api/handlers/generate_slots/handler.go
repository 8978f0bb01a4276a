package generate_slots

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	generateSlots "github.com/m04kA/SMC-SchedulingService/internal/usecase/generate_slots"
)

const (
	msgInvalidScheduleID  = "некорректный ID расписания"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidDateRange   = "некорректный диапазон дат"
	msgScheduleNotFound   = "расписание не найдено"
	msgScheduleInactive   = "расписание неактивно"
)

type Handler struct {
	useCase GenerateSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GenerateSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/schedules/{scheduleId}/generate-slots
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	scheduleID, err := strconv.ParseInt(vars["scheduleId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /schedules/{id}/generate-slots - Invalid schedule ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidScheduleID)
		return
	}

	var req GenerateSlotsRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /schedules/{id}/generate-slots - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(scheduleID)
	if err != nil {
		h.logger.Warn("POST /schedules/{id}/generate-slots - Failed to parse dates: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, generateSlots.ErrScheduleNotFound):
			h.logger.Warn("POST /schedules/{id}/generate-slots - Schedule not found: schedule_id=%d", scheduleID)
			handlers.RespondNotFound(w, msgScheduleNotFound)

		case errors.Is(err, generateSlots.ErrScheduleInactive):
			h.logger.Warn("POST /schedules/{id}/generate-slots - Schedule inactive: schedule_id=%d", scheduleID)
			handlers.RespondConflict(w, msgScheduleInactive)

		case errors.Is(err, generateSlots.ErrInvalidDateRange), errors.Is(err, generateSlots.ErrInvalidInput):
			h.logger.Warn("POST /schedules/{id}/generate-slots - Invalid date range: schedule_id=%d, error=%v",
				scheduleID, err)
			handlers.RespondBadRequest(w, msgInvalidDateRange)

		default:
			h.logger.Error("POST /schedules/{id}/generate-slots - Failed to generate slots: schedule_id=%d, error=%v",
				scheduleID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /schedules/{id}/generate-slots - Generated slots: schedule_id=%d, created=%d, skipped=%d",
		scheduleID, result.Created, result.Skipped)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}

package update_schedule

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/service/schedules"
	"github.com/m04kA/SMC-SchedulingService/internal/service/schedules/models"
)

const (
	msgInvalidScheduleID  = "некорректный ID расписания"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidData        = "некорректные данные расписания"
	msgNotFound           = "расписание не найдено"
)

type Handler struct {
	service ScheduleService
	logger  Logger
}

func NewHandler(service ScheduleService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/schedules/{scheduleId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	scheduleID, err := strconv.ParseInt(vars["scheduleId"], 10, 64)
	if err != nil {
		h.logger.Warn("PATCH /schedules/{id} - Invalid schedule ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidScheduleID)
		return
	}

	var req models.UpdateScheduleRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /schedules/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Update(r.Context(), scheduleID, &req)
	if err != nil {
		switch {
		case errors.Is(err, schedules.ErrScheduleNotFound):
			h.logger.Warn("PATCH /schedules/{id} - Schedule not found: schedule_id=%d", scheduleID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, schedules.ErrInvalidInput):
			h.logger.Warn("PATCH /schedules/{id} - Invalid schedule data: schedule_id=%d, error=%v", scheduleID, err)
			handlers.RespondBadRequest(w, msgInvalidData)

		default:
			h.logger.Error("PATCH /schedules/{id} - Failed to update schedule: schedule_id=%d, error=%v",
				scheduleID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /schedules/{id} - Schedule updated successfully: schedule_id=%d", scheduleID)
	handlers.RespondJSON(w, http.StatusOK, result)
}

package delete_schedule

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/service/schedules"
)

const (
	msgInvalidScheduleID = "некорректный ID расписания"
	msgNotFound          = "расписание не найдено"
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

// Handle DELETE /api/v1/schedules/{scheduleId}
// Удаляет расписание вместе со всеми его слотами
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	scheduleID, err := strconv.ParseInt(vars["scheduleId"], 10, 64)
	if err != nil {
		h.logger.Warn("DELETE /schedules/{id} - Invalid schedule ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidScheduleID)
		return
	}

	if err := h.service.Delete(r.Context(), scheduleID); err != nil {
		switch {
		case errors.Is(err, schedules.ErrScheduleNotFound):
			h.logger.Warn("DELETE /schedules/{id} - Schedule not found: schedule_id=%d", scheduleID)
			handlers.RespondNotFound(w, msgNotFound)

		default:
			h.logger.Error("DELETE /schedules/{id} - Failed to delete schedule: schedule_id=%d, error=%v",
				scheduleID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /schedules/{id} - Schedule deleted successfully: schedule_id=%d", scheduleID)
	handlers.RespondJSON(w, http.StatusNoContent, nil)
}

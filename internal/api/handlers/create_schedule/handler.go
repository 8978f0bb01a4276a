package create_schedule

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/service/schedules"
	"github.com/m04kA/SMC-SchedulingService/internal/service/schedules/models"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidData        = "некорректные данные расписания"
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

// Handle POST /api/v1/schedules
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req models.CreateScheduleRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /schedules - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Create(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, schedules.ErrInvalidInput):
			h.logger.Warn("POST /schedules - Invalid schedule data: company_id=%d, error=%v", req.CompanyID, err)
			handlers.RespondBadRequest(w, msgInvalidData)

		default:
			h.logger.Error("POST /schedules - Failed to create schedule: company_id=%d, error=%v", req.CompanyID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /schedules - Schedule created successfully: schedule_id=%d, company_id=%d",
		result.ID, result.CompanyID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}

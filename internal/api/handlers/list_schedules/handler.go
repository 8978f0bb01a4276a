package list_schedules

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/service/schedules"
)

const (
	msgInvalidCompanyID = "некорректный ID компании"
	msgInvalidServiceID = "некорректный ID услуги"
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

// Handle GET /api/v1/companies/{companyId}/schedules?serviceId=N
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	companyID, err := strconv.ParseInt(vars["companyId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /companies/{id}/schedules - Invalid company ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidCompanyID)
		return
	}

	var serviceID *int64
	if raw := r.URL.Query().Get("serviceId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			h.logger.Warn("GET /companies/{id}/schedules - Invalid service ID: %v", err)
			handlers.RespondBadRequest(w, msgInvalidServiceID)
			return
		}
		serviceID = &id
	}

	result, err := h.service.ListByCompany(r.Context(), companyID, serviceID)
	if err != nil {
		switch {
		case errors.Is(err, schedules.ErrInvalidInput):
			h.logger.Warn("GET /companies/{id}/schedules - Invalid input: company_id=%d, error=%v", companyID, err)
			handlers.RespondBadRequest(w, msgInvalidCompanyID)

		default:
			h.logger.Error("GET /companies/{id}/schedules - Failed to list schedules: company_id=%d, error=%v",
				companyID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /companies/{id}/schedules - Retrieved %d schedules: company_id=%d",
		len(result.Schedules), companyID)
	handlers.RespondJSON(w, http.StatusOK, result)
}

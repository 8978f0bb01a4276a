package get_available_slots

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/service/slots"
	"github.com/m04kA/SMC-SchedulingService/internal/service/slots/models"
)

const (
	msgInvalidQuery  = "некорректные параметры запроса"
	msgMissingFilter = "требуется scheduleId, serviceId или companyId"
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

// Handle GET /api/v1/slots?scheduleId=&serviceId=&companyId=&from=&to=&onlyAvailable=
// Чтение без побочных эффектов; from/to в формате RFC3339
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	req, err := parseQuery(r)
	if err != nil {
		h.logger.Warn("GET /slots - Invalid query: %v", err)
		handlers.RespondBadRequest(w, msgInvalidQuery)
		return
	}

	result, err := h.service.List(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, slots.ErrInvalidInput):
			h.logger.Warn("GET /slots - Missing filter: %v", err)
			handlers.RespondBadRequest(w, msgMissingFilter)

		default:
			h.logger.Error("GET /slots - Failed to list slots: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /slots - Retrieved %d slots", len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, result)
}

func parseQuery(r *http.Request) (*models.ListSlotsRequest, error) {
	q := r.URL.Query()
	req := &models.ListSlotsRequest{}

	for param, dst := range map[string]**int64{
		"scheduleId": &req.ScheduleID,
		"serviceId":  &req.ServiceID,
		"companyId":  &req.CompanyID,
	} {
		if raw := q.Get(param); raw != "" {
			id, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				return nil, err
			}
			*dst = &id
		}
	}

	for param, dst := range map[string]**time.Time{
		"from": &req.StartTime,
		"to":   &req.EndTime,
	} {
		if raw := q.Get(param); raw != "" {
			ts, err := time.Parse(time.RFC3339, raw)
			if err != nil {
				return nil, err
			}
			*dst = &ts
		}
	}

	if raw := q.Get("onlyAvailable"); raw != "" {
		onlyAvailable, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, err
		}
		req.OnlyAvailable = onlyAvailable
	}

	return req, nil
}

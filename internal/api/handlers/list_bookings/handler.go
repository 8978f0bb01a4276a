package list_bookings

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/api/middleware"
	"github.com/m04kA/SMC-SchedulingService/internal/service/bookings"
	"github.com/m04kA/SMC-SchedulingService/internal/service/bookings/models"
)

const (
	msgInvalidQuery  = "некорректные параметры запроса"
	msgUnauthorized  = "требуется авторизация"
	msgMissingFilter = "требуется companyId или serviceId"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/bookings?companyId=&serviceId=&staffId=&from=&to=&onlyActive=
// Без фильтра по компании или услуге возвращает бронирования текущего пользователя
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /bookings - Missing user ID in context")
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	req, err := parseQuery(r)
	if err != nil {
		h.logger.Warn("GET /bookings - Invalid query: %v", err)
		handlers.RespondBadRequest(w, msgInvalidQuery)
		return
	}

	if req.CompanyID == nil && req.ServiceID == nil {
		req.UserID = &userID
	}

	result, err := h.service.List(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrInvalidInput):
			h.logger.Warn("GET /bookings - Missing filter: %v", err)
			handlers.RespondBadRequest(w, msgMissingFilter)

		default:
			h.logger.Error("GET /bookings - Failed to list bookings: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /bookings - Retrieved %d bookings", len(result.Bookings))
	handlers.RespondJSON(w, http.StatusOK, result)
}

func parseQuery(r *http.Request) (*models.ListBookingsRequest, error) {
	q := r.URL.Query()
	req := &models.ListBookingsRequest{}

	for param, dst := range map[string]**int64{
		"companyId": &req.CompanyID,
		"serviceId": &req.ServiceID,
		"staffId":   &req.StaffID,
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

	if raw := q.Get("onlyActive"); raw != "" {
		onlyActive, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, err
		}
		req.OnlyActive = onlyActive
	}

	return req, nil
}

package list_reservations

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ReservationService/internal/api/handlers"
	"github.com/m04kA/SMC-ReservationService/internal/service/reservations"
)

const (
	msgInvalidBusinessID = "некорректный ID бизнеса"
	msgInvalidParams     = "некорректные параметры запроса"
	msgBusinessNotFound  = "бизнес не найден"
)

type Handler struct {
	service ReservationService
	logger  Logger
}

func NewHandler(service ReservationService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/businesses/{businessId}/reservations
// Query params: from, to (YYYY-MM-DD, to включительно), status, limit, offset (опционально)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	businessID, err := handlers.PathInt64(r, "businessId")
	if err != nil {
		h.logger.Warn("GET /businesses/{id}/reservations - Invalid business ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBusinessID)
		return
	}

	query := r.URL.Query()
	serviceReq, err := ToServiceRequest(
		businessID,
		handlers.QueryString(r, "from"),
		handlers.QueryString(r, "to"),
		handlers.QueryString(r, "status"),
		query.Get("limit"),
		query.Get("offset"),
	)
	if err != nil {
		h.logger.Warn("GET /businesses/{id}/reservations - Invalid parameters: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	result, err := h.service.ListByBusiness(r.Context(), serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, reservations.ErrInvalidInput):
			h.logger.Warn("GET /businesses/{id}/reservations - Invalid filter: business_id=%d, error=%v", businessID, err)
			handlers.RespondBadRequest(w, msgInvalidParams)

		case errors.Is(err, reservations.ErrBusinessNotFound):
			h.logger.Warn("GET /businesses/{id}/reservations - Business not found: business_id=%d", businessID)
			handlers.RespondNotFound(w, msgBusinessNotFound)

		default:
			h.logger.Error("GET /businesses/{id}/reservations - Failed to list reservations: business_id=%d, error=%v",
				businessID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /businesses/{id}/reservations - Reservations retrieved: business_id=%d, count=%d",
		businessID, result.Total)
	handlers.RespondJSON(w, http.StatusOK, result)
}

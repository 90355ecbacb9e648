package list_services

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ReservationService/internal/api/handlers"
	"github.com/m04kA/SMC-ReservationService/internal/service/business"
)

const (
	msgInvalidBusinessID = "некорректный ID бизнеса"
	msgBusinessNotFound  = "бизнес не найден"
)

type Handler struct {
	service BusinessService
	logger  Logger
}

func NewHandler(service BusinessService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/businesses/{businessId}/services
// Возвращает только активные услуги
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	businessID, err := handlers.PathInt64(r, "businessId")
	if err != nil {
		h.logger.Warn("GET /businesses/{id}/services - Invalid business ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBusinessID)
		return
	}

	result, err := h.service.ListServices(r.Context(), businessID)
	if err != nil {
		if errors.Is(err, business.ErrBusinessNotFound) {
			h.logger.Warn("GET /businesses/{id}/services - Business not found: business_id=%d", businessID)
			handlers.RespondNotFound(w, msgBusinessNotFound)
			return
		}
		h.logger.Error("GET /businesses/{id}/services - Failed to list services: business_id=%d, error=%v", businessID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /businesses/{id}/services - Services retrieved: business_id=%d, count=%d",
		businessID, len(result.Services))
	handlers.RespondJSON(w, http.StatusOK, result)
}

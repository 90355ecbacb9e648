package update_business_config

import (
	"errors"
	"net/http"
	"strings"

	"github.com/m04kA/SMC-ReservationService/internal/api/handlers"
	"github.com/m04kA/SMC-ReservationService/internal/service/business"
	"github.com/m04kA/SMC-ReservationService/internal/service/business/models"
)

const (
	msgInvalidBusinessID  = "некорректный ID бизнеса"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidConfig      = "некорректная конфигурация"
	msgBusinessNotFound   = "бизнес не найден"
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

// Handle PUT /api/v1/businesses/{businessId}/config
// Переданные поля сливаются с текущей конфигурацией, результат проверяется целиком
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	businessID, err := handlers.PathInt64(r, "businessId")
	if err != nil {
		h.logger.Warn("PUT /businesses/{id}/config - Invalid business ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBusinessID)
		return
	}

	var req models.ConfigRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /businesses/{id}/config - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.UpdateConfig(r.Context(), businessID, &req)
	if err != nil {
		switch {
		case errors.Is(err, business.ErrInvalidInput):
			h.logger.Warn("PUT /businesses/{id}/config - Invalid config: business_id=%d, error=%v", businessID, err)
			handlers.RespondBadRequest(w, msgInvalidConfig+": "+strings.TrimPrefix(err.Error(), business.ErrInvalidInput.Error()+": "))

		case errors.Is(err, business.ErrBusinessNotFound):
			h.logger.Warn("PUT /businesses/{id}/config - Business not found: business_id=%d", businessID)
			handlers.RespondNotFound(w, msgBusinessNotFound)

		default:
			h.logger.Error("PUT /businesses/{id}/config - Failed to update config: business_id=%d, error=%v", businessID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /businesses/{id}/config - Config updated: business_id=%d", businessID)
	handlers.RespondJSON(w, http.StatusOK, result)
}

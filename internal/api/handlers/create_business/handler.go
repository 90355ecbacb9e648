package create_business

import (
	"errors"
	"net/http"
	"strings"

	"github.com/m04kA/SMC-ReservationService/internal/api/handlers"
	"github.com/m04kA/SMC-ReservationService/internal/service/business"
	"github.com/m04kA/SMC-ReservationService/internal/service/business/models"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidConfig      = "некорректная конфигурация"
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

// Handle POST /api/v1/businesses
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req models.ConfigRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /businesses - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.CreateBusiness(r.Context(), &req)
	if err != nil {
		if errors.Is(err, business.ErrInvalidInput) {
			h.logger.Warn("POST /businesses - Invalid config: %v", err)
			handlers.RespondBadRequest(w, msgInvalidConfig+": "+strings.TrimPrefix(err.Error(), business.ErrInvalidInput.Error()+": "))
			return
		}
		h.logger.Error("POST /businesses - Failed to create business: error=%v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("POST /businesses - Business created: business_id=%d", result.ID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}

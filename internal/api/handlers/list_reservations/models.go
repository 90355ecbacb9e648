package list_reservations

import (
	"strconv"

	"github.com/m04kA/SMC-ReservationService/internal/service/reservations/models"
)

// ToServiceRequest собирает запрос сервиса из query параметров
// Пустые значения фильтров считаются отсутствующими
func ToServiceRequest(businessID int64, from, to, status *string, limitStr, offsetStr string) (*models.ListReservationsRequest, error) {
	req := &models.ListReservationsRequest{
		BusinessID: businessID,
		From:       from,
		To:         to,
		Status:     status,
	}

	if limitStr != "" {
		limit, err := strconv.ParseUint(limitStr, 10, 64)
		if err != nil {
			return nil, err
		}
		req.Limit = limit
	}

	if offsetStr != "" {
		offset, err := strconv.ParseUint(offsetStr, 10, 64)
		if err != nil {
			return nil, err
		}
		req.Offset = offset
	}

	return req, nil
}

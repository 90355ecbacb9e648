package get_available_slots

import (
	"fmt"
	"strings"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.BusinessID <= 0 {
		return fmt.Errorf("%w: businessID must be positive", ErrInvalidInput)
	}

	if req.ServiceID != nil && *req.ServiceID <= 0 {
		return fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
	}

	if strings.TrimSpace(req.Date) == "" {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	return nil
}

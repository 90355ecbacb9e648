package create_reservation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

var (
	emailRegexp = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,63}$`)
	phoneRegexp = regexp.MustCompile(`^\+?[0-9 ()-]{7,20}$`)

	validate = validator.New()
)

// normalizeRequest убирает пробелы по краям и пустые опциональные поля
func normalizeRequest(req *Request) {
	req.CustomerName = strings.TrimSpace(req.CustomerName)
	req.CustomerEmail = strings.ToLower(strings.TrimSpace(req.CustomerEmail))
	req.Date = strings.TrimSpace(req.Date)
	req.Time = strings.TrimSpace(req.Time)

	if req.CustomerPhone != nil {
		phone := strings.TrimSpace(*req.CustomerPhone)
		if phone == "" {
			req.CustomerPhone = nil
		} else {
			req.CustomerPhone = &phone
		}
	}
	if req.Notes != nil && strings.TrimSpace(*req.Notes) == "" {
		req.Notes = nil
	}
}

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.BusinessID <= 0 {
		return fmt.Errorf("%w: businessID must be positive", ErrInvalidInput)
	}

	if req.ServiceID != nil && *req.ServiceID <= 0 {
		return fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
	}

	nameLen := len([]rune(req.CustomerName))
	if nameLen < domain.MinCustomerNameLength || nameLen > domain.MaxCustomerNameLength {
		return fmt.Errorf("%w: name must be %d..%d characters",
			ErrInvalidInput, domain.MinCustomerNameLength, domain.MaxCustomerNameLength)
	}

	if req.CustomerEmail != "" || !req.ByAdmin {
		if err := validateEmail(req.CustomerEmail); err != nil {
			return err
		}
	}

	if req.CustomerPhone != nil && !phoneRegexp.MatchString(*req.CustomerPhone) {
		return fmt.Errorf("%w: %q", ErrInvalidPhone, *req.CustomerPhone)
	}

	if req.Date == "" {
		return fmt.Errorf("%w: date is required", ErrInvalidDate)
	}

	if err := types.TimeString(req.Time).Validate(); err != nil || req.Time == "24:00" {
		return fmt.Errorf("%w: %q", ErrInvalidTime, req.Time)
	}

	return nil
}

// validateEmail проверяет email тегом validator и регулярным выражением
func validateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("%w: email is required", ErrInvalidEmail)
	}
	if err := validate.Var(email, "required,email,max=255"); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidEmail, email)
	}
	if !emailRegexp.MatchString(email) {
		return fmt.Errorf("%w: %q", ErrInvalidEmail, email)
	}
	return nil
}

// validateBusinessRules проверяет дату и время брони по конфигурации бизнеса
func validateBusinessRules(cfg *domain.BusinessConfig, req *Request, durationMinutes int) error {
	loc := cfg.Location()

	date, err := domain.ParseDate(req.Date, loc)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidDate, req.Date)
	}

	if cfg.IsBlocked(date) {
		return fmt.Errorf("%w: %s", ErrDateBlocked, req.Date)
	}

	start, _ := types.TimeString(req.Time).Minutes()
	ranges := cfg.OpenRangesFor(date)

	if _, ok := domain.FindRange(ranges, start, durationMinutes); !ok {
		return fmt.Errorf("%w: %s %s for %d minutes", ErrOutsideOpenHours, req.Date, req.Time, durationMinutes)
	}

	if !domain.IsValidSlotStart(ranges, start, durationMinutes, cfg.Granularity()) {
		return fmt.Errorf("%w: %s", ErrInvalidSlotStart, req.Time)
	}

	return nil
}

package models

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

// Request модели

// TimeRange интервал в формате "HH:MM"
type TimeRange struct {
	Start string `json:"start" validate:"required"`
	End   string `json:"end" validate:"required"`
}

// Service услуга бизнеса
// ID = 0 (или не передан) создаёт новую услугу
type Service struct {
	ID              int64            `json:"id,omitempty"`
	Name            string           `json:"name" validate:"required,max=100"`
	DurationMinutes int              `json:"durationMinutes" validate:"required,gt=0"`
	Price           *decimal.Decimal `json:"price,omitempty"`
	Active          *bool            `json:"active,omitempty"`
}

// ConfigRequest запрос на создание или обновление конфигурации бизнеса
// При обновлении поля с nil не меняются; переданные списки заменяют текущие целиком
type ConfigRequest struct {
	Name                    *string             `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	Timezone                *string             `json:"timezone,omitempty"`
	Services                *[]Service          `json:"services,omitempty" validate:"omitempty,dive"`
	Weekly                  map[int][]TimeRange `json:"weeklySchedule,omitempty" validate:"omitempty,dive,dive"`
	MaxReservationsPerSlot  *int                `json:"maxReservationsPerSlot,omitempty" validate:"omitempty,min=1,max=100"`
	DefaultServiceDuration  *int                `json:"defaultServiceDuration,omitempty" validate:"omitempty,min=5,max=480"`
	SlotGranularityMinutes  *int                `json:"slotGranularityMinutes,omitempty" validate:"omitempty,min=5,max=1440"`
	ConfirmationWindowHours *int                `json:"confirmationWindowHours,omitempty" validate:"omitempty,min=1,max=336"`
	PhoneRequired           *bool               `json:"phoneRequired,omitempty"`
	AdminEmail              *string             `json:"adminEmail,omitempty" validate:"omitempty,email"`
}

// ApplyTo переносит переданные поля запроса в конфигурацию
func (r *ConfigRequest) ApplyTo(cfg *domain.BusinessConfig) error {
	if r.Name != nil {
		cfg.Name = *r.Name
	}
	if r.Timezone != nil {
		cfg.Timezone = *r.Timezone
	}
	if r.MaxReservationsPerSlot != nil {
		cfg.MaxReservationsPerSlot = *r.MaxReservationsPerSlot
	}
	if r.DefaultServiceDuration != nil {
		cfg.DefaultServiceDuration = *r.DefaultServiceDuration
	}
	if r.SlotGranularityMinutes != nil {
		cfg.SlotGranularityMinutes = *r.SlotGranularityMinutes
	}
	if r.ConfirmationWindowHours != nil {
		cfg.ConfirmationWindow = time.Duration(*r.ConfirmationWindowHours) * time.Hour
	}
	if r.PhoneRequired != nil {
		cfg.PhoneRequired = *r.PhoneRequired
	}
	if r.AdminEmail != nil {
		email := NormalizeEmail(*r.AdminEmail)
		cfg.AdminEmail = &email
	}

	if r.Services != nil {
		services := make([]domain.Service, 0, len(*r.Services))
		for _, s := range *r.Services {
			active := true
			if s.Active != nil {
				active = *s.Active
			}
			services = append(services, domain.Service{
				ID:              s.ID,
				BusinessID:      cfg.ID,
				Name:            s.Name,
				DurationMinutes: s.DurationMinutes,
				Price:           s.Price,
				Active:          active,
			})
		}
		cfg.Services = services
	}

	if r.Weekly != nil {
		weekly := domain.WeeklySchedule{}
		for day, ranges := range r.Weekly {
			if day < 0 || day > 6 {
				return fmt.Errorf("%w: %d", domain.ErrInvalidWeekday, day)
			}
			for _, tr := range ranges {
				parsed, err := domain.NewTimeRange(tr.Start, tr.End)
				if err != nil {
					return err
				}
				weekly[time.Weekday(day)] = append(weekly[time.Weekday(day)], parsed)
			}
		}
		cfg.Weekly = weekly
	}

	return nil
}

// BlockedDateRequest запрос на блокировку даты
type BlockedDateRequest struct {
	Date   string  `json:"date" validate:"required,datetime=2006-01-02"`
	Reason *string `json:"reason,omitempty" validate:"omitempty,max=255"`
}

// SpecialScheduleRequest запрос на создание особого расписания
type SpecialScheduleRequest struct {
	Date   string `json:"date" validate:"required,datetime=2006-01-02"`
	Start  string `json:"start" validate:"required"`
	End    string `json:"end" validate:"required"`
	Active *bool  `json:"active,omitempty"`
}

// ToDomain конвертирует запрос в доменную модель
func (r *SpecialScheduleRequest) ToDomain(businessID int64) (*domain.SpecialSchedule, error) {
	date, err := domain.ParseDate(r.Date, time.UTC)
	if err != nil {
		return nil, err
	}
	tr, err := domain.NewTimeRange(r.Start, r.End)
	if err != nil {
		return nil, err
	}
	active := true
	if r.Active != nil {
		active = *r.Active
	}
	return &domain.SpecialSchedule{
		BusinessID: businessID,
		Date:       date,
		Range:      tr,
		Active:     active,
	}, nil
}

// Response модели

// ServiceResponse услуга бизнеса
type ServiceResponse struct {
	ID              int64            `json:"id"`
	Name            string           `json:"name"`
	DurationMinutes int              `json:"durationMinutes"`
	Price           *decimal.Decimal `json:"price,omitempty"`
	Active          bool             `json:"active"`
}

// ServiceListResponse список услуг
type ServiceListResponse struct {
	Services []ServiceResponse `json:"services"`
}

// SpecialScheduleResponse особое расписание
type SpecialScheduleResponse struct {
	ID     int64  `json:"id"`
	Date   string `json:"date"`
	Start  string `json:"start"`
	End    string `json:"end"`
	Active bool   `json:"active"`
}

// BlockedDateResponse заблокированная дата
type BlockedDateResponse struct {
	Date   string  `json:"date"`
	Reason *string `json:"reason,omitempty"`
}

// ConfigResponse полная конфигурация бизнеса
type ConfigResponse struct {
	ID                      int64                     `json:"id"`
	Name                    string                    `json:"name"`
	Timezone                string                    `json:"timezone"`
	Services                []ServiceResponse         `json:"services"`
	Weekly                  map[int][]TimeRange       `json:"weeklySchedule"`
	SpecialSchedules        []SpecialScheduleResponse `json:"specialSchedules"`
	BlockedDates            []BlockedDateResponse     `json:"blockedDates"`
	MaxReservationsPerSlot  int                       `json:"maxReservationsPerSlot"`
	DefaultServiceDuration  int                       `json:"defaultServiceDuration"`
	SlotGranularityMinutes  int                       `json:"slotGranularityMinutes"`
	ConfirmationWindowHours int                       `json:"confirmationWindowHours"`
	PhoneRequired           bool                      `json:"phoneRequired"`
	AdminEmail              *string                   `json:"adminEmail,omitempty"`
	CreatedAt               time.Time                 `json:"createdAt"`
	UpdatedAt               time.Time                 `json:"updatedAt"`
}

// Методы конвертации

// FromDomainService конвертирует услугу в DTO
func FromDomainService(s domain.Service) ServiceResponse {
	return ServiceResponse{
		ID:              s.ID,
		Name:            s.Name,
		DurationMinutes: s.DurationMinutes,
		Price:           s.Price,
		Active:          s.Active,
	}
}

// FromDomainServices конвертирует список услуг в DTO
func FromDomainServices(services []domain.Service) *ServiceListResponse {
	resp := &ServiceListResponse{Services: make([]ServiceResponse, 0, len(services))}
	for _, s := range services {
		resp.Services = append(resp.Services, FromDomainService(s))
	}
	return resp
}

// FromDomainSpecial конвертирует особое расписание в DTO
func FromDomainSpecial(s domain.SpecialSchedule) SpecialScheduleResponse {
	return SpecialScheduleResponse{
		ID:     s.ID,
		Date:   domain.DateKey(s.Date),
		Start:  s.Range.StartString().String(),
		End:    s.Range.EndString().String(),
		Active: s.Active,
	}
}

// FromDomainSpecials конвертирует список особых расписаний в DTO
func FromDomainSpecials(list []domain.SpecialSchedule) []SpecialScheduleResponse {
	resp := make([]SpecialScheduleResponse, 0, len(list))
	for _, s := range list {
		resp = append(resp, FromDomainSpecial(s))
	}
	return resp
}

// FromDomainBlocked конвертирует список заблокированных дат в DTO
func FromDomainBlocked(list []domain.BlockedDate) []BlockedDateResponse {
	resp := make([]BlockedDateResponse, 0, len(list))
	for _, b := range list {
		resp = append(resp, BlockedDateResponse{Date: domain.DateKey(b.Date), Reason: b.Reason})
	}
	return resp
}

// FromDomainConfig конвертирует конфигурацию в DTO
func FromDomainConfig(cfg *domain.BusinessConfig) *ConfigResponse {
	if cfg == nil {
		return nil
	}

	weekly := make(map[int][]TimeRange, len(cfg.Weekly))
	days := make([]int, 0, len(cfg.Weekly))
	for day := range cfg.Weekly {
		days = append(days, int(day))
	}
	sort.Ints(days)
	for _, day := range days {
		for _, tr := range cfg.Weekly[time.Weekday(day)] {
			weekly[day] = append(weekly[day], TimeRange{
				Start: tr.StartString().String(),
				End:   tr.EndString().String(),
			})
		}
	}

	services := make([]ServiceResponse, 0, len(cfg.Services))
	for _, s := range cfg.Services {
		services = append(services, FromDomainService(s))
	}

	return &ConfigResponse{
		ID:                      cfg.ID,
		Name:                    cfg.Name,
		Timezone:                cfg.Timezone,
		Services:                services,
		Weekly:                  weekly,
		SpecialSchedules:        FromDomainSpecials(cfg.Special),
		BlockedDates:            FromDomainBlocked(cfg.Blocked),
		MaxReservationsPerSlot:  cfg.MaxReservationsPerSlot,
		DefaultServiceDuration:  cfg.DefaultServiceDuration,
		SlotGranularityMinutes:  cfg.SlotGranularityMinutes,
		ConfirmationWindowHours: int(cfg.ConfirmationWindow / time.Hour),
		PhoneRequired:           cfg.PhoneRequired,
		AdminEmail:              cfg.AdminEmail,
		CreatedAt:               cfg.CreatedAt,
		UpdatedAt:               cfg.UpdatedAt,
	}
}

// NormalizeEmail приводит email к нижнему регистру без пробелов
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

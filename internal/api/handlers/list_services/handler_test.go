package list_services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-ReservationService/internal/service/business"
	"github.com/m04kA/SMC-ReservationService/internal/service/business/models"
	"github.com/m04kA/SMC-ReservationService/pkg/logger"
)

type fakeService struct {
	err error
}

func (f *fakeService) ListServices(context.Context, int64) (*models.ServiceListResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.ServiceListResponse{Services: []models.ServiceResponse{{ID: 1, Name: "Corte", DurationMinutes: 30, Active: true}}}, nil
}

func get(svc BusinessService, target string) *httptest.ResponseRecorder {
	router := mux.NewRouter()
	router.HandleFunc("/businesses/{businessId}/services", NewHandler(svc, logger.NewNop()).Handle)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHandler(t *testing.T) {
	rec := get(&fakeService{}, "/businesses/1/services")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"services":[{"id":1,"name":"Corte","durationMinutes":30,"active":true}]}`, rec.Body.String())

	assert.Equal(t, http.StatusBadRequest, get(&fakeService{}, "/businesses/abc/services").Code)
	assert.Equal(t, http.StatusNotFound, get(&fakeService{err: business.ErrBusinessNotFound}, "/businesses/1/services").Code)
}

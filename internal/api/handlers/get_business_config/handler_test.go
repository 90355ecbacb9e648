package get_business_config

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

func (f *fakeService) GetConfig(_ context.Context, businessID int64) (*models.ConfigResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.ConfigResponse{ID: businessID, Name: "Peluquería", Timezone: "Europe/Madrid"}, nil
}

func get(svc BusinessService, target string) *httptest.ResponseRecorder {
	router := mux.NewRouter()
	router.HandleFunc("/businesses/{businessId}/config", NewHandler(svc, logger.NewNop()).Handle)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHandler(t *testing.T) {
	rec := get(&fakeService{}, "/businesses/1/config")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"timezone":"Europe/Madrid"`)

	assert.Equal(t, http.StatusBadRequest, get(&fakeService{}, "/businesses/0/config").Code)
	assert.Equal(t, http.StatusNotFound, get(&fakeService{err: business.ErrBusinessNotFound}, "/businesses/1/config").Code)
	assert.Equal(t, http.StatusInternalServerError, get(&fakeService{err: business.ErrInternal}, "/businesses/1/config").Code)
}

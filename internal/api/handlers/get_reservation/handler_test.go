package get_reservation

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ReservationService/internal/service/reservations"
	"github.com/m04kA/SMC-ReservationService/internal/service/reservations/models"
	"github.com/m04kA/SMC-ReservationService/pkg/logger"
)

type fakeService struct {
	err error
}

func (f *fakeService) Get(_ context.Context, id int64) (*models.ReservationResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.ReservationResponse{ID: id, Date: "2025-03-10", Time: "09:00", EndTime: "09:30", Status: "pending"}, nil
}

func serve(svc ReservationService, target string) *httptest.ResponseRecorder {
	router := mux.NewRouter()
	router.HandleFunc("/reservations/{reservationId}", NewHandler(svc, logger.NewNop()).Handle)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHandler(t *testing.T) {
	rec := serve(&fakeService{}, "/reservations/12")

	require.Equal(t, http.StatusOK, rec.Code)
	var body models.ReservationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, int64(12), body.ID)
	assert.Equal(t, "09:00", body.Time)
}

func TestHandler_Errors(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, serve(&fakeService{}, "/reservations/abc").Code)
	assert.Equal(t, http.StatusNotFound, serve(&fakeService{err: reservations.ErrReservationNotFound}, "/reservations/12").Code)
	assert.Equal(t, http.StatusInternalServerError, serve(&fakeService{err: reservations.ErrInternal}, "/reservations/12").Code)
}

package special_schedules

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ReservationService/internal/service/business"
	"github.com/m04kA/SMC-ReservationService/internal/service/business/models"
	"github.com/m04kA/SMC-ReservationService/pkg/logger"
)

type fakeService struct {
	addErr    error
	removeErr error
}

func (f *fakeService) ListSpecialSchedules(context.Context, int64) ([]models.SpecialScheduleResponse, error) {
	return []models.SpecialScheduleResponse{{ID: 1, Date: "2025-03-11", Start: "10:00", End: "12:00", Active: true}}, nil
}

func (f *fakeService) AddSpecialSchedule(_ context.Context, _ int64, req *models.SpecialScheduleRequest) (*models.SpecialScheduleResponse, error) {
	if f.addErr != nil {
		return nil, f.addErr
	}
	return &models.SpecialScheduleResponse{ID: 7, Date: req.Date, Start: req.Start, End: req.End, Active: true}, nil
}

func (f *fakeService) RemoveSpecialSchedule(context.Context, int64, int64) error {
	return f.removeErr
}

func newRouter(svc BusinessService) *mux.Router {
	h := NewHandler(svc, logger.NewNop())
	router := mux.NewRouter()
	router.HandleFunc("/businesses/{businessId}/special-schedules", h.List).Methods(http.MethodGet)
	router.HandleFunc("/businesses/{businessId}/special-schedules", h.Add).Methods(http.MethodPost)
	router.HandleFunc("/businesses/{businessId}/special-schedules/{scheduleId}", h.Remove).Methods(http.MethodDelete)
	return router
}

func do(router http.Handler, method, target, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(method, target, strings.NewReader(body)))
	return rec
}

const body = `{"date":"2025-03-11","start":"10:00","end":"12:00"}`

func TestList(t *testing.T) {
	rec := do(newRouter(&fakeService{}), http.MethodGet, "/businesses/1/special-schedules", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var list []models.SpecialScheduleResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, "10:00", list[0].Start)
}

func TestAdd(t *testing.T) {
	rec := do(newRouter(&fakeService{}), http.MethodPost, "/businesses/1/special-schedules", body)

	require.Equal(t, http.StatusCreated, rec.Code)
	var created models.SpecialScheduleResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, int64(7), created.ID)
}

func TestAdd_Errors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "duplicate", err: business.ErrDuplicateSpecialSchedule, want: http.StatusConflict},
		{name: "invalid range", err: fmt.Errorf("%w: start must be before end", business.ErrInvalidInput), want: http.StatusBadRequest},
		{name: "business not found", err: business.ErrBusinessNotFound, want: http.StatusNotFound},
		{name: "internal", err: business.ErrInternal, want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(newRouter(&fakeService{addErr: tt.err}), http.MethodPost, "/businesses/1/special-schedules", body)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestRemove(t *testing.T) {
	assert.Equal(t, http.StatusNoContent,
		do(newRouter(&fakeService{}), http.MethodDelete, "/businesses/1/special-schedules/7", "").Code)
	assert.Equal(t, http.StatusNotFound,
		do(newRouter(&fakeService{removeErr: business.ErrSpecialScheduleNotFound}), http.MethodDelete, "/businesses/1/special-schedules/7", "").Code)
	assert.Equal(t, http.StatusBadRequest,
		do(newRouter(&fakeService{}), http.MethodDelete, "/businesses/1/special-schedules/x", "").Code)
}

package blocked_dates

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ReservationService/internal/service/business"
	"github.com/m04kA/SMC-ReservationService/internal/service/business/models"
	"github.com/m04kA/SMC-ReservationService/pkg/logger"
)

type fakeService struct {
	listFn   func(ctx context.Context, businessID int64) ([]models.BlockedDateResponse, error)
	addFn    func(ctx context.Context, businessID int64, req *models.BlockedDateRequest) error
	removeFn func(ctx context.Context, businessID int64, date time.Time) error
}

func (f *fakeService) ListBlockedDates(ctx context.Context, businessID int64) ([]models.BlockedDateResponse, error) {
	return f.listFn(ctx, businessID)
}

func (f *fakeService) AddBlockedDate(ctx context.Context, businessID int64, req *models.BlockedDateRequest) error {
	return f.addFn(ctx, businessID, req)
}

func (f *fakeService) RemoveBlockedDate(ctx context.Context, businessID int64, date time.Time) error {
	return f.removeFn(ctx, businessID, date)
}

func newRouter(svc BusinessService) *mux.Router {
	h := NewHandler(svc, logger.NewNop())
	router := mux.NewRouter()
	router.HandleFunc("/businesses/{businessId}/blocked-dates", h.List).Methods(http.MethodGet)
	router.HandleFunc("/businesses/{businessId}/blocked-dates", h.Add).Methods(http.MethodPost)
	router.HandleFunc("/businesses/{businessId}/blocked-dates/{date}", h.Remove).Methods(http.MethodDelete)
	return router
}

func do(router http.Handler, method, target, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(method, target, strings.NewReader(body)))
	return rec
}

func TestList(t *testing.T) {
	svc := &fakeService{listFn: func(_ context.Context, businessID int64) ([]models.BlockedDateResponse, error) {
		if businessID == 404 {
			return nil, business.ErrBusinessNotFound
		}
		return []models.BlockedDateResponse{{Date: "2025-12-25"}}, nil
	}}
	router := newRouter(svc)

	rec := do(router, http.MethodGet, "/businesses/1/blocked-dates", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"date":"2025-12-25"}]`, rec.Body.String())

	assert.Equal(t, http.StatusNotFound, do(router, http.MethodGet, "/businesses/404/blocked-dates", "").Code)
}

func TestAdd(t *testing.T) {
	var got *models.BlockedDateRequest
	svc := &fakeService{addFn: func(_ context.Context, _ int64, req *models.BlockedDateRequest) error {
		got = req
		if req.Date == "bad" {
			return fmt.Errorf("%w: invalid date", business.ErrInvalidInput)
		}
		return nil
	}}
	router := newRouter(svc)

	rec := do(router, http.MethodPost, "/businesses/1/blocked-dates", `{"date":"2025-12-25","reason":"Navidad"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, got)
	assert.Equal(t, "2025-12-25", got.Date)
	require.NotNil(t, got.Reason)
	assert.Equal(t, "Navidad", *got.Reason)

	assert.Equal(t, http.StatusBadRequest, do(router, http.MethodPost, "/businesses/1/blocked-dates", `{"date":"bad"}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(router, http.MethodPost, "/businesses/1/blocked-dates", `{`).Code)
}

func TestRemove(t *testing.T) {
	var gotDate time.Time
	svc := &fakeService{removeFn: func(_ context.Context, _ int64, date time.Time) error {
		gotDate = date
		if date.Day() == 1 {
			return business.ErrBlockedDateNotFound
		}
		return nil
	}}
	router := newRouter(svc)

	rec := do(router, http.MethodDelete, "/businesses/1/blocked-dates/2025-12-25", "")
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, time.Date(2025, 12, 25, 0, 0, 0, 0, time.UTC), gotDate)

	assert.Equal(t, http.StatusNotFound, do(router, http.MethodDelete, "/businesses/1/blocked-dates/2025-12-01", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(router, http.MethodDelete, "/businesses/1/blocked-dates/25-12-2025", "").Code)
}

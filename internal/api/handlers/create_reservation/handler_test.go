package create_reservation

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	createReservation "github.com/m04kA/SMC-ReservationService/internal/usecase/create_reservation"
	"github.com/m04kA/SMC-ReservationService/pkg/logger"
)

type fakeUseCase struct {
	fn  func(ctx context.Context, req *createReservation.Request) (*createReservation.Response, error)
	got *createReservation.Request
}

func (f *fakeUseCase) Execute(ctx context.Context, req *createReservation.Request) (*createReservation.Response, error) {
	f.got = req
	return f.fn(ctx, req)
}

func newRouter(uc CreateReservationUseCase) *mux.Router {
	h := NewHandler(uc, logger.NewNop())
	router := mux.NewRouter()
	router.HandleFunc("/businesses/{businessId}/reservations", h.Handle).Methods(http.MethodPost)
	router.HandleFunc("/businesses/{businessId}/admin/reservations", h.HandleAdmin).Methods(http.MethodPost)
	return router
}

func post(router http.Handler, target, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, target, strings.NewReader(body)))
	return rec
}

const validBody = `{"serviceId":2,"date":"2025-03-10","time":"09:00","customerName":"Ana Pérez","customerEmail":"ana@example.com"}`

func TestHandler_Created(t *testing.T) {
	start := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	expires := start.Add(48 * time.Hour)
	uc := &fakeUseCase{fn: func(context.Context, *createReservation.Request) (*createReservation.Response, error) {
		return &createReservation.Response{
			ReservationID:     10,
			ConfirmationToken: "c-token",
			CancellationToken: "x-token",
			Status:            "pending",
			Start:             start,
			End:               start.Add(30 * time.Minute),
			ExpiresAt:         &expires,
			Date:              "2025-03-10",
			Time:              "09:00",
			EndTime:           "09:30",
			DurationMinutes:   30,
		}, nil
	}}

	rec := post(newRouter(uc), "/businesses/1/reservations", validBody)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, uc.got)
	assert.Equal(t, int64(1), uc.got.BusinessID)
	assert.False(t, uc.got.ByAdmin)
	assert.Equal(t, "Ana Pérez", uc.got.CustomerName)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, float64(10), body["reservationId"])
	assert.Equal(t, "c-token", body["confirmationToken"])
	assert.Equal(t, "x-token", body["cancellationToken"])
	assert.Equal(t, "pending", body["status"])
	assert.Equal(t, "2025-03-10T08:00:00Z", body["start"])
	assert.Equal(t, "2025-03-10T08:30:00Z", body["end"])
}

func TestHandler_AdminSetsFlag(t *testing.T) {
	uc := &fakeUseCase{fn: func(context.Context, *createReservation.Request) (*createReservation.Response, error) {
		return &createReservation.Response{ReservationID: 1, Status: "confirmed"}, nil
	}}

	rec := post(newRouter(uc), "/businesses/1/admin/reservations",
		`{"date":"2025-03-10","time":"09:00","customerName":"Walk in"}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.True(t, uc.got.ByAdmin)
}

func TestHandler_InvalidRequest(t *testing.T) {
	uc := &fakeUseCase{fn: func(context.Context, *createReservation.Request) (*createReservation.Response, error) {
		t.Fatal("use case must not be called")
		return nil, nil
	}}
	router := newRouter(uc)

	assert.Equal(t, http.StatusBadRequest, post(router, "/businesses/x/reservations", validBody).Code)
	assert.Equal(t, http.StatusBadRequest, post(router, "/businesses/1/reservations", `{"date":`).Code)
	assert.Equal(t, http.StatusBadRequest, post(router, "/businesses/1/reservations", "").Code)
}

func TestHandler_ErrorMapping(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		want    int
		wantMsg string
	}{
		{name: "invalid email", err: createReservation.ErrInvalidEmail, want: http.StatusBadRequest, wantMsg: msgInvalidEmail},
		{name: "invalid phone", err: createReservation.ErrInvalidPhone, want: http.StatusBadRequest, wantMsg: msgInvalidPhone},
		{name: "invalid date", err: createReservation.ErrInvalidDate, want: http.StatusBadRequest, wantMsg: msgInvalidDate},
		{name: "invalid time", err: createReservation.ErrInvalidTime, want: http.StatusBadRequest, wantMsg: msgInvalidTime},
		{
			name:    "invalid input keeps detail",
			err:     fmt.Errorf("%w: customer name is required", createReservation.ErrInvalidInput),
			want:    http.StatusBadRequest,
			wantMsg: msgInvalidInput + ": customer name is required",
		},
		{name: "business not found", err: createReservation.ErrBusinessNotFound, want: http.StatusNotFound, wantMsg: msgBusinessNotFound},
		{name: "service not found", err: createReservation.ErrServiceNotFound, want: http.StatusNotFound, wantMsg: msgServiceNotFound},
		{name: "blocked", err: createReservation.ErrDateBlocked, want: http.StatusUnprocessableEntity, wantMsg: msgDateBlocked},
		{name: "past", err: createReservation.ErrDateInPast, want: http.StatusUnprocessableEntity, wantMsg: msgDateInPast},
		{name: "outside hours", err: createReservation.ErrOutsideOpenHours, want: http.StatusUnprocessableEntity, wantMsg: msgOutsideOpenHours},
		{name: "not a slot start", err: createReservation.ErrInvalidSlotStart, want: http.StatusUnprocessableEntity, wantMsg: msgInvalidSlotStart},
		{name: "slot taken", err: createReservation.ErrSlotNotAvailable, want: http.StatusConflict, wantMsg: msgSlotNotAvailable},
		{name: "conflict", err: createReservation.ErrConcurrencyConflict, want: http.StatusConflict, wantMsg: msgSlotNotAvailable},
		{name: "internal", err: createReservation.ErrInternal, want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &fakeUseCase{fn: func(context.Context, *createReservation.Request) (*createReservation.Response, error) {
				return nil, tt.err
			}}

			rec := post(newRouter(uc), "/businesses/1/reservations", validBody)

			require.Equal(t, tt.want, rec.Code)
			if tt.wantMsg != "" {
				var body map[string]string
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
				assert.Equal(t, tt.wantMsg, body["error"])
			}
		})
	}
}

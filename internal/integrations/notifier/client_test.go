package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

type fakeChannel struct {
	published []amqp.Publishing
	keys      []string
	err       error
}

func (f *fakeChannel) PublishWithContext(_ context.Context, _, key string, _, _ bool, msg amqp.Publishing) error {
	if f.err != nil {
		return f.err
	}
	f.keys = append(f.keys, key)
	f.published = append(f.published, msg)
	return nil
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type recorder struct {
	calls map[string]int
}

func (r *recorder) RecordNotification(messageType string, err error) {
	if err == nil {
		r.calls[messageType]++
	}
}

func testData() (*domain.BusinessConfig, *domain.Reservation) {
	admin := "owner@barber.test"
	expires := time.Date(2025, 3, 12, 9, 0, 0, 0, time.UTC)
	business := &domain.BusinessConfig{ID: 1, Name: "Barber", Timezone: "UTC", AdminEmail: &admin}
	res := &domain.Reservation{
		ID:                42,
		BusinessID:        1,
		Customer:          domain.Customer{Name: "Ana Lopez", Email: "ana@example.com"},
		ServiceName:       "Cut",
		Start:             time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC),
		Status:            domain.StatusPending,
		ConfirmationToken: "c0nf",
		CancellationToken: "canc el",
		ExpiresAt:         &expires,
	}
	return business, res
}

func decode(t *testing.T, p amqp.Publishing) domain.NotificationMessage {
	t.Helper()
	var msg domain.NotificationMessage
	require.NoError(t, json.Unmarshal(p.Body, &msg))
	return msg
}

func TestNotifyCreated(t *testing.T) {
	ch := &fakeChannel{}
	rec := &recorder{calls: map[string]int{}}
	client := NewClient(ch, "reservation_notifications", "https://book.test/", time.Second, rec, nopLogger{})
	business, res := testData()

	require.NoError(t, client.NotifyCreated(context.Background(), business, res))
	require.Len(t, ch.published, 2)
	assert.Equal(t, []string{"reservation_notifications", "reservation_notifications"}, ch.keys)

	customer := decode(t, ch.published[0])
	assert.Equal(t, domain.NotificationReservationCreated, customer.Type)
	assert.Equal(t, "ana@example.com", customer.To)
	assert.Equal(t, "2025-03-14", customer.Data.Date)
	assert.Equal(t, "09:30", customer.Data.Time)
	assert.Equal(t, "https://book.test/confirmar/c0nf", customer.Data.ConfirmURL)
	assert.Equal(t, "https://book.test/cancelar-reserva?token=canc+el", customer.Data.CancelURL)
	assert.Equal(t, "2025-03-12 09:00", customer.Data.ExpiresAt)
	assert.Equal(t, uint8(amqp.Persistent), ch.published[0].DeliveryMode)

	admin := decode(t, ch.published[1])
	assert.Equal(t, domain.NotificationReservationAdminNotice, admin.Type)
	assert.Equal(t, "owner@barber.test", admin.To)
	assert.Equal(t, "Ana Lopez", admin.Data.CustomerName)

	assert.Equal(t, 1, rec.calls[string(domain.NotificationReservationCreated)])
	assert.Equal(t, 1, rec.calls[string(domain.NotificationReservationAdminNotice)])
}

func TestNotifyCreated_ConfirmedByAdminWithoutEmail(t *testing.T) {
	ch := &fakeChannel{}
	client := NewClient(ch, "q", "https://book.test", time.Second, nil, nopLogger{})
	business, res := testData()
	business.AdminEmail = nil
	res.Customer.Email = ""
	res.Status = domain.StatusConfirmed

	require.NoError(t, client.NotifyCreated(context.Background(), business, res))
	assert.Empty(t, ch.published)
}

func TestNotifyCancelled_Errors(t *testing.T) {
	business, res := testData()

	client := NewClient(&fakeChannel{err: errors.New("channel closed")}, "q", "https://book.test", 0, nil, nopLogger{})
	assert.ErrorIs(t, client.NotifyCancelled(context.Background(), business, res), ErrPublish)

	res.Customer.Email = ""
	assert.ErrorIs(t, client.NotifyConfirmed(context.Background(), business, res), ErrNoRecipient)
}

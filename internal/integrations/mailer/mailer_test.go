package mailer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wneessen/go-mail"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

type fakeSMTP struct {
	sent []*mail.Msg
	err  error
}

func (f *fakeSMTP) DialAndSendWithContext(_ context.Context, messages ...*mail.Msg) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, messages...)
	return nil
}

func createdMessage() domain.NotificationMessage {
	return domain.NotificationMessage{
		Type: domain.NotificationReservationCreated,
		To:   "ana@example.com",
		Name: "Ana",
		Data: domain.NotificationData{
			ReservationID: 7,
			BusinessName:  "Barber",
			Service:       "Cut",
			Date:          "2025-03-14",
			Time:          "09:30",
			ConfirmURL:    "https://book.test/confirmar/abc",
			CancelURL:     "https://book.test/cancelar-reserva?token=def",
			ExpiresAt:     "2025-03-12 09:00",
		},
	}
}

func TestRender_Created(t *testing.T) {
	sender, err := NewSender(&fakeSMTP{}, "no-reply@book.test")
	require.NoError(t, err)

	subject, body, err := sender.Render(createdMessage())
	require.NoError(t, err)

	assert.Equal(t, "Barber - Tu reserva: confirma tu cita", subject)
	assert.Contains(t, body, "Hola Ana")
	assert.Contains(t, body, `href="https://book.test/confirmar/abc"`)
	assert.Contains(t, body, "https://book.test/cancelar-reserva?token=def")
	assert.Contains(t, body, "antes de 2025-03-12 09:00")
}

func TestRender_EscapesCustomerInput(t *testing.T) {
	sender, err := NewSender(&fakeSMTP{}, "no-reply@book.test")
	require.NoError(t, err)

	msg := createdMessage()
	msg.Type = domain.NotificationReservationAdminNotice
	msg.Data.CustomerName = "<script>alert(1)</script>"

	_, body, err := sender.Render(msg)
	require.NoError(t, err)
	assert.NotContains(t, body, "<script>")
	assert.Contains(t, body, "&lt;script&gt;")
}

func TestRender_AllTypes(t *testing.T) {
	sender, err := NewSender(&fakeSMTP{}, "no-reply@book.test")
	require.NoError(t, err)

	for typ := range subjects {
		msg := createdMessage()
		msg.Type = typ
		_, body, err := sender.Render(msg)
		require.NoError(t, err, typ)
		assert.Contains(t, body, "Barber", typ)
	}

	msg := createdMessage()
	msg.Type = "unknown"
	_, _, err = sender.Render(msg)
	assert.ErrorIs(t, err, ErrUnsupportedType)
}

func TestSend(t *testing.T) {
	smtp := &fakeSMTP{}
	sender, err := NewSender(smtp, "no-reply@book.test")
	require.NoError(t, err)

	require.NoError(t, sender.Send(context.Background(), createdMessage()))
	require.Len(t, smtp.sent, 1)
	assert.Equal(t, []string{"Barber - Tu reserva: confirma tu cita"}, smtp.sent[0].GetGenHeader(mail.HeaderSubject))

	msg := createdMessage()
	msg.To = "not-an-email"
	assert.ErrorIs(t, sender.Send(context.Background(), msg), ErrInvalidMessage)

	smtp.err = errors.New("connection refused")
	assert.ErrorIs(t, sender.Send(context.Background(), createdMessage()), ErrSend)
}

package mailer

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"

	"github.com/wneessen/go-mail"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

//go:embed templates/*.html
var templatesFS embed.FS

var subjects = map[domain.NotificationType]string{
	domain.NotificationReservationCreated:     "Tu reserva: confirma tu cita",
	domain.NotificationReservationAdminNotice: "Nueva reserva recibida",
	domain.NotificationReservationConfirmed:   "Reserva confirmada",
	domain.NotificationReservationCancelled:   "Reserva cancelada",
}

// SMTPClient подмножество *mail.Client
type SMTPClient interface {
	DialAndSendWithContext(ctx context.Context, messages ...*mail.Msg) error
}

// Sender превращает NotificationMessage в письмо и отправляет его
type Sender struct {
	client    SMTPClient
	from      string
	templates *template.Template
}

// NewSender создает отправителя с встроенными шаблонами
func NewSender(client SMTPClient, from string) (*Sender, error) {
	tmpl, err := template.ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("%w: parse templates: %v", ErrRender, err)
	}
	return &Sender{client: client, from: from, templates: tmpl}, nil
}

// NewSMTPClient создает go-mail клиента с PLAIN авторизацией и opportunistic TLS
func NewSMTPClient(host string, port int, username, password string, opts ...mail.Option) (*mail.Client, error) {
	options := []mail.Option{
		mail.WithPort(port),
		mail.WithTLSPortPolicy(mail.TLSOpportunistic),
	}
	if username != "" {
		options = append(options,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(username),
			mail.WithPassword(password),
		)
	}
	options = append(options, opts...)
	return mail.NewClient(host, options...)
}

// Render возвращает тему и HTML тело письма
func (s *Sender) Render(msg domain.NotificationMessage) (string, string, error) {
	subject, ok := subjects[msg.Type]
	if !ok {
		return "", "", fmt.Errorf("%w: %q", ErrUnsupportedType, msg.Type)
	}

	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, string(msg.Type)+".html", msg); err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrRender, err)
	}

	if msg.Data.BusinessName != "" {
		subject = fmt.Sprintf("%s - %s", msg.Data.BusinessName, subject)
	}

	return subject, buf.String(), nil
}

// Build собирает письмо go-mail
func (s *Sender) Build(msg domain.NotificationMessage) (*mail.Msg, error) {
	subject, body, err := s.Render(msg)
	if err != nil {
		return nil, err
	}

	m := mail.NewMsg()
	if err := m.From(s.from); err != nil {
		return nil, fmt.Errorf("%w: from %q: %v", ErrInvalidMessage, s.from, err)
	}
	if err := m.To(msg.To); err != nil {
		return nil, fmt.Errorf("%w: to %q: %v", ErrInvalidMessage, msg.To, err)
	}
	m.Subject(subject)
	m.SetBodyString(mail.TypeTextHTML, body)

	return m, nil
}

// Send рендерит и отправляет письмо
func (s *Sender) Send(ctx context.Context, msg domain.NotificationMessage) error {
	m, err := s.Build(msg)
	if err != nil {
		return err
	}
	if err := s.client.DialAndSendWithContext(ctx, m); err != nil {
		return fmt.Errorf("%w: %v", ErrSend, err)
	}
	return nil
}

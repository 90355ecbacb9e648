package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

const defaultPublishTimeout = 5 * time.Second

// Client публикует уведомления о бронированиях в очередь RabbitMQ
type Client struct {
	mu            sync.Mutex // amqp.Channel не потокобезопасен для публикации
	ch            Channel
	queue         string
	publicBaseURL string
	timeout       time.Duration
	metrics       MetricsRecorder
	log           Logger
}

// NewClient создает клиента уведомлений
// metrics может быть nil
func NewClient(ch Channel, queue, publicBaseURL string, timeout time.Duration, metrics MetricsRecorder, log Logger) *Client {
	if timeout <= 0 {
		timeout = defaultPublishTimeout
	}
	return &Client{
		ch:            ch,
		queue:         queue,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
		timeout:       timeout,
		metrics:       metrics,
		log:           log,
	}
}

// DeclareQueue объявляет durable очередь уведомлений
func DeclareQueue(ch *amqp.Channel, queue string) error {
	_, err := ch.QueueDeclare(
		queue,
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to declare queue %s: %w", queue, err)
	}
	return nil
}

// NotifyCreated отправляет клиенту письмо со ссылками подтверждения и отмены,
// а администратору бизнеса уведомление о новой брони
func (c *Client) NotifyCreated(ctx context.Context, business *domain.BusinessConfig, res *domain.Reservation) error {
	var errs []error

	if res.Customer.Email != "" {
		msg := c.buildMessage(domain.NotificationReservationCreated, business, res)
		if res.Status == domain.StatusPending {
			msg.Data.Token = res.ConfirmationToken
			msg.Data.ConfirmURL = c.ConfirmURL(res.ConfirmationToken)
			if res.ExpiresAt != nil {
				msg.Data.ExpiresAt = res.ExpiresAt.In(business.Location()).Format("2006-01-02 15:04")
			}
		}
		errs = append(errs, c.publish(ctx, msg))
	}

	if business.AdminEmail != nil {
		msg := c.buildMessage(domain.NotificationReservationAdminNotice, business, res)
		msg.To = *business.AdminEmail
		msg.Name = business.Name
		errs = append(errs, c.publish(ctx, msg))
	}

	return errors.Join(errs...)
}

// NotifyConfirmed отправляет клиенту подтверждение брони
func (c *Client) NotifyConfirmed(ctx context.Context, business *domain.BusinessConfig, res *domain.Reservation) error {
	if res.Customer.Email == "" {
		return ErrNoRecipient
	}
	return c.publish(ctx, c.buildMessage(domain.NotificationReservationConfirmed, business, res))
}

// NotifyCancelled отправляет клиенту уведомление об отмене
func (c *Client) NotifyCancelled(ctx context.Context, business *domain.BusinessConfig, res *domain.Reservation) error {
	if res.Customer.Email == "" {
		return ErrNoRecipient
	}
	msg := c.buildMessage(domain.NotificationReservationCancelled, business, res)
	msg.Data.CancelURL = ""
	msg.Data.CancellationToken = ""
	return c.publish(ctx, msg)
}

// ConfirmURL ссылка подтверждения брони
func (c *Client) ConfirmURL(token string) string {
	return fmt.Sprintf("%s/confirmar/%s", c.publicBaseURL, url.PathEscape(token))
}

// CancelURL ссылка отмены брони
func (c *Client) CancelURL(token string) string {
	return fmt.Sprintf("%s/cancelar-reserva?token=%s", c.publicBaseURL, url.QueryEscape(token))
}

func (c *Client) buildMessage(t domain.NotificationType, business *domain.BusinessConfig, res *domain.Reservation) domain.NotificationMessage {
	loc := business.Location()
	start := res.Start.In(loc)

	data := domain.NotificationData{
		ReservationID:     res.ID,
		BusinessName:      business.Name,
		Service:           res.ServiceName,
		Date:              start.Format(domain.DateFormat),
		Time:              start.Format(domain.TimeFormat),
		CustomerName:      res.Customer.Name,
		CustomerEmail:     res.Customer.Email,
		CancellationToken: res.CancellationToken,
		CancelURL:         c.CancelURL(res.CancellationToken),
	}
	if res.Customer.Phone != nil {
		data.CustomerPhone = *res.Customer.Phone
	}

	return domain.NotificationMessage{
		Type: t,
		To:   res.Customer.Email,
		Name: res.Customer.Name,
		Data: data,
	}
}

func (c *Client) publish(ctx context.Context, msg domain.NotificationMessage) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrEncode, err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	c.mu.Lock()
	err = c.ch.PublishWithContext(
		ctx,
		"",      // default exchange
		c.queue, // routing key = имя очереди
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
			Type:         string(msg.Type),
			Body:         body,
		},
	)
	c.mu.Unlock()

	if c.metrics != nil {
		c.metrics.RecordNotification(string(msg.Type), err)
	}

	if err != nil {
		c.log.Error("Failed to publish notification: type=%s, reservation_id=%d, error=%v", msg.Type, msg.Data.ReservationID, err)
		return fmt.Errorf("%w: %v", ErrPublish, err)
	}

	c.log.Info("Notification published: type=%s, reservation_id=%d", msg.Type, msg.Data.ReservationID)
	return nil
}

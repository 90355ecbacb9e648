package notifications

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/internal/integrations/mailer"
)

const defaultSendTimeout = 30 * time.Second

// Sender отправляет письмо по сообщению из очереди
type Sender interface {
	Send(ctx context.Context, msg domain.NotificationMessage) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Consumer читает уведомления из RabbitMQ и отправляет письма
type Consumer struct {
	sender  Sender
	timeout time.Duration
	logger  Logger
}

// NewConsumer создает consumer уведомлений
func NewConsumer(sender Sender, timeout time.Duration, logger Logger) *Consumer {
	if timeout <= 0 {
		timeout = defaultSendTimeout
	}
	return &Consumer{
		sender:  sender,
		timeout: timeout,
		logger:  logger,
	}
}

// Run обрабатывает сообщения до отмены контекста или закрытия канала
func (c *Consumer) Run(ctx context.Context, deliveries <-chan amqp.Delivery) {
	for {
		select {
		case <-ctx.Done():
			c.logger.Info("Notification consumer: context done, stopping")
			return
		case d, ok := <-deliveries:
			if !ok {
				c.logger.Warn("Notification consumer: delivery channel closed")
				return
			}
			c.Handle(ctx, d)
		}
	}
}

// Handle обрабатывает одно сообщение
// Некорректные сообщения отбрасываются, ошибка SMTP возвращает сообщение в очередь один раз
func (c *Consumer) Handle(ctx context.Context, d amqp.Delivery) {
	var msg domain.NotificationMessage
	if err := json.Unmarshal(d.Body, &msg); err != nil {
		c.logger.Error("Notification consumer: failed to decode message: %v", err)
		_ = d.Nack(false, false)
		return
	}

	sendCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	err := c.sender.Send(sendCtx, msg)
	switch {
	case err == nil:
		c.logger.Info("Notification consumer: sent type=%s, reservation_id=%d", msg.Type, msg.Data.ReservationID)
		_ = d.Ack(false)

	case errors.Is(err, mailer.ErrSend):
		requeue := !d.Redelivered
		c.logger.Warn("Notification consumer: send failed for type=%s, reservation_id=%d, requeue=%t: %v",
			msg.Type, msg.Data.ReservationID, requeue, err)
		_ = d.Nack(false, requeue)

	default:
		c.logger.Error("Notification consumer: dropping type=%s, reservation_id=%d: %v",
			msg.Type, msg.Data.ReservationID, err)
		_ = d.Nack(false, false)
	}
}

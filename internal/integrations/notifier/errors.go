package notifier

import "errors"

var (
	// ErrPublish возвращается при ошибке публикации в RabbitMQ
	ErrPublish = errors.New("notifier client: failed to publish message")

	// ErrEncode возвращается при ошибке сериализации сообщения
	ErrEncode = errors.New("notifier client: failed to encode message")

	// ErrNoRecipient у бронирования нет email получателя
	ErrNoRecipient = errors.New("notifier client: no recipient email")
)

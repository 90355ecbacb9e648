package mailer

import "errors"

var (
	// ErrUnsupportedType неизвестный тип уведомления
	ErrUnsupportedType = errors.New("mailer: unsupported notification type")

	// ErrRender ошибка рендеринга шаблона
	ErrRender = errors.New("mailer: failed to render template")

	// ErrInvalidMessage некорректный отправитель или получатель
	ErrInvalidMessage = errors.New("mailer: invalid message")

	// ErrSend ошибка отправки через SMTP
	ErrSend = errors.New("mailer: failed to send")
)

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/wneessen/go-mail"

	"github.com/m04kA/SMC-ReservationService/internal/config"
	"github.com/m04kA/SMC-ReservationService/internal/integrations/mailer"
	"github.com/m04kA/SMC-ReservationService/internal/integrations/notifier"
	"github.com/m04kA/SMC-ReservationService/internal/worker/notifications"
	"github.com/m04kA/SMC-ReservationService/pkg/logger"
)

const consumerTag = "smc-reservation-notifier"

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.toml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting SMC-ReservationService notifier...")

	dialTimeout := time.Duration(cfg.SMTP.DialTimeout) * time.Second
	smtpClient, err := mailer.NewSMTPClient(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Username,
		cfg.SMTP.Password,
		mail.WithTimeout(dialTimeout),
	)
	if err != nil {
		log.Fatal("Failed to create SMTP client: %v", err)
	}

	sender, err := mailer.NewSender(smtpClient, cfg.SMTP.From)
	if err != nil {
		log.Fatal("Failed to create mail sender: %v", err)
	}

	conn, err := amqp.Dial(cfg.RabbitMQ.DSN)
	if err != nil {
		log.Fatal("Failed to connect to RabbitMQ: %v", err)
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		log.Fatal("Failed to open RabbitMQ channel: %v", err)
	}
	defer ch.Close()

	if err := notifier.DeclareQueue(ch, cfg.RabbitMQ.Queue); err != nil {
		log.Fatal("Failed to declare notification queue: %v", err)
	}

	// Одно письмо за раз
	if err := ch.Qos(1, 0, false); err != nil {
		log.Fatal("Failed to set QoS: %v", err)
	}

	deliveries, err := ch.Consume(
		cfg.RabbitMQ.Queue,
		consumerTag,
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		log.Fatal("Failed to start consuming %s: %v", cfg.RabbitMQ.Queue, err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	consumer := notifications.NewConsumer(sender, dialTimeout*2, log)

	log.Info("Consuming notifications from %s (smtp=%s:%d)", cfg.RabbitMQ.Queue, cfg.SMTP.Host, cfg.SMTP.Port)
	consumer.Run(ctx, deliveries)

	log.Info("Notifier stopped")
}

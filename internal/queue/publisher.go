package queue

import (
	"context"
	"encoding/json"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Queue names. Durable so messages survive broker restarts.
const (
	QueueChoiceRecorded        = "choice.recorded"
	QueueRegistrationSubmitted = "registration.submitted"
)

// Publisher sends domain events to RabbitMQ. Publishing is strictly
// best-effort: errors are logged and returned so callers can ignore
// them without interrupting the request flow. A Publisher with an
// empty URL is a no-op.
type Publisher struct {
	url string
}

func NewPublisher(url string) *Publisher {
	return &Publisher{url: url}
}

func (p *Publisher) PublishChoiceRecorded(ctx context.Context, event ChoiceRecordedEvent) error {
	return p.publish(ctx, QueueChoiceRecorded, event)
}

func (p *Publisher) PublishRegistrationSubmitted(ctx context.Context, event RegistrationSubmittedEvent) error {
	return p.publish(ctx, QueueRegistrationSubmitted, event)
}

func (p *Publisher) publish(ctx context.Context, queueName string, event any) error {
	if p == nil || p.url == "" {
		return nil
	}

	conn, err := amqp.Dial(p.url)
	if err != nil {
		log.Printf("rabbitmq: dial failed: %v", err)
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Printf("rabbitmq: channel open failed: %v", err)
		return err
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(
		queueName, // name
		true,      // durable
		false,     // autoDelete
		false,     // exclusive
		false,     // noWait
		nil,       // args
	); err != nil {
		log.Printf("rabbitmq: queue declare failed: %v", err)
		return err
	}

	body, err := json.Marshal(event)
	if err != nil {
		log.Printf("rabbitmq: marshal event failed: %v", err)
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}

	if err := ch.PublishWithContext(ctx,
		"",        // default exchange
		queueName, // routing key = queue name
		false,     // mandatory
		false,     // immediate
		pub,
	); err != nil {
		log.Printf("rabbitmq: publish failed: %v", err)
		return err
	}

	return nil
}

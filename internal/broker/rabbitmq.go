// Package broker fala com o RabbitMQ: a API publica eventos, o serviço ws consome.
package broker

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

const defaultPublishTimeout = 2 * time.Second

// session é a conexão + canal com a fila já declarada (durável).
type session struct {
	conn  *amqp.Connection
	ch    *amqp.Channel
	queue string
}

func dial(uri, queue string) (*session, error) {
	conn, err := amqp.Dial(uri)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	_, err = ch.QueueDeclare(
		queue,
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}
	return &session{conn: conn, ch: ch, queue: queue}, nil
}

func (s *session) Close() error {
	var errCh, errConn error
	if s.ch != nil {
		errCh = s.ch.Close()
	}
	if s.conn != nil {
		errConn = s.conn.Close()
	}
	return errors.Join(errCh, errConn)
}

type Publisher struct {
	*session
}

func NewPublisher(uri, queue string) (*Publisher, error) {
	s, err := dial(uri, queue)
	if err != nil {
		return nil, err
	}
	return &Publisher{session: s}, nil
}

// Publish envia um evento JSON para a fila; sem deadline no ctx aplica 2s.
func (p *Publisher) Publish(ctx context.Context, body []byte, headers amqp.Table) error {
	if _, ok := ctx.Deadline(); !ok {
		c, cancel := context.WithTimeout(ctx, defaultPublishTimeout)
		defer cancel()
		ctx = c
	}
	return p.ch.PublishWithContext(
		ctx,
		"",      // default exchange
		p.queue, // routing key = nome da fila
		false,   // mandatory
		false,   // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    uuid.NewString(),
			Timestamp:    time.Now(),
			Body:         body,
			Headers:      headers,
		},
	)
}

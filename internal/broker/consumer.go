package broker

import (
	amqp "github.com/rabbitmq/amqp091-go"
)

// Headers gravados em cada mensagem de evento.
const (
	HeaderAction    = "action"
	HeaderCompanyID = "company_id"
)

type Consumer struct {
	*session
	Deliveries <-chan amqp.Delivery
}

// NewConsumer declara a mesma fila do Publisher e consome com auto-ack:
// evento perdido no ws não é reprocessado.
func NewConsumer(uri, queue, tag string, prefetch int) (*Consumer, error) {
	s, err := dial(uri, queue)
	if err != nil {
		return nil, err
	}
	if prefetch > 0 {
		if err := s.ch.Qos(prefetch, 0, false); err != nil {
			_ = s.Close()
			return nil, err
		}
	}
	deliveries, err := s.ch.Consume(queue, tag, true, false, false, false, nil)
	if err != nil {
		_ = s.Close()
		return nil, err
	}
	return &Consumer{session: s, Deliveries: deliveries}, nil
}

// CompanyID lê a empresa do header da mensagem; vazio quando o evento não tem empresa.
func CompanyID(d amqp.Delivery) string {
	if v, ok := d.Headers[HeaderCompanyID].(string); ok {
		return v
	}
	return ""
}

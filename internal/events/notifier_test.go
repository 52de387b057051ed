package events

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

type publisherMock struct {
	PublishFn func(ctx context.Context, body []byte, headers amqp.Table) error
}

func (m *publisherMock) Publish(ctx context.Context, body []byte, headers amqp.Table) error {
	return m.PublishFn(ctx, body, headers)
}

func TestNotify_PublishesJSONWithHeaders(t *testing.T) {
	var gotBody []byte
	var gotHeaders amqp.Table
	pub := &publisherMock{PublishFn: func(ctx context.Context, body []byte, h amqp.Table) error {
		if _, ok := ctx.Deadline(); !ok {
			t.Fatal("publish ctx without deadline")
		}
		gotBody, gotHeaders = body, h
		return nil
	}}
	n := NewNotifier(pub, slog.Default())
	ts := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	n.now = func() time.Time { return ts }

	n.Notify(context.Background(), Event{Acao: ActionUpsert, Entidade: EntityCompany, ID: "c1", EmpresaID: "c1", Nome: "Alfa", Mensagem: "Empresa salva"})

	var ev map[string]any
	if err := json.Unmarshal(gotBody, &ev); err != nil {
		t.Fatalf("body is not json: %v", err)
	}
	if ev["acao"] != "upsert" || ev["entidade"] != "empresa" || ev["nome"] != "Alfa" || ev["timestamp"] != "2024-05-01T10:00:00Z" {
		t.Fatalf("unexpected event: %v", ev)
	}
	if gotHeaders["action"] != "upsert" || gotHeaders["company_id"] != "c1" {
		t.Fatalf("unexpected headers: %v", gotHeaders)
	}
}

func TestNotify_PublishErrorIsSwallowed(t *testing.T) {
	calls := 0
	pub := &publisherMock{PublishFn: func(context.Context, []byte, amqp.Table) error {
		calls++
		return errors.New("channel closed")
	}}
	n := NewNotifier(pub, nil)
	n.Notify(context.Background(), Event{Acao: ActionDelete, Entidade: EntityCompany})
	if calls != 1 {
		t.Fatalf("publish calls=%d", calls)
	}
}

func TestNotify_CanceledRequestStillPublishes(t *testing.T) {
	published := false
	pub := &publisherMock{PublishFn: func(ctx context.Context, _ []byte, _ amqp.Table) error {
		published = ctx.Err() == nil
		return nil
	}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	NewNotifier(pub, nil).Notify(ctx, Event{Acao: ActionUpsert})
	if !published {
		t.Fatal("event dropped for canceled request ctx")
	}
}

func TestNotify_NilSafe(t *testing.T) {
	var n *Notifier
	n.Notify(context.Background(), Event{})
	NewNotifier(nil, nil).Fallback("list_companies", errors.New("x"))
}

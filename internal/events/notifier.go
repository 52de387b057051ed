// Package events publica as mutações do pipeline para o serviço de websocket.
package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/Werneck0live/pipeline-empresas/internal/broker"
)

type Action string

const (
	ActionUpsert       Action = "upsert"
	ActionDelete       Action = "delete"
	ActionStatusChange Action = "status"
	ActionRiskChange   Action = "risk"
	ActionVersion      Action = "version"
	ActionFallback     Action = "fallback"
)

type Entity string

const (
	EntityCompany      Entity = "empresa"
	EntityDueDiligence Entity = "due_diligence"
	EntityInefficiency Entity = "log_ineficiencia"
	EntityStore        Entity = "armazenamento"
)

type Event struct {
	Acao      Action    `json:"acao"`
	Entidade  Entity    `json:"entidade"`
	ID        string    `json:"id,omitempty"`
	EmpresaID string    `json:"empresaId,omitempty"`
	Nome      string    `json:"nome,omitempty"`
	Mensagem  string    `json:"mensagem"`
	Timestamp time.Time `json:"timestamp"`
}

type Publisher interface {
	Publish(ctx context.Context, body []byte, headers amqp.Table) error
}

// Notifier nunca falha a operação de quem chamou: erro de publicação só vira log.
// Com Publisher nil os eventos ficam apenas no log.
type Notifier struct {
	pub     Publisher
	log     *slog.Logger
	timeout time.Duration
	now     func() time.Time
}

func NewNotifier(pub Publisher, log *slog.Logger) *Notifier {
	if log == nil {
		log = slog.Default()
	}
	return &Notifier{pub: pub, log: log.With("cmp", "events"), timeout: 2 * time.Second, now: time.Now}
}

func (n *Notifier) Notify(ctx context.Context, ev Event) {
	if n == nil {
		return
	}
	if ev.Timestamp.IsZero() {
		ev.Timestamp = n.now()
	}
	n.log.Info("domain_event", "acao", ev.Acao, "entidade", ev.Entidade, "id", ev.ID, "empresa_id", ev.EmpresaID)
	if n.pub == nil {
		return
	}

	body, err := json.Marshal(ev)
	if err != nil {
		n.log.Error("event_marshal_error", "err", err)
		return
	}
	// a requisição pode ter sido cancelada logo depois da escrita; o evento ainda deve sair
	pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), n.timeout)
	defer cancel()
	headers := amqp.Table{broker.HeaderAction: string(ev.Acao), broker.HeaderCompanyID: ev.EmpresaID}
	if err := n.pub.Publish(pctx, body, headers); err != nil {
		n.log.Error("event_publish_error", "acao", ev.Acao, "id", ev.ID, "err", err)
	}
}

// Fallback serve de gancho para gateway.Options.OnFallback.
func (n *Notifier) Fallback(op string, err error) {
	n.Notify(context.Background(), Event{
		Acao:     ActionFallback,
		Entidade: EntityStore,
		Mensagem: "Armazenamento principal indisponível (" + op + "); usando armazenamento local",
	})
}

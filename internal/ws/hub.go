package ws

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
)

// Client com CompanyID vazio recebe tudo; preenchido, só os eventos daquela empresa.
type Client struct {
	ID        string
	CompanyID string
	Send      chan []byte
}

func (c *Client) wants(companyID string) bool {
	return c.CompanyID == "" || companyID == "" || c.CompanyID == companyID
}

type outbound struct {
	companyID string
	msg       []byte
}

type unicastMsg struct {
	id  string
	msg []byte
}

type Hub struct {
	mu       sync.RWMutex
	clients  map[string]*Client // id -> client
	register chan *Client
	unreg    chan *Client

	sendAll chan outbound   // envio para todos os inscritos
	unicast chan unicastMsg // envio para 1 cliente

	log     *slog.Logger
	stop    chan struct{}
	stopped chan struct{}

	nextID atomic.Uint64
}

func NewHub(log *slog.Logger) *Hub {
	if log == nil {
		log = slog.Default()
	}
	return &Hub{
		clients:  make(map[string]*Client),
		register: make(chan *Client),
		unreg:    make(chan *Client),
		sendAll:  make(chan outbound, 1024),
		unicast:  make(chan unicastMsg, 1024),
		log:      log.With("cmp", "ws.hub"),
		stop:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}
}

func (h *Hub) newID() string {
	id := h.nextID.Add(1)
	return fmt.Sprintf("c%d", id)
}

func (h *Hub) Run() {
	h.log.Info("hub_run_start")
	defer close(h.stopped)

	for {
		select {
		case c := <-h.register:
			h.mu.Lock()
			h.clients[c.ID] = c
			total := len(h.clients)
			h.mu.Unlock()
			h.log.Info("client_registered", "id", c.ID, "empresa_id", c.CompanyID, "total", total)

		case c := <-h.unreg:
			if c == nil {
				continue
			}
			h.mu.Lock()
			h.drop(c.ID)
			total := len(h.clients)
			h.mu.Unlock()
			h.log.Info("client_unregistered", "id", c.ID, "total", total)

		case o := <-h.sendAll:
			var slow []string
			h.mu.RLock()
			for id, c := range h.clients {
				if !c.wants(o.companyID) {
					continue
				}
				select {
				case c.Send <- o.msg:
				default:
					slow = append(slow, id)
				}
			}
			h.mu.RUnlock()
			// cliente lento -> dropa para não travar o hub
			if len(slow) > 0 {
				h.mu.Lock()
				for _, id := range slow {
					h.drop(id)
				}
				h.mu.Unlock()
				h.log.Warn("broadcast_drop_slow", "clients", slow)
			}

		case u := <-h.unicast:
			h.mu.RLock()
			c := h.clients[u.id]
			h.mu.RUnlock()
			if c == nil {
				h.log.Warn("send_one_miss", "id", u.id)
				continue
			}
			select {
			case c.Send <- u.msg:
			default:
				h.mu.Lock()
				h.drop(u.id)
				h.mu.Unlock()
				h.log.Warn("send_one_drop_slow", "id", u.id)
			}

		case <-h.stop:
			h.mu.Lock()
			for id := range h.clients {
				h.drop(id)
			}
			h.mu.Unlock()
			h.log.Info("hub_run_stop")
			return
		}
	}
}

// drop exige h.mu travado para escrita.
func (h *Hub) drop(id string) {
	if c, ok := h.clients[id]; ok {
		delete(h.clients, id)
		close(c.Send)
	}
}

func (h *Hub) Stop() {
	close(h.stop)
	<-h.stopped
}

// Register devolve false se o hub já parou; nesse caso o cliente não entra
// e Send nunca será fechado pelo hub.
func (h *Hub) Register(c *Client) bool {
	if c.ID == "" {
		c.ID = h.newID()
	}
	select {
	case h.register <- c:
		return true
	case <-h.stopped:
		return false
	}
}

// Unregister vira no-op depois do Stop.

func (h *Hub) Unregister(c *Client) {
	select {
	case h.unreg <- c:
	case <-h.stopped:
	}
}

// Broadcast entrega b aos clientes inscritos em companyID e aos sem filtro.
// companyID vazio vai para todos.
// Depois do Stop a mensagem é descartada.
func (h *Hub) Broadcast(companyID string, b []byte) {
	select {
	case h.sendAll <- outbound{companyID: companyID, msg: b}:
	case <-h.stopped:
	}
}

func (h *Hub) SendToClient(id string, b []byte) {
	select {
	case h.unicast <- unicastMsg{id: id, msg: b}:
	case <-h.stopped:
	}
}

func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

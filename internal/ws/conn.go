package ws

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
	sendBuffer = 256
)

// Handler faz o upgrade de /ws e prende o cliente no hub.
// ?empresaId= limita o cliente aos eventos de uma empresa.
type Handler struct {
	Hub      *Hub
	Upgrader websocket.Upgrader
	Log      *slog.Logger
}

func NewHandler(hub *Hub, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{
		Hub: hub,
		Upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Ajuste CORS conforme necessário
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		Log: log,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.Log.Error("ws_upgrade_error", "err", err)
		return
	}

	client := &Client{CompanyID: r.URL.Query().Get("empresaId"), Send: make(chan []byte, sendBuffer)}
	if !h.Hub.Register(client) {
		h.Log.Warn("ws_hub_stopped", "id", client.ID)
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"), time.Now().Add(writeWait))
		_ = conn.Close()
		return
	}
	h.Log.Info("ws_client_connected", "id", client.ID, "empresa_id", client.CompanyID)

	go writePump(conn, client)
	go h.readPump(conn, client)
}

// writePump escreve o que o hub mandar e mantém o ping; termina quando o hub fecha Send.
func writePump(conn *websocket.Conn, c *Client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.Send:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump só existe para detectar o fechamento e renovar o deadline nos pongs.
func (h *Handler) readPump(conn *websocket.Conn, c *Client) {
	defer func() {
		h.Hub.Unregister(c)
		_ = conn.Close()
	}()
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

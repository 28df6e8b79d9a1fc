package live

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/eventreport/backend/modules/event"
	"github.com/eventreport/backend/pkg/broadcast"
	"github.com/eventreport/backend/pkg/logger"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The API is consumed by browser map clients on other origins.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Handler upgrades clients onto the live event feed. Each connection
// gets its own hub subscription; events reported after the upgrade are
// pushed as they happen, earlier ones are never replayed.
type Handler struct {
	hub *broadcast.Hub[event.BroadcastMessage]
	log *slog.Logger
}

// NewHandler returns a live feed handler over the given hub.
// Subscriber counts are reported through the hub's metrics callback,
// not here.
func NewHandler(hub *broadcast.Hub[event.BroadcastMessage], log *slog.Logger) *Handler {
	return &Handler{hub: hub, log: log.With(logger.Component("live"))}
}

// ServeHTTP upgrades the connection and streams broadcast messages
// until the client disconnects or the hub shuts down.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.WarnContext(r.Context(), "websocket upgrade failed", logger.Error(err))
		return
	}

	sub, err := h.hub.Subscribe(r.Context())
	if err != nil {
		h.log.WarnContext(r.Context(), "live feed subscription rejected", logger.Error(err))
		_ = conn.Close()
		return
	}

	h.log.InfoContext(r.Context(), "live feed client connected", slog.String("subscriber_id", sub.ID()))

	go h.writePump(conn, sub)
	h.readPump(conn, sub)
}

// readPump drains inbound frames. Clients are not expected to send
// anything meaningful; reading is what surfaces disconnects and pongs.
func (h *Handler) readPump(conn *websocket.Conn, sub *broadcast.Subscriber[event.BroadcastMessage]) {
	defer func() {
		sub.Close()
		_ = conn.Close()
		h.log.Info("live feed client disconnected", slog.String("subscriber_id", sub.ID()))
	}()

	conn.SetReadLimit(512)
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

// writePump pushes hub messages and keepalive pings to the client.
func (h *Handler) writePump(conn *websocket.Conn, sub *broadcast.Subscriber[event.BroadcastMessage]) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = conn.Close()
	}()

	for {
		select {
		case msg := <-sub.Messages():
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(msg.Payload); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-sub.Done():
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, ""))
			return
		}
	}
}

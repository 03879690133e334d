package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/mfriesen/boardsync/internal/hub"
)

// handleWebSocket upgrades the connection, runs the connect transition,
// and starts the read/write pumps. Each client gets a server-assigned
// UUID when the path carries no client identifier.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	roomID := vars["roomID"]
	clientID := vars["clientID"]
	if clientID == "" {
		clientID = uuid.NewString()
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	client := hub.NewClient(clientID, roomID, conn, s.cfg.Websocket.SendBuffer)

	// The request context dies with this handler; session work outlives it.
	if err := s.sessions.HandleConnect(context.Background(), client); err != nil {
		s.logger.Warn("rejecting connection",
			"client_id", clientID, "room_id", roomID, "error", err)
		deadline := time.Now().Add(s.cfg.Websocket.WriteTimeout)
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "client id already in use"),
			deadline)
		conn.Close()
		return
	}

	go s.writePump(client)
	go s.readPump(client)
}

// readPump processes inbound frames in arrival order until the
// transport fails, then runs the disconnect transition.
func (s *Server) readPump(client *hub.Client) {
	conn := client.Conn()
	defer func() {
		s.sessions.HandleDisconnect(context.Background(), client)
		conn.Close()
	}()

	conn.SetReadLimit(s.cfg.Websocket.MaxMessageSize)
	conn.SetReadDeadline(time.Now().Add(s.cfg.Websocket.ReadTimeout))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(s.cfg.Websocket.ReadTimeout))
	})

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			s.logReadError(client, err)
			return
		}
		// Application-level activity also counts as liveness.
		conn.SetReadDeadline(time.Now().Add(s.cfg.Websocket.ReadTimeout))

		s.sessions.Dispatch(context.Background(), client, raw)
	}
}

func (s *Server) logReadError(client *hub.Client, err error) {
	switch {
	case websocket.IsCloseError(err,
		websocket.CloseNormalClosure,
		websocket.CloseGoingAway,
		websocket.CloseAbnormalClosure):
		s.logger.Info("client disconnected", "client_id", client.ID())
	case errors.Is(err, websocket.ErrReadLimit):
		s.logger.Warn("message exceeded size limit",
			"client_id", client.ID(), "limit", s.cfg.Websocket.MaxMessageSize)
	case errors.Is(err, io.EOF):
		s.logger.Info("connection closed", "client_id", client.ID())
	default:
		s.logger.Warn("websocket read error", "client_id", client.ID(), "error", err)
	}
}

// writePump drains the client's outbound queue onto the wire and keeps
// the connection alive with periodic pings. A write failure closes the
// transport; the read pump then runs the disconnect transition.
func (s *Server) writePump(client *hub.Client) {
	conn := client.Conn()
	ticker := time.NewTicker(s.cfg.Websocket.PingInterval)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case message, ok := <-client.Outbox():
			conn.SetWriteDeadline(time.Now().Add(s.cfg.Websocket.WriteTimeout))
			if !ok {
				// Unregistered: say goodbye and stop.
				conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
				s.logger.Debug("write failed", "client_id", client.ID(), "error", err)
				return
			}

		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(s.cfg.Websocket.WriteTimeout))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

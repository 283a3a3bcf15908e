// Package ws delivers disaster alerts to subscriber systems over WebSocket
// and tracks their acknowledgements.
package ws

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/bonghwa-lab/bonghwa-gateway/internal/external/repository"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBuffer     = 256
)

// ErrSendBufferFull is returned when a subscriber stops draining its socket.
var ErrSendBufferFull = errors.New("ws: send buffer full")

// DisasterEvent is the frame pushed to a subscriber for one alert.
type DisasterEvent struct {
	Type       string `json:"type"` // "disaster"
	LogID      int64  `json:"logId"`
	Identifier string `json:"identifier"`
	EventCode  string `json:"eventCode"`
	RawMessage string `json:"rawMessage"`
}

// clientMessage is anything a subscriber sends back: heartbeats and
// ACK/NACK verdicts.
type clientMessage struct {
	Type   string `json:"type,omitempty"`
	Status string `json:"status,omitempty"`
	LogID  int64  `json:"logId,omitempty"`
}

// Session is one subscriber's live socket.
type Session struct {
	system    repository.ExternalSystem
	conn      *websocket.Conn
	send      chan []byte
	done      chan struct{}
	closeOnce sync.Once
	manager   *SessionManager
	logger    *zap.Logger
}

func newSession(system repository.ExternalSystem, conn *websocket.Conn, m *SessionManager) *Session {
	return &Session{
		system:  system,
		conn:    conn,
		send:    make(chan []byte, sendBuffer),
		done:    make(chan struct{}),
		manager: m,
		logger: m.logger.With(
			zap.Int64("system_id", system.ID),
			zap.String("system_name", system.Name)),
	}
}

// SystemID identifies the subscriber this socket belongs to.
func (s *Session) SystemID() int64 { return s.system.ID }

// Send queues a frame for the write pump. It never blocks; a subscriber that
// stops reading gets an error, not a stalled worker.
func (s *Session) Send(data []byte) error {
	select {
	case s.send <- data:
		return nil
	case <-s.done:
		return errors.New("ws: session closed")
	default:
		return ErrSendBufferFull
	}
}

// run starts both pumps and blocks until the socket dies.
func (s *Session) run(ctx context.Context) {
	go s.writePump()
	s.readPump(ctx)
}

func (s *Session) readPump(ctx context.Context) {
	defer func() {
		s.manager.detach(ctx, s)
		s.close()
	}()

	s.conn.SetReadLimit(maxMessageSize)
	s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		s.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Warn("subscriber socket error", zap.Error(err))
			}
			return
		}
		s.handleMessage(ctx, raw)
	}
}

func (s *Session) handleMessage(ctx context.Context, raw []byte) {
	var msg clientMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		s.logger.Warn("unreadable subscriber message, ignored", zap.Error(err))
		return
	}

	switch {
	case msg.Type == "heartbeat":
		reply, _ := json.Marshal(map[string]string{"status": "ok"})
		if err := s.Send(reply); err != nil {
			s.logger.Warn("heartbeat reply dropped", zap.Error(err))
		}

	case msg.Status == "ack" || msg.Status == "nack":
		if msg.LogID == 0 {
			s.logger.Warn("delivery verdict without logId, ignored")
			return
		}
		s.manager.acker.OnDeliveryVerdict(ctx, msg.LogID, msg.Status == "ack")

	default:
		s.logger.Warn("unknown subscriber message, ignored", zap.ByteString("raw", raw))
	}
}

func (s *Session) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		s.conn.Close()
	}()

	for {
		select {
		case <-s.done:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			s.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		case data := <-s.send:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				s.logger.Warn("subscriber write failed", zap.Error(err))
				return
			}
		case <-ticker.C:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// close is idempotent and safe to call from both pumps.
func (s *Session) close() {
	s.closeOnce.Do(func() { close(s.done) })
	s.conn.Close()
}

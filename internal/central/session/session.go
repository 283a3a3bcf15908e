// Package session owns the single long-lived CAS TCP connection: dial and
// reconnect, the digest auth handshake, the alive/pong liveness loop, and
// inbound dispatch to the protocol handlers.
package session

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/bonghwa-lab/bonghwa-gateway/internal/central/protocol"
	"github.com/bonghwa-lab/bonghwa-gateway/pkg/capxml"
)

// State is the session lifecycle state. The state machine is owned by the
// single read-loop goroutine; timers only ever destroy the socket.
type State int32

const (
	StateDisconnected State = iota
	StateConnecting
	StateAwaitingChallenge
	StateAwaitingAuthResult
	StateActive
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "DISCONNECTED"
	case StateConnecting:
		return "CONNECTING"
	case StateAwaitingChallenge:
		return "AWAITING_CHALLENGE"
	case StateAwaitingAuthResult:
		return "AWAITING_AUTH_RESULT"
	case StateActive:
		return "ACTIVE"
	}
	return "UNKNOWN"
}

// ErrNotActive is returned by SendEnvelope when the session is not
// authenticated; outbound writes outside the handshake are dropped then.
var ErrNotActive = errors.New("session: not active")

// Inbound receives the messages the session does not consume itself.
type Inbound interface {
	OnDisasterNotify(ctx context.Context, body []byte)
	OnReportAck(ctx context.Context, messageID uint32, body []byte)
}

// Config carries the CAS endpoint, credentials, and timers.
type Config struct {
	Host     string
	Port     int
	DestID   string
	Password string
	Magic    uint32

	ResponseTimeout time.Duration // auth reply window
	PongTimeout     time.Duration // session-check reply window
	SessionPeriod   time.Duration // session-check interval
	ReconnectDelay  time.Duration // delay before redial
}

// Session is the CAS connection owner.
type Session struct {
	cfg     Config
	logger  *zap.Logger
	inbound Inbound

	// dial is swappable in tests.
	dial func(ctx context.Context) (net.Conn, error)

	mu        sync.Mutex
	state     State
	conn      net.Conn
	respTimer *time.Timer
	pongTimer *time.Timer
	pingStop  chan struct{}

	reconnect atomic.Bool
}

// New creates the session. Run must be called to start it.
func New(cfg Config, inbound Inbound, logger *zap.Logger) *Session {
	s := &Session{cfg: cfg, logger: logger, inbound: inbound}
	s.reconnect.Store(true)
	s.dial = func(ctx context.Context) (net.Conn, error) {
		d := net.Dialer{Timeout: 10 * time.Second}
		return d.DialContext(ctx, "tcp", fmt.Sprintf("%s:%d", cfg.Host, cfg.Port))
	}
	return s
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Active reports whether outbound reports may be written.
func (s *Session) Active() bool {
	return s.State() == StateActive
}

// Run drives connect → authenticate → read until ctx is cancelled or
// Shutdown is called. Each connection loss waits ReconnectDelay before
// redialing.
func (s *Session) Run(ctx context.Context) {
	for s.reconnect.Load() {
		s.runOnce(ctx)
		if !s.reconnect.Load() {
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(s.cfg.ReconnectDelay):
		}
	}
}

// Shutdown stops reconnecting and destroys the current socket.
func (s *Session) Shutdown() {
	s.reconnect.Store(false)
	s.destroy("shutdown")
}

func (s *Session) runOnce(ctx context.Context) {
	s.setState(StateConnecting)

	conn, err := s.dial(ctx)
	if err != nil {
		s.logger.Warn("CAS dial failed", zap.Error(err))
		s.setState(StateDisconnected)
		return
	}

	s.mu.Lock()
	s.conn = conn
	s.state = StateAwaitingChallenge
	err = s.sendLocked(protocol.MsgReqSysCon, &capxml.Envelope{DestID: s.cfg.DestID})
	if err == nil {
		s.armRespTimerLocked()
	}
	s.mu.Unlock()

	if err != nil {
		s.logger.Error("auth request send failed", zap.Error(err))
		s.destroy("auth request send failed")
		return
	}
	s.logger.Info("CAS connected, awaiting challenge",
		zap.String("host", s.cfg.Host), zap.Int("port", s.cfg.Port))

	s.readLoop(ctx, conn)
	s.destroy("connection closed")
}

func (s *Session) readLoop(ctx context.Context, conn net.Conn) {
	deframer := protocol.NewDeframer(s.cfg.Magic)
	buf := make([]byte, 4096)

	for {
		n, err := conn.Read(buf)
		if err != nil {
			s.logger.Warn("CAS read ended", zap.Error(err))
			return
		}
		deframer.Push(buf[:n])

		for {
			frame, ferr := deframer.Next()
			if ferr != nil {
				// Buffer purged; framing resumes from the next bytes.
				s.logger.Error("CAS framing error", zap.Error(ferr))
				continue
			}
			if frame == nil {
				break
			}
			s.handleFrame(ctx, frame)
		}
	}
}

func (s *Session) handleFrame(ctx context.Context, frame *protocol.Frame) {
	switch frame.Header.MessageID {
	case protocol.MsgResSysCon:
		s.onAuthReply(frame.Body)
	case protocol.MsgResSysSts:
		s.clearPongTimer()
	case protocol.MsgNfyDisInfo:
		if s.State() != StateActive {
			s.logger.Warn("disaster notify before authentication, ignored")
			return
		}
		s.inbound.OnDisasterNotify(ctx, frame.Body)
	case protocol.MsgCnfDeviceInfo, protocol.MsgCnfDeviceSts, protocol.MsgResDisReport:
		if s.State() != StateActive {
			s.logger.Warn("report ack before authentication, ignored",
				zap.Uint32("message_id", frame.Header.MessageID))
			return
		}
		s.inbound.OnReportAck(ctx, frame.Header.MessageID, frame.Body)
	default:
		s.logger.Warn("unknown CAS message id, ignored",
			zap.Uint32("message_id", frame.Header.MessageID))
	}
}

func (s *Session) onAuthReply(body []byte) {
	env, err := capxml.ParseEnvelope(body)
	if err != nil {
		s.logger.Error("auth reply parse failed", zap.Error(err))
		s.destroy("auth reply parse failed")
		return
	}

	s.mu.Lock()
	switch s.state {
	case StateAwaitingChallenge:
		if env.ResultCode != "401" || env.Realm == "" || env.Nonce == "" {
			s.mu.Unlock()
			s.destroy("unexpected auth challenge resultCode=" + env.ResultCode)
			return
		}
		s.stopRespTimerLocked()
		reply := &capxml.Envelope{
			DestID:   s.cfg.DestID,
			Realm:    env.Realm,
			Nonce:    env.Nonce,
			Response: protocol.DigestResponse(s.cfg.DestID, env.Realm, s.cfg.Password, env.Nonce),
		}
		sendErr := s.sendLocked(protocol.MsgReqSysCon, reply)
		if sendErr == nil {
			s.state = StateAwaitingAuthResult
			s.armRespTimerLocked()
		}
		s.mu.Unlock()
		if sendErr != nil {
			s.destroy("auth response send failed")
		}

	case StateAwaitingAuthResult:
		if env.ResultCode != "200" {
			s.mu.Unlock()
			s.destroy("authentication rejected resultCode=" + env.ResultCode)
			return
		}
		s.stopRespTimerLocked()
		s.state = StateActive
		s.pingStop = make(chan struct{})
		go s.pingLoop(s.pingStop)
		s.mu.Unlock()
		s.logger.Info("CAS session authenticated")

	default:
		s.mu.Unlock()
		s.logger.Warn("auth reply outside handshake, ignored",
			zap.String("result_code", env.ResultCode))
	}
}

// pingLoop sends the alive session check every SessionPeriod while the
// session stays ACTIVE.
func (s *Session) pingLoop(stop chan struct{}) {
	ticker := time.NewTicker(s.cfg.SessionPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			s.sendSessionCheck()
		}
	}
}

func (s *Session) sendSessionCheck() {
	env := &capxml.Envelope{
		DestID: s.cfg.DestID,
		Cmd:    "alive",
		Time:   time.Now().Format(capxml.SentTimeFormat),
	}

	s.mu.Lock()
	if s.state != StateActive {
		s.mu.Unlock()
		return
	}
	err := s.sendLocked(protocol.MsgReqSysSts, env)
	if err == nil && s.pongTimer == nil {
		s.pongTimer = time.AfterFunc(s.cfg.PongTimeout, func() {
			s.destroy("session check timeout")
		})
	}
	s.mu.Unlock()

	if err != nil {
		s.logger.Error("session check send failed", zap.Error(err))
		s.destroy("session check send failed")
	}
}

func (s *Session) clearPongTimer() {
	s.mu.Lock()
	if s.pongTimer != nil {
		s.pongTimer.Stop()
		s.pongTimer = nil
	}
	s.mu.Unlock()
}

// SendEnvelope frames and writes an envelope. Writes outside ACTIVE are
// rejected with ErrNotActive; callers treat that as "skip, retry later".
func (s *Session) SendEnvelope(messageID uint32, env *capxml.Envelope) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateActive {
		return ErrNotActive
	}
	return s.sendLocked(messageID, env)
}

func (s *Session) sendLocked(messageID uint32, env *capxml.Envelope) error {
	if s.conn == nil {
		return ErrNotActive
	}
	body, err := env.Marshal()
	if err != nil {
		return err
	}
	frame := protocol.EncodeFrame(messageID, s.cfg.Magic, body)
	s.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	_, err = s.conn.Write(frame)
	return err
}

func (s *Session) armRespTimerLocked() {
	s.stopRespTimerLocked()
	s.respTimer = time.AfterFunc(s.cfg.ResponseTimeout, func() {
		s.destroy("auth response timeout")
	})
}

func (s *Session) stopRespTimerLocked() {
	if s.respTimer != nil {
		s.respTimer.Stop()
		s.respTimer = nil
	}
}

func (s *Session) setState(st State) {
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
}

// destroy tears the socket down and resets to DISCONNECTED. Idempotent; it
// is the only exit used by timers, transport errors, and shutdown alike.
func (s *Session) destroy(reason string) {
	s.mu.Lock()
	if s.conn == nil && s.state == StateDisconnected {
		s.mu.Unlock()
		return
	}
	if s.conn != nil {
		s.conn.Close()
		s.conn = nil
	}
	s.stopRespTimerLocked()
	if s.pongTimer != nil {
		s.pongTimer.Stop()
		s.pongTimer = nil
	}
	if s.pingStop != nil {
		close(s.pingStop)
		s.pingStop = nil
	}
	s.state = StateDisconnected
	s.mu.Unlock()

	s.logger.Warn("CAS session destroyed", zap.String("reason", reason))
}

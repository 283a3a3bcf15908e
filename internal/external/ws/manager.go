package ws

import (
	"context"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/bonghwa-lab/bonghwa-gateway/internal/external/repository"
)

// Acker receives subscriber ACK/NACK verdicts for dispatched alerts.
type Acker interface {
	OnDeliveryVerdict(ctx context.Context, logID int64, ok bool)
}

// SessionManager tracks the one live socket each subscriber system is
// allowed. Attaching a system that already has a socket closes the old one.
type SessionManager struct {
	store  repository.Querier
	acker  Acker
	logger *zap.Logger

	mu       sync.Mutex
	sessions map[int64]*Session
}

// NewSessionManager creates the manager. SetAcker must be called before the
// first attach.
func NewSessionManager(store repository.Querier, logger *zap.Logger) *SessionManager {
	return &SessionManager{
		store:    store,
		logger:   logger,
		sessions: make(map[int64]*Session),
	}
}

// SetAcker wires the delivery-verdict consumer. Split from the constructor
// because manager and emitter reference each other.
func (m *SessionManager) SetAcker(a Acker) { m.acker = a }

// Attach registers an authenticated socket and blocks serving it until the
// socket dies.
func (m *SessionManager) Attach(ctx context.Context, system repository.ExternalSystem, conn *websocket.Conn) {
	sess := newSession(system, conn, m)

	m.mu.Lock()
	if prev, ok := m.sessions[system.ID]; ok {
		prev.close()
		m.logConnection(ctx, system.ID, repository.ConnDisconnected, "replaced by new connection")
		m.logger.Warn("previous subscriber socket replaced",
			zap.Int64("system_id", system.ID),
			zap.String("system_name", system.Name))
	}
	m.sessions[system.ID] = sess
	m.mu.Unlock()

	m.logConnection(ctx, system.ID, repository.ConnConnected, "")
	m.logger.Info("subscriber connected",
		zap.Int64("system_id", system.ID),
		zap.String("system_name", system.Name))

	sess.run(ctx)
}

// detach removes the session, but only while it is still the mapped one; a
// replaced socket must not evict its successor.
func (m *SessionManager) detach(ctx context.Context, sess *Session) {
	m.mu.Lock()
	current, ok := m.sessions[sess.system.ID]
	if ok && current == sess {
		delete(m.sessions, sess.system.ID)
		m.mu.Unlock()
		m.logConnection(ctx, sess.system.ID, repository.ConnDisconnected, "")
		m.logger.Info("subscriber disconnected",
			zap.Int64("system_id", sess.system.ID),
			zap.String("system_name", sess.system.Name))
		return
	}
	m.mu.Unlock()
}

// Get returns the live session of a subscriber, if any.
func (m *SessionManager) Get(systemID int64) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[systemID]
	return sess, ok
}

// Shutdown closes every live socket.
func (m *SessionManager) Shutdown() {
	m.mu.Lock()
	sessions := make([]*Session, 0, len(m.sessions))
	for _, sess := range m.sessions {
		sessions = append(sessions, sess)
	}
	m.sessions = make(map[int64]*Session)
	m.mu.Unlock()

	for _, sess := range sessions {
		sess.close()
	}
}

func (m *SessionManager) logConnection(ctx context.Context, systemID int64, event, detail string) {
	if err := m.store.InsertConnectionLog(ctx, systemID, event, detail); err != nil {
		m.logger.Error("connection log insert failed",
			zap.Int64("system_id", systemID), zap.Error(err))
	}
}

package ws

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bonghwa-lab/bonghwa-gateway/internal/external/repository"
)

// dialTestConn returns a real client-side socket backed by a throwaway
// server; the server side just holds the connection open.
func dialTestConn(t *testing.T) *websocket.Conn {
	t.Helper()
	upgrader := websocket.Upgrader{}
	hold := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer c.Close()
		<-hold
	}))
	t.Cleanup(func() {
		close(hold)
		srv.Close()
	})

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	return conn
}

func newTestSession(t *testing.T) *Session {
	m := NewSessionManager(nil, zap.NewNop())
	return newSession(repository.ExternalSystem{ID: 7, Name: "ess-one"}, dialTestConn(t), m)
}

func TestSessionClose_ConcurrentCallsAreSafe(t *testing.T) {
	sess := newTestSession(t)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sess.close()
		}()
	}
	wg.Wait()

	select {
	case <-sess.done:
	default:
		t.Fatal("done channel still open after close")
	}
}

func TestSessionClose_SecondCloseIsNoOp(t *testing.T) {
	sess := newTestSession(t)

	// Both pumps call close on the way out; the second call must be a no-op.
	sess.close()
	assert.NotPanics(t, func() { sess.close() })
}

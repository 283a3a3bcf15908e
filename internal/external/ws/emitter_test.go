package ws_test

import (
	"context"
	"testing"
	"time"

	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"github.com/bonghwa-lab/bonghwa-gateway/internal/external/repository"
	"github.com/bonghwa-lab/bonghwa-gateway/internal/external/repository/mock"
	"github.com/bonghwa-lab/bonghwa-gateway/internal/external/ws"
	"github.com/bonghwa-lab/bonghwa-gateway/internal/model"
)

// xmitTimeout is kept huge so ACK timers never fire during a test.
func newEmitter(t *testing.T) (*ws.Emitter, *mock.MockStore) {
	ctrl := gomock.NewController(t)
	store := mock.NewMockStore(ctrl)
	manager := ws.NewSessionManager(store, zap.NewNop())
	e := ws.NewEmitter(store, manager, time.Hour, 3, zap.NewNop())
	t.Cleanup(e.Shutdown)
	return e, store
}

func transmitRow(id int64, status model.Status) repository.DisasterTransmitLog {
	return repository.DisasterTransmitLog{
		ID:               id,
		ExternalSystemID: 42,
		Identifier:       "KR.CAS.ALERT.1",
		EventCode:        "HRW",
		RawMessage:       "<data>raw</data>",
		Status:           status,
	}
}

func TestDispatch_OfflinePendingRowIsLeftAlone(t *testing.T) {
	e, _ := newEmitter(t)

	// No store expectations: PENDING rows wait for the subscriber to return.
	e.Dispatch(context.Background(), transmitRow(1, model.StatusPending))
}

func TestDispatch_OfflineSentRowIsParkedPending(t *testing.T) {
	e, store := newEmitter(t)

	store.EXPECT().MarkDisasterTransmitResult(gomock.Any(), int64(2),
		model.StatusPending, "subscriber offline").Return(nil)

	e.Dispatch(context.Background(), transmitRow(2, model.StatusSent))
}

func TestOnDeliveryVerdict_Ack(t *testing.T) {
	e, store := newEmitter(t)

	store.EXPECT().MarkDisasterTransmitResult(gomock.Any(), int64(3),
		model.StatusSuccess, "").Return(nil)

	e.OnDeliveryVerdict(context.Background(), 3, true)
}

func TestOnDeliveryVerdict_Nack(t *testing.T) {
	e, store := newEmitter(t)

	store.EXPECT().MarkDisasterTransmitResult(gomock.Any(), int64(4),
		model.StatusPending, "subscriber nack").Return(nil)

	e.OnDeliveryVerdict(context.Background(), 4, false)
}

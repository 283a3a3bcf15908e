package worker_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"github.com/bonghwa-lab/bonghwa-gateway/internal/external/repository"
	"github.com/bonghwa-lab/bonghwa-gateway/internal/external/repository/mock"
	"github.com/bonghwa-lab/bonghwa-gateway/internal/external/worker"
	"github.com/bonghwa-lab/bonghwa-gateway/internal/model"
)

type fakeBroker struct {
	mu          sync.Mutex
	err         error
	exchanges   []string
	keys        []string
	bodies      [][]byte
	inFlight    int
	maxInFlight int
}

func (b *fakeBroker) Publish(ctx context.Context, exchange, key string, body []byte) error {
	b.mu.Lock()
	b.inFlight++
	if b.inFlight > b.maxInFlight {
		b.maxInFlight = b.inFlight
	}
	b.mu.Unlock()

	// Hold the slot long enough for overlapping publishes to be observable.
	time.Sleep(time.Millisecond)

	b.mu.Lock()
	defer b.mu.Unlock()
	b.inFlight--
	b.exchanges = append(b.exchanges, exchange)
	b.keys = append(b.keys, key)
	b.bodies = append(b.bodies, body)
	return b.err
}

func publishRow(id int64) repository.ReportPublishLog {
	return repository.ReportPublishLog{
		ID:                 id,
		Type:               model.ReportDisasterResult,
		Identifier:         "KR.CAS.ALERT.1",
		ExternalSystemName: "ess-one",
		RawMessage:         `{"result":"done"}`,
		Status:             model.StatusPending,
	}
}

func TestReportPublisher_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mock.NewMockQuerier(ctrl)
	broker := &fakeBroker{}
	w := worker.NewReportPublisher(store, broker, "report.direct", "report.external", 3, zap.NewNop())

	store.EXPECT().ListPendingReportPublish(gomock.Any(), int32(100)).
		Return([]repository.ReportPublishLog{publishRow(1)}, nil)
	store.EXPECT().MarkReportPublishStatus(gomock.Any(), int64(1), model.StatusSuccess).Return(nil)

	w.Run(context.Background())

	require.Len(t, broker.bodies, 1)
	assert.Equal(t, "report.direct", broker.exchanges[0])
	assert.Equal(t, "report.external", broker.keys[0])

	var payload map[string]string
	require.NoError(t, json.Unmarshal(broker.bodies[0], &payload))
	assert.Equal(t, "DISASTER_RESULT", payload["type"])
	assert.Equal(t, "ess-one", payload["externalSystemName"])
	assert.Equal(t, "KR.CAS.ALERT.1", payload["identifier"])
	assert.Equal(t, `{"result":"done"}`, payload["rawMessage"])
}

func TestReportPublisher_DeviceReportOmitsIdentifier(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mock.NewMockQuerier(ctrl)
	broker := &fakeBroker{}
	w := worker.NewReportPublisher(store, broker, "report.direct", "report.external", 3, zap.NewNop())

	row := publishRow(2)
	row.Type = model.ReportDeviceInfo
	row.Identifier = ""

	store.EXPECT().ListPendingReportPublish(gomock.Any(), int32(100)).
		Return([]repository.ReportPublishLog{row}, nil)
	store.EXPECT().MarkReportPublishStatus(gomock.Any(), int64(2), model.StatusSuccess).Return(nil)

	w.Run(context.Background())

	require.Len(t, broker.bodies, 1)
	var payload map[string]any
	require.NoError(t, json.Unmarshal(broker.bodies[0], &payload))
	assert.NotContains(t, payload, "identifier")
}

func TestReportPublisher_PublishErrorBumpsRetry(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mock.NewMockQuerier(ctrl)
	broker := &fakeBroker{err: errors.New("channel closed")}
	w := worker.NewReportPublisher(store, broker, "report.direct", "report.external", 3, zap.NewNop())

	store.EXPECT().ListPendingReportPublish(gomock.Any(), int32(100)).
		Return([]repository.ReportPublishLog{publishRow(3)}, nil)
	store.EXPECT().BumpReportPublishRetry(gomock.Any(), int64(3)).Return(int32(1), nil)

	w.Run(context.Background())
}

func TestReportPublisher_RetryLimitMarksFailed(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mock.NewMockQuerier(ctrl)
	broker := &fakeBroker{err: errors.New("channel closed")}
	w := worker.NewReportPublisher(store, broker, "report.direct", "report.external", 3, zap.NewNop())

	store.EXPECT().ListPendingReportPublish(gomock.Any(), int32(100)).
		Return([]repository.ReportPublishLog{publishRow(4)}, nil)
	store.EXPECT().BumpReportPublishRetry(gomock.Any(), int64(4)).Return(int32(4), nil)
	store.EXPECT().MarkReportPublishStatus(gomock.Any(), int64(4), model.StatusFailed).Return(nil)

	w.Run(context.Background())
}

func TestReportPublisher_BatchPublishesAreBounded(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mock.NewMockQuerier(ctrl)
	broker := &fakeBroker{}
	w := worker.NewReportPublisher(store, broker, "report.direct", "report.external", 3, zap.NewNop())

	rows := make([]repository.ReportPublishLog, 12)
	for i := range rows {
		rows[i] = publishRow(int64(100 + i))
	}
	store.EXPECT().ListPendingReportPublish(gomock.Any(), int32(100)).Return(rows, nil)
	store.EXPECT().MarkReportPublishStatus(gomock.Any(), gomock.Any(), model.StatusSuccess).
		Return(nil).Times(len(rows))

	w.Run(context.Background())

	assert.Len(t, broker.bodies, len(rows))
	assert.LessOrEqual(t, broker.maxInFlight, 5)
}

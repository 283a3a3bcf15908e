package worker_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"github.com/bonghwa-lab/bonghwa-gateway/internal/central/repository"
	"github.com/bonghwa-lab/bonghwa-gateway/internal/central/repository/mock"
	"github.com/bonghwa-lab/bonghwa-gateway/internal/central/worker"
	"github.com/bonghwa-lab/bonghwa-gateway/internal/model"
)

type fakeBroker struct {
	err       error
	exchanges []string
	keys      []string
	bodies    [][]byte
}

func (b *fakeBroker) Publish(ctx context.Context, exchange, key string, body []byte) error {
	b.exchanges = append(b.exchanges, exchange)
	b.keys = append(b.keys, key)
	b.bodies = append(b.bodies, body)
	return b.err
}

func publishRow(id int64) repository.DisasterPublishLog {
	return repository.DisasterPublishLog{
		ID:         id,
		RoutingKey: "disaster.HRW",
		Identifier: "KR.CAS.ALERT.1",
		EventCode:  "HRW",
		RawMessage: "<data>raw</data>",
		Status:     model.StatusPending,
	}
}

func TestDisasterPublisher_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mock.NewMockQuerier(ctrl)
	broker := &fakeBroker{}
	w := worker.NewDisasterPublisher(store, broker, "disaster.topic", 3, zap.NewNop())

	row := publishRow(1)
	store.EXPECT().ListPendingDisasterPublish(gomock.Any(), int32(100)).
		Return([]repository.DisasterPublishLog{row}, nil)
	store.EXPECT().MarkDisasterPublishStatus(gomock.Any(), int64(1), model.StatusSuccess).Return(nil)

	w.Run(context.Background())

	require.Len(t, broker.bodies, 1)
	assert.Equal(t, "disaster.topic", broker.exchanges[0])
	assert.Equal(t, "disaster.HRW", broker.keys[0])

	var payload map[string]string
	require.NoError(t, json.Unmarshal(broker.bodies[0], &payload))
	assert.Equal(t, "KR.CAS.ALERT.1", payload["identifier"])
	assert.Equal(t, "HRW", payload["eventCode"])
	assert.Equal(t, "<data>raw</data>", payload["rawMessage"])
}

func TestDisasterPublisher_PublishErrorBumpsRetry(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mock.NewMockQuerier(ctrl)
	broker := &fakeBroker{err: errors.New("channel closed")}
	w := worker.NewDisasterPublisher(store, broker, "disaster.topic", 3, zap.NewNop())

	store.EXPECT().ListPendingDisasterPublish(gomock.Any(), int32(100)).
		Return([]repository.DisasterPublishLog{publishRow(2)}, nil)
	store.EXPECT().BumpDisasterPublishRetry(gomock.Any(), int64(2)).Return(int32(1), nil)

	w.Run(context.Background())
}

func TestDisasterPublisher_RetryLimitMarksFailed(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mock.NewMockQuerier(ctrl)
	broker := &fakeBroker{err: errors.New("channel closed")}
	w := worker.NewDisasterPublisher(store, broker, "disaster.topic", 3, zap.NewNop())

	store.EXPECT().ListPendingDisasterPublish(gomock.Any(), int32(100)).
		Return([]repository.DisasterPublishLog{publishRow(3)}, nil)
	store.EXPECT().BumpDisasterPublishRetry(gomock.Any(), int64(3)).Return(int32(4), nil)
	store.EXPECT().MarkDisasterPublishStatus(gomock.Any(), int64(3), model.StatusFailed).Return(nil)

	w.Run(context.Background())
}

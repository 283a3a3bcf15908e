package consumer

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"github.com/bonghwa-lab/bonghwa-gateway/internal/central/repository"
	"github.com/bonghwa-lab/bonghwa-gateway/internal/central/repository/mock"
	"github.com/bonghwa-lab/bonghwa-gateway/internal/central/worker"
	"github.com/bonghwa-lab/bonghwa-gateway/internal/model"
	"github.com/bonghwa-lab/bonghwa-gateway/pkg/amqpclient"
)

func newConsumer(t *testing.T) (*ReportConsumer, *mock.MockStore) {
	ctrl := gomock.NewController(t)
	store := mock.NewMockStore(ctrl)
	c := NewReportConsumer(nil, amqpclient.ReportTopology(time.Minute), store, "GW001", 3, zap.NewNop())
	return c, store
}

func passThroughTx(store *mock.MockStore) {
	store.EXPECT().WithinTx(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, fn func(q repository.Querier) error) error {
			return fn(store)
		})
}

func TestStageReport_DeviceInfo(t *testing.T) {
	c, store := newConsumer(t)
	body := []byte(`{"type":"DEVICE_INFO","externalSystemName":"ess-one","rawMessage":"{\"deviceId\":\"DEV-1\"}"}`)

	var gotID string
	passThroughTx(store)
	store.EXPECT().InsertReportTransmitLog(gomock.Any(), int64(11), model.ReportDeviceInfo,
		gomock.Any(), "ess-one", `{"deviceId":"DEV-1"}`).DoAndReturn(
		func(ctx context.Context, logID int64, rt model.ReportType, outboundID, systemName, raw string) (int64, error) {
			gotID = outboundID
			return 1, nil
		})
	store.EXPECT().UpdateMQReceiveLogStatus(gomock.Any(), int64(11), model.StatusSuccess, "").Return(nil)

	require.NoError(t, c.stageReport(context.Background(), 11, body))
	assert.Regexp(t, regexp.MustCompile(`^KR\.GW001_\d+_[0-9a-f]{8}$`), gotID)
}

func TestStageReport_DisasterResult(t *testing.T) {
	c, store := newConsumer(t)
	body := []byte(`{"type":"DISASTER_RESULT","externalSystemName":"ess-one","identifier":"KR.CAS.ALERT.1","rawMessage":"{\"result\":\"done\"}"}`)

	passThroughTx(store)
	store.EXPECT().GetDisasterPublishByIdentifier(gomock.Any(), "KR.CAS.ALERT.1").
		Return(repository.DisasterPublishLog{Identifier: "KR.CAS.ALERT.1"}, nil)
	store.EXPECT().InsertReportTransmitLog(gomock.Any(), int64(12), model.ReportDisasterResult,
		"KR.CAS.ALERT.1"+worker.DisasterResultSuffix, "ess-one", `{"result":"done"}`).Return(int64(2), nil)
	store.EXPECT().UpdateMQReceiveLogStatus(gomock.Any(), int64(12), model.StatusSuccess, "").Return(nil)

	require.NoError(t, c.stageReport(context.Background(), 12, body))
}

func TestStageReport_DisasterResultUnknownOriginal(t *testing.T) {
	c, store := newConsumer(t)
	body := []byte(`{"type":"DISASTER_RESULT","externalSystemName":"ess-one","identifier":"KR.CAS.ALERT.404","rawMessage":"{}"}`)

	passThroughTx(store)
	store.EXPECT().GetDisasterPublishByIdentifier(gomock.Any(), "KR.CAS.ALERT.404").
		Return(repository.DisasterPublishLog{}, repository.ErrNotFound)

	err := c.stageReport(context.Background(), 13, body)
	require.Error(t, err)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestStageReport_DisasterResultWithoutIdentifier(t *testing.T) {
	c, store := newConsumer(t)
	body := []byte(`{"type":"DISASTER_RESULT","externalSystemName":"ess-one","rawMessage":"{}"}`)

	passThroughTx(store)

	err := c.stageReport(context.Background(), 14, body)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "without identifier")
}

func TestStageReport_UnknownType(t *testing.T) {
	c, _ := newConsumer(t)

	err := c.stageReport(context.Background(), 15, []byte(`{"type":"TELEMETRY","externalSystemName":"ess-one","rawMessage":"{}"}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown report type")
}

func TestStageReport_MalformedPayload(t *testing.T) {
	c, _ := newConsumer(t)

	err := c.stageReport(context.Background(), 16, []byte("not json"))
	require.Error(t, err)
}

type retryPublish struct {
	key        string
	body       string
	retryCount int
}

type fakeBroker struct {
	err       error
	published []retryPublish
}

func (b *fakeBroker) NewChannel() (*amqp.Channel, error) {
	return nil, errors.New("not dialed")
}

func (b *fakeBroker) PublishRetry(ctx context.Context, t amqpclient.Topology, key string, body []byte, retryCount int) error {
	if b.err != nil {
		return b.err
	}
	b.published = append(b.published, retryPublish{key: key, body: string(body), retryCount: retryCount})
	return nil
}

type fakeAcknowledger struct {
	acked  int
	nacked []bool // requeue flag per nack
}

func (a *fakeAcknowledger) Ack(tag uint64, multiple bool) error { a.acked++; return nil }

func (a *fakeAcknowledger) Nack(tag uint64, multiple, requeue bool) error {
	a.nacked = append(a.nacked, requeue)
	return nil
}

func (a *fakeAcknowledger) Reject(tag uint64, requeue bool) error {
	a.nacked = append(a.nacked, requeue)
	return nil
}

func newDeliveryConsumer(t *testing.T, broker Broker) (*ReportConsumer, *mock.MockStore) {
	ctrl := gomock.NewController(t)
	store := mock.NewMockStore(ctrl)
	c := NewReportConsumer(broker, amqpclient.ReportTopology(time.Minute), store, "GW001", 3, zap.NewNop())
	return c, store
}

func delivery(ack amqp.Acknowledger, body string, retryCount int) amqp.Delivery {
	d := amqp.Delivery{Acknowledger: ack, DeliveryTag: 1, RoutingKey: "report.external", Body: []byte(body)}
	if retryCount > 0 {
		d.Headers = amqp.Table{amqpclient.RetryCountHeader: int32(retryCount)}
	}
	return d
}

func TestHandleDelivery_FailureRepublishesThroughWaitQueue(t *testing.T) {
	broker := &fakeBroker{}
	c, store := newDeliveryConsumer(t, broker)
	store.EXPECT().InsertMQReceiveLog(gomock.Any(), "not json").Return(int64(31), nil)
	store.EXPECT().UpdateMQReceiveLogStatus(gomock.Any(), int64(31), model.StatusFailed, gomock.Any()).Return(nil)

	ack := &fakeAcknowledger{}
	c.handleDelivery(context.Background(), delivery(ack, "not json", 0))

	require.Len(t, broker.published, 1)
	assert.Equal(t, 1, broker.published[0].retryCount)
	assert.Equal(t, 1, ack.acked)
	assert.Empty(t, ack.nacked)
}

func TestHandleDelivery_RetryPublishFailureDeadLetters(t *testing.T) {
	broker := &fakeBroker{err: errors.New("channel closed")}
	c, store := newDeliveryConsumer(t, broker)
	store.EXPECT().InsertMQReceiveLog(gomock.Any(), "not json").Return(int64(32), nil)
	var reason string
	store.EXPECT().UpdateMQReceiveLogStatus(gomock.Any(), int64(32), model.StatusFailed, gomock.Any()).DoAndReturn(
		func(ctx context.Context, id int64, st model.Status, detail string) error {
			reason = detail
			return nil
		})

	ack := &fakeAcknowledger{}
	c.handleDelivery(context.Background(), delivery(ack, "not json", 0))

	assert.Equal(t, 0, ack.acked)
	require.Len(t, ack.nacked, 1)
	assert.False(t, ack.nacked[0], "dead-lettered message must not be requeued")
	assert.Contains(t, reason, "[Final Failed]")
}

func TestHandleDelivery_ExhaustedBudgetDeadLetters(t *testing.T) {
	broker := &fakeBroker{}
	c, store := newDeliveryConsumer(t, broker)
	store.EXPECT().InsertMQReceiveLog(gomock.Any(), "not json").Return(int64(33), nil)
	store.EXPECT().UpdateMQReceiveLogStatus(gomock.Any(), int64(33), model.StatusFailed, gomock.Any()).Return(nil)

	ack := &fakeAcknowledger{}
	c.handleDelivery(context.Background(), delivery(ack, "not json", 3))

	assert.Empty(t, broker.published)
	require.Len(t, ack.nacked, 1)
	assert.False(t, ack.nacked[0])
}

func TestHandleDelivery_InboxFailureRepublishesWithoutMark(t *testing.T) {
	broker := &fakeBroker{}
	c, store := newDeliveryConsumer(t, broker)
	store.EXPECT().InsertMQReceiveLog(gomock.Any(), gomock.Any()).
		Return(int64(0), errors.New("connection refused"))

	ack := &fakeAcknowledger{}
	c.handleDelivery(context.Background(), delivery(ack, `{"type":"DEVICE_INFO"}`, 0))

	require.Len(t, broker.published, 1)
	assert.Equal(t, 1, ack.acked)
	assert.Empty(t, ack.nacked)
}

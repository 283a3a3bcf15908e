package consumer

import (
	"context"
	"errors"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"github.com/bonghwa-lab/bonghwa-gateway/internal/external/repository"
	"github.com/bonghwa-lab/bonghwa-gateway/internal/external/repository/mock"
	"github.com/bonghwa-lab/bonghwa-gateway/internal/model"
	"github.com/bonghwa-lab/bonghwa-gateway/pkg/amqpclient"
)

func newConsumer(t *testing.T) (*DisasterConsumer, *mock.MockStore) {
	ctrl := gomock.NewController(t)
	store := mock.NewMockStore(ctrl)
	c := NewDisasterConsumer(nil, amqpclient.DisasterTopology(time.Minute), store, 3, zap.NewNop())
	return c, store
}

func passThroughTx(store *mock.MockStore) {
	store.EXPECT().WithinTx(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, fn func(q repository.Querier) error) error {
			return fn(store)
		})
}

func TestFanOut_StagesOneRowPerSubscriber(t *testing.T) {
	c, store := newConsumer(t)
	body := []byte(`{"identifier":"KR.CAS.ALERT.1","eventCode":"HRW","rawMessage":"<data>raw</data>"}`)

	passThroughTx(store)
	store.EXPECT().ListActiveSystemsByEventCode(gomock.Any(), "HRW").
		Return([]repository.ExternalSystem{
			{ID: 1, Name: "ess-one"},
			{ID: 2, Name: "ess-two"},
		}, nil)
	store.EXPECT().InsertDisasterTransmitLog(gomock.Any(), int64(21), int64(1),
		"KR.CAS.ALERT.1", "HRW", "<data>raw</data>").Return(true, nil)
	store.EXPECT().InsertDisasterTransmitLog(gomock.Any(), int64(21), int64(2),
		"KR.CAS.ALERT.1", "HRW", "<data>raw</data>").Return(true, nil)
	store.EXPECT().UpdateMQReceiveLogStatus(gomock.Any(), int64(21), model.StatusSuccess, "").Return(nil)

	require.NoError(t, c.fanOut(context.Background(), 21, body))
}

func TestFanOut_RedeliveryIsIdempotent(t *testing.T) {
	c, store := newConsumer(t)
	body := []byte(`{"identifier":"KR.CAS.ALERT.1","eventCode":"HRW","rawMessage":"<data>raw</data>"}`)

	passThroughTx(store)
	store.EXPECT().ListActiveSystemsByEventCode(gomock.Any(), "HRW").
		Return([]repository.ExternalSystem{{ID: 1, Name: "ess-one"}}, nil)
	// ON CONFLICT DO NOTHING: the row already exists from the first delivery.
	store.EXPECT().InsertDisasterTransmitLog(gomock.Any(), int64(22), int64(1),
		"KR.CAS.ALERT.1", "HRW", "<data>raw</data>").Return(false, nil)
	store.EXPECT().UpdateMQReceiveLogStatus(gomock.Any(), int64(22), model.StatusSuccess, "").Return(nil)

	require.NoError(t, c.fanOut(context.Background(), 22, body))
}

func TestFanOut_NoSubscribersStillSucceeds(t *testing.T) {
	c, store := newConsumer(t)
	body := []byte(`{"identifier":"KR.CAS.ALERT.2","eventCode":"TSW","rawMessage":"<data>raw</data>"}`)

	passThroughTx(store)
	store.EXPECT().ListActiveSystemsByEventCode(gomock.Any(), "TSW").
		Return(nil, nil)
	store.EXPECT().UpdateMQReceiveLogStatus(gomock.Any(), int64(23), model.StatusSuccess, "").Return(nil)

	require.NoError(t, c.fanOut(context.Background(), 23, body))
}

func TestFanOut_MissingFieldsRejected(t *testing.T) {
	c, _ := newConsumer(t)

	err := c.fanOut(context.Background(), 24, []byte(`{"identifier":"KR.CAS.ALERT.3"}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing identifier or eventCode")
}

func TestFanOut_StagingErrorRollsBack(t *testing.T) {
	c, store := newConsumer(t)
	body := []byte(`{"identifier":"KR.CAS.ALERT.4","eventCode":"HRW","rawMessage":"<data>raw</data>"}`)

	passThroughTx(store)
	store.EXPECT().ListActiveSystemsByEventCode(gomock.Any(), "HRW").
		Return([]repository.ExternalSystem{{ID: 1, Name: "ess-one"}}, nil)
	store.EXPECT().InsertDisasterTransmitLog(gomock.Any(), int64(25), int64(1),
		"KR.CAS.ALERT.4", "HRW", "<data>raw</data>").
		Return(false, errors.New("connection reset"))

	err := c.fanOut(context.Background(), 25, body)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stage alert for ess-one")
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

func newDeliveryConsumer(t *testing.T, broker Broker) (*DisasterConsumer, *mock.MockStore) {
	ctrl := gomock.NewController(t)
	store := mock.NewMockStore(ctrl)
	c := NewDisasterConsumer(broker, amqpclient.DisasterTopology(time.Minute), store, 3, zap.NewNop())
	return c, store
}

func delivery(ack amqp.Acknowledger, body string, retryCount int) amqp.Delivery {
	d := amqp.Delivery{Acknowledger: ack, DeliveryTag: 1, RoutingKey: "disaster.HRW", Body: []byte(body)}
	if retryCount > 0 {
		d.Headers = amqp.Table{amqpclient.RetryCountHeader: int32(retryCount)}
	}
	return d
}

func TestHandleDelivery_FailureRepublishesThroughWaitQueue(t *testing.T) {
	broker := &fakeBroker{}
	c, store := newDeliveryConsumer(t, broker)
	store.EXPECT().InsertMQReceiveLog(gomock.Any(), "not json").Return(int64(41), nil)
	store.EXPECT().UpdateMQReceiveLogStatus(gomock.Any(), int64(41), model.StatusFailed, gomock.Any()).Return(nil)

	ack := &fakeAcknowledger{}
	c.handleDelivery(context.Background(), delivery(ack, "not json", 0))

	require.Len(t, broker.published, 1)
	assert.Equal(t, 1, broker.published[0].retryCount)
	assert.Equal(t, "disaster.HRW", broker.published[0].key)
	assert.Equal(t, 1, ack.acked)
	assert.Empty(t, ack.nacked)
}

func TestHandleDelivery_RetryPublishFailureDeadLetters(t *testing.T) {
	broker := &fakeBroker{err: errors.New("channel closed")}
	c, store := newDeliveryConsumer(t, broker)
	store.EXPECT().InsertMQReceiveLog(gomock.Any(), "not json").Return(int64(42), nil)
	var reason string
	store.EXPECT().UpdateMQReceiveLogStatus(gomock.Any(), int64(42), model.StatusFailed, gomock.Any()).DoAndReturn(
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
	store.EXPECT().InsertMQReceiveLog(gomock.Any(), "not json").Return(int64(43), nil)
	store.EXPECT().UpdateMQReceiveLogStatus(gomock.Any(), int64(43), model.StatusFailed, gomock.Any()).Return(nil)

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
	c.handleDelivery(context.Background(), delivery(ack, `{"identifier":"KR.CAS.ALERT.9"}`, 0))

	require.Len(t, broker.published, 1)
	assert.Equal(t, 1, ack.acked)
	assert.Empty(t, ack.nacked)
}

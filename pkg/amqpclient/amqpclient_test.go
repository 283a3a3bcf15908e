package amqpclient_test

import (
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"

	"github.com/bonghwa-lab/bonghwa-gateway/pkg/amqpclient"
)

func TestDisasterTopology(t *testing.T) {
	topo := amqpclient.DisasterTopology(30 * time.Second)

	assert.Equal(t, "disaster.topic", topo.Exchange)
	assert.Equal(t, "topic", topo.Kind)
	assert.Equal(t, "disaster.main", topo.Queue)
	assert.Equal(t, "disaster.*", topo.BindKey)
	assert.Equal(t, "disaster_retry", topo.RetryExchange)
	assert.Equal(t, "disaster.wait", topo.WaitQueue)
	assert.Equal(t, 30*time.Second, topo.RetryTTL)
	assert.Equal(t, "disaster_dlx", topo.DLX)
	assert.Equal(t, "disaster.dlq", topo.DLQ)
	assert.Equal(t, "#", topo.DLQBindKey)
}

func TestReportTopology(t *testing.T) {
	topo := amqpclient.ReportTopology(time.Minute)

	assert.Equal(t, "report.direct", topo.Exchange)
	assert.Equal(t, "direct", topo.Kind)
	assert.Equal(t, "report.main", topo.Queue)
	assert.Equal(t, "report.external", topo.BindKey)
	assert.Equal(t, "report.external", topo.DLQBindKey)
}

func TestRetryCount(t *testing.T) {
	tests := []struct {
		name    string
		headers amqp.Table
		want    int
	}{
		{"absent", nil, 0},
		{"int32", amqp.Table{amqpclient.RetryCountHeader: int32(2)}, 2},
		{"int64", amqp.Table{amqpclient.RetryCountHeader: int64(3)}, 3},
		{"int", amqp.Table{amqpclient.RetryCountHeader: 4}, 4},
		{"unparsable", amqp.Table{amqpclient.RetryCountHeader: "five"}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := amqpclient.RetryCount(amqp.Delivery{Headers: tt.headers})
			assert.Equal(t, tt.want, got)
		})
	}
}

package mqttpub

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/chrissnell/coolingload/internal/calc"
	"github.com/chrissnell/coolingload/internal/metrics"
	"github.com/chrissnell/coolingload/pkg/config"
)

type fakeToken struct {
	err  error
	done chan struct{}
}

func newToken(err error) *fakeToken {
	t := &fakeToken{err: err, done: make(chan struct{})}
	close(t.done)
	return t
}

func (t *fakeToken) Wait() bool { return true }
func (t *fakeToken) WaitTimeout(time.Duration) bool { return true }
func (t *fakeToken) Done() <-chan struct{} { return t.done }
func (t *fakeToken) Error() error { return t.err }

type published struct {
	topic    string
	qos      byte
	retained bool
	payload  []byte
}

type fakeClient struct {
	mu           sync.Mutex
	connectErr   error
	publishErr   error
	messages     []published
	disconnected bool
	got          chan struct{}
}

func (f *fakeClient) Connect() pahomqtt.Token { return newToken(f.connectErr) }

func (f *fakeClient) Publish(topic string, qos byte, retained bool, payload interface{}) pahomqtt.Token {
	f.mu.Lock()
	f.messages = append(f.messages, published{topic: topic, qos: qos, retained: retained, payload: payload.([]byte)})
	f.mu.Unlock()
	f.got <- struct{}{}
	return newToken(f.publishErr)
}

func (f *fakeClient) Disconnect(uint) {
	f.mu.Lock()
	f.disconnected = true
	f.mu.Unlock()
}

func TestTopic(t *testing.T) {
	assert.Equal(t, "coolingload/adhoc/summary", Topic("coolingload", ""))
	assert.Equal(t, "bms/rooms/abc/summary", Topic("bms/rooms/", "abc"))
}

func TestNewControllerValidation(t *testing.T) {
	var wg sync.WaitGroup
	_, err := NewController(context.Background(), &wg, config.MQTTData{}, nil, zap.NewNop().Sugar())
	assert.Error(t, err)

	_, err = NewController(context.Background(), &wg, config.MQTTData{Broker: "localhost:1883", QoS: 3}, nil, zap.NewNop().Sugar())
	assert.Error(t, err)

	c, err := NewController(context.Background(), &wg, config.MQTTData{Broker: "localhost:1883"}, nil, zap.NewNop().Sugar())
	require.NoError(t, err)
	assert.Equal(t, config.DefaultMQTTPrefix, c.cfg.TopicPrefix)
	assert.Equal(t, config.DefaultMQTTClientID, c.cfg.ClientID)
}

func TestPublishSummary(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	client := &fakeClient{got: make(chan struct{}, 1)}
	cfg := config.MQTTData{Broker: "tcp://broker:1883", TopicPrefix: "bms", QoS: 1, Retain: true}
	c := newController(ctx, &wg, cfg, client, nil, zap.NewNop().Sugar())

	require.NoError(t, c.StartController())
	c.PublishSummary("p-1", calc.Summary{Month: 7, PeakTotal: 1850.5})

	select {
	case <-client.got:
	case <-time.After(2 * time.Second):
		t.Fatal("summary was not published")
	}

	cancel()
	wg.Wait()

	client.mu.Lock()
	defer client.mu.Unlock()
	require.Len(t, client.messages, 1)
	msg := client.messages[0]
	assert.Equal(t, "bms/p-1/summary", msg.topic)
	assert.Equal(t, byte(1), msg.qos)
	assert.True(t, msg.retained)

	var s calc.Summary
	require.NoError(t, json.Unmarshal(msg.payload, &s))
	assert.Equal(t, 7, s.Month)
	assert.Equal(t, 1850.5, s.PeakTotal)
	assert.True(t, client.disconnected)
}

func TestPublishWithBrokerError(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	client := &fakeClient{publishErr: errors.New("broker gone"), got: make(chan struct{}, 1)}
	c := newController(context.Background(), &sync.WaitGroup{}, config.MQTTData{TopicPrefix: "x"}, client, m, zap.NewNop().Sugar())

	c.publish(message{topic: "x/adhoc/summary", payload: []byte("{}")})
	<-client.got
	assert.Len(t, client.messages, 1)
}

func TestStartControllerConnectError(t *testing.T) {
	client := &fakeClient{connectErr: errors.New("refused"), got: make(chan struct{}, 1)}
	c := newController(context.Background(), &sync.WaitGroup{}, config.MQTTData{Broker: "b"}, client, nil, zap.NewNop().Sugar())
	assert.Error(t, c.StartController())
}

func TestQueueFullDrops(t *testing.T) {
	c := newController(context.Background(), &sync.WaitGroup{}, config.MQTTData{TopicPrefix: "x"}, &fakeClient{}, nil, zap.NewNop().Sugar())
	for i := 0; i < queueSize+5; i++ {
		c.PublishSummary("", calc.Summary{})
	}
	assert.Len(t, c.queue, queueSize)
}

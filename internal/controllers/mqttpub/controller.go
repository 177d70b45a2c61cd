// Package mqttpub publishes calculation summaries to an MQTT broker so that
// building automation can pick up the design-day peak of a room.
package mqttpub

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"

	"github.com/chrissnell/coolingload/internal/calc"
	"github.com/chrissnell/coolingload/internal/metrics"
	"github.com/chrissnell/coolingload/pkg/config"
)

const (
	connectTimeout    = 10 * time.Second
	publishTimeout    = 5 * time.Second
	disconnectQuiesce = 1000 // milliseconds
	queueSize         = 64

	// AdhocProject names the topic segment of calculations not tied to a stored project
	AdhocProject = "adhoc"
)

// Publisher accepts summaries for publishing. Implementations never block
// the caller on the network.
type Publisher interface {
	PublishSummary(project string, s calc.Summary)
}

// publishClient is the part of pahomqtt.Client the controller uses
type publishClient interface {
	Connect() pahomqtt.Token
	Publish(topic string, qos byte, retained bool, payload interface{}) pahomqtt.Token
	Disconnect(quiesce uint)
}

type message struct {
	topic   string
	payload []byte
}

// Controller drains a queue of summaries into the broker
type Controller struct {
	ctx     context.Context
	wg      *sync.WaitGroup
	cfg     config.MQTTData
	client  publishClient
	metrics *metrics.Metrics
	logger  *zap.SugaredLogger
	queue   chan message
}

// NewController creates a new MQTT publisher controller
func NewController(ctx context.Context, wg *sync.WaitGroup, mc config.MQTTData, m *metrics.Metrics, logger *zap.SugaredLogger) (*Controller, error) {
	if mc.Broker == "" {
		return nil, fmt.Errorf("mqtt broker must be provided")
	}
	if mc.QoS > 2 {
		return nil, fmt.Errorf("mqtt qos must be 0, 1 or 2, got %d", mc.QoS)
	}
	if mc.TopicPrefix == "" {
		mc.TopicPrefix = config.DefaultMQTTPrefix
	}
	if mc.ClientID == "" {
		mc.ClientID = config.DefaultMQTTClientID
	}

	return newController(ctx, wg, mc, pahomqtt.NewClient(clientOptions(mc)), m, logger), nil
}

func newController(ctx context.Context, wg *sync.WaitGroup, mc config.MQTTData, client publishClient, m *metrics.Metrics, logger *zap.SugaredLogger) *Controller {
	return &Controller{
		ctx:     ctx,
		wg:      wg,
		cfg:     mc,
		client:  client,
		metrics: m,
		logger:  logger,
		queue:   make(chan message, queueSize),
	}
}

func clientOptions(mc config.MQTTData) *pahomqtt.ClientOptions {
	opts := pahomqtt.NewClientOptions()
	broker := mc.Broker
	if !strings.Contains(broker, "://") {
		broker = "tcp://" + broker
	}
	opts.AddBroker(broker)
	opts.SetClientID(mc.ClientID)
	if mc.Username != "" {
		opts.SetUsername(mc.Username)
		opts.SetPassword(mc.Password)
	}
	opts.SetCleanSession(true)
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectTimeout(connectTimeout)
	return opts
}

// Topic returns the summary topic of a project
func Topic(prefix, project string) string {
	if project == "" {
		project = AdhocProject
	}
	return strings.TrimSuffix(prefix, "/") + "/" + project + "/summary"
}

// StartController connects to the broker and starts the publish loop
func (c *Controller) StartController() error {
	c.logger.Infof("Starting MQTT publisher for %s...", c.cfg.Broker)

	// With connect retry enabled the token completes once the first attempt
	// is scheduled; publishes made before the connection are buffered by paho.
	token := c.client.Connect()
	if token.WaitTimeout(connectTimeout) && token.Error() != nil {
		return fmt.Errorf("error connecting to mqtt broker %s: %v", c.cfg.Broker, token.Error())
	}

	c.wg.Add(1)
	go c.run()
	return nil
}

func (c *Controller) run() {
	defer c.wg.Done()
	for {
		select {
		case msg := <-c.queue:
			c.publish(msg)
		case <-c.ctx.Done():
			c.logger.Info("Shutting down the MQTT publisher...")
			c.client.Disconnect(disconnectQuiesce)
			return
		}
	}
}

func (c *Controller) publish(msg message) {
	token := c.client.Publish(msg.topic, c.cfg.QoS, c.cfg.Retain, msg.payload)
	if !token.WaitTimeout(publishTimeout) {
		c.metrics.PublishError()
		c.logger.Warnf("timed out publishing to %s", msg.topic)
		return
	}
	if err := token.Error(); err != nil {
		c.metrics.PublishError()
		c.logger.Warnf("error publishing to %s: %v", msg.topic, err)
	}
}

// PublishSummary queues s for publishing. The summary is dropped when the
// queue is full.
func (c *Controller) PublishSummary(project string, s calc.Summary) {
	payload, err := json.Marshal(s)
	if err != nil {
		c.logger.Errorf("error marshalling summary: %v", err)
		return
	}

	select {
	case c.queue <- message{topic: Topic(c.cfg.TopicPrefix, project), payload: payload}:
	default:
		c.metrics.PublishError()
		c.logger.Warn("mqtt publish queue full; dropping summary")
	}
}

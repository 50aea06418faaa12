// Package mqtt receives Hermes intents from an MQTT broker.
package mqtt

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/jmwilson/ollie/pkg/adapters/hermes"
	"github.com/jmwilson/ollie/pkg/domain"
	"github.com/jmwilson/ollie/pkg/ports"
)

// Client is the subset of the paho client the adapter uses.
type Client interface {
	Connect() paho.Token
	Disconnect(quiesce uint)
	Subscribe(topic string, qos byte, callback paho.MessageHandler) paho.Token
	Unsubscribe(topics ...string) paho.Token
	Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token
}

// Adapter subscribes to intent topics and submits every intent it receives.
type Adapter struct {
	client    Client
	submitter ports.IntentSubmitter
	logger    *slog.Logger
	namespace string
	qos       byte
	timeout   time.Duration
	backlog   int
}

type delivery struct {
	topic   string
	payload []byte
}

type Option func(*Adapter)

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Adapter) {
		a.logger = logger
	}
}

// WithNamespace only submits intents from one skill namespace, e.g. "jmwilson".
// Intents from other namespaces still have their sessions ended.
func WithNamespace(ns string) Option {
	return func(a *Adapter) {
		a.namespace = ns
	}
}

// WithQoS sets the subscription and publish QoS.
func WithQoS(qos byte) Option {
	return func(a *Adapter) {
		a.qos = qos
	}
}

// WithTimeout bounds how long broker operations may take.
func WithTimeout(d time.Duration) Option {
	return func(a *Adapter) {
		a.timeout = d
	}
}

// WithBacklog sets how many received messages may wait for the instrument.
// Messages arriving while the backlog is full are dropped.
func WithBacklog(n int) Option {
	return func(a *Adapter) {
		a.backlog = n
	}
}

// NewClientOptions returns paho options for broker with auto-reconnect enabled.
func NewClientOptions(broker, clientID string) *paho.ClientOptions {
	return paho.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetCleanSession(true).
		SetOrderMatters(true)
}

// New creates an adapter over an unconnected client.
func New(client Client, submitter ports.IntentSubmitter, opts ...Option) *Adapter {
	a := &Adapter{
		client:    client,
		submitter: submitter,
		logger:    slog.Default(),
		timeout:   10 * time.Second,
		backlog:   32,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Serve connects, subscribes to hermes/intent/# and blocks until ctx is done.
// The paho callback only queues messages: paho delivers in order and its
// handlers must not block, while Handle waits for the instrument.
func (a *Adapter) Serve(ctx context.Context) error {
	if err := a.wait(a.client.Connect()); err != nil {
		return fmt.Errorf("mqtt connect: %w", err)
	}
	defer a.client.Disconnect(250)

	inbox := make(chan delivery, a.backlog)
	worker := make(chan struct{})
	go func() {
		defer close(worker)
		for {
			select {
			case <-ctx.Done():
				return
			case d := <-inbox:
				a.Handle(ctx, d.topic, d.payload)
			}
		}
	}()
	defer func() { <-worker }()

	handler := func(_ paho.Client, msg paho.Message) {
		select {
		case inbox <- delivery{topic: msg.Topic(), payload: msg.Payload()}:
		default:
			a.logger.Warn("intent backlog full, dropping message", "topic", msg.Topic())
		}
	}
	if err := a.wait(a.client.Subscribe(hermes.TopicIntents, a.qos, handler)); err != nil {
		return fmt.Errorf("mqtt subscribe %s: %w", hermes.TopicIntents, err)
	}
	a.logger.Info("listening for intents", "topic", hermes.TopicIntents)

	<-ctx.Done()
	if err := a.wait(a.client.Unsubscribe(hermes.TopicIntents)); err != nil {
		a.logger.Warn("mqtt unsubscribe failed", "error", err)
	}
	return nil
}

// Handle processes one intent message: the session is ended, then the
// intent is submitted and its result logged.
func (a *Adapter) Handle(ctx context.Context, topic string, payload []byte) {
	if !strings.HasPrefix(topic, hermes.TopicIntentPrefix) {
		return
	}

	in, err := hermes.Decode(payload)
	if err != nil {
		a.logger.Warn("dropping intent message", "topic", topic, "error", err)
		return
	}

	// None of the commands need follow-up input.
	if in.SessionID != "" {
		a.endSession(in.SessionID)
	}

	if a.namespace != "" && !inNamespace(topic, a.namespace) {
		a.logger.Debug("intent outside namespace", "topic", topic)
		return
	}

	outcome, err := a.submitter.Submit(ctx, in)
	switch {
	case errors.Is(err, domain.ErrQueueClosed), errors.Is(err, context.Canceled):
		a.logger.Debug("intent not applied, shutting down", "intent", in.Name)
	case err != nil:
		a.logger.Error("intent failed", "intent", in.Name, "error", err)
	default:
		a.logger.Debug("intent handled", "intent", in.Name, "outcome", outcome)
	}
}

func (a *Adapter) endSession(sessionID string) {
	body, err := hermes.EncodeEndSession(sessionID, "")
	if err != nil {
		a.logger.Error("encode endSession", "error", err)
		return
	}
	if err := a.wait(a.client.Publish(hermes.TopicEndSession, a.qos, false, body)); err != nil {
		a.logger.Warn("endSession publish failed", "session", sessionID, "error", err)
	}
}

func (a *Adapter) wait(t paho.Token) error {
	if !t.WaitTimeout(a.timeout) {
		return errors.New("timed out")
	}
	return t.Error()
}

func inNamespace(topic, ns string) bool {
	name := strings.TrimPrefix(topic, hermes.TopicIntentPrefix)
	return strings.HasPrefix(name, ns+":")
}

package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jmwilson/ollie/pkg/adapters/hermes"
	"github.com/jmwilson/ollie/pkg/domain"
	"github.com/jmwilson/ollie/pkg/ports"
	backend "github.com/redis/go-redis/v9"
)

// DefaultPrefix namespaces every key and channel.
const DefaultPrefix = "ollie:"

// Status is published after every intent received over Redis.
type Status struct {
	SessionID string         `json:"sessionId,omitempty"`
	Channel   string         `json:"channel"`
	Intent    string         `json:"intent"`
	Outcome   domain.Outcome `json:"outcome"`
	Error     string         `json:"error,omitempty"`
}

// Source receives intents published on <prefix>intent:* and submits them.
// Payloads are Hermes messages or plain intent records.
type Source struct {
	client    *backend.Client
	submitter ports.IntentSubmitter
	prefix    string
	logger    *slog.Logger
}

type Option func(*Source)

// WithPrefix sets the channel prefix. Defaults to DefaultPrefix.
func WithPrefix(prefix string) Option {
	return func(s *Source) {
		s.prefix = prefix
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Source) {
		s.logger = logger
	}
}

// NewSource creates a pub/sub intent source.
func NewSource(client *backend.Client, submitter ports.IntentSubmitter, opts ...Option) *Source {
	s := &Source{
		client:    client,
		submitter: submitter,
		prefix:    DefaultPrefix,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// IntentPattern is the channel pattern the source subscribes to.
func (s *Source) IntentPattern() string { return s.prefix + "intent:*" }

// StatusChannel is where a Status is published for every intent.
func (s *Source) StatusChannel() string { return s.prefix + "session:end" }

// Serve subscribes and handles messages until ctx is done.
func (s *Source) Serve(ctx context.Context) error {
	pubsub := s.client.PSubscribe(ctx, s.IntentPattern())
	defer pubsub.Close()

	// Wait for confirmation that subscription is created
	if _, err := pubsub.Receive(ctx); err != nil {
		return fmt.Errorf("redis psubscribe %s: %w", s.IntentPattern(), err)
	}
	s.logger.Info("listening for intents", "pattern", s.IntentPattern())

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			s.Handle(ctx, msg.Channel, []byte(msg.Payload))
		}
	}
}

// Handle decodes and submits one message, then publishes its Status.
func (s *Source) Handle(ctx context.Context, channel string, payload []byte) {
	in, err := hermes.DecodeAny(payload)
	if err != nil {
		s.logger.Warn("dropping intent message", "channel", channel, "error", err)
		s.publish(ctx, Status{Channel: channel, Error: err.Error()})
		return
	}
	if in.SessionID == "" {
		in.SessionID = strings.TrimPrefix(channel, s.prefix+"intent:")
	}

	outcome, err := s.submitter.Submit(ctx, in)
	status := Status{SessionID: in.SessionID, Channel: channel, Intent: in.Name, Outcome: outcome}
	if err != nil {
		s.logger.Error("intent failed", "intent", in.Name, "error", err)
		status.Error = err.Error()
	}
	s.publish(ctx, status)
}

func (s *Source) publish(ctx context.Context, st Status) {
	data, err := json.Marshal(st)
	if err != nil {
		s.logger.Error("encode status", "error", err)
		return
	}
	if err := s.client.Publish(ctx, s.StatusChannel(), data).Err(); err != nil {
		s.logger.Warn("status publish failed", "error", err)
	}
}

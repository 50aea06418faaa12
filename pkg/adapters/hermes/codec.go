// Package hermes converts between intent payloads and domain intents.
//
// Two shapes are understood: the Hermes messages a Snips-compatible voice
// platform publishes on hermes/intent/<namespace>:<name>, and the plain
// intent record {"name": ..., "slots": [{"slotName": ..., "value": ...}]}
// accepted by the HTTP, Redis and MCP adapters.
package hermes

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/jmwilson/ollie/pkg/domain"
	"github.com/mitchellh/mapstructure"
)

const (
	// TopicIntentPrefix prefixes every intent topic.
	TopicIntentPrefix = "hermes/intent/"
	// TopicIntents subscribes to every intent.
	TopicIntents = TopicIntentPrefix + "#"
	// TopicEndSession closes a dialogue session.
	TopicEndSession = "hermes/dialogueManager/endSession"
)

// ErrMalformed is returned for payloads that are not intent messages.
var ErrMalformed = errors.New("malformed intent payload")

// Message is the Hermes intent message.
type Message struct {
	SessionID string      `json:"sessionId"`
	SiteID    string      `json:"siteId"`
	Input     string      `json:"input"`
	Intent    IntentField `json:"intent"`
	Slots     []SlotField `json:"slots"`
}

type IntentField struct {
	IntentName      string  `json:"intentName"`
	ConfidenceScore float64 `json:"confidenceScore"`
}

type SlotField struct {
	SlotName string    `json:"slotName"`
	RawValue string    `json:"rawValue"`
	Entity   string    `json:"entity"`
	Value    SlotValue `json:"value"`
}

type SlotValue struct {
	Kind  string `json:"kind"`
	Value any    `json:"value"`
}

// Record is the plain intent record.
type Record struct {
	Name      string       `json:"name"`
	Slots     []RecordSlot `json:"slots"`
	SessionID string       `json:"sessionId,omitempty"`
	SiteID    string       `json:"siteId,omitempty"`
}

type RecordSlot struct {
	SlotName string `json:"slotName"`
	Value    any    `json:"value"`
}

// EndSession is published to close the dialogue opened by an intent.
type EndSession struct {
	SessionID string `json:"sessionId"`
	Text      string `json:"text,omitempty"`
}

// Decode parses a Hermes intent message.
func Decode(payload []byte) (domain.Intent, error) {
	var msg Message
	if err := decode(payload, &msg); err != nil {
		return domain.Intent{}, err
	}
	if msg.Intent.IntentName == "" {
		return domain.Intent{}, fmt.Errorf("%w: missing intent name", ErrMalformed)
	}

	in := domain.NewIntent(IntentName(msg.Intent.IntentName))
	in.SessionID = msg.SessionID
	in.Site = msg.SiteID
	for _, s := range msg.Slots {
		slot, err := SlotFromValue(s.SlotName, s.Value.Value)
		if err != nil {
			return domain.Intent{}, err
		}
		in.Slots = append(in.Slots, slot)
	}
	return in, nil
}

// DecodeRecord parses a plain intent record.
func DecodeRecord(payload []byte) (domain.Intent, error) {
	var rec Record
	if err := decode(payload, &rec); err != nil {
		return domain.Intent{}, err
	}
	return rec.Intent()
}

// DecodeAny parses either shape: payloads with an "intent" object are Hermes
// messages, everything else is a plain record.
func DecodeAny(payload []byte) (domain.Intent, error) {
	var probe struct {
		Intent json.RawMessage `json:"intent"`
	}
	if err := json.Unmarshal(payload, &probe); err != nil {
		return domain.Intent{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if len(probe.Intent) > 0 {
		return Decode(payload)
	}
	return DecodeRecord(payload)
}

// Intent converts the record to a domain intent.
func (r Record) Intent() (domain.Intent, error) {
	if r.Name == "" {
		return domain.Intent{}, fmt.Errorf("%w: missing intent name", ErrMalformed)
	}
	in := domain.NewIntent(r.Name)
	in.SessionID = r.SessionID
	in.Site = r.SiteID
	for _, s := range r.Slots {
		slot, err := SlotFromValue(s.SlotName, s.Value)
		if err != nil {
			return domain.Intent{}, err
		}
		in.Slots = append(in.Slots, slot)
	}
	return in, nil
}

// ToRecord converts a domain intent to its plain record.
func ToRecord(in domain.Intent) Record {
	rec := Record{
		Name:      in.Name,
		Slots:     make([]RecordSlot, 0, len(in.Slots)),
		SessionID: in.SessionID,
		SiteID:    in.Site,
	}
	for _, s := range in.Slots {
		rec.Slots = append(rec.Slots, RecordSlot{SlotName: s.Name, Value: s.Value()})
	}
	return rec
}

// EncodeEndSession renders the endSession payload for a session.
func EncodeEndSession(sessionID, text string) ([]byte, error) {
	return json.Marshal(EndSession{SessionID: sessionID, Text: text})
}

// IntentName strips the skill namespace: "jmwilson:measure" becomes "measure".
func IntentName(full string) string {
	if i := strings.LastIndex(full, ":"); i >= 0 {
		return full[i+1:]
	}
	return full
}

// SlotFromValue types a raw slot value: whole numbers become integer slots,
// other numbers real slots, strings enum slots.
func SlotFromValue(name string, v any) (domain.Slot, error) {
	if name == "" {
		return domain.Slot{}, fmt.Errorf("%w: slot without a name", ErrMalformed)
	}
	switch val := v.(type) {
	case string:
		return domain.EnumSlot(name, val), nil
	case float64:
		return numberSlot(name, val), nil
	case int:
		return domain.IntSlot(name, val), nil
	case int64:
		return domain.IntSlot(name, int(val)), nil
	case json.Number:
		f, err := val.Float64()
		if err != nil {
			return domain.Slot{}, fmt.Errorf("%w: slot %q: %v", ErrMalformed, name, err)
		}
		return numberSlot(name, f), nil
	case bool:
		return domain.EnumSlot(name, strconv.FormatBool(val)), nil
	default:
		return domain.Slot{}, fmt.Errorf("%w: slot %q has unsupported value %v", ErrMalformed, name, v)
	}
}

func numberSlot(name string, v float64) domain.Slot {
	if v == math.Trunc(v) && math.Abs(v) < 1<<31 {
		return domain.IntSlot(name, int(v))
	}
	return domain.RealSlot(name, v)
}

func decode(payload []byte, out any) error {
	var raw map[string]any
	if err := json.Unmarshal(payload, &raw); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(raw); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return nil
}

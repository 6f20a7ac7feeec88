package pubsub

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"
)

// TopicInfo documents a typed topic for tooling such as the CLI topic listing.
type TopicInfo struct {
	Name          string   `json:"name"`
	Module        string   `json:"module"`
	Description   string   `json:"description"`
	TypeName      string   `json:"type_name"`
	PayloadFields []string `json:"payload_fields"`
}

var (
	topicsMu sync.RWMutex
	topics   = map[string]TopicInfo{}
)

// Event[T] wraps a topic name and provides type-safe publishing.
type Event[T any] struct {
	topicName string
}

// NewEvent creates a typed event and records it in the topic catalog. The
// payload fields are read from the json tags of T. Defining the same topic
// twice panics, since events are declared at package level.
func NewEvent[T any](name string, description string) Event[T] {
	var zero T
	t := reflect.TypeOf(zero)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	info := TopicInfo{
		Name:          name,
		Module:        name,
		Description:   description,
		TypeName:      t.Name(),
		PayloadFields: jsonFields(t),
	}
	if i := strings.IndexByte(name, '.'); i > 0 {
		info.Module = name[:i]
	}

	topicsMu.Lock()
	defer topicsMu.Unlock()
	if _, exists := topics[name]; exists {
		panic(fmt.Sprintf("pubsub: topic %q already defined", name))
	}
	topics[name] = info

	return Event[T]{topicName: name}
}

func jsonFields(t reflect.Type) []string {
	fields := make([]string, 0)
	if t.Kind() != reflect.Struct {
		return fields
	}
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if field.Anonymous && field.Type.Kind() == reflect.Struct {
			fields = append(fields, jsonFields(field.Type)...)
			continue
		}
		tag := field.Tag.Get("json")
		if tag == "" || tag == "-" {
			continue
		}
		name, _, _ := strings.Cut(tag, ",")
		fields = append(fields, name)
	}
	return fields
}

// Topics returns every defined topic sorted by name.
func Topics() []TopicInfo {
	topicsMu.RLock()
	defer topicsMu.RUnlock()

	out := make([]TopicInfo, 0, len(topics))
	for _, info := range topics {
		out = append(out, info)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Name returns the topic name.
func (e Event[T]) Name() string {
	return e.topicName
}

// Publish sends a typed event. The compiler ensures 'payload' matches 'T'.
func Publish[T any](ctx context.Context, p Publisher, event Event[T], matchID string, payload T) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", event.Name(), err)
	}

	return p.Publish(ctx, Message{
		Topic:   event.Name(),
		MatchID: matchID,
		Payload: data,
	})
}

// Subscribe decodes every message on the event's topic into T before calling handler.
func Subscribe[T any](ctx context.Context, s Subscriber, event Event[T], handler func(ctx context.Context, matchID string, payload T) error) error {
	return s.Subscribe(ctx, event.Name(), func(ctx context.Context, msg Message) error {
		var payload T
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			return fmt.Errorf("unmarshal %s: %w", event.Name(), err)
		}
		return handler(ctx, msg.MatchID, payload)
	})
}

package server

import (
	"context"
	"encoding/json"
	"time"

	"github.com/coder/websocket"
	"github.com/labstack/echo/v4"
	"github.com/nfrund/toybattle/internal/events"
	"github.com/nfrund/toybattle/internal/match"
	"github.com/nfrund/toybattle/internal/middleware"
	"github.com/nfrund/toybattle/internal/pubsub"
)

const (
	streamBuffer       = 256
	streamWriteTimeout = 5 * time.Second

	// TopicSubscribed is sent once, after the stream is listening to every
	// match topic.
	TopicSubscribed = "stream.subscribed"
)

// StreamMessage is one frame of the event stream.
type StreamMessage struct {
	Topic   string          `json:"topic"`
	MatchID string          `json:"match_id"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// streamEvents upgrades to a WebSocket and forwards every bus event of the
// match until the client goes away. Events are dropped, not queued, when
// the client cannot keep up.
func (s *Server) streamEvents(c echo.Context) error {
	id := c.Param("id")
	if err := s.matches.With(id, func(*match.Match) error { return nil }); err != nil {
		return err
	}

	logger := middleware.FromContext(c.Request().Context())
	conn, err := websocket.Accept(c.Response(), c.Request(), &websocket.AcceptOptions{
		// Clients are served from other origins during development.
		InsecureSkipVerify: true,
	})
	if err != nil {
		logger.Error("Failed to upgrade WebSocket connection", "error", err)
		return nil
	}
	defer conn.CloseNow()

	// CloseRead discards client frames and cancels ctx once the peer closes.
	ctx := conn.CloseRead(c.Request().Context())

	send := make(chan []byte, streamBuffer)
	forward := func(_ context.Context, msg pubsub.Message) error {
		if msg.MatchID != id {
			return nil
		}
		data, err := json.Marshal(StreamMessage{Topic: msg.Topic, MatchID: msg.MatchID, Payload: msg.Payload})
		if err != nil {
			return err
		}
		select {
		case send <- data:
		default:
			logger.Warn("Event stream buffer full, dropping message", "topic", msg.Topic)
		}
		return nil
	}

	for _, topic := range events.AllTopics() {
		if err := s.bus.Subscribe(ctx, topic, forward); err != nil {
			logger.Error("Failed to subscribe event stream", "topic", topic, "error", err)
			conn.Close(websocket.StatusInternalError, "subscribe failed")
			return nil
		}
	}

	hello, _ := json.Marshal(StreamMessage{Topic: TopicSubscribed, MatchID: id})
	if err := s.write(ctx, conn, hello); err != nil {
		return nil
	}
	logger.Info("Event stream opened")

	for {
		select {
		case <-ctx.Done():
			logger.Info("Event stream closed")
			conn.Close(websocket.StatusNormalClosure, "")
			return nil
		case data := <-send:
			if err := s.write(ctx, conn, data); err != nil {
				logger.Debug("Event stream write failed", "error", err)
				return nil
			}
		}
	}
}

func (s *Server) write(ctx context.Context, conn *websocket.Conn, data []byte) error {
	ctx, cancel := context.WithTimeout(ctx, streamWriteTimeout)
	defer cancel()
	return conn.Write(ctx, websocket.MessageText, data)
}

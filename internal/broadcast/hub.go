package broadcast

import (
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mcoot/judgecore/internal/model"
)

// ErrConnClosed is returned when subscribing on a connection the hub has already closed
var ErrConnClosed = errors.New("connection closed")

// Hub is the topic registry. A single lock guards the topic -> subscribers
// map and its reverse index; frames are queued to connections outside the lock.
type Hub struct {
	mu     sync.RWMutex
	topics map[string]map[*Conn]struct{}
	conns  map[*Conn]map[string]struct{}

	queueSize int
	nextID    atomic.Uint64
	logger    *slog.Logger
}

// Stats is a point-in-time view of the registry
type Stats struct {
	Connections int `json:"connections"`
	Topics      int `json:"topics"`
}

// NewHub creates a new Hub. queueSize is the per-connection send buffer.
func NewHub(queueSize int, logger *slog.Logger) *Hub {
	if queueSize <= 0 {
		queueSize = DefaultSendQueueSize
	}
	return &Hub{
		topics:    make(map[string]map[*Conn]struct{}),
		conns:     make(map[*Conn]map[string]struct{}),
		queueSize: queueSize,
		logger:    logger.With(slog.String("component", "broadcast")),
	}
}

// Connect registers a new open connection for the requester
func (h *Hub) Connect(requester model.Requester) *Conn {
	conn := newConn(h.nextID.Add(1), requester, h.queueSize)

	h.mu.Lock()
	h.conns[conn] = make(map[string]struct{})
	total := len(h.conns)
	h.mu.Unlock()

	h.logger.Info("connection opened",
		slog.Uint64("conn_id", conn.id),
		slog.String("user_id", string(requester.UserID)),
		slog.Int("total_connections", total))
	return conn
}

// Subscribe adds conn to topic's subscriber set. Subscribing twice is a no-op.
func (h *Hub) Subscribe(conn *Conn, topic string) error {
	if err := ValidateTopic(topic); err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	held, ok := h.conns[conn]
	if !ok {
		return ErrConnClosed
	}
	if _, already := held[topic]; already {
		return nil
	}

	subs, ok := h.topics[topic]
	if !ok {
		subs = make(map[*Conn]struct{})
		h.topics[topic] = subs
	}
	subs[conn] = struct{}{}
	held[topic] = struct{}{}
	return nil
}

// Unsubscribe removes conn from topic's subscriber set. Removing an absent topic is a no-op.
func (h *Hub) Unsubscribe(conn *Conn, topic string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	held, ok := h.conns[conn]
	if !ok {
		return
	}
	if _, subscribed := held[topic]; !subscribed {
		return
	}
	delete(held, topic)
	h.removeLocked(conn, topic)
}

// removeLocked drops conn from one topic, deleting the topic once it is empty
func (h *Hub) removeLocked(conn *Conn, topic string) {
	subs, ok := h.topics[topic]
	if !ok {
		return
	}
	delete(subs, conn)
	if len(subs) == 0 {
		delete(h.topics, topic)
	}
}

// Close removes conn from every topic and stops its transport. Only the
// first call for a connection has any effect; it reports whether this call closed it.
func (h *Hub) Close(conn *Conn) bool {
	closed := false
	conn.closeOnce.Do(func() {
		closed = true

		h.mu.Lock()
		held := h.conns[conn]
		for topic := range held {
			h.removeLocked(conn, topic)
		}
		delete(h.conns, conn)
		total := len(h.conns)
		h.mu.Unlock()

		close(conn.done)
		h.logger.Info("connection closed",
			slog.Uint64("conn_id", conn.id),
			slog.String("user_id", string(conn.requester.UserID)),
			slog.Int("topics", len(held)),
			slog.Duration("connection_duration", time.Since(conn.connectedAt)),
			slog.Int("total_connections", total))
	})
	return closed
}

// CloseAll closes every open connection, e.g. on shutdown
func (h *Hub) CloseAll() {
	h.mu.RLock()
	conns := make([]*Conn, 0, len(h.conns))
	for conn := range h.conns {
		conns = append(conns, conn)
	}
	h.mu.RUnlock()

	for _, conn := range conns {
		h.Close(conn)
	}
}

// Publish queues message for every connection subscribed to topic and returns
// how many accepted it. With no subscribers the message is dropped.
func (h *Hub) Publish(topic string, message []byte) int {
	h.mu.RLock()
	subs := h.topics[topic]
	targets := make([]*Conn, 0, len(subs))
	for conn := range subs {
		targets = append(targets, conn)
	}
	h.mu.RUnlock()

	delivered := 0
	for _, conn := range targets {
		if conn.enqueue(message) {
			delivered++
			continue
		}
		h.logger.Warn("message dropped - connection queue full",
			slog.String("topic", topic),
			slog.Uint64("conn_id", conn.id))
	}
	return delivered
}

// PublishEvent encodes event as a data frame and publishes it
func (h *Hub) PublishEvent(topic string, event model.Event) (int, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return 0, err
	}
	return h.Publish(topic, data), nil
}

// Send queues a frame for a single connection, used for control replies
func (h *Hub) Send(conn *Conn, event model.Event) bool {
	data, err := json.Marshal(event)
	if err != nil {
		h.logger.Error("failed to encode frame", slog.Any("error", err))
		return false
	}
	return conn.enqueue(data)
}

// SubscriberCount returns the number of connections subscribed to topic
func (h *Hub) SubscriberCount(topic string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.topics[topic])
}

// HasTopic reports whether topic currently has a registry entry
func (h *Hub) HasTopic(topic string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.topics[topic]
	return ok
}

// Subscriptions returns the topics conn is subscribed to
func (h *Hub) Subscriptions(conn *Conn) []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]string, 0, len(h.conns[conn]))
	for topic := range h.conns[conn] {
		out = append(out, topic)
	}
	return out
}

// Stats returns current registry sizes
func (h *Hub) Stats() Stats {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return Stats{Connections: len(h.conns), Topics: len(h.topics)}
}

package broadcast

import (
	"log/slog"

	"github.com/mcoot/judgecore/internal/model"
)

// Broadcaster publishes typed domain events under their topics.
// Callers must have authorized the write that produced the event.
type Broadcaster struct {
	hub    *Hub
	logger *slog.Logger
}

// NewBroadcaster creates a new Broadcaster
func NewBroadcaster(hub *Hub, logger *slog.Logger) *Broadcaster {
	return &Broadcaster{
		hub:    hub,
		logger: logger.With(slog.String("component", "broadcaster")),
	}
}

// ChatMessage publishes a room message to the room's topic
func (b *Broadcaster) ChatMessage(msg *model.ChatMessage) {
	b.publish(RoomTopic(msg.RoomID), model.Event{Type: model.EventChatMessage, Message: msg})
}

// PrivateMessage publishes a direct message to the recipient's topic
func (b *Broadcaster) PrivateMessage(msg *model.PrivateMessage) {
	b.publish(UserTopic(msg.ToID), model.Event{Type: model.EventPrivateMessage, Message: msg})
}

// RecordUpdate publishes a record's judging state to the record topic, and for
// contest records also to the contestant's contest-problem topic
func (b *Broadcaster) RecordUpdate(record *model.Record, payload model.RecordUpdatePayload) {
	b.publish(RecordTopic(record.ID), model.Event{Type: model.EventRecordUpdate, Message: payload})

	if record.ContestID == "" {
		return
	}
	topic := ContestRecordTopic(record.ContestID, record.ProblemID, record.SubmitterID)
	b.publish(topic, model.Event{Type: model.EventContestRecordUpdate, Message: payload})
}

// StandingsUpdate publishes a fresh scoreboard to the contest topic
func (b *Broadcaster) StandingsUpdate(contestID model.ContestID, rows []model.StandingsRow) {
	b.publish(ContestTopic(contestID), model.Event{
		Type:    model.EventStandingsUpdate,
		Message: model.StandingsUpdatePayload{ContestID: contestID, Rows: rows},
	})
}

func (b *Broadcaster) publish(topic string, event model.Event) {
	delivered, err := b.hub.PublishEvent(topic, event)
	if err != nil {
		b.logger.Error("failed to encode event",
			slog.String("topic", topic),
			slog.String("type", string(event.Type)),
			slog.Any("error", err))
		return
	}
	b.logger.Debug("event published",
		slog.String("topic", topic),
		slog.String("type", string(event.Type)),
		slog.Int("delivered", delivered))
}

package broadcast

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/judgecore/internal/model"
	"github.com/mcoot/judgecore/internal/testutil"
)

type frame struct {
	Type    model.EventType `json:"type"`
	Message json.RawMessage `json:"message"`
}

func decodeFrame(t *testing.T, data []byte) frame {
	t.Helper()
	var f frame
	require.NoError(t, json.Unmarshal(data, &f))
	return f
}

func subscribed(t *testing.T, hub *Hub, topic string) *Conn {
	t.Helper()
	conn := hub.Connect(model.Anonymous())
	require.NoError(t, hub.Subscribe(conn, topic))
	return conn
}

func TestBroadcasterChatMessage(t *testing.T) {
	hub := newTestHub(8)
	b := NewBroadcaster(hub, testutil.NopLogger())
	room := subscribed(t, hub, "room:r1")
	other := subscribed(t, hub, "room:r2")

	b.ChatMessage(&model.ChatMessage{ID: "m1", RoomID: "r1", SenderID: "u1", Content: "hello"})

	f := decodeFrame(t, receive(t, room))
	assert.Equal(t, model.EventChatMessage, f.Type)
	var msg model.ChatMessage
	require.NoError(t, json.Unmarshal(f.Message, &msg))
	assert.Equal(t, "hello", msg.Content)
	assertNoMessage(t, other)
}

func TestBroadcasterPrivateMessage(t *testing.T) {
	hub := newTestHub(8)
	b := NewBroadcaster(hub, testutil.NopLogger())
	recipient := subscribed(t, hub, "user:u2")
	sender := subscribed(t, hub, "user:u1")

	b.PrivateMessage(&model.PrivateMessage{ID: "pm1", FromID: "u1", ToID: "u2", Content: "psst"})

	f := decodeFrame(t, receive(t, recipient))
	assert.Equal(t, model.EventPrivateMessage, f.Type)
	assertNoMessage(t, sender)
}

func TestBroadcasterRecordUpdate(t *testing.T) {
	tests := []struct {
		name        string
		record      model.Record
		wantContest bool
	}{
		{
			name:   "practice record",
			record: model.Record{ID: "rec1", ProblemID: "p1", SubmitterID: "u1"},
		},
		{
			name:        "contest record",
			record:      model.Record{ID: "rec1", ProblemID: "p1", SubmitterID: "u1", ContestID: "c1"},
			wantContest: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hub := newTestHub(8)
			b := NewBroadcaster(hub, testutil.NopLogger())
			recordConn := subscribed(t, hub, "record:rec1")
			contestConn := subscribed(t, hub, "contest:c1:p1:u1")

			payload := model.RecordUpdatePayload{
				RecordID:  tt.record.ID,
				ProblemID: tt.record.ProblemID,
				ContestID: tt.record.ContestID,
				Submitter: tt.record.SubmitterID,
				Verdict:   model.VerdictAccepted,
				UpdatedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
			}
			b.RecordUpdate(&tt.record, payload)

			f := decodeFrame(t, receive(t, recordConn))
			assert.Equal(t, model.EventRecordUpdate, f.Type)
			var got model.RecordUpdatePayload
			require.NoError(t, json.Unmarshal(f.Message, &got))
			assert.Equal(t, payload, got)

			if tt.wantContest {
				f = decodeFrame(t, receive(t, contestConn))
				assert.Equal(t, model.EventContestRecordUpdate, f.Type)
			} else {
				assertNoMessage(t, contestConn)
			}
		})
	}
}

func TestBroadcasterStandingsUpdate(t *testing.T) {
	hub := newTestHub(8)
	b := NewBroadcaster(hub, testutil.NopLogger())
	conn := subscribed(t, hub, "contest:c1")

	rows := []model.StandingsRow{{Rank: 1, ContestantID: "u1", SolvedCount: 1, TotalPenalty: 25}}
	b.StandingsUpdate("c1", rows)

	f := decodeFrame(t, receive(t, conn))
	assert.Equal(t, model.EventStandingsUpdate, f.Type)
	var got model.StandingsUpdatePayload
	require.NoError(t, json.Unmarshal(f.Message, &got))
	assert.Equal(t, model.ContestID("c1"), got.ContestID)
	require.Len(t, got.Rows, 1)
	assert.Equal(t, 25, got.Rows[0].TotalPenalty)
}

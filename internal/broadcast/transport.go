package broadcast

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"
	"nhooyr.io/websocket"

	"github.com/mcoot/judgecore/internal/model"
)

// errHubClosed ends a connection's loops once the hub has closed it
var errHubClosed = errors.New("closed by hub")

// TransportConfig holds WebSocket transport settings
type TransportConfig struct {
	// WriteTimeout bounds a single frame write
	WriteTimeout time.Duration
	// PingPeriod is the interval between keepalive pings
	PingPeriod time.Duration
	// ReadLimit caps inbound control frame size in bytes
	ReadLimit int64
	// AllowAnyOrigin disables the same-origin check on upgrade
	AllowAnyOrigin bool
}

// DefaultTransportConfig returns sensible transport defaults
func DefaultTransportConfig() TransportConfig {
	return TransportConfig{
		WriteTimeout:   10 * time.Second,
		PingPeriod:     30 * time.Second,
		ReadLimit:      4096,
		AllowAnyOrigin: false,
	}
}

// controlFrame is a client -> server message
type controlFrame struct {
	Subscribe   *string `json:"subscribe,omitempty"`
	Unsubscribe *string `json:"unsubscribe,omitempty"`
}

// Transport serves hub connections over WebSocket
type Transport struct {
	hub        *Hub
	authorizer SubscribeAuthorizer
	cfg        TransportConfig
	logger     *slog.Logger
}

// NewTransport creates a WebSocket transport. A nil authorizer admits every subscription.
func NewTransport(hub *Hub, authorizer SubscribeAuthorizer, cfg TransportConfig, logger *slog.Logger) *Transport {
	if authorizer == nil {
		authorizer = AllowAll{}
	}
	if cfg.WriteTimeout == 0 {
		cfg.WriteTimeout = DefaultTransportConfig().WriteTimeout
	}
	if cfg.PingPeriod == 0 {
		cfg.PingPeriod = DefaultTransportConfig().PingPeriod
	}
	if cfg.ReadLimit == 0 {
		cfg.ReadLimit = DefaultTransportConfig().ReadLimit
	}
	return &Transport{
		hub:        hub,
		authorizer: authorizer,
		cfg:        cfg,
		logger:     logger.With(slog.String("component", "ws")),
	}
}

// Serve upgrades the request and runs the connection until either side closes it
func (t *Transport) Serve(w http.ResponseWriter, r *http.Request, requester model.Requester) {
	// The server's write timeout would otherwise carry over to the upgraded connection.
	// Per-frame deadlines come from WriteTimeout instead.
	_ = http.NewResponseController(w).SetWriteDeadline(time.Time{})

	ws, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: t.cfg.AllowAnyOrigin,
	})
	if err != nil {
		t.logger.Warn("websocket upgrade failed", slog.Any("error", err))
		return
	}
	defer ws.CloseNow()
	ws.SetReadLimit(t.cfg.ReadLimit)

	conn := t.hub.Connect(requester)
	defer t.hub.Close(conn)

	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error { return t.readLoop(ctx, ws, conn) })
	g.Go(func() error { return t.writeLoop(ctx, ws, conn) })

	err = g.Wait()
	switch {
	case err == nil, errors.Is(err, errHubClosed):
		_ = ws.Close(websocket.StatusGoingAway, "server closing")
	case websocket.CloseStatus(err) == websocket.StatusNormalClosure,
		websocket.CloseStatus(err) == websocket.StatusGoingAway,
		errors.Is(err, context.Canceled):
		// client went away
	default:
		t.logger.Debug("connection ended", slog.Uint64("conn_id", conn.ID()), slog.Any("error", err))
	}
}

func (t *Transport) readLoop(ctx context.Context, ws *websocket.Conn, conn *Conn) error {
	for {
		typ, data, err := ws.Read(ctx)
		if err != nil {
			return err
		}
		if typ != websocket.MessageText {
			t.reply(conn, model.EventError, "expected a text frame")
			continue
		}

		var frame controlFrame
		if err := json.Unmarshal(data, &frame); err != nil {
			t.reply(conn, model.EventError, "malformed control frame")
			continue
		}
		t.handleFrame(ctx, conn, frame)
	}
}

func (t *Transport) handleFrame(ctx context.Context, conn *Conn, frame controlFrame) {
	switch {
	case frame.Subscribe != nil:
		topic := *frame.Subscribe
		if err := t.authorizer.AuthorizeSubscribe(ctx, conn.Requester(), topic); err != nil {
			t.logger.Info("subscription rejected",
				slog.Uint64("conn_id", conn.ID()),
				slog.String("topic", topic),
				slog.Any("error", err))
			t.reply(conn, model.EventError, "subscription rejected: "+topic)
			return
		}
		if err := t.hub.Subscribe(conn, topic); err != nil {
			t.reply(conn, model.EventError, err.Error())
			return
		}
		t.reply(conn, model.EventSubscribed, topic)

	case frame.Unsubscribe != nil:
		t.hub.Unsubscribe(conn, *frame.Unsubscribe)
		t.reply(conn, model.EventUnsubscribed, *frame.Unsubscribe)

	default:
		t.reply(conn, model.EventError, "unknown control frame")
	}
}

func (t *Transport) reply(conn *Conn, typ model.EventType, message string) {
	if !t.hub.Send(conn, model.Event{Type: typ, Message: message}) {
		t.logger.Warn("control reply dropped", slog.Uint64("conn_id", conn.ID()))
	}
}

func (t *Transport) writeLoop(ctx context.Context, ws *websocket.Conn, conn *Conn) error {
	ticker := time.NewTicker(t.cfg.PingPeriod)
	defer ticker.Stop()

	for {
		select {
		case msg := <-conn.Messages():
			if err := t.write(ctx, ws, msg); err != nil {
				return err
			}

		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, t.cfg.WriteTimeout)
			err := ws.Ping(pingCtx)
			cancel()
			if err != nil {
				return err
			}

		case <-conn.Done():
			return errHubClosed

		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (t *Transport) write(ctx context.Context, ws *websocket.Conn, msg []byte) error {
	writeCtx, cancel := context.WithTimeout(ctx, t.cfg.WriteTimeout)
	defer cancel()
	return ws.Write(writeCtx, websocket.MessageText, msg)
}

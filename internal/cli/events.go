package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"
)

func newEventsCmd() *cobra.Command {
	var jsonOutput bool
	var count int

	cmd := &cobra.Command{
		Use:   "events <topic...>",
		Short: "Stream real-time events over WebSocket",
		Long: `Connect to the event stream, subscribe to the given topics and print
events as they arrive.

Topics:
  user:<userID>                               private messages
  room:<roomID>                               chat room messages
  record:<recordID>                           judging updates of one record
  contest:<contestID>                         scoreboard updates
  contest:<contestID>:<problemID>:<userID>    a contestant's records on a problem

Press Ctrl+C to disconnect.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return streamEvents(ctx, cmd.OutOrStdout(), args, jsonOutput, count)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output events as JSON lines")
	cmd.Flags().IntVar(&count, "count", 0, "Exit after this many events (0 streams until interrupted)")

	return cmd
}

// StreamEvent is a received event with its arrival time
type StreamEvent struct {
	Time    time.Time       `json:"time"`
	Type    string          `json:"type"`
	Message json.RawMessage `json:"message"`
}

func streamEvents(ctx context.Context, w io.Writer, topics []string, jsonOutput bool, count int) error {
	path := "/api/v1/ws"
	if token := client.Token(); token != "" {
		path += "?token=" + url.QueryEscape(token)
	}

	ws, _, err := websocket.Dial(ctx, client.WebSocketURL(path), nil)
	if err != nil {
		return fmt.Errorf("connection failed: %w", err)
	}
	defer ws.CloseNow()

	for _, topic := range topics {
		if err := wsjson.Write(ctx, ws, map[string]string{"subscribe": topic}); err != nil {
			return fmt.Errorf("subscribe %s: %w", topic, err)
		}
	}

	if !jsonOutput {
		fmt.Fprintf(w, "Connected, subscribing to %s\n", strings.Join(topics, ", "))
	}

	received := 0
	for count == 0 || received < count {
		var evt StreamEvent
		if err := wsjson.Read(ctx, ws, &evt); err != nil {
			// Interrupt and server shutdown are expected ways to end the stream
			if ctx.Err() != nil || websocket.CloseStatus(err) == websocket.StatusGoingAway ||
				websocket.CloseStatus(err) == websocket.StatusNormalClosure || errors.Is(err, io.EOF) {
				if !jsonOutput {
					fmt.Fprintln(w, "Disconnected")
				}
				return nil
			}
			return fmt.Errorf("stream error: %w", err)
		}
		evt.Time = time.Now()
		printEvent(w, evt, jsonOutput)

		// Subscription acknowledgements don't count towards --count
		if evt.Type != "Subscribed" && evt.Type != "Unsubscribed" {
			received++
		}
	}

	_ = ws.Close(websocket.StatusNormalClosure, "")
	return nil
}

func printEvent(w io.Writer, evt StreamEvent, jsonOutput bool) {
	if jsonOutput {
		data, _ := json.Marshal(evt)
		fmt.Fprintln(w, string(data))
		return
	}

	display := string(evt.Message)
	if len(display) > 200 {
		display = display[:200] + "..."
	}
	fmt.Fprintf(w, "[%s] %s: %s\n", evt.Time.Format(time.DateTime), evt.Type, display)
}

package collab

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/inamate/draft/internal/command"
	"github.com/inamate/draft/internal/document"
	"github.com/inamate/draft/internal/engine"
	"github.com/inamate/draft/internal/geom"
)

type fakeSession struct {
	executed [][]command.Command
	undos    int
	redos    int
}

func (f *fakeSession) State() engine.State { return engine.State{Revision: 1} }

func (f *fakeSession) Execute(cmds []command.Command) command.Result {
	f.executed = append(f.executed, cmds)
	return command.Result{Success: true}
}

func (f *fakeSession) Undo() bool { f.undos++; return true }
func (f *fakeSession) Redo() bool { f.redos++; return true }

func newTestHub() *Hub {
	return NewHub(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func newTestClient(h *Hub, s Session, userID, clientID string) *Client {
	return NewClient(h, nil, s, userID, userID+" name", "drw_1", clientID)
}

// drain returns the types of all queued messages.
func drain(t *testing.T, c *Client) []*Message {
	t.Helper()
	var out []*Message
	for {
		select {
		case data, ok := <-c.send:
			if !ok {
				return out
			}
			var msg Message
			if err := json.Unmarshal(data, &msg); err != nil {
				t.Fatalf("bad message %s: %v", data, err)
			}
			out = append(out, &msg)
		default:
			return out
		}
	}
}

func types(msgs []*Message) []string {
	out := make([]string, len(msgs))
	for i, m := range msgs {
		out[i] = m.Type
	}
	return out
}

func equalTypes(got []string, want ...string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}

func TestJoinAndLeave(t *testing.T) {
	h := newTestHub()
	sess := &fakeSession{}
	a := newTestClient(h, sess, "user_a", "c1")
	b := newTestClient(h, sess, "user_b", "c2")

	h.addClient(a)
	got := types(drain(t, a))
	if !equalTypes(got, TypeWelcome, TypeDrawingSync, TypePresenceState) {
		t.Fatalf("join messages = %v", got)
	}

	h.addClient(b)
	drain(t, b)
	msgs := drain(t, a)
	if !equalTypes(types(msgs), TypePresenceJoin) {
		t.Fatalf("a got %v on b's join", types(msgs))
	}
	var join PresenceJoinPayload
	if err := json.Unmarshal(msgs[0].Payload, &join); err != nil || join.UserID != "user_b" {
		t.Errorf("join payload = %+v, err %v", join, err)
	}

	h.removeClient(b)
	if _, ok := <-b.send; ok {
		t.Error("b's send channel left open")
	}
	if got := types(drain(t, a)); !equalTypes(got, TypePresenceLeave) {
		t.Errorf("a got %v on b's leave", got)
	}

	h.removeClient(b)
	h.removeClient(a)
	if len(h.rooms) != 0 {
		t.Errorf("empty room kept: %d rooms", len(h.rooms))
	}
}

func TestHandleMessage(t *testing.T) {
	h := newTestHub()
	sess := &fakeSession{}
	a := newTestClient(h, sess, "user_a", "c1")
	b := newTestClient(h, sess, "user_b", "c2")
	h.addClient(a)
	h.addClient(b)
	drain(t, a)
	drain(t, b)

	submit, _ := json.Marshal(CommandSubmitPayload{
		RequestID: "req-7",
		Commands:  []command.Command{{Action: "CIRCLE"}},
	})
	presence, _ := json.Marshal(PresencePayload{Cursor: &geom.Point{X: 3, Y: 4}, Tool: "line"})

	tests := []struct {
		name    string
		msg     Message
		wantA   []string
		wantB   []string
		inspect func(t *testing.T, a, b []*Message)
	}{
		{
			name:  "command submit answers the sender only",
			msg:   Message{Type: TypeCommandSubmit, Payload: submit},
			wantA: []string{TypeCommandResult},
			inspect: func(t *testing.T, a, _ []*Message) {
				var res CommandResultPayload
				if err := json.Unmarshal(a[0].Payload, &res); err != nil || res.RequestID != "req-7" || !res.Result.Success {
					t.Errorf("result = %+v, err %v", res, err)
				}
			},
		},
		{
			name:  "bad command payload",
			msg:   Message{Type: TypeCommandSubmit, Payload: json.RawMessage(`"nope"`)},
			wantA: []string{TypeError},
		},
		{
			name:  "presence goes to the others",
			msg:   Message{Type: TypePresenceUpdate, Payload: presence},
			wantB: []string{TypePresenceUpdate},
			inspect: func(t *testing.T, _, b []*Message) {
				var p PresencePayload
				if err := json.Unmarshal(b[0].Payload, &p); err != nil {
					t.Fatal(err)
				}
				if p.DisplayName != "user_a name" || p.Cursor == nil || p.Cursor.X != 3 {
					t.Errorf("presence = %+v", p)
				}
				if b[0].UserID != "user_a" {
					t.Errorf("presence from %q", b[0].UserID)
				}
			},
		},
		{name: "undo", msg: Message{Type: TypeHistoryUndo}},
		{name: "redo", msg: Message{Type: TypeHistoryRedo}},
		{name: "unknown", msg: Message{Type: "drawing.explode"}, wantA: []string{TypeError}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.msg
			h.handleMessage(a, &msg)
			gotA, gotB := drain(t, a), drain(t, b)
			if !equalTypes(types(gotA), tt.wantA...) {
				t.Errorf("a got %v, want %v", types(gotA), tt.wantA)
			}
			if !equalTypes(types(gotB), tt.wantB...) {
				t.Errorf("b got %v, want %v", types(gotB), tt.wantB)
			}
			if tt.inspect != nil && len(gotA) >= len(tt.wantA) && len(gotB) >= len(tt.wantB) {
				tt.inspect(t, gotA, gotB)
			}
		})
	}

	if len(sess.executed) != 1 || sess.undos != 1 || sess.redos != 1 {
		t.Errorf("session saw %d batches, %d undos, %d redos", len(sess.executed), sess.undos, sess.redos)
	}
}

func TestBroadcastStatePrunesPresence(t *testing.T) {
	h := newTestHub()
	a := newTestClient(h, &fakeSession{}, "user_a", "c1")
	h.addClient(a)
	drain(t, a)

	sel, _ := json.Marshal(PresencePayload{Selection: []string{"el_1", "el_2"}})
	h.handleMessage(a, &Message{Type: TypePresenceUpdate, Payload: sel})

	st := engine.State{Elements: []document.Element{
		{ID: "el_2", Layer: document.DefaultLayer, Geometry: document.Circle{Radius: 1}},
	}}
	h.BroadcastState("drw_1", st)
	h.BroadcastState("drw_other", st)

	if got := types(drain(t, a)); !equalTypes(got, TypeDrawingSync) {
		t.Fatalf("a got %v", got)
	}
	p := h.rooms["drw_1"].presence.Snapshot()["user_a"]
	if len(p.Selection) != 1 || p.Selection[0] != "el_2" {
		t.Errorf("selection = %v, want [el_2]", p.Selection)
	}
}

func TestPresenceSnapshotIsCopy(t *testing.T) {
	p := NewPresence()
	p.Set("u", &PresencePayload{Selection: []string{"a"}})
	snap := p.Snapshot()
	snap["u"].Selection[0] = "z"
	if p.Snapshot()["u"].Selection[0] != "a" {
		t.Error("snapshot shares the selection slice")
	}
}

func TestLeaveAfterHubStopped(t *testing.T) {
	h := newTestHub()
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		h.Run(ctx)
		close(stopped)
	}()

	c := newTestClient(h, &fakeSession{}, "user_a", "c1")
	h.Register(c)
	cancel()
	<-stopped

	left := make(chan struct{})
	go func() {
		h.Unregister(c)
		h.Register(c)
		close(left)
	}()
	select {
	case <-left:
	case <-time.After(time.Second):
		t.Fatal("Unregister blocked after the hub stopped")
	}
}

func TestFullBufferLogsThroughHub(t *testing.T) {
	var buf bytes.Buffer
	h := NewHub(slog.New(slog.NewTextHandler(&buf, nil)))
	c := newTestClient(h, &fakeSession{}, "user_a", "c1")

	for range cap(c.send) + 1 {
		c.Send(&Message{Type: TypeError})
	}
	if len(c.send) != cap(c.send) {
		t.Errorf("queued %d messages, want %d", len(c.send), cap(c.send))
	}
	if !strings.Contains(buf.String(), "send buffer full") {
		t.Errorf("hub log = %q", buf.String())
	}
}

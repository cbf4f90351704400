// Package collab shares live drawing sessions over websockets. Clients of the
// same drawing join one room; edits go through the drawing's session and
// every commit is broadcast to the room as a full state sync.
package collab

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/inamate/draft/internal/engine"
)

type Room struct {
	drawingID string
	clients   map[string]*Client // clientID -> client
	presence  *Presence
}

func NewRoom(drawingID string) *Room {
	return &Room{
		drawingID: drawingID,
		clients:   make(map[string]*Client),
		presence:  NewPresence(),
	}
}

type Hub struct {
	mu         sync.RWMutex
	rooms      map[string]*Room // drawingID -> room
	register   chan *Client
	unregister chan *Client
	done       chan struct{} // closed when Run returns
	seq        atomic.Int64
	logger     *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		rooms:      make(map[string]*Room),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// Run processes joins and leaves until ctx is done.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case client := <-h.register:
			h.addClient(client)
		case client := <-h.unregister:
			h.removeClient(client)
		case <-ctx.Done():
			return
		}
	}
}

// Register and Unregister return without effect once Run has stopped.
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	room, ok := h.rooms[client.DrawingID]
	if !ok {
		room = NewRoom(client.DrawingID)
		h.rooms[client.DrawingID] = room
	}
	room.clients[client.ClientID] = client
	h.mu.Unlock()

	h.sendTo(client, TypeWelcome, WelcomePayload{ClientID: client.ClientID, UserID: client.UserID})
	h.sendTo(client, TypeDrawingSync, client.session.State())
	h.sendTo(client, TypePresenceState, PresenceStatePayload{Presences: room.presence.Snapshot()})

	h.broadcast(client.DrawingID, TypePresenceJoin, PresenceJoinPayload{
		UserID:      client.UserID,
		DisplayName: client.DisplayName,
	}, client.ClientID)

	h.logger.Info("client joined", "user", client.UserID, "drawing", client.DrawingID)
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	room, ok := h.rooms[client.DrawingID]
	if !ok {
		h.mu.Unlock()
		return
	}
	if _, member := room.clients[client.ClientID]; !member {
		h.mu.Unlock()
		return
	}

	delete(room.clients, client.ClientID)
	close(client.send)
	room.presence.Remove(client.UserID)

	if len(room.clients) == 0 {
		delete(h.rooms, client.DrawingID)
	}
	h.mu.Unlock()

	h.broadcast(client.DrawingID, TypePresenceLeave, PresenceLeavePayload{UserID: client.UserID}, "")

	h.logger.Info("client left", "user", client.UserID, "drawing", client.DrawingID)
}

// BroadcastState sends a committed state to every client of the drawing. It
// is registered as the drawing service's commit hook.
func (h *Hub) BroadcastState(drawingID string, st engine.State) {
	h.mu.RLock()
	room, ok := h.rooms[drawingID]
	h.mu.RUnlock()
	if !ok {
		return
	}

	live := make(map[string]bool, len(st.Elements))
	for _, el := range st.Elements {
		live[el.ID] = true
	}
	room.presence.PruneSelections(live)

	h.broadcast(drawingID, TypeDrawingSync, st, "")
}

func (h *Hub) handleMessage(sender *Client, msg *Message) {
	switch msg.Type {
	case TypePresenceUpdate:
		h.handlePresenceUpdate(sender, msg)
	case TypeCommandSubmit:
		h.handleCommandSubmit(sender, msg)
	case TypeHistoryUndo:
		sender.session.Undo()
	case TypeHistoryRedo:
		sender.session.Redo()
	default:
		h.logger.Warn("unknown message type", "type", msg.Type, "user", sender.UserID)
		h.sendTo(sender, TypeError, ErrorPayload{Message: "unknown message type " + msg.Type})
	}
}

func (h *Hub) handlePresenceUpdate(sender *Client, msg *Message) {
	var presence PresencePayload
	if err := json.Unmarshal(msg.Payload, &presence); err != nil {
		h.logger.Warn("invalid presence payload", "error", err)
		return
	}

	presence.DisplayName = sender.DisplayName

	h.mu.RLock()
	room, ok := h.rooms[sender.DrawingID]
	h.mu.RUnlock()
	if !ok {
		return
	}

	room.presence.Set(sender.UserID, &presence)
	h.broadcastFrom(sender, TypePresenceUpdate, presence)
}

// handleCommandSubmit runs the batch on the drawing's session. The result
// goes to the sender only; a commit reaches everyone through BroadcastState.
func (h *Hub) handleCommandSubmit(sender *Client, msg *Message) {
	var submit CommandSubmitPayload
	if err := json.Unmarshal(msg.Payload, &submit); err != nil {
		h.sendTo(sender, TypeError, ErrorPayload{Message: "invalid command payload"})
		return
	}

	res := sender.session.Execute(submit.Commands)
	if !res.Success {
		h.logger.Info("command batch failed", "user", sender.UserID, "drawing", sender.DrawingID, "error", res.Error)
	}
	h.sendTo(sender, TypeCommandResult, CommandResultPayload{RequestID: submit.RequestID, Result: res})
}

func (h *Hub) sendTo(c *Client, typ string, payload any) {
	msg, err := newMessage(typ, payload)
	if err != nil {
		h.logger.Error("marshal message", "type", typ, "error", err)
		return
	}
	msg.DrawingID = c.DrawingID
	msg.Seq = h.seq.Add(1)
	c.Send(msg)
}

func (h *Hub) broadcastFrom(sender *Client, typ string, payload any) {
	msg, err := newMessage(typ, payload)
	if err != nil {
		h.logger.Error("marshal message", "type", typ, "error", err)
		return
	}
	msg.UserID = sender.UserID
	msg.ClientID = sender.ClientID
	h.send(sender.DrawingID, msg, sender.ClientID)
}

func (h *Hub) broadcast(drawingID, typ string, payload any, excludeClientID string) {
	msg, err := newMessage(typ, payload)
	if err != nil {
		h.logger.Error("marshal message", "type", typ, "error", err)
		return
	}
	h.send(drawingID, msg, excludeClientID)
}

// send delivers under the read lock so removeClient cannot close a channel
// mid-broadcast.
func (h *Hub) send(drawingID string, msg *Message, excludeClientID string) {
	msg.DrawingID = drawingID
	msg.Seq = h.seq.Add(1)

	h.mu.RLock()
	defer h.mu.RUnlock()
	room, ok := h.rooms[drawingID]
	if !ok {
		return
	}
	for _, c := range room.clients {
		if c.ClientID != excludeClientID {
			c.Send(msg)
		}
	}
}

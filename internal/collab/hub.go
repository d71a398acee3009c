package collab

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/inamate/engrave/internal/engine"
)

const saveTimeout = 10 * time.Second

// Loader fetches the stored document of a score when its room opens.
type Loader func(ctx context.Context, scoreID string) (json.RawMessage, error)

// Saver stores a document as a new revision of a score and returns its version.
type Saver func(ctx context.Context, scoreID string, doc json.RawMessage) (int, error)

type Room struct {
	scoreID string
	clients map[string]*Client // clientID -> client
	viewers *Viewers
	state   *ScoreState
}

func NewRoom(scoreID string, opts ...engine.Option) *Room {
	return &Room{
		scoreID: scoreID,
		clients: make(map[string]*Client),
		viewers: NewViewers(),
		state:   NewScoreState(opts...),
	}
}

type registration struct {
	client *Client
	doc    json.RawMessage
	done   chan struct{}
}

// Hub keeps one room per score. Clients in a room share live renders of the score as any
// of them edits it.
type Hub struct {
	mu         sync.RWMutex
	rooms      map[string]*Room // scoreID -> room
	register   chan registration
	unregister chan *Client
	quit       chan struct{}
	done       chan struct{}
	stopOnce   sync.Once

	load       Loader
	save       Saver
	engineOpts []engine.Option
}

// NewHub creates a hub. load and save may be nil for rooms that are never persisted.
func NewHub(load Loader, save Saver, opts ...engine.Option) *Hub {
	return &Hub{
		rooms:      make(map[string]*Room),
		register:   make(chan registration),
		unregister: make(chan *Client),
		quit:       make(chan struct{}),
		done:       make(chan struct{}),
		load:       load,
		save:       save,
		engineOpts: opts,
	}
}

func (h *Hub) Run() {
	defer close(h.done)
	for {
		select {
		case reg := <-h.register:
			h.addClient(reg)
			close(reg.done)
		case client := <-h.unregister:
			h.removeClient(client)
		case <-h.quit:
			h.saveAll()
			return
		}
	}
}

// Stop saves every room with unsaved changes and stops the hub.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() { close(h.quit) })
	<-h.done
}

// Register adds a client to its room and returns once the room has greeted it. The stored
// document is fetched before the hub is involved and seeds the room if it is new.
func (h *Hub) Register(ctx context.Context, client *Client) {
	reg := registration{client: client, doc: h.loadDocument(ctx, client.ScoreID), done: make(chan struct{})}
	select {
	case h.register <- reg:
		<-reg.done
	case <-h.done:
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

func (h *Hub) addClient(reg registration) {
	client := reg.client
	h.mu.Lock()
	room, ok := h.rooms[client.ScoreID]
	if !ok {
		room = NewRoom(client.ScoreID, h.engineOpts...)
		h.rooms[client.ScoreID] = room
	}
	room.clients[client.ClientID] = client
	h.mu.Unlock()

	if !ok && reg.doc != nil {
		if err := room.state.Seed(reg.doc); err != nil {
			slog.Warn("stored document does not render", "score", room.scoreID, "error", err)
		}
	}
	room.viewers.Join(client.ClientID, client.Name)

	_, render, seq := room.state.Current()
	welcome, _ := json.Marshal(WelcomePayload{ClientID: client.ClientID, Seq: seq})
	client.Send(&Message{Type: TypeWelcome, ScoreID: client.ScoreID, Payload: welcome})

	state, _ := json.Marshal(room.viewers.State())
	client.Send(&Message{Type: TypePresenceState, ScoreID: client.ScoreID, Payload: state})

	if render != nil {
		payload, _ := json.Marshal(render)
		client.Send(&Message{Type: TypeRenderResult, ScoreID: client.ScoreID, Seq: seq, Payload: payload})
	}

	joinPayload, _ := json.Marshal(PresencePayload{ClientID: client.ClientID, Name: client.Name})
	h.broadcastToRoom(client.ScoreID, &Message{Type: TypePresenceJoin, ScoreID: client.ScoreID, Payload: joinPayload}, client.ClientID)

	slog.Info("client joined", "client", client.ClientID, "score", client.ScoreID)
}

func (h *Hub) loadDocument(ctx context.Context, scoreID string) json.RawMessage {
	if h.load == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, saveTimeout)
	defer cancel()

	doc, err := h.load(ctx, scoreID)
	if err != nil {
		slog.Debug("no stored document for room", "score", scoreID, "error", err)
		return nil
	}
	return doc
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	room, ok := h.rooms[client.ScoreID]
	if !ok || room.clients[client.ClientID] != client {
		h.mu.Unlock()
		return
	}

	delete(room.clients, client.ClientID)
	client.closeSend()
	room.viewers.Leave(client.ClientID)

	empty := len(room.clients) == 0
	if empty {
		delete(h.rooms, client.ScoreID)
	}
	h.mu.Unlock()

	if empty {
		h.saveRoom(room)
	}

	leavePayload, _ := json.Marshal(PresencePayload{ClientID: client.ClientID})
	h.broadcastToRoom(client.ScoreID, &Message{Type: TypePresenceLeave, ScoreID: client.ScoreID, Payload: leavePayload}, "")

	slog.Info("client left", "client", client.ClientID, "score", client.ScoreID)
}

func (h *Hub) handleMessage(ctx context.Context, sender *Client, msg *Message) {
	h.mu.RLock()
	room, ok := h.rooms[sender.ScoreID]
	h.mu.RUnlock()
	if !ok {
		return
	}

	switch msg.Type {
	case TypeScoreUpdate:
		h.handleScoreUpdate(sender, room, msg)
	case TypeScoreSave:
		h.handleScoreSave(ctx, sender, room)
	case TypePresenceUpdate:
		h.handlePresenceUpdate(sender, room, msg)
	default:
		slog.Warn("unknown message type", "type", msg.Type, "client", sender.ClientID)
		sender.SendError("unknown message type " + msg.Type)
	}
}

func (h *Hub) handleScoreUpdate(sender *Client, room *Room, msg *Message) {
	seq, render, err := room.state.Apply(msg.Payload)
	if err != nil {
		slog.Debug("rejected score update", "error", err, "client", sender.ClientID)
		sender.SendError(err.Error())
		return
	}

	payload, err := json.Marshal(render)
	if err != nil {
		slog.Error("marshal render result", "error", err)
		return
	}
	h.broadcastToRoom(room.scoreID, &Message{Type: TypeRenderResult, ScoreID: room.scoreID, Seq: seq, Payload: payload}, "")
}

func (h *Hub) handleScoreSave(ctx context.Context, sender *Client, room *Room) {
	if h.save == nil {
		sender.SendError("saving is disabled")
		return
	}
	doc, dirty := room.state.TakeDirty()
	if !dirty {
		sender.SendError("nothing to save")
		return
	}

	version, err := h.save(ctx, room.scoreID, doc)
	if err != nil {
		room.state.MarkDirty()
		slog.Error("save score", "error", err, "score", room.scoreID)
		sender.SendError("save failed")
		return
	}

	payload, _ := json.Marshal(ScoreSavedPayload{Version: version})
	h.broadcastToRoom(room.scoreID, &Message{Type: TypeScoreSaved, ScoreID: room.scoreID, Payload: payload}, "")
}

func (h *Hub) handlePresenceUpdate(sender *Client, room *Room, msg *Message) {
	var presence PresencePayload
	if err := json.Unmarshal(msg.Payload, &presence); err != nil {
		slog.Warn("invalid presence payload", "error", err)
		return
	}

	updated, ok := room.viewers.Select(sender.ClientID, presence.Selection)
	if !ok {
		return
	}

	payload, _ := json.Marshal(updated)
	h.broadcastToRoom(room.scoreID, &Message{Type: TypePresenceUpdate, ScoreID: room.scoreID, Payload: payload}, sender.ClientID)
}

func (h *Hub) saveRoom(room *Room) {
	if h.save == nil {
		return
	}
	doc, dirty := room.state.TakeDirty()
	if !dirty {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()
	if _, err := h.save(ctx, room.scoreID, doc); err != nil {
		slog.Error("save room on close", "error", err, "score", room.scoreID)
	}
}

func (h *Hub) saveAll() {
	h.mu.RLock()
	rooms := make([]*Room, 0, len(h.rooms))
	for _, room := range h.rooms {
		rooms = append(rooms, room)
	}
	h.mu.RUnlock()

	for _, room := range rooms {
		h.saveRoom(room)
	}
}

func (h *Hub) broadcastToRoom(scoreID string, msg *Message, excludeClientID string) {
	h.mu.RLock()
	room, ok := h.rooms[scoreID]
	if !ok {
		h.mu.RUnlock()
		return
	}

	clients := make([]*Client, 0, len(room.clients))
	for _, c := range room.clients {
		if c.ClientID != excludeClientID {
			clients = append(clients, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range clients {
		c.Send(msg)
	}
}

/*
Package api
File: hub.go
Description:
    The WebSocket Hub pushes encounter events to the players they belong to.

    It keeps a registry of connected clients per player and delivers each
    notification only to that player's sockets. Broadcast still reaches
    everyone (used for server notices such as a catalog reload).

    Architecture:
    - Hub: The singleton manager. Implements encounter.Notifier.
    - Client: One socket for one player.
    - ServeWs: Upgrades an authenticated GET request to a WebSocket.
*/

package api

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	sendBuffer = 256
)

// Notification kinds that originate in the hub itself.
const (
	KindConnected        = "connected"
	KindUniverseReloaded = "universe_reloaded"
)

// Message defines the JSON envelope for all real-time communication.
type Message struct {
	Type    string `json:"type"`    // Event type (e.g., "encounter_resolved")
	Payload any    `json:"payload"` // Briefing, Result, TransferResult...
}

type delivery struct {
	playerID int64 // 0 means everyone
	data     []byte
}

// Client represents a single connected socket.
type Client struct {
	hub      *Hub
	conn     *websocket.Conn
	send     chan []byte // Buffered outbound messages
	playerID int64
}

// Hub maintains the set of active clients and routes messages to them.
type Hub struct {
	clients    map[int64]map[*Client]bool // Player -> sockets
	deliver    chan delivery
	register   chan *Client
	unregister chan *Client
	done       chan struct{} // Closed when Run returns
}

// NewHub creates a Hub. Start it with `go hub.Run(ctx)`.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[int64]map[*Client]bool),
		deliver:    make(chan delivery, sendBuffer),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// Run is the main event loop for the Hub. It returns when ctx is done.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for _, set := range h.clients {
				for c := range set {
					close(c.send)
				}
			}
			h.clients = make(map[int64]map[*Client]bool)
			return

		case c := <-h.register:
			set, ok := h.clients[c.playerID]
			if !ok {
				set = make(map[*Client]bool)
				h.clients[c.playerID] = set
			}
			set[c] = true
			log.Printf("WS: player %d connected (%d sockets)", c.playerID, len(set))

		case c := <-h.unregister:
			h.drop(c)

		case d := <-h.deliver:
			if d.playerID == 0 {
				for _, set := range h.clients {
					for c := range set {
						h.push(c, d.data)
					}
				}
				continue
			}
			for c := range h.clients[d.playerID] {
				h.push(c, d.data)
			}
		}
	}
}

// push drops clients whose buffer is full; they are assumed hung.
func (h *Hub) push(c *Client, data []byte) {
	select {
	case c.send <- data:
	default:
		h.drop(c)
	}
}

func (h *Hub) drop(c *Client) {
	set, ok := h.clients[c.playerID]
	if !ok || !set[c] {
		return
	}
	delete(set, c)
	close(c.send)
	if len(set) == 0 {
		delete(h.clients, c.playerID)
	}
}

// Notify queues a message for one player's sockets.
func (h *Hub) Notify(playerID int64, kind string, payload any) {
	h.enqueue(playerID, kind, payload)
}

// Broadcast queues a message for every connected socket.
func (h *Hub) Broadcast(kind string, payload any) {
	h.enqueue(0, kind, payload)
}

func (h *Hub) enqueue(playerID int64, kind string, payload any) {
	data, err := json.Marshal(Message{Type: kind, Payload: payload})
	if err != nil {
		log.Printf("WS: marshal %s: %v", kind, err)
		return
	}
	select {
	case h.deliver <- delivery{playerID: playerID, data: data}:
	default:
		log.Printf("WS: delivery queue full, dropping %s for player %d", kind, playerID)
	}
}

// upgrader configures the WebSocket handshake.
// CheckOrigin returns true to allow connections from any host.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// ServeWs authenticates the request and upgrades it to a WebSocket.
func ServeWs(hub *Hub, auth *Auth, w http.ResponseWriter, r *http.Request) {
	playerID, err := auth.socketPlayer(r)
	if err != nil || playerID <= 0 {
		writeError(w, http.StatusUnauthorized, "websocket needs a valid player token")
		return
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("WS: upgrade error:", err)
		return
	}

	client := &Client{hub: hub, conn: conn, send: make(chan []byte, sendBuffer), playerID: playerID}

	// The greeting is written only once the hub has the client, so anything
	// read after it is a live push.
	if hello, err := json.Marshal(Message{Type: KindConnected, Payload: map[string]int64{"player_id": playerID}}); err == nil {
		client.send <- hello
	}
	select {
	case hub.register <- client:
	case <-hub.done:
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}

// readPump drains the socket until it closes. Clients do not send commands
// over the socket; everything goes through the REST API.
func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WS: player %d read error: %v", c.playerID, err)
			}
			return
		}
	}
}

// writePump pumps messages from the hub to the websocket connection.
func (c *Client) writePump() {
	defer c.conn.Close()

	// Range over the channel. This loop exits when c.send is closed.
	for message := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		w, err := c.conn.NextWriter(websocket.TextMessage)
		if err != nil {
			return
		}
		w.Write(message)
		if err := w.Close(); err != nil {
			return
		}
	}
	c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}

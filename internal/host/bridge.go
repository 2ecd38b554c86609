package host

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	sendBuffer = 64
	writeWait  = 10 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Envelope is the frame sent to browser hosts.
type Envelope struct {
	Type string `json:"type"` // "host" or "turn"
	Data any    `json:"data"`
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Bridge forwards capability calls to every connected browser as JSON
// frames. A browser page replays them against its platform SDK.
type Bridge struct {
	mu      sync.Mutex
	clients map[*client]struct{}
}

func NewBridge() *Bridge {
	return &Bridge{clients: make(map[*client]struct{})}
}

func (b *Bridge) Haptic(k HapticKind) { b.Publish("host", hapticEvent(k)) }
func (b *Bridge) Notify(l Level, msg string) { b.Publish("host", notifyEvent(l, msg)) }
func (b *Bridge) MainButton(label string, visible bool) { b.Publish("host", mainButtonEvent(label, visible)) }
func (b *Bridge) BackButton(visible bool) { b.Publish("host", backButtonEvent(visible)) }

// Publish sends one envelope to all clients. Slow clients whose buffer is
// full are dropped.
func (b *Bridge) Publish(typ string, data any) {
	msg, err := json.Marshal(Envelope{Type: typ, Data: data})
	if err != nil {
		log.Printf("[HOST] encode %s: %v", typ, err)
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for c := range b.clients {
		select {
		case c.send <- msg:
		default:
			delete(b.clients, c)
			close(c.send)
		}
	}
}

// Clients is the number of connected browsers.
func (b *Bridge) Clients() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.clients)
}

// ServeWS upgrades the request and attaches the connection to the bridge.
func (b *Bridge) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[HOST] upgrade: %v", err)
		return
	}
	c := &client{conn: conn, send: make(chan []byte, sendBuffer)}
	b.mu.Lock()
	b.clients[c] = struct{}{}
	b.mu.Unlock()

	go b.writePump(c)
	go b.readPump(c)
}

// Close disconnects every client.
func (b *Bridge) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for c := range b.clients {
		delete(b.clients, c)
		close(c.send)
	}
}

func (b *Bridge) remove(c *client) {
	b.mu.Lock()
	if _, ok := b.clients[c]; ok {
		delete(b.clients, c)
		close(c.send)
	}
	b.mu.Unlock()
}

// readPump discards input; it exists to notice the peer going away.
func (b *Bridge) readPump(c *client) {
	defer func() {
		b.remove(c)
		c.conn.Close()
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (b *Bridge) writePump(c *client) {
	defer c.conn.Close()
	for msg := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
	c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}

package websocket

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"quiz-live/internal/game"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024
)

// upgrader configures the WebSocket connection upgrade.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Allow all origins. Adjust this in production!
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Handler receives decoded transport events. Implemented by game.Server.
type Handler interface {
	HandleMessage(conn game.Conn, data []byte)
	HandleDisconnect(conn game.Conn)
}

// Router owns the transport connections: it upgrades HTTP requests, runs the
// read/write pumps per client, and forwards inbound frames to the handler.
// Session membership and broadcasting live in the game package.
type Router struct {
	handler Handler
}

func NewRouter(handler Handler) *Router {
	return &Router{handler: handler}
}

// ServeWS upgrades the request and starts the client pumps. One connection
// per participant, host or player.
func (rt *Router) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws: upgrade error: %v", err)
		return
	}

	client := &Client{
		router: rt,
		conn:   conn,
		send:   make(chan []byte, 256),
	}
	log.Printf("ws: client connected from %s", conn.RemoteAddr())

	go client.writePump()
	go client.readPump()
}

// Client is one websocket participant. It implements game.Conn: Send queues
// onto a buffered channel so session transitions never block on a slow peer.
type Client struct {
	router *Router
	conn   *websocket.Conn
	send   chan []byte
}

// Send marshals and queues an outbound event. A client that can't drain its
// queue is cut loose rather than stalling the session.
func (c *Client) Send(e game.Event) {
	data, err := json.Marshal(e)
	if err != nil {
		log.Printf("ws: marshal error: %v", err)
		return
	}
	select {
	case c.send <- data:
	default:
		log.Printf("ws: send buffer full, dropping client %s", c.conn.RemoteAddr())
		c.conn.Close()
	}
}

func (c *Client) readPump() {
	defer func() {
		c.router.handler.HandleDisconnect(c)
		c.conn.Close()
		close(c.send)
	}()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("ws: unexpected close: %v", err)
			}
			return
		}
		c.router.handler.HandleMessage(c, message)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Printf("ws: write error: %v", err)
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

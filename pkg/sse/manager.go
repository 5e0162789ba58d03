package sse

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Event is one server-sent event addressed to a single user.
type Event struct {
	UserID string
	Name   string
	Data   interface{}
}

type client struct {
	userID string
	send   chan Event
}

// Manager fans events out to the SSE connections of each user. A user may
// hold several connections (multiple tabs/devices); every connection gets
// every event. There is no buffering beyond the per-client channel: a slow
// client drops events rather than blocking the rest.
type Manager struct {
	register   chan *client
	unregister chan *client
	events     chan Event
	clients    map[string]map[*client]bool
}

func NewManager() *Manager {
	return &Manager{
		register:   make(chan *client),
		unregister: make(chan *client),
		events:     make(chan Event, 64),
		clients:    make(map[string]map[*client]bool),
	}
}

// Run owns the client registry. Call it once in its own goroutine.
func (m *Manager) Run() {
	for {
		select {
		case c := <-m.register:
			if m.clients[c.userID] == nil {
				m.clients[c.userID] = make(map[*client]bool)
			}
			m.clients[c.userID][c] = true
			log.Printf("[SSE] Client connected for user %s (%d active)", c.userID, len(m.clients[c.userID]))
		case c := <-m.unregister:
			if conns, ok := m.clients[c.userID]; ok {
				if conns[c] {
					delete(conns, c)
					close(c.send)
					if len(conns) == 0 {
						delete(m.clients, c.userID)
					}
				}
			}
		case ev := <-m.events:
			for c := range m.clients[ev.UserID] {
				select {
				case c.send <- ev:
				default:
					// Slow consumer, drop the event.
				}
			}
		}
	}
}

// SendToUser pushes an event to every open connection of a user.
func (m *Manager) SendToUser(userID, event string, data interface{}) {
	m.events <- Event{UserID: userID, Name: event, Data: data}
}

// ServeHTTP streams events for one user until the connection closes.
func (m *Manager) ServeHTTP(c *gin.Context, userID string) {
	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "streaming unsupported"})
		return
	}

	cl := &client{userID: userID, send: make(chan Event, 16)}
	m.register <- cl
	defer func() { m.unregister <- cl }()

	// Let the client know the stream is up.
	fmt.Fprintf(c.Writer, "event: connected\ndata: {}\n\n")
	flusher.Flush()

	for {
		select {
		case ev, ok := <-cl.send:
			if !ok {
				return
			}
			payload, err := json.Marshal(ev.Data)
			if err != nil {
				log.Printf("[SSE] Failed to marshal event %s: %v", ev.Name, err)
				continue
			}
			fmt.Fprintf(c.Writer, "event: %s\ndata: %s\n\n", ev.Name, payload)
			flusher.Flush()
		case <-c.Request.Context().Done():
			return
		}
	}
}

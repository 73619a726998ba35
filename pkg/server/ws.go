package server

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/embedkit/zoom-embed/pkg/config"
	"github.com/embedkit/zoom-embed/pkg/log"
	"github.com/embedkit/zoom-embed/pkg/sdk"
	"github.com/embedkit/zoom-embed/pkg/session"
)

// EventFeed pushes session and roster changes to host UIs over WebSocket.
type EventFeed struct {
	upgrader     websocket.Upgrader
	controller   *session.Controller
	config       *config.Config
	clients      map[string]*FeedClient
	clientsMutex sync.RWMutex
}

// NewEventFeed creates the WebSocket event feed.
func NewEventFeed(controller *session.Controller, cfg *config.Config) *EventFeed {
	return &EventFeed{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		controller: controller,
		config:     cfg,
		clients:    make(map[string]*FeedClient),
	}
}

// HandleConnection handles incoming WebSocket connections
func (f *EventFeed) HandleConnection(w http.ResponseWriter, r *http.Request) {
	conn, err := f.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Errorf("Failed to upgrade WebSocket connection: %v", err)
		return
	}

	client := NewFeedClient(conn, f.controller, f.config)
	f.addClient(client)

	log.Infof("Event feed client connected: %s", client.ID)

	client.Process()

	f.removeClient(client.ID)
	log.Infof("Event feed client disconnected: %s", client.ID)
}

func (f *EventFeed) addClient(client *FeedClient) {
	f.clientsMutex.Lock()
	defer f.clientsMutex.Unlock()
	f.clients[client.ID] = client
}

func (f *EventFeed) removeClient(clientID string) {
	f.clientsMutex.Lock()
	defer f.clientsMutex.Unlock()
	delete(f.clients, clientID)
}

// FeedClient represents a single WebSocket subscriber.
type FeedClient struct {
	ID         string
	conn       *websocket.Conn
	controller *session.Controller
	config     *config.Config
	sendChan   chan []byte
	stopChan   chan struct{}
	subs       []*sdk.Subscription
}

func NewFeedClient(conn *websocket.Conn, controller *session.Controller, cfg *config.Config) *FeedClient {
	return &FeedClient{
		ID:         conn.RemoteAddr().String(),
		conn:       conn,
		controller: controller,
		config:     cfg,
		sendChan:   make(chan []byte, 100),
		stopChan:   make(chan struct{}),
	}
}

// Process subscribes the client to controller events and pumps messages
// until the connection drops.
func (c *FeedClient) Process() {
	bus := c.controller.Events()
	c.subs = append(c.subs, bus.On(sdk.ConnectionChanged, func(ev sdk.Event) {
		c.queueSessionState(ev.State.String())
	}))
	for _, kind := range []sdk.EventKind{sdk.ParticipantAdded, sdk.ParticipantRemoved, sdk.ParticipantUpdated} {
		c.subs = append(c.subs, bus.On(kind, func(sdk.Event) {
			c.queueParticipants()
		}))
	}
	defer func() {
		for _, sub := range c.subs {
			sub.Cancel()
		}
	}()

	go c.writePump()

	// Initial snapshot so the host renders without waiting for a change.
	c.queueSessionState("")
	c.queueParticipants()

	c.readPump()
}

func (c *FeedClient) queueSessionState(connection string) {
	msg, err := CreateSessionStateMessage(
		c.controller.State().String(),
		connection,
		c.controller.GridEnabled(),
	)
	if err != nil {
		return
	}
	c.queue(msg)
}

func (c *FeedClient) queueParticipants() {
	msg, err := CreateParticipantsMessage(c.controller.Participants())
	if err != nil {
		return
	}
	c.queue(msg)
}

func (c *FeedClient) queue(msg []byte) {
	select {
	case c.sendChan <- msg:
	default:
		log.Warnf("Dropping message for feed client %s (send channel full)", c.ID)
	}
}

// writePump pumps messages from the send channel to the WebSocket connection
func (c *FeedClient) writePump() {
	defer func() {
		c.conn.Close()
		close(c.stopChan)
	}()

	pingTicker := time.NewTicker(c.config.WebSocket.PingInterval)
	defer pingTicker.Stop()

	for {
		select {
		case msg, ok := <-c.sendChan:
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			c.conn.SetWriteDeadline(time.Now().Add(c.config.WebSocket.WriteTimeout))
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				log.Errorf("Error writing to WebSocket: %v", err)
				return
			}

		case <-pingTicker.C:
			c.conn.SetWriteDeadline(time.Now().Add(c.config.WebSocket.WriteTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Errorf("Error sending ping to WebSocket: %v", err)
				return
			}

		case <-c.stopChan:
			return
		}
	}
}

// readPump keeps the read side alive and resets deadlines on traffic.
func (c *FeedClient) readPump() {
	defer c.conn.Close()

	c.conn.SetReadDeadline(time.Now().Add(c.config.WebSocket.ReadTimeout))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(c.config.WebSocket.ReadTimeout))
		return nil
	})

	for {
		_, _, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Errorf("WebSocket read error: %v", err)
			}
			break
		}
		c.conn.SetReadDeadline(time.Now().Add(c.config.WebSocket.ReadTimeout))
	}
}

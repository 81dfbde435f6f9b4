package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"staff-tracker/internal/api"
	"staff-tracker/internal/live"
	"staff-tracker/internal/service"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024
)

// Message types on the live socket.
const (
	msgSubscribe   = "subscribe"
	msgUnsubscribe = "unsubscribe"
	msgMutation    = "mutation"
	msgPing        = "ping"

	msgSnapshot = "snapshot"
	msgResult   = "result"
	msgError    = "error"
	msgPong     = "pong"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

type clientMessage struct {
	Type string          `json:"type"`
	ID   string          `json:"id,omitempty"`
	Name string          `json:"name,omitempty"`
	Args json.RawMessage `json:"args,omitempty"`
}

type serverMessage struct {
	Type  string `json:"type"`
	ID    string `json:"id,omitempty"`
	Data  any    `json:"data,omitempty"`
	Code  string `json:"code,omitempty"`
	Error string `json:"error,omitempty"`
}

// LiveHandler serves subscriptions and mutations over a WebSocket.
type LiveHandler struct {
	registry *api.Registry
	broker   *live.Broker
	log      *logrus.Logger

	mu      sync.Mutex
	clients map[*liveClient]struct{}
	closed  bool
}

func NewLiveHandler(registry *api.Registry, broker *live.Broker, log *logrus.Logger) *LiveHandler {
	return &LiveHandler{
		registry: registry,
		broker:   broker,
		log:      log,
		clients:  make(map[*liveClient]struct{}),
	}
}

// Close disconnects every live client and refuses new ones.
// http.Server.Shutdown does not close hijacked connections; register Close
// with RegisterOnShutdown.
func (h *LiveHandler) Close() {
	h.mu.Lock()
	h.closed = true
	clients := make([]*liveClient, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	for _, c := range clients {
		c.cancel()
	}
}

func (h *LiveHandler) track(c *liveClient) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.clients[c] = struct{}{}
	return true
}

func (h *LiveHandler) untrack(c *liveClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, c)
}

// GET /live
func (h *LiveHandler) Connect(c *gin.Context) {
	h.mu.Lock()
	closed := h.closed
	h.mu.Unlock()
	if closed {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "server shutting down"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.WithError(err).Warn("live: upgrade failed")
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	client := &liveClient{
		id:       uuid.NewString(),
		conn:     conn,
		registry: h.registry,
		broker:   h.broker,
		ctx:      ctx,
		cancel:   cancel,
		send:     make(chan []byte, 64),
		subs:     make(map[string]*live.Subscription),
	}
	client.log = h.log.WithField("client_id", client.id)
	if !h.track(client) {
		cancel()
		_ = conn.Close()
		return
	}
	defer h.untrack(client)
	client.log.Debug("live: client connected")

	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		client.writePump()
	}()
	client.readPump()
	<-writerDone
	client.log.Debug("live: client disconnected")
}

// GET /live/stats
func (h *LiveHandler) Stats(c *gin.Context) {
	c.JSON(http.StatusOK, h.broker.Stats())
}

// liveClient owns one connection and the subscriptions made over it.
type liveClient struct {
	id       string
	conn     *websocket.Conn
	registry *api.Registry
	broker   *live.Broker
	log      *logrus.Entry

	ctx    context.Context
	cancel context.CancelFunc
	send   chan []byte

	mu   sync.Mutex
	subs map[string]*live.Subscription
	wg   sync.WaitGroup
}

func (c *liveClient) readPump() {
	defer c.release()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.WithError(err).Warn("live: read failed")
			}
			return
		}

		var msg clientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			c.push(serverMessage{Type: msgError, Code: service.CodeInvalidArgument, Error: "malformed message"})
			continue
		}
		c.handle(msg)
	}
}

func (c *liveClient) handle(msg clientMessage) {
	switch msg.Type {
	case msgSubscribe:
		c.subscribe(msg)
	case msgUnsubscribe:
		c.unsubscribe(msg.ID)
	case msgMutation:
		data, err := c.registry.RunMutation(c.ctx, msg.Name, msg.Args)
		if err != nil {
			c.pushError(msg.ID, err)
			return
		}
		c.push(serverMessage{Type: msgResult, ID: msg.ID, Data: data})
	case msgPing:
		c.push(serverMessage{Type: msgPong, ID: msg.ID})
	default:
		c.push(serverMessage{Type: msgError, ID: msg.ID, Code: service.CodeInvalidArgument, Error: "unknown message type " + msg.Type})
	}
}

// subscribe starts a subscription under msg.ID. An id already in use on this
// connection is rejected; the client must unsubscribe it first.
func (c *liveClient) subscribe(msg clientMessage) {
	c.mu.Lock()
	_, taken := c.subs[msg.ID]
	c.mu.Unlock()
	if taken {
		c.pushError(msg.ID, &service.ValidationError{Err: fmt.Errorf("subscription id %q already in use", msg.ID)})
		return
	}

	sub, err := c.registry.Subscribe(c.ctx, c.broker, msg.Name, msg.Args)
	if err != nil {
		c.pushError(msg.ID, err)
		return
	}

	c.mu.Lock()
	c.subs[msg.ID] = sub
	c.mu.Unlock()

	c.log.WithFields(logrus.Fields{"subscription": msg.ID, "query": msg.Name}).Debug("live: subscribed")
	c.wg.Add(1)
	go c.forward(msg.ID, sub)
}

func (c *liveClient) unsubscribe(id string) {
	c.mu.Lock()
	sub, ok := c.subs[id]
	delete(c.subs, id)
	c.mu.Unlock()
	if ok {
		sub.Close()
	}
}

// forward relays snapshots until the subscription is closed. While the socket
// is busy newer snapshots replace older ones inside the subscription.
func (c *liveClient) forward(id string, sub *live.Subscription) {
	defer c.wg.Done()
	for snap := range sub.Updates() {
		if snap.Err != nil {
			c.pushError(id, snap.Err)
			continue
		}
		c.push(serverMessage{Type: msgSnapshot, ID: id, Data: snap.Data})
	}
}

func (c *liveClient) pushError(id string, err error) {
	code, msg := errorBody(err)
	if code == service.CodeInternal {
		c.log.WithError(err).Error("live: operation failed")
	}
	c.push(serverMessage{Type: msgError, ID: id, Code: code, Error: msg})
}

func (c *liveClient) push(msg serverMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		c.log.WithError(err).Error("live: encode message")
		return
	}
	select {
	case c.send <- data:
	case <-c.ctx.Done():
	}
}

func (c *liveClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case data := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				c.log.WithError(err).Debug("live: write failed")
				c.cancel()
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.cancel()
				return
			}
		case <-c.ctx.Done():
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}
	}
}

// release closes every subscription and waits for the forwarders to stop.
func (c *liveClient) release() {
	c.cancel()

	c.mu.Lock()
	subs := c.subs
	c.subs = make(map[string]*live.Subscription)
	c.mu.Unlock()

	for _, sub := range subs {
		sub.Close()
	}
	c.wg.Wait()
}

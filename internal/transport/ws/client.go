package ws

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"lowlife/internal/app"
	"lowlife/internal/config"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 8192

	// Size of the send channel buffer
	sendBufferSize = 256
)

// Client represents a WebSocket client connection. A client is not bound to
// a room at upgrade time; create_room and join_room subscribe it.
type Client struct {
	conn   *websocket.Conn
	hub    *app.RoomHub
	cfg    *config.Config
	connID string
	send   chan []byte
	done   chan struct{}
	logger *slog.Logger
	mu     sync.Mutex
	closed bool
}

// NewClient creates a new WebSocket client
func NewClient(conn *websocket.Conn, hub *app.RoomHub, cfg *config.Config, connID string, logger *slog.Logger) *Client {
	return &Client{
		conn:   conn,
		hub:    hub,
		cfg:    cfg,
		connID: connID,
		send:   make(chan []byte, sendBufferSize),
		done:   make(chan struct{}),
		logger: logger,
	}
}

// ConnID implements app.ClientConnection
func (c *Client) ConnID() string {
	return c.connID
}

// Send implements app.ClientConnection
func (c *Client) Send(message interface{}) error {
	data, err := json.Marshal(message)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}

	select {
	case c.send <- data:
		return nil
	default:
		// Buffer full, message dropped; the seq gap tells the client
		c.logger.Warn("send buffer full, message dropped", "connId", c.connID)
		return nil
	}
}

// Close implements app.ClientConnection
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}

	c.closed = true
	close(c.done)
	return c.conn.Close()
}

// Run starts the client's read and write pumps
func (c *Client) Run() {
	go c.writePump()
	c.readPump()
}

// readPump pumps messages from the WebSocket connection
func (c *Client) readPump() {
	defer func() {
		c.hub.HandleDisconnect(c.connID)
		c.Close()
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
				c.logger.Debug("websocket read error", "error", err)
			}
			break
		}

		c.handleMessage(message)
	}
}

// writePump pumps messages from the send channel to the WebSocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case <-c.done:
			return
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
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

// handleMessage processes an incoming message from the client. A malformed
// request is acked BAD_REQUEST and mutates nothing.
func (c *Client) handleMessage(data []byte) {
	var msg ClientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		c.sendBadRequest("", "Invalid message format")
		return
	}

	switch msg.Type {
	case MsgCreateRoom:
		c.handleCreateRoom(msg.Payload)
	case MsgJoinRoom:
		c.handleJoinRoom(msg.Payload)
	case MsgStartGame:
		c.handleStartGame(msg.Payload)
	case MsgMoveSpin:
		c.handleAction(MsgMoveSpin, msg.Payload)
	case MsgExtraSpin:
		c.handleAction(MsgExtraSpin, msg.Payload)
	case MsgRescueSpin:
		c.handleAction(MsgRescueSpin, msg.Payload)
	case MsgTardDraw:
		c.handleAction(MsgTardDraw, msg.Payload)
	case MsgClaimFinishBonus:
		c.handleClaimFinishBonus(msg.Payload)
	case MsgPing:
		c.sendPong()
	default:
		c.sendBadRequest(msg.Type, "Unknown message type")
	}
}

// handleCreateRoom handles a create_room message
func (c *Client) handleCreateRoom(raw json.RawMessage) {
	var payload CreateRoomPayload
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &payload); err != nil {
			c.sendBadRequest(MsgCreateRoom, "Invalid payload")
			return
		}
	}

	session, err := c.hub.CreateRoom(c.connID)
	if err != nil {
		c.sendErr(MsgCreateRoom, err)
		return
	}

	session.RegisterClient(c)

	data := map[string]interface{}{"code": session.Code()}
	if c.cfg.Game.HostAutoJoin {
		player, err := session.Join(c.connID, payload.Name, nil)
		if err != nil {
			c.logger.Warn("auto-seat of room creator failed", "room", session.Code(), "error", err)
		} else {
			data["playerId"] = player.DisplayID
		}
	}

	c.sendAck(MsgCreateRoom, data)
}

// handleJoinRoom handles a join_room message
func (c *Client) handleJoinRoom(raw json.RawMessage) {
	var payload JoinRoomPayload
	if err := json.Unmarshal(raw, &payload); err != nil || payload.Code == "" {
		c.sendBadRequest(MsgJoinRoom, "Room code is required")
		return
	}

	session, err := c.hub.GetSession(payload.Code)
	if err != nil {
		c.sendErr(MsgJoinRoom, err)
		return
	}

	// Subscribe before joining so the joiner sees its own lobby update
	session.RegisterClient(c)

	player, err := session.Join(c.connID, payload.Name, payload.DeckSeed)
	if err != nil {
		session.UnregisterClient(c.connID)
		c.sendErr(MsgJoinRoom, err)
		return
	}

	c.sendAck(MsgJoinRoom, map[string]interface{}{
		"code":     session.Code(),
		"playerId": player.DisplayID,
		"room":     session.Snapshot(),
	})
}

// handleStartGame handles a start_game message
func (c *Client) handleStartGame(raw json.RawMessage) {
	var payload StartGamePayload
	if err := json.Unmarshal(raw, &payload); err != nil || payload.Code == "" {
		c.sendBadRequest(MsgStartGame, "Room code is required")
		return
	}

	session, err := c.hub.GetSession(payload.Code)
	if err != nil {
		c.sendErr(MsgStartGame, err)
		return
	}

	if err := session.Start(c.connID); err != nil {
		c.sendErr(MsgStartGame, err)
		return
	}

	c.sendAck(MsgStartGame, nil)
}

// handleAction dispatches the seat-scoped randomized actions
func (c *Client) handleAction(op MessageType, raw json.RawMessage) {
	var payload ActionPayload
	if err := json.Unmarshal(raw, &payload); err != nil || payload.Code == "" {
		c.sendBadRequest(op, "Room code is required")
		return
	}

	session, err := c.hub.GetSession(payload.Code)
	if err != nil {
		c.sendErr(op, err)
		return
	}

	var result interface{}
	switch op {
	case MsgMoveSpin:
		result, err = session.MoveSpin(c.connID, payload.PlayerID)
	case MsgExtraSpin:
		result, err = session.ExtraSpin(c.connID, payload.PlayerID, payload.Multiplier)
	case MsgRescueSpin:
		result, err = session.RescueSpin(c.connID, payload.PlayerID)
	case MsgTardDraw:
		result, err = session.TardDraw(c.connID, payload.PlayerID)
	}
	if err != nil {
		c.sendErr(op, err)
		return
	}

	c.sendAck(op, result)
}

// handleClaimFinishBonus handles a claim_finish_bonus message. A repeat
// claim is not an error: the ack reports already=true with no side effect.
func (c *Client) handleClaimFinishBonus(raw json.RawMessage) {
	var payload ActionPayload
	if err := json.Unmarshal(raw, &payload); err != nil || payload.Code == "" {
		c.sendBadRequest(MsgClaimFinishBonus, "Room code is required")
		return
	}

	session, err := c.hub.GetSession(payload.Code)
	if err != nil {
		c.sendErr(MsgClaimFinishBonus, err)
		return
	}

	result, awarded, err := session.ClaimFinishBonus(c.connID, payload.PlayerID)
	if err != nil {
		c.sendErr(MsgClaimFinishBonus, err)
		return
	}

	if !awarded {
		c.Send(NewServerMessage(MsgAck, &AckPayload{
			Op:   MsgClaimFinishBonus,
			OK:   false,
			Data: map[string]interface{}{"already": true},
		}))
		return
	}

	c.sendAck(MsgClaimFinishBonus, result)
}

// sendAck acknowledges a successful request to the caller
func (c *Client) sendAck(op MessageType, data interface{}) {
	c.Send(NewServerMessage(MsgAck, &AckPayload{
		Op:   op,
		OK:   true,
		Data: data,
	}))
}

// sendErr acknowledges a failed request with its stable error code
func (c *Client) sendErr(op MessageType, err error) {
	c.Send(NewServerMessage(MsgAck, &AckPayload{
		Op: op,
		OK: false,
		Error: &ErrorInfo{
			Code:    errorCode(err),
			Message: err.Error(),
		},
	}))
}

// sendBadRequest rejects a malformed request without touching any state
func (c *Client) sendBadRequest(op MessageType, message string) {
	c.Send(NewServerMessage(MsgAck, &AckPayload{
		Op: op,
		OK: false,
		Error: &ErrorInfo{
			Code:    ErrCodeBadRequest,
			Message: message,
		},
	}))
}

// sendPong sends a pong message in response to ping
func (c *Client) sendPong() {
	c.Send(NewServerMessage(MsgPong, nil))
}

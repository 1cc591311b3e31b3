package ws

// Copyright 2013 The Gorilla WebSocket Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

import (
	"bytes"
	"context"
	"encoding/json"
	"sync"
	"time"

	models "github.com/ether/uiflex-go/lib/models/ws"
	"github.com/ether/uiflex-go/lib/urlhash"
	"github.com/ether/uiflex-go/lib/variants"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10
)

var (
	newline = []byte{'\n'}
	space   = []byte{' '}
)

// Client is a middleman between the websocket connection and the hub. It is
// the browser side of one navigation session: it reports the direction of
// the navigation being handled and forwards hash replacements to the peer.
type Client struct {
	Hub *Hub
	// The websocket connection.
	Conn WebSocketConn
	// Buffered channel of outbound messages.
	Send      chan []byte
	Reference string

	changer *socketHashChanger
	session *variants.Session
	api     *variants.API
	logger  *zap.SugaredLogger

	mu        sync.Mutex
	closed    bool
	direction variants.Direction
	// reported is the last hash the peer told us about; replacing it with
	// itself is not echoed back.
	reported string
}

func NewClient(hub *Hub, conn WebSocketConn, reference string, logger *zap.SugaredLogger) *Client {
	return &Client{
		Hub:       hub,
		Conn:      conn,
		Send:      make(chan []byte, 256),
		Reference: reference,
		logger:    logger,
		direction: variants.DirectionNewEntry,
	}
}

func encode(messageType string, data any) ([]byte, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(models.EventMessage{Type: messageType, Data: raw})
}

func (c *Client) enqueue(message []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.Send <- message:
		return true
	default:
		return false
	}
}

func (c *Client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.Send)
	}
}

func (c *Client) emit(messageType string, data any) {
	message, err := encode(messageType, data)
	if err != nil {
		c.logger.Errorf("error encoding %s message: %v", messageType, err)
		return
	}
	if !c.enqueue(message) {
		c.logger.Warnf("dropping %s message for %s", messageType, c.Reference)
	}
}

func (c *Client) emitError(message string) {
	c.emit(models.TypeError, models.Error{Message: message})
}

// Direction is read by the session while it handles a hashChanged event.
func (c *Client) Direction() variants.Direction {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.direction
}

func (c *Client) HashChanged(string, string) {}

// HashReplaced tells the peer to replace its hash.
func (c *Client) HashReplaced(hash string) {
	c.mu.Lock()
	echo := hash == c.reported
	c.mu.Unlock()
	if echo {
		return
	}
	values := []string{}
	if parsed, err := urlhash.Parse(hash); err == nil && c.session != nil {
		if v := parsed.Parameter(c.session.ParameterName()); v != nil {
			values = v
		}
	}
	c.emit(models.TypeSetParameter, models.SetParameter{Hash: hash, Values: values})
}

func (c *Client) state() models.State {
	parameters := c.session.Model().CurrentParameters()
	if parameters == nil {
		parameters = []string{}
	}
	return models.State{
		State:      c.session.State(),
		Hash:       c.changer.Hash(),
		Parameters: parameters,
	}
}

func (c *Client) handleMessage(message models.EventMessage) {
	switch message.Type {
	case models.TypeHashChanged:
		var data models.HashChanged
		if err := json.Unmarshal(message.Data, &data); err != nil {
			c.emitError("invalid hashChanged message")
			return
		}
		direction := variants.DirectionNewEntry
		if data.Direction != "" {
			parsed, err := variants.ParseDirection(data.Direction)
			if err != nil {
				c.emitError(err.Error())
				return
			}
			direction = parsed
		}
		c.mu.Lock()
		c.direction = direction
		c.reported = data.NewHash
		c.mu.Unlock()
		c.changer.SetHash(data.NewHash)
	case models.TypeHashReplaced:
		var data models.HashReplaced
		if err := json.Unmarshal(message.Data, &data); err != nil {
			c.emitError("invalid hashReplaced message")
			return
		}
		c.mu.Lock()
		c.reported = data.Hash
		c.mu.Unlock()
		c.changer.ReplaceHash(data.Hash)
	case models.TypeGetState:
		c.emit(models.TypeState, c.state())
	case models.TypeActivateVariant:
		var data models.ActivateVariant
		if err := json.Unmarshal(message.Data, &data); err != nil {
			c.emitError("invalid activateVariant message")
			return
		}
		target := data.Target
		if target == "" {
			target = c.Reference
		}
		if err := c.api.ActivateVariant(context.Background(), target, data.VariantID); err != nil {
			c.emitError(err.Error())
			return
		}
		c.emit(models.TypeState, c.state())
	default:
		c.emitError("unknown message type " + message.Type)
	}
}

// readPump pumps messages from the websocket connection to the session.
//
// The application runs readPump in a per-connection goroutine. The application
// ensures that there is at most one reader on a connection by executing all
// reads from this goroutine.
func (c *Client) readPump(maxMessageSize int64) {
	defer func() {
		c.Hub.Unregister <- c
		c.Conn.Close()
	}()
	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Warnf("websocket error on %s: %v", c.Reference, err)
			}
			break
		}
		message = bytes.TrimSpace(bytes.Replace(message, newline, space, -1))
		var eventMessage models.EventMessage
		if err := json.Unmarshal(message, &eventMessage); err != nil {
			c.logger.Debugf("error unmarshalling message: %v", err)
			c.emitError("invalid message")
			continue
		}
		c.handleMessage(eventMessage)
	}
}

// writePump pumps messages from the Send channel to the websocket connection.
//
// A goroutine running writePump is started for each connection. The
// application ensures that there is at most one writer to a connection by
// executing all writes from this goroutine.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel.
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			if err := c.Conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}

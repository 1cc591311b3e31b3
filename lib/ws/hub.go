package ws

import "sync"

// RoomMessage is delivered to every client of one reference.
type RoomMessage struct {
	Reference string
	Data      []byte
}

type HubStats struct {
	Sessions   int `json:"sessions"`
	References int `json:"references"`
}

// Hub maintains the set of active Clients and broadcasts messages to the
// Clients of a reference.
type Hub struct {
	// Registered Clients.
	Clients        map[*Client]bool
	ClientsRWMutex sync.RWMutex

	// Messages for the Clients of one reference.
	Broadcast chan RoomMessage

	// Register requests from the Clients.
	Register chan *Client

	// Unregister requests from Clients.
	Unregister chan *Client
}

func NewHub() *Hub {
	return &Hub{
		Broadcast:  make(chan RoomMessage),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		Clients:    make(map[*Client]bool),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client, ok := <-h.Register:
			if !ok {
				return
			}
			if client == nil {
				continue
			}
			h.ClientsRWMutex.Lock()
			h.Clients[client] = true
			h.ClientsRWMutex.Unlock()
		case client, ok := <-h.Unregister:
			if !ok {
				return
			}
			if client == nil {
				continue
			}
			h.ClientsRWMutex.Lock()
			if _, ok := h.Clients[client]; ok {
				delete(h.Clients, client)
				client.close()
			}
			h.ClientsRWMutex.Unlock()
		case message, ok := <-h.Broadcast:
			if !ok {
				return
			}
			h.ClientsRWMutex.Lock()
			for client := range h.Clients {
				if client == nil || client.Reference != message.Reference {
					continue
				}
				if !client.enqueue(message.Data) {
					// channel is full, drop the client
					delete(h.Clients, client)
					client.close()
				}
			}
			h.ClientsRWMutex.Unlock()
		}
	}
}

func (h *Hub) Stats() HubStats {
	h.ClientsRWMutex.RLock()
	defer h.ClientsRWMutex.RUnlock()
	references := make(map[string]bool)
	for client := range h.Clients {
		references[client.Reference] = true
	}
	return HubStats{Sessions: len(h.Clients), References: len(references)}
}

// Notify sends a message to all clients of reference without blocking the
// caller on a busy hub.
func (h *Hub) Notify(reference, messageType string, data any) error {
	message, err := encode(messageType, data)
	if err != nil {
		return err
	}
	go func() {
		h.Broadcast <- RoomMessage{Reference: reference, Data: message}
	}()
	return nil
}

package websocket

import (
	"log"
	"sync"

	"github.com/gofiber/contrib/websocket"
	"github.com/google/uuid"
	"github.com/tasmeeapp/pairing_backend/notifications"
)

// Client is one authenticated websocket connection. The hub subscribes each
// client to its profile topic on the notification bus and forwards every
// event as JSON until the connection drops.
type Client struct {
	ProfileID uuid.UUID
	Conn      *websocket.Conn

	cancel func()
}

var clients = make(map[uuid.UUID]*Client)
var clientsMu sync.Mutex
var Register = make(chan *Client)
var Unregister = make(chan *Client)

var bus notifications.Bus = notifications.NewMemoryBus()

// UseBus swaps the bus the hub subscribes on. Must match the one the
// services publish to; called once at startup.
func UseBus(b notifications.Bus) {
	bus = b
}

func RunHub() {
	for {
		select {
		case client := <-Register:
			log.Printf("Client registered: %s", client.ProfileID)
			clientsMu.Lock()
			if prev, ok := clients[client.ProfileID]; ok {
				// one live socket per profile; the newer connection wins
				prev.cancel()
				prev.Conn.Close()
			}
			events, cancel := bus.Subscribe(notifications.ProfileTopic(client.ProfileID))
			client.cancel = cancel
			clients[client.ProfileID] = client
			clientsMu.Unlock()
			go forward(client, events)
		case client := <-Unregister:
			log.Printf("Client unregistered: %s", client.ProfileID)
			clientsMu.Lock()
			if current, ok := clients[client.ProfileID]; ok && current == client {
				current.cancel()
				delete(clients, client.ProfileID)
			}
			clientsMu.Unlock()
		}
	}
}

func forward(client *Client, events <-chan notifications.Event) {
	for event := range events {
		if err := client.Conn.WriteJSON(event); err != nil {
			log.Printf("Error sending event to client %s: %v", client.ProfileID, err)
			client.Conn.Close()
			return
		}
	}
}

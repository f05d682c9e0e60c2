package ws

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/khalildhmine/neatify-server/models"
)

// Event types pushed to connected dashboard clients.
const (
	EventBookingCreated = "booking_created"
	EventBookingUpdate  = "booking_update"
	EventPaymentUpdate  = "payment_update"
	EventNewMessage     = "new_message"
	EventAdminNotif     = "admin_notification"
)

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Hub holds every connected websocket client (admin panel, cleaner app) and
// fans broadcast events out to them.
type Hub struct {
	clients map[*websocket.Conn]string // conn -> role
	mutex   sync.Mutex
}

var hub = Hub{
	clients: make(map[*websocket.Conn]string),
}

// RegisterClient adds a connection under its role.
func RegisterClient(conn *websocket.Conn, role string) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()
	hub.clients[conn] = role
}

// UnregisterClient drops and closes a connection.
func UnregisterClient(conn *websocket.Conn) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()
	delete(hub.clients, conn)
	conn.Close()
}

func BroadcastBookingCreated(booking models.Booking) {
	broadcast(Message{Event: EventBookingCreated, Data: booking})
}

func BroadcastBookingUpdate(booking models.Booking) {
	broadcast(Message{Event: EventBookingUpdate, Data: booking})
}

func BroadcastPaymentUpdate(booking models.Booking) {
	broadcast(Message{
		Event: EventPaymentUpdate,
		Data: map[string]interface{}{
			"booking_id":     booking.ID,
			"payment_status": booking.PaymentStatus,
			"pidx":           booking.Pidx,
		},
	})
}

func BroadcastNewMessage(msg models.Message) {
	broadcast(Message{Event: EventNewMessage, Data: msg})
}

func BroadcastAdminNotification(text string) {
	broadcast(Message{Event: EventAdminNotif, Data: text})
}

func broadcast(msg Message) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()

	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("Error marshaling ws message: %v", err)
		return
	}

	for conn := range hub.clients {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			log.Printf("Error sending ws message: %v", err)
		}
	}
}

package ws

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"

	"github.com/khalildhmine/neatify-server/models"
)

func dialTestClient(t *testing.T, role string) *websocket.Conn {
	t.Helper()

	upgrader := websocket.Upgrader{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade failed: %v", err)
			return
		}
		RegisterClient(conn, role)
	}))
	t.Cleanup(server.Close)

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	client, _, err := websocket.DefaultDialer.Dial(url, nil)
	assert.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	return client
}

func readEvent(t *testing.T, client *websocket.Conn) Message {
	t.Helper()
	client.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := client.ReadMessage()
	assert.NoError(t, err)

	var msg Message
	assert.NoError(t, json.Unmarshal(data, &msg))
	return msg
}

func TestBroadcastAdminNotification(t *testing.T) {
	client := dialTestClient(t, models.RoleAdmin)

	BroadcastAdminNotification("Cleaner Bibek joined")

	msg := readEvent(t, client)
	assert.Equal(t, EventAdminNotif, msg.Event)
	assert.Equal(t, "Cleaner Bibek joined", msg.Data)
}

func TestBroadcastPaymentUpdate(t *testing.T) {
	client := dialTestClient(t, models.RoleAdmin)

	BroadcastPaymentUpdate(models.Booking{
		ID:            7,
		PaymentStatus: models.PaymentStatusCompleted,
		Pidx:          "pidx-7",
	})

	msg := readEvent(t, client)
	assert.Equal(t, EventPaymentUpdate, msg.Event)

	payload, ok := msg.Data.(map[string]interface{})
	assert.True(t, ok)
	assert.Equal(t, float64(7), payload["booking_id"])
	assert.Equal(t, models.PaymentStatusCompleted, payload["payment_status"])
}

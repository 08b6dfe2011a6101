package notify

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestHubDeliversToRegisteredConnection(t *testing.T) {
	hub := NewHub(nil)
	go hub.Run()
	defer hub.Shutdown()

	userID := uuid.New()
	conn := &Connection{UserID: userID, Send: make(chan []byte, 4)}
	hub.Register(conn)
	waitForConnections(t, hub, userID, 1)

	hub.Notify(context.Background(), userID, Event{
		Type:    EventFollowCreated,
		ActorID: uuid.New(),
	})

	select {
	case data := <-conn.Send:
		var got Event
		if err := json.Unmarshal(data, &got); err != nil {
			t.Fatalf("unmarshal delivered event: %v", err)
		}
		if got.Type != EventFollowCreated {
			t.Fatalf("expected %s, got %s", EventFollowCreated, got.Type)
		}
	case <-time.After(time.Second):
		t.Fatal("event was not delivered")
	}
}

func TestHubSkipsOtherUsers(t *testing.T) {
	hub := NewHub(nil)
	go hub.Run()
	defer hub.Shutdown()

	userID := uuid.New()
	conn := &Connection{UserID: userID, Send: make(chan []byte, 4)}
	hub.Register(conn)
	waitForConnections(t, hub, userID, 1)

	hub.Notify(context.Background(), uuid.New(), Event{Type: EventFriendRequestReceived})

	select {
	case <-conn.Send:
		t.Fatal("event delivered to the wrong user")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHubUnregisterClosesSend(t *testing.T) {
	hub := NewHub(nil)
	go hub.Run()
	defer hub.Shutdown()

	userID := uuid.New()
	conn := &Connection{UserID: userID, Send: make(chan []byte, 4)}
	hub.Register(conn)
	waitForConnections(t, hub, userID, 1)

	hub.Unregister(conn)
	waitForConnections(t, hub, userID, 0)

	select {
	case _, ok := <-conn.Send:
		if ok {
			t.Fatal("expected send channel to be closed")
		}
	case <-time.After(time.Second):
		t.Fatal("send channel was not closed")
	}
}

func waitForConnections(t *testing.T, hub *Hub, userID uuid.UUID, want int) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if hub.LocalConnections(userID) == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("expected %d connections for %s", want, userID)
}

package gateway

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryPresence(t *testing.T) {
	p := NewMemoryPresence()
	ctx := context.Background()
	room := uuid.New()
	alice := uuid.New()
	bob := uuid.New()

	require.NoError(t, p.Join(ctx, room, alice))
	require.NoError(t, p.Join(ctx, room, bob))

	members, err := p.Members(ctx, room)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uuid.UUID{alice, bob}, members)

	require.NoError(t, p.Leave(ctx, room, alice))
	members, err = p.Members(ctx, room)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{bob}, members)

	require.NoError(t, p.Leave(ctx, room, bob))
	members, err = p.Members(ctx, room)
	require.NoError(t, err)
	assert.Empty(t, members)
}

func recvEvent(t *testing.T, ch chan Event) Event {
	t.Helper()
	select {
	case event := <-ch:
		return event
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
		return Event{}
	}
}

func TestHub_RoutesEventsWithinRoom(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub(nil, NewMemoryPresence(), nil)
	go hub.Run(ctx)

	roomA := uuid.New()
	roomB := uuid.New()
	clientA := NewClient(hub, nil, roomA, uuid.New(), nil)
	clientB := NewClient(hub, nil, roomB, uuid.New(), nil)

	hub.register <- clientA
	hub.register <- clientB

	// Each client sees its own join announcement.
	assert.Equal(t, EventJoined, recvEvent(t, clientA.send).Type)
	assert.Equal(t, EventJoined, recvEvent(t, clientB.send).Type)

	hub.Broadcast(Event{Type: EventTyping, ConsultationID: roomA, SenderID: clientA.userID})

	event := recvEvent(t, clientA.send)
	assert.Equal(t, EventTyping, event.Type)
	assert.Equal(t, roomA, event.ConsultationID)

	select {
	case event := <-clientB.send:
		t.Fatalf("room B received foreign event %q", event.Type)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHub_UnregisterClosesSendAndClearsPresence(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	presence := NewMemoryPresence()
	hub := NewHub(nil, presence, nil)
	go hub.Run(ctx)

	room := uuid.New()
	client := NewClient(hub, nil, room, uuid.New(), nil)

	hub.register <- client
	assert.Equal(t, EventJoined, recvEvent(t, client.send).Type)

	hub.unregister <- client

	// The send channel closes once the hub drops the client.
	deadline := time.After(time.Second)
	for {
		select {
		case _, ok := <-client.send:
			if !ok {
				members, err := presence.Members(ctx, room)
				require.NoError(t, err)
				assert.Empty(t, members)
				return
			}
		case <-deadline:
			t.Fatal("send channel never closed")
		}
	}
}

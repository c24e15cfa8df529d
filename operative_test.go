package main

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWebSocketTransport(t *testing.T) {
	t.Parallel()

	cfg := &Config{}
	mux := httprouter.New()
	registerOperativeGame(cfg, "/operative", mux)

	srv := httptest.NewServer(mux)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/operative/ws"

	host, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer host.Close()

	require.NoError(t, host.WriteJSON(ClientMessage{
		Type:        "create_game",
		HostName:    "Alice",
		DeviceToken: "dev-a",
	}))

	var msg serverMessage
	require.NoError(t, host.ReadJSON(&msg))
	require.Equal(t, "game_updated", msg.Type)
	require.NotNil(t, msg.State)
	require.Len(t, msg.State.RoomCode, roomCodeLength)
	require.Len(t, msg.State.Players, 1)
	assert.Equal(t, msg.State.Players[0].ID, msg.HostID, "the creator hosts the room")
	code := msg.State.RoomCode

	guest, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer guest.Close()

	// joining a room that doesn't exist is the one explicit rejection,
	// delivered to the originating connection only
	badCode := "ZZZZ"
	if badCode == code {
		badCode = "QQQQ"
	}
	require.NoError(t, guest.WriteJSON(ClientMessage{
		Type:       "join_game",
		RoomCode:   badCode,
		PlayerName: "Bob",
	}))
	require.NoError(t, guest.ReadJSON(&msg))
	assert.Equal(t, "error", msg.Type)
	assert.Equal(t, "Room not found", msg.Message)

	// room codes are normalized before lookup
	require.NoError(t, guest.WriteJSON(ClientMessage{
		Type:        "join_game",
		RoomCode:    " " + strings.ToLower(code) + " ",
		PlayerName:  "Bob",
		DeviceToken: "dev-b",
	}))
	require.NoError(t, guest.ReadJSON(&msg))
	require.Equal(t, "game_updated", msg.Type)
	require.NotNil(t, msg.State)
	assert.Len(t, msg.State.Players, 2)

	// the host hears about the join too
	require.NoError(t, host.ReadJSON(&msg))
	require.Equal(t, "game_updated", msg.Type)
	assert.Len(t, msg.State.Players, 2)
}

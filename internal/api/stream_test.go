package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	ws "github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Chiawei92/WW1-Skies/pkg/combat"
	"github.com/Chiawei92/WW1-Skies/pkg/mission"
)

// Compile-time interface check.
var _ combat.EventSink = (*StreamHandler)(nil)

func dialTestStream(t *testing.T) (*StreamHandler, *ws.Conn, *mission.Mission) {
	t.Helper()
	m, err := mission.New(nil, mission.DefaultParams(), nil, nil)
	require.NoError(t, err)

	h := NewStreamHandler(nil, m)
	srv := httptest.NewServer(http.HandlerFunc(h.HandleWS))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := ws.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	// Wait for registration before broadcasting.
	require.Eventually(t, func() bool {
		return h.ClientCount() == 1
	}, time.Second, 10*time.Millisecond)

	return h, conn, m
}

func readEnvelope(t *testing.T, conn *ws.Conn) Envelope {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)
	var env Envelope
	require.NoError(t, json.Unmarshal(msg, &env))
	return env
}

func TestStreamBroadcastsFrames(t *testing.T) {
	h, conn, m := dialTestStream(t)

	m.Step(0.02)
	h.BroadcastFrame(m.Frame())

	env := readEnvelope(t, conn)
	assert.Equal(t, TypeFrame, env.Type)

	var f mission.Frame
	require.NoError(t, json.Unmarshal(env.Payload, &f))
	assert.Len(t, f.Enemies, 4)
}

func TestStreamBroadcastsEvents(t *testing.T) {
	h, conn, _ := dialTestStream(t)

	h.Publish(combat.Event{Type: combat.EventScoreChanged, Score: 300})

	env := readEnvelope(t, conn)
	assert.Equal(t, TypeEvent, env.Type)

	var e combat.Event
	require.NoError(t, json.Unmarshal(env.Payload, &e))
	assert.Equal(t, combat.EventScoreChanged, e.Type)
	assert.Equal(t, 300, e.Score)
}

func TestStreamAppliesInboundControls(t *testing.T) {
	_, conn, m := dialTestStream(t)

	payload, err := json.Marshal(controlsRequest{Throttle: 1, Firing: true})
	require.NoError(t, err)
	msg, err := json.Marshal(Envelope{Type: TypeControls, Payload: payload})
	require.NoError(t, err)
	require.NoError(t, conn.WriteMessage(ws.TextMessage, msg))

	require.Eventually(t, func() bool {
		m.Step(0.02)
		return m.Frame().Stats.ShotsFired > 0
	}, 2*time.Second, 10*time.Millisecond)
}

func TestStreamInboundPause(t *testing.T) {
	_, conn, m := dialTestStream(t)

	payload, _ := json.Marshal(pauseRequest{Paused: true})
	msg, err := json.Marshal(Envelope{Type: TypePause, Payload: payload})
	require.NoError(t, err)
	require.NoError(t, conn.WriteMessage(ws.TextMessage, msg))

	require.Eventually(t, func() bool {
		return m.Paused()
	}, 2*time.Second, 10*time.Millisecond)
}

func TestStreamDropsDisconnectedClient(t *testing.T) {
	h, conn, _ := dialTestStream(t)

	conn.Close()
	require.Eventually(t, func() bool {
		return h.ClientCount() == 0
	}, 2*time.Second, 10*time.Millisecond)
}

package transport

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// echoServer upgrades incoming connections and hands them to fn.
func echoServer(t *testing.T, fn func(ws *websocket.Conn, r *http.Request)) *httptest.Server {
	t.Helper()
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		defer ws.Close()
		fn(ws, r)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestDialCarriesTokenAndPath(t *testing.T) {
	gotPath := make(chan string, 1)
	gotToken := make(chan string, 1)
	srv := echoServer(t, func(ws *websocket.Conn, r *http.Request) {
		gotPath <- r.URL.Path
		gotToken <- r.URL.Query().Get("token")
	})

	conn, err := Dial(DefaultDialer(), wsURL(srv), "secret-token")
	require.NoError(t, err)
	defer conn.Close()

	assert.Equal(t, "/audio_stream", <-gotPath)
	assert.Equal(t, "secret-token", <-gotToken)
}

func TestDialFailure(t *testing.T) {
	_, err := Dial(DefaultDialer(), "ws://127.0.0.1:1", "token")
	assert.Error(t, err)
}

func TestWriteFrameDeliversBinaryMessage(t *testing.T) {
	received := make(chan []byte, 1)
	srv := echoServer(t, func(ws *websocket.Conn, r *http.Request) {
		msgType, data, err := ws.ReadMessage()
		if err != nil {
			return
		}
		assert.Equal(t, websocket.BinaryMessage, msgType)
		received <- data
	})

	conn, err := Dial(DefaultDialer(), wsURL(srv), "token")
	require.NoError(t, err)
	defer conn.Close()

	frame := []byte{0x01, 0x02, 0x03, 0x04}
	require.NoError(t, conn.WriteFrame(frame))

	select {
	case got := <-received:
		assert.Equal(t, frame, got)
	case <-time.After(2 * time.Second):
		t.Fatal("frame not received")
	}
}

func TestTranscriptEventDispatch(t *testing.T) {
	srv := echoServer(t, func(ws *websocket.Conn, r *http.Request) {
		msgs := []string{
			`{"type":"partial_transcript","text":"foo"}`,
			`{"type":"heartbeat"}`,
			`not json at all`,
			`{"type":"final_transcript","text":"foobar"}`,
		}
		for _, m := range msgs {
			require.NoError(t, ws.WriteMessage(websocket.TextMessage, []byte(m)))
		}
		// Keep the connection open until the client is done reading.
		ws.ReadMessage()
	})

	conn, err := Dial(DefaultDialer(), wsURL(srv), "token")
	require.NoError(t, err)
	defer conn.Close()

	// Unknown types and malformed payloads are skipped, not surfaced.
	ev := <-conn.Events()
	assert.Equal(t, TranscriptEvent{Kind: EventPartial, Text: "foo"}, ev)

	ev = <-conn.Events()
	assert.Equal(t, TranscriptEvent{Kind: EventFinal, Text: "foobar"}, ev)
}

func TestClosedSignalAndWriteAfterClose(t *testing.T) {
	srv := echoServer(t, func(ws *websocket.Conn, r *http.Request) {
		// Server closes immediately.
	})

	conn, err := Dial(DefaultDialer(), wsURL(srv), "token")
	require.NoError(t, err)

	select {
	case <-conn.Closed():
	case <-time.After(2 * time.Second):
		t.Fatal("connection did not report closure")
	}

	assert.ErrorIs(t, conn.WriteFrame([]byte{0}), ErrNotOpen)
}

func TestCloseIsIdempotent(t *testing.T) {
	srv := echoServer(t, func(ws *websocket.Conn, r *http.Request) {
		ws.ReadMessage()
	})

	conn, err := Dial(DefaultDialer(), wsURL(srv), "token")
	require.NoError(t, err)

	assert.NotPanics(t, func() {
		conn.Close()
		conn.Close()
	})

	select {
	case <-conn.Closed():
	case <-time.After(time.Second):
		t.Fatal("Closed not signalled after Close")
	}
}

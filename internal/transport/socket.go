package transport

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// ErrNotOpen is returned by WriteFrame once the connection has closed.
var ErrNotOpen = errors.New("audio stream connection is not open")

// Dialer abstracts the websocket dial so tests can inject a fake connection.
type Dialer interface {
	Dial(urlStr string, requestHeader http.Header) (*websocket.Conn, *http.Response, error)
}

// DefaultDialer dials with gorilla's default websocket dialer.
func DefaultDialer() Dialer {
	return websocket.DefaultDialer
}

// Conn is one audio-stream connection to the transcription backend. Outbound
// traffic is raw PCM wire frames as binary messages; inbound traffic is JSON
// transcript events.
type Conn struct {
	ws     *websocket.Conn
	events chan TranscriptEvent
	closed chan struct{}

	closeOnce sync.Once
	writeMux  sync.Mutex
}

// Dial opens the audio stream endpoint, carrying the bearer token on the
// query string. The returned Conn is live: its read loop is already running.
func Dial(dialer Dialer, wsBaseURL, token string) (*Conn, error) {
	u, err := url.Parse(wsBaseURL + "/audio_stream")
	if err != nil {
		return nil, fmt.Errorf("failed to parse audio stream URL: %w", err)
	}

	q := u.Query()
	q.Set("token", token)
	u.RawQuery = q.Encode()

	ws, _, err := dialer.Dial(u.String(), http.Header{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect audio stream: %w", err)
	}

	c := &Conn{
		ws:     ws,
		events: make(chan TranscriptEvent, 16),
		closed: make(chan struct{}),
	}

	go c.readLoop()

	log.Info().Str("url", u.Host+u.Path).Msg("Audio stream connected")
	return c, nil
}

func (c *Conn) readLoop() {
	defer func() {
		c.markClosed()
		close(c.events)
	}()

	for {
		msgType, data, err := c.ws.ReadMessage()
		if err != nil {
			log.Debug().Err(err).Msg("Audio stream read ended")
			return
		}

		if msgType != websocket.TextMessage {
			log.Warn().Int("message_type", msgType).Msg("Ignoring non-text message from backend")
			continue
		}

		var msg transcriptMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			log.Warn().Err(err).Msg("Ignoring malformed transcript message")
			continue
		}

		switch EventKind(msg.Type) {
		case EventPartial, EventFinal:
			select {
			case c.events <- TranscriptEvent{Kind: EventKind(msg.Type), Text: msg.Text}:
			case <-c.closed:
				return
			}
		default:
			log.Warn().Str("type", msg.Type).Msg("Ignoring transcript message with unknown type")
		}
	}
}

// WriteFrame sends one wire frame as a binary message. Returns ErrNotOpen if
// the connection has closed; the caller decides whether that frame is dropped.
func (c *Conn) WriteFrame(frame []byte) error {
	select {
	case <-c.closed:
		return ErrNotOpen
	default:
	}

	c.writeMux.Lock()
	defer c.writeMux.Unlock()

	if err := c.ws.WriteMessage(websocket.BinaryMessage, frame); err != nil {
		return fmt.Errorf("failed to send audio frame: %w", err)
	}
	return nil
}

// Events returns the stream of inbound transcript events. Closed when the
// connection ends.
func (c *Conn) Events() <-chan TranscriptEvent {
	return c.events
}

// Closed is signalled when the connection has ended, deliberately or not.
func (c *Conn) Closed() <-chan struct{} {
	return c.closed
}

// Close tears the connection down. Idempotent.
func (c *Conn) Close() error {
	c.markClosed()
	return c.ws.Close()
}

func (c *Conn) markClosed() {
	c.closeOnce.Do(func() {
		close(c.closed)
	})
}

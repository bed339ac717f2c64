// Package transport adapts the session engine to the outside world: a
// WebSocket endpoint for the live duplex channel and a small HTTP surface for
// meeting records. It owns wire shapes and connection plumbing, nothing else.
package transport

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/samber/lo"

	"babelroom/domain"
	"babelroom/domain/event"
	"babelroom/session"
)

// CloseSessionRejected is sent when the meeting cannot be validated or the
// participant cannot be established.
const CloseSessionRejected = 4000

const (
	writeWait = 10 * time.Second

	// pongWait is how long the peer may stay silent before the connection is
	// considered dead. Any inbound frame or pong refreshes the deadline; the
	// write pump pings often enough to keep a healthy peer inside the window.
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	// maxMessageSize bounds one inbound frame. Audio arrives as bounded
	// utterance chunks, never as a whole recording.
	maxMessageSize = 1 << 20
)

type WSHandler struct {
	log        *slog.Logger
	registry   *session.SessionRegistry
	upgrader   websocket.Upgrader
	validate   *validator.Validate
	bufferSize int
}

func NewWSHandler(log *slog.Logger, registry *session.SessionRegistry, bufferSize int) *WSHandler {
	return &WSHandler{
		log:      log,
		registry: registry,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			// Origin policy belongs to the deployment, not the engine.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		validate:   validator.New(),
		bufferSize: bufferSize,
	}
}

// ServeHTTP handles GET /ws/meetings/{id}. Binary frames carry audio, text
// frames carry control JSON. The connection is rejected with close code 4000
// when the meeting cannot be validated or the participant not established.
func (h *WSHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	meetingID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		http.Error(w, "invalid meeting id", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("Upgrade failed", "error", err)
		return
	}

	sess, err := h.registry.GetOrCreate(r.Context(), meetingID)
	if err != nil {
		h.reject(conn, err)
		return
	}

	sink := newWSSink(h.bufferSize)
	participant, err := sess.Join(r.Context(), joinRequest(r, sink))
	if err != nil {
		h.reject(conn, err)
		return
	}

	c := &client{
		log:           h.log.With("meeting", meetingID, "participant", participant.ID),
		conn:          conn,
		sink:          sink,
		sess:          sess,
		validate:      h.validate,
		participantID: participant.ID,
		done:          make(chan struct{}),
		pongWait:      pongWait,
		pingPeriod:    pingPeriod,
	}
	go c.writePump()
	c.readPump(r)

	sess.Disconnect(participant.ID)
	if sess.State() == session.Ended && sess.Empty() {
		h.registry.Remove(meetingID)
	}
}

func (h *WSHandler) reject(conn *websocket.Conn, cause error) {
	deadline := time.Now().Add(writeWait)
	msg := websocket.FormatCloseMessage(CloseSessionRejected, cause.Error())
	if err := conn.WriteControl(websocket.CloseMessage, msg, deadline); err != nil {
		h.log.Debug("Close write failed", "error", err)
	}
	_ = conn.Close()
}

func joinRequest(r *http.Request, sink *wsSink) session.JoinRequest {
	q := r.URL.Query()
	req := session.JoinRequest{
		Name:      q.Get("name"),
		Speaking:  q.Get("speaking"),
		Listening: q.Get("listening"),
		Sink:      sink,
	}
	if email := q.Get("email"); email != "" {
		req.Email = lo.ToPtr(email)
	}
	if userID, err := uuid.Parse(q.Get("user_id")); err == nil {
		req.UserID = &userID
	}
	return req
}

// client holds one participant's connection. Reads and the pipeline run on
// the handler goroutine; writes run on a dedicated pump fed by the buffered
// sink, so a slow socket never stalls the session.
type client struct {
	log           *slog.Logger
	conn          *websocket.Conn
	sink          *wsSink
	sess          *session.MeetingSession
	validate      *validator.Validate
	participantID uuid.UUID
	done          chan struct{}
	pongWait      time.Duration
	pingPeriod    time.Duration
}

// readPump enforces liveness: a peer that dies without a close frame trips
// the read deadline instead of leaving the connection half-open forever.
func (c *client) readPump(r *http.Request) {
	defer close(c.done)
	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(c.pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(c.pongWait))
	})
	for {
		messageType, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.log.Debug("Read failed", "error", err)
			}
			return
		}
		// Any frame proves liveness, not only pongs.
		_ = c.conn.SetReadDeadline(time.Now().Add(c.pongWait))
		switch messageType {
		case websocket.BinaryMessage:
			c.sess.HandleAudio(r.Context(), c.participantID, data)
		case websocket.TextMessage:
			c.handleControl(r, data)
		}
	}
}

// controlMessage is the inbound wire shape. Language tags are checked against
// BCP 47; a message failing validation is dropped silently.
type controlMessage struct {
	Type              string `json:"type" validate:"required,oneof=config start_meeting end_meeting"`
	SpeakingLanguage  string `json:"speaking_language" validate:"omitempty,bcp47_language_tag"`
	ListeningLanguage string `json:"listening_language" validate:"omitempty,bcp47_language_tag"`
}

func (c *client) handleControl(r *http.Request, data []byte) {
	var msg controlMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}
	if err := c.validate.Struct(msg); err != nil {
		return
	}
	c.sess.HandleControl(r.Context(), c.participantID, domain.ControlMessage{
		Kind:              domain.ControlKind(msg.Type),
		SpeakingLanguage:  msg.SpeakingLanguage,
		ListeningLanguage: msg.ListeningLanguage,
	})
}

func (c *client) writePump() {
	ticker := time.NewTicker(c.pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.log.Debug("Ping failed", "error", err)
				return
			}
		case e := <-c.sink.events:
			terminal, err := c.write(e)
			if err != nil {
				c.log.Debug("Write failed", "error", err)
				return
			}
			if terminal {
				deadline := time.Now().Add(writeWait)
				msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "meeting ended")
				_ = c.conn.WriteControl(websocket.CloseMessage, msg, deadline)
				return
			}
		}
	}
}

func (c *client) write(e event.SessionEvent) (terminal bool, err error) {
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	wire, audio, terminal := toWireEvent(e)
	if wire == nil {
		return false, nil
	}
	if err = c.conn.WriteJSON(wire); err != nil {
		return false, err
	}
	if len(audio) > 0 {
		// Synthesized speech follows its translation as a raw binary frame.
		err = c.conn.WriteMessage(websocket.BinaryMessage, audio)
	}
	return terminal, err
}

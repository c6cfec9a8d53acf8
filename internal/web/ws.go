package web

import (
	"CodeNarrator/internal/app/narrator"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const (
	wsWriteTimeout = 30 * time.Second
	wsIdleTimeout  = 10 * time.Minute
)

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// wsEvent сообщение клиенту: этап обработки и его данные.
type wsEvent struct {
	Type        string    `json:"type"`
	RequestID   string    `json:"request_id,omitempty"`
	Description string    `json:"description,omitempty"`
	Audio       *audioDTO `json:"audio,omitempty"`
	Error       *errorDTO `json:"error,omitempty"`
}

// handleWS GET /ws: клиент шлёт тот же JSON, что и в /api/describe, сервер отвечает
// событиями describing, description, narrating, audio, error, done.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warnw("ws upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	conn.SetReadLimit(s.maxBodyBytes())
	ctx := r.Context()
	for {
		_ = conn.SetReadDeadline(time.Now().Add(wsIdleTimeout))
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Debugw("ws read", "error", err)
			}
			return
		}

		var in describeRequest
		if err := json.Unmarshal(raw, &in); err != nil {
			_, e := classify(err)
			if !s.writeEvents(conn, wsEvent{Type: string(narrator.StageError), Error: e}, wsEvent{Type: string(narrator.StageDone)}) {
				return
			}
			continue
		}
		req, err := in.toRequest()
		if err != nil {
			_, e := classify(err)
			if !s.writeEvents(conn, wsEvent{Type: string(narrator.StageError), Error: e}, wsEvent{Type: string(narrator.StageDone)}) {
				return
			}
			continue
		}

		writeOK := true
		_, runErr := s.app.Run(ctx, req, func(e narrator.Event) {
			if !writeOK {
				return
			}
			writeOK = s.writeEvents(conn, toWSEvent(e))
		})
		if runErr != nil {
			s.logger.Debugw("ws request finished with error", "error", runErr)
		}
		if !writeOK {
			return
		}
	}
}

func toWSEvent(e narrator.Event) wsEvent {
	out := wsEvent{
		Type:        string(e.Stage),
		RequestID:   e.RequestID,
		Description: e.Description,
		Audio:       toAudioDTO(e.Audio),
	}
	if e.Err != nil {
		_, out.Error = classify(e.Err)
	}
	return out
}

func (s *Server) writeEvents(conn *websocket.Conn, events ...wsEvent) bool {
	for _, e := range events {
		_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
		if err := conn.WriteJSON(e); err != nil {
			s.logger.Debugw("ws write", "error", err)
			return false
		}
	}
	return true
}

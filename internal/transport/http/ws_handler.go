package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"quiz-helper/internal/app"
	"quiz-helper/internal/domain"
)

// WSHandler exposes one private quiz session per websocket connection.
type WSHandler struct {
	service  *app.QuizService
	logger   *zap.Logger
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.QuizService, logger *zap.Logger) *WSHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WSHandler{
		service: service,
		logger:  logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type beginPayload struct {
	Source string `json:"source"`
}

type togglePayload struct {
	Question int `json:"question"`
	Option   int `json:"option"`
}

type gotoPayload struct {
	Question int `json:"question"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
	Kind    string `json:"kind,omitempty"`
}

// ServeWS upgrades HTTP requests to websockets and drives a session with JSON commands.
// An optional `source` query parameter begins the quiz right away.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("ws upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	session := h.service.NewSession()
	defer h.service.EndSession(session.ID())
	log := h.logger.With(zap.String("session", session.ID()))

	if source := r.URL.Query().Get("source"); source != "" {
		if _, err := h.service.Begin(r.Context(), session.ID(), source); err != nil {
			_ = conn.WriteJSON(errorMessage(err))
			return
		}
	}
	if err := conn.WriteJSON(outboundMessage[app.Snapshot]{Type: "state", Payload: session.Snapshot()}); err != nil {
		return
	}

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			log.Debug("ws read ended", zap.Error(err))
			return
		}
		reply := h.handle(r, session, inbound)
		if err := conn.WriteJSON(reply); err != nil {
			log.Warn("ws write error", zap.Error(err))
			return
		}
	}
}

func (h *WSHandler) handle(r *http.Request, session *app.Session, inbound inboundMessage) any {
	var err error
	switch inbound.Type {
	case "begin":
		var payload beginPayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil || payload.Source == "" {
			return outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: "invalid begin payload"}}
		}
		_, err = h.service.Begin(r.Context(), session.ID(), payload.Source)
	case "toggle":
		var payload togglePayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
			return outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: "invalid toggle payload"}}
		}
		_, err = session.Toggle(payload.Question, payload.Option)
	case "goto":
		var payload gotoPayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
			return outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: "invalid goto payload"}}
		}
		err = session.Goto(payload.Question)
	case "next":
		_, err = session.Next()
	case "prev":
		_, err = session.Prev()
	case "submit":
		_, err = session.Submit()
	case "results":
		var summary domain.ResultSummary
		summary, err = session.Results()
		if err == nil {
			return outboundMessage[domain.ResultSummary]{Type: "results", Payload: summary}
		}
	case "correction":
		err = session.Correction()
	case "restart":
		err = session.Restart()
	case "state":
	default:
		return outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: "unsupported message type"}}
	}
	if err != nil {
		return errorMessage(err)
	}
	return outboundMessage[app.Snapshot]{Type: "state", Payload: session.Snapshot()}
}

func errorMessage(err error) outboundMessage[errorPayload] {
	payload := errorPayload{Message: err.Error()}
	switch {
	case domain.IsParseError(err), errors.Is(err, domain.ErrInvalidEncoding):
		payload.Kind = "parse"
	case domain.IsValidationError(err):
		payload.Kind = "validation"
	case errors.Is(err, domain.ErrInvalidTransition):
		payload.Kind = "transition"
	case errors.Is(err, domain.ErrQuizNotFound):
		payload.Kind = "not_found"
	case errors.Is(err, domain.ErrSourceNotAllowed):
		payload.Kind = "forbidden"
	}
	return outboundMessage[errorPayload]{Type: "error", Payload: payload}
}

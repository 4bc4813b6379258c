package http

import (
	"encoding/json"
	"log"
	"net/http"

	"tiered-quiz-service/internal/app"
	"tiered-quiz-service/internal/domain"
	"github.com/gorilla/websocket"
)

// WSHandler streams leaderboard snapshots and accepts answers over a websocket.
type WSHandler struct {
	service  *app.ScoringService
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.ScoringService) *WSHandler {
	return &WSHandler{
		service: service,
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

type answerPayload struct {
	Difficulty    string `json:"difficulty"`
	QuestionIndex int    `json:"question_index"`
	AnswerIndex   int    `json:"answer_index"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// ServeWS upgrades HTTP requests to websockets and wires them into the scoring use cases.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		http.Error(w, "missing user_id", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	updates, cancel, err := h.service.Subscribe(r.Context())
	if err != nil {
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: err.Error()}})
		return
	}
	defer cancel()

	out := newOutbox(16)
	closeSignals := make(chan struct{})
	updatesDone := make(chan struct{})

	// single writer: gorilla connections allow one concurrent writer
	go func() {
		defer close(out.done)
		for msg := range out.ch {
			if err := conn.WriteJSON(msg); err != nil {
				log.Printf("ws write error: %v", err)
				return
			}
		}
	}()

	go func() {
		defer close(updatesDone)
		for {
			select {
			case update, ok := <-updates:
				if !ok {
					return
				}
				select {
				case out.ch <- outboundMessage[any]{Type: "leaderboard", Payload: update}:
				case <-out.done:
					return
				case <-closeSignals:
					return
				}
			case <-closeSignals:
				return
			}
		}
	}()

	for h.handleInbound(r, conn, out, userID) {
	}

	close(closeSignals)
	<-updatesDone
	close(out.ch)
	<-out.done
}

// handleInbound reads and answers one client message. It reports false once
// the connection can no longer be read or written.
func (h *WSHandler) handleInbound(r *http.Request, conn *websocket.Conn, out *outbox, userID string) bool {
	var inbound inboundMessage
	if err := conn.ReadJSON(&inbound); err != nil {
		return false
	}
	switch inbound.Type {
	case "answer":
		var payload answerPayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
			return out.push(outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "invalid answer payload"}})
		}
		result, err := h.service.SubmitAnswer(r.Context(), domain.AnswerSubmission{
			Difficulty:    payload.Difficulty,
			QuestionIndex: payload.QuestionIndex,
			AnswerIndex:   payload.AnswerIndex,
			UserID:        userID,
		})
		if err != nil && isRejection(err) {
			return out.push(outboundMessage[any]{Type: "error", Payload: errorPayload{Message: err.Error()}})
		}
		reply := answerReply{AnswerResult: result}
		if err != nil {
			log.Printf("answer from %s scored without ledger update: %v", userID, err)
			reply.LedgerError = err.Error()
		}
		return out.push(outboundMessage[any]{Type: "answerResult", Payload: reply})
	default:
		return out.push(outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "unsupported message type"}})
	}
}

// answerReply carries the verdict even when the points were not applied.
type answerReply struct {
	domain.AnswerResult
	LedgerError string `json:"ledger_error,omitempty"`
}

// outbox queues messages for the single writer goroutine. done is closed
// when the writer exits.
type outbox struct {
	ch   chan outboundMessage[any]
	done chan struct{}
}

func newOutbox(size int) *outbox {
	return &outbox{
		ch:   make(chan outboundMessage[any], size),
		done: make(chan struct{}),
	}
}

// push queues msg, or reports false if the writer has already stopped.
func (o *outbox) push(msg outboundMessage[any]) bool {
	select {
	case o.ch <- msg:
		return true
	case <-o.done:
		return false
	}
}

package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/coder/websocket"
	"github.com/go-chi/chi/v5"

	"github.com/hupe1980/careermesh/interview"
)

// wsReply is one interviewer or system frame sent to the candidate.
type wsReply struct {
	Role    string   `json:"role"`
	Content string   `json:"content"`
	Score   *float64 `json:"score,omitempty"`
}

// handleInterviewWS upgrades to a WebSocket and relays the interview: the
// opening question is pushed on connect, then each received text frame is
// delivered as a candidate answer. The completing exchange is followed by
// a system frame carrying the score, then the socket closes.
func (h *Handler) handleInterviewWS(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	if sessionID == "" {
		Error(w, http.StatusBadRequest, "session id is required")
		return
	}
	role := r.URL.Query().Get("role")
	company := r.URL.Query().Get("company")

	ws, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		h.logger.Error("websocket accept failed", "error", err, "session_id", sessionID)
		return
	}
	defer func() {
		if closeErr := ws.Close(websocket.StatusNormalClosure, "interview ended"); closeErr != nil {
			h.logger.Debug("websocket close failed", "error", closeErr, "session_id", sessionID)
		}
	}()

	ctx := r.Context()

	ex, err := h.machine.Start(ctx, sessionID, role, company)
	if errors.Is(err, interview.ErrSessionCompleted) {
		h.sendCompleted(ctx, ws, sessionID)
		return
	}
	if err != nil {
		h.logger.Error("interview start failed", "error", err, "session_id", sessionID)
		_ = h.writeJSON(ctx, ws, wsReply{Role: "system", Content: "Interview unavailable, please retry."})
		return
	}
	if err := h.sendExchange(ctx, ws, ex); err != nil {
		return
	}
	if ex.Completed {
		return
	}

	for {
		msgType, data, err := ws.Read(ctx)
		if err != nil {
			h.logger.Info("websocket disconnected", "session_id", sessionID)
			return
		}
		if msgType != websocket.MessageText || len(data) == 0 {
			continue
		}

		ex, err := h.machine.Deliver(ctx, sessionID, role, company, string(data))
		if errors.Is(err, interview.ErrSessionCompleted) {
			h.sendCompleted(ctx, ws, sessionID)
			return
		}
		if errors.Is(err, interview.ErrEmptyDelivery) {
			continue
		}
		if err != nil {
			h.logger.Error("interview delivery failed", "error", err, "session_id", sessionID)
			_ = h.writeJSON(ctx, ws, wsReply{Role: "system", Content: "Interviewer unavailable, please retry."})
			continue
		}

		if err := h.sendExchange(ctx, ws, ex); err != nil {
			return
		}
		if ex.Completed {
			return
		}
	}
}

// sendExchange pushes the interviewer reply and, for the completing
// exchange, the closing system frame with the score.
func (h *Handler) sendExchange(ctx context.Context, ws *websocket.Conn, ex *interview.Exchange) error {
	if err := h.writeJSON(ctx, ws, wsReply{Role: "interviewer", Content: ex.Reply}); err != nil {
		return err
	}
	if ex.Completed {
		score := ex.Score
		return h.writeJSON(ctx, ws, wsReply{Role: "system", Content: "Interview Completed.", Score: &score})
	}
	return nil
}

// sendCompleted pushes the closing system frame for an already completed
// session, including the recorded score when it can be loaded.
func (h *Handler) sendCompleted(ctx context.Context, ws *websocket.Conn, sessionID string) {
	reply := wsReply{Role: "system", Content: "Interview Completed."}
	if res, err := h.machine.Result(ctx, sessionID); err == nil && res.Completed {
		score := res.Score
		reply.Score = &score
	}
	_ = h.writeJSON(ctx, ws, reply)
}

func (h *Handler) writeJSON(ctx context.Context, ws *websocket.Conn, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return ws.Write(ctx, websocket.MessageText, data)
}

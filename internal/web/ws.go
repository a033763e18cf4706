package web

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
)

// askRequest is the client frame posting a question over the socket.
type askRequest struct {
	Question string `json:"question"`
}

// askResponse is the server frame. On success HTML carries a freshly
// rendered message-list fragment; on failure Error carries banner copy.
type askResponse struct {
	Type  string `json:"type"`
	HTML  string `json:"html,omitempty"`
	Error string `json:"error,omitempty"`
}

// askTimeout bounds one question round trip including the AI answer.
const askTimeout = 60 * time.Second

// ThreadSocket upgrades to a websocket and serves ask requests for one
// thread without page reloads. Each question is answered with a
// server-rendered fragment of the full updated message list.
func (h *Handler) ThreadSocket(w http.ResponseWriter, r *http.Request) {
	threadID, err := urlID(r, "threadID")
	if err != nil {
		http.NotFound(w, r)
		return
	}
	user := currentUser(r)

	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket accept failed", "error", err)
		return
	}
	defer conn.Close(websocket.StatusInternalError, "closing")

	h.metrics.WSOpened()
	defer h.metrics.WSClosed()
	h.logger.Info("thread socket opened", "thread_id", threadID, "user_id", user.ID)

	ctx := r.Context()
	for {
		var req askRequest
		if err := wsjson.Read(ctx, conn, &req); err != nil {
			// Normal close or client gone.
			h.logger.Debug("thread socket closed", "thread_id", threadID, "error", err)
			return
		}

		question := strings.TrimSpace(req.Question)
		if question == "" {
			continue
		}

		askCtx, cancel := context.WithTimeout(ctx, askTimeout)
		messages, err := h.client.AskQuestion(askCtx, threadID, question, user.ID)
		cancel()

		if err != nil {
			h.logger.Warn("socket ask failed", "thread_id", threadID, "error", err)
			resp := askResponse{Type: "error", Error: errorText(err, "Failed to send message. Please try again.")}
			if err := wsjson.Write(ctx, conn, resp); err != nil {
				return
			}
			continue
		}

		fragment, err := h.renderFragment("thread.html.tmpl", "messages", threadPage{
			ThreadID: threadID,
			Messages: messages,
		})
		if err != nil {
			h.logger.Error("rendering message fragment", "error", err)
			resp := askResponse{Type: "error", Error: "Failed to render messages"}
			if err := wsjson.Write(ctx, conn, resp); err != nil {
				return
			}
			continue
		}

		if err := wsjson.Write(ctx, conn, askResponse{Type: "messages", HTML: fragment}); err != nil {
			return
		}
	}
}

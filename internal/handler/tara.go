package handler

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/pavelanni/wellness/internal/companion"
	"github.com/pavelanni/wellness/internal/model"
)

type sessionResponse struct {
	Session  model.CompanionSession `json:"session"`
	Messages []model.ChatMessage    `json:"messages"`
}

type messageRequest struct {
	Content string `json:"content"`
}

type messageResponse struct {
	Message model.ChatMessage `json:"message"`
	Reply   model.ChatMessage `json:"reply"`
	Topic   string            `json:"topic,omitempty"`
}

// ownSession loads the session named in the URL and checks it belongs to the
// current user.
func (h *Handler) ownSession(r *http.Request) (*model.CompanionSession, error) {
	user := model.UserFromContext(r.Context())
	cs, err := h.repo.GetCompanionSession(chi.URLParam(r, "id"))
	if err != nil {
		return nil, err
	}
	if cs.UserID != user.ID {
		return nil, errForbidden
	}
	return cs, nil
}

func (h *Handler) addMessage(sessionID string, sender model.Sender, content string) (model.ChatMessage, error) {
	msg := model.ChatMessage{
		SessionID: sessionID,
		Sender:    sender,
		Content:   content,
		CreatedAt: h.now().UTC(),
	}
	id, err := h.repo.AddChatMessage(msg)
	if err != nil {
		return msg, fmt.Errorf("add %s message: %w", sender, err)
	}
	msg.ID = id
	return msg, nil
}

func (h *Handler) handleStartSession(w http.ResponseWriter, r *http.Request) {
	user := model.UserFromContext(r.Context())
	cs, err := h.repo.StartCompanionSession(user.ID, h.now().UTC())
	if err != nil {
		h.fail(w, r, fmt.Errorf("start session: %w", err))
		return
	}
	welcome, err := h.addMessage(cs.ID, model.SenderTara, h.tara.Welcome(user.Name))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	slog.Info("companion session started", "user_id", user.ID, "session_id", cs.ID)

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, sessionResponse{Session: cs, Messages: []model.ChatMessage{welcome}})
}

func (h *Handler) handleGetSession(w http.ResponseWriter, r *http.Request) {
	cs, err := h.ownSession(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	msgs, err := h.repo.GetChatMessages(cs.ID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	render.JSON(w, r, sessionResponse{Session: *cs, Messages: msgs})
}

func (h *Handler) handleMessage(w http.ResponseWriter, r *http.Request) {
	user := model.UserFromContext(r.Context())
	if !h.chatLimiters.allow(user.ID) {
		h.writeError(w, r, http.StatusTooManyRequests, "TooManyRequests")
		return
	}

	cs, err := h.ownSession(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if cs.Completed {
		h.writeError(w, r, http.StatusConflict, "")
		return
	}

	var req messageRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		h.writeError(w, r, http.StatusBadRequest, "")
		return
	}
	reply, err := h.tara.Reply(req.Content)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	sent := model.ChatMessage{
		SessionID: cs.ID,
		Sender:    model.SenderUser,
		Content:   req.Content,
		CreatedAt: h.now().UTC(),
	}
	var gone error
	if h.config.SimulateTyping {
		gone = h.sleep(r, companion.TypingDelay(h.rnd))
	}
	answer := model.ChatMessage{
		SessionID: cs.ID,
		Sender:    model.SenderTara,
		Content:   reply,
		CreatedAt: h.now().UTC(),
	}
	sent, answer, err = h.repo.AddChatExchange(sent, answer)
	if err != nil {
		h.fail(w, r, fmt.Errorf("add chat exchange: %w", err))
		return
	}
	if gone != nil {
		slog.Debug("client left before reply", "session_id", cs.ID, "error", gone)
		return
	}
	render.JSON(w, r, messageResponse{Message: sent, Reply: answer, Topic: h.tara.Topic(req.Content)})
}

func (h *Handler) handleEndSession(w http.ResponseWriter, r *http.Request) {
	cs, err := h.ownSession(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	ended, err := h.repo.EndCompanionSession(cs.ID, h.now().UTC())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	slog.Info("companion session ended", "session_id", ended.ID, "duration", ended.Duration)
	render.JSON(w, r, ended)
}

package inbox

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/Vovarama1992/tg-translate-bridge/internal/ai"
)

const secretHeader = "X-Telegram-Bot-Api-Secret-Token"

type Handler struct {
	svc      Service
	secret   string
	validate *validator.Validate
	log      logrus.FieldLogger
}

// NewHandler wires the HTTP surface. An empty webhookSecret disables the check.
func NewHandler(svc Service, webhookSecret string, log logrus.FieldLogger) *Handler {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Handler{
		svc:      svc,
		secret:   webhookSecret,
		validate: validator.New(),
		log:      log.WithField("component", "http"),
	}
}

type replyRequest struct {
	Text string `json:"text" validate:"required"`
}

type translateRequest struct {
	Text string `json:"text" validate:"required"`
	From string `json:"from" validate:"required,oneof=ko en"`
	To   string `json:"to" validate:"required,oneof=ko en"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Hint    string `json:"hint,omitempty"`
}

// HandleWebhook takes Telegram updates. Always acks so Telegram does not redeliver.
func (h *Handler) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	if h.secret != "" && r.Header.Get(secretHeader) != h.secret {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "Unauthorized"})
		return
	}

	var u tgbotapi.Update
	if err := json.NewDecoder(r.Body).Decode(&u); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid json"})
		return
	}

	h.svc.HandleInbound(r.Context(), u)
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (h *Handler) WebhookStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Telegram webhook endpoint",
		"status":  "ready",
	})
}

// ListMessages serves either the conversation list or, with ?chat_id=, one thread.
func (h *Handler) ListMessages(w http.ResponseWriter, r *http.Request) {
	if chatID := r.URL.Query().Get("chat_id"); chatID != "" {
		writeJSON(w, http.StatusOK, map[string]any{"messages": h.svc.ListMessages(chatID)})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"conversations": h.svc.ListConversations()})
}

func (h *Handler) GetConversation(w http.ResponseWriter, r *http.Request) {
	chatID := chi.URLParam(r, "chatID")
	writeJSON(w, http.StatusOK, map[string]any{"messages": h.svc.ListMessages(chatID)})
}

func (h *Handler) Reply(w http.ResponseWriter, r *http.Request) {
	chatID := chi.URLParam(r, "chatID")

	var req replyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || h.validate.Struct(req) != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Message text is required"})
		return
	}

	msg, err := h.svc.SendReply(r.Context(), chatID, req.Text)
	if err != nil {
		status := http.StatusBadGateway
		resp := errorResponse{Error: "Failed to send message", Message: err.Error(), Hint: "Check server logs for details"}

		var relayErr *Error
		if errors.As(err, &relayErr) {
			resp.Hint = relayErr.Hint()
			if relayErr.Reason == ReasonInvalidChatID {
				status = http.StatusBadRequest
			}
		} else {
			status = http.StatusInternalServerError
		}

		h.log.WithError(err).WithField("chat_id", chatID).Error("reply failed")
		writeJSON(w, status, resp)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": msg})
}

func (h *Handler) Translate(w http.ResponseWriter, r *http.Request) {
	var req translateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid json"})
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error:   "text, from, and to are required; from and to must be \"ko\" or \"en\"",
			Message: err.Error(),
		})
		return
	}

	out, err := h.svc.Translate(r.Context(), req.Text, ai.Lang(req.From), ai.Lang(req.To))
	if err != nil {
		h.log.WithError(err).Error("translate failed")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Translation failed"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"translated": out})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

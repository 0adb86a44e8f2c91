package inbox

import "github.com/go-chi/chi/v5"

func RegisterRoutes(r chi.Router, h *Handler) {
	r.Route("/api", func(r chi.Router) {
		r.Post("/webhook", h.HandleWebhook)
		r.Get("/webhook", h.WebhookStatus)

		r.Get("/messages", h.ListMessages)
		r.Get("/messages/{chatID}", h.GetConversation)
		r.Post("/messages/{chatID}/reply", h.Reply)

		r.Post("/translate", h.Translate)
	})
}

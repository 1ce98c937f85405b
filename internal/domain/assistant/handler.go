package assistant

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, s *Session) {
	r.Route("/assistant/messages", func(ar chi.Router) {
		ar.Get("/", listMessagesHandler(s))
		ar.Post("/", sendMessageHandler(s))
		ar.Delete("/", resetHandler(s))
	})
}

type sendMessageRequest struct {
	Text string `json:"text"`
}

type messagesResponse struct {
	Pending  bool      `json:"pending"`
	Messages []Message `json:"messages"`
}

type sendMessageResponse struct {
	Reply    Message   `json:"reply"`
	Messages []Message `json:"messages"`
}

func listMessagesHandler(s *Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, messagesResponse{Pending: s.Pending(), Messages: s.Messages()})
	}
}

// sendMessageHandler godoc
// @Summary Enviar mensaje al asistente
// @Description Agrega el mensaje del usuario y espera una única respuesta. Si el proveedor falla la respuesta es el texto de fallback (nunca 5xx).
// @Tags assistant
// @Accept json
// @Produce json
// @Param payload body sendMessageRequest true "Texto del usuario"
// @Success 200 {object} sendMessageResponse
// @Failure 400 {string} string "mensaje vacío"
// @Failure 409 {string} string "respuesta pendiente"
// @Router /assistant/messages [post]
func sendMessageHandler(s *Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req sendMessageRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		reply, err := s.Send(r.Context(), req.Text)
		if err != nil {
			switch {
			case errors.Is(err, ErrEmptyInput):
				http.Error(w, err.Error(), http.StatusBadRequest)
			case errors.Is(err, ErrPending):
				http.Error(w, err.Error(), http.StatusConflict)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		writeJSON(w, http.StatusOK, sendMessageResponse{Reply: reply, Messages: s.Messages()})
	}
}

func resetHandler(s *Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.Reset()
		writeJSON(w, http.StatusOK, messagesResponse{Pending: false, Messages: s.Messages()})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

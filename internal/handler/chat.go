package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/tradepilot/tradepilot/internal/models"
	"github.com/tradepilot/tradepilot/internal/pipeline"
	"github.com/tradepilot/tradepilot/internal/security"
	"github.com/tradepilot/tradepilot/internal/service"
)

// ChatHandler handles POST /api/v1/chat
type ChatHandler struct {
	pipe    *pipeline.Pipeline
	history *service.HistoryStore
}

func NewChatHandler(pipe *pipeline.Pipeline, history *service.HistoryStore) *ChatHandler {
	return &ChatHandler{pipe: pipe, history: history}
}

// Chat answers a natural-language question about the trading data.
//
// Input errors and safety rejections return client errors without touching
// the database. Every other failure degrades to a conversational answer with
// a diagnostic note, never a hard failure.
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req models.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		models.WriteError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.Message == "" {
		models.WriteError(w, http.StatusBadRequest, "message is required")
		return
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	apiKey := r.Header.Get("X-API-Key")

	res, err := h.pipe.Answer(r.Context(), req.Message, h.history.Get(sessionID), apiKey)
	if err != nil {
		if errors.Is(err, security.ErrNotReadOnly) {
			models.WriteError(w, http.StatusBadRequest, "Only SELECT queries are allowed for safety.")
			return
		}

		log.Error().Err(err).Msg("pipeline failed, falling back to conversational answer")
		reply, fbErr := h.pipe.Fallback(r.Context(), req.Message)
		if fbErr != nil {
			log.Error().Err(fbErr).Msg("fallback completion failed")
			models.WriteError(w, http.StatusInternalServerError, "unable to answer: "+fbErr.Error())
			return
		}
		models.WriteJSON(w, http.StatusOK, models.FallbackResponse{
			Response: reply,
			Note:     "Answered without database query - check server logs",
			Error:    err.Error(),
		})
		return
	}

	h.history.Append(sessionID, models.ConversationEntry{
		Question:      req.Message,
		SQLQuery:      res.SQLQuery,
		ResultSummary: pipeline.Summarize(res.Rows),
	})

	models.WriteJSON(w, http.StatusOK, models.ChatResponse{
		Response:    res.Response,
		SQLQuery:    res.SQLQuery,
		RawResults:  res.Rows,
		ChartConfig: res.Chart,
		SessionID:   sessionID,
	})
}
